/*
Copyright © 2026 the GyroKit authors.
This file is part of GyroKit.

GyroKit is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GyroKit is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GyroKit.  If not, see <http://www.gnu.org/licenses/>.
*/

package gyrokit

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ComplexArray is a dense row-major multidimensional array of complex
// values, the complex analogue of sparse.DenseArray.
type ComplexArray struct {
	Shape    []int
	Elements []complex128
}

// ZerosComplex returns a zeroed complex array with the given shape.
func ZerosComplex(shape ...int) *ComplexArray {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &ComplexArray{
		Shape:    append([]int(nil), shape...),
		Elements: make([]complex128, n),
	}
}

// Index1d converts a multidimensional index to the flat element index.
func (a *ComplexArray) Index1d(index ...int) int {
	if len(index) != len(a.Shape) {
		panic(fmt.Sprintf("gyrokit: array is %d-dimensional but index is %d-dimensional",
			len(a.Shape), len(index)))
	}
	idx := 0
	for i, ix := range index {
		if ix < 0 || ix >= a.Shape[i] {
			panic(fmt.Sprintf("gyrokit: index %v out of range for shape %v", index, a.Shape))
		}
		idx = idx*a.Shape[i] + ix
	}
	return idx
}

// Get returns the value at the given index.
func (a *ComplexArray) Get(index ...int) complex128 { return a.Elements[a.Index1d(index...)] }

// Set sets the value at the given index.
func (a *ComplexArray) Set(v complex128, index ...int) { a.Elements[a.Index1d(index...)] = v }

// Real returns the real parts as a DenseArray of the same shape.
func (a *ComplexArray) Real() *sparse.DenseArray {
	out := sparse.ZerosDense(a.Shape...)
	for i, v := range a.Elements {
		out.Elements[i] = real(v)
	}
	return out
}

// Imag returns the imaginary parts as a DenseArray of the same shape.
func (a *ComplexArray) Imag() *sparse.DenseArray {
	out := sparse.ZerosDense(a.Shape...)
	for i, v := range a.Elements {
		out.Elements[i] = imag(v)
	}
	return out
}

// Copy returns a deep copy.
func (a *ComplexArray) Copy() *ComplexArray {
	return &ComplexArray{
		Shape:    append([]int(nil), a.Shape...),
		Elements: append([]complex128(nil), a.Elements...),
	}
}

// Coord is one labeled dataset dimension: either a numeric axis (time,
// wavenumber, angle) or a categorical one (moment, field, species names).
type Coord struct {
	Name   string
	Values []float64
	Labels []string
}

// Len returns the coordinate length.
func (c *Coord) Len() int {
	if c.Labels != nil {
		return len(c.Labels)
	}
	return len(c.Values)
}

// Variable is a real-valued dataset variable defined over named
// coordinates.
type Variable struct {
	Name string
	Dims []string
	Data *sparse.DenseArray
}

// ComplexVariable is a complex-valued dataset variable defined over named
// coordinates.
type ComplexVariable struct {
	Name string
	Dims []string
	Data *ComplexArray
}

// Dataset is a collection of labeled multidimensional variables sharing a
// set of named coordinates, with scalar attributes, in the spirit of a
// NetCDF file. Simulation output readers return their results as a
// Dataset.
type Dataset struct {
	coordOrder []string
	coords     map[string]*Coord
	varOrder   []string
	vars       map[string]*Variable
	cvarOrder  []string
	cvars      map[string]*ComplexVariable
	attrOrder  []string
	attrs      map[string]interface{}
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		coords: make(map[string]*Coord),
		vars:   make(map[string]*Variable),
		cvars:  make(map[string]*ComplexVariable),
		attrs:  make(map[string]interface{}),
	}
}

// AddCoord adds a numeric coordinate.
func (d *Dataset) AddCoord(name string, values []float64) error {
	if _, ok := d.coords[name]; ok {
		return fmt.Errorf("gyrokit: dataset already has coordinate %q", name)
	}
	d.coords[name] = &Coord{Name: name, Values: values}
	d.coordOrder = append(d.coordOrder, name)
	return nil
}

// AddLabelCoord adds a categorical coordinate.
func (d *Dataset) AddLabelCoord(name string, labels []string) error {
	if _, ok := d.coords[name]; ok {
		return fmt.Errorf("gyrokit: dataset already has coordinate %q", name)
	}
	d.coords[name] = &Coord{Name: name, Labels: labels}
	d.coordOrder = append(d.coordOrder, name)
	return nil
}

// Coord returns the named coordinate, or nil.
func (d *Dataset) Coord(name string) *Coord { return d.coords[name] }

// Coords returns the coordinate names in insertion order.
func (d *Dataset) Coords() []string { return d.coordOrder }

// SetAttr sets a scalar attribute. Values must be a string, int, or
// float64 so they survive a NetCDF round trip.
func (d *Dataset) SetAttr(name string, v interface{}) {
	if _, ok := d.attrs[name]; !ok {
		d.attrOrder = append(d.attrOrder, name)
	}
	d.attrs[name] = v
}

// Attr returns the named attribute value, or nil.
func (d *Dataset) Attr(name string) interface{} { return d.attrs[name] }

func (d *Dataset) checkDims(name string, dims []string, shape []int) error {
	if len(dims) != len(shape) {
		return fmt.Errorf("gyrokit: variable %q: %d dims but %d-dimensional data", name, len(dims), len(shape))
	}
	for i, dim := range dims {
		c, ok := d.coords[dim]
		if !ok {
			return fmt.Errorf("gyrokit: variable %q: unknown coordinate %q", name, dim)
		}
		if c.Len() != shape[i] {
			return fmt.Errorf("gyrokit: variable %q: coordinate %q has length %d but data axis %d has length %d",
				name, dim, c.Len(), i, shape[i])
		}
	}
	return nil
}

// AddVariable adds a real-valued variable. Every dim must name an
// existing coordinate whose length matches the corresponding data axis.
func (d *Dataset) AddVariable(name string, dims []string, data *sparse.DenseArray) error {
	if _, ok := d.vars[name]; ok {
		return fmt.Errorf("gyrokit: dataset already has variable %q", name)
	}
	if err := d.checkDims(name, dims, data.Shape); err != nil {
		return err
	}
	d.vars[name] = &Variable{Name: name, Dims: append([]string(nil), dims...), Data: data}
	d.varOrder = append(d.varOrder, name)
	return nil
}

// AddComplexVariable adds a complex-valued variable.
func (d *Dataset) AddComplexVariable(name string, dims []string, data *ComplexArray) error {
	if _, ok := d.cvars[name]; ok {
		return fmt.Errorf("gyrokit: dataset already has variable %q", name)
	}
	if err := d.checkDims(name, dims, data.Shape); err != nil {
		return err
	}
	d.cvars[name] = &ComplexVariable{Name: name, Dims: append([]string(nil), dims...), Data: data}
	d.cvarOrder = append(d.cvarOrder, name)
	return nil
}

// Variable returns the named real variable, or nil.
func (d *Dataset) Variable(name string) *Variable { return d.vars[name] }

// ComplexVariable returns the named complex variable, or nil.
func (d *Dataset) ComplexVariable(name string) *ComplexVariable { return d.cvars[name] }

// Variables returns the real variable names in insertion order.
func (d *Dataset) Variables() []string { return d.varOrder }

// ComplexVariables returns the complex variable names in insertion order.
func (d *Dataset) ComplexVariables() []string { return d.cvarOrder }

// NetCDF layout: each numeric coordinate becomes a dimension plus a
// same-named variable; categorical coordinates become a dimension plus a
// "<name>_labels" global attribute holding the comma-joined labels.
// Complex variables are stored as "<name>_real"/"<name>_imag" pairs.

const labelAttrSuffix = "_labels"

// WriteNetCDF writes the dataset to the named file in NetCDF classic
// format.
func (d *Dataset) WriteNetCDF(filename string) error {
	dims := make([]string, 0, len(d.coordOrder))
	lengths := make([]int, 0, len(d.coordOrder))
	for _, name := range d.coordOrder {
		dims = append(dims, name)
		lengths = append(lengths, d.coords[name].Len())
	}
	h := cdf.NewHeader(dims, lengths)

	for _, name := range d.coordOrder {
		c := d.coords[name]
		if c.Labels != nil {
			h.AddAttribute("", name+labelAttrSuffix, strings.Join(c.Labels, ","))
			continue
		}
		h.AddVariable(name, []string{name}, []float64{0})
	}
	for _, name := range d.varOrder {
		h.AddVariable(name, d.vars[name].Dims, []float64{0})
	}
	for _, name := range d.cvarOrder {
		v := d.cvars[name]
		h.AddVariable(name+"_real", v.Dims, []float64{0})
		h.AddVariable(name+"_imag", v.Dims, []float64{0})
	}
	for _, name := range d.attrOrder {
		// NetCDF attributes are strings or slices.
		switch v := d.attrs[name].(type) {
		case int:
			h.AddAttribute("", name, []int32{int32(v)})
		case bool:
			b := int32(0)
			if v {
				b = 1
			}
			h.AddAttribute("", name, []int32{b})
		case float64:
			h.AddAttribute("", name, []float64{v})
		default:
			h.AddAttribute("", name, fmt.Sprint(v))
		}
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return fmt.Errorf("gyrokit: invalid NetCDF header: %v", errs[0])
	}

	ff, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("gyrokit: creating NetCDF file: %w", err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("gyrokit: creating NetCDF file: %w", err)
	}

	write := func(name string, data []float64) error {
		if _, err := f.Writer(name, nil, nil).Write(data); err != nil && err != io.EOF {
			return fmt.Errorf("gyrokit: writing NetCDF variable %s: %w", name, err)
		}
		return nil
	}
	for _, name := range d.coordOrder {
		c := d.coords[name]
		if c.Labels != nil {
			continue
		}
		if err := write(name, c.Values); err != nil {
			return err
		}
	}
	for _, name := range d.varOrder {
		if err := write(name, d.vars[name].Data.Elements); err != nil {
			return err
		}
	}
	for _, name := range d.cvarOrder {
		v := d.cvars[name]
		if err := write(name+"_real", v.Data.Real().Elements); err != nil {
			return err
		}
		if err := write(name+"_imag", v.Data.Imag().Elements); err != nil {
			return err
		}
	}
	return ff.Close()
}

// ReadNetCDF reads a dataset previously written by WriteNetCDF.
func ReadNetCDF(filename string) (*Dataset, error) {
	ff, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("gyrokit: opening NetCDF file: %w", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("gyrokit: opening NetCDF file: %w", err)
	}
	h := f.Header

	d := NewDataset()

	readVar := func(name string) (*sparse.DenseArray, error) {
		lengths := h.Lengths(name)
		n := 1
		for _, l := range lengths {
			n *= l
		}
		buf := make([]float64, n)
		if _, err := f.Reader(name, nil, nil).Read(buf); err != nil {
			return nil, fmt.Errorf("gyrokit: reading NetCDF variable %s: %w", name, err)
		}
		arr := sparse.ZerosDense(lengths...)
		copy(arr.Elements, buf)
		return arr, nil
	}

	// Coordinate variables are the ones whose single dimension shares
	// their name; label coordinates come from global attributes.
	isCoord := make(map[string]bool)
	for _, name := range h.Variables() {
		dims := h.Dimensions(name)
		if len(dims) == 1 && dims[0] == name {
			arr, err := readVar(name)
			if err != nil {
				return nil, err
			}
			if err := d.AddCoord(name, arr.Elements); err != nil {
				return nil, err
			}
			isCoord[name] = true
		}
	}
	for _, attr := range h.Attributes("") {
		val := h.GetAttribute("", attr)
		if strings.HasSuffix(attr, labelAttrSuffix) {
			name := strings.TrimSuffix(attr, labelAttrSuffix)
			labels := strings.Split(fmt.Sprint(val), ",")
			if err := d.AddLabelCoord(name, labels); err != nil {
				return nil, err
			}
			continue
		}
		switch v := val.(type) {
		case []int32:
			if len(v) == 1 {
				d.SetAttr(attr, int(v[0]))
				continue
			}
		case []float64:
			if len(v) == 1 {
				d.SetAttr(attr, v[0])
				continue
			}
		}
		d.SetAttr(attr, val)
	}

	done := make(map[string]bool)
	for _, name := range h.Variables() {
		if isCoord[name] || done[name] {
			continue
		}
		if strings.HasSuffix(name, "_real") {
			base := strings.TrimSuffix(name, "_real")
			re, err := readVar(name)
			if err != nil {
				return nil, err
			}
			im, err := readVar(base + "_imag")
			if err != nil {
				return nil, err
			}
			arr := ZerosComplex(re.Shape...)
			for i := range arr.Elements {
				arr.Elements[i] = complex(re.Elements[i], im.Elements[i])
			}
			if err := d.AddComplexVariable(base, h.Dimensions(name), arr); err != nil {
				return nil, err
			}
			done[name] = true
			done[base+"_imag"] = true
			continue
		}
		if strings.HasSuffix(name, "_imag") {
			continue // picked up with its _real partner
		}
		arr, err := readVar(name)
		if err != nil {
			return nil, err
		}
		if err := d.AddVariable(name, h.Dimensions(name), arr); err != nil {
			return nil, err
		}
	}
	return d, nil
}
