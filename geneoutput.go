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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// geneFieldNames are the electromagnetic fields GENE evolves, in output
// order; a run with n_fields = n writes the first n.
var geneFieldNames = []string{"phi", "apar", "bpar"}

// geneMomentNames are the flux moments recorded in the nrg file.
var geneMomentNames = []string{"particle", "energy", "momentum"}

var geneFilePattern = regexp.MustCompile(`^(parameters|field|nrg|omega)_(\d{4})$`)

// FindGENEFiles locates the members of a GENE output file set. path may
// be a run directory, in which case the "prefix.dat" scheme is tried
// first and the "prefix_0000" scheme second, or any one member file of
// the form prefix_####, in which case its siblings with the same suffix
// are looked up. The parameters file is mandatory; a field file with a
// ".flt" extension is accepted when no plain field file exists.
func FindGENEFiles(path string) (map[string]string, error) {
	prefixes := []string{"parameters", "field", "nrg", "omega"}

	var dir, delim, suffix string
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		dir = path
		delim, suffix = ".", "dat"
		for _, p := range prefixes {
			if _, err := os.Stat(filepath.Join(dir, p+".dat")); err != nil {
				delim, suffix = "_", "0000"
				break
			}
		}
	} else {
		dir = filepath.Dir(path)
		m := geneFilePattern.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			return nil, &FormatMismatchError{File: path, Code: "GENE"}
		}
		delim, suffix = "_", m[2]
	}

	files := make(map[string]string)
	for _, p := range prefixes {
		name := filepath.Join(dir, p+delim+suffix)
		if _, err := os.Stat(name); err == nil {
			files[p] = name
		}
	}
	if len(files) == 0 {
		return nil, &MissingFileError{Dir: dir, Name: "parameters" + delim + suffix}
	}
	if _, ok := files["parameters"]; !ok {
		return nil, &MissingFileError{Dir: dir, Name: "parameters" + delim + suffix}
	}
	if _, ok := files["field"]; !ok {
		if name := filepath.Join(dir, "field"+delim+suffix+".flt"); fileExists(name) {
			files["field"] = name
		}
	}
	return files, nil
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// VerifyGENEOutput checks that path identifies a readable GENE output
// file set.
func VerifyGENEOutput(path string) error {
	_, err := FindGENEFiles(path)
	return err
}

// InferGENEPath guesses the output file set belonging to a GENE input
// file: name_#### input files map to parameters_#### in the same
// directory, anything else to the directory itself.
func InferGENEPath(inputFile string) string {
	if m := regexp.MustCompile(`(\d{4})`).FindString(filepath.Base(inputFile)); m != "" {
		return filepath.Join(filepath.Dir(inputFile), "parameters_"+m)
	}
	return filepath.Dir(inputFile)
}

// geneLayout is the decoded grid shape of one run: the raw file layout
// (nx, nz) together with the dataset layout, which differs for linear
// runs where the kx modes are remapped onto an extended ballooning angle.
type geneLayout struct {
	ntime, nx, nz    int
	nkx, nky, ntheta int
	nfield, nspecies int
	linear           bool
}

// ReadGENEOutput reads a GENE output file set into a labeled Dataset with
// coordinates (time, kx, ky, theta, energy, pitch, moment, field,
// species) and variables "fields" (complex), "fluxes", and for linear
// runs "growth_rate"/"mode_frequency". path is a run directory or any
// member file; see FindGENEFiles.
func ReadGENEOutput(path string) (*Dataset, error) {
	return ReadGENEOutputDownsized(path, 1)
}

// ReadGENEOutputDownsized is ReadGENEOutput keeping only every
// downsize-th stored field time point.
func ReadGENEOutputDownsized(path string, downsize int) (*Dataset, error) {
	if downsize < 1 {
		return nil, fmt.Errorf("gyrokit: downsize must be positive, got %d", downsize)
	}
	files, err := FindGENEFiles(path)
	if err != nil {
		return nil, err
	}
	params, err := ReadGENEParameters(files["parameters"])
	if err != nil {
		return nil, err
	}
	params.Downsize = downsize

	ds, layout, err := initGENEDataset(params, files)
	if err != nil {
		return nil, err
	}

	var fields *ComplexArray
	if fieldFile, ok := files["field"]; ok {
		var times []float64
		fields, times, err = readGENEFields(fieldFile, params, layout)
		if err != nil {
			return nil, err
		}
		// The stored times supersede the cadence-derived estimate.
		copy(ds.Coord("time").Values, times)
		if err := ds.AddComplexVariable("fields",
			[]string{"field", "theta", "kx", "ky", "time"}, fields); err != nil {
			return nil, err
		}
	}

	fluxes, err := readGENEFluxes(files, params, layout)
	if err != nil {
		return nil, err
	}
	if err := ds.AddVariable("fluxes",
		[]string{"species", "moment", "field", "time"}, fluxes); err != nil {
		return nil, err
	}

	if layout.linear {
		if fields != nil {
			if err := setEigenvaluesFromFields(ds, fields); err != nil {
				return nil, err
			}
		} else if omegaFile, ok := files["omega"]; ok {
			if err := setEigenvaluesFromOmega(ds, omegaFile, layout); err != nil {
				return nil, err
			}
		}
	}
	return ds, nil
}

// initGENEDataset derives the coordinate grids from the parameters file.
// The time axis length follows the field-output cadence; the final point
// is only present when the run hit its simulation time limit, which the
// last time recorded in the nrg file reveals.
func initGENEDataset(p *GENEParameters, files map[string]string) (*Dataset, *geneLayout, error) {
	l := &geneLayout{
		nx:       p.NX0(),
		nz:       p.NZ0(),
		nky:      p.NKy0(),
		nfield:   p.NFields(),
		linear:   p.IsLinear(),
		nspecies: len(p.SpeciesNames()),
	}
	if l.nfield > len(geneFieldNames) {
		l.nfield = len(geneFieldNames)
	}

	l.ntime = p.Steps()/(p.Downsize*p.IstepField()) + 1
	if nrg, ok := files["nrg"]; ok {
		lastTime, err := lastNRGTime(nrg, l.nspecies)
		if err != nil {
			return nil, nil, err
		}
		if lastTime == p.SimTimeLim() {
			l.ntime++
		}
	}

	time := make([]float64, l.ntime)
	if l.ntime > 1 {
		floats.Span(time, 0, p.StepTime()*float64(l.ntime-1))
	}

	theta := make([]float64, l.nz)
	for i := range theta {
		theta[i] = -math.Pi + float64(i)*2*math.Pi/float64(l.nz)
	}

	var kx, ky []float64
	if l.linear {
		// Linear runs couple the kx modes into one extended ballooning
		// structure: theta gains a 2 pi segment per radial connection.
		l.ntheta = l.nz * (l.nx - 1)
		ball := make([]float64, 0, l.ntheta)
		for i := 0; i < l.nx-1; i++ {
			segment := float64(i - l.nx/2 + 1)
			for _, th := range theta {
				ball = append(ball, th+segment*2*math.Pi)
			}
		}
		theta = ball
		ky = []float64{p.KyMin()}
		kx = []float64{0}
		l.nkx = 1
	} else {
		l.ntheta = l.nz
		l.nkx = l.nx
		ky = make([]float64, l.nky)
		if l.nky > 1 {
			floats.Span(ky, 0, p.KyMin()*float64(l.nky-1))
		}
		// Real-FFT kx layout: 0, dkx, ..., then the negative frequencies.
		dkx := 2 * math.Pi / p.Lx()
		kx = make([]float64, l.nkx)
		for i := range kx {
			if float64(i) < float64(l.nkx)/2+1 {
				kx[i] = float64(i) * dkx
			} else {
				kx[i] = float64(i-l.nkx) * dkx
			}
		}
	}

	energy := make([]float64, p.NV0())
	if len(energy) > 1 {
		floats.Span(energy, -1, 1)
	}
	pitch := make([]float64, p.NW0())
	if len(pitch) > 1 {
		floats.Span(pitch, -1, 1)
	}

	ds := NewDataset()
	for _, c := range []struct {
		name   string
		values []float64
	}{
		{"time", time}, {"kx", kx}, {"ky", ky}, {"theta", theta},
		{"energy", energy}, {"pitch", pitch},
	} {
		if err := ds.AddCoord(c.name, c.values); err != nil {
			return nil, nil, err
		}
	}
	if err := ds.AddLabelCoord("moment", geneMomentNames); err != nil {
		return nil, nil, err
	}
	if err := ds.AddLabelCoord("field", geneFieldNames[:l.nfield]); err != nil {
		return nil, nil, err
	}
	if err := ds.AddLabelCoord("species", p.SpeciesNames()); err != nil {
		return nil, nil, err
	}

	ds.SetAttr("ntime", l.ntime)
	ds.SetAttr("nkx", l.nkx)
	ds.SetAttr("nky", l.nky)
	ds.SetAttr("ntheta", l.ntheta)
	ds.SetAttr("nenergy", p.NV0())
	ds.SetAttr("npitch", p.NW0())
	ds.SetAttr("nmoment", len(geneMomentNames))
	ds.SetAttr("nfield", l.nfield)
	ds.SetAttr("nspecies", l.nspecies)
	ds.SetAttr("linear", l.linear)
	return ds, l, nil
}

// lastNRGTime returns the time stamp of the final block in an nrg file.
// Each block is one time line followed by one line per species.
func lastNRGTime(filename string, nspecies int) (float64, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("gyrokit: reading nrg file: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	idx := len(lines) - (nspecies + 1)
	if idx < 0 {
		return 0, fmt.Errorf("gyrokit: nrg file %s is truncated", filename)
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(lines[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("gyrokit: nrg file %s: bad time line %q", filename, lines[idx])
	}
	return t, nil
}

// readGENEFields decodes the field diagnostics into a complex array with
// dims (field, theta, kx, ky, time) and returns the stored time stamps.
// The plain binary layout is decoded directly; the ".flt" delimited-text
// layout holds the same records as whitespace-separated numbers.
func readGENEFields(filename string, p *GENEParameters, l *geneLayout) (*ComplexArray, []float64, error) {
	var sliced *ComplexArray // (field, x, ky, z, time), raw layout
	var times []float64
	var err error
	if strings.HasSuffix(filename, ".flt") {
		sliced, times, err = readFieldText(filename, p, l)
	} else {
		sliced, times, err = readFieldBinary(filename, p, l)
	}
	if err != nil {
		return nil, nil, err
	}

	// GENE's sign convention for the binormal mode phase is conjugate to
	// ours.
	for i, v := range sliced.Elements {
		sliced.Elements[i] = cmplx.Conj(v)
	}

	fields := ZerosComplex(l.nfield, l.ntheta, l.nkx, l.nky, l.ntime)
	if l.linear {
		// Remap radial connections onto the extended ballooning angle,
		// applying the parallel boundary phase once per connection.
		phase := p.BallooningPhase()
		iBall := 0
		for iConn := -l.nx/2 + 1; iConn <= (l.nx-1)/2; iConn++ {
			srcX := (iConn + l.nx) % l.nx
			fac := cmplx.Pow(phase, complex(float64(iConn), 0))
			for f := 0; f < l.nfield; f++ {
				for ky := 0; ky < l.nky; ky++ {
					for z := 0; z < l.nz; z++ {
						for t := 0; t < l.ntime; t++ {
							fields.Set(sliced.Get(f, srcX, ky, z, t)*fac,
								f, iBall+z, 0, ky, t)
						}
					}
				}
			}
			iBall += l.nz
		}
	} else {
		for f := 0; f < l.nfield; f++ {
			for x := 0; x < l.nx; x++ {
				for ky := 0; ky < l.nky; ky++ {
					for z := 0; z < l.nz; z++ {
						for t := 0; t < l.ntime; t++ {
							fields.Set(sliced.Get(f, x, ky, z, t), f, z, x, ky, t)
						}
					}
				}
			}
		}
	}
	return fields, times, nil
}

// readFieldBinary decodes GENE's unformatted Fortran field file: per
// stored step, a (marker, float64 time, marker) record followed by one
// marker-wrapped block of nx*nky*nz complex128 values per field, in
// Fortran element order.
func readFieldBinary(filename string, p *GENEParameters, l *geneLayout) (*ComplexArray, []float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("gyrokit: reading field file: %w", err)
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, 1<<20)

	const (
		markerSize  = 4
		timeRecSize = markerSize + 8 + markerSize
	)
	nvals := l.nx * l.nky * l.nz
	blockSize := nvals * 16

	sliced := ZerosComplex(l.nfield, l.nx, l.nky, l.nz, l.ntime)
	times := make([]float64, 0, l.ntime)
	buf := make([]byte, blockSize)

	for iTime := 0; iTime < l.ntime; iTime++ {
		var rec struct {
			M1   int32
			Time float64
			M2   int32
		}
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, nil, fmt.Errorf("gyrokit: field file %s: truncated at step %d: %w", filename, iTime, err)
		}
		times = append(times, rec.Time)
		for iField := 0; iField < l.nfield; iField++ {
			if _, err := r.Discard(markerSize); err != nil {
				return nil, nil, fmt.Errorf("gyrokit: field file %s: %w", filename, err)
			}
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, nil, fmt.Errorf("gyrokit: field file %s: truncated field block: %w", filename, err)
			}
			for i := 0; i < nvals; i++ {
				re := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*16:]))
				im := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*16+8:]))
				// Fortran order: x varies fastest, then ky, then z.
				x := i % l.nx
				ky := (i / l.nx) % l.nky
				z := i / (l.nx * l.nky)
				sliced.Set(complex(re, im), iField, x, ky, z, iTime)
			}
			if _, err := r.Discard(markerSize); err != nil {
				return nil, nil, fmt.Errorf("gyrokit: field file %s: %w", filename, err)
			}
		}
		if iTime < l.ntime-1 {
			skip := (p.Downsize - 1) * (timeRecSize + l.nfield*(2*markerSize+blockSize))
			if _, err := r.Discard(skip); err != nil {
				return nil, nil, fmt.Errorf("gyrokit: field file %s: %w", filename, err)
			}
		}
	}
	return sliced, times, nil
}

// readFieldText decodes the delimited-text field layout: the same records
// as the binary file, without markers, as whitespace-separated numbers —
// per stored step one time value followed by nx*nky*nz (re, im) pairs per
// field in Fortran element order.
func readFieldText(filename string, p *GENEParameters, l *geneLayout) (*ComplexArray, []float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("gyrokit: reading field file: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	sc.Split(bufio.ScanWords)
	next := func() (float64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		return strconv.ParseFloat(sc.Text(), 64)
	}

	nvals := l.nx * l.nky * l.nz
	sliced := ZerosComplex(l.nfield, l.nx, l.nky, l.nz, l.ntime)
	times := make([]float64, 0, l.ntime)
	valsPerStep := 1 + l.nfield*nvals*2

	for iTime := 0; iTime < l.ntime; iTime++ {
		t, err := next()
		if err != nil {
			return nil, nil, fmt.Errorf("gyrokit: field file %s: truncated at step %d: %w", filename, iTime, err)
		}
		times = append(times, t)
		for iField := 0; iField < l.nfield; iField++ {
			for i := 0; i < nvals; i++ {
				re, err := next()
				if err != nil {
					return nil, nil, fmt.Errorf("gyrokit: field file %s: %w", filename, err)
				}
				im, err := next()
				if err != nil {
					return nil, nil, fmt.Errorf("gyrokit: field file %s: %w", filename, err)
				}
				x := i % l.nx
				ky := (i / l.nx) % l.nky
				z := i / (l.nx * l.nky)
				sliced.Set(complex(re, im), iField, x, ky, z, iTime)
			}
		}
		if iTime < l.ntime-1 {
			for skip := 0; skip < (p.Downsize-1)*valsPerStep; skip++ {
				if _, err := next(); err != nil {
					return nil, nil, fmt.Errorf("gyrokit: field file %s: %w", filename, err)
				}
			}
		}
	}
	return sliced, times, nil
}

// readGENEFluxes decodes the nrg diagnostics into a (species, moment,
// field, time) array. GENE folds the Bpar flux into the Apar column, so
// three-field runs get a zero Bpar slice. A missing nrg file yields
// all-zero fluxes with a warning rather than an error.
func readGENEFluxes(files map[string]string, p *GENEParameters, l *geneLayout) (*sparse.DenseArray, error) {
	fluxes := sparse.ZerosDense(l.nspecies, len(geneMomentNames), l.nfield, l.ntime)

	nrgFile, ok := files["nrg"]
	if !ok {
		logrus.Warn("gyrokit: flux data not found, setting all fluxes to zero")
		return fluxes, nil
	}

	fieldSize := l.nfield
	if l.nfield == 3 {
		logrus.Warn("gyrokit: GENE combines apar and bpar fluxes, setting bpar fluxes to zero")
		fieldSize = 2
	}

	// When fluxes are written more often than fields, skip the extra
	// blocks to stay aligned with the field time axis.
	var timeSkip int
	if p.IstepNrg() < p.IstepField() {
		timeSkip = p.IstepField()*p.Downsize/p.IstepNrg() - 1
	} else {
		timeSkip = p.Downsize - 1
	}

	f, err := os.Open(nrgFile)
	if err != nil {
		return nil, fmt.Errorf("gyrokit: reading nrg file: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	nextLine := func() ([]string, error) {
		for sc.Scan() {
			fields := strings.Fields(sc.Text())
			if len(fields) > 0 {
				return fields, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	// nrg columns: 4,5 particle flux; 6,7 energy flux; 8,9 momentum flux
	// (electrostatic, electromagnetic).
	momentCols := []int{4, 6, 8}

	for iTime := 0; iTime < l.ntime; iTime++ {
		if _, err := nextLine(); err != nil {
			return nil, fmt.Errorf("gyrokit: nrg file %s: truncated at step %d: %w", nrgFile, iTime, err)
		}
		for iSpecies := 0; iSpecies < l.nspecies; iSpecies++ {
			cols, err := nextLine()
			if err != nil {
				return nil, fmt.Errorf("gyrokit: nrg file %s: truncated at step %d: %w", nrgFile, iTime, err)
			}
			for iMoment, col := range momentCols {
				for iField := 0; iField < fieldSize; iField++ {
					if col+iField >= len(cols) {
						return nil, fmt.Errorf("gyrokit: nrg file %s: line has %d columns, need %d",
							nrgFile, len(cols), col+iField+1)
					}
					v, err := strconv.ParseFloat(cols[col+iField], 64)
					if err != nil {
						return nil, fmt.Errorf("gyrokit: nrg file %s: bad value %q", nrgFile, cols[col+iField])
					}
					fluxes.Set(v, iSpecies, iMoment, iField, iTime)
				}
			}
		}
		if iTime < l.ntime-2 {
			for s := 0; s < timeSkip*(l.nspecies+1); s++ {
				if _, err := nextLine(); err != nil {
					return nil, fmt.Errorf("gyrokit: nrg file %s: truncated while skipping: %w", nrgFile, err)
				}
			}
		}
	}
	return fluxes, nil
}

// gradient returns the numerical derivative dy/dx with central
// differences in the interior and one-sided differences at the ends.
func gradient(y, x []float64) []float64 {
	n := len(y)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = (y[1] - y[0]) / (x[1] - x[0])
	out[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		out[i] = (y[i+1] - y[i-1]) / (x[i+1] - x[i-1])
	}
	return out
}

// unwrap removes 2 pi jumps from a phase series.
func unwrap(phase []float64) []float64 {
	out := make([]float64, len(phase))
	copy(out, phase)
	for i := 1; i < len(out); i++ {
		d := out[i] - out[i-1]
		for d > math.Pi {
			out[i] -= 2 * math.Pi
			d = out[i] - out[i-1]
		}
		for d < -math.Pi {
			out[i] += 2 * math.Pi
			d = out[i] - out[i-1]
		}
	}
	return out
}

// setEigenvaluesFromFields derives the linear growth rate and mode
// frequency from the time evolution of the fields: the growth rate is the
// log derivative of the theta-integrated field amplitude, the frequency
// the (negative) rate of phase rotation.
func setEigenvaluesFromFields(ds *Dataset, fields *ComplexArray) error {
	theta := ds.Coord("theta").Values
	time := ds.Coord("time").Values
	nfield, ntheta := fields.Shape[0], fields.Shape[1]
	nkx, nky, ntime := fields.Shape[2], fields.Shape[3], fields.Shape[4]

	growth := sparse.ZerosDense(nkx, nky, ntime)
	freq := sparse.ZerosDense(nkx, nky, ntime)
	eig := ZerosComplex(nkx, nky, ntime)

	sq := make([]float64, ntheta)
	sumRe := make([]float64, ntheta)
	sumIm := make([]float64, ntheta)
	for ix := 0; ix < nkx; ix++ {
		for iy := 0; iy < nky; iy++ {
			amp := make([]float64, ntime)
			phase := make([]float64, ntime)
			for it := 0; it < ntime; it++ {
				for iz := 0; iz < ntheta; iz++ {
					var s2 float64
					var sum complex128
					for f := 0; f < nfield; f++ {
						v := fields.Get(f, iz, ix, iy, it)
						s2 += real(v)*real(v) + imag(v)*imag(v)
						sum += v
					}
					sq[iz] = s2
					sumRe[iz] = real(sum)
					sumIm[iz] = imag(sum)
				}
				amp[it] = math.Sqrt(integrate.Trapezoidal(theta, sq))
				phase[it] = math.Atan2(integrate.Trapezoidal(theta, sumIm),
					integrate.Trapezoidal(theta, sumRe))
			}
			logAmp := make([]float64, ntime)
			for i, a := range amp {
				logAmp[i] = math.Log(a)
			}
			g := gradient(logAmp, time)
			w := gradient(unwrap(phase), time)
			for it := 0; it < ntime; it++ {
				growth.Set(g[it], ix, iy, it)
				freq.Set(-w[it], ix, iy, it)
				eig.Set(complex(-w[it], g[it]), ix, iy, it)
			}
		}
	}
	if err := ds.AddVariable("growth_rate", []string{"kx", "ky", "time"}, growth); err != nil {
		return err
	}
	if err := ds.AddVariable("mode_frequency", []string{"kx", "ky", "time"}, freq); err != nil {
		return err
	}
	return ds.AddComplexVariable("eigenvalues", []string{"kx", "ky", "time"}, eig)
}

// setEigenvaluesFromOmega is the fallback when no field data exists: the
// omega file carries one converged (ky, growth rate, frequency) line per
// mode, valid only at the final time, so every earlier time point stays
// zero and no "eigenvalues" variable is set.
func setEigenvaluesFromOmega(ds *Dataset, filename string, l *geneLayout) error {
	logrus.Warn("gyrokit: field data not found, reading eigenvalues from omega file at the final time only")

	b, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("gyrokit: reading omega file: %w", err)
	}
	growth := sparse.ZerosDense(l.nkx, l.nky, l.ntime)
	freq := sparse.ZerosDense(l.nkx, l.nky, l.ntime)

	iky := 0
	for _, line := range strings.Split(string(b), "\n") {
		cols := strings.Fields(line)
		if len(cols) == 0 {
			continue
		}
		if len(cols) < 3 {
			return fmt.Errorf("gyrokit: omega file %s: bad line %q", filename, line)
		}
		if iky >= l.nky {
			break
		}
		g, err := strconv.ParseFloat(cols[1], 64)
		if err != nil {
			return fmt.Errorf("gyrokit: omega file %s: bad value %q", filename, cols[1])
		}
		w, err := strconv.ParseFloat(cols[2], 64)
		if err != nil {
			return fmt.Errorf("gyrokit: omega file %s: bad value %q", filename, cols[2])
		}
		growth.Set(g, 0, iky, l.ntime-1)
		freq.Set(w, 0, iky, l.ntime-1)
		iky++
	}

	if err := ds.AddVariable("growth_rate", []string{"kx", "ky", "time"}, growth); err != nil {
		return err
	}
	return ds.AddVariable("mode_frequency", []string{"kx", "ky", "time"}, freq)
}
