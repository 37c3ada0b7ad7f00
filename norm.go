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
	"math"

	"github.com/ctessum/unit"
)

// QuantityKind identifies the physical dimension of a normalized value, so
// that the correct reference-quantity ratio is applied when converting the
// value between normalization conventions.
type QuantityKind int

const (
	Mass QuantityKind = iota
	Charge
	Density
	Temperature
	Velocity
	Length
	MagneticField
	// CollisionFrequency is normalized to vref/lref.
	CollisionFrequency
	// Beta scales with bref^-2.
	Beta
)

func (q QuantityKind) String() string {
	switch q {
	case Mass:
		return "mass"
	case Charge:
		return "charge"
	case Density:
		return "density"
	case Temperature:
		return "temperature"
	case Velocity:
		return "velocity"
	case Length:
		return "length"
	case MagneticField:
		return "magnetic field"
	case CollisionFrequency:
		return "collision frequency"
	case Beta:
		return "beta"
	}
	return "unknown"
}

// Dimensions not predefined by the unit package.
var (
	// tesla [kg s-2 A-1]
	teslaDim = unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -2, unit.CurrentDim: -1}
	// coulomb [A s]
	coulombDim = unit.Dimensions{unit.CurrentDim: 1, unit.TimeDim: 1}
	// number density [m-3]
	numberDensityDim = unit.Dimensions{unit.LengthDim: -3}
)

// Convention is a named normalization unit system: a gyrokinetic code's
// choice of reference mass, charge, density, temperature, velocity, length
// and magnetic field used to non-dimensionalize physical quantities.
//
// Reference quantities are stored as dimension-tagged values relative to
// the internal reference convention, so converting a quantity between
// two conventions is a linear rescale by the ratio of reference values.
// References that cannot be determined without local geometry data (the
// GACODE Bunit field, the GENE major-radius length) are NaN until
// FinalizeGeometry is called; converting a nonzero value through such a
// reference fails with ErrMissingReference.
type Convention struct {
	Name string

	Mref *unit.Unit // reference mass (deuterium)
	Qref *unit.Unit // reference charge (elementary charge)
	Nref *unit.Unit // reference density (electron density)
	Tref *unit.Unit // reference temperature (electron temperature)
	Vref *unit.Unit // reference thermal speed
	Lref *unit.Unit // reference length
	Bref *unit.Unit // reference magnetic field

	brefIsBunit bool // bref resolves to Bunit = bunit_over_b0 * B0
	lrefIsMajor bool // lref resolves to the major radius
}

// NormGyroKit is the internal reference convention: tref and nref of the
// electron species, mref the deuterium mass, vref = sqrt(tref/mref),
// lref the minor radius, bref = B0.
func NormGyroKit() *Convention {
	return &Convention{
		Name: "gyrokit",
		Mref: unit.New(1, unit.Kilogram),
		Qref: unit.New(1, coulombDim),
		Nref: unit.New(1, numberDensityDim),
		Tref: unit.New(1, unit.Joule),
		Vref: unit.New(1, unit.MeterPerSecond),
		Lref: unit.New(1, unit.Meter),
		Bref: unit.New(1, teslaDim),
	}
}

// NormCGYRO is the GACODE convention used by CGYRO and TGLF. It matches
// the internal convention except that the reference magnetic field is
// Bunit, which requires local geometry data to resolve.
func NormCGYRO() *Convention {
	c := NormGyroKit()
	c.Name = "cgyro"
	c.Bref = unit.New(math.NaN(), teslaDim)
	c.brefIsBunit = true
	return c
}

// NormGENE is the GENE convention. It matches the internal convention
// except that the reference length is the major radius, which requires
// local geometry data to resolve.
func NormGENE() *Convention {
	c := NormGyroKit()
	c.Name = "gene"
	c.Lref = unit.New(math.NaN(), unit.Meter)
	c.lrefIsMajor = true
	return c
}

// NormGS2 is the GS2 convention, whose reference speed is the most
// probable speed sqrt(2 tref/mref) rather than sqrt(tref/mref).
func NormGS2() *Convention {
	c := NormGyroKit()
	c.Name = "gs2"
	c.Vref = unit.New(math.Sqrt2, unit.MeterPerSecond)
	return c
}

// FinalizeGeometry resolves the geometry-dependent reference values of the
// convention: bunitOverB0 is the ratio Bunit/B0 of the local flux surface,
// and rmaj is the major radius normalized to the minor radius. Conventions
// whose references are geometry-independent are unaffected.
func (c *Convention) FinalizeGeometry(bunitOverB0, rmaj float64) {
	if c.brefIsBunit {
		c.Bref = unit.New(bunitOverB0, teslaDim)
	}
	if c.lrefIsMajor {
		c.Lref = unit.New(rmaj, unit.Meter)
	}
}

// Copy returns a copy of the convention that can be finalized without
// affecting the original.
func (c *Convention) Copy() *Convention {
	cc := *c
	return &cc
}

// ref returns the reference quantity for the given kind. Derived
// references (collision frequency, beta) are composed from the base ones.
func (c *Convention) ref(kind QuantityKind) (*unit.Unit, error) {
	switch kind {
	case Mass:
		return c.Mref, nil
	case Charge:
		return c.Qref, nil
	case Density:
		return c.Nref, nil
	case Temperature:
		return c.Tref, nil
	case Velocity:
		return c.Vref, nil
	case Length:
		return c.Lref, nil
	case MagneticField:
		return c.Bref, nil
	case CollisionFrequency:
		return unit.Div(c.Vref, c.Lref), nil
	case Beta:
		return unit.Mul(c.Bref, c.Bref), nil
	}
	return nil, fmt.Errorf("gyrokit: unknown quantity kind %d", int(kind))
}

// Convert rescales a value of the given quantity kind from one
// normalization convention to another. The conversion is a pure function
// of (value, kind, from, to): the value is multiplied by the ratio of the
// two conventions' reference quantities for that kind. Zero is zero in
// every convention; converting any other value through an unresolved
// reference returns ErrMissingReference.
func Convert(v float64, kind QuantityKind, from, to *Convention) (float64, error) {
	if from == to || from.Name == to.Name {
		return v, nil
	}
	refFrom, err := from.ref(kind)
	if err != nil {
		return 0, err
	}
	refTo, err := to.ref(kind)
	if err != nil {
		return 0, err
	}
	if !unit.DimensionsMatch(refFrom, refTo) {
		return 0, fmt.Errorf("gyrokit: reference dimension mismatch converting %v from %s to %s",
			kind, from.Name, to.Name)
	}
	factor := refFrom.Value() / refTo.Value()
	if math.IsNaN(factor) {
		if v == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("gyrokit: converting %v from %s to %s: %w",
			kind, from.Name, to.Name, ErrMissingReference)
	}
	return v * factor, nil
}
