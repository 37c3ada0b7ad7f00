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

// Numerics holds the code-independent numerical scheme parameters of a
// gyrokinetic run: grid resolutions, the perpendicular wavenumber box,
// which electromagnetic field components are evolved, and time stepping.
// Wavenumbers are normalized to the reference Larmor radius and times to
// lref/vref of the owning convention.
type Numerics struct {
	NTheta  int // parallel (poloidal) grid points
	NEnergy int // energy grid points
	NPitch  int // pitch-angle grid points
	NKy     int // binormal modes
	NKx     int // radial modes

	Ky     float64 // binormal wavenumber (linear runs) or minimum ky
	Kx     float64 // radial wavenumber
	Theta0 float64 // ballooning angle kx/(shat ky)

	Phi  bool // electrostatic potential evolved
	APar bool // parallel magnetic potential evolved
	BPar bool // parallel magnetic field fluctuation evolved

	Nonlinear bool
	Beta      float64 // reference electron beta; NaN when not derivable

	DeltaTime float64
	MaxTime   float64

	// Conv is the normalization convention of the unit-bearing values
	// (Beta). Adapters tag it on extraction and convert through it on
	// Set; nil means the values are already in the consuming adapter's
	// convention.
	Conv *Convention
}

// NewNumerics returns a Numerics with the defaults shared by the code
// adapters: a single electrostatic linear mode at ky=0.1.
func NewNumerics() *Numerics {
	return &Numerics{
		NTheta:    32,
		NEnergy:   8,
		NPitch:    8,
		NKy:       1,
		NKx:       1,
		Ky:        0.1,
		Phi:       true,
		DeltaTime: 0.001,
		MaxTime:   500,
	}
}

// Copy returns a copy of the numerics parameters.
func (n *Numerics) Copy() *Numerics {
	c := *n
	return &c
}
