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
	"math"
	"math/cmplx"
	"os"
)

// GENEParameters is a parsed GENE parameters file: the Fortran namelist
// GENE writes alongside its diagnostics, which fixes the grid shape and
// output cadence needed to decode the field and nrg files.
//
// Downsize is the time-downsampling stride applied when decoding the
// field file; GENE itself always writes every istep_field step, so the
// default of 1 reads everything.
type GENEParameters struct {
	nml      *Namelist
	Downsize int

	conv *Convention
}

// ReadGENEParameters parses the named GENE parameters file.
func ReadGENEParameters(filename string) (*GENEParameters, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("gyrokit: reading GENE parameters: %w", err)
	}
	defer f.Close()
	p, err := ParseGENEParameters(f)
	if err != nil {
		return nil, fmt.Errorf("gyrokit: %s: %w", filename, err)
	}
	return p, nil
}

// ParseGENEParameters parses GENE parameters file contents.
func ParseGENEParameters(r io.Reader) (*GENEParameters, error) {
	nml, err := ParseNamelist(r)
	if err != nil {
		return nil, err
	}
	if nml.Group("box") == nil || nml.Group("general") == nil {
		return nil, fmt.Errorf("gyrokit: not a GENE parameters file: missing &box or &general group")
	}
	return &GENEParameters{nml: nml, Downsize: 1, conv: NormGENE()}, nil
}

// Convention returns the GENE normalization convention. The major-radius
// reference length stays unresolved until geometry data is supplied via
// FinalizeGeometry.
func (p *GENEParameters) Convention() *Convention { return p.conv }

// Namelist exposes the underlying parsed namelist.
func (p *GENEParameters) Namelist() *Namelist { return p.nml }

// IsLinear reports whether the run evolved a single linear mode rather
// than the full nonlinear system.
func (p *GENEParameters) IsLinear() bool {
	return !nlBool(p.nml.Group("general"), "nonlinear", false)
}

// SpeciesNames returns the species names in file order. The species with
// charge -1 is renamed "electron"; ions are named ion1, ion2, ...
// regardless of the labels in the file, matching the naming the input
// adapters use.
func (p *GENEParameters) SpeciesNames() []string {
	groups := p.nml.Groups("species")
	names := make([]string, 0, len(groups))
	ionCount := 0
	for _, g := range groups {
		if nlFloat(g, "charge", 0) == -1 {
			names = append(names, ElectronName)
		} else {
			ionCount++
			names = append(names, fmt.Sprintf("ion%d", ionCount))
		}
	}
	return names
}

// Grid and cadence accessors used when decoding output files. Defaults
// match GENE's own.

func (p *GENEParameters) box() map[string]interface{}     { return p.nml.Group("box") }
func (p *GENEParameters) info() map[string]interface{}    { return p.nml.Group("info") }
func (p *GENEParameters) general() map[string]interface{} { return p.nml.Group("general") }
func (p *GENEParameters) inOut() map[string]interface{}   { return p.nml.Group("in_out") }

// NX0 returns the radial grid size.
func (p *GENEParameters) NX0() int { return nlInt(p.box(), "nx0", 1) }

// NKy0 returns the number of binormal modes.
func (p *GENEParameters) NKy0() int { return nlInt(p.box(), "nky0", 1) }

// NZ0 returns the parallel grid size.
func (p *GENEParameters) NZ0() int { return nlInt(p.box(), "nz0", 1) }

// NV0 returns the parallel-velocity grid size.
func (p *GENEParameters) NV0() int { return nlInt(p.box(), "nv0", 1) }

// NW0 returns the magnetic-moment grid size.
func (p *GENEParameters) NW0() int { return nlInt(p.box(), "nw0", 1) }

// KyMin returns the minimum (spacing) binormal wavenumber.
func (p *GENEParameters) KyMin() float64 { return nlFloat(p.box(), "kymin", 0) }

// Lx returns the radial box length.
func (p *GENEParameters) Lx() float64 { return nlFloat(p.box(), "lx", 0) }

// NFields returns the number of electromagnetic fields evolved.
func (p *GENEParameters) NFields() int { return nlInt(p.info(), "n_fields", 1) }

// Steps returns the number of time steps taken (first element of the
// steps array in &info).
func (p *GENEParameters) Steps() int { return nlInt(p.info(), "steps", 0) }

// StepTime returns the physical time per step (first element of the
// step_time array in &info).
func (p *GENEParameters) StepTime() float64 { return nlFloat(p.info(), "step_time", 0) }

// SimTimeLim returns the simulation time limit from &general.
func (p *GENEParameters) SimTimeLim() float64 { return nlFloat(p.general(), "simtimelim", 0) }

// IstepField returns the field-file output cadence in steps.
func (p *GENEParameters) IstepField() int { return nlInt(p.inOut(), "istep_field", 1) }

// IstepNrg returns the nrg-file output cadence in steps.
func (p *GENEParameters) IstepNrg() int { return nlInt(p.inOut(), "istep_nrg", 1) }

// BallooningPhase returns the phase factor applied per radial connection
// when remapping a linear run's kx modes onto the extended ballooning
// angle, -exp(-2 pi i n0_global q0). When the file does not determine it
// the factor is -1.
func (p *GENEParameters) BallooningPhase() complex128 {
	box := p.box()
	geo := p.nml.Group("geometry")
	if box == nil || geo == nil {
		return -1
	}
	n0, ok := box["n0_global"]
	if !ok {
		return -1
	}
	q0, ok2 := geo["q0"]
	if !ok2 {
		return -1
	}
	n0f, ok := asFloat(n0)
	if !ok {
		return -1
	}
	q0f, ok := asFloat(q0)
	if !ok {
		return -1
	}
	return -cmplx.Exp(complex(0, -2*math.Pi*n0f*q0f))
}

func asFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
