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

	"github.com/sirupsen/logrus"
)

// physical constants (SI)
const (
	elementaryCharge = 1.602176634e-19  // C
	electronMass     = 9.1093837015e-31 // kg
	deuteriumMass    = 3.3435837724e-27 // kg
	epsilon0         = 8.8541878128e-12 // F/m
)

// ElectronName is the species name that identifies the electron
// population. Several aggregate operations (zeff, quasineutrality,
// normalisation) require a species with this name to be present.
const ElectronName = "electron"

// DefaultQuasineutralityTol is the default tolerance for
// CheckQuasineutrality. Construction from kinetics profile data uses the
// stricter kineticsQuasineutralityTol.
const (
	DefaultQuasineutralityTol  = 1e-2
	kineticsQuasineutralityTol = 1e-3
)

// SpeciesData holds the normalized kinetic parameters of one plasma
// species. Density, temperature and their gradients participate in the
// container-level pressure aggregates, so they are mutated through setters
// that immediately recompute those aggregates on the parent container.
type SpeciesData struct {
	Name string
	Mass float64 // mref
	Z    float64 // qref
	Vel  float64 // vref
	Nu   float64 // collision frequency [vref/lref]
	ALv  float64 // a/Lv, velocity gradient

	dens float64 // nref
	temp float64 // tref
	aLn  float64 // a/Ln, density gradient
	aLt  float64 // a/Lt, temperature gradient

	parent *LocalSpecies
}

// Dens returns the normalized density.
func (s *SpeciesData) Dens() float64 { return s.dens }

// Temp returns the normalized temperature.
func (s *SpeciesData) Temp() float64 { return s.temp }

// ALn returns the normalized inverse density gradient length a/Ln.
func (s *SpeciesData) ALn() float64 { return s.aLn }

// ALt returns the normalized inverse temperature gradient length a/Lt.
func (s *SpeciesData) ALt() float64 { return s.aLt }

// SetDens sets the normalized density and recomputes the parent
// container's pressure aggregates.
func (s *SpeciesData) SetDens(v float64) {
	s.dens = v
	s.recompute()
}

// SetTemp sets the normalized temperature and recomputes the parent
// container's pressure aggregates.
func (s *SpeciesData) SetTemp(v float64) {
	s.temp = v
	s.recompute()
}

// SetALn sets a/Ln and recomputes the parent container's pressure
// aggregates.
func (s *SpeciesData) SetALn(v float64) {
	s.aLn = v
	s.recompute()
}

// SetALt sets a/Lt and recomputes the parent container's pressure
// aggregates.
func (s *SpeciesData) SetALt(v float64) {
	s.aLt = v
	s.recompute()
}

func (s *SpeciesData) recompute() {
	if s.parent != nil {
		s.parent.updatePressure()
	}
}

func (s *SpeciesData) copyData() *SpeciesData {
	c := *s
	c.parent = nil
	return &c
}

// LocalSpecies is an ordered collection of the species present on one
// flux surface, together with aggregate quantities derived from them.
// The insertion order of Add determines the species index mapping used by
// the code adapters. Aggregates are recomputed synchronously whenever a
// constituent density, temperature or gradient changes.
type LocalSpecies struct {
	names   []string
	species map[string]*SpeciesData

	// Pressure is the total normalized pressure, Σ temp_i dens_i.
	Pressure float64
	// ALp is the normalized total pressure gradient a/Lp,
	// Σ temp_i dens_i (a_lt_i + a_ln_i).
	ALp float64
	// Zeff is the effective ion charge, set by SetZeff or by an adapter.
	Zeff float64

	// Conv is the normalization convention of the unit-bearing species
	// values (collision frequencies, velocities). Adapters tag it on
	// extraction and convert through it on Set; nil means the values are
	// already in the consuming adapter's convention.
	Conv *Convention
}

// NewLocalSpecies returns an empty species container.
func NewLocalSpecies() *LocalSpecies {
	return &LocalSpecies{species: make(map[string]*SpeciesData)}
}

// Add appends a species. The name must be unique within the container;
// insertion order determines the index mapping used by adapters. The
// container's pressure aggregates are updated immediately.
func (ls *LocalSpecies) Add(name string, data *SpeciesData) error {
	if _, ok := ls.species[name]; ok {
		return fmt.Errorf("gyrokit: species %q already present", name)
	}
	data.Name = name
	data.parent = ls
	ls.species[name] = data
	ls.names = append(ls.names, name)
	ls.updatePressure()
	return nil
}

// Get returns the species with the given name, or nil.
func (ls *LocalSpecies) Get(name string) *SpeciesData { return ls.species[name] }

// Names returns the species names in insertion order.
func (ls *LocalSpecies) Names() []string { return ls.names }

// NSpec returns the number of species.
func (ls *LocalSpecies) NSpec() int { return len(ls.names) }

// Electron returns the electron species, or ErrNoElectron if the
// container has none.
func (ls *LocalSpecies) Electron() (*SpeciesData, error) {
	e, ok := ls.species[ElectronName]
	if !ok {
		return nil, ErrNoElectron
	}
	return e, nil
}

// updatePressure recomputes the total pressure and the pressure-gradient
// proxy a/Lp from the current constituents.
func (ls *LocalSpecies) updatePressure() {
	var pressure, aLp float64
	for _, name := range ls.names {
		s := ls.species[name]
		pressure += s.temp * s.dens
		aLp += s.temp * s.dens * (s.aLt + s.aLn)
	}
	ls.Pressure = pressure
	ls.ALp = aLp
}

// SetZeff computes the effective ion charge
// zeff = Σ_ions n_i z_i² / (−n_e z_e). The electron species is excluded
// from the ion sum and must be present.
func (ls *LocalSpecies) SetZeff() error {
	e, err := ls.Electron()
	if err != nil {
		return err
	}
	var zeff float64
	for _, name := range ls.names {
		if name == ElectronName {
			continue
		}
		s := ls.species[name]
		zeff += s.dens * s.Z * s.Z
	}
	ls.Zeff = zeff / (-e.dens * e.Z)
	return nil
}

// CheckQuasineutrality evaluates the charge-balance error
// Σ n_i z_i / (n_e z_e) and logs a warning if its magnitude exceeds tol.
// Violation is deliberately non-fatal: the relative error is returned so
// callers can apply their own policy. The electron species must be
// present.
func (ls *LocalSpecies) CheckQuasineutrality(tol float64) (float64, error) {
	e, err := ls.Electron()
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, name := range ls.names {
		s := ls.species[name]
		sum += s.dens * s.Z
	}
	violation := sum / (e.dens * e.Z)
	if math.Abs(violation) > tol {
		logrus.Warnf("gyrokit: local species violates quasi-neutrality by %g", violation)
	}
	return violation, nil
}

// Normalise rescales the temperature and density of every species by the
// electron values, so that the electron temperature and density become
// exactly 1 in the chosen convention, then recomputes the pressure
// aggregates.
func (ls *LocalSpecies) Normalise() error {
	e, err := ls.Electron()
	if err != nil {
		return err
	}
	te, ne := e.temp, e.dens
	for _, name := range ls.names {
		s := ls.species[name]
		s.temp /= te
		s.dens /= ne
	}
	ls.updatePressure()
	return nil
}

// DeriveIonNu sets each ion's collision frequency from the electron
// collision frequency scaled by the ratio z⁴ n / T^1.5 / m^0.5 between the
// ion and the electron. This holds the Coulomb logarithm fixed across
// species; it is an approximation, not exact physics, but pretty close.
func (ls *LocalSpecies) DeriveIonNu() error {
	e, err := ls.Electron()
	if err != nil {
		return err
	}
	eRatio := e.dens / (math.Pow(e.temp, 1.5) * math.Sqrt(e.Mass))
	for _, name := range ls.names {
		if name == ElectronName {
			continue
		}
		s := ls.species[name]
		iRatio := math.Pow(s.Z, 4) * s.dens / (math.Pow(s.temp, 1.5) * math.Sqrt(s.Mass))
		s.Nu = e.Nu * iRatio / eRatio
	}
	return nil
}

// Copy returns a deep copy: per-species data and ordering are preserved
// and no mutable state is shared with the original.
func (ls *LocalSpecies) Copy() *LocalSpecies {
	c := NewLocalSpecies()
	for _, name := range ls.names {
		s := ls.species[name].copyData()
		s.parent = c
		c.species[name] = s
		c.names = append(c.names, name)
	}
	c.Pressure = ls.Pressure
	c.ALp = ls.ALp
	c.Zeff = ls.Zeff
	c.Conv = ls.Conv
	return c
}

// KineticSample holds physical (SI, except temperature in eV and charge in
// units of the elementary charge) per-species values sampled from global
// kinetics profiles at one flux surface.
type KineticSample struct {
	Name   string
	MassKg float64 // kg
	Charge float64 // elementary charges
	DensM3 float64 // m^-3
	TempEV float64 // eV
	VelMS  float64 // m/s
	ALn    float64
	ALt    float64
	ALv    float64
}

// FromKinetics builds a normalized LocalSpecies from physical profile
// samples. minorRadius is the device minor radius [m], the reference
// length. Collision frequencies follow the NRL formulary with Coulomb
// logarithm 24 − ln(sqrt(n_e[cm⁻³])/T_e[eV]). The result is normalized so
// electron temperature and density are 1, zeff is set, and
// quasineutrality is checked at the strict tolerance 1e-3.
func FromKinetics(samples []KineticSample, minorRadius float64) (*LocalSpecies, error) {
	var electron *KineticSample
	for i := range samples {
		if samples[i].Name == ElectronName {
			electron = &samples[i]
		}
	}
	if electron == nil {
		return nil, ErrNoElectron
	}

	neCM3 := electron.DensM3 * 1e-6
	coolog := 24 - math.Log(math.Sqrt(neCM3)/electron.TempEV)

	teJ := electron.TempEV * elementaryCharge
	vref := math.Sqrt(teJ / deuteriumMass)
	nuRef := vref / minorRadius

	ls := NewLocalSpecies()
	for _, k := range samples {
		z := k.Charge * elementaryCharge
		tJ := k.TempEV * elementaryCharge
		nu := math.Sqrt2 * math.Pi * math.Pow(z, 4) * k.DensM3 * coolog /
			(math.Pow(tJ, 1.5) * math.Sqrt(k.MassKg) * math.Pow(4*math.Pi*epsilon0, 2))

		s := &SpeciesData{
			Mass: k.MassKg / deuteriumMass,
			Z:    k.Charge,
			Vel:  k.VelMS / vref,
			Nu:   nu / nuRef,
			ALv:  k.ALv,
			dens: k.DensM3 / electron.DensM3,
			temp: k.TempEV / electron.TempEV,
			aLn:  k.ALn,
			aLt:  k.ALt,
		}
		if err := ls.Add(k.Name, s); err != nil {
			return nil, err
		}
	}

	if err := ls.SetZeff(); err != nil {
		return nil, err
	}
	if _, err := ls.CheckQuasineutrality(kineticsQuasineutralityTol); err != nil {
		return nil, err
	}
	ls.Conv = NormGyroKit()
	return ls, nil
}
