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
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// tglfMaxNTheta caps the NXGRID parallel resolution TGLF accepts.
const tglfMaxNTheta = 32

// tglfDefaultTemplate carries the GA standard-case defaults used to fill
// keys the caller's data does not determine: a deuterium plasma with
// adiabatic-free electrons, unshifted circular Miller geometry, and the
// transport model switched on.
const tglfDefaultTemplate = `# input.tglf
GEOMETRY_FLAG = 1
RMIN_LOC = 0.5
RMAJ_LOC = 3.0
ZMAJ_LOC = 0.0
DRMAJDX_LOC = 0.0
DZMAJDX_LOC = 0.0
Q_LOC = 2.0
KAPPA_LOC = 1.0
S_KAPPA_LOC = 0.0
DELTA_LOC = 0.0
S_DELTA_LOC = 0.0
ZETA_LOC = 0.0
S_ZETA_LOC = 0.0
Q_PRIME_LOC = 16.0
P_PRIME_LOC = 0.0
NS = 2
ZS_1 = -1.0
MASS_1 = 0.0002724486
AS_1 = 1.0
TAUS_1 = 1.0
RLNS_1 = 1.0
RLTS_1 = 3.0
ZS_2 = 1.0
MASS_2 = 1.0
AS_2 = 1.0
TAUS_2 = 1.0
RLNS_2 = 1.0
RLTS_2 = 3.0
XNUE = 0.0
ZEFF = 1.0
BETAE = 0.0
USE_BPER = F
USE_BPAR = F
USE_TRANSPORT_MODEL = T
SAT_RULE = 0
KY = 0.3
NKY = 12
NXGRID = 16
KX0_LOC = 0.0
`

// TGLFInput is the adapter for TGLF native input files. TGLF files are a
// flat list of KEY = VALUE assignments with '#' comments, essentially a
// Fortran namelist without the group wrapper. Keys are stored lowercase in
// file order so a read-modify-write round trip preserves layout.
//
// TGLF normalizes to the GACODE (CGYRO) convention; the adapter's
// Convention is finalized with the local Bunit/B0 once the geometry has
// been parsed or set.
type TGLFInput struct {
	keys []string
	data map[string]interface{}
	conv *Convention

	// FloatFormat is the fmt verb used for float values on Write, for
	// example "%.6e". Empty selects the shortest exact representation.
	FloatFormat string
}

// NewTGLFInput returns an empty TGLF adapter. Populate it with Read,
// ReadString or Set before writing.
func NewTGLFInput() *TGLFInput {
	return &TGLFInput{conv: NormCGYRO()}
}

// Convention returns the normalization convention of the data held by the
// adapter. Geometry-dependent references are resolved once LocalGeometry
// or Set has run.
func (t *TGLFInput) Convention() *Convention { return t.conv }

// Read parses the named TGLF input file.
func (t *TGLFInput) Read(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("gyrokit: reading TGLF input: %w", err)
	}
	if err := t.ReadString(string(b)); err != nil {
		return fmt.Errorf("gyrokit: %s: %w", filename, err)
	}
	return nil
}

// ReadString parses TGLF input file contents.
func (t *TGLFInput) ReadString(contents string) error {
	t.keys = nil
	t.data = make(map[string]interface{})
	scanner := bufio.NewScanner(strings.NewReader(contents))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return fmt.Errorf("gyrokit: malformed TGLF input line %q", line)
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		t.set(key, parseFortranValue(line[eq+1:]))
	}
	return scanner.Err()
}

// Verify checks that the named file parses as TGLF input and carries the
// minimum keys needed to extract geometry and numerics. The adapter's own
// data is not modified.
func (t *TGLFInput) Verify(filename string) error {
	probe := NewTGLFInput()
	if err := probe.Read(filename); err != nil {
		return &FormatMismatchError{File: filename, Code: "TGLF"}
	}
	for _, key := range []string{"rmin_loc", "rmaj_loc", "nky"} {
		if _, ok := probe.data[key]; !ok {
			return &FormatMismatchError{File: filename, Code: "TGLF"}
		}
	}
	return nil
}

func (t *TGLFInput) set(key string, v interface{}) {
	if _, ok := t.data[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.data[key] = v
}

func (t *TGLFInput) float(key string, def float64) float64 {
	switch v := t.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func (t *TGLFInput) intval(key string, def int) int {
	switch v := t.data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func (t *TGLFInput) boolval(key string, def bool) bool {
	switch v := t.data[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	}
	return def
}

func (t *TGLFInput) requireFloat(key string) (float64, error) {
	switch v := t.data[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("gyrokit: TGLF input is missing required key %s", strings.ToUpper(key))
}

// IsNonlinear reports whether the input describes a transport-model
// (quasilinear flux) run rather than a single linear eigenmode.
func (t *TGLFInput) IsNonlinear() bool {
	return t.boolval("use_transport_model", true)
}

// AddFlags merges extra key/value assignments into the input, overriding
// any existing values.
func (t *TGLFInput) AddFlags(flags map[string]interface{}) {
	if t.data == nil {
		t.data = make(map[string]interface{})
	}
	for key, v := range flags {
		t.set(strings.ToLower(key), v)
	}
}

// tglfGeometryNames maps the GEOMETRY_FLAG value to the equilibrium model
// it selects.
var tglfGeometryNames = []string{"s-alpha", "MXH", "Fourier", "ELITE"}

// LocalGeometry extracts the flux-surface geometry. TGLF's MXH
// parameterization degenerates to Miller when the squareness moments
// vanish. Unsupported equilibrium models return UnsupportedVariantError.
func (t *TGLFInput) LocalGeometry() (*LocalGeometry, error) {
	if t.data == nil {
		return nil, ErrEmptyInput
	}
	flag := t.intval("geometry_flag", 1)
	if flag < 0 || flag >= len(tglfGeometryNames) {
		return nil, &UnsupportedVariantError{Code: "TGLF", Variant: fmt.Sprintf("GEOMETRY_FLAG=%d", flag)}
	}
	variant := tglfGeometryNames[flag]
	if variant != "MXH" {
		return nil, &UnsupportedVariantError{Code: "TGLF", Variant: variant}
	}

	var shape *GeometryShape
	if t.float("zeta_loc", 0) == 0 && t.float("s_zeta_loc", 0) == 0 {
		shape = NewMillerShape()
	} else {
		shape = NewMXHShape()
	}
	shape.Rho = t.float("rmin_loc", 0.5)
	shape.Rmaj = t.float("rmaj_loc", 3.0)
	shape.Z0 = t.float("zmaj_loc", 0)
	shape.DZ0dr = t.float("dzmajdx_loc", 0)
	shape.Q = t.float("q_loc", 2.0)
	shape.Kappa = t.float("kappa_loc", 1.0)
	shape.SKappa = t.float("s_kappa_loc", 0)
	shape.Shift = t.float("drmajdx_loc", 0)
	shape.SetDelta(t.float("delta_loc", 0))
	// TGLF's q_prime = s (q/r)^2.
	shape.Shat = t.float("q_prime_loc", 16.0) * math.Pow(shape.Rho/shape.Q, 2)

	sDeltaLoc := t.float("s_delta_loc", 0)
	if shape.Kind == GeometryMiller {
		d := shape.Delta()
		shape.SetSDelta(sDeltaLoc / math.Sqrt(1-d*d))
	} else {
		shape.SetSDelta(sDeltaLoc)
		shape.SetZeta(t.float("zeta_loc", 0))
		shape.SetSZeta(t.float("s_zeta_loc", 0))
	}

	bunitOverB0 := shape.BunitOverB0()

	// betae fixes the field at the magnetic axis; without it B0 is
	// undetermined.
	b0 := math.NaN()
	if beta := t.float("betae", 0); beta != 0 {
		b0 = 1 / (math.Sqrt(beta) * bunitOverB0)
	}
	// TGLF's p_prime = p'/ (Bunit^2/(8 pi)) * r/q; undo the Bunit scaling.
	betaPrime := t.float("p_prime_loc", 0) * shape.Rho / shape.Q *
		bunitOverB0 * bunitOverB0 * 8 * math.Pi

	t.conv.FinalizeGeometry(bunitOverB0, shape.Rmaj)
	return shape.Finalize(b0, betaPrime), nil
}

// LocalSpecies extracts the kinetic species set. The electron is
// identified by ZS = -1; ions are named ion1, ion2, ... in file order.
// Ion collision frequencies are derived from XNUE, and the set is
// normalized so the electron temperature and density are 1.
func (t *TGLFInput) LocalSpecies() (*LocalSpecies, error) {
	if t.data == nil {
		return nil, ErrEmptyInput
	}
	ns := t.intval("ns", 0)
	if ns < 1 {
		return nil, fmt.Errorf("gyrokit: TGLF input is missing required key NS")
	}

	ls := NewLocalSpecies()
	ionCount := 0
	for i := 1; i <= ns; i++ {
		s := &SpeciesData{
			Mass: t.float(fmt.Sprintf("mass_%d", i), 0),
			Z:    t.float(fmt.Sprintf("zs_%d", i), 0),
		}
		s.dens = t.float(fmt.Sprintf("as_%d", i), 0)
		s.temp = t.float(fmt.Sprintf("taus_%d", i), 0)
		s.aLt = t.float(fmt.Sprintf("rlts_%d", i), 0)
		s.aLn = t.float(fmt.Sprintf("rlns_%d", i), 0)

		var name string
		if s.Z == -1 {
			name = ElectronName
			s.Nu = t.float("xnue", 0)
		} else {
			ionCount++
			name = fmt.Sprintf("ion%d", ionCount)
		}
		if err := ls.Add(name, s); err != nil {
			return nil, err
		}
	}

	if err := ls.DeriveIonNu(); err != nil {
		return nil, err
	}
	if err := ls.Normalise(); err != nil {
		return nil, err
	}
	ls.Zeff = t.float("zeff", 1.0)
	ls.Conv = t.conv
	return ls, nil
}

// Numerics extracts the grid and field-selection parameters.
func (t *TGLFInput) Numerics() (*Numerics, error) {
	if t.data == nil {
		return nil, ErrEmptyInput
	}
	ky, err := t.requireFloat("ky")
	if err != nil {
		return nil, err
	}
	beta, err := t.requireFloat("betae")
	if err != nil {
		return nil, err
	}
	n := NewNumerics()
	n.Phi = true
	n.APar = t.boolval("use_bper", false)
	n.BPar = t.boolval("use_bpar", false)
	n.Ky = ky
	n.NKy = t.intval("nky", 1)
	n.Theta0 = t.float("kx0_loc", 0) * 2 * math.Pi
	n.NTheta = t.intval("nxgrid", 16)
	n.Nonlinear = t.IsNonlinear()
	n.Beta = beta
	n.Conv = t.conv
	return n, nil
}

// convertFrom rescales a value carried in the from convention into the
// adapter's own. The source convention is resolved against the same
// geometry as the adapter's, without modifying the caller's copy. A nil
// from means the value needs no conversion.
func (t *TGLFInput) convertFrom(v float64, kind QuantityKind, from *Convention, geom *LocalGeometry) (float64, error) {
	if from == nil {
		return v, nil
	}
	from = from.Copy()
	from.FinalizeGeometry(geom.BunitOverB0, geom.Rmaj)
	return Convert(v, kind, from, t.conv)
}

// Set populates the input from a normalized {geometry, species, numerics}
// triple, filling everything the triple does not determine from the
// built-in template (or from previously read data, which is preserved).
// Unit-bearing values tagged with another convention (the electron
// collision frequency, beta) are converted to TGLF's CGYRO convention,
// resolving both conventions against the given geometry.
func (t *TGLFInput) Set(geom *LocalGeometry, species *LocalSpecies, num *Numerics) error {
	if t.data == nil {
		if err := t.ReadString(tglfDefaultTemplate); err != nil {
			return err
		}
	}

	t.set("geometry_flag", 1)
	t.set("rmin_loc", geom.Rho)
	t.set("rmaj_loc", geom.Rmaj)
	t.set("zmaj_loc", geom.Z0)
	t.set("dzmajdx_loc", geom.DZ0dr)
	t.set("q_loc", geom.Q)
	t.set("kappa_loc", geom.Kappa)
	t.set("s_kappa_loc", geom.SKappa)
	t.set("drmajdx_loc", geom.Shift)
	t.set("delta_loc", geom.Delta())
	switch geom.Kind {
	case GeometryMiller:
		d := geom.Delta()
		t.set("s_delta_loc", geom.SDelta()*math.Sqrt(1-d*d))
		t.set("zeta_loc", 0.0)
		t.set("s_zeta_loc", 0.0)
	case GeometryMXH:
		t.set("s_delta_loc", geom.SDelta())
		t.set("zeta_loc", geom.Zeta())
		t.set("s_zeta_loc", geom.SZeta())
	default:
		return &UnsupportedVariantError{Code: "TGLF", Variant: geom.Kind.String()}
	}
	t.set("q_prime_loc", geom.Shat*math.Pow(geom.Q/geom.Rho, 2))
	t.set("p_prime_loc", geom.BetaPrime*geom.Q/geom.Rho/
		(geom.BunitOverB0*geom.BunitOverB0)/(8*math.Pi))

	t.conv.FinalizeGeometry(geom.BunitOverB0, geom.Rmaj)

	electron, err := species.Electron()
	if err != nil {
		return err
	}
	t.set("ns", species.NSpec())
	for i, name := range species.Names() {
		s := species.Get(name)
		t.set(fmt.Sprintf("mass_%d", i+1), s.Mass)
		t.set(fmt.Sprintf("zs_%d", i+1), s.Z)
		t.set(fmt.Sprintf("as_%d", i+1), s.Dens())
		t.set(fmt.Sprintf("taus_%d", i+1), s.Temp())
		t.set(fmt.Sprintf("rlts_%d", i+1), s.ALt())
		t.set(fmt.Sprintf("rlns_%d", i+1), s.ALn())
	}
	nu, err := t.convertFrom(electron.Nu, CollisionFrequency, species.Conv, geom)
	if err != nil {
		return err
	}
	t.set("xnue", nu)
	t.set("zeff", species.Zeff)

	beta := num.Beta
	if math.IsNaN(beta) {
		beta = 0
	}
	beta, err = t.convertFrom(beta, Beta, num.Conv, geom)
	if err != nil {
		return err
	}
	t.set("betae", beta)

	t.set("use_bper", num.APar)
	t.set("use_bpar", num.BPar)
	t.set("use_transport_model", num.Nonlinear)
	t.set("ky", num.Ky)
	t.set("nky", num.NKy)
	nxgrid := num.NTheta
	if nxgrid > tglfMaxNTheta {
		nxgrid = tglfMaxNTheta
	}
	t.set("nxgrid", nxgrid)
	t.set("kx0_loc", num.Theta0/(2*math.Pi))
	if !num.Nonlinear {
		t.set("write_wavefunction_flag", 1)
	}
	return nil
}

// Write renders the input in TGLF's native KEY = VALUE form, keys in
// insertion order, logicals as T/F.
func (t *TGLFInput) Write(w io.Writer) error {
	if t.data == nil {
		return ErrEmptyInput
	}
	bw := bufio.NewWriter(w)
	for _, key := range t.keys {
		var s string
		switch v := t.data[key].(type) {
		case bool:
			if v {
				s = "T"
			} else {
				s = "F"
			}
		case float64:
			if t.FloatFormat != "" {
				s = fmt.Sprintf(t.FloatFormat, v)
			} else {
				s = formatFortranValue(v)
			}
		default:
			s = formatFortranValue(v)
		}
		fmt.Fprintf(bw, "%s = %s\n", strings.ToUpper(key), s)
	}
	return bw.Flush()
}

// WriteFile writes the input to the named file.
func (t *TGLFInput) WriteFile(filename string) error {
	if t.data == nil {
		return ErrEmptyInput
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("gyrokit: writing TGLF input: %w", err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
