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
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

func TestComplexArrayIndexing(t *testing.T) {
	a := ZerosComplex(2, 3, 4)
	a.Set(complex(1, -1), 1, 2, 3)
	if got := a.Get(1, 2, 3); got != complex(1, -1) {
		t.Errorf("got %v", got)
	}
	if got := a.Elements[a.Index1d(1, 2, 3)]; got != complex(1, -1) {
		t.Errorf("flat index mismatch: %v", got)
	}
	// Row-major: last index varies fastest.
	if a.Index1d(0, 0, 1) != 1 || a.Index1d(0, 1, 0) != 4 || a.Index1d(1, 0, 0) != 12 {
		t.Error("index order is not row-major")
	}

	re := a.Real()
	im := a.Imag()
	if re.Get(1, 2, 3) != 1 || im.Get(1, 2, 3) != -1 {
		t.Errorf("Real/Imag split: %g, %g", re.Get(1, 2, 3), im.Get(1, 2, 3))
	}
}

func TestDatasetDimChecking(t *testing.T) {
	ds := NewDataset()
	if err := ds.AddCoord("time", []float64{0, 1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddVariable("x", []string{"time"}, sparse.ZerosDense(2)); err == nil {
		t.Error("expected length-mismatch error")
	}
	if err := ds.AddVariable("x", []string{"nope"}, sparse.ZerosDense(3)); err == nil {
		t.Error("expected unknown-coordinate error")
	}
	if err := ds.AddVariable("x", []string{"time"}, sparse.ZerosDense(3)); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddVariable("x", []string{"time"}, sparse.ZerosDense(3)); err == nil {
		t.Error("expected duplicate-variable error")
	}
}

func TestDatasetNetCDFRoundTrip(t *testing.T) {
	const tolerance = 1e-12
	ds := NewDataset()
	if err := ds.AddCoord("time", []float64{0, 0.5, 1}); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddCoord("ky", []float64{0.3}); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddLabelCoord("species", []string{"ion1", "electron"}); err != nil {
		t.Fatal(err)
	}

	flux := sparse.ZerosDense(2, 3)
	for i := range flux.Elements {
		flux.Elements[i] = float64(i) * 1.5
	}
	if err := ds.AddVariable("flux", []string{"species", "time"}, flux); err != nil {
		t.Fatal(err)
	}

	phi := ZerosComplex(1, 3)
	phi.Set(complex(1, 2), 0, 0)
	phi.Set(complex(-0.5, 0.25), 0, 2)
	if err := ds.AddComplexVariable("phi", []string{"ky", "time"}, phi); err != nil {
		t.Fatal(err)
	}

	ds.SetAttr("linear", true)
	ds.SetAttr("ntime", 3)
	ds.SetAttr("code", "gene")

	file := filepath.Join(t.TempDir(), "out.nc")
	if err := ds.WriteNetCDF(file); err != nil {
		t.Fatal(err)
	}
	back, err := ReadNetCDF(file)
	if err != nil {
		t.Fatal(err)
	}

	timeCoord := back.Coord("time")
	if timeCoord == nil || !reflect.DeepEqual(timeCoord.Values, []float64{0, 0.5, 1}) {
		t.Errorf("time coord: %+v", timeCoord)
	}
	species := back.Coord("species")
	if species == nil || !reflect.DeepEqual(species.Labels, []string{"ion1", "electron"}) {
		t.Errorf("species coord: %+v", species)
	}

	flux2 := back.Variable("flux")
	if flux2 == nil {
		t.Fatal("missing flux variable")
	}
	if !reflect.DeepEqual(flux2.Dims, []string{"species", "time"}) {
		t.Errorf("flux dims: %v", flux2.Dims)
	}
	for i := range flux.Elements {
		if math.Abs(flux2.Data.Elements[i]-flux.Elements[i]) > tolerance {
			t.Errorf("flux[%d] = %g, want %g", i, flux2.Data.Elements[i], flux.Elements[i])
		}
	}

	phi2 := back.ComplexVariable("phi")
	if phi2 == nil {
		t.Fatal("missing phi variable")
	}
	if got := phi2.Data.Get(0, 0); got != complex(1, 2) {
		t.Errorf("phi[0,0] = %v, want 1+2i", got)
	}
	if got := phi2.Data.Get(0, 2); got != complex(-0.5, 0.25) {
		t.Errorf("phi[0,2] = %v, want -0.5+0.25i", got)
	}

	if got := back.Attr("ntime"); got != 3 {
		t.Errorf("ntime attr = %v, want 3", got)
	}
	if got := back.Attr("linear"); got != 1 {
		t.Errorf("linear attr = %v, want 1 (stored as int)", got)
	}
	if got := back.Attr("code"); got != "gene" {
		t.Errorf("code attr = %v, want gene", got)
	}
}

func TestGENEOutputToNetCDF(t *testing.T) {
	// End to end: read a synthetic GENE run and serialize it.
	dir := t.TempDir()
	if err := writeMinimalGENERun(dir); err != nil {
		t.Fatal(err)
	}
	ds, err := ReadGENEOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(t.TempDir(), "gene.nc")
	if err := ds.WriteNetCDF(file); err != nil {
		t.Fatal(err)
	}
	back, err := ReadNetCDF(file)
	if err != nil {
		t.Fatal(err)
	}
	if back.Variable("fluxes") == nil {
		t.Error("fluxes variable lost in NetCDF round trip")
	}
	if !reflect.DeepEqual(back.Coord("species").Labels, ds.Coord("species").Labels) {
		t.Errorf("species labels: %v != %v",
			back.Coord("species").Labels, ds.Coord("species").Labels)
	}
}
