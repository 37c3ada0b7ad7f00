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
	"testing"
)

func TestBunitOverB0Circular(t *testing.T) {
	// For unshifted concentric circular surfaces the loop integral has a
	// closed form: Bunit/B0 = 1/sqrt(1 - (r/R)^2).
	const tolerance = 1e-8
	for _, tc := range []struct{ rho, rmaj float64 }{
		{0.1, 3.0},
		{0.5, 3.0},
		{0.3, 1.2},
	} {
		g := NewMillerShape()
		g.Rho = tc.rho
		g.Rmaj = tc.rmaj
		eps := tc.rho / tc.rmaj
		want := 1 / math.Sqrt(1-eps*eps)
		if got := g.BunitOverB0(); math.Abs(got-want) > tolerance {
			t.Errorf("rho=%g rmaj=%g: Bunit/B0 = %g, want %g", tc.rho, tc.rmaj, got, want)
		}
	}
}

func TestBunitOverB0Elongated(t *testing.T) {
	// Elongation stretches the poloidal circumference, raising Bunit.
	g := NewMillerShape()
	circular := g.BunitOverB0()
	g.Kappa = 2.0
	if elongated := g.BunitOverB0(); elongated <= circular {
		t.Errorf("kappa=2 Bunit/B0 = %g should exceed circular value %g", elongated, circular)
	}
}

func TestTriangularityAccessors(t *testing.T) {
	const tolerance = 1e-12
	g := NewMillerShape()
	g.SetDelta(0.3)
	g.SetSDelta(0.8)
	if math.Abs(g.Delta()-0.3) > tolerance {
		t.Errorf("Delta = %g, want 0.3", g.Delta())
	}
	if math.Abs(g.SDelta()-0.8) > tolerance {
		t.Errorf("SDelta = %g, want 0.8", g.SDelta())
	}

	g.SetZeta(-0.05)
	g.SetSZeta(0.02)
	if math.Abs(g.Zeta()+0.05) > tolerance {
		t.Errorf("Zeta = %g, want -0.05", g.Zeta())
	}
	if math.Abs(g.SZeta()-0.02) > tolerance {
		t.Errorf("SZeta = %g, want 0.02", g.SZeta())
	}
}

func TestFluxSurfaceShape(t *testing.T) {
	const tolerance = 1e-12
	g := NewMillerShape()
	g.Kappa = 1.5
	g.Z0 = 0.1

	theta := []float64{0, math.Pi / 2, math.Pi}
	R, Z := g.FluxSurface(theta)
	if math.Abs(R[0]-(g.Rmaj+g.Rho)) > tolerance {
		t.Errorf("R(0) = %g, want %g", R[0], g.Rmaj+g.Rho)
	}
	if math.Abs(R[2]-(g.Rmaj-g.Rho)) > tolerance {
		t.Errorf("R(pi) = %g, want %g", R[2], g.Rmaj-g.Rho)
	}
	if math.Abs(Z[1]-(g.Z0+g.Kappa*g.Rho)) > tolerance {
		t.Errorf("Z(pi/2) = %g, want %g", Z[1], g.Z0+g.Kappa*g.Rho)
	}
	if math.Abs(Z[0]-g.Z0) > tolerance {
		t.Errorf("Z(0) = %g, want %g", Z[0], g.Z0)
	}
}

func TestTriangularShapeAsymmetry(t *testing.T) {
	// Positive triangularity pulls the top of the surface inboard.
	g := NewMillerShape()
	g.SetDelta(0.4)
	R, _ := g.FluxSurface([]float64{math.Pi / 2})
	if R[0] >= g.Rmaj {
		t.Errorf("R(pi/2) = %g should be inboard of Rmaj %g with positive delta", R[0], g.Rmaj)
	}
}

func TestFinalizeIsDeepCopy(t *testing.T) {
	g := NewMillerShape()
	g.SetDelta(0.2)
	lg := g.Finalize(1.2, -0.1)

	g.SetDelta(0.4)
	g.Kappa = 3

	if lg.Delta() != math.Sin(math.Asin(0.2)) {
		t.Errorf("finalized geometry delta changed after shape mutation: %g", lg.Delta())
	}
	if lg.Kappa != 1.0 {
		t.Errorf("finalized geometry kappa changed after shape mutation: %g", lg.Kappa)
	}
	if lg.B0 != 1.2 || lg.BetaPrime != -0.1 {
		t.Errorf("B0=%g BetaPrime=%g, want 1.2, -0.1", lg.B0, lg.BetaPrime)
	}

	c := lg.Copy()
	c.Sn[1] = 0
	if lg.Delta() == 0 {
		t.Error("mutating the copy changed the original")
	}
}

func TestMXHDegeneratesToMiller(t *testing.T) {
	// With zero squareness moments, MXH and Miller describe the same
	// surface, so the Bunit ratio must agree.
	const tolerance = 1e-12
	miller := NewMillerShape()
	miller.SetDelta(0.3)
	miller.Kappa = 1.4

	mxh := NewMXHShape()
	mxh.SetDelta(0.3)
	mxh.Kappa = 1.4

	if d := math.Abs(miller.BunitOverB0() - mxh.BunitOverB0()); d > tolerance {
		t.Errorf("Miller and degenerate MXH Bunit/B0 differ by %g", d)
	}
}
