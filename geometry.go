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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// GeometryKind discriminates the supported local-equilibrium
// parameterizations.
type GeometryKind int

const (
	// GeometryMiller is the Miller parameterization: elongation plus a
	// single triangularity harmonic.
	GeometryMiller GeometryKind = iota
	// GeometryMXH is the Miller eXtended Harmonic parameterization
	// (Arbon et al., PPCF 63 012001), a truncated Fourier series for the
	// poloidal angle asymmetry.
	GeometryMXH
)

func (k GeometryKind) String() string {
	switch k {
	case GeometryMiller:
		return "Miller"
	case GeometryMXH:
		return "MXH"
	}
	return "unknown"
}

// nMXHMoments is the number of harmonic moments carried for MXH shapes.
// Miller shapes use the same storage with only the n=1 sine moment
// (triangularity) populated.
const nMXHMoments = 4

// GeometryShape is the first phase of local-geometry construction: the
// flux-surface shape parameters, without the two physical scale factors
// (B0, beta_prime) that can only be computed once species data is
// available. Call Finalize to obtain the complete LocalGeometry.
//
// The flux surface is
//
//	R(theta) = Rmaj + rho*cos(thetaR),  thetaR = theta + Σ_n (cn cos(n theta) + sn sin(n theta))
//	Z(theta) = Z0 + kappa*rho*sin(theta)
//
// with all lengths normalized to the minor radius.
type GeometryShape struct {
	Kind GeometryKind

	Rho    float64 // r/a
	Rmaj   float64 // major radius / a
	Z0     float64 // midplane elevation / a
	Q      float64 // safety factor
	Shat   float64 // magnetic shear r/q dq/dr
	Kappa  float64 // elongation
	SKappa float64 // elongation shear r/kappa dkappa/dr
	Shift  float64 // Shafranov shift
	DZ0dr  float64 // shear in midplane elevation

	// Harmonic moments of thetaR and their radial derivatives.
	Cn, Sn, DCnDr, DSnDr []float64
}

func defaultShape(kind GeometryKind) *GeometryShape {
	return &GeometryShape{
		Kind:  kind,
		Rho:   0.5,
		Rmaj:  3.0,
		Q:     2.0,
		Shat:  1.0,
		Kappa: 1.0,
		Cn:    make([]float64, nMXHMoments),
		Sn:    make([]float64, nMXHMoments),
		DCnDr: make([]float64, nMXHMoments),
		DSnDr: make([]float64, nMXHMoments),
	}
}

// NewMillerShape returns a Miller shape with GA standard-case defaults.
func NewMillerShape() *GeometryShape { return defaultShape(GeometryMiller) }

// NewMXHShape returns an MXH shape with GA standard-case defaults.
func NewMXHShape() *GeometryShape { return defaultShape(GeometryMXH) }

// Delta returns the triangularity sin(sn[1]).
func (g *GeometryShape) Delta() float64 { return math.Sin(g.Sn[1]) }

// SetDelta sets the triangularity.
func (g *GeometryShape) SetDelta(v float64) { g.Sn[1] = math.Asin(v) }

// SDelta returns the triangularity shear.
func (g *GeometryShape) SDelta() float64 {
	d := g.Delta()
	return g.DSnDr[1] * math.Sqrt(1-d*d)
}

// SetSDelta sets the triangularity shear.
func (g *GeometryShape) SetSDelta(v float64) {
	d := g.Delta()
	g.DSnDr[1] = v / math.Sqrt(1-d*d)
}

// Zeta returns the squareness -sn[2].
func (g *GeometryShape) Zeta() float64 { return -g.Sn[2] }

// SetZeta sets the squareness.
func (g *GeometryShape) SetZeta(v float64) { g.Sn[2] = -v }

// SZeta returns the squareness shear.
func (g *GeometryShape) SZeta() float64 { return -g.DSnDr[2] }

// SetSZeta sets the squareness shear.
func (g *GeometryShape) SetSZeta(v float64) { g.DSnDr[2] = -v }

// ThetaR returns the poloidal angle used in the definition of R for each
// input theta.
func (g *GeometryShape) ThetaR(theta []float64) []float64 {
	out := make([]float64, len(theta))
	for i, th := range theta {
		tr := th
		for n := 0; n < nMXHMoments; n++ {
			fn := float64(n)
			tr += g.Cn[n]*math.Cos(fn*th) + g.Sn[n]*math.Sin(fn*th)
		}
		out[i] = tr
	}
	return out
}

func (g *GeometryShape) dThetaRdTheta(th float64) float64 {
	d := 1.0
	for n := 0; n < nMXHMoments; n++ {
		fn := float64(n)
		d += fn * (-g.Cn[n]*math.Sin(fn*th) + g.Sn[n]*math.Cos(fn*th))
	}
	return d
}

// FluxSurface evaluates (R, Z) of the flux surface, normalized to the
// minor radius, at the given theta values.
func (g *GeometryShape) FluxSurface(theta []float64) (R, Z []float64) {
	thetaR := g.ThetaR(theta)
	R = make([]float64, len(theta))
	Z = make([]float64, len(theta))
	for i, th := range theta {
		R[i] = g.Rmaj + g.Rho*math.Cos(thetaR[i])
		Z[i] = g.Z0 + g.Kappa*g.Rho*math.Sin(th)
	}
	return R, Z
}

// RZDerivatives returns dR/dtheta and dZ/dtheta at the given theta values.
func (g *GeometryShape) RZDerivatives(theta []float64) (dRdTheta, dZdTheta []float64) {
	thetaR := g.ThetaR(theta)
	dRdTheta = make([]float64, len(theta))
	dZdTheta = make([]float64, len(theta))
	for i, th := range theta {
		dRdTheta[i] = -g.Rho * math.Sin(thetaR[i]) * g.dThetaRdTheta(th)
		dZdTheta[i] = g.Kappa * g.Rho * math.Cos(th)
	}
	return dRdTheta, dZdTheta
}

// bunitThetaPoints is the poloidal resolution of the Bunit loop integral.
const bunitThetaPoints = 257

// BunitOverB0 returns the ratio of the GACODE normalizing field
// Bunit = q/r dpsi/dr to the field B0 at the major radius,
//
//	Bunit/B0 = Rmaj/(2 pi rho) * loop-integral of (1/R) dl/dtheta dtheta
//
// where dl = sqrt(dR² + dZ²) is the normalized poloidal arc length. The
// ratio depends only on the flux-surface shape, so it is available before
// the geometry is finalized.
func (g *GeometryShape) BunitOverB0() float64 {
	theta := make([]float64, bunitThetaPoints)
	floats.Span(theta, 0, 2*math.Pi)
	R, _ := g.FluxSurface(theta)
	dR, dZ := g.RZDerivatives(theta)
	integrand := make([]float64, len(theta))
	for i := range theta {
		integrand[i] = math.Hypot(dR[i], dZ[i]) / R[i]
	}
	loop := integrate.Trapezoidal(theta, integrand)
	return g.Rmaj / (2 * math.Pi * g.Rho) * loop
}

// Copy returns a deep copy of the shape.
func (g *GeometryShape) Copy() *GeometryShape {
	c := *g
	c.Cn = append([]float64(nil), g.Cn...)
	c.Sn = append([]float64(nil), g.Sn...)
	c.DCnDr = append([]float64(nil), g.DCnDr...)
	c.DSnDr = append([]float64(nil), g.DSnDr...)
	return &c
}

// Finalize completes the two-phase geometry construction by attaching the
// physical scale factors that require species data: b0 is the field at the
// major radius normalized to Bunit conventions (NaN when the source file
// carries no beta information), and betaPrime is the normalized total
// pressure gradient 2 mu0 dp/dr / B0².
func (g *GeometryShape) Finalize(b0, betaPrime float64) *LocalGeometry {
	return &LocalGeometry{
		GeometryShape: *g.Copy(),
		B0:            b0,
		BetaPrime:     betaPrime,
		BunitOverB0:   g.BunitOverB0(),
	}
}

// LocalGeometry is a finalized local equilibrium: the flux-surface shape
// plus the two scale factors that could only be computed once species data
// was available. Construct via a GeometryShape and Finalize.
type LocalGeometry struct {
	GeometryShape

	B0          float64 // field at major radius; NaN when not derivable
	BetaPrime   float64
	BunitOverB0 float64
}

// Copy returns a deep copy.
func (g *LocalGeometry) Copy() *LocalGeometry {
	c := *g
	c.GeometryShape = *g.GeometryShape.Copy()
	return &c
}
