// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

// CantileverUniform is the Euler-Bernoulli cantilever clamped at x=0 under a uniform load Q
type CantileverUniform struct {
	Q  float64 // load per unit length
	L  float64 // length
	EI float64 // bending stiffness
}

// Deflection returns w(x) = Q x² (6 L² - 4 L x + x²) / (24 EI)
func (o CantileverUniform) Deflection(x float64) float64 {
	return o.Q * x * x * (6*o.L*o.L - 4*o.L*x + x*x) / (24 * o.EI)
}

// Rotation returns dw/dx = Q x (3 L² - 3 L x + x²) / (6 EI)
func (o CantileverUniform) Rotation(x float64) float64 {
	return o.Q * x * (3*o.L*o.L - 3*o.L*x + x*x) / (6 * o.EI)
}

// Moment returns the magnitude of the bending moment Q (L - x)² / 2
func (o CantileverUniform) Moment(x float64) float64 {
	return o.Q * (o.L - x) * (o.L - x) / 2
}

// AdiabaticRise returns the temperature rise of an adiabatic block of hydrating concrete
//  qpot -- latent heat [J/g]; mc -- cement mass per volume [kg/m³]; rho, c -- density and capacity
func AdiabaticRise(qpot, mc, rho, c, doh float64) float64 {
	return qpot * 1000.0 * mc * doh / (rho * c)
}

