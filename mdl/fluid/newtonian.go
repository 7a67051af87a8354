// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements models for incompressible fluids
package fluid

import (
	"github.com/fluxfem/fluxfem/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Newtonian implements an incompressible Newtonian fluid
//   σ = -p I + 2 μ sym(∇v)
type Newtonian struct {
	Rho float64 // density
	Mu  float64 // dynamic viscosity
}

// add model to factory
func init() {
	mdl.SetAllocator("newtonian", func() mdl.Model { return new(Newtonian) })
}

// Init initialises this structure
func (o *Newtonian) Init(prms dbf.Params) (err error) {
	err = mdl.Require("newtonian", prms, "rho", "mu")
	if err != nil {
		return
	}
	for _, p := range prms {
		switch p.N {
		case "rho":
			o.Rho = p.V
		case "mu":
			o.Mu = p.V
		default:
			return chk.Err("newtonian: parameter named %q is invalid", p.N)
		}
	}
	return
}

// GetPrms gets (an example of) parameters
//  Input:
//   example -- returns example of parameters (water at 20°C); othewise returs current parameters
func (o *Newtonian) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "rho", V: 998.2},   // [kg/m³]
			&dbf.P{N: "mu", V: 1.002e-3}, // [Pa・s]
		}
	}
	return dbf.Params{
		&dbf.P{N: "rho", V: o.Rho},
		&dbf.P{N: "mu", V: o.Mu},
	}
}

// CheckConsistency checks parameters
func (o *Newtonian) CheckConsistency() error {
	if o.Rho <= 0 {
		return mdl.Inconsistent("newtonian", "rho", "must be positive. rho = %g", o.Rho)
	}
	if o.Mu <= 0 {
		return mdl.Inconsistent("newtonian", "mu", "must be positive. mu = %g", o.Mu)
	}
	return nil
}

// HasAnalyticalTangent returns true
func (o *Newtonian) HasAnalyticalTangent() bool { return true }

// NewStatus returns an empty status
func (o *Newtonian) NewStatus() mdl.Status { return new(mdl.Stateless) }

// IpValue returns material constants
func (o *Newtonian) IpValue(s mdl.Status, key string) (float64, bool) {
	switch key {
	case "rho":
		return o.Rho, true
	case "mu":
		return o.Mu, true
	case "nu":
		return o.Kinematic(), true
	}
	return 0, false
}

// Kinematic returns the kinematic viscosity ν = μ/ρ
func (o *Newtonian) Kinematic() float64 { return o.Mu / o.Rho }
