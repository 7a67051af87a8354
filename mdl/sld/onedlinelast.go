// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sld implements models for structural elements
package sld

import (
	"github.com/fluxfem/fluxfem/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// OnedLinElast implements a linear elastic model for 1D elements
type OnedLinElast struct {
	E   float64 // Young's modulus
	G   float64 // shear modulus
	A   float64 // cross-sectional area
	I22 float64 // moment of inertia of cross section about y2-axis
	I11 float64 // moment of inertia of cross section about y1-axis
	Jtt float64 // torsional constant
	Rho float64 // density
}

// add model to factory
func init() {
	mdl.SetAllocator("oned-elast", func() mdl.Model { return new(OnedLinElast) })
}

// Init initialises model
func (o *OnedLinElast) Init(prms dbf.Params) (err error) {
	err = mdl.Require("oned-elast", prms, "E", "G", "A", "I22", "I11", "Jtt", "rho")
	if err != nil {
		return
	}
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "G":
			o.G = p.V
		case "A":
			o.A = p.V
		case "I22":
			o.I22 = p.V
		case "I11":
			o.I11 = p.V
		case "Jtt":
			o.Jtt = p.V
		case "rho":
			o.Rho = p.V
		default:
			return chk.Err("oned-elast: parameter named %q is invalid", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *OnedLinElast) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "E", V: 2.0000e+08},
			&dbf.P{N: "G", V: 7.5758e+07},
			&dbf.P{N: "A", V: 1.0000e-02},
			&dbf.P{N: "I22", V: 8.3333e-06},
			&dbf.P{N: "I11", V: 8.3333e-06},
			&dbf.P{N: "Jtt", V: 1.4063e-05},
			&dbf.P{N: "rho", V: 7.8500e+00},
		}
	}
	return dbf.Params{
		&dbf.P{N: "E", V: o.E},
		&dbf.P{N: "G", V: o.G},
		&dbf.P{N: "A", V: o.A},
		&dbf.P{N: "I22", V: o.I22},
		&dbf.P{N: "I11", V: o.I11},
		&dbf.P{N: "Jtt", V: o.Jtt},
		&dbf.P{N: "rho", V: o.Rho},
	}
}

// CheckConsistency checks that all section properties are positive
func (o *OnedLinElast) CheckConsistency() error {
	for _, p := range o.GetPrms(false) {
		if p.V <= 0 {
			return mdl.Inconsistent("oned-elast", p.N, "must be positive. %s = %g", p.N, p.V)
		}
	}
	return nil
}

// HasAnalyticalTangent returns true
func (o *OnedLinElast) HasAnalyticalTangent() bool { return true }

// NewStatus returns an empty status
func (o *OnedLinElast) NewStatus() mdl.Status { return new(mdl.Stateless) }

// IpValue returns section properties
func (o *OnedLinElast) IpValue(s mdl.Status, key string) (float64, bool) {
	for _, p := range o.GetPrms(false) {
		if p.N == key {
			return p.V, true
		}
	}
	return 0, false
}
