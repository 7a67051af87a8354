// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cohesive implements traction-separation models for interface elements
package cohesive

import (
	"github.com/fluxfem/fluxfem/mdl"

	"github.com/cpmech/gosl/utl"
)

// Model defines cohesive (interface) models. Jumps and tractions are given in the local
// interface system ordered as {tangential..., normal}; i.e. the normal component is the last one
type Model interface {
	mdl.Model
	Update(s *Status, jump []float64) error                 // computes s.New for the given jump
	Traction(tr []float64, s *Status, jump []float64) error // computes the traction without changing s
	CalcD(D [][]float64, s *Status, jump []float64) error   // analytical tangent dT/djump (if available)
}

// State holds the internal variables of one integration point
type State struct {
	Damage       float64   // damage variable D ∈ [0, 1]
	Traction     []float64 // traction vector
	Jump         []float64 // displacement jump
	PlastMultInc float64   // increment of plastic multiplier (enables the semi-explicit update)
}

// clone returns a deep copy
func (o State) clone() State {
	return State{
		Damage:       o.Damage,
		Traction:     append([]float64{}, o.Traction...),
		Jump:         append([]float64{}, o.Jump...),
		PlastMultInc: o.PlastMultInc,
	}
}

// ensure allocates traction and jump if necessary
func (o *State) ensure(n int) {
	if len(o.Traction) != n {
		o.Traction = make([]float64, n)
	}
	if len(o.Jump) != n {
		o.Jump = make([]float64, n)
	}
}

// Status holds the old (converged) and new (trial) states
type Status struct {
	Old State // last converged state
	New State // trial state
}

// NewStatus allocates a Status for jumps with n components
func NewStatus(n int) (o *Status) {
	o = new(Status)
	o.Old.ensure(n)
	o.New.ensure(n)
	return
}

// Commit copies new to old
func (o *Status) Commit() { o.Old = o.New.clone() }

// Reset copies old to new
func (o *Status) Reset() { o.New = o.Old.clone() }

// Encode encodes state
func (o *Status) Encode(enc utl.Encoder) (err error) {
	err = enc.Encode(o.Old)
	if err != nil {
		return
	}
	return enc.Encode(o.New)
}

// Decode decodes state
func (o *Status) Decode(dec utl.Decoder) (err error) {
	err = dec.Decode(&o.Old)
	if err != nil {
		return
	}
	return dec.Decode(&o.New)
}
