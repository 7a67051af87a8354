// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydration

import "github.com/cpmech/gosl/utl"

// State holds the hydration state at one integration point
type State struct {
	DoH          float64 // degree of hydration
	EquivTime    float64 // equivalent (maturity) time
	Power        float64 // heat released per unit volume and time over the last step
	LastEvalTime float64 // time of the evaluation
}

// Status holds the old (converged) and new (trial) states
type Status struct {
	Old State
	New State
}

// Commit copies new to old
func (o *Status) Commit() { o.Old = o.New }

// Reset copies old to new
func (o *Status) Reset() { o.New = o.Old }

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
