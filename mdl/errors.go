// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// MissingPrmError is returned by Init when a required parameter is not given
type MissingPrmError struct {
	Model string // model name
	Prm   string // parameter name
}

func (o *MissingPrmError) Error() string {
	return io.Sf("model %q requires parameter %q", o.Model, o.Prm)
}

// InconsistentError is returned by CheckConsistency
type InconsistentError struct {
	Model string // model name
	Prm   string // offending parameter
	Msg   string // explanation
}

func (o *InconsistentError) Error() string {
	return io.Sf("parameters of model %q are inconsistent: %s %s", o.Model, o.Prm, o.Msg)
}

// Inconsistent returns a new InconsistentError
func Inconsistent(model, prm, msg string, args ...interface{}) error {
	return &InconsistentError{Model: model, Prm: prm, Msg: io.Sf(msg, args...)}
}

// NotConvergedError is returned by state updates whose local iterations failed
type NotConvergedError struct {
	Model string  // model name
	Iters int     // number of iterations performed
	Res   float64 // last residual
}

func (o *NotConvergedError) Error() string {
	return io.Sf("local iterations of model %q did not converge after %d iterations (residual = %g)", o.Model, o.Iters, o.Res)
}

// Require checks that all names are present in prms
func Require(model string, prms dbf.Params, names ...string) error {
	for _, name := range names {
		found := false
		for _, p := range prms {
			if p.N == name {
				found = true
				break
			}
		}
		if !found {
			return &MissingPrmError{Model: model, Prm: name}
		}
	}
	return nil
}
