// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// NonConvergenceError reports a linear or nonlinear solve that did not reach its tolerance. Solvers
// recover from it by reducing the time step
type NonConvergenceError struct {
	Stage string // stage where the failure happened; e.g. "predict", "newton"
	Msg   string // message
}

// Error returns the message
func (o *NonConvergenceError) Error() string {
	return io.Sf("%s: non-convergence: %s", o.Stage, o.Msg)
}

// nonConvergence returns a new NonConvergenceError
func nonConvergence(stage, msg string, args ...interface{}) error {
	return &NonConvergenceError{Stage: stage, Msg: io.Sf(msg, args...)}
}

// StepSizeError reports a time step reduced below the minimum after repeated non-convergence.
// It is fatal
type StepSizeError struct {
	Dt    float64 // attempted time step
	DtMin float64 // minimum time step
	Cause error   // last non-convergence error
}

// Error returns the message
func (o *StepSizeError) Error() string {
	return io.Sf("time step Δt = %g is smaller than the minimum %g after non-convergence:\n%v", o.Dt, o.DtMin, o.Cause)
}

// Unwrap returns the cause
func (o *StepSizeError) Unwrap() error { return o.Cause }

// IsNonConvergence tells whether err (or any error it wraps) is a NonConvergenceError
func IsNonConvergence(err error) bool {
	var nc *NonConvergenceError
	return errors.As(err, &nc)
}
