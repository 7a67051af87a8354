// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/fluxfem/fluxfem/dof"

	"github.com/cpmech/gosl/chk"
)

// VectorAssembler computes local vectors. Implementations are stateless: they read elements and
// the solution and never touch global data
type VectorAssembler interface {
	VectorFromElement(e Element, sol *Solution) ([]float64, error) // local vector
	LocationFromElement(e Element, s dof.Numbering) []int          // equation numbers of local rows; 0 => skip
}

// MatrixAssembler computes local matrices. Implementations are stateless
type MatrixAssembler interface {
	MatrixFromElement(e Element, sol *Solution) ([][]float64, error) // local matrix
	LocationFromElement(e Element, s dof.Numbering) []int            // equation numbers of local rows/columns; 0 => skip
}

// Located implements LocationFromElement with the element's full local layout
type Located struct{}

// LocationFromElement returns the location array of e in scheme s
func (Located) LocationFromElement(e Element, s dof.Numbering) []int { return Location(e, s) }

// InternalForces assembles local residuals of elements implementing WithResidual
type InternalForces struct{ Located }

// VectorFromElement returns the local residual
func (InternalForces) VectorFromElement(e Element, sol *Solution) ([]float64, error) {
	r, ok := e.(WithResidual)
	if !ok {
		return nil, chk.Err("element %d cannot compute residuals", e.Id())
	}
	return r.Residual(sol)
}

// Tangent assembles local Jacobians of elements implementing WithResidual
type Tangent struct {
	Located
	FirstIt bool // first iteration of a step
}

// MatrixFromElement returns the local Jacobian
func (o Tangent) MatrixFromElement(e Element, sol *Solution) ([][]float64, error) {
	r, ok := e.(WithResidual)
	if !ok {
		return nil, chk.Err("element %d cannot compute Jacobian matrices", e.Id())
	}
	return r.Jacobian(sol, o.FirstIt)
}
