// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements finite elements
package ele

import (
	"github.com/fluxfem/fluxfem/dof"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// Element defines what all elements must implement
type Element interface {

	// information and initialisation
	Id() int            // returns the cell Id
	Dofs() [][]*dof.Dof // dofs per node following the element's mask; defines the local layout
	Nodes() []*dof.Node // nodes of element

	// conditions (natural BCs and element's)
	SetEleConds(key string, f dbf.T, extra string) (err error) // set element conditions

	// reading and writing of element data
	Encode(enc utl.Encoder) (err error) // encodes internal variables
	Decode(dec utl.Decoder) (err error) // decodes internal variables
}

// WithIntVars defines elements with material states at integration points
type WithIntVars interface {
	Update(sol *Solution) (err error) // integrates states with the current solution (trial values)
	Commit()                          // accepts trial states; new => old
	Reset()                           // discards trial states; old => new
}

// WithResidual defines elements contributing to implicit solvers
type WithResidual interface {
	Residual(sol *Solution) (R []float64, err error)                 // local residual R = fint - fext
	Jacobian(sol *Solution, firstIt bool) (K [][]float64, err error) // local Jacobian dR/dy
}

// CanOutputIps defines elements that can output integration points' values
type CanOutputIps interface {
	Id() int                                            // returns the cell Id
	IpCoords() [][]float64                              // coordinates of integration points
	IpKeys() []string                                   // integration points' keys; e.g. "damage", "doh"
	IpValue(idx int, key string) (val float64, ok bool) // value of key at integration point idx; read-only
}

// WithFixedKM defines elements with fixed K matrices; to be recomputed if prms are changed
type WithFixedKM interface {
	Recompute() // recompute K
}

// Location returns, for each local row of e, the equation number in scheme s or 0
func Location(e Element, s dof.Numbering) (loc []int) {
	for _, dofs := range e.Dofs() {
		for _, d := range dofs {
			loc = append(loc, s.EquationNumber(d))
		}
	}
	return
}

// Ndofs returns the number of local dofs of e
func Ndofs(e Element) (n int) {
	for _, dofs := range e.Dofs() {
		n += len(dofs)
	}
	return
}
