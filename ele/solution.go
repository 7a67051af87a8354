// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/fluxfem/fluxfem/dof"

// Mode selects which value of a dof is requested
type Mode int

// modes
const (
	Current   Mode = iota // current (trial) value at t+Δt
	Previous              // converged value at t
	Increment             // auxiliary increment; e.g. the intermediate velocity increment ΔV*
)

// Field holds the global vectors of one field. Vectors are indexed by equation number minus one
type Field struct {
	Y        []float64 // free values: current
	Yold     []float64 // free values: converged
	Aux      []float64 // free values: auxiliary increment
	Presc    []float64 // prescribed values: current
	PrescOld []float64 // prescribed values: converged
}

// NewField allocates a field with nfree free and npresc prescribed equations
func NewField(nfree, npresc int) *Field {
	return &Field{
		Y:        make([]float64, nfree),
		Yold:     make([]float64, nfree),
		Aux:      make([]float64, nfree),
		Presc:    make([]float64, npresc),
		PrescOld: make([]float64, npresc),
	}
}

// Commit copies current values to converged values
func (o *Field) Commit() {
	copy(o.Yold, o.Y)
	copy(o.PrescOld, o.Presc)
}

// Restore copies converged values to current values and clears the auxiliary vector
func (o *Field) Restore() {
	copy(o.Y, o.Yold)
	copy(o.Presc, o.PrescOld)
	for i := range o.Aux {
		o.Aux[i] = 0
	}
}

// Scales holds the reference quantities of nondimensional simulations
type Scales struct {
	L  float64 // length
	U  float64 // velocity
	D  float64 // density
	Re float64 // Reynolds number D・U・L/μ
}

// Factors returns the scales of length, velocity, density, time and pressure. A nil receiver
// gives unit factors
func (o *Scales) Factors() (l, u, d, t, p float64) {
	if o == nil {
		return 1, 1, 1, 1, 1
	}
	return o.L, o.U, o.D, o.L / o.U, o.D * o.U * o.U
}

// Solution holds the solution data shared by all elements
type Solution struct {
	T      float64           // current time (at the end of the step)
	Dt     float64           // current time increment
	Theta  float64           // θ-method coefficient (implicit solvers)
	Theta1 float64           // CBS: weight of ΔV* in the continuity equation
	Theta2 float64           // CBS: weight of the new pressure
	Scales *Scales           // [optional] nondimensional scales; nil => dimensional
	Fields map[string]*Field // field name => vectors; dof.FieldAll holds all keys
}

// NewSolution returns a new Solution
func NewSolution() *Solution {
	return &Solution{Theta: 1, Theta1: 1, Theta2: 1, Fields: make(map[string]*Field)}
}

// Field returns the vectors holding the dof key
func (o *Solution) Field(key string) *Field {
	if f, ok := o.Fields[dof.FieldOf(key)]; ok {
		return f
	}
	return o.Fields[dof.FieldAll]
}

// Value returns the value of d. Prescribed dofs return the increment Presc - PrescOld in
// Increment mode. Dofs without vectors or equations return 0
func (o *Solution) Value(d *dof.Dof, mode Mode) float64 {
	f := o.Field(d.Key)
	if f == nil {
		return 0
	}
	if d.Prescribed() {
		i := d.PrescribedEq - 1
		if i < 0 || i >= len(f.Presc) {
			return 0
		}
		switch mode {
		case Current:
			return f.Presc[i]
		case Previous:
			return f.PrescOld[i]
		}
		return f.Presc[i] - f.PrescOld[i]
	}
	i := d.Eq - 1
	if i < 0 || i >= len(f.Y) {
		return 0
	}
	switch mode {
	case Current:
		return f.Y[i]
	case Previous:
		return f.Yold[i]
	}
	return f.Aux[i]
}

// Values returns the values of all dofs in local layout
func (o *Solution) Values(dofs [][]*dof.Dof, mode Mode) (vals []float64) {
	for _, ds := range dofs {
		for _, d := range ds {
			vals = append(vals, o.Value(d, mode))
		}
	}
	return
}
