// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// LinSol solves the linear systems K x = b assembled by the solvers
type LinSol interface {
	Solve(x []float64, K *la.Triplet, b []float64) error // x := K⁻¹ b; failures are NonConvergenceErrors
}

// linsolAllocators holds all available linear solvers
var linsolAllocators = make(map[string]func() LinSol)

// SetLinSol registers a linear solver
func SetLinSol(name string, fcn func() LinSol) {
	if _, ok := linsolAllocators[name]; ok {
		chk.Panic("linear solver %q is already registered", name)
	}
	linsolAllocators[name] = fcn
}

// NewLinSol returns a new linear solver
func NewLinSol(name string) (LinSol, error) {
	fcn, ok := linsolAllocators[name]
	if !ok {
		return nil, chk.Err("linear solver %q is not available. options: %v", name, LinSols())
	}
	return fcn(), nil
}

// LinSols returns the names of the available linear solvers
func LinSols() (names []string) {
	for name := range linsolAllocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func init() {
	SetLinSol("umfpack", func() LinSol { return new(Umfpack) })
	SetLinSol("dense", func() LinSol { return new(DenseLU) })
}

// Umfpack solves sparse systems with UMFPACK
type Umfpack struct{}

// Solve solves K x = b
func (o *Umfpack) Solve(x []float64, K *la.Triplet, b []float64) (err error) {
	if len(b) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			err = nonConvergence("linsol", "umfpack failed: %v", r)
		}
	}()
	res := la.SpSolve(K, b)
	copy(x, res)
	return checkFinite(x)
}

// DenseLU solves systems with the LU decomposition of the dense matrix
type DenseLU struct{}

// Solve solves K x = b
func (o *DenseLU) Solve(x []float64, K *la.Triplet, b []float64) (err error) {
	n := len(b)
	if n == 0 {
		return
	}
	Kd := K.ToDense()
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, Kd.Get(i, j))
		}
	}
	var lu mat.LU
	lu.Factorize(a)
	if lu.Det() == 0 {
		return nonConvergence("linsol", "matrix is singular")
	}
	var v mat.VecDense
	err = lu.SolveVecTo(&v, false, mat.NewVecDense(n, append([]float64{}, b...)))
	if err != nil {
		return nonConvergence("linsol", "%v", err)
	}
	for i := 0; i < n; i++ {
		x[i] = v.AtVec(i)
	}
	return checkFinite(x)
}

// checkFinite returns a NonConvergenceError if x has NaN or Inf entries
func checkFinite(x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nonConvergence("linsol", "solution has invalid value %v at position %d", v, i)
		}
	}
	return nil
}
