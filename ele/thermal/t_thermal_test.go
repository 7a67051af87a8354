// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import (
	"testing"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl/hydration"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

const square = `
control: {tf: 7200, dt: 3600}
functions:
  - {name: flux, type: cte, prms: [{n: c, v: 2}]}
materials:
  - name: concrete
    model: hydratingconcretemat
    prms:
      - {n: hydrationmodeltype, v: 1}
      - {n: qpot, v: 500}
      - {n: masscement, v: 350}
      - {n: tau, v: 5000}
      - {n: beta, v: 1.2}
      - {n: dohinf, v: 0.8}
      - {n: castat, v: %g}
      - {n: k, v: 1.5}
      - {n: c, v: 900}
      - {n: d, v: 2300}
mesh:
  verts:
    - {id: 0, tag: 0, c: [0, 0]}
    - {id: 1, tag: 0, c: [1, 0]}
    - {id: 2, tag: 0, c: [1, 1]}
    - {id: 3, tag: 0, c: [0, 1]}
  cells:
    - {id: 0, tag: -1, type: qua4, verts: [0, 1, 2, 3], ftags: [0, -11, 0, 0]}
elems:
  - {tag: -1, mat: concrete, type: thermal}
facebcs:
  - {tag: -11, keys: [q], funcs: [flux]}
`

// allocate allocates the square with the given casting time and numbers its dofs sequentially
func allocate(tst *testing.T, castat float64) (*Thermal, *ele.Solution) {
	sim, err := inp.ParseSim([]byte(io.Sf(square, castat)))
	if err != nil {
		tst.Fatalf("ParseSim failed:\n%v", err)
	}
	nodes, err := ele.BuildNodes(sim)
	if err != nil {
		tst.Fatalf("BuildNodes failed:\n%v", err)
	}
	elems, err := ele.NewAll(sim, nodes)
	if err != nil {
		tst.Fatalf("NewAll failed:\n%v", err)
	}
	o := elems[0].(*Thermal)
	for m, ds := range o.Dofs() {
		ds[0].Eq = m + 1
	}
	sol := ele.NewSolution()
	sol.Fields[dof.FieldAll] = ele.NewField(4, 0)
	return o, sol
}

func Test_thermal01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal01. conduction and flux")

	o, sol := allocate(tst, 1e9)
	sol.T, sol.Dt = 3600, 3600
	chk.Int(tst, "nip", len(o.IpsElem), 4)
	chk.Int(tst, "nbcs", len(o.NatBcs), 1)

	// steady linear field T = 20 + 10 x: R = k・∫ G・∇T + outward flux on edge x=1
	f := sol.Fields[dof.FieldAll]
	X := []float64{0, 1, 1, 0}
	for m := 0; m < 4; m++ {
		f.Y[m] = 20 + 10*X[m]
		f.Yold[m] = f.Y[m]
	}
	err := o.Update(sol)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}
	R, err := o.Residual(sol)
	if err != nil {
		tst.Errorf("Residual failed:\n%v", err)
		return
	}
	k, q := 1.5, 2.0
	assert.InDeltaSlicef(tst, []float64{-5 * k, 5*k + q/2, 5*k + q/2, -5 * k}, R, 1e-12, "R")

	// not cast yet: no hydration
	power, _ := o.IpValue(0, "power")
	doh, _ := o.IpValue(0, "doh")
	temp, _ := o.IpValue(0, "T")
	chk.Float64(tst, "power", 1e-15, power, 0)
	chk.Float64(tst, "doh", 1e-15, doh, 0)
	if temp < 20 || temp > 30 {
		tst.Errorf("temperature at ip must be within nodal values. T = %g", temp)
	}

	// Jacobian: symmetric; capacity adds up to ρ c A / Δt
	K, err := o.Jacobian(sol, true)
	if err != nil {
		tst.Errorf("Jacobian failed:\n%v", err)
		return
	}
	sum := 0.0
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum += K[i][j]
			chk.Float64(tst, io.Sf("K%d%d-K%d%d", i, j, j, i), 1e-13, K[i][j], K[j][i])
		}
	}
	chk.Float64(tst, "ΣK", 1e-10, sum, 2300*900/3600.0)

	// transient: R - Rsteady = ∫ S ρc ΔT/Δt
	for m := 0; m < 4; m++ {
		f.Y[m] += 1
	}
	R2, err := o.Residual(sol)
	if err != nil {
		tst.Errorf("Residual failed:\n%v", err)
		return
	}
	for m := 0; m < 4; m++ {
		chk.Float64(tst, io.Sf("ΔR%d", m), 1e-10, R2[m]-R[m], 2300*900/3600.0/4)
	}
}

func Test_thermal02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal02. hydration heat source")

	o, sol := allocate(tst, 0)
	sol.T, sol.Dt = 3600, 3600
	f := sol.Fields[dof.FieldAll]
	for m := 0; m < 4; m++ {
		f.Y[m], f.Yold[m] = 20, 20
	}
	err := o.Update(sol)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}

	// reference power
	st := new(hydration.Status)
	err = o.Mdl.Update(st, 20, 3600)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}
	if st.New.Power <= 0 {
		tst.Errorf("power must be positive. power = %g", st.New.Power)
		return
	}
	for idx := range o.IpsElem {
		p, _ := o.IpValue(idx, "power")
		chk.Float64(tst, "power", 1e-12, p, st.New.Power)
	}

	// uniform temperature: the residual only holds the source and the boundary flux
	R, err := o.Residual(sol)
	if err != nil {
		tst.Errorf("Residual failed:\n%v", err)
		return
	}
	chk.Float64(tst, "ΣR", 1e-8, R[0]+R[1]+R[2]+R[3], -st.New.Power+2)

	// commit and reset
	doh0, _ := o.IpValue(0, "doh")
	o.Commit()
	sol.T = 7200
	err = o.Update(sol)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}
	doh1, _ := o.IpValue(0, "doh")
	if doh1 <= doh0 {
		tst.Errorf("degree of hydration must increase. %g <= %g", doh1, doh0)
		return
	}
	o.Reset()
	doh2, _ := o.IpValue(0, "doh")
	chk.Float64(tst, "doh after reset", 1e-15, doh2, doh0)
}
