// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cohesive

import (
	"math"
	"testing"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

const interfaceTpl = `
control: {tf: 1, dt: 1}
materials:
  - name: glue
    model: intmatbilinearcz
    prms:
      - {n: kn, v: 1000}
      - {n: g1c, v: 1}
      - {n: g2c, v: 2}
      - {n: sigf, v: 10}
      - {n: mu, v: 0}
      - {n: gamma, v: 1}
mesh:
  verts:
    - {id: 0, tag: 0, c: [0, 0]}
    - {id: 1, tag: 0, c: [%g, %g]}
    - {id: 2, tag: 0, c: [%g, %g]}
    - {id: 3, tag: 0, c: [0, 0]}
  cells:
    - {id: 0, tag: -1, type: joint4, verts: [0, 1, 2, 3]}
elems:
  - {tag: -1, mat: glue, type: cohesive2d}
`

// allocate allocates an interface from (0,0) to (x,y) and numbers all dofs sequentially
func allocate(tst *testing.T, x, y float64) (*Cohesive2d, *ele.Solution) {
	sim, err := inp.ParseSim([]byte(io.Sf(interfaceTpl, x, y, x, y)))
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
	o := elems[0].(*Cohesive2d)
	eq := 0
	for _, ds := range o.Dofs() {
		for _, d := range ds {
			eq++
			d.Eq = eq
		}
	}
	sol := ele.NewSolution()
	sol.Fields[dof.FieldAll] = ele.NewField(8, 0)
	return o, sol
}

// move sets the displacements of the top nodes
func move(sol *ele.Solution, ux, uy float64) {
	Y := sol.Fields[dof.FieldAll].Y
	Y[4], Y[5], Y[6], Y[7] = ux, uy, ux, uy
}

func Test_cohesive01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cohesive01. geometry and elastic opening")

	o, sol := allocate(tst, 2, 0)
	chk.Deep2(tst, "rot", 1e-15, o.Rot, [][]float64{{1, 0}, {0, 1}})
	chk.Float64(tst, "length", 1e-15, o.det[0]+o.det[1], 2)
	a := 1.0 - 1.0/math.Sqrt(3)
	assert.InDeltaSlicef(tst, []float64{a, 0}, o.IpCoords()[0], 1e-15, "x(ip0)")

	// normal opening below the elastic limit: reaction = kn・δ・length
	kn, δ, L := 1000.0, 0.001, 2.0
	move(sol, 0, δ)
	R, err := o.Residual(sol)
	if err != nil {
		tst.Errorf("Residual failed:\n%v", err)
		return
	}
	assert.InDeltaSlicef(tst, []float64{0, -1, 0, -1, 0, 1, 0, 1}, R, 1e-12, "R")
	chk.Float64(tst, "Σ fy(top)", 1e-12, R[5]+R[7], kn*δ*L)

	// sliding
	move(sol, δ, 0)
	R, err = o.Residual(sol)
	if err != nil {
		tst.Errorf("Residual failed:\n%v", err)
		return
	}
	chk.Float64(tst, "Σ fx(top)", 1e-12, R[4]+R[6], kn*δ*L)

	// numerical tangent equals the penalty stiffness in the elastic range
	K, err := o.Jacobian(sol, true)
	if err != nil {
		tst.Errorf("Jacobian failed:\n%v", err)
		return
	}
	chk.Float64(tst, "K55", 1e-5, K[5][5], kn*L/3)
	chk.Float64(tst, "K57", 1e-5, K[5][7], kn*L/6)
	chk.Float64(tst, "K51", 1e-5, K[5][1], -kn*L/6)
	chk.Float64(tst, "K54", 1e-5, K[5][4], 0)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			chk.Float64(tst, io.Sf("K%d%d-K%d%d", i, j, j, i), 1e-5, K[i][j], K[j][i])
		}
	}
}

func Test_cohesive02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cohesive02. inclined interface and damage")

	o, sol := allocate(tst, 1, 1)
	r := 1.0 / math.Sqrt2
	chk.Deep2(tst, "rot", 1e-15, o.Rot, [][]float64{{r, r}, {-r, r}})

	// opening along the normal
	kn, δ := 1000.0, 0.001
	move(sol, -r*δ, r*δ)
	err := o.Update(sol)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}
	for idx := range o.Ips {
		jn, _ := o.IpValue(idx, "jn")
		jt, _ := o.IpValue(idx, "jt")
		tn, _ := o.IpValue(idx, "tn")
		D, _ := o.IpValue(idx, "damage")
		chk.Float64(tst, "jn", 1e-15, jn, δ)
		chk.Float64(tst, "jt", 1e-15, jt, 0)
		chk.Float64(tst, "tn", 1e-12, tn, kn*δ)
		chk.Float64(tst, "damage", 1e-15, D, 0)
	}
	R, err := o.Residual(sol)
	if err != nil {
		tst.Errorf("Residual failed:\n%v", err)
		return
	}
	fn := -r*(R[4]+R[6]) + r*(R[5]+R[7])
	chk.Float64(tst, "Σ fn(top)", 1e-12, fn, kn*δ*math.Sqrt2)
	o.Commit()

	// opening beyond the peak stress damages the interface
	move(sol, -r*20*δ, r*20*δ)
	err = o.Update(sol)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}
	D, _ := o.IpValue(0, "damage")
	if D <= 0 {
		tst.Errorf("damage must be positive after exceeding the peak stress. D = %g", D)
		return
	}
	tn, _ := o.IpValue(0, "tn")
	if tn >= kn*20*δ {
		tst.Errorf("traction must be below the elastic trial value. tn = %g", tn)
		return
	}

	// reset restores the undamaged state
	o.Reset()
	D, _ = o.IpValue(0, "damage")
	chk.Float64(tst, "damage after reset", 1e-15, D, 0)
	jn, _ := o.IpValue(0, "jn")
	chk.Float64(tst, "jn after reset", 1e-15, jn, δ)
}
