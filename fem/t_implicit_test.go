// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/fluxfem/fluxfem/ana"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// newImplicit parses data and allocates the simulation with the implicit solver
func newImplicit(tst *testing.T, data string) (*Main, *Implicit) {
	sim, err := inp.ParseSim([]byte(data))
	if err != nil {
		tst.Fatalf("ParseSim failed:\n%v", err)
	}
	m, err := NewMain(sim, false, chk.Verbose)
	if err != nil {
		tst.Fatalf("NewMain failed:\n%v", err)
	}
	return m, m.Solver.(*Implicit)
}

// adiabatic block of hydrating concrete: no boundary conditions
//
//    3 o-------o 4-----o 5
//      |       |       |
//      |       |       |
//    0 o-------o-------o 2
//              1
const adiabatic = `
linsol: {name: dense}
solver:
  type: implicit
  implicit: {nmaxit: 50}
control: {tf: 3600, dt: 900}
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
      - {n: castat, v: 0}
      - {n: k, v: 1.5}
      - {n: c, v: 900}
      - {n: d, v: 2300}
mesh:
  verts:
    - {id: 0, tag: 0, c: [0, 0]}
    - {id: 1, tag: 0, c: [1, 0]}
    - {id: 2, tag: 0, c: [2, 0]}
    - {id: 3, tag: 0, c: [0, 1]}
    - {id: 4, tag: 0, c: [1, 1]}
    - {id: 5, tag: 0, c: [2, 1]}
  cells:
    - {id: 0, tag: -1, type: qua4, verts: [0, 1, 4, 3], ftags: [0, 0, 0, 0]}
    - {id: 1, tag: -1, type: qua4, verts: [1, 2, 5, 4], ftags: [0, 0, 0, 0]}
elems:
  - {tag: -1, mat: concrete, type: thermal}
inivals:
  - {tag: 0, keys: [T], vals: [20]}
`

func Test_implicit01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit01. adiabatic hydration: energy balance")

	m, o := newImplicit(tst, adiabatic)
	err := m.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	chk.Int(tst, "nsteps", o.Step, 4)
	chk.Float64(tst, "t", 1e-12, o.T, 3600)
	chk.Int(tst, "iters", len(m.Summary.Iters), 4)

	// uniform temperature
	Tf := o.Sol.Value(o.Dom.Nodes[0].GetDof("T"), ele.Current)
	if Tf <= 20 {
		tst.Errorf("temperature must increase. T = %g", Tf)
		return
	}
	for _, nod := range o.Dom.Nodes {
		chk.Float64(tst, io.Sf("T%d", nod.Id), 1e-9, o.Sol.Value(nod.GetDof("T"), ele.Current), Tf)
	}

	// ρ c ΔT = Qpot α 1000 mc
	for _, e := range o.Dom.ElemOutIps {
		for idx := range e.IpCoords() {
			doh, _ := e.IpValue(idx, "doh")
			if doh <= 0 || doh > 0.8 {
				tst.Errorf("degree of hydration must be in (0, 0.8]. doh = %g", doh)
				return
			}
			ΔT := ana.AdiabaticRise(500, 350, 2300, 900, doh)
			chk.Float64(tst, "ΔT", 1e-6*ΔT, Tf-20, ΔT)
		}
	}
}

// interface pulled apart: bottom nodes are fixed and the top nodes move up with uy = 0.001 t
//
//    3 o===========o 2
//    0 o-----------o 1
const pull = `
linsol: {name: dense}
solver: {type: implicit}
control: {tf: 20, dt: 1}
functions:
  - {name: up, type: lin, prms: [{n: m, v: 0.001}]}
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
    - {id: 0, tag: -1, c: [0, 0]}
    - {id: 1, tag: -1, c: [1, 0]}
    - {id: 2, tag: -2, c: [1, 0]}
    - {id: 3, tag: -2, c: [0, 0]}
  cells:
    - {id: 0, tag: -1, type: joint4, verts: [0, 1, 2, 3]}
elems:
  - {tag: -1, mat: glue, type: cohesive2d}
nodebcs:
  - {tag: -1, keys: [ux, uy], funcs: [zero, zero]}
  - {tag: -2, keys: [uy], funcs: [up]}
`

// damageHistory records the damage at the first integration point after each step
type damageHistory struct {
	t, d, tn []float64
}

func Test_implicit02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit02. cohesive interface pulled apart")

	_, o := newImplicit(tst, pull)
	err := o.Init()
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}
	chk.Int(tst, "nfree", o.Yf.RequiredNumberOfEquations(), 2)
	chk.Int(tst, "npresc", o.Yp.RequiredNumberOfEquations(), 6)

	// one step at a time
	e := o.Dom.ElemOutIps[0]
	var h damageHistory
	for i := 1; i <= 20; i++ {
		err = o.Run(float64(i))
		if err != nil {
			tst.Errorf("Run failed at step %d:\n%v", i, err)
			return
		}
		d, _ := e.IpValue(0, "damage")
		tn, _ := e.IpValue(0, "tn")
		h.t = append(h.t, o.T)
		h.d = append(h.d, d)
		h.tn = append(h.tn, tn)
	}
	chk.Int(tst, "nsteps", o.Step, 20)

	// elastic up to the peak stress: tn = kn jn
	chk.Float64(tst, "damage(5)", 1e-15, h.d[4], 0)
	chk.Float64(tst, "tn(5)", 1e-10, h.tn[4], 1000*0.005)
	jn, _ := e.IpValue(0, "jn")
	chk.Float64(tst, "jn(20)", 1e-12, jn, 0.02)

	// damage never decreases and softening follows the peak
	for i := 1; i < len(h.d); i++ {
		if h.d[i] < h.d[i-1] {
			tst.Errorf("damage decreased from %g to %g at t = %g", h.d[i-1], h.d[i], h.t[i])
			return
		}
	}
	if h.d[19] <= 0 || h.d[19] >= 1 {
		tst.Errorf("damage at t = 20 must be in (0, 1). D = %g", h.d[19])
		return
	}
	if h.tn[19] >= 10 {
		tst.Errorf("traction must be below the peak stress after damage. tn = %g", h.tn[19])
		return
	}

	// no sliding
	for _, nod := range o.Dom.Nodes {
		chk.Float64(tst, io.Sf("ux%d", nod.Id), 1e-12, o.Sol.Value(nod.GetDof("ux"), ele.Current), 0)
	}
}

// cantilever with two beams and uniform load q1 (along z)
//
//   ↓ ↓ ↓ ↓ ↓ ↓ ↓ ↓ ↓ ↓
//   o=========o=========o
//   0         1         2
const beams = `
linsol: {name: dense}
solver: {type: implicit}
control: {tf: 1, dt: 1}
functions:
  - {name: load, type: cte, prms: [{n: c, v: 3}]}
materials:
  - name: steel
    model: oned-elast
    prms:
      - {n: E, v: 1000}
      - {n: G, v: 400}
      - {n: A, v: 0.5}
      - {n: I22, v: 2}
      - {n: I11, v: 1}
      - {n: Jtt, v: 3}
      - {n: rho, v: 1}
mesh:
  verts:
    - {id: 0, tag: -1, c: [0, 0, 0]}
    - {id: 1, tag: 0, c: [1, 0, 0]}
    - {id: 2, tag: 0, c: [2, 0, 0]}
  cells:
    - {id: 0, tag: -1, type: lin2, verts: [0, 1]}
    - {id: 1, tag: -1, type: lin2, verts: [1, 2]}
elems:
  - {tag: -1, mat: steel, type: beam3d}
nodebcs:
  - {tag: -1, keys: [ux, uy, uz, rx, ry, rz], funcs: [zero, zero, zero, zero, zero, zero]}
eleconds:
  - {tag: -1, keys: [q1], funcs: [load]}
`

func Test_implicit03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit03. cantilever under uniform load")

	m, o := newImplicit(tst, beams)
	err := m.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	chk.Int(tst, "nsteps", o.Step, 1)
	chk.Ints(tst, "iters", m.Summary.Iters, []int{1})

	// tip displacement and rotation: q L⁴/(8 E I22) and -q L³/(6 E I22)
	sol := ana.CantileverUniform{Q: 3, L: 2, EI: 1000 * 2}
	tip := o.Dom.Nodes[2]
	uz := o.Sol.Value(tip.GetDof("uz"), ele.Current)
	ry := o.Sol.Value(tip.GetDof("ry"), ele.Current)
	chk.Float64(tst, "uz(tip)", 1e-12, uz, sol.Deflection(2))
	chk.Float64(tst, "ry(tip)", 1e-12, ry, -sol.Rotation(2))
	for _, key := range []string{"ux", "uy", "rx", "rz"} {
		chk.Float64(tst, key+"(tip)", 1e-12, o.Sol.Value(tip.GetDof(key), ele.Current), 0)
	}

	// mid node
	mid := o.Dom.Nodes[1]
	chk.Float64(tst, "uz(mid)", 1e-12, o.Sol.Value(mid.GetDof("uz"), ele.Current), sol.Deflection(1))
	chk.Float64(tst, "ry(mid)", 1e-12, o.Sol.Value(mid.GetDof("ry"), ele.Current), -sol.Rotation(1))
}

func Test_implicit04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit04. non-convergence without divergence control")

	// a single iteration cannot converge the nonlinear hydration problem
	data := adiabatic
	_, o := newImplicit(tst, data)
	o.Data.NmaxIt = 1
	err := o.Init()
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}
	err = o.Run(3600)
	if !IsNonConvergence(err) {
		tst.Errorf("Run must fail with a non-convergence error. err = %v", err)
		return
	}
	chk.Int(tst, "step", o.Step, 0)
	chk.Float64(tst, "t", 1e-15, o.T, 0)
	T0 := o.Sol.Value(o.Dom.Nodes[0].GetDof("T"), ele.Current)
	chk.Float64(tst, "T (restored)", 1e-15, T0, 20)

	// with divergence control the time step is halved once and becomes smaller than dtmin
	_, o = newImplicit(tst, data)
	o.Data.NmaxIt = 1
	o.Data.DvgCtrl = true
	o.Data.DtMin = 500
	err = o.Init()
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}
	err = o.Run(3600)
	if err == nil {
		tst.Errorf("Run must fail")
		return
	}
	if !IsNonConvergence(err) {
		tst.Errorf("cause of the error must be a non-convergence error. err = %v", err)
	}
}
