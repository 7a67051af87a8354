// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

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

const triangle = `
solver:
  type: cbs
  cbs: {deltat: 0.1}
control: {tf: 1}
functions:
  - {name: out, type: cte, prms: [{n: c, v: -5}]}
materials:
  - name: water
    model: newtonian
    prms: [{n: rho, v: 2}, {n: mu, v: 0.5}]
mesh:
  verts:
    - {id: 0, tag: 0, c: [0, 0]}
    - {id: 1, tag: 0, c: [2, 0]}
    - {id: 2, tag: 0, c: [0, 1]}
  cells:
    - {id: 0, tag: -1, type: tri3, verts: [0, 1, 2], ftags: [-10, 0, 0]}
elems:
  - {tag: -1, mat: water, type: tri3cbs}
facebcs:
  - {tag: -10, keys: [qn], funcs: [out]}
`

// fixture holds one triangle with its nodes and solution
type fixture struct {
	e     *Tri3Cbs
	nodes []*dof.Node
	sol   *ele.Solution
}

// newFixture allocates the triangle and numbers its dofs. Pressures at the given nodes are prescribed
func newFixture(tst *testing.T, prescribedP ...int) (o *fixture) {
	sim, err := inp.ParseSim([]byte(triangle))
	if err != nil {
		tst.Fatalf("ParseSim failed:\n%v", err)
	}
	o = new(fixture)
	o.nodes, err = ele.BuildNodes(sim)
	if err != nil {
		tst.Fatalf("BuildNodes failed:\n%v", err)
	}
	for _, n := range prescribedP {
		o.nodes[n].GetDof("p").Fix(nil)
	}
	vf, vp := dof.NewVelocityNumbering(false), dof.NewVelocityNumbering(true)
	pf, pp := dof.NewPressureNumbering(false), dof.NewPressureNumbering(true)
	err = dof.Number(o.nodes, vf, vp, pf, pp)
	if err != nil {
		tst.Fatalf("Number failed:\n%v", err)
	}
	elems, err := ele.NewAll(sim, o.nodes)
	if err != nil {
		tst.Fatalf("NewAll failed:\n%v", err)
	}
	o.e = elems[0].(*Tri3Cbs)
	o.sol = ele.NewSolution()
	o.sol.Dt = 0.1
	o.sol.Fields[dof.FieldVelocity] = ele.NewField(vf.RequiredNumberOfEquations(), vp.RequiredNumberOfEquations())
	o.sol.Fields[dof.FieldPressure] = ele.NewField(pf.RequiredNumberOfEquations(), pp.RequiredNumberOfEquations())
	return
}

// set sets the current and previous values of a dof
func (o *fixture) set(node int, key string, cur, prev float64) {
	d := o.nodes[node].GetDof(key)
	f := o.sol.Field(key)
	if d.Prescribed() {
		f.Presc[d.PrescribedEq-1], f.PrescOld[d.PrescribedEq-1] = cur, prev
		return
	}
	f.Y[d.Eq-1], f.Yold[d.Eq-1] = cur, prev
}

func Test_cbs01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cbs01. masses and pressure Laplacian")

	o := newFixture(tst)
	e, sol := o.e, o.sol
	chk.Float64(tst, "area", 1e-15, e.Area, 1)
	chk.Float64(tst, "h", 1e-15, e.H, 2.0/math.Sqrt(5))

	// lumped and consistent masses
	ML := e.LumpedMass(sol)
	MC := e.ConsistentMass(sol)
	assert.InDeltaSlicef(tst, []float64{2. / 3, 2. / 3, 0, 2. / 3, 2. / 3, 0, 2. / 3, 2. / 3, 0}, ML, 1e-15, "ML")
	for i := 0; i < 9; i++ {
		sum := 0.0
		for j := 0; j < 9; j++ {
			sum += MC[i][j]
		}
		chk.Float64(tst, io.Sf("rowsum(MC)[%d]", i), 1e-15, sum, ML[i])
	}

	// H is symmetric, its rows sum up to zero and it vanishes at velocity rows
	H := e.PressureLhs(sol)
	for i := 0; i < 9; i++ {
		sum := 0.0
		for j := 0; j < 9; j++ {
			sum += H[i][j]
			chk.Float64(tst, "Hij-Hji", 1e-15, H[i][j], H[j][i])
		}
		chk.Float64(tst, io.Sf("rowsum(H)[%d]", i), 1e-15, sum, 0)
	}
	chk.Float64(tst, "H00", 1e-15, H[2][2], (0.25+1)/2)

	// location arrays
	chk.Ints(tst, "loc(v)", ele.Location(e, dof.NewVelocityNumbering(false)), []int{1, 2, 0, 3, 4, 0, 5, 6, 0})
	chk.Ints(tst, "loc(p)", ele.Location(e, dof.NewPressureNumbering(false)), []int{0, 0, 1, 0, 0, 2, 0, 0, 3})
}

func Test_cbs02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cbs02. convection, divergence and correction")

	o := newFixture(tst)
	e, sol := o.e, o.sol
	X := [][]float64{{0, 0}, {2, 0}, {0, 1}}

	// uniform flow: no convection or diffusion
	for m := 0; m < 3; m++ {
		o.set(m, "vx", 1, 1)
		o.set(m, "vy", 0.5, 0.5)
	}
	assert.InDeltaSlicef(tst, make([]float64, 9), e.ConvectionDiffusion(sol), 1e-15, "r1(uniform)")
	assert.InDeltaSlicef(tst, make([]float64, 9), e.DensityRhs(sol), 1e-15, "r2(uniform)")

	// u = (x, 0): diffusion terms cancel out in the sum over nodes
	for m := 0; m < 3; m++ {
		o.set(m, "vx", X[m][0], X[m][0])
		o.set(m, "vy", 0, 0)
	}
	r1 := e.ConvectionDiffusion(sol)
	sum := r1[0] + r1[3] + r1[6]
	xbar := 2.0 / 3.0 // (ū・∇)vx = x̄
	chk.Float64(tst, "Σ r1x", 1e-14, sum, -sol.Dt*2*1*xbar)

	// divergence: u = (x, -y) is divergence free; u = (x, 0) is not
	r2 := e.DensityRhs(sol)
	assert.InDeltaSlicef(tst, []float64{0, 0, -1. / 3, 0, 0, -1. / 3, 0, 0, -1. / 3}, r2, 1e-15, "r2(x,0)")
	for m := 0; m < 3; m++ {
		o.set(m, "vy", -X[m][1], -X[m][1])
	}
	assert.InDeltaSlicef(tst, make([]float64, 9), e.DensityRhs(sol), 1e-15, "r2(x,-y)")
	assert.InDeltaSlicef(tst, make([]float64, 9), e.PrescribedVelocityRhs(sol), 1e-15, "r2(presc)")

	// intermediate velocity increment contributes with θ1
	sol.Theta1 = 0.5
	vx := o.nodes[1].GetDof("vx")
	sol.Field("vx").Aux[vx.Eq-1] = 4 // Δ(∂vx/∂x) = 4・∂N1/∂x = 2
	r2 = e.DensityRhs(sol)
	chk.Float64(tst, "r2[2]", 1e-15, r2[2], -0.5*2/3.0)

	// linear pressure p = 3x - y gives a constant gradient
	for m := 0; m < 3; m++ {
		o.set(m, "p", 3*X[m][0]-X[m][1], 0)
	}
	r3 := e.CorrectionRhs(sol)
	for m := 0; m < 3; m++ {
		chk.Float64(tst, io.Sf("r3x[%d]", m), 1e-15, r3[3*m], -sol.Dt*3/3.0)
		chk.Float64(tst, io.Sf("r3y[%d]", m), 1e-15, r3[3*m+1], sol.Dt*1/3.0)
	}
	sol.Theta2 = 0.5
	r3 = e.CorrectionRhs(sol)
	chk.Float64(tst, "r3x(θ2=½)", 1e-15, r3[0], -sol.Dt*1.5/3.0)
}

func Test_cbs03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cbs03. traction pressure and critical time step")

	o := newFixture(tst, 0, 1)
	e, sol := o.e, o.sol

	// edge 0 has qn = -5 => p = 5 at nodes 0 and 1
	assert.InDeltaSlicef(tst, []float64{0, 0, 1, 0, 0, 1, 0, 0, 0}, e.NumberOfNodalPrescribedTractionPressure(sol), 1e-15, "count")
	assert.InDeltaSlicef(tst, []float64{0, 0, 5, 0, 0, 5, 0, 0, 0}, e.PrescribedTractionPressure(sol), 1e-15, "ptrac")
	chk.Ints(tst, "loc(pp)", ele.Location(e, dof.NewPressureNumbering(true)), []int{0, 0, 1, 0, 0, 2, 0, 0, 0})

	// moving the prescribed pressures to the rhs
	o.set(0, "p", 5, 0)
	o.set(1, "p", 5, 0)
	H := e.PressureLhs(sol)
	r := e.DensityPrescribedTractionPressure(sol)
	for m := 0; m < 3; m++ {
		chk.Float64(tst, io.Sf("r[%d]", m), 1e-15, r[3*m+2], sol.Dt*5*H[3*m+2][8])
	}

	// scaled pressure
	sol.Scales = &ele.Scales{L: 1, U: 2, D: 2, Re: 8}
	assert.InDeltaSlicef(tst, []float64{0, 0, 5. / 8, 0, 0, 5. / 8, 0, 0, 0}, e.PrescribedTractionPressure(sol), 1e-15, "ptrac(scaled)")
	sol.Scales = nil

	// critical time step
	ν := 0.5 / 2.0
	h := 2.0 / math.Sqrt(5)
	chk.Float64(tst, "Δt(rest)", 1e-15, e.CriticalTimeStep(sol), h*h/(2*ν))
	for m := 0; m < 3; m++ {
		o.set(m, "vx", 3, 3)
		o.set(m, "vy", 4, 4)
	}
	chk.Float64(tst, "Δt(flow)", 1e-14, e.CriticalTimeStep(sol), 1/(5/h+2*ν/(h*h)))

	// ip values
	err := e.Update(sol)
	if err != nil {
		tst.Errorf("Update failed:\n%v", err)
		return
	}
	e.Commit()
	vx, _ := e.IpValue(0, "vx")
	p, _ := e.IpValue(0, "p")
	nu, ok := e.IpValue(0, "nu")
	chk.Float64(tst, "vx", 1e-15, vx, 3)
	chk.Float64(tst, "p", 1e-15, p, 10.0/3.0)
	if !ok {
		tst.Errorf("nu must be available")
		return
	}
	chk.Float64(tst, "nu", 1e-15, nu, ν)
	assert.InDeltaSlicef(tst, []float64{2. / 3, 1. / 3}, e.IpCoords()[0], 1e-15, "ipcoords")
}
