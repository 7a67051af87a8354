// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements the linear triangle for the characteristic-based split (CBS) algorithm
// and the assemblers of its stages
package fluid

import (
	"math"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl"
	"github.com/fluxfem/fluxfem/mdl/fluid"
	"github.com/fluxfem/fluxfem/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// Tri3Cbs implements a linear triangle for incompressible flows solved with the CBS algorithm.
// Velocities and pressures are interpolated linearly. The local layout is {vx, vy, p} per node
//
//        2
//        o
//       / \       natural boundary conditions:
//      /   \        qn -- normal traction on edge; gives a prescribed traction pressure p = -qn
//     /  ●  \
//    /       \    the single integration point (●) holds the status of the material
//   o---------o
//   0         1
//
type Tri3Cbs struct {

	// basic data
	Cell  *inp.Cell    // the cell structure
	X     [][]float64  // matrix of nodal coordinates [ndim][nnode]
	Shp   *shp.Shape   // shape structure
	nodes []*dof.Node  // nodes
	dofs  [][]*dof.Dof // dofs per node

	// material model and status at the integration point
	Mdl    *fluid.Newtonian // fluid model
	States []mdl.Status     // [nip] states

	// natural boundary conditions
	NatBcs []*ele.NaturalBc // natural boundary conditions

	// geometry
	Area float64     // area of triangle
	G    [][]float64 // [3][2] gradients of shape functions
	H    float64     // characteristic size: smallest height

	// values at the integration point (dimensional)
	ipv, ipvOld []float64 // {vx, vy, p}
}

// local indices
const (
	ivx = 0 // vx
	ivy = 1 // vy
	ip  = 2 // p
	nd  = 3 // number of dofs per node
)

// register element
func init() {

	// information allocator
	ele.SetInfoFunc("tri3cbs", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) (*ele.Info, error) {
		if sim.Ndim != 2 || cell.Type != "tri3" {
			return nil, chk.Err("tri3cbs requires a tri3 cell in 2D. type=%q and ndim=%d are invalid", cell.Type, sim.Ndim)
		}
		return ele.NewInfo(3, "vx", "vy", "p"), nil
	})

	// element allocator
	ele.SetAllocator("tri3cbs", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (ele.Element, error) {

		// basic data
		var o Tri3Cbs
		o.Cell = cell
		o.nodes = nodes
		o.X = ele.BuildCoordsMatrix(nodes)
		var err error
		o.Shp, err = shp.New(cell.Type)
		if err != nil {
			return nil, err
		}
		o.dofs, err = ele.DofsFromNodes(nodes, [][]string{{"vx", "vy", "p"}, {"vx", "vy", "p"}, {"vx", "vy", "p"}})
		if err != nil {
			return nil, err
		}

		// model
		m, err := ele.GetModel(sim, edat)
		if err != nil {
			return nil, err
		}
		var ok bool
		if o.Mdl, ok = m.(*fluid.Newtonian); !ok {
			return nil, chk.Err("tri3cbs requires a newtonian model; material %q has a different one", edat.Mat)
		}
		o.States = []mdl.Status{o.Mdl.NewStatus()}

		// geometry
		err = o.Shp.CalcAtIp(o.X, shp.IpsTri1[0], true)
		if err != nil {
			return nil, chk.Err("tri3cbs: cell %d:\n%v", cell.Id, err)
		}
		o.Area = o.Shp.J * shp.IpsTri1[0].W()
		o.G = utl.Alloc(3, 2)
		lmax := 0.0
		for m := 0; m < 3; m++ {
			o.G[m][0], o.G[m][1] = o.Shp.G[m][0], o.Shp.G[m][1]
			n := (m + 1) % 3
			lmax = math.Max(lmax, math.Hypot(o.X[0][n]-o.X[0][m], o.X[1][n]-o.X[1][m]))
		}
		o.H = 2.0 * o.Area / lmax

		// natural boundary conditions
		for _, nbc := range ele.NaturalBcs(cell) {
			if nbc.Key == "qn" {
				o.NatBcs = append(o.NatBcs, nbc)
			}
		}

		// values at ip
		o.ipv = make([]float64, 3)
		o.ipvOld = make([]float64, 3)
		return &o, nil
	})
}

// Id returns the cell Id
func (o *Tri3Cbs) Id() int { return o.Cell.Id }

// Dofs returns the dofs of nodes
func (o *Tri3Cbs) Dofs() [][]*dof.Dof { return o.dofs }

// Nodes returns the nodes
func (o *Tri3Cbs) Nodes() []*dof.Node { return o.nodes }

// SetEleConds set element conditions
func (o *Tri3Cbs) SetEleConds(key string, f dbf.T, extra string) (err error) {
	return chk.Err("tri3cbs cannot handle element condition named %q", key)
}

// Encode encodes internal variables
func (o *Tri3Cbs) Encode(enc utl.Encoder) (err error) {
	for _, s := range o.States {
		err = s.Encode(enc)
		if err != nil {
			return
		}
	}
	return enc.Encode(o.ipvOld)
}

// Decode decodes internal variables
func (o *Tri3Cbs) Decode(dec utl.Decoder) (err error) {
	for _, s := range o.States {
		err = s.Decode(dec)
		if err != nil {
			return
		}
	}
	err = dec.Decode(&o.ipvOld)
	if err != nil {
		return
	}
	copy(o.ipv, o.ipvOld)
	return
}

// Update computes the values at the integration point with the current solution
func (o *Tri3Cbs) Update(sol *ele.Solution) (err error) {
	_, u, _, _, p := sol.Scales.Factors()
	for i := range o.ipv {
		o.ipv[i] = 0
	}
	for m := 0; m < 3; m++ {
		o.ipv[0] += sol.Value(o.dofs[m][ivx], ele.Current) * u / 3.0
		o.ipv[1] += sol.Value(o.dofs[m][ivy], ele.Current) * u / 3.0
		o.ipv[2] += sol.Value(o.dofs[m][ip], ele.Current) * p / 3.0
	}
	return
}

// Commit accepts the states
func (o *Tri3Cbs) Commit() {
	for _, s := range o.States {
		s.Commit()
	}
	copy(o.ipvOld, o.ipv)
}

// Reset discards the trial states
func (o *Tri3Cbs) Reset() {
	for _, s := range o.States {
		s.Reset()
	}
	copy(o.ipv, o.ipvOld)
}

// IpCoords returns the coordinates of the integration point
func (o *Tri3Cbs) IpCoords() [][]float64 {
	return [][]float64{o.Shp.IpRealCoords(o.X, shp.IpsTri1[0])}
}

// IpKeys returns the keys of values at the integration point
func (o *Tri3Cbs) IpKeys() []string { return []string{"vx", "vy", "p", "nu"} }

// IpValue returns the value of key at the integration point
func (o *Tri3Cbs) IpValue(idx int, key string) (val float64, ok bool) {
	if idx != 0 {
		return
	}
	switch key {
	case "vx":
		return o.ipv[0], true
	case "vy":
		return o.ipv[1], true
	case "p":
		return o.ipv[2], true
	}
	return o.Mdl.IpValue(o.States[0], key)
}

// CBS terms ///////////////////////////////////////////////////////////////////////////////////////

// LumpedMass computes the diagonal of the lumped mass matrix; zero at pressure rows
func (o *Tri3Cbs) LumpedMass(sol *ele.Solution) (M []float64) {
	A, _, ρ, _ := o.props(sol)
	M = make([]float64, 3*nd)
	for m := 0; m < 3; m++ {
		M[nd*m+ivx] = ρ * A / 3.0
		M[nd*m+ivy] = ρ * A / 3.0
	}
	return
}

// ConsistentMass computes the consistent mass matrix; zero at pressure rows/columns
func (o *Tri3Cbs) ConsistentMass(sol *ele.Solution) (M [][]float64) {
	A, _, ρ, _ := o.props(sol)
	M = utl.Alloc(3*nd, 3*nd)
	for m := 0; m < 3; m++ {
		for n := 0; n < 3; n++ {
			c := ρ * A / 12.0
			if m == n {
				c *= 2.0
			}
			M[nd*m+ivx][nd*n+ivx] = c
			M[nd*m+ivy][nd*n+ivy] = c
		}
	}
	return
}

// ConvectionDiffusion computes the rhs of the intermediate momentum equation (step 1) with the
// velocities at the beginning of the step
//   r1 = -Δt ∫ [ ρ N (ū・∇)u + μ ∇N・∇u + ρ (Δt/2)(ū・∇N)(ū・∇)u ] dΩ
func (o *Tri3Cbs) ConvectionDiffusion(sol *ele.Solution) (r []float64) {
	A, g, ρ, μ := o.props(sol)
	u := o.velocities(sol, ele.Previous)
	ū, L := o.meanAndGradient(u, g)
	dt := sol.Dt
	r = make([]float64, 3*nd)
	for m := 0; m < 3; m++ {
		ūg := ū[0]*g[m][0] + ū[1]*g[m][1]
		for a := 0; a < 2; a++ {
			conv := ū[0]*L[a][0] + ū[1]*L[a][1] // (ū・∇)u_a
			diff := g[m][0]*L[a][0] + g[m][1]*L[a][1]
			r[nd*m+a] = -dt * (ρ*A*conv/3.0 + μ*A*diff + ρ*0.5*dt*A*ūg*conv)
		}
	}
	return
}

// DensityRhs computes the rhs of the pressure equation (step 2) due to the free velocities and the
// pressures at the beginning of the step
//   r2 = -∫ N ∇・(uⁿ + θ1 ΔV*) dΩ - θ1 (1-θ2) Δt H pⁿ
func (o *Tri3Cbs) DensityRhs(sol *ele.Solution) (r []float64) {
	r = o.divergence(sol, false)
	A, g, ρ, _ := o.props(sol)
	pn := o.pressures(sol, ele.Previous)
	c := sol.Theta1 * (1.0 - sol.Theta2) * sol.Dt
	for m := 0; m < 3; m++ {
		for n := 0; n < 3; n++ {
			r[nd*m+ip] -= c * hij(A, ρ, g, m, n) * pn[n]
		}
	}
	return
}

// PrescribedVelocityRhs computes the rhs of the pressure equation (step 2) due to prescribed
// velocities
//   r2 = -∫ N ∇・(uⁿ + θ1 Δu) dΩ   with prescribed components only
func (o *Tri3Cbs) PrescribedVelocityRhs(sol *ele.Solution) (r []float64) {
	return o.divergence(sol, true)
}

// DensityPrescribedTractionPressure computes the rhs of the pressure equation (step 2) due to
// prescribed pressures; e.g. at outflow edges with traction
//   r2 = -θ1 θ2 Δt H_ij p_j   for prescribed p_j
func (o *Tri3Cbs) DensityPrescribedTractionPressure(sol *ele.Solution) (r []float64) {
	A, g, ρ, _ := o.props(sol)
	r = make([]float64, 3*nd)
	c := sol.Theta1 * sol.Theta2 * sol.Dt
	for n := 0; n < 3; n++ {
		d := o.dofs[n][ip]
		if !d.Prescribed() {
			continue
		}
		pn := sol.Value(d, ele.Current)
		for m := 0; m < 3; m++ {
			r[nd*m+ip] -= c * hij(A, ρ, g, m, n) * pn
		}
	}
	return
}

// PressureLhs computes H_ij = ∫ (1/ρ) ∇N_i・∇N_j dΩ at pressure rows/columns
func (o *Tri3Cbs) PressureLhs(sol *ele.Solution) (H [][]float64) {
	A, g, ρ, _ := o.props(sol)
	H = utl.Alloc(3*nd, 3*nd)
	for m := 0; m < 3; m++ {
		for n := 0; n < 3; n++ {
			H[nd*m+ip][nd*n+ip] = hij(A, ρ, g, m, n)
		}
	}
	return
}

// CorrectionRhs computes the rhs of the velocity correction (step 3)
//   r3 = -Δt ∫ N ∇(θ2 pⁿ⁺¹ + (1-θ2) pⁿ) dΩ
func (o *Tri3Cbs) CorrectionRhs(sol *ele.Solution) (r []float64) {
	A, g, _, _ := o.props(sol)
	p1 := o.pressures(sol, ele.Current)
	pn := o.pressures(sol, ele.Previous)
	var gp [2]float64
	for n := 0; n < 3; n++ {
		pθ := sol.Theta2*p1[n] + (1.0-sol.Theta2)*pn[n]
		gp[0] += g[n][0] * pθ
		gp[1] += g[n][1] * pθ
	}
	r = make([]float64, 3*nd)
	for m := 0; m < 3; m++ {
		r[nd*m+ivx] = -sol.Dt * A * gp[0] / 3.0
		r[nd*m+ivy] = -sol.Dt * A * gp[1] / 3.0
	}
	return
}

// NumberOfNodalPrescribedTractionPressure counts the traction edges touching each node
func (o *Tri3Cbs) NumberOfNodalPrescribedTractionPressure(sol *ele.Solution) (r []float64) {
	r = make([]float64, 3*nd)
	for _, nbc := range o.NatBcs {
		for _, m := range o.Shp.FaceLocalVerts[nbc.IdxFace] {
			r[nd*m+ip] += 1
		}
	}
	return
}

// PrescribedTractionPressure computes the pressure p = -qn at nodes of traction edges. Nodes shared
// by many edges receive the sum of contributions
func (o *Tri3Cbs) PrescribedTractionPressure(sol *ele.Solution) (r []float64) {
	_, _, _, ts, ps := sol.Scales.Factors()
	r = make([]float64, 3*nd)
	for _, nbc := range o.NatBcs {
		for _, m := range o.Shp.FaceLocalVerts[nbc.IdxFace] {
			r[nd*m+ip] -= nbc.Fcn.F(sol.T*ts, o.nodes[m].X) / ps
		}
	}
	return
}

// CriticalTimeStep computes the stable time step of the explicit convection-diffusion stage
//   Δt_crit = 1 / (|ū|/h + 2ν/h²)
func (o *Tri3Cbs) CriticalTimeStep(sol *ele.Solution) float64 {
	_, g, ρ, μ := o.props(sol)
	l, _, _, _, _ := sol.Scales.Factors()
	h := o.H / l
	ū, _ := o.meanAndGradient(o.velocities(sol, ele.Previous), g)
	nrm := math.Hypot(ū[0], ū[1])
	ν := μ / ρ
	den := nrm/h + 2.0*ν/(h*h)
	if den <= 0 {
		return math.Inf(1)
	}
	return 1.0 / den
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// props returns the (scaled) area, gradients, density and viscosity
func (o *Tri3Cbs) props(sol *ele.Solution) (A float64, g [][]float64, ρ, μ float64) {
	l, u, d, _, _ := sol.Scales.Factors()
	A = o.Area / (l * l)
	g = o.G
	if l != 1 {
		g = utl.Alloc(3, 2)
		for m := 0; m < 3; m++ {
			g[m][0], g[m][1] = o.G[m][0]*l, o.G[m][1]*l
		}
	}
	ρ = o.Mdl.Rho / d
	μ = o.Mdl.Mu / (d * u * l)
	return
}

// velocities returns the nodal velocities [3][2]
func (o *Tri3Cbs) velocities(sol *ele.Solution, mode ele.Mode) (u [][]float64) {
	u = utl.Alloc(3, 2)
	for m := 0; m < 3; m++ {
		u[m][0] = sol.Value(o.dofs[m][ivx], mode)
		u[m][1] = sol.Value(o.dofs[m][ivy], mode)
	}
	return
}

// pressures returns the nodal pressures
func (o *Tri3Cbs) pressures(sol *ele.Solution, mode ele.Mode) (p []float64) {
	p = make([]float64, 3)
	for m := 0; m < 3; m++ {
		p[m] = sol.Value(o.dofs[m][ip], mode)
	}
	return
}

// meanAndGradient computes the mean velocity and the velocity gradient L[a][b] = ∂u_a/∂x_b
func (o *Tri3Cbs) meanAndGradient(u, g [][]float64) (ū []float64, L [][]float64) {
	ū = make([]float64, 2)
	L = utl.Alloc(2, 2)
	for m := 0; m < 3; m++ {
		for a := 0; a < 2; a++ {
			ū[a] += u[m][a] / 3.0
			for b := 0; b < 2; b++ {
				L[a][b] += u[m][a] * g[m][b]
			}
		}
	}
	return
}

// divergence computes -∫ N ∇・(uⁿ + θ1 Δu) dΩ with free or prescribed velocity components
func (o *Tri3Cbs) divergence(sol *ele.Solution, prescribed bool) (r []float64) {
	A, g, _, _ := o.props(sol)
	div := 0.0
	for n := 0; n < 3; n++ {
		for a := 0; a < 2; a++ {
			d := o.dofs[n][a]
			if d.Prescribed() != prescribed {
				continue
			}
			u := sol.Value(d, ele.Previous) + sol.Theta1*sol.Value(d, ele.Increment)
			div += g[n][a] * u
		}
	}
	r = make([]float64, 3*nd)
	for m := 0; m < 3; m++ {
		r[nd*m+ip] = -A * div / 3.0
	}
	return
}

// hij computes (A/ρ) ∇N_i・∇N_j
func hij(A, ρ float64, g [][]float64, i, j int) float64 {
	return A * (g[i][0]*g[j][0] + g[i][1]*g[j][1]) / ρ
}
