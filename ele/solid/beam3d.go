// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements structural elements
package solid

import (
	"math"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl/sld"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/floats"
)

// Beam3d represents a 3D structural beam element (Euler-Bernoulli, linear elastic)
//
//                        ,o--------o    ,y0
//                      ,' |     ,' |  ,'
//        y1          ,'       ,'   |,'
//         ^        ,'q1     ,'    ,|
//         |      ,'  V    ,'    ,  |
//         |    ,'       ,'    ,    |
//         |  ,'       ,'  | ,      |
//         |,'       ,'   (1) - - - o   -   -  (P)
//         o--------o    ,        ,'
//         |        |  ,  <q2   ,'    Props:          Nodes:
//         |        |,        ,'       E, G, A         0 and 1
//         |       ,|       ,'         I22 ~ Imax      where the reference point (P) is located on
//         |     ,  |     ,'           I11 ~ Imin      plane y0-y2 and non-colinear to (0) and (1)
//         |   ,    |   ,'             Jtt
//         | ,      | ,'
//        (0)-------o' --------> y2
//
type Beam3d struct {

	// basic data
	Cell  *inp.Cell    // the cell structure
	X     [][]float64  // matrix of nodal coordinates [3][2]
	P02   []float64    // [3] point defining y0-y2 plane (from cell or computed for horizontal/vertical beams)
	nodes []*dof.Node  // nodes
	dofs  [][]*dof.Dof // dofs per node
	Nu    int          // total number of unknowns (12)

	// parameters and properties
	Mdl *sld.OnedLinElast // material model with: E, G, A, I22, I11, Jtt and Rho
	L   float64           // (derived) length of beam

	// for output
	Nstations int // number of points along beam to generate bending moment / shear force diagrams

	// distributed loads in local system
	Q1 dbf.T // load on plane y0-y1
	Q2 dbf.T // load on plane y0-y2

	// unit vectors aligned with beam element
	e0, e1, e2 []float64

	// vectors and matrices
	T  [][]float64 // global-to-local transformation matrix [12][12]
	Kl [][]float64 // local K matrix
	K  [][]float64 // global K matrix

	// displacements in local system
	ua    []float64 // current (trial)
	uaOld []float64 // converged
	time  float64   // time of last update
}

// keys of beam nodes
var beamKeys = []string{"ux", "uy", "uz", "rx", "ry", "rz"}

// register element
func init() {

	// information allocator
	ele.SetInfoFunc("beam3d", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) (*ele.Info, error) {
		if len(cell.Verts) != 2 {
			return nil, chk.Err("beam3d requires 2 vertices; %d given", len(cell.Verts))
		}
		return ele.NewInfo(2, beamKeys...), nil
	})

	// element allocator
	ele.SetAllocator("beam3d", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (ele.Element, error) {
		if len(nodes) != 2 {
			return nil, chk.Err("beam3d requires 2 nodes; %d given", len(nodes))
		}
		o, err := newBeam3d(sim, cell, edat, nodes)
		if err != nil {
			return nil, err
		}
		o.dofs, err = ele.DofsFromNodes(nodes, [][]string{beamKeys, beamKeys})
		if err != nil {
			return nil, err
		}
		return o, nil
	})
}

// newBeam3d allocates a beam with stiffness computed with the first two nodes
func newBeam3d(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (o *Beam3d, err error) {

	// basic data
	o = new(Beam3d)
	o.Cell = cell
	o.nodes = nodes
	o.X = ele.BuildCoordsMatrix(nodes)
	if len(o.X) != 3 {
		return nil, chk.Err("beam3d requires 3D coordinates")
	}
	o.Nu = 12

	// model
	m, err := ele.GetModel(sim, edat)
	if err != nil {
		return
	}
	var ok bool
	if o.Mdl, ok = m.(*sld.OnedLinElast); !ok {
		return nil, chk.Err("beam3d requires a oned-elast model; material %q has a different one", edat.Mat)
	}

	// for output
	o.Nstations, err = inp.KeycodeInt(edat.Extra, "nsta", 11)
	if err != nil {
		return
	}
	if o.Nstations < 2 {
		return nil, chk.Err("beam3d: number of stations must be at least 2; nsta=%d is invalid", o.Nstations)
	}

	// point defining y0-y2 plane
	if len(cell.RefPoint) > 0 {
		if len(cell.RefPoint) != 3 {
			return nil, chk.Err("beam3d: reference point must have 3 coordinates")
		}
		o.P02 = append([]float64{}, cell.RefPoint...)
	}

	// vectors and matrices
	o.e0 = make([]float64, 3)
	o.e1 = make([]float64, 3)
	o.e2 = make([]float64, 3)
	o.T = utl.Alloc(o.Nu, o.Nu)
	o.Kl = utl.Alloc(o.Nu, o.Nu)
	o.ua = make([]float64, o.Nu)
	o.uaOld = make([]float64, o.Nu)

	// compute K
	err = o.recompute()
	return
}

// Id returns the cell Id
func (o *Beam3d) Id() int { return o.Cell.Id }

// Dofs returns the dofs of nodes
func (o *Beam3d) Dofs() [][]*dof.Dof { return o.dofs }

// Nodes returns the nodes
func (o *Beam3d) Nodes() []*dof.Node { return o.nodes }

// SetEleConds set element conditions
func (o *Beam3d) SetEleConds(key string, f dbf.T, extra string) (err error) {
	switch key {
	case "q1":
		o.Q1 = f
	case "q2":
		o.Q2 = f
	default:
		return chk.Err("cannot handle boundary condition named %q", key)
	}
	return
}

// Residual computes R = K * u - fext
func (o *Beam3d) Residual(sol *ele.Solution) (R []float64, err error) {
	u := sol.Values(o.dofs, ele.Current)
	R = ele.MatVecMul(o.K, u)
	fx := o.distributedLoads(sol.T)
	for i := range R {
		R[i] -= fx[i]
	}
	return
}

// Jacobian returns K
func (o *Beam3d) Jacobian(sol *ele.Solution, firstIt bool) (K [][]float64, err error) {
	return o.K, nil
}

// Update computes the local displacements used by the moment diagrams
func (o *Beam3d) Update(sol *ele.Solution) (err error) {
	o.time = sol.T
	u := sol.Values(o.dofs, ele.Current)
	for i := 0; i < o.Nu; i++ {
		o.ua[i] = 0
		for j := 0; j < o.Nu; j++ {
			o.ua[i] += o.T[i][j] * u[j]
		}
	}
	return
}

// Commit accepts local displacements
func (o *Beam3d) Commit() { copy(o.uaOld, o.ua) }

// Reset restores local displacements
func (o *Beam3d) Reset() { copy(o.ua, o.uaOld) }

// Encode encodes internal variables
func (o *Beam3d) Encode(enc utl.Encoder) (err error) {
	return enc.Encode(o.uaOld)
}

// Decode decodes internal variables
func (o *Beam3d) Decode(dec utl.Decoder) (err error) {
	err = dec.Decode(&o.uaOld)
	if err != nil {
		return
	}
	copy(o.ua, o.uaOld)
	return
}

// Recompute re-computes K after dimensions or parameters are externally changed
func (o *Beam3d) Recompute() {
	if err := o.recompute(); err != nil {
		chk.Panic("%v", err)
	}
}

// IpCoords returns the coordinates of stations along the beam
func (o *Beam3d) IpCoords() (C [][]float64) {
	C = make([][]float64, o.Nstations)
	dξ := 1.0 / float64(o.Nstations-1)
	for i := 0; i < o.Nstations; i++ {
		ξ := float64(i) * dξ
		C[i] = make([]float64, 3)
		for j := 0; j < 3; j++ {
			C[i][j] = (1.0-ξ)*o.X[j][0] + ξ*o.X[j][1]
		}
	}
	return
}

// IpKeys returns the stations' keys
func (o *Beam3d) IpKeys() []string { return []string{"M22", "M11", "T00"} }

// IpValue returns the moments at station idx
func (o *Beam3d) IpValue(idx int, key string) (val float64, ok bool) {
	if idx < 0 || idx >= o.Nstations {
		return
	}
	ξ := float64(idx) / float64(o.Nstations-1)
	M22, M11, T00 := o.CalcMoment(o.time, ξ)
	switch key {
	case "M22":
		return M22, true
	case "M11":
		return M11, true
	case "T00":
		return T00, true
	}
	return
}

// CalcMoment calculates bending moments and torque at station ξ in [0, 1]
//  Output:
//   M22 -- bending moment about y2-axis
//   M11 -- bending moment about y1-axis
//   T00 -- twisting moment around y0-axis
func (o *Beam3d) CalcMoment(time, ξ float64) (M22, M11, T00 float64) {

	// auxiliary variables
	τ := ξ * o.L
	τ2 := τ * τ
	l := o.L
	ll := l * l
	lll := ll * l

	// constants and loads
	EIr := o.Mdl.E * o.Mdl.I22
	EIs := o.Mdl.E * o.Mdl.I11
	GJ := o.Mdl.G * o.Mdl.Jtt
	q1, q2 := o.calcLoads(time)

	// displacements and rotations
	v := []float64{o.ua[1], o.ua[5], o.ua[7], o.ua[11]}
	w := []float64{o.ua[2], o.ua[4], o.ua[8], o.ua[10]}
	θ := []float64{o.ua[3], o.ua[9]}

	// second derivatives of shape functions
	dnv2 := []float64{12.0*τ/lll - 6.0/ll, 6.0*τ/ll - 4.0/l, 6.0/ll - 12.0*τ/lll, 6.0*τ/ll - 2.0/l}
	dnw2 := []float64{dnv2[0], -dnv2[1], dnv2[2], -dnv2[3]}

	// bending moments
	M22 = +q1 * (ll - 6*τ*l + 6*τ2) / 12.0
	M11 = -q2 * (ll - 6*τ*l + 6*τ2) / 12.0
	for i := 0; i < len(v); i++ {
		M22 += EIr * dnv2[i] * v[i]
		M11 -= EIs * dnw2[i] * w[i]
	}
	T00 = GJ * (θ[1] - θ[0]) / l
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// recompute computes the orientation, T, Kl and K
func (o *Beam3d) recompute() (err error) {

	// point defining y0-y2 plane
	dx := make([]float64, 3)
	for i := 0; i < 3; i++ {
		dx[i] = o.X[i][1] - o.X[i][0]
	}
	o.L = floats.Norm(dx, 2)
	if o.L < 1e-12 {
		return chk.Err("beam3d: length of beam must be positive. L=%g is invalid", o.L)
	}
	if o.P02 == nil {
		tol := 1e-5 // tolerance to find horizontal/vertical beams
		o.P02 = make([]float64, 3)
		switch {

		// vertical (parallel to z)
		case math.Abs(dx[0]) < tol && math.Abs(dx[1]) < tol:
			δ := 0.1 * dx[2] // + if 0->1 is going up
			o.P02[0], o.P02[1], o.P02[2] = o.X[0][0]+δ, o.X[1][0], o.X[2][0]

		// horizontal (perpendicular to z)
		case math.Abs(dx[2]) < tol:
			o.e0[0], o.e0[1], o.e0[2] = dx[0], dx[1], 0
			o.e1[0], o.e1[1], o.e1[2] = 0, 0, 1
			cross(o.e2, o.e0, o.e1) // e2 := e0 cross e1
			l0 := floats.Norm(o.e0, 2)
			l2 := floats.Norm(o.e2, 2)
			δ := 0.1 * l0 / l2
			o.P02[0], o.P02[1], o.P02[2] = o.X[0][0]+δ*o.e2[0], o.X[1][0]+δ*o.e2[1], o.X[2][0]

		default:
			o.P02 = nil
			return chk.Err("beam3d: can only compute reference point for vertical and horizontal beams; cell %d needs refpoint", o.Cell.Id)
		}
	}

	// unit vectors aligned with beam element
	v02 := make([]float64, 3)
	for i := 0; i < 3; i++ {
		o.e0[i] = dx[i] / o.L
		v02[i] = o.P02[i] - o.X[i][0]
	}
	cross(o.e1, v02, o.e0) // e1 := v02 cross e0
	nrm1 := floats.Norm(o.e1, 2)
	if nrm1 < 1e-12 {
		return chk.Err("beam3d: reference point of cell %d is colinear to the beam", o.Cell.Id)
	}
	floats.Scale(1.0/nrm1, o.e1)
	cross(o.e2, o.e0, o.e1) // e2 := e0 cross e1

	// global to local transformation matrix
	for k := 0; k < 4; k++ {
		o.T[3*k+0][3*k+0], o.T[3*k+0][3*k+1], o.T[3*k+0][3*k+2] = o.e0[0], o.e0[1], o.e0[2]
		o.T[3*k+1][3*k+0], o.T[3*k+1][3*k+1], o.T[3*k+1][3*k+2] = o.e1[0], o.e1[1], o.e1[2]
		o.T[3*k+2][3*k+0], o.T[3*k+2][3*k+1], o.T[3*k+2][3*k+2] = o.e2[0], o.e2[1], o.e2[2]
	}

	// constants
	EIr := o.Mdl.E * o.Mdl.I22
	EIs := o.Mdl.E * o.Mdl.I11
	GJ := o.Mdl.G * o.Mdl.Jtt
	EA := o.Mdl.E * o.Mdl.A
	l := o.L
	ll := l * l
	lll := l * ll

	// stiffness matrix in local system
	o.Kl[0][0] = EA / l
	o.Kl[0][6] = -EA / l

	o.Kl[1][1] = 12.0 * EIr / lll
	o.Kl[1][5] = 6.0 * EIr / ll
	o.Kl[1][7] = -12.0 * EIr / lll
	o.Kl[1][11] = 6.0 * EIr / ll

	o.Kl[2][2] = 12.0 * EIs / lll
	o.Kl[2][4] = -6.0 * EIs / ll
	o.Kl[2][8] = -12.0 * EIs / lll
	o.Kl[2][10] = -6.0 * EIs / ll

	o.Kl[3][3] = GJ / l
	o.Kl[3][9] = -GJ / l

	o.Kl[4][2] = -6.0 * EIs / ll
	o.Kl[4][4] = 4.0 * EIs / l
	o.Kl[4][8] = 6.0 * EIs / ll
	o.Kl[4][10] = 2.0 * EIs / l

	o.Kl[5][1] = 6.0 * EIr / ll
	o.Kl[5][5] = 4.0 * EIr / l
	o.Kl[5][7] = -6.0 * EIr / ll
	o.Kl[5][11] = 2.0 * EIr / l

	o.Kl[6][0] = -EA / l
	o.Kl[6][6] = EA / l

	o.Kl[7][1] = -12.0 * EIr / lll
	o.Kl[7][5] = -6.0 * EIr / ll
	o.Kl[7][7] = 12.0 * EIr / lll
	o.Kl[7][11] = -6.0 * EIr / ll

	o.Kl[8][2] = -12.0 * EIs / lll
	o.Kl[8][4] = 6.0 * EIs / ll
	o.Kl[8][8] = 12.0 * EIs / lll
	o.Kl[8][10] = 6.0 * EIs / ll

	o.Kl[9][3] = -GJ / l
	o.Kl[9][9] = GJ / l

	o.Kl[10][2] = -6.0 * EIs / ll
	o.Kl[10][4] = 2.0 * EIs / l
	o.Kl[10][8] = 6.0 * EIs / ll
	o.Kl[10][10] = 4.0 * EIs / l

	o.Kl[11][1] = 6.0 * EIr / ll
	o.Kl[11][5] = 2.0 * EIr / l
	o.Kl[11][7] = -6.0 * EIr / ll
	o.Kl[11][11] = 4.0 * EIr / l

	// stiffness matrix in global system
	o.K = ele.TrMul3(o.T, o.Kl) // K := trans(T) * Kl * T
	return
}

// calcLoads computes applied distributed loads at given time
func (o *Beam3d) calcLoads(time float64) (q1, q2 float64) {
	if o.Q1 != nil {
		q1 = o.Q1.F(time, nil)
	}
	if o.Q2 != nil {
		q2 = o.Q2.F(time, nil)
	}
	return
}

// distributedLoads returns the equivalent nodal forces in the global system
func (o *Beam3d) distributedLoads(time float64) (fx []float64) {
	fx = make([]float64, o.Nu)
	q1, q2 := o.calcLoads(time)
	if q1 == 0 && q2 == 0 {
		return
	}
	l := o.L
	ll := l * l
	fxl := make([]float64, o.Nu)
	fxl[1] = l * q1 / 2.0
	fxl[2] = l * q2 / 2.0
	fxl[4] = -ll * q2 / 12.0
	fxl[5] = ll * q1 / 12.0
	fxl[7] = l * q1 / 2.0
	fxl[8] = l * q2 / 2.0
	fxl[10] = ll * q2 / 12.0
	fxl[11] = -ll * q1 / 12.0
	for i := 0; i < o.Nu; i++ {
		for j := 0; j < o.Nu; j++ {
			fx[i] += o.T[j][i] * fxl[j] // fx := trans(T) * fxl
		}
	}
	return
}

// cross computes w := u cross v
func cross(w, u, v []float64) {
	w[0] = u[1]*v[2] - u[2]*v[1]
	w[1] = u[2]*v[0] - u[0]*v[2]
	w[2] = u[0]*v[1] - u[1]*v[0]
}
