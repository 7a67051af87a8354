// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cohesive implements zero-thickness interface elements
package cohesive

import (
	"math"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl/cohesive"
	"github.com/fluxfem/fluxfem/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Cohesive2d implements a 4-node zero-thickness interface between two faces in 2D
//
//    3 o-----------o 2    top face
//      |           |      (coincident with the bottom face in the undeformed state)
//    0 o-----------o 1    bottom face
//
//  The jump is u(top) - u(bottom) evaluated at the Gauss points of the mid-line and rotated to
//  the local system {tangential, normal} where the tangent points from 0 to 1
type Cohesive2d struct {

	// basic data
	Cell  *inp.Cell    // the cell structure
	X     [][]float64  // matrix of nodal coordinates [2][4]
	Shp   *shp.Shape   // lin2 shape of mid-line
	Ips   []shp.Ipoint // integration points
	nodes []*dof.Node  // nodes
	dofs  [][]*dof.Dof // dofs per node
	Thick float64      // out-of-plane thickness
	FdStp float64      // step of numerical tangent

	// material model and states
	Mdl    cohesive.Model     // cohesive model
	States []*cohesive.Status // [nip] states

	// geometry
	Rot [][]float64   // [2][2] rows: tangent and normal
	mid [][]float64   // [2][2] mid-line coordinates
	ipx [][]float64   // [nip][2] real coordinates of ips
	det []float64     // [nip] length Jacobian times weight times thickness
	B   [][][]float64 // [nip][2][8] jump-displacement matrices
}

// bottom and top vertices paired along the mid-line
var (
	bot = []int{0, 1}
	top = []int{3, 2}
)

// register element
func init() {

	// information allocator
	ele.SetInfoFunc("cohesive2d", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) (*ele.Info, error) {
		if sim.Ndim != 2 || len(cell.Verts) != 4 {
			return nil, chk.Err("cohesive2d requires 4 vertices in 2D. nverts=%d and ndim=%d are invalid", len(cell.Verts), sim.Ndim)
		}
		return ele.NewInfo(4, "ux", "uy"), nil
	})

	// element allocator
	ele.SetAllocator("cohesive2d", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (ele.Element, error) {

		// basic data
		var o Cohesive2d
		o.Cell = cell
		o.nodes = nodes
		o.X = ele.BuildCoordsMatrix(nodes)
		var err error
		o.dofs, err = ele.DofsFromNodes(nodes, ele.NewInfo(4, "ux", "uy").Dofs)
		if err != nil {
			return nil, err
		}
		o.Thick, err = inp.KeycodeFloat(edat.Extra, "thick", 1)
		if err != nil {
			return nil, err
		}
		o.FdStp, err = inp.KeycodeFloat(edat.Extra, "fdstep", 1e-9)
		if err != nil {
			return nil, err
		}
		if o.Thick <= 0 || o.FdStp <= 0 {
			return nil, chk.Err("cohesive2d: thickness and fdstep must be positive. thick=%g and fdstep=%g are invalid", o.Thick, o.FdStp)
		}

		// model
		m, err := ele.GetModel(sim, edat)
		if err != nil {
			return nil, err
		}
		var ok bool
		if o.Mdl, ok = m.(cohesive.Model); !ok {
			return nil, chk.Err("cohesive2d requires a cohesive model; material %q has a different one", edat.Mat)
		}

		// integration points
		o.Shp, err = shp.New("lin2")
		if err != nil {
			return nil, err
		}
		o.Ips, _, err = o.Shp.GetIps(edat.Nip, 0)
		if err != nil {
			return nil, chk.Err("cohesive2d: cell %d:\n%v", cell.Id, err)
		}
		o.States = make([]*cohesive.Status, len(o.Ips))
		for i := range o.States {
			o.States[i] = cohesive.NewStatus(2)
		}

		// geometry
		err = o.geometry()
		if err != nil {
			return nil, chk.Err("cohesive2d: cell %d:\n%v", cell.Id, err)
		}
		return &o, nil
	})
}

// Id returns the cell Id
func (o *Cohesive2d) Id() int { return o.Cell.Id }

// Dofs returns the dofs of nodes
func (o *Cohesive2d) Dofs() [][]*dof.Dof { return o.dofs }

// Nodes returns the nodes
func (o *Cohesive2d) Nodes() []*dof.Node { return o.nodes }

// SetEleConds set element conditions
func (o *Cohesive2d) SetEleConds(key string, f dbf.T, extra string) (err error) {
	return chk.Err("cohesive2d cannot handle element condition named %q", key)
}

// Residual computes the internal forces R = ∫ trans(B) T dl
func (o *Cohesive2d) Residual(sol *ele.Solution) (R []float64, err error) {
	u := sol.Values(o.dofs, ele.Current)
	R = make([]float64, 8)
	tr := make([]float64, 2)
	for idx := range o.Ips {
		jump := o.jump(idx, u)
		err = o.Mdl.Traction(tr, o.States[idx], jump)
		if err != nil {
			return nil, chk.Err("cohesive2d: cell %d, ip %d:\n%v", o.Cell.Id, idx, err)
		}
		for i := 0; i < 8; i++ {
			for k := 0; k < 2; k++ {
				R[i] += o.B[idx][k][i] * tr[k] * o.det[idx]
			}
		}
	}
	return
}

// Jacobian computes K = ∫ trans(B) D B dl. D is computed numerically if the model does not have
// an analytical tangent
func (o *Cohesive2d) Jacobian(sol *ele.Solution, firstIt bool) (K [][]float64, err error) {
	u := sol.Values(o.dofs, ele.Current)
	K = utl.Alloc(8, 8)
	D := utl.Alloc(2, 2)
	for idx := range o.Ips {
		jump := o.jump(idx, u)
		err = o.tangent(D, o.States[idx], jump)
		if err != nil {
			return nil, chk.Err("cohesive2d: cell %d, ip %d:\n%v", o.Cell.Id, idx, err)
		}
		B := o.B[idx]
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				for k := 0; k < 2; k++ {
					for l := 0; l < 2; l++ {
						K[i][j] += B[k][i] * D[k][l] * B[l][j] * o.det[idx]
					}
				}
			}
		}
	}
	return
}

// Update integrates the states at all integration points
func (o *Cohesive2d) Update(sol *ele.Solution) (err error) {
	u := sol.Values(o.dofs, ele.Current)
	for idx := range o.Ips {
		err = o.Mdl.Update(o.States[idx], o.jump(idx, u))
		if err != nil {
			return chk.Err("cohesive2d: cell %d, ip %d:\n%v", o.Cell.Id, idx, err)
		}
	}
	return
}

// Commit accepts the trial states
func (o *Cohesive2d) Commit() {
	for _, s := range o.States {
		s.Commit()
	}
}

// Reset restores the converged states
func (o *Cohesive2d) Reset() {
	for _, s := range o.States {
		s.Reset()
	}
}

// Encode encodes internal variables
func (o *Cohesive2d) Encode(enc utl.Encoder) (err error) {
	for _, s := range o.States {
		err = s.Encode(enc)
		if err != nil {
			return
		}
	}
	return
}

// Decode decodes internal variables
func (o *Cohesive2d) Decode(dec utl.Decoder) (err error) {
	for _, s := range o.States {
		err = s.Decode(dec)
		if err != nil {
			return
		}
	}
	return
}

// IpCoords returns the real coordinates of integration points
func (o *Cohesive2d) IpCoords() [][]float64 { return o.ipx }

// IpKeys returns the keys of internal values
func (o *Cohesive2d) IpKeys() []string {
	return []string{"damage", "tn", "tt", "jn", "jt", "dlam"}
}

// IpValue returns the internal value of key at integration point idx
func (o *Cohesive2d) IpValue(idx int, key string) (val float64, ok bool) {
	if idx < 0 || idx >= len(o.States) {
		return
	}
	return o.Mdl.IpValue(o.States[idx], key)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// geometry computes the mid-line, the rotation and the B matrices
func (o *Cohesive2d) geometry() (err error) {

	// mid-line
	o.mid = utl.Alloc(2, 2)
	for a := 0; a < 2; a++ {
		for i := 0; i < 2; i++ {
			o.mid[i][a] = 0.5 * (o.X[i][bot[a]] + o.X[i][top[a]])
		}
	}
	dx, dy := o.mid[0][1]-o.mid[0][0], o.mid[1][1]-o.mid[1][0]
	l := math.Hypot(dx, dy)
	if l < shp.MinDetJ {
		return chk.Err("length of mid-line is too small: l = %g", l)
	}
	o.Rot = [][]float64{{dx / l, dy / l}, {-dy / l, dx / l}}

	// integration points
	nip := len(o.Ips)
	o.ipx = make([][]float64, nip)
	o.det = make([]float64, nip)
	o.B = make([][][]float64, nip)
	for idx, ip := range o.Ips {
		err = o.Shp.CalcAtIp(o.mid, ip, true)
		if err != nil {
			return
		}
		o.ipx[idx] = o.Shp.IpRealCoords(o.mid, ip)
		o.det[idx] = o.Shp.J * ip.W() * o.Thick
		o.B[idx] = utl.Alloc(2, 8)
		for a := 0; a < 2; a++ {
			S := o.Shp.S[a]
			for k := 0; k < 2; k++ {
				for i := 0; i < 2; i++ {
					o.B[idx][k][2*top[a]+i] += S * o.Rot[k][i]
					o.B[idx][k][2*bot[a]+i] -= S * o.Rot[k][i]
				}
			}
		}
	}
	return
}

// jump computes the local jump at integration point idx
func (o *Cohesive2d) jump(idx int, u []float64) (jump []float64) {
	jump = make([]float64, 2)
	for k := 0; k < 2; k++ {
		for i := 0; i < 8; i++ {
			jump[k] += o.B[idx][k][i] * u[i]
		}
	}
	return
}

// tangent computes D = dT/djump
func (o *Cohesive2d) tangent(D [][]float64, s *cohesive.Status, jump []float64) (err error) {
	if o.Mdl.HasAnalyticalTangent() {
		return o.Mdl.CalcD(D, s, jump)
	}
	f := func(tr, x []float64) {
		if e := o.Mdl.Traction(tr, s, x); e != nil && err == nil {
			err = e
		}
	}
	dst := mat.NewDense(2, 2, nil)
	fd.Jacobian(dst, f, jump, &fd.JacobianSettings{Formula: fd.Central, Step: o.FdStp})
	if err != nil {
		return
	}
	for k := 0; k < 2; k++ {
		for l := 0; l < 2; l++ {
			D[k][l] = dst.At(k, l)
		}
	}
	return
}
