// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// BoundaryBeam represents a beam crossing the boundary of a periodic unit cell. The third node
// carries the macroscopic strains {exx, ezx, kxx} of the cell and its x-coordinate is the size of
// the unit cell. The displacements of the beam nodes are the periodic fluctuations augmented by
// the macroscopic strains
//
//   u12 = Tp * u15    and    K15 = trans(Tp) * K12 * Tp
//
type BoundaryBeam struct {
	Beam3d // underlying beam with nodes 0 and 1

	// periodic data
	UnitCellSize float64     // size of unit cell (x-coordinate of node 2)
	Switches     [][]int     // [2][3] switches (x,y,z) ∈ {-1,0,1} of nodes 0 and 1
	Tp           [][]float64 // [12][15] periodic transformation matrix
	K15          [][]float64 // [15][15] stiffness matrix

	// all nodes
	allNodes []*dof.Node
}

// register element
func init() {

	// information allocator
	ele.SetInfoFunc("boundarybeam", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) (*ele.Info, error) {
		if len(cell.Verts) != 3 {
			return nil, chk.Err("boundarybeam requires 3 vertices; %d given", len(cell.Verts))
		}
		return &ele.Info{Dofs: [][]string{beamKeys, beamKeys, dof.MacroKeys}}, nil
	})

	// element allocator
	ele.SetAllocator("boundarybeam", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (ele.Element, error) {
		if len(nodes) != 3 {
			return nil, chk.Err("boundarybeam requires 3 nodes; %d given", len(nodes))
		}

		// beam
		beam, err := newBeam3d(sim, cell, edat, nodes[:2])
		if err != nil {
			return nil, err
		}
		o := &BoundaryBeam{Beam3d: *beam, allNodes: nodes}
		o.dofs, err = ele.DofsFromNodes(nodes, [][]string{beamKeys, beamKeys, dof.MacroKeys})
		if err != nil {
			return nil, err
		}

		// switches
		o.UnitCellSize = nodes[2].X[0]
		o.Switches = make([][]int, 2)
		for m := 0; m < 2; m++ {
			code := 0
			if m < len(cell.Location) {
				code = cell.Location[m]
			}
			o.Switches[m], err = Switches(code)
			if err != nil {
				return nil, chk.Err("boundarybeam: vertex %d of cell %d:\n%v", m, cell.Id, err)
			}
		}

		// matrices
		o.Tp = PeriodicTransformation(o.UnitCellSize, o.Switches[0][0], o.Switches[1][0], nodes[0].X[2], nodes[1].X[2])
		o.K15 = ele.TrMul3(o.Tp, o.K)
		return o, nil
	})
}

// Nodes returns the nodes
func (o *BoundaryBeam) Nodes() []*dof.Node { return o.allNodes }

// Residual computes R = trans(Tp) * (K12 * u12 - fext)
func (o *BoundaryBeam) Residual(sol *ele.Solution) (R []float64, err error) {
	u15 := sol.Values(o.dofs, ele.Current)
	u12 := ele.MatVecMul(o.Tp, u15)
	r12 := ele.MatVecMul(o.K, u12)
	fx := o.distributedLoads(sol.T)
	R = make([]float64, 15)
	for i := 0; i < 12; i++ {
		r12[i] -= fx[i]
		for j := 0; j < 15; j++ {
			R[j] += o.Tp[i][j] * r12[i]
		}
	}
	return
}

// Jacobian returns K15
func (o *BoundaryBeam) Jacobian(sol *ele.Solution, firstIt bool) (K [][]float64, err error) {
	return o.K15, nil
}

// Update computes the local displacements of the beam
func (o *BoundaryBeam) Update(sol *ele.Solution) (err error) {
	o.time = sol.T
	u12 := ele.MatVecMul(o.Tp, sol.Values(o.dofs, ele.Current))
	for i := 0; i < o.Nu; i++ {
		o.ua[i] = 0
		for j := 0; j < o.Nu; j++ {
			o.ua[i] += o.T[i][j] * u12[j]
		}
	}
	return
}

// Recompute re-computes K12 and K15
func (o *BoundaryBeam) Recompute() {
	o.Beam3d.Recompute()
	o.K15 = ele.TrMul3(o.Tp, o.K)
}

// Switches decodes a location code into (x,y,z) switches ∈ {-1,0,1}. Codes run from 1 to 26 over
// the neighbouring cells with x varying slowest and the centre (0,0,0) skipped; code 0 means the
// vertex is inside the cell
func Switches(code int) (sw []int, err error) {
	sw = make([]int, 3)
	if code == 0 {
		return
	}
	if code < 0 || code > 26 {
		return nil, chk.Err("location code must be in [0, 26]; %d is invalid", code)
	}
	i := code - 1
	if i >= 13 {
		i++
	}
	sw[0] = i/9 - 1
	sw[1] = (i/3)%3 - 1
	sw[2] = i%3 - 1
	return
}

// PeriodicTransformation computes the [12][15] matrix mapping {u0, u1, exx, ezx, kxx} to the
// displacements of beam nodes 0 and 1
//  Input:
//   L      -- size of unit cell
//   s0, s1 -- x-switches of nodes 0 and 1
//   z0, z1 -- z-coordinates of nodes 0 and 1
func PeriodicTransformation(L float64, s0, s1 int, z0, z1 float64) (T [][]float64) {
	T = utl.Alloc(12, 15)
	for i := 0; i < 12; i++ {
		T[i][i] = 1
	}
	for k, d := range []struct {
		s int
		z float64
	}{{s0, z0}, {s1, z1}} {
		r := 6 * k
		s := float64(d.s)
		T[r+0][12] = L * s
		T[r+0][14] = -d.z * L * s
		T[r+2][13] = L * s
		T[r+4][14] = -L * s
	}
	return
}
