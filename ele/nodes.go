// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/inp"
)

// BuildNodes allocates one node per vertex and adds the dofs required by the elements of all cells
// in the order given by the elements' masks
func BuildNodes(sim *inp.Simulation) (nodes []*dof.Node, err error) {
	nodes = make([]*dof.Node, len(sim.Mesh.Verts))
	for i, v := range sim.Mesh.Verts {
		nodes[i] = dof.NewNode(v.Id, v.Tag, v.C)
	}
	for _, cell := range sim.Mesh.Cells {
		info, e := GetInfo(sim, cell)
		if e != nil {
			return nil, e
		}
		for m, keys := range info.Dofs {
			for _, key := range keys {
				nodes[cell.Verts[m]].AddDof(key)
			}
		}
	}
	return
}

// CellNodes returns the nodes of a cell
func CellNodes(nodes []*dof.Node, cell *inp.Cell) (cnodes []*dof.Node) {
	cnodes = make([]*dof.Node, len(cell.Verts))
	for m, v := range cell.Verts {
		cnodes[m] = nodes[v]
	}
	return
}

// NewAll allocates the elements of all cells and sets their element conditions
func NewAll(sim *inp.Simulation, nodes []*dof.Node) (elems []Element, err error) {
	elems = make([]Element, len(sim.Mesh.Cells))
	for i, cell := range sim.Mesh.Cells {
		elems[i], err = New(sim, cell, CellNodes(nodes, cell))
		if err != nil {
			return nil, err
		}
		if ec := sim.GetEleCond(cell.Tag); ec != nil {
			for j, key := range ec.Keys {
				fcn, e := sim.Functions.Get(ec.Funcs[j])
				if e != nil {
					return nil, e
				}
				err = elems[i].SetEleConds(key, fcn, ec.Extra)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return
}
