// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// BuildCoordsMatrix returns the coordinate matrix [ndim][nverts] of nodes
func BuildCoordsMatrix(nodes []*dof.Node) (x [][]float64) {
	if len(nodes) == 0 {
		return
	}
	ndim := len(nodes[0].X)
	x = make([][]float64, ndim)
	for i := 0; i < ndim; i++ {
		x[i] = make([]float64, len(nodes))
		for j, nod := range nodes {
			x[i][j] = nod.X[i]
		}
	}
	return
}

// DofsFromNodes returns the dofs of nodes following the keys given per node
func DofsFromNodes(nodes []*dof.Node, keys [][]string) (dofs [][]*dof.Dof, err error) {
	if len(nodes) != len(keys) {
		return nil, chk.Err("number of nodes (%d) and masks (%d) differ", len(nodes), len(keys))
	}
	dofs = make([][]*dof.Dof, len(nodes))
	for m, nod := range nodes {
		dofs[m] = make([]*dof.Dof, len(keys[m]))
		for k, key := range keys[m] {
			dofs[m][k] = nod.GetDof(key)
			if dofs[m][k] == nil {
				return nil, chk.Err("node %d does not have dof %q", nod.Id, key)
			}
		}
	}
	return
}

// GetModel returns the model of the material named in edat
func GetModel(sim *inp.Simulation, edat *inp.ElemData) (mdl.Model, error) {
	mat := sim.MatModels.Get(edat.Mat)
	if mat == nil {
		return nil, chk.Err("cannot find material %q", edat.Mat)
	}
	return mat.Mdl, nil
}

// NaturalBcs converts the face conditions of a cell
func NaturalBcs(cell *inp.Cell) (nbcs []*NaturalBc) {
	for _, fc := range cell.FaceBcs {
		nbcs = append(nbcs, &NaturalBc{Key: fc.Cond, IdxFace: fc.FaceId, Fcn: fc.Func, Extra: fc.Extra})
	}
	return
}

// TrMul3 returns trans(T) * K * T with K square
func TrMul3(T, K [][]float64) [][]float64 {
	t, k := toDense(T), toDense(K)
	var res mat.Dense
	res.Product(t.T(), k, t)
	return fromDense(&res)
}

// MatVecMul returns v := a * u
func MatVecMul(a [][]float64, u []float64) (v []float64) {
	v = make([]float64, len(a))
	for i := range a {
		for j, uj := range u {
			v[i] += a[i][j] * uj
		}
	}
	return
}

// toDense converts a matrix given by rows into a dense gonum matrix
func toDense(a [][]float64) *mat.Dense {
	m, n := len(a), len(a[0])
	d := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		d.SetRow(i, a[i])
	}
	return d
}

// fromDense converts a gonum matrix into rows
func fromDense(d mat.Matrix) (a [][]float64) {
	m, n := d.Dims()
	a = make([][]float64, m)
	for i := 0; i < m; i++ {
		a[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			a[i][j] = d.At(i, j)
		}
	}
	return
}
