// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Domain holds the nodes and elements of a simulation
type Domain struct {

	// init: auxiliary variables
	Sim     *inp.Simulation // simulation data
	ShowMsg bool            // show messages
	Workers int             // number of goroutines computing element contributions; 0 => number of CPUs

	// nodes and elements
	Nodes       []*dof.Node        // all nodes; one per vertex
	Elems       []ele.Element      // all elements; one per cell
	ElemIntvars []ele.WithIntVars  // elements with internal variables
	ElemOutIps  []ele.CanOutputIps // elements with values at integration points
	ElemFixedKM []ele.WithFixedKM  // elements with fixed K and M matrices
	ElemResids  []ele.WithResidual // elements computing residuals and Jacobians
}

// NewDomain allocates nodes and elements and sets essential boundary conditions and initial values
func NewDomain(sim *inp.Simulation, verbose bool) (o *Domain, err error) {

	// basic
	o = &Domain{Sim: sim, ShowMsg: verbose, Workers: sim.Data.Workers}

	// nodes and elements
	o.Nodes, err = ele.BuildNodes(sim)
	if err != nil {
		return nil, err
	}
	o.Elems, err = ele.NewAll(sim, o.Nodes)
	if err != nil {
		return nil, err
	}
	for _, e := range o.Elems {
		if e, ok := e.(ele.WithIntVars); ok {
			o.ElemIntvars = append(o.ElemIntvars, e)
		}
		if e, ok := e.(ele.CanOutputIps); ok {
			o.ElemOutIps = append(o.ElemOutIps, e)
		}
		if e, ok := e.(ele.WithFixedKM); ok {
			o.ElemFixedKM = append(o.ElemFixedKM, e)
		}
		if e, ok := e.(ele.WithResidual); ok {
			o.ElemResids = append(o.ElemResids, e)
		}
	}

	// essential boundary conditions
	err = o.SetEssentialBcs()
	if err != nil {
		return nil, err
	}

	// initial values
	err = o.SetIniVals()
	if err != nil {
		return nil, err
	}
	if o.ShowMsg {
		io.Pf(">> Number of nodes    = %d\n", len(o.Nodes))
		io.Pf(">> Number of elements = %d\n", len(o.Elems))
	}
	return
}

// SetEssentialBcs marks dofs of tagged nodes and of nodes on tagged faces as prescribed. Face
// conditions whose keys are not dof keys (e.g. qn, q) are natural conditions handled by elements
func (o *Domain) SetEssentialBcs() (err error) {

	// nodes
	for _, nod := range o.Nodes {
		if nod.Tag >= 0 {
			continue
		}
		nbc := o.Sim.GetNodeBc(nod.Tag)
		if nbc == nil {
			continue
		}
		for j, key := range nbc.Keys {
			err = o.fix(nod, key, nbc.Funcs[j])
			if err != nil {
				return chk.Err("nodebcs with tag %d:\n%v", nod.Tag, err)
			}
		}
	}

	// faces
	for _, fbc := range o.Sim.FaceBcs {
		for j, key := range fbc.Keys {
			if !dof.IsKey(key) {
				continue
			}
			for _, v := range o.Sim.Mesh.FaceTag2verts[fbc.Tag] {
				err = o.fix(o.Nodes[v], key, fbc.Funcs[j])
				if err != nil {
					return chk.Err("facebcs with tag %d:\n%v", fbc.Tag, err)
				}
			}
		}
	}
	return
}

// SetIniVals sets the initial values of dofs
func (o *Domain) SetIniVals() (err error) {
	for i, iv := range o.Sim.IniVals {
		found := false
		for _, nod := range o.Nodes {
			if iv.Tag != 0 && nod.Tag != iv.Tag {
				continue
			}
			for j, key := range iv.Keys {
				if d := nod.GetDof(key); d != nil {
					d.Ic = iv.Vals[j]
					found = true
				}
			}
		}
		if !found {
			return chk.Err("inivals[%d]: no node with tag %d has dofs %v", i, iv.Tag, iv.Keys)
		}
	}
	return
}

// SetPrescribed sets the prescribed values at time t of all dofs with boundary functions. The
// values are divided by the factor returned by scale(key); nil scale => 1
func (o *Domain) SetPrescribed(sol *ele.Solution, t float64, scale func(key string) float64) {
	for _, nod := range o.Nodes {
		for _, d := range nod.Dofs {
			if !d.Prescribed() || d.Bc == nil || d.PrescribedEq < 1 {
				continue
			}
			f := sol.Field(d.Key)
			if f == nil {
				continue
			}
			sc := 1.0
			if scale != nil {
				sc = scale(d.Key)
			}
			f.Presc[d.PrescribedEq-1] = d.BcValue(t, nod.X) / sc
		}
	}
}

// SetInitial copies initial values of free dofs into the current and converged vectors
func (o *Domain) SetInitial(sol *ele.Solution, scale func(key string) float64) {
	for _, nod := range o.Nodes {
		for _, d := range nod.Dofs {
			if d.Prescribed() || d.Eq < 1 {
				continue
			}
			f := sol.Field(d.Key)
			if f == nil {
				continue
			}
			sc := 1.0
			if scale != nil {
				sc = scale(d.Key)
			}
			f.Y[d.Eq-1] = d.Ic / sc
			f.Yold[d.Eq-1] = d.Ic / sc
		}
	}
}

// UpdateElems updates the internal variables of all elements
func (o *Domain) UpdateElems(sol *ele.Solution) (err error) {
	for _, e := range o.ElemIntvars {
		err = e.Update(sol)
		if err != nil {
			return
		}
	}
	return
}

// CommitElems accepts the internal variables of all elements
func (o *Domain) CommitElems() {
	for _, e := range o.ElemIntvars {
		e.Commit()
	}
}

// ResetElems restores the converged internal variables of all elements
func (o *Domain) ResetElems() {
	for _, e := range o.ElemIntvars {
		e.Reset()
	}
}

// fix marks the dof key of nod as prescribed with function fname
func (o *Domain) fix(nod *dof.Node, key, fname string) (err error) {
	d := nod.GetDof(key)
	if d == nil {
		return chk.Err("node %d does not have dof %q", nod.Id, key)
	}
	fcn, err := o.Sim.Functions.Get(fname)
	if err != nil {
		return
	}
	d.Fix(fcn)
	return
}
