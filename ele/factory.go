// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"sort"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
)

// InfoFuncType defines a function that returns information about a certain element type
type InfoFuncType func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) (*Info, error)

// AllocatorType defines a function that allocates an element. nodes already hold the dofs
// described by Info
type AllocatorType func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (Element, error)

// GetInfo returns information about elements from factory
func GetInfo(sim *inp.Simulation, cell *inp.Cell) (info *Info, err error) {
	edat := sim.Etag2data(cell.Tag)
	if edat == nil {
		return nil, chk.Err("cannot get data for element {tag=%d, id=%d}", cell.Tag, cell.Id)
	}
	fcn, ok := infofactory[edat.Type]
	if !ok {
		return nil, chk.Err("element type %q is not available. {tag=%d, id=%d}", edat.Type, cell.Tag, cell.Id)
	}
	info, err = fcn(sim, cell, edat)
	if err != nil {
		return nil, chk.Err("cannot get info of element {type=%q, tag=%d, id=%d}:\n%v", edat.Type, cell.Tag, cell.Id, err)
	}
	if len(info.Dofs) != len(cell.Verts) {
		return nil, chk.Err("info of element {type=%q, tag=%d, id=%d} has %d nodes but cell has %d", edat.Type, cell.Tag, cell.Id, len(info.Dofs), len(cell.Verts))
	}
	return
}

// New returns a new element from factory
func New(sim *inp.Simulation, cell *inp.Cell, nodes []*dof.Node) (ele Element, err error) {
	edat := sim.Etag2data(cell.Tag)
	if edat == nil {
		return nil, chk.Err("cannot get data for element {tag=%d, id=%d}", cell.Tag, cell.Id)
	}
	fcn, ok := allocators[edat.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for element {type=%q, tag=%d, id=%d}", edat.Type, cell.Tag, cell.Id)
	}
	ele, err = fcn(sim, cell, edat, nodes)
	if err != nil {
		return nil, chk.Err("cannot allocate element {type=%q, tag=%d, id=%d}:\n%v", edat.Type, cell.Tag, cell.Id, err)
	}
	return
}

// SetInfoFunc sets a new callback function to return information about an element
func SetInfoFunc(elementName string, fcn InfoFuncType) {
	if _, ok := infofactory[elementName]; ok {
		chk.Panic("cannot set information function for %q because element name exists already", elementName)
	}
	infofactory[elementName] = fcn
}

// SetAllocator sets a new callback function to allocate an element
func SetAllocator(elementName string, fcn AllocatorType) {
	if _, ok := allocators[elementName]; ok {
		chk.Panic("cannot set allocator function for %q because element name exists already", elementName)
	}
	allocators[elementName] = fcn
}

// Available returns the sorted names of all element types
func Available() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// infofactory holds all functions that return information about an element
var infofactory = make(map[string]InfoFuncType)

// allocators holds all element allocators
var allocators = make(map[string]AllocatorType)
