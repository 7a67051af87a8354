// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dof implements degrees of freedom, nodes and equation numbering schemes
package dof

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// fields
const (
	FieldVelocity     = "v" // vx, vy, vz
	FieldPressure     = "p" // p
	FieldDisplacement = "u" // ux, uy, uz, rx, ry, rz
	FieldMacro        = "e" // exx, ezx, kxx (macroscopic strains of periodic cells)
	FieldTemperature  = "T" // T
	FieldAll          = "*" // any key; used by solvers numbering all fields together
)

// key sets
var (
	VelocityKeys     = []string{"vx", "vy", "vz"}
	PressureKeys     = []string{"p"}
	DisplacementKeys = []string{"ux", "uy", "uz", "rx", "ry", "rz"}
	MacroKeys        = []string{"exx", "ezx", "kxx"}
	TemperatureKeys  = []string{"T"}
)

// key2field maps dof keys to fields
var key2field = map[string]string{
	"vx": FieldVelocity, "vy": FieldVelocity, "vz": FieldVelocity,
	"p":  FieldPressure,
	"ux": FieldDisplacement, "uy": FieldDisplacement, "uz": FieldDisplacement,
	"rx": FieldDisplacement, "ry": FieldDisplacement, "rz": FieldDisplacement,
	"exx": FieldMacro, "ezx": FieldMacro, "kxx": FieldMacro,
	"T": FieldTemperature,
}

// FieldOf returns the field of a dof key. It panics on unknown keys
func FieldOf(key string) string {
	if f, ok := key2field[key]; ok {
		return f
	}
	chk.Panic("dof key %q is not available", key)
	return ""
}

// IsKey tells whether key is a known dof key
func IsKey(key string) bool {
	_, ok := key2field[key]
	return ok
}

// Dof holds degree-of-freedom data
//  Note: a Dof has one active equation number per scheme: Eq if free or PrescribedEq if prescribed
type Dof struct {
	Key          string  // semantic tag; e.g. "vx", "p", "ux", "rz", "exx", "T"
	Eq           int     // equation number in the free scheme of its field; 0 => not numbered
	PrescribedEq int     // equation number in the prescribed scheme of its field; 0 => not numbered
	Bc           dbf.T   // prescribed value function; may be nil for dofs fixed with values given elsewhere
	Ic           float64 // initial value
	fixed        bool    // prescribed
}

// Prescribed tells whether this dof is prescribed (constrained)
func (o *Dof) Prescribed() bool { return o.fixed }

// Fix marks this dof as prescribed with value given by f (nil => value supplied by the solver)
func (o *Dof) Fix(f dbf.T) {
	o.fixed = true
	o.Bc = f
}

// Release marks this dof as free
func (o *Dof) Release() {
	o.fixed = false
	o.Bc = nil
}

// BcValue returns the prescribed value at time t and position x. It returns 0 if Bc is nil
func (o *Dof) BcValue(t float64, x []float64) float64 {
	if o.Bc == nil {
		return 0
	}
	return o.Bc.F(t, x)
}

// Node holds node dofs
type Node struct {
	Id   int       // vertex id
	Tag  int       // vertex tag
	X    []float64 // coordinates
	Dofs []*Dof    // degrees of freedom, in the order they were added
}

// NewNode allocates a new Node
func NewNode(id, tag int, x []float64) *Node {
	return &Node{Id: id, Tag: tag, X: append([]float64{}, x...)}
}

// AddDof adds a new dof with given key and returns it. An existent dof is returned if already added
func (o *Node) AddDof(key string) *Dof {
	if d := o.GetDof(key); d != nil {
		return d
	}
	if !IsKey(key) {
		chk.Panic("cannot add dof with unknown key %q to node %d", key, o.Id)
	}
	d := &Dof{Key: key}
	o.Dofs = append(o.Dofs, d)
	return d
}

// GetDof returns the dof with given key or nil
func (o *Node) GetDof(key string) *Dof {
	for _, d := range o.Dofs {
		if d.Key == key {
			return d
		}
	}
	return nil
}

// GetEq returns the free equation number of dof with given key (0 if not found or prescribed)
func (o *Node) GetEq(key string) int {
	if d := o.GetDof(key); d != nil {
		return d.Eq
	}
	return 0
}
