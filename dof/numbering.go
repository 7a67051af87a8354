// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dof

import (
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Numbering maps dofs to equation numbers
type Numbering interface {
	EquationNumber(d *Dof) int      // equation number of d; 0 => d does not belong to this scheme
	AskNewEquationNumber() int      // issues the next equation number (1, 2, ...)
	IsDefault() bool                // coincides with the primary (free) numbering
	RequiredNumberOfEquations() int // number of equations issued so far
}

// Scheme is a Numbering able to claim dofs while equations are being forced
type Scheme interface {
	Numbering
	Accepts(d *Dof) bool // whether d belongs to this scheme
	Assign(d *Dof)       // issues a new number and stores it in d
	Reset()              // restarts counting
}

// FieldNumbering numbers the free or prescribed dofs of a set of keys
type FieldNumbering struct {
	Name       string          // e.g. "velocity", "pressure"
	keys       map[string]bool // accepted keys; nil => all keys
	prescribed bool            // numbers prescribed dofs
	neq        int             // number of issued equations
}

// NewFieldNumbering returns a new scheme for keys. No keys means all keys
func NewFieldNumbering(name string, prescribed bool, keys ...string) (o *FieldNumbering) {
	o = &FieldNumbering{Name: name, prescribed: prescribed}
	if len(keys) > 0 {
		o.keys = make(map[string]bool)
		for _, key := range keys {
			o.keys[key] = true
		}
	}
	return
}

// NewVelocityNumbering returns the velocity numbering (free or prescribed)
func NewVelocityNumbering(prescribed bool) *FieldNumbering {
	return NewFieldNumbering("velocity", prescribed, VelocityKeys...)
}

// NewPressureNumbering returns the pressure numbering (free or prescribed)
func NewPressureNumbering(prescribed bool) *FieldNumbering {
	return NewFieldNumbering("pressure", prescribed, PressureKeys...)
}

// Field returns the field name handled by this scheme; FieldAll if keys span more than one field
func (o *FieldNumbering) Field() string {
	if o.keys == nil {
		return FieldAll
	}
	field := ""
	for key := range o.keys {
		f := FieldOf(key)
		if field != "" && f != field {
			return FieldAll
		}
		field = f
	}
	return field
}

// Prescribed tells whether this scheme numbers prescribed dofs
func (o *FieldNumbering) Prescribed() bool { return o.prescribed }

// Accepts tells whether d belongs to this scheme
func (o *FieldNumbering) Accepts(d *Dof) bool {
	if o.keys != nil && !o.keys[d.Key] {
		return false
	}
	return d.Prescribed() == o.prescribed
}

// EquationNumber returns the equation number of d or 0 if d is not in this scheme
func (o *FieldNumbering) EquationNumber(d *Dof) int {
	if !o.Accepts(d) {
		return 0
	}
	if o.prescribed {
		return d.PrescribedEq
	}
	return d.Eq
}

// AskNewEquationNumber issues a new equation number
func (o *FieldNumbering) AskNewEquationNumber() int {
	o.neq++
	return o.neq
}

// IsDefault returns true for free numberings
func (o *FieldNumbering) IsDefault() bool { return !o.prescribed }

// RequiredNumberOfEquations returns the number of equations issued so far
func (o *FieldNumbering) RequiredNumberOfEquations() int { return o.neq }

// Assign issues a new number and stores it in d
func (o *FieldNumbering) Assign(d *Dof) {
	eq := o.AskNewEquationNumber()
	if o.prescribed {
		d.PrescribedEq = eq
		return
	}
	d.Eq = eq
}

// Reset restarts counting
func (o *FieldNumbering) Reset() { o.neq = 0 }

// String returns a short description
func (o *FieldNumbering) String() string {
	keys := make([]string, 0, len(o.keys))
	for key := range o.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	part := "free"
	if o.prescribed {
		part = "prescribed"
	}
	return o.Name + "(" + part + ":" + strings.Join(keys, ",") + ")"
}

// Number forces equation numbering: nodes are traversed in the given order and dofs in node order;
// each dof is numbered by the single scheme accepting it. Dofs accepted by no scheme get 0.
func Number(nodes []*Node, schemes ...Scheme) (err error) {
	for _, s := range schemes {
		s.Reset()
	}
	for _, nod := range nodes {
		for _, d := range nod.Dofs {
			d.Eq, d.PrescribedEq = 0, 0
			var owner Scheme
			for _, s := range schemes {
				if !s.Accepts(d) {
					continue
				}
				if owner != nil {
					return chk.Err("dof %q of node %d is claimed by two numbering schemes: %v and %v", d.Key, nod.Id, owner, s)
				}
				owner = s
			}
			if owner != nil {
				owner.Assign(d)
			}
		}
	}
	return
}

// Equations returns all (non-zero) equation numbers of a scheme for the given nodes, in traversal order
func Equations(nodes []*Node, s Numbering) (eqs []int) {
	for _, nod := range nodes {
		for _, d := range nod.Dofs {
			if eq := s.EquationNumber(d); eq > 0 {
				eqs = append(eqs, eq)
			}
		}
	}
	return
}
