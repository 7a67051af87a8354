// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/fluxfem/fluxfem/mdl"
	_ "github.com/fluxfem/fluxfem/mdl/cohesive"
	_ "github.com/fluxfem/fluxfem/mdl/fluid"
	_ "github.com/fluxfem/fluxfem/mdl/hydration"
	_ "github.com/fluxfem/fluxfem/mdl/sld"

	"github.com/cpmech/gosl/io"
)

// Material holds material data
type Material struct {

	// input
	Name  string   `yaml:"name" json:"name"`   // name of material
	Model string   `yaml:"model" json:"model"` // name of model; e.g. "newtonian", "intmatbilinearcz"
	Extra string   `yaml:"extra" json:"extra"` // extra information about this material
	Prms  PrmsData `yaml:"prms" json:"prms"`   // prms holds all model parameters for this material

	// derived
	Mdl mdl.Model `yaml:"-" json:"-"` // initialised model
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {
	Materials MatsData             // all materials
	byName    map[string]*Material // name => material
}

// NewMatDb allocates and initialises all models. Parameters are checked for consistency before
// any simulation can start
func NewMatDb(mats MatsData) (o *MatDb, err error) {
	o = &MatDb{Materials: mats, byName: make(map[string]*Material)}
	for i, m := range mats {
		rec := io.Sf("materials[%d]", i)
		if m.Name == "" {
			return nil, missing(rec, "name")
		}
		if m.Model == "" {
			return nil, missing(rec, "model")
		}
		if _, ok := o.byName[m.Name]; ok {
			return nil, invalid(rec, "name", "%q is repeated", m.Name)
		}
		m.Mdl, err = mdl.Alloc(m.Model, m.Prms.Params())
		if err != nil {
			return nil, err
		}
		o.byName[m.Name] = m
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o *MatDb) Get(name string) *Material {
	return o.byName[name]
}
