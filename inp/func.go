// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// PrmData holds one parameter record
type PrmData struct {
	N string  `yaml:"n" json:"n"` // name
	V float64 `yaml:"v" json:"v"` // value
}

// PrmsData holds parameter records
type PrmsData []PrmData

// Params converts records to a set of parameters
func (o PrmsData) Params() (prms dbf.Params) {
	prms = make(dbf.Params, len(o))
	for i, p := range o {
		prms[i] = &dbf.P{N: p.N, V: p.V}
	}
	return
}

// FuncData holds function definition
type FuncData struct {
	Name string   `yaml:"name" json:"name"` // name of function. ex: zero, load, myfunction1, etc.
	Type string   `yaml:"type" json:"type"` // type of function. ex: cte, rmp
	Prms PrmsData `yaml:"prms" json:"prms"` // parameters
}

// FuncsData holds functions
type FuncsData []*FuncData

// Get returns function by name
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "zero" || name == "none" {
		fcn = &dbf.Cte{C: 0}
		return
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = dbf.New(f.Type, f.Prms.Params())
			if err != nil {
				err = chk.Err("cannot get function named %q because of the following error:\n%v", name, err)
			}
			return
		}
	}
	err = chk.Err("cannot find function named %q", name)
	return
}

// check checks records
func (o FuncsData) check() error {
	names := make(map[string]bool)
	for i, f := range o {
		rec := io.Sf("functions[%d]", i)
		if f.Name == "" {
			return missing(rec, "name")
		}
		if f.Type == "" {
			return missing(rec, "type")
		}
		if names[f.Name] {
			return invalid(rec, "name", "%q is repeated", f.Name)
		}
		names[f.Name] = true
		if _, err := o.Get(f.Name); err != nil {
			return err
		}
	}
	return nil
}
