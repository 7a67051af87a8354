// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdl defines what all constitutive models and their integration-point states implement
package mdl

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// Model defines a constitutive model. Models hold parameters only; per-point state lives in Status
type Model interface {
	Init(prms dbf.Params) error                          // initialises model with parameters
	GetPrms(example bool) dbf.Params                     // gets (an example) of parameters
	CheckConsistency() error                             // checks whether parameters are consistent
	HasAnalyticalTangent() bool                          // false => callers must compute a numerical tangent
	NewStatus() Status                                   // allocates state for one integration point
	IpValue(s Status, key string) (val float64, ok bool) // returns an internal quantity; must not modify s
}

// Status defines the state of one integration point with "old" (last converged) and "new"
// (current iteration) copies
type Status interface {
	Commit()                      // new => old; called at convergence
	Reset()                       // old => new; called before re-running a step
	Encode(enc utl.Encoder) error // encodes state
	Decode(dec utl.Decoder) error // decodes state
}

// New allocates a model by name
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'mdl' database", name)
	}
	return allocator(), nil
}

// Alloc allocates, initialises and checks a model
func Alloc(name string, prms dbf.Params) (model Model, err error) {
	model, err = New(name)
	if err != nil {
		return
	}
	err = model.Init(prms)
	if err != nil {
		return nil, err
	}
	err = model.CheckConsistency()
	if err != nil {
		return nil, err
	}
	return
}

// SetAllocator registers a model allocator
func SetAllocator(name string, fcn func() Model) {
	if _, ok := allocators[name]; ok {
		chk.Panic("cannot set allocator for model %q because name exists already", name)
	}
	allocators[name] = fcn
}

// Available returns the sorted names of all registered models
func Available() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// Stateless implements Status for models without internal variables
type Stateless struct{}

func (o *Stateless) Commit()                      {}
func (o *Stateless) Reset()                       {}
func (o *Stateless) Encode(enc utl.Encoder) error { return nil }
func (o *Stateless) Decode(dec utl.Decoder) error { return nil }
