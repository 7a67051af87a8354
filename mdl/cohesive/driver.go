// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cohesive

import (
	"github.com/cpmech/gosl/chk"
)

// Driver runs a cohesive model through a path of jumps, committing the state at each point
type Driver struct {
	Mdl Model   // model
	Sta *Status // status

	// results
	Res []State // states at each point of the path
}

// Init initialises driver with a new status for jumps with n components
func (o *Driver) Init(mdl Model, n int) {
	o.Mdl = mdl
	o.Sta = NewStatus(n)
	o.Res = nil
}

// Run runs the path
func (o *Driver) Run(path [][]float64) (err error) {
	if o.Sta == nil {
		return chk.Err("driver must be initialised first")
	}
	for i, jump := range path {
		err = o.Mdl.Update(o.Sta, jump)
		if err != nil {
			return chk.Err("driver failed at point %d:\n%v", i, err)
		}
		o.Sta.Commit()
		o.Res = append(o.Res, o.Sta.Old.clone())
	}
	return
}

// OpeningPath returns a mode I path with n components: loading from 0 to jmax and unloading to
// jmax/2 with np points in each branch
func OpeningPath(n, np int, jmax float64) (path [][]float64) {
	for i := 0; i < np; i++ {
		jump := make([]float64, n)
		jump[n-1] = jmax * float64(i) / float64(np-1)
		path = append(path, jump)
	}
	for i := 1; i < np; i++ {
		jump := make([]float64, n)
		jump[n-1] = jmax * (1.0 - 0.5*float64(i)/float64(np-1))
		path = append(path, jump)
	}
	return
}
