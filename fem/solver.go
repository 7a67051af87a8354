// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

// Solver implements the actual solver (time loop)
type Solver interface {
	Init() error                    // numbers equations, allocates vectors and sets initial values
	Run(tf float64) error           // runs steps until tf
	Elapsed() (t float64, step int) // time and number of committed steps
}

// allocators holds all available solvers
var allocators = make(map[string]func(dom *Domain, sum *Summary) (Solver, error))

func init() {
	allocators["cbs"] = func(dom *Domain, sum *Summary) (Solver, error) {
		o, err := NewCBS(dom)
		if err != nil {
			return nil, err
		}
		o.Sum = sum
		return o, nil
	}
	allocators["implicit"] = func(dom *Domain, sum *Summary) (Solver, error) {
		o, err := NewImplicit(dom)
		if err != nil {
			return nil, err
		}
		o.Sum = sum
		return o, nil
	}
}

// Elapsed returns the time and number of committed steps
func (o *CBS) Elapsed() (t float64, step int) { return o.T, o.Step }

// Elapsed returns the time and number of committed steps
func (o *Implicit) Elapsed() (t float64, step int) { return o.T, o.Step }
