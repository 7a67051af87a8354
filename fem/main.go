// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the FEM solvers
package fem

import (
	"time"

	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Main holds all data for a simulation using the finite element method
type Main struct {
	Sim     *inp.Simulation // simulation data
	Summary *Summary        // summary structure
	Domain  *Domain         // the domain
	Solver  Solver          // finite element method solver; e.g. cbs or implicit
	ShowMsg bool            // show messages

	// OnOutput is called after initialisation and at every output time (control.dtout)
	OnOutput func(t float64) error
}

// NewMain returns a new Main structure
//  Input:
//   sim         -- simulation data
//   saveSummary -- save summary at the end of Run
//   verbose     -- show messages
func NewMain(sim *inp.Simulation, saveSummary, verbose bool) (o *Main, err error) {

	// new Main object
	o = &Main{Sim: sim, ShowMsg: verbose || sim.Data.ShowMsg}
	o.Summary = &Summary{Dirout: sim.DirOut, Fnkey: sim.Key}
	if !saveSummary {
		o.Summary.Dirout = ""
	}
	if o.ShowMsg {
		io.Pf("> Simulation data read\n")
	}

	// allocate domain
	o.Domain, err = NewDomain(sim, o.ShowMsg)
	if err != nil {
		return nil, err
	}

	// allocate solver
	alloc, ok := allocators[sim.Solver.Type]
	if !ok {
		return nil, chk.Err("cannot find solver type named %q", sim.Solver.Type)
	}
	o.Solver, err = alloc(o.Domain, o.Summary)
	return
}

// ReadMain reads a simulation file and returns a new Main structure
func ReadMain(simfilepath string, saveSummary, verbose bool) (o *Main, err error) {
	sim, err := inp.ReadSim(simfilepath)
	if err != nil {
		return
	}
	return NewMain(sim, saveSummary, verbose)
}

// Run initialises the solver and runs the time loop until control.tf
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// initialise
	err = o.Solver.Init()
	if err != nil {
		return
	}

	// time loop
	if o.ShowMsg {
		io.Pf("> Running FE solver\n")
	}
	tf, dtout := o.Sim.Control.Tf, o.Sim.Control.DtOut
	if o.OnOutput == nil {
		return o.Solver.Run(tf)
	}
	err = o.OnOutput(0)
	if err != nil {
		return
	}
	if dtout <= 0 {
		dtout = tf
	}
	for tout := dtout; ; tout += dtout {
		if tout > tf {
			tout = tf
		}
		err = o.Solver.Run(tout)
		if err != nil {
			return
		}
		t, _ := o.Solver.Elapsed()
		err = o.OnOutput(t)
		if err != nil {
			return
		}
		if tf-t <= 1e-10*tf || tout == tf {
			return
		}
	}
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// onexit prints the final message with simulation and cpu times and saves the summary
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {

	// show final message
	if o.ShowMsg {
		t, step := o.Solver.Elapsed()
		if prevErr == nil {
			io.PfGreen("> Success\n")
		} else {
			io.PfRed("> Failed\n")
		}
		io.Pf("> t = %g after %d steps (%d repeated)\n", t, step, o.Summary.Retries)
		io.Pf("> CPU time = %v\n", time.Since(cputime))
	}

	// save summary
	if o.Summary.Dirout != "" {
		err = o.Summary.Save(o.Sim.EncType, o.ShowMsg)
		if err != nil && prevErr == nil {
			return
		}
	}

	// previous error has precedence
	if prevErr != nil {
		err = prevErr
	}
	return
}
