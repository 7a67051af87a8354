// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/guptarohit/asciigraph"
)

// Summary records the history of a run
type Summary struct {
	Times   []float64 // times at the end of committed steps
	Dts     []float64 // time steps of committed steps
	Iters   []int     // number of iterations of committed steps (implicit solver)
	Retries int       // number of repeated steps
	Dirout  string    // directory where results are stored
	Fnkey   string    // filename key of simulation
}

// Append records a committed step
func (o *Summary) Append(t, Δt float64) {
	o.Times = append(o.Times, t)
	o.Dts = append(o.Dts, Δt)
}

// Nsteps returns the number of committed steps
func (o *Summary) Nsteps() int { return len(o.Times) }

// Graph returns a terminal plot of the time step history
func (o *Summary) Graph() string {
	if len(o.Dts) == 0 {
		return ""
	}
	return asciigraph.Plot(o.Dts, asciigraph.Height(10), asciigraph.Caption("time step Δt per step"))
}

// Save saves the summary into the output directory
func (o *Summary) Save(enctype string, verbose bool) (err error) {
	var buf bytes.Buffer
	err = GetEncoder(&buf, enctype).Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	return saveFile(outSumPath(o.Dirout, o.Fnkey, enctype), &buf, verbose)
}

// ReadSummary reads a summary saved by Save
func ReadSummary(dir, fnkey, enctype string) (o *Summary, err error) {
	fil, err := os.Open(outSumPath(dir, fnkey, enctype))
	if err != nil {
		return
	}
	defer fil.Close()
	o = new(Summary)
	err = GetDecoder(fil, enctype).Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	return
}
