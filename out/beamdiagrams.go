// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/guptarohit/asciigraph"
)

// DefineBeams defines aliases for beams; e.g. "beam0", "beam1", etc.
func (o *Output) DefineBeams() (err error) {
	for _, beam := range o.Beams {
		err = o.DefineCell(io.Sf("beam%d", beam.Id()), beam.Id())
		if err != nil {
			return
		}
	}
	return
}

// BeamDiagMoment returns the bending moment diagram of all beams (in order) at the selected output time
//  key  -- "M22", "M11" or "T00"
//  idxI -- index in Times corresponding to selected output time; use -1 for the last item
//  Output:
//   dist -- distance of stations along the sequence of beams
//   M    -- moments at stations
func (o *Output) BeamDiagMoment(key string, idxI int) (dist, M []float64, err error) {
	if len(o.Beams) == 0 {
		return nil, nil, chk.Err("there are no beams")
	}
	offset := 0.0
	for _, beam := range o.Beams {
		alias := io.Sf("beam%d", beam.Id())
		if _, ok := o.Aliases[alias]; !ok {
			return nil, nil, chk.Err("beams must be defined (DefineBeams) before recording results")
		}
		m := o.GetRes(key, alias, idxI)
		d := o.dist(o.Aliases[alias])
		if len(m) != len(d) {
			return nil, nil, chk.Err("cannot find results of %q at beam %d and output %d", key, beam.Id(), idxI)
		}
		for i := range d {
			dist = append(dist, offset+d[i])
			M = append(M, m[i])
		}
		offset += beam.L
	}
	return
}

// BeamGraph returns a text graph of the bending moment diagram of all beams
func (o *Output) BeamGraph(key string, idxI int) (graph string, err error) {
	_, M, err := o.BeamDiagMoment(key, idxI)
	if err != nil {
		return
	}
	return asciigraph.Plot(M, asciigraph.Height(10), asciigraph.Caption(GetLabel(key, "")+" along beams")), nil
}
