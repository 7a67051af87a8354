// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the output of values at integration points for analyses and plotting
package out

import (
	"sort"

	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/ele/solid"
	"github.com/fluxfem/fluxfem/fem"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
)

// constants
var (
	TolC = 1e-8 // tolerance to compare x-y-z coordinates
)

// IpData holds the location and the values of one integration point
type IpData struct {
	Cid  int                // id of cell/element holding this integration point
	Idx  int                // index of integration point in element
	X    []float64          // coordinates of integration point
	Vals map[string]float64 // current (@ time t) values
}

// IpValues collects the values of key at all integration points of elems. Integration points
// without key are skipped. Element states are not modified
func IpValues(elems []ele.CanOutputIps, key string) (res []*IpData) {
	for _, e := range elems {
		for idx, x := range e.IpCoords() {
			if val, ok := e.IpValue(idx, key); ok {
				res = append(res, &IpData{Cid: e.Id(), Idx: idx, X: x, Vals: map[string]float64{key: val}})
			}
		}
	}
	return
}

// Keys returns the sorted keys available at the integration points of elems
func Keys(elems []ele.CanOutputIps) (keys []string) {
	set := make(map[string]bool)
	for _, e := range elems {
		for _, key := range e.IpKeys() {
			set[key] = true
		}
	}
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return
}

// Extremes returns the minimum and maximum values of key among ips
func Extremes(ips []*IpData, key string) (min, max float64, err error) {
	if len(ips) == 0 {
		return 0, 0, chk.Err("there are no integration points with key %q", key)
	}
	vals := make([]float64, len(ips))
	for i, ip := range ips {
		vals[i] = ip.Vals[key]
	}
	return floats.Min(vals), floats.Max(vals), nil
}

// Output handles the results of a simulation
type Output struct {

	// data set by New
	Main       *fem.Main          // the fem structure
	Dom        *fem.Domain        // [from Main] FE domain
	Ipoints    []*IpData          // all integration points. ipid == index in Ipoints
	Cid2ips    map[int][]int      // maps cell id to indices in Ipoints
	Ipkeys     []string           // all ip keys
	Beams      []*solid.Beam3d    // beams, if any
	ElemOutIps []ele.CanOutputIps // subset of elements that can output ip values

	// defined entities and results recorded by Record
	Aliases map[string][]int                // maps aliases to indices in Ipoints
	Results map[string]map[string][]float64 // [alias][key@ipid] time series; see ResKey
	Times   []float64                       // output times

	// subplots
	Splots []*SplotDat // all subplots
	Csplot *SplotDat   // current subplot
}

// New returns a new Output structure for a simulation
func New(m *fem.Main) (o *Output) {
	o = &Output{Main: m, Dom: m.Domain}
	o.Cid2ips = make(map[int][]int)
	o.Aliases = make(map[string][]int)
	o.Results = make(map[string]map[string][]float64)
	o.ElemOutIps = m.Domain.ElemOutIps
	o.Ipkeys = Keys(o.ElemOutIps)
	for _, e := range o.ElemOutIps {
		for idx, x := range e.IpCoords() {
			ipid := len(o.Ipoints)
			o.Ipoints = append(o.Ipoints, &IpData{Cid: e.Id(), Idx: idx, X: x, Vals: make(map[string]float64)})
			o.Cid2ips[e.Id()] = append(o.Cid2ips[e.Id()], ipid)
		}
		if beam, ok := e.(*solid.Beam3d); ok {
			o.Beams = append(o.Beams, beam)
		}
	}
	return
}

// Define defines alias for the integration point nearest to x
func (o *Output) Define(alias string, x []float64) (err error) {
	if len(o.Ipoints) == 0 {
		return chk.Err("cannot define %q: there are no integration points", alias)
	}
	best, dmin := -1, 0.0
	for ipid, ip := range o.Ipoints {
		if len(ip.X) < len(x) {
			continue
		}
		d := floats.Distance(ip.X[:len(x)], x, 2)
		if best < 0 || d < dmin-TolC {
			best, dmin = ipid, d
		}
	}
	if best < 0 {
		return chk.Err("cannot define %q: coordinates %v have a wrong dimension", alias, x)
	}
	o.Aliases[alias] = []int{best}
	return
}

// DefineCell defines alias for all integration points of cell cid
func (o *Output) DefineCell(alias string, cid int) (err error) {
	ids, ok := o.Cid2ips[cid]
	if !ok {
		return chk.Err("cannot define %q: cell %d has no integration points", alias, cid)
	}
	o.Aliases[alias] = ids
	return
}

// Record refreshes the values at integration points and appends the values of defined aliases
// to the time series. It can be used as fem.Main.OnOutput
func (o *Output) Record(t float64) (err error) {
	o.Times = append(o.Times, t)
	k := 0
	for _, e := range o.ElemOutIps {
		for idx := range e.IpCoords() {
			ip := o.Ipoints[k]
			for _, key := range e.IpKeys() {
				if val, ok := e.IpValue(idx, key); ok {
					ip.Vals[key] = val
				}
			}
			k++
		}
	}
	for alias, ids := range o.Aliases {
		res, ok := o.Results[alias]
		if !ok {
			res = make(map[string][]float64)
			o.Results[alias] = res
		}
		for _, ipid := range ids {
			for key, val := range o.Ipoints[ipid].Vals {
				rk := ResKey(key, ipid)
				res[rk] = append(res[rk], val)
			}
		}
	}
	return
}

// GetRes returns results of key at alias
//  idxI -- index in Times corresponding to the selected output time; use -1 for the last item.
//          If alias defines a single point, the whole time series is returned and idxI is ignored.
func (o *Output) GetRes(key, alias string, idxI int) (res []float64) {
	ids, ok := o.Aliases[alias]
	if !ok {
		chk.Panic("cannot find alias %q", alias)
	}
	if len(ids) == 1 {
		return o.Results[alias][ResKey(key, ids[0])]
	}
	if idxI < 0 {
		idxI = len(o.Times) - 1
	}
	for _, ipid := range ids {
		series := o.Results[alias][ResKey(key, ipid)]
		if idxI < len(series) {
			res = append(res, series[idxI])
		}
	}
	return
}

// ResKey returns the key of a time series of key at integration point ipid
func ResKey(key string, ipid int) string {
	return io.Sf("%s@%d", key, ipid)
}
