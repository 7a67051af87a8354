// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	goio "io"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/guptarohit/asciigraph"
)

// Table writes the values of key at integration points as a whitespace separated table with
// one row per integration point: cid idx x y [z] value
func Table(w goio.Writer, ips []*IpData, key string) (err error) {
	var buf bytes.Buffer
	io.Ff(&buf, "%6s %4s %14s %14s %14s %23s\n", "cid", "idx", "x", "y", "z", key)
	for _, ip := range ips {
		io.Ff(&buf, "%6d %4d", ip.Cid, ip.Idx)
		for j := 0; j < 3; j++ {
			if j < len(ip.X) {
				io.Ff(&buf, " %14.6e", ip.X[j])
			} else {
				io.Ff(&buf, " %14s", "-")
			}
		}
		io.Ff(&buf, " %23.15e\n", ip.Vals[key])
	}
	_, err = w.Write(buf.Bytes())
	return
}

// Series writes the recorded time series of alias: one column per key@ipid, sorted by name
func (o *Output) Series(w goio.Writer, alias string) (err error) {
	res, ok := o.Results[alias]
	if !ok {
		return chk.Err("there are no results recorded for alias %q", alias)
	}
	cols := make([]string, 0, len(res))
	for rk := range res {
		cols = append(cols, rk)
	}
	sort.Strings(cols)
	var buf bytes.Buffer
	io.Ff(&buf, "%23s", "t")
	for _, c := range cols {
		io.Ff(&buf, " %23s", c)
	}
	io.Ff(&buf, "\n")
	for i, t := range o.Times {
		io.Ff(&buf, "%23.15e", t)
		for _, c := range cols {
			if i < len(res[c]) {
				io.Ff(&buf, " %23.15e", res[c][i])
			} else {
				io.Ff(&buf, " %23s", "-")
			}
		}
		io.Ff(&buf, "\n")
	}
	_, err = w.Write(buf.Bytes())
	return
}

// Graph returns a text graph of the time series of key at alias defining a single point
func (o *Output) Graph(key, alias string) (graph string, err error) {
	ids, ok := o.Aliases[alias]
	if !ok || len(ids) != 1 {
		return "", chk.Err("alias %q must define a single point", alias)
	}
	y := o.GetRes(key, alias, -1)
	if len(y) == 0 {
		return "", chk.Err("there are no results of %q at %q", key, alias)
	}
	return asciigraph.Plot(y, asciigraph.Height(10), asciigraph.Caption(GetLabel(key, "")+" @ "+alias)), nil
}
