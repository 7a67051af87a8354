// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/fluxfem/fluxfem/ana"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/fem"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// block of hydrating concrete
const block = `
linsol: {name: dense}
solver:
  type: implicit
  implicit: {nmaxit: 50}
control: {tf: 3600, dt: 900, dtout: 1800}
materials:
  - name: concrete
    model: hydratingconcretemat
    prms:
      - {n: hydrationmodeltype, v: 1}
      - {n: qpot, v: 500}
      - {n: masscement, v: 350}
      - {n: tau, v: 5000}
      - {n: beta, v: 1.2}
      - {n: dohinf, v: 0.8}
      - {n: castat, v: 0}
      - {n: k, v: 1.5}
      - {n: c, v: 900}
      - {n: d, v: 2300}
mesh:
  verts:
    - {id: 0, tag: 0, c: [0, 0]}
    - {id: 1, tag: 0, c: [1, 0]}
    - {id: 2, tag: 0, c: [2, 0]}
    - {id: 3, tag: 0, c: [0, 1]}
    - {id: 4, tag: 0, c: [1, 1]}
    - {id: 5, tag: 0, c: [2, 1]}
  cells:
    - {id: 0, tag: -1, type: qua4, verts: [0, 1, 4, 3], ftags: [0, 0, 0, 0]}
    - {id: 1, tag: -1, type: qua4, verts: [1, 2, 5, 4], ftags: [0, 0, 0, 0]}
elems:
  - {tag: -1, mat: concrete, type: thermal}
inivals:
  - {tag: 0, keys: [T], vals: [20]}
`

// cantilever with two beams and uniform load q1 = 3
const cantilever = `
linsol: {name: dense}
solver: {type: implicit}
control: {tf: 1, dt: 1}
functions:
  - {name: load, type: cte, prms: [{n: c, v: 3}]}
materials:
  - name: steel
    model: oned-elast
    prms:
      - {n: E, v: 1000}
      - {n: G, v: 400}
      - {n: A, v: 0.5}
      - {n: I22, v: 2}
      - {n: I11, v: 1}
      - {n: Jtt, v: 3}
      - {n: rho, v: 1}
mesh:
  verts:
    - {id: 0, tag: -1, c: [0, 0, 0]}
    - {id: 1, tag: 0, c: [1, 0, 0]}
    - {id: 2, tag: 0, c: [2, 0, 0]}
  cells:
    - {id: 0, tag: -1, type: lin2, verts: [0, 1]}
    - {id: 1, tag: -1, type: lin2, verts: [1, 2]}
elems:
  - {tag: -1, mat: steel, type: beam3d, extra: "!nsta:5"}
nodebcs:
  - {tag: -1, keys: [ux, uy, uz, rx, ry, rz], funcs: [zero, zero, zero, zero, zero, zero]}
eleconds:
  - {tag: -1, keys: [q1], funcs: [load]}
`

func newMain(tst *testing.T, data string) *fem.Main {
	sim, err := inp.ParseSim([]byte(data))
	if err != nil {
		tst.Fatalf("ParseSim failed:\n%v", err)
	}
	m, err := fem.NewMain(sim, false, chk.Verbose)
	if err != nil {
		tst.Fatalf("NewMain failed:\n%v", err)
	}
	return m
}

// encodeStates encodes the internal states of all elements
func encodeStates(tst *testing.T, elems []ele.Element) []byte {
	var buf bytes.Buffer
	enc := fem.GetEncoder(&buf, "gob")
	for _, e := range elems {
		err := e.Encode(enc)
		if err != nil {
			tst.Fatalf("Encode failed:\n%v", err)
		}
	}
	return buf.Bytes()
}

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. values at integration points")

	m := newMain(tst, block)
	err := m.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	elems := m.Domain.ElemOutIps
	chk.Strings(tst, "keys", Keys(elems), []string{"T", "doh", "equivtime", "k", "power"})

	// collecting values does not change the states
	before := encodeStates(tst, m.Domain.Elems)
	ips := IpValues(elems, "doh")
	after := encodeStates(tst, m.Domain.Elems)
	assert.Equal(tst, before, after)

	// 2 elements with 4 integration points each
	chk.Int(tst, "nips", len(ips), 8)
	cids := make([]int, len(ips))
	for i, ip := range ips {
		cids[i] = ip.Cid
		if len(ip.X) != 2 {
			tst.Errorf("coordinates must be 2D. x = %v", ip.X)
			return
		}
	}
	chk.Ints(tst, "cids", cids, []int{0, 0, 0, 0, 1, 1, 1, 1})

	// uniform degree of hydration
	min, max, err := Extremes(ips, "doh")
	if err != nil {
		tst.Errorf("Extremes failed:\n%v", err)
		return
	}
	chk.Float64(tst, "Δdoh", 1e-12, max-min, 0)
	if min <= 0 {
		tst.Errorf("degree of hydration must be positive. doh = %g", min)
	}

	// unknown key
	chk.Int(tst, "nips(unknown)", len(IpValues(elems, "sx")), 0)
	_, _, err = Extremes(nil, "sx")
	assert.Error(tst, err)

	// table
	var buf bytes.Buffer
	err = Table(&buf, ips, "doh")
	if err != nil {
		tst.Errorf("Table failed:\n%v", err)
		return
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	chk.Int(tst, "nlines", len(lines), 9)
	chk.Strings(tst, "header", strings.Fields(lines[0]), []string{"cid", "idx", "x", "y", "z", "doh"})
	io.Pforan("%s", buf.String())
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. time series recorded at output times")

	m := newMain(tst, block)
	o := New(m)
	chk.Int(tst, "nipoints", len(o.Ipoints), 8)
	chk.Ints(tst, "cid2ips[1]", o.Cid2ips[1], []int{4, 5, 6, 7})
	if len(o.Beams) != 0 {
		tst.Errorf("there must be no beams")
		return
	}

	// aliases
	err := o.Define("A", []float64{0.2, 0.2})
	if err != nil {
		tst.Errorf("Define failed:\n%v", err)
		return
	}
	chk.Ints(tst, "A", o.Aliases["A"], []int{0})
	err = o.DefineCell("right", 1)
	if err != nil {
		tst.Errorf("DefineCell failed:\n%v", err)
		return
	}
	assert.Error(tst, o.DefineCell("none", 7))
	assert.Error(tst, o.Define("far", []float64{0, 0, 0, 0}))

	// run
	m.OnOutput = o.Record
	err = m.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}
	chk.Array(tst, "times", 1e-12, o.Times, []float64{0, 1800, 3600})

	// temperature increases monotonically
	T := o.GetRes("T", "A", -1)
	chk.Int(tst, "len(T)", len(T), 3)
	chk.Float64(tst, "T(0)", 1e-15, T[0], 20)
	if !(T[1] > T[0] && T[2] > T[1]) {
		tst.Errorf("temperature must increase. T = %v", T)
		return
	}

	// all points of right cell at the last and the first output time
	Tr := o.GetRes("T", "right", -1)
	chk.Array(tst, "T(right, tf)", 1e-9, Tr, []float64{T[2], T[2], T[2], T[2]})
	Tr = o.GetRes("T", "right", 0)
	chk.Array(tst, "T(right, 0)", 1e-15, Tr, []float64{20, 20, 20, 20})
	assert.Panics(tst, func() { o.GetRes("T", "unknown", -1) })

	// reports
	var buf bytes.Buffer
	err = o.Series(&buf, "A")
	if err != nil {
		tst.Errorf("Series failed:\n%v", err)
		return
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	chk.Int(tst, "nlines", len(lines), 4)
	assert.Contains(tst, lines[0], "T@0")
	assert.Error(tst, o.Series(&buf, "unknown"))
	graph, err := o.Graph("T", "A")
	if err != nil {
		tst.Errorf("Graph failed:\n%v", err)
		return
	}
	assert.NotEmpty(tst, graph)
	_, err = o.Graph("T", "right")
	assert.Error(tst, err)

	// figures
	dir, err := os.MkdirTemp("", "fluxfem-out")
	if err != nil {
		tst.Errorf("MkdirTemp failed:\n%v", err)
		return
	}
	defer os.RemoveAll(dir)
	assert.Error(tst, o.Draw(dir, "empty"))
	o.Splot("temperature", "temperature at A")
	err = o.Plot("t", "T", "A", -1)
	if err != nil {
		tst.Errorf("Plot failed:\n%v", err)
		return
	}
	o.SplotConfig("s", "°C", 1.0/3600.0, 1)
	assert.Equal(tst, "time [s]", o.Csplot.Xlbl)
	assert.Error(tst, o.Plot("t", "T", "right", -1))
	o.Splot("profile", "")
	err = o.Plot("x", "doh", "right", -1)
	if err != nil {
		tst.Errorf("Plot failed:\n%v", err)
		return
	}
	err = o.Draw(dir, "out02")
	if err != nil {
		tst.Errorf("Draw failed:\n%v", err)
		return
	}
	for _, id := range []string{"temperature", "profile"} {
		_, err = os.Stat(dir + "/out02_" + id + ".png")
		assert.NoError(tst, err)
	}
}

func Test_out03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out03. bending moment diagram")

	m := newMain(tst, cantilever)
	o := New(m)
	chk.Int(tst, "nbeams", len(o.Beams), 2)
	chk.Int(tst, "nipoints", len(o.Ipoints), 10)
	_, _, err := o.BeamDiagMoment("M22", -1)
	assert.Error(tst, err)

	err = o.DefineBeams()
	if err != nil {
		tst.Errorf("DefineBeams failed:\n%v", err)
		return
	}
	m.OnOutput = o.Record
	err = m.Run()
	if err != nil {
		tst.Errorf("Run failed:\n%v", err)
		return
	}

	// M = q (L - x)² / 2
	dist, M, err := o.BeamDiagMoment("M22", -1)
	if err != nil {
		tst.Errorf("BeamDiagMoment failed:\n%v", err)
		return
	}
	chk.Array(tst, "dist", 1e-15, dist, []float64{0, 0.25, 0.5, 0.75, 1, 1, 1.25, 1.5, 1.75, 2})
	sol := ana.CantileverUniform{Q: 3, L: 2, EI: 2000}
	for i, x := range dist {
		chk.Float64(tst, io.Sf("|M22(%g)|", x), 1e-10, math.Abs(M[i]), sol.Moment(x))
	}

	// M11 vanishes without load along y2
	_, M11, err := o.BeamDiagMoment("M11", -1)
	if err != nil {
		tst.Errorf("BeamDiagMoment failed:\n%v", err)
		return
	}
	for i := range M11 {
		chk.Float64(tst, "M11", 1e-10, M11[i], 0)
	}

	graph, err := o.BeamGraph("M22", -1)
	if err != nil {
		tst.Errorf("BeamGraph failed:\n%v", err)
		return
	}
	assert.NotEmpty(tst, graph)
	io.Pf("%s\n", graph)
}
