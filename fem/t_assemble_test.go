// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/ele/fluid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/stretchr/testify/assert"
)

// perturb sets a non-uniform velocity field
func perturb(o *CBS) {
	V := o.Sol.Fields[dof.FieldVelocity]
	for i := range V.Yold {
		V.Yold[i] = 0.1 * math.Sin(float64(i+1))
		V.Y[i] = V.Yold[i]
		V.Aux[i] = 0.01 * math.Cos(float64(i+1))
	}
	o.Sol.Dt = 0.01
}

// reversed returns the elements in reversed order
func reversed(elems []ele.Element) (res []ele.Element) {
	for i := len(elems) - 1; i >= 0; i-- {
		res = append(res, elems[i])
	}
	return
}

func Test_assemble01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assemble01. vectors do not depend on element order or number of workers")

	_, o := newChannel(tst, channelOpts{workers: 1})
	err := o.Init()
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}
	perturb(o)

	cases := []struct {
		name string
		asm  ele.VectorAssembler
		s    dof.Numbering
	}{
		{"LumpedMass", fluid.LumpedMass{}, o.Vf},
		{"IntermediateConvectionDiffusion", fluid.IntermediateConvectionDiffusion{}, o.Vf},
		{"DensityRhs", fluid.DensityRhs{}, o.Pf},
		{"PrescribedVelocityRhs", fluid.PrescribedVelocityRhs{}, o.Pf},
		{"CorrectionRhs", fluid.CorrectionRhs{}, o.Vf},
		{"PrescribedTractionPressure", fluid.PrescribedTractionPressure{}, o.Pp},
	}
	for _, c := range cases {
		n := c.s.RequiredNumberOfEquations()
		ref := make([]float64, n)
		err = AssembleVector(ref, o.elems, c.asm, o.Sol, c.s, 1)
		if err != nil {
			tst.Errorf("%s failed:\n%v", c.name, err)
			return
		}
		for _, workers := range []int{0, 2, 4} {
			res := make([]float64, n)
			err = AssembleVector(res, o.elems, c.asm, o.Sol, c.s, workers)
			if err != nil {
				tst.Errorf("%s failed:\n%v", c.name, err)
				return
			}
			chk.Array(tst, io.Sf("%s: workers=%d", c.name, workers), 1e-17, res, ref)
		}
		res := make([]float64, n)
		err = AssembleVector(res, reversed(o.elems), c.asm, o.Sol, c.s, 3)
		if err != nil {
			tst.Errorf("%s failed:\n%v", c.name, err)
			return
		}
		assert.InDeltaSlicef(tst, ref, res, 1e-15, "%s: reversed elements", c.name)
	}
}

func Test_assemble02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assemble02. matrices do not depend on element order or number of workers")

	_, o := newChannel(tst, channelOpts{workers: 1, cmflag: true})
	err := o.Init()
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}

	// pressure Laplacian of the channel: free pressures at nodes 1 and 4
	//  H = [ 2 -1 ; -1 2 ]
	Hd := o.H.ToDense()
	chk.Deep2(tst, "H", 1e-15, [][]float64{{Hd.Get(0, 0), Hd.Get(0, 1)}, {Hd.Get(1, 0), Hd.Get(1, 1)}}, [][]float64{{2, -1}, {-1, 2}})

	for _, c := range []struct {
		name string
		asm  ele.MatrixAssembler
		s    dof.Numbering
	}{
		{"PressureLhs", fluid.PressureLhs{}, o.Pf},
		{"ConsistentMass", fluid.ConsistentMass{}, o.Vf},
	} {
		n := c.s.RequiredNumberOfEquations()
		nnz := NnzEstimate(o.elems, c.s)
		var ref *la.Matrix
		for k, elems := range [][]ele.Element{o.elems, reversed(o.elems), o.elems} {
			K := new(la.Triplet)
			K.Init(n, n, nnz)
			K.Start()
			err = AssembleMatrix(K, elems, c.asm, o.Sol, c.s, k+1)
			if err != nil {
				tst.Errorf("%s failed:\n%v", c.name, err)
				return
			}
			Kd := K.ToDense()
			if ref == nil {
				ref = Kd
				continue
			}
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					chk.Float64(tst, io.Sf("%s[%d,%d] (k=%d)", c.name, i, j, k), 1e-15, Kd.Get(i, j), ref.Get(i, j))
				}
			}
		}
	}

	// consistent mass rows add up to the lumped mass
	Md := o.MC.ToDense()
	for i, ml := range o.ML {
		sum := 0.0
		for j := range o.ML {
			sum += Md.Get(i, j)
		}
		chk.Float64(tst, io.Sf("ΣMC[%d,:]", i), 1e-15, sum, ml)
	}
}

func Test_assemble03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assemble03. size mismatch and element errors")

	_, o := newChannel(tst, channelOpts{workers: 2})
	err := o.Init()
	if err != nil {
		tst.Errorf("Init failed:\n%v", err)
		return
	}

	// vector shorter than the number of equations
	fb := make([]float64, 1)
	err = AssembleVector(fb, o.elems, fluid.LumpedMass{}, o.Sol, o.Vf, 2)
	if err == nil {
		tst.Errorf("AssembleVector must fail with a short vector")
		return
	}

	// residuals are not available in CBS elements
	fb = make([]float64, o.Vf.RequiredNumberOfEquations())
	err = AssembleVector(fb, o.elems, ele.InternalForces{}, o.Sol, o.Vf, 2)
	if err == nil {
		tst.Errorf("InternalForces must fail with CBS elements")
	}
}

func Test_linsol01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linsol01. registry and dense solver")

	chk.Strings(tst, "names", LinSols(), []string{"dense", "umfpack"})
	if _, err := NewLinSol("mumps"); err == nil {
		tst.Errorf("NewLinSol must fail with unknown solver")
		return
	}
	assert.Panics(tst, func() { SetLinSol("dense", func() LinSol { return new(DenseLU) }) })

	// 3x3 system with duplicated entries
	//  [ 4 1 0 ]       [ 1 ]
	//  [ 1 3 1 ] x  =  [ 2 ]
	//  [ 0 1 2 ]       [ 3 ]
	K := new(la.Triplet)
	K.Init(3, 3, 8)
	K.Put(0, 0, 2)
	K.Put(0, 0, 2)
	K.Put(0, 1, 1)
	K.Put(1, 0, 1)
	K.Put(1, 1, 3)
	K.Put(1, 2, 1)
	K.Put(2, 1, 1)
	K.Put(2, 2, 2)
	b := []float64{1, 2, 3}
	ls, err := NewLinSol("dense")
	if err != nil {
		tst.Errorf("NewLinSol failed:\n%v", err)
		return
	}
	x := make([]float64, 3)
	err = ls.Solve(x, K, b)
	if err != nil {
		tst.Errorf("Solve failed:\n%v", err)
		return
	}
	chk.Array(tst, "x", 1e-14, x, []float64{2.0 / 9.0, 1.0 / 9.0, 13.0 / 9.0})
	chk.Array(tst, "b (unchanged)", 1e-15, b, []float64{1, 2, 3})

	// singular system
	K.Start()
	K.Put(0, 0, 1)
	K.Put(0, 1, 1)
	K.Put(1, 0, 1)
	K.Put(1, 1, 1)
	K.Put(2, 2, 1)
	err = ls.Solve(x, K, b)
	if !IsNonConvergence(err) {
		tst.Errorf("singular system must give a non-convergence error. err = %v", err)
	}
}

func Test_summary01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary01. save and read")

	dir, err := os.MkdirTemp("", "fluxfem-summary")
	if err != nil {
		tst.Errorf("MkdirTemp failed:\n%v", err)
		return
	}
	defer os.RemoveAll(dir)

	for _, enc := range []string{"gob", "json"} {
		sum := &Summary{Dirout: filepath.Join(dir, "out"), Fnkey: "sum01"}
		sum.Append(0.5, 0.5)
		sum.Append(0.75, 0.25)
		sum.Iters = []int{3, 2}
		sum.Retries = 1
		err = sum.Save(enc, chk.Verbose)
		if err != nil {
			tst.Errorf("Save failed:\n%v", err)
			return
		}
		res, err := ReadSummary(sum.Dirout, sum.Fnkey, enc)
		if err != nil {
			tst.Errorf("ReadSummary failed:\n%v", err)
			return
		}
		chk.Int(tst, "nsteps", res.Nsteps(), 2)
		chk.Array(tst, "times", 1e-15, res.Times, []float64{0.5, 0.75})
		chk.Array(tst, "dts", 1e-15, res.Dts, []float64{0.5, 0.25})
		chk.Ints(tst, "iters", res.Iters, []int{3, 2})
		chk.Int(tst, "retries", res.Retries, 1)
		if res.Graph() == "" {
			tst.Errorf("graph must not be empty")
		}
	}
}
