// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"runtime"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"golang.org/x/sync/errgroup"
)

// AssembleVector adds the local vectors computed by asm into the global vector fb. Rows with
// equation number 0 (dofs not in scheme s) are skipped. Local vectors are computed concurrently by
// up to workers goroutines; the scatter-add runs in element order so the result does not depend on
// the number of workers
func AssembleVector(fb []float64, elems []ele.Element, asm ele.VectorAssembler, sol *ele.Solution, s dof.Numbering, workers int) (err error) {
	locs := make([][]int, len(elems))
	vecs := make([][]float64, len(elems))
	err = evaluate(len(elems), workers, func(i int) (e error) {
		locs[i] = asm.LocationFromElement(elems[i], s)
		vecs[i], e = asm.VectorFromElement(elems[i], sol)
		if e != nil {
			return
		}
		if len(vecs[i]) != len(locs[i]) {
			return chk.Err("element %d: size of local vector (%d) differs from size of location array (%d)", elems[i].Id(), len(vecs[i]), len(locs[i]))
		}
		return
	})
	if err != nil {
		return
	}
	for i, loc := range locs {
		for m, eq := range loc {
			if eq < 1 {
				continue
			}
			if eq > len(fb) {
				return chk.Err("element %d: equation %d is out of range [1, %d]", elems[i].Id(), eq, len(fb))
			}
			fb[eq-1] += vecs[i][m]
		}
	}
	return
}

// AssembleMatrix puts the local matrices computed by asm into the global matrix K. Duplicated
// entries are added by the triplet. K must have been started by the caller
func AssembleMatrix(K *la.Triplet, elems []ele.Element, asm ele.MatrixAssembler, sol *ele.Solution, s dof.Numbering, workers int) (err error) {
	locs := make([][]int, len(elems))
	mats := make([][][]float64, len(elems))
	err = evaluate(len(elems), workers, func(i int) (e error) {
		locs[i] = asm.LocationFromElement(elems[i], s)
		mats[i], e = asm.MatrixFromElement(elems[i], sol)
		if e != nil {
			return
		}
		if len(mats[i]) != len(locs[i]) {
			return chk.Err("element %d: size of local matrix (%d) differs from size of location array (%d)", elems[i].Id(), len(mats[i]), len(locs[i]))
		}
		return
	})
	if err != nil {
		return
	}
	n := s.RequiredNumberOfEquations()
	for i, loc := range locs {
		for m, I := range loc {
			if I < 1 {
				continue
			}
			if I > n {
				return chk.Err("element %d: equation %d is out of range [1, %d]", elems[i].Id(), I, n)
			}
			for l, J := range loc {
				if J < 1 {
					continue
				}
				K.Put(I-1, J-1, mats[i][m][l])
			}
		}
	}
	return
}

// NnzEstimate returns the number of non-zero entries of a matrix assembled with elements in s
func NnzEstimate(elems []ele.Element, s dof.Numbering) (nnz int) {
	for _, e := range elems {
		n := 0
		for _, eq := range ele.Location(e, s) {
			if eq > 0 {
				n++
			}
		}
		nnz += n * n
	}
	return
}

// evaluate runs fcn(i) for i in [0, n) using up to workers goroutines; workers = 0 => number of CPUs
func evaluate(n, workers int, fcn func(i int) error) error {
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			if err := fcn(i); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fcn(i) })
	}
	return g.Wait()
}
