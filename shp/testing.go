// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r, false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckShapeFace checks that face vertices match cell vertices
func CheckShapeFace(tst *testing.T, shape *Shape, x [][]float64, tol float64, verbose bool) {
	for k, fverts := range shape.FaceLocalVerts {
		for i := range fverts {
			ipf := Ipoint{-1, 0, 0, 0}
			if i == 1 {
				ipf[0] = 1
			}
			y := shape.FaceIpRealCoords(x, ipf, k)
			if verbose {
				io.Pforan("face %d, vertex %d: y = %v\n", k, fverts[i], y)
			}
			for j := range y {
				if math.Abs(y[j]-x[j][fverts[i]]) > tol {
					tst.Errorf("%s: face %d vertex %d has wrong coordinates. %v != %v", shape.Type, k, fverts[i], y[j], x[j][fverts[i]])
					return
				}
			}
		}
	}
}

// CheckDSdR checks dSdR derivatives of shape structures by finite differences
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// analytical
	shape.Func(shape.S, shape.DSdR, r, true)

	// numerical
	n := shape.Gndim
	num := mat.NewDense(shape.Nverts, n, nil)
	S := make([]float64, shape.Nverts)
	rr := make([]float64, 3)
	fd.Jacobian(num, func(f, x []float64) {
		copy(rr, x)
		shape.Func(S, nil, rr, false)
		copy(f, S)
	}, r[:n], &fd.JacobianSettings{Formula: fd.Central})

	// compare
	for m := 0; m < shape.Nverts; m++ {
		for i := 0; i < n; i++ {
			if verbose {
				io.Pforan("dS%d/dR%d: ana = %v  num = %v\n", m, i, shape.DSdR[m][i], num.At(m, i))
			}
			chk.Float64(tst, io.Sf("dS%d/dR%d", m, i), tol, shape.DSdR[m][i], num.At(m, i))
		}
	}
}

// CheckDSdx checks G=dSdx derivatives of shape structures by finite differences of S with
// respect to the real coordinates of the integration point
func CheckDSdx(tst *testing.T, shape *Shape, x [][]float64, ip Ipoint, tol float64, verbose bool) {

	// analytical
	err := shape.CalcAtIp(x, ip, true)
	if err != nil {
		tst.Errorf("CalcAtIp failed:\n%v", err)
		return
	}
	ndim := len(x)
	G := make([][]float64, shape.Nverts)
	for m := range G {
		G[m] = append([]float64{}, shape.G[m]...)
	}

	// numerical
	y := shape.IpRealCoords(x, ip)
	S := make([]float64, shape.Nverts)
	for i := 0; i < ndim; i++ {
		for m := 0; m < shape.Nverts; m++ {
			dSdxi := fd.Derivative(func(δ float64) float64 {
				yy := append([]float64{}, y...)
				yy[i] += δ
				r, e := shape.invMap(x, yy)
				if e != nil {
					return math.NaN()
				}
				shape.Func(S, nil, r, false)
				return S[m]
			}, 0, &fd.Settings{Formula: fd.Central})
			if verbose {
				io.Pforan("dS%d/dx%d: ana = %v  num = %v\n", m, i, G[m][i], dSdxi)
			}
			chk.Float64(tst, io.Sf("dS%d/dx%d", m, i), tol, G[m][i], dSdxi)
		}
	}
}

// invMap finds natural coordinates r corresponding to y with Newton's method
func (o *Shape) invMap(x [][]float64, y []float64) (r []float64, err error) {
	ndim := len(x)
	r = make([]float64, 3)
	ip := Ipoint{}
	for it := 0; it < 20; it++ {
		copy(ip[:], r)
		yc := o.IpRealCoords(x, ip)
		err = o.CalcAtIp(x, ip, true)
		if err != nil {
			return
		}
		J := mat.NewDense(ndim, ndim, nil)
		res := mat.NewVecDense(ndim, nil)
		var nrm float64
		for i := 0; i < ndim; i++ {
			res.SetVec(i, y[i]-yc[i])
			nrm += math.Abs(y[i] - yc[i])
			for j := 0; j < ndim; j++ {
				J.Set(i, j, o.DxdR[i][j])
			}
		}
		if nrm < 1e-14 {
			return
		}
		var δr mat.VecDense
		err = δr.SolveVec(J, res)
		if err != nil {
			return
		}
		for i := 0; i < ndim; i++ {
			r[i] += δr.AtVec(i)
		}
	}
	return r, chk.Err("inverse mapping did not converge")
}
