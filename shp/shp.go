// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/functions for finite elements
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// ShpFunc is the shape functions callback function
//  Input:
//   r      -- natural coordinates
//   derivs -- compute derivatives
//  Output:
//   S    -- [nverts] shape functions
//   dSdR -- [nverts][gndim] derivatives of S w.r.t natural coordinates
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data and scratchpad of one element
type Shape struct {

	// geometry
	Type           string      // name; e.g. "lin2"
	FaceType       string      // geometry of face; e.g. "tri3" => "lin2"
	Gndim          int         // geometry of shape; e.g. "lin2" => gnd == 1 (even in 3D simulations)
	Nverts         int         // number of vertices in cell; e.g. "qua4" => 4
	VtkCode        int         // VTK code
	FaceNvertsMax  int         // max number of vertices on face
	FaceLocalVerts [][]int     // face local vertices [nfaces][nFaceVerts]
	NatCoords      [][]float64 // natural coordinates [gndim][nverts]
	Func           ShpFunc     // shape/derivs function callback function
	FaceFunc       ShpFunc     // face shape/derivs function callback function

	// scratchpad: volume
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][ndim] derivatives of S w.r.t real coordinates
	J    float64     // Jacobian: determinant of dxdr
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [ndim][gndim] derivatives of real coordinates w.r.t natural coordinates

	// scratchpad: face
	Sf     []float64   // [facenverts] shape functions values
	DSfdRf [][]float64 // [facenverts][gndim-1] derivatives of Sf w.r.t natural coordinates
	Fnvec  []float64   // [ndim] face normal vector multiplied by Jf
}

// factory holds allocators of shapes
var factory = map[string]func() *Shape{}

// New returns a new Shape structure of given geometry
func New(geoType string) (o *Shape, err error) {
	allocator, ok := factory[geoType]
	if !ok {
		return nil, chk.Err("cannot find shape type == %q", geoType)
	}
	o = allocator()
	o.S = make([]float64, o.Nverts)
	o.DSdR = make([][]float64, o.Nverts)
	for m := 0; m < o.Nverts; m++ {
		o.DSdR[m] = make([]float64, o.Gndim)
	}
	if o.FaceType != "" {
		nf := o.FaceNvertsMax
		o.Sf = make([]float64, nf)
		o.DSfdRf = make([][]float64, nf)
		for m := 0; m < nf; m++ {
			o.DSfdRf[m] = make([]float64, o.Gndim-1)
		}
	}
	return
}

// Nfaces returns the number of faces
func (o *Shape) Nfaces() int { return len(o.FaceLocalVerts) }

// CalcAtIp calculates volume data such as S and G at natural coordinate r
//  Input:
//   x[ndim][nverts] -- coordinates matrix of solid element
//   ip              -- integration point
//  Output:
//   S, DSdR, DxdR, J, and G (if derivs==true)
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, ip[:], derivs)
	if !derivs {
		return
	}

	// allocate
	ndim := len(x)
	if len(o.G) != o.Nverts || len(o.G[0]) != ndim {
		o.G = make([][]float64, o.Nverts)
		for m := 0; m < o.Nverts; m++ {
			o.G[m] = make([]float64, ndim)
		}
		o.DxdR = make([][]float64, ndim)
		for i := 0; i < ndim; i++ {
			o.DxdR[i] = make([]float64, o.Gndim)
		}
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j = sum_n x^n_i * dS^n/dR_j
	for i := 0; i < ndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0.0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// lines: J = |dxdR|; G is the gradient along the line
	if o.Gndim == 1 {
		var l2 float64
		for i := 0; i < ndim; i++ {
			l2 += o.DxdR[i][0] * o.DxdR[i][0]
		}
		o.J = math.Sqrt(l2)
		if o.J < MinDetJ {
			return chk.Err("length of line element is too small: J = %g", o.J)
		}
		for m := 0; m < o.Nverts; m++ {
			for i := 0; i < ndim; i++ {
				o.G[m][i] = o.DSdR[m][0] * o.DxdR[i][0] / l2
			}
		}
		return
	}

	// solids: dRdx := inv(dxdR)
	if ndim != o.Gndim {
		return chk.Err("shape %q cannot be used in %dD", o.Type, ndim)
	}
	dxdR := mat.NewDense(ndim, ndim, nil)
	for i := 0; i < ndim; i++ {
		for j := 0; j < ndim; j++ {
			dxdR.Set(i, j, o.DxdR[i][j])
		}
	}
	o.J = mat.Det(dxdR)
	if o.J < MinDetJ {
		return chk.Err("Jacobian determinant is too small or negative: J = %g", o.J)
	}
	var dRdx mat.Dense
	err = dRdx.Inverse(dxdR)
	if err != nil {
		return chk.Err("cannot invert dxdR:\n%v", err)
	}

	// G == dSdx := dSdR * dRdx  =>  dS^m/dR_i := sum_i dS^m/dR_i * dR_i/dx_j
	for m := 0; m < o.Nverts; m++ {
		for j := 0; j < ndim; j++ {
			o.G[m][j] = 0
			for i := 0; i < ndim; i++ {
				o.G[m][j] += o.DSdR[m][i] * dRdx.At(i, j)
			}
		}
	}
	return
}

// CalcAtFaceIp calculates face data such as Sf and Fnvec
//  Input:
//   x[ndim][nverts] -- coordinates matrix of solid element
//   ipf             -- local/natural coordinates of face
//   idxface         -- local index of face
//  Output:
//   Sf and Fnvec
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, idxface int) (err error) {

	// only 2D faces (edges)
	ndim := len(x)
	if ndim != 2 || o.Gndim != 2 {
		return chk.Err("face quantities are only available for 2D solids. %q in %dD is invalid", o.Type, ndim)
	}

	// Sf and dSfdR
	o.FaceFunc(o.Sf, o.DSfdRf, ipf[:], true)

	// dxfdrf := sum_n x * dSfdrf
	dxfdrf := []float64{0, 0}
	for i := 0; i < ndim; i++ {
		for k, n := range o.FaceLocalVerts[idxface] {
			dxfdrf[i] += x[i][n] * o.DSfdRf[k][0]
		}
	}

	// face normal vector; outward for counter-clockwise cells
	o.Fnvec = []float64{dxfdrf[1], -dxfdrf[0]}
	return
}

// IpRealCoords returns the real coordinates (y) of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.Func(o.S, o.DSdR, ip[:], false)
	for i := 0; i < ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// FaceIpRealCoords returns the real coordinates of an integration point on face
func (o *Shape) FaceIpRealCoords(x [][]float64, ipf Ipoint, idxface int) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.FaceFunc(o.Sf, o.DSfdRf, ipf[:], false)
	for i := 0; i < ndim; i++ {
		for k, n := range o.FaceLocalVerts[idxface] {
			y[i] += o.Sf[k] * x[i][n]
		}
	}
	return
}

// MinDetJ is the minimum determinant allowed for dxdR
var MinDetJ = 1e-14
