// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {
	factory["lin2"] = func() *Shape {
		return &Shape{
			Type:      "lin2",
			Gndim:     1,
			Nverts:    2,
			VtkCode:   3,
			NatCoords: [][]float64{{-1, 1}},
			Func:      FuncLin2,
		}
	}
	factory["tri3"] = func() *Shape {
		return &Shape{
			Type:           "tri3",
			FaceType:       "lin2",
			Gndim:          2,
			Nverts:         3,
			VtkCode:        5,
			FaceNvertsMax:  2,
			FaceLocalVerts: [][]int{{0, 1}, {1, 2}, {2, 0}},
			NatCoords:      [][]float64{{0, 1, 0}, {0, 0, 1}},
			Func:           FuncTri3,
			FaceFunc:       FuncLin2,
		}
	}
	factory["qua4"] = func() *Shape {
		return &Shape{
			Type:           "qua4",
			FaceType:       "lin2",
			Gndim:          2,
			Nverts:         4,
			VtkCode:        9,
			FaceNvertsMax:  2,
			FaceLocalVerts: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
			NatCoords:      [][]float64{{-1, 1, 1, -1}, {-1, -1, 1, 1}},
			Func:           FuncQua4,
			FaceFunc:       FuncLin2,
		}
	}
}

// FuncLin2 calculates the shape functions (S) and derivatives of shape functions (dSdR) of lin2
// elements
//
//   -1     0    +1
//    0-----------1-->r
//
func FuncLin2(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = 0.5 * (1.0 - r[0])
	S[1] = 0.5 * (1.0 + r[0])
	if !derivs {
		return
	}
	dSdR[0][0] = -0.5
	dSdR[1][0] = 0.5
}

// FuncTri3 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tri3
// elements
//
//    s
//    |
//    2, (0,1)
//    | ',
//    |   ',
//    |     ',
//    |       ',
//    0-----------1-->r
//  (0,0)       (1,0)
//
func FuncTri3(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = 1.0 - r[0] - r[1]
	S[1] = r[0]
	S[2] = r[1]
	if !derivs {
		return
	}
	dSdR[0][0], dSdR[0][1] = -1.0, -1.0
	dSdR[1][0], dSdR[1][1] = 1.0, 0.0
	dSdR[2][0], dSdR[2][1] = 0.0, 1.0
}

// FuncQua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements
//
//    3-----------2
//    |     s     |
//    |     |     |
//    |     +--r  |
//    |           |
//    |           |
//    0-----------1
//
func FuncQua4(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	ri := [4]float64{-1, 1, 1, -1}
	si := [4]float64{-1, -1, 1, 1}
	for m := 0; m < 4; m++ {
		S[m] = (1.0 + ri[m]*r[0]) * (1.0 + si[m]*r[1]) / 4.0
		if derivs {
			dSdR[m][0] = ri[m] * (1.0 + si[m]*r[1]) / 4.0
			dSdR[m][1] = si[m] * (1.0 + ri[m]*r[0]) / 4.0
		}
	}
}
