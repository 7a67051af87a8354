// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_shp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shp01. shape functions and derivatives")

	r := []float64{0.15, 0.2, 0}
	for _, name := range []string{"lin2", "tri3", "qua4"} {
		shape, err := New(name)
		if err != nil {
			tst.Errorf("New failed:\n%v", err)
			return
		}
		io.Pforan("%s\n", name)
		CheckShape(tst, shape, 1e-15, chk.Verbose)
		CheckDSdR(tst, shape, r, 1e-9, chk.Verbose)
	}

	_, err := New("hex8")
	if err == nil {
		tst.Errorf("New must fail with unavailable shape")
	}
}

func Test_shp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shp02. real derivatives, Jacobian and faces")

	// distorted quadrilateral
	x := [][]float64{
		{0, 2, 2.5, 0.2},
		{0, 0.1, 1.5, 1},
	}
	shape, _ := New("qua4")
	ips, ipsf, err := shape.GetIps(0, 0)
	if err != nil {
		tst.Errorf("GetIps failed:\n%v", err)
		return
	}
	chk.Int(tst, "nip", len(ips), 4)
	chk.Int(tst, "nipf", len(ipsf), 2)
	for _, ip := range ips {
		CheckDSdx(tst, shape, x, ip, 1e-8, chk.Verbose)
	}
	CheckShapeFace(tst, shape, x, 1e-15, chk.Verbose)

	// area = sum J w
	area := 0.0
	for _, ip := range ips {
		shape.CalcAtIp(x, ip, true)
		area += shape.J * ip.W()
	}
	correct := 0.5 * ((0*0.1 - 2*0) + (2*1.5 - 2.5*0.1) + (2.5*1 - 0.2*1.5) + (0.2*0 - 0*1))
	chk.Float64(tst, "area", 1e-14, area, correct)

	// triangle
	xt := [][]float64{
		{0, 3, 0},
		{0, 0, 2},
	}
	tri, _ := New("tri3")
	ips, ipsf, _ = tri.GetIps(0, 0)
	chk.Int(tst, "nip", len(ips), 1)
	tri.CalcAtIp(xt, ips[0], true)
	chk.Float64(tst, "A", 1e-15, tri.J*ips[0].W(), 3)
	chk.Deep2(tst, "G", 1e-15, tri.G, [][]float64{{-1.0 / 3.0, -0.5}, {1.0 / 3.0, 0}, {0, 0.5}})
	CheckShapeFace(tst, tri, xt, 1e-15, chk.Verbose)

	// outward normals times Jf; hypotenuse
	err = tri.CalcAtFaceIp(xt, ipsf[0], 1)
	if err != nil {
		tst.Errorf("CalcAtFaceIp failed:\n%v", err)
		return
	}
	chk.Array(tst, "Fnvec", 1e-15, tri.Fnvec, []float64{1, 1.5})

	// line in 3D
	xl := [][]float64{{0, 3}, {0, 4}, {0, 0}}
	lin, _ := New("lin2")
	ips, _, _ = lin.GetIps(0, 0)
	lin.CalcAtIp(xl, ips[0], true)
	chk.Float64(tst, "J", 1e-15, lin.J, 2.5)
	chk.Array(tst, "G0", 1e-15, lin.G[0], []float64{-3.0 / 25.0, -4.0 / 25.0, 0})

	_, _, err = tri.GetIps(7, 0)
	if err == nil {
		tst.Errorf("GetIps must fail with nip = 7")
	}
}
