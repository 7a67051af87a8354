// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Ipoint holds integration point data: natural coordinates and weight {r, s, t, w}
type Ipoint [4]float64

// W returns the weight
func (o Ipoint) W() float64 { return o[3] }

var (
	gp2 = 1.0 / math.Sqrt(3.0)

	// IpsLin1 holds the integration point of lin2 with 1 point
	IpsLin1 = []Ipoint{{0, 0, 0, 2}}

	// IpsLin2 holds the Gauss points of lin2 with 2 points
	IpsLin2 = []Ipoint{{-gp2, 0, 0, 1}, {gp2, 0, 0, 1}}

	// IpsTri1 holds the integration point of tri3 with 1 point
	IpsTri1 = []Ipoint{{1.0 / 3.0, 1.0 / 3.0, 0, 0.5}}

	// IpsTri3 holds the integration points of tri3 with 3 internal points
	IpsTri3 = []Ipoint{
		{1.0 / 6.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{2.0 / 3.0, 1.0 / 6.0, 0, 1.0 / 6.0},
		{1.0 / 6.0, 2.0 / 3.0, 0, 1.0 / 6.0},
	}

	// IpsQua1 holds the integration point of qua4 with 1 point
	IpsQua1 = []Ipoint{{0, 0, 0, 4}}

	// IpsQua4 holds the Gauss points of qua4 with 2×2 points
	IpsQua4 = []Ipoint{
		{-gp2, -gp2, 0, 1},
		{+gp2, -gp2, 0, 1},
		{+gp2, +gp2, 0, 1},
		{-gp2, +gp2, 0, 1},
	}
)

// ipsdb holds the integration points sets of each shape; the first one is the default
var ipsdb = map[string]map[int][]Ipoint{
	"lin2": {0: IpsLin2, 1: IpsLin1, 2: IpsLin2},
	"tri3": {0: IpsTri1, 1: IpsTri1, 3: IpsTri3},
	"qua4": {0: IpsQua4, 1: IpsQua1, 4: IpsQua4},
}

// GetIps returns the integration points of the shape (nip) and of its faces (nipf). nip == 0 or
// nipf == 0 selects the default sets
func (o *Shape) GetIps(nip, nipf int) (ips, ipsf []Ipoint, err error) {
	ips, ok := ipsdb[o.Type][nip]
	if !ok {
		return nil, nil, chk.Err("cannot find integration points set for %q with nip = %d", o.Type, nip)
	}
	if o.FaceType != "" {
		ipsf, ok = ipsdb[o.FaceType][nipf]
		if !ok {
			return nil, nil, chk.Err("cannot find face integration points set for %q with nipf = %d", o.FaceType, nipf)
		}
	}
	return
}
