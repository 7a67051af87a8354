// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/fun/dbf"

// FaceCond holds information of one single face boundary condition. Example:
//
//   36    -12     35   -12 => "qn"
//    (3)--------(2)
//     |    2     |     face id => conditions
//     |          |           0 => <nil>
//     |3        1| -11       1 => {"vx"} => localVerts={1,2} => globalVerts={34,35}
//     |          |           2 => {"qn"} => localVerts={2,3} => globalVerts={35,36}
//     |    0     |           3 => <nil>
//    (0)--------(1)
//   33            34
//
type FaceCond struct {
	FaceId      int    // msh: cell's face local id
	LocalVerts  []int  // msh: cell's face local vertices ids
	GlobalVerts []int  // msh: global vertices ids
	Cond        string // sim: condition; e.g. "qn" or "vx"
	Func        dbf.T  // sim: function to compute boundary condition
	Extra       string // sim: extra information
}

// FaceConds hold many face boundary conditions
type FaceConds []*FaceCond

// GetVerts gets all local vertices with any of the given conditions
func (o FaceConds) GetVerts(conds ...string) (verts []int) {
	for _, fc := range o {
		for _, cond := range conds {
			if fc.Cond == cond {
				for _, lv := range fc.LocalVerts {
					verts = appendUnique(verts, lv)
				}
			}
		}
	}
	return
}
