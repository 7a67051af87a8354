// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Info holds all information required to allocate the dofs of an element
type Info struct {
	Dofs [][]string // solution variables PER NODE. ex for 2 nodes: [["ux", "uy", "rz"], ["ux", "uy", "rz"]]
}

// NewInfo returns information with the same keys at all nverts nodes
func NewInfo(nverts int, keys ...string) *Info {
	var info Info
	info.Dofs = make([][]string, nverts)
	for m := 0; m < nverts; m++ {
		info.Dofs[m] = keys
	}
	return &info
}
