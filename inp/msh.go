// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/fluxfem/fluxfem/shp"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `yaml:"id" json:"id"`   // id
	Tag int       `yaml:"tag" json:"tag"` // tag
	C   []float64 `yaml:"c" json:"c"`     // coordinates (size==2 or 3)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id       int       `yaml:"id" json:"id"`             // id
	Tag      int       `yaml:"tag" json:"tag"`           // tag
	Type     string    `yaml:"type" json:"type"`         // geometry type; e.g. "tri3", "qua4", "lin2", "lin3", "joint4"
	Verts    []int     `yaml:"verts" json:"verts"`       // vertices
	FTags    []int     `yaml:"ftags" json:"ftags"`       // edge (2D) tags
	Location []int     `yaml:"location" json:"location"` // location codes (1..26) of vertices in periodic cells; 0 => inside
	RefPoint []float64 `yaml:"refpoint" json:"refpoint"` // reference point defining the local e2 axis of beams

	// derived
	FaceBcs FaceConds `yaml:"-" json:"-"` // face boundary conditions
}

// CellFaceId structure
type CellFaceId struct {
	C   *Cell // cell
	Fid int   // face id
}

// Mesh holds a mesh for FE analyses
type Mesh struct {

	// input
	Verts []*Vert `yaml:"verts" json:"verts"` // vertices
	Cells []*Cell `yaml:"cells" json:"cells"` // cells

	// derived
	Ndim       int     `yaml:"-" json:"-"` // space dimension
	Xmin, Xmax float64 `yaml:"-" json:"-"` // min and max x-coordinate
	Ymin, Ymax float64 `yaml:"-" json:"-"` // min and max y-coordinate
	Zmin, Zmax float64 `yaml:"-" json:"-"` // min and max z-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert      `yaml:"-" json:"-"` // vertex tag => set of vertices
	CellTag2cells map[int][]*Cell      `yaml:"-" json:"-"` // cell tag => set of cells
	FaceTag2cells map[int][]CellFaceId `yaml:"-" json:"-"` // face tag => set of cells
	FaceTag2verts map[int][]int        `yaml:"-" json:"-"` // face tag => vertices on tagged face
}

// Init checks records and computes derived data
func (o *Mesh) Init() (err error) {

	// check
	if len(o.Verts) < 2 {
		return invalid("mesh", "verts", "must have at least 2 vertices")
	}
	if len(o.Cells) < 1 {
		return invalid("mesh", "cells", "must have at least 1 cell")
	}

	// vertex related derived data
	o.Ndim = len(o.Verts[0].C)
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {
		rec := io.Sf("mesh.verts[%d]", i)
		if v.Id != i {
			return invalid(rec, "id", "must be equal to %d (sequential). id = %d", i, v.Id)
		}
		if len(v.C) != o.Ndim || o.Ndim < 2 || o.Ndim > 3 {
			return invalid(rec, "c", "must have 2 or 3 coordinates, as all other vertices. c = %v", v.C)
		}
		if v.Tag < 0 {
			o.VertTag2verts[v.Tag] = append(o.VertTag2verts[v.Tag], v)
		}
		if i == 0 {
			o.Xmin, o.Xmax = v.C[0], v.C[0]
			o.Ymin, o.Ymax = v.C[1], v.C[1]
			if o.Ndim == 3 {
				o.Zmin, o.Zmax = v.C[2], v.C[2]
			}
		}
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
		if o.Ndim == 3 {
			o.Zmin = utl.Min(o.Zmin, v.C[2])
			o.Zmax = utl.Max(o.Zmax, v.C[2])
		}
	}

	// cells
	o.CellTag2cells = make(map[int][]*Cell)
	o.FaceTag2cells = make(map[int][]CellFaceId)
	o.FaceTag2verts = make(map[int][]int)
	for i, c := range o.Cells {
		rec := io.Sf("mesh.cells[%d]", i)
		if c.Id != i {
			return invalid(rec, "id", "must be equal to %d (sequential). id = %d", i, c.Id)
		}
		if c.Tag >= 0 {
			return invalid(rec, "tag", "must be negative. tag = %d", c.Tag)
		}
		if c.Type == "" {
			return missing(rec, "type")
		}
		if len(c.Verts) < 2 {
			return invalid(rec, "verts", "must have at least 2 vertices")
		}
		for _, v := range c.Verts {
			if v < 0 || v >= len(o.Verts) {
				return invalid(rec, "verts", "has vertex %d out of range", v)
			}
		}
		if len(c.Location) > 0 && len(c.Location) != len(c.Verts) {
			return invalid(rec, "location", "must have one code per vertex. %d != %d", len(c.Location), len(c.Verts))
		}
		for _, code := range c.Location {
			if code < 0 || code > 26 {
				return invalid(rec, "location", "codes must be in [0, 26]. code = %d", code)
			}
		}
		o.CellTag2cells[c.Tag] = append(o.CellTag2cells[c.Tag], c)

		// face tags
		if len(c.FTags) == 0 {
			continue
		}
		shape, e := shp.New(c.Type)
		if e != nil || len(c.FTags) != shape.Nfaces() {
			return invalid(rec, "ftags", "must have one tag per face of a cell with known geometry")
		}
		for k, ftag := range c.FTags {
			if ftag < 0 {
				o.FaceTag2cells[ftag] = append(o.FaceTag2cells[ftag], CellFaceId{c, k})
				for _, l := range shape.FaceLocalVerts[k] {
					o.FaceTag2verts[ftag] = appendUnique(o.FaceTag2verts[ftag], c.Verts[l])
				}
			}
		}
	}
	return
}

// Coords returns the coordinates matrix [ndim][nverts] of a cell
func (o *Mesh) Coords(c *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for j, v := range c.Verts {
			x[i][j] = o.Verts[v].C[i]
		}
	}
	return
}

// appendUnique appends v to s if not present yet
func appendUnique(s []int, v int) []int {
	for _, w := range s {
		if w == v {
			return s
		}
	}
	return append(s, v)
}
