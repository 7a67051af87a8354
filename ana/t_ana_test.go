// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_sections01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sections01. typical cross-sections")

	rect, err := NewCrossSection("rectangle", 4, 6, 0, 0, 0)
	if err != nil {
		tst.Errorf("NewCrossSection failed:\n%v", err)
		return
	}
	chk.Float64(tst, "rect: A  ", 1e-17, rect.A, 24.0)
	chk.Float64(tst, "rect: I22", 1e-17, rect.I22, 72.0)
	chk.Float64(tst, "rect: I11", 1e-17, rect.I11, 32.0)
	chk.Float64(tst, "rect: Jtt", 1e-11, rect.Jtt, 75.1249382716)

	rect, _ = NewCrossSection("rectangle", 4, 4, 0, 0, 0)
	chk.Float64(tst, "square: A  ", 1e-17, rect.A, 16.0)
	chk.Float64(tst, "square: I22", 1e-13, rect.I22, 21.3333333333333)
	chk.Float64(tst, "square: I11", 1e-13, rect.I11, 21.3333333333333)
	chk.Float64(tst, "square: Jtt", 1e-17, rect.Jtt, 36.0)

	ibeam, err := NewCrossSection("I-beam", 4, 6, 0.5, 0.3, 0)
	if err != nil {
		tst.Errorf("NewCrossSection failed:\n%v", err)
		return
	}
	chk.Float64(tst, "I-beam: A  ", 1e-15, ibeam.A, 5.5)
	chk.Float64(tst, "I-beam: I22", 1e-10, ibeam.I22, 33.4583333333)
	chk.Float64(tst, "I-beam: I11", 1e-10, ibeam.I11, 5.3445833333)
	chk.Float64(tst, "I-beam: Jtt", 1e-10, ibeam.Jtt, 0.3783333333)

	circle, _ := NewCrossSection("circle", 0, 0, 0, 0, 1)
	chk.Float64(tst, "circle: A  ", 1e-15, circle.A, math.Pi)
	chk.Float64(tst, "circle: I22", 1e-10, circle.I22, 0.7853981634)
	chk.Float64(tst, "circle: I11", 1e-10, circle.I11, 0.7853981634)
	chk.Float64(tst, "circle: Jtt", 1e-10, circle.Jtt, 1.5707963268)

	for _, c := range []struct {
		typ                   string
		wid, hei, tf, tw, rad float64
	}{
		{"rectangle", 0, 1, 0, 0, 0},
		{"I-beam", 4, 1, 0.5, 0.3, 0},
		{"circle", 0, 0, 0, 0, -1},
		{"hexagon", 1, 1, 0, 0, 0},
	} {
		_, err = NewCrossSection(c.typ, c.wid, c.hei, c.tf, c.tw, c.rad)
		assert.Errorf(tst, err, "%s must fail", c.typ)
	}
}

func Test_materials01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("materials01. reference materials and beam parameters")

	steel, err := NewRefMaterial("steel", "kPa")
	if err != nil {
		tst.Errorf("NewRefMaterial failed:\n%v", err)
		return
	}
	chk.Float64(tst, "E  ", 1e-8, steel.E, 2e8)
	chk.Float64(tst, "G  ", 1e-6, steel.G, 2e8/2.64)
	chk.Float64(tst, "rho", 1e-14, steel.Rho, 7.85)
	assert.Equal(tst, "Mg/m³", steel.UnitDens)

	_, err = NewRefMaterial("steel", "psi")
	assert.Error(tst, err)
	_, err = NewRefMaterial("glass", "MPa")
	assert.Error(tst, err)

	// material record is accepted by the beam model
	sec, _ := NewCrossSection("rectangle", 0.1, 0.1, 0, 0, 0)
	mat := BeamMaterial("steel", steel, sec)
	db, err := inp.NewMatDb(inp.MatsData{mat})
	if err != nil {
		tst.Errorf("NewMatDb failed:\n%v", err)
		return
	}
	chk.Strings(tst, "prms", names(db.Get("steel").Mdl.GetPrms(false)), []string{"E", "G", "A", "I22", "I11", "Jtt", "rho"})

	// yaml
	s, err := MaterialYAML(mat)
	if err != nil {
		tst.Errorf("MaterialYAML failed:\n%v", err)
		return
	}
	io.Pforan("%s", s)
	var mats inp.MatsData
	err = yaml.Unmarshal([]byte(s), &mats)
	if err != nil {
		tst.Errorf("Unmarshal failed:\n%v", err)
		return
	}
	chk.Int(tst, "nmats", len(mats), 1)
	assert.Equal(tst, "oned-elast", mats[0].Model)
	chk.Float64(tst, "I22", 1e-17, mats[0].Prms[3].V, sec.I22)
}

func Test_solutions01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("solutions01. cantilever and adiabatic rise")

	c := CantileverUniform{Q: 3, L: 2, EI: 2000}
	chk.Float64(tst, "w(0)", 1e-17, c.Deflection(0), 0)
	chk.Float64(tst, "w(L)", 1e-15, c.Deflection(2), 3*16/(8*2000.0))
	chk.Float64(tst, "θ(L)", 1e-15, c.Rotation(2), 3*8/(6*2000.0))
	chk.Float64(tst, "M(0)", 1e-15, c.Moment(0), 6)
	chk.Float64(tst, "M(L)", 1e-15, c.Moment(2), 0)

	// derivative of deflection equals rotation
	for _, x := range []float64{0.3, 1.1, 1.7} {
		h := 1e-6
		dw := (c.Deflection(x+h) - c.Deflection(x-h)) / (2 * h)
		chk.Float64(tst, io.Sf("dw/dx(%g)", x), 1e-8, dw, c.Rotation(x))
	}

	chk.Float64(tst, "ΔT", 1e-12, AdiabaticRise(500, 350, 2300, 900, 0.5), 500e3*350*0.5/(2300*900))
}

// names returns the names of parameters
func names(prms dbf.Params) (res []string) {
	for _, p := range prms {
		res = append(res, p.N)
	}
	return
}
