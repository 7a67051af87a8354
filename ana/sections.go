// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions and reference data for beams and hydrating concrete
package ana

import (
	"math"

	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"gopkg.in/yaml.v3"
)

// CrossSection computes cross-sectional moments of inertia and other properties
//
//   typ : rectangle
//         circle                             tw
//         I-beam                         -->| |<--
//                                    ___    | |     ___
//   ^ 1       +-------+            tf |   ########   |
//   |         |       |              ---  ########   |
//   |         |       |                      ##      |
//   +----> 2  |       | h = hei              ##      | h = hei
//             |       |                      ##      |
//             |       |              ---  ########   |
//             +-------+            tf_|_  ########  ---
//              b = wid                    b = wid
//
type CrossSection struct {

	// input
	Type string  // "rectangle", "I-beam" or "circle"
	Wid  float64 // width (b) if not circular
	Hei  float64 // height (h) if not circular
	Tf   float64 // flange thickness if I-beam
	Tw   float64 // web thickness if I-beam
	R    float64 // radius if circular

	// derived
	A   float64 // cross-sectional area
	I22 float64 // major cross-section moment of inertia (about r-axis)
	I11 float64 // minor cross-section moment of inertia (about s-axis)
	Jtt float64 // torsional constant
}

// NewCrossSection returns a cross-section with computed properties
func NewCrossSection(typ string, wid, hei, tf, tw, rad float64) (o *CrossSection, err error) {
	o = &CrossSection{Type: typ, Wid: wid, Hei: hei, Tf: tf, Tw: tw, R: rad}
	switch typ {
	case "rectangle":
		if wid <= 0 || hei <= 0 {
			return nil, chk.Err("rectangle: width and height must be positive. b=%g, h=%g", wid, hei)
		}
		b, h := wid, hei
		b3 := b * b * b
		h3 := h * h * h
		o.A = b * h
		o.I22 = b * h3 / 12.0
		o.I11 = b3 * h / 12.0
		if b == h {
			o.Jtt = 9.0 * b3 * b / 64.0
		} else {
			if b > h {
				b, h = h, b
			}
			o.Jtt = h * b3 * (1.0/3.0 - 0.21*(b/h)*(1.0-b*b3/(12.0*h*h3))) // approximate
		}

	case "I-beam":
		if wid <= 0 || hei <= 2*tf || tf <= 0 || tw <= 0 || tw > wid {
			return nil, chk.Err("I-beam: dimensions are inconsistent. b=%g, h=%g, tf=%g, tw=%g", wid, hei, tf, tw)
		}
		b, h := wid, hei
		b3 := b * b * b
		h3 := h * h * h
		tf3 := tf * tf * tf
		tw3 := tw * tw * tw
		l := h - 2.0*tf
		l3 := l * l * l
		o.A = b*h - l*(b-tw)
		o.I22 = b*h3/12.0 - (b-tw)*l3/12.0
		o.I11 = l*tw3/12.0 + tf*b3/6.0
		o.Jtt = (2.0*b*tf3 + (h-2.0*tf)*tw3) / 3.0

	case "circle":
		if rad <= 0 {
			return nil, chk.Err("circle: radius must be positive. r=%g", rad)
		}
		r2 := rad * rad
		o.A = math.Pi * r2
		o.I22 = math.Pi * r2 * r2 / 4.0
		o.I11 = o.I22
		o.Jtt = o.I22 + o.I11

	default:
		return nil, chk.Err("cross-section type %q is unavailable", typ)
	}
	return
}

// RefMaterial holds parameters of some reference materials
type RefMaterial struct {

	// input
	Type     string // type of material; e.g. "steel"
	UnitPres string // unit of pressure

	// derived
	UnitDens string  // unit of density
	Desc     string  // description
	E        float64 // Young's modulus
	Nu       float64 // Poisson's coefficient
	G        float64 // shear modulus
	Rho      float64 // density
}

// refMaterials holds E [MPa], ν and ρ [Gg/m³] of reference materials
var refMaterials = map[string]struct {
	desc       string
	E, Nu, Rho float64
}{
	"steel":            {"Steel: structural A36", 200000.0, 0.32, 7.85e-3},
	"aluminum":         {"Aluminum: 2014-T6", 73100.0, 0.35, 2.79e-3},
	"concrete-low":     {"Concrete: low strength", 22100.0, 0.15, 2.38e-3},
	"concrete-high":    {"Concrete: high strength", 30000.0, 0.15, 2.38e-3},
	"wood-douglas-fir": {"Wood: Douglas-fir", 13100.0, 0.29, 4.70e-4},
}

// NewRefMaterial returns the parameters of a reference material
//  Input:
//   unitPres:  "kPa" => E:[kPa], rho:[Mg/m³]
//              "MPa" => E:[MPa], rho:[Gg/m³]
//              "GPa" => E:[GPa], rho:[Tg/m³]
func NewRefMaterial(typ, unitPres string) (o *RefMaterial, err error) {
	ref, ok := refMaterials[typ]
	if !ok {
		return nil, chk.Err("material type %q is unavailable", typ)
	}
	o = &RefMaterial{Type: typ, UnitPres: unitPres, Desc: ref.desc, Nu: ref.Nu}
	scaleE, scaleRho := 1.0, 1.0
	switch unitPres {
	case "kPa":
		o.UnitDens = "Mg/m³"
		scaleE, scaleRho = 1e3, 1e3
	case "MPa":
		o.UnitDens = "Gg/m³"
	case "GPa":
		o.UnitDens = "Tg/m³"
		scaleE, scaleRho = 1e-3, 1e-3
	default:
		return nil, chk.Err("unit of pressure %q is invalid", unitPres)
	}
	o.E = ref.E * scaleE
	o.Rho = ref.Rho * scaleRho
	o.G = o.E / (2.0 * (1.0 + o.Nu))
	return
}

// BeamMaterial returns the "oned-elast" material record of a beam made of mat with section sec
func BeamMaterial(name string, mat *RefMaterial, sec *CrossSection) *inp.Material {
	return &inp.Material{
		Name:  name,
		Model: "oned-elast",
		Extra: mat.Desc + "; " + sec.Type,
		Prms: inp.PrmsData{
			{N: "E", V: mat.E},
			{N: "G", V: mat.G},
			{N: "A", V: sec.A},
			{N: "I22", V: sec.I22},
			{N: "I11", V: sec.I11},
			{N: "Jtt", V: sec.Jtt},
			{N: "rho", V: mat.Rho},
		},
	}
}

// MaterialYAML returns the yaml representation of a material record, ready to be pasted in the
// "materials" list of a simulation file
func MaterialYAML(mat *inp.Material) (string, error) {
	b, err := yaml.Marshal(inp.MatsData{mat})
	if err != nil {
		return "", chk.Err("cannot marshal material %q:\n%v", mat.Name, err)
	}
	return string(b), nil
}
