// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

// GetLabel returns the axis label of key with unit. Unknown keys are returned as they are
func GetLabel(key, unit string) string {
	l := key
	switch key {
	case "t", "time":
		l = "time"
	case "vx":
		l = "vx (velocity)"
	case "vy":
		l = "vy (velocity)"
	case "p":
		l = "p (pressure)"
	case "nu":
		l = "ν (kinematic viscosity)"
	case "T":
		l = "T (temperature)"
	case "doh":
		l = "degree of hydration"
	case "power":
		l = "heat power"
	case "equivtime":
		l = "equivalent time"
	case "k":
		l = "conductivity"
	case "damage":
		l = "damage"
	case "tn":
		l = "normal traction"
	case "tt":
		l = "tangential traction"
	case "jn":
		l = "normal opening"
	case "jt":
		l = "sliding"
	case "M22":
		l = "M22 (bending moment)"
	case "M11":
		l = "M11 (bending moment)"
	case "T00":
		l = "T00 (torsion)"
	case "dist":
		l = "distance"
	}
	if unit != "" {
		l += " [" + unit + "]"
	}
	return l
}
