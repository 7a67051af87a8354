// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cohesive

import (
	"math"

	"github.com/fluxfem/fluxfem/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

// BilinearCZ implements a bilinear cohesive zone model with a yield (loading) function
// coupling normal and tangential tractions and damage driven by the inelastic traction drop.
//
//  Loading function with s = (1-D)・σf, σ = T_n and τ = |T_t|:
//
//   F = τ²/(γ²・s) + (γ-2μ)・<σ>²/(γ・s) + 2μ・σ/γ - s
//
//  Mixed-mode critical opening: δc = 2・Gc/σf with Gc = (1-β)・G_Ic + β・G_IIc and β = τ²/(τ²+σ²)
type BilinearCZ struct {

	// parameters
	Kn           float64 // penalty stiffness
	GIc          float64 // fracture energy, mode I
	GIIc         float64 // fracture energy, mode II
	SigF         float64 // maximum (peak) stress
	Mu           float64 // loading function parameter
	Gamma        float64 // loading function parameter
	SemiExplicit bool    // use Δλ from last converged step instead of iterating

	// return mapping
	MaxIt int     // max number of iterations
	Tol   float64 // tolerance on F / s
}

// add model to factory
func init() {
	mdl.SetAllocator("intmatbilinearcz", func() mdl.Model { return new(BilinearCZ) })
}

// Init initialises model
func (o *BilinearCZ) Init(prms dbf.Params) (err error) {
	err = mdl.Require("intmatbilinearcz", prms, "kn", "g1c", "g2c", "sigf", "mu", "gamma")
	if err != nil {
		return
	}
	o.MaxIt, o.Tol = 50, 1e-9
	for _, p := range prms {
		switch p.N {
		case "kn":
			o.Kn = p.V
		case "g1c":
			o.GIc = p.V
		case "g2c":
			o.GIIc = p.V
		case "sigf":
			o.SigF = p.V
		case "mu":
			o.Mu = p.V
		case "gamma":
			o.Gamma = p.V
		case "semiexplicit":
			o.SemiExplicit = p.V > 0
		case "maxit":
			o.MaxIt = int(p.V)
		case "tol":
			o.Tol = p.V
		default:
			return chk.Err("bilinear cohesive zone: parameter named %q is invalid", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *BilinearCZ) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "kn", V: 1e6},    // [MPa/m]
			&dbf.P{N: "g1c", V: 1e-4},  // [MPa・m]
			&dbf.P{N: "g2c", V: 2e-4},  // [MPa・m]
			&dbf.P{N: "sigf", V: 1.0},  // [MPa]
			&dbf.P{N: "mu", V: 0.0},    // [-]
			&dbf.P{N: "gamma", V: 1.0}, // [-]
		}
	}
	var semi float64
	if o.SemiExplicit {
		semi = 1
	}
	return dbf.Params{
		&dbf.P{N: "kn", V: o.Kn},
		&dbf.P{N: "g1c", V: o.GIc},
		&dbf.P{N: "g2c", V: o.GIIc},
		&dbf.P{N: "sigf", V: o.SigF},
		&dbf.P{N: "mu", V: o.Mu},
		&dbf.P{N: "gamma", V: o.Gamma},
		&dbf.P{N: "semiexplicit", V: semi},
	}
}

// CheckConsistency checks parameters
func (o *BilinearCZ) CheckConsistency() error {
	name := "intmatbilinearcz"
	switch {
	case o.Kn <= 0:
		return mdl.Inconsistent(name, "kn", "must be positive. kn = %g", o.Kn)
	case o.GIc <= 0:
		return mdl.Inconsistent(name, "g1c", "must be positive. g1c = %g", o.GIc)
	case o.GIIc <= 0:
		return mdl.Inconsistent(name, "g2c", "must be positive. g2c = %g", o.GIIc)
	case o.SigF <= 0:
		return mdl.Inconsistent(name, "sigf", "must be positive. sigf = %g", o.SigF)
	case o.Gamma <= 0:
		return mdl.Inconsistent(name, "gamma", "must be positive. gamma = %g", o.Gamma)
	case o.Mu < 0:
		return mdl.Inconsistent(name, "mu", "must not be negative. mu = %g", o.Mu)
	case o.Gamma < 2*o.Mu:
		return mdl.Inconsistent(name, "gamma", "must be greater than or equal to 2・mu. gamma = %g, mu = %g", o.Gamma, o.Mu)
	}
	return nil
}

// HasAnalyticalTangent returns false: tangents must be computed numerically
func (o *BilinearCZ) HasAnalyticalTangent() bool { return false }

// NewStatus returns a new status; arrays are sized with the first jump
func (o *BilinearCZ) NewStatus() mdl.Status { return new(Status) }

// IpValue returns internal values
func (o *BilinearCZ) IpValue(s mdl.Status, key string) (val float64, ok bool) {
	st, ok := s.(*Status)
	if !ok {
		return
	}
	n := len(st.New.Traction)
	if n == 0 {
		if key == "damage" {
			return st.New.Damage, true
		}
		return 0, key == "tn" || key == "tt" || key == "jn" || key == "jt" || key == "dlam"
	}
	switch key {
	case "damage":
		return st.New.Damage, true
	case "tn":
		return st.New.Traction[n-1], true
	case "tt":
		return floats.Norm(st.New.Traction[:n-1], 2), true
	case "jn":
		return st.New.Jump[n-1], true
	case "jt":
		return floats.Norm(st.New.Jump[:n-1], 2), true
	case "dlam":
		return st.New.PlastMultInc, true
	}
	return 0, false
}

// Update computes the new state for the given jump
func (o *BilinearCZ) Update(s *Status, jump []float64) (err error) {
	res, err := o.compute(s, jump)
	if err != nil {
		return
	}
	if res.Damage < s.Old.Damage {
		chk.Panic("bilinear cohesive zone: damage cannot decrease. %g < %g", res.Damage, s.Old.Damage)
	}
	s.New = res
	return
}

// Traction computes the traction corresponding to jump without modifying s
func (o *BilinearCZ) Traction(tr []float64, s *Status, jump []float64) (err error) {
	res, err := o.compute(s, jump)
	if err != nil {
		return
	}
	copy(tr, res.Traction)
	return
}

// CalcD is not available; use a numerical tangent
func (o *BilinearCZ) CalcD(D [][]float64, s *Status, jump []float64) error {
	return chk.Err("bilinear cohesive zone does not have an analytical tangent")
}

// Yield computes the loading function with s = (1-D)・σf
func (o *BilinearCZ) Yield(σ, τ, s float64) float64 {
	γ, μ := o.Gamma, o.Mu
	return τ*τ/(γ*γ*s) + (γ-2.0*μ)*macaulay(σ)*macaulay(σ)/(γ*s) + 2.0*μ*σ/γ - s
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// compute integrates the model from s.Old to the given jump
func (o *BilinearCZ) compute(st *Status, jump []float64) (res State, err error) {

	// old state
	n := len(jump)
	old := st.Old
	if len(old.Jump) != n {
		old = State{Damage: st.Old.Damage}
		old.ensure(n)
	}

	// trial traction
	ttr := make([]float64, n)
	for i := 0; i < n; i++ {
		ttr[i] = old.Traction[i] + o.Kn*(jump[i]-old.Jump[i])
	}
	res = State{Damage: old.Damage, Jump: append([]float64{}, jump...), Traction: make([]float64, n)}

	// fully damaged: contact only when the faces penetrate
	if old.Damage >= 1.0 {
		res.Damage = 1.0
		res.Traction[n-1] = o.Kn * math.Min(jump[n-1], 0)
		return
	}

	// elastic step
	s := (1.0 - old.Damage) * o.SigF
	if o.Yield(ttr[n-1], floats.Norm(ttr[:n-1], 2), s) < 0 {
		copy(res.Traction, ttr)
		return
	}

	// plastic multiplier. The semi-explicit update uses the increment of the last converged
	// step and stores the consistent one for the next step
	Δλ, err := o.plastMult(ttr, s)
	if o.SemiExplicit {
		if err != nil {
			Δλ, err = old.PlastMultInc, nil
		}
		o.returnMap(res.Traction, ttr, old.PlastMultInc, s)
	} else {
		if err != nil {
			return
		}
		o.returnMap(res.Traction, ttr, Δλ, s)
	}
	res.PlastMultInc = Δλ

	// damage
	dist := 0.0
	for i := 0; i < n; i++ {
		dist += (ttr[i] - res.Traction[i]) * (ttr[i] - res.Traction[i])
	}
	Δκ := math.Sqrt(dist) / o.Kn
	τ := floats.Norm(res.Traction[:n-1], 2)
	σ := res.Traction[n-1]
	β := 0.0
	if τ*τ+σ*σ > 0 {
		β = τ * τ / (τ*τ + σ*σ)
	}
	Gc := (1.0-β)*o.GIc + β*o.GIIc
	δc := 2.0 * Gc / o.SigF
	res.Damage = math.Min(old.Damage+Δκ/δc, 1.0)
	return
}

// returnMap computes the traction for a given plastic multiplier increment
func (o *BilinearCZ) returnMap(tr, ttr []float64, Δλ, s float64) {
	n := len(ttr)
	γ, μ, kn := o.Gamma, o.Mu, o.Kn
	ct := 1.0 + 2.0*kn*Δλ/(γ*γ*s)
	for i := 0; i < n-1; i++ {
		tr[i] = ttr[i] / ct
	}
	tr[n-1] = ttr[n-1]
	if ttr[n-1] > 0 {
		tr[n-1] = ttr[n-1] / (1.0 + 2.0*kn*(γ-2.0*μ)*Δλ/(γ*s))
	}
}

// plastMult solves F(T(Δλ)) = 0 with Newton's method and a numerical derivative
func (o *BilinearCZ) plastMult(ttr []float64, s float64) (Δλ float64, err error) {
	n := len(ttr)
	tr := make([]float64, n)
	fcn := func(x float64) float64 {
		o.returnMap(tr, ttr, x, s)
		return o.Yield(tr[n-1], floats.Norm(tr[:n-1], 2), s)
	}
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-7 * s / o.Kn}
	var F float64
	for it := 0; it < o.MaxIt; it++ {
		F = fcn(Δλ)
		if math.Abs(F) <= o.Tol*s {
			return
		}
		dFdλ := fd.Derivative(fcn, Δλ, settings)
		if dFdλ == 0 || math.IsNaN(dFdλ) {
			break
		}
		Δλ -= F / dFdλ
		if Δλ < 0 {
			Δλ = 0
		}
	}
	return Δλ, &mdl.NotConvergedError{Model: "intmatbilinearcz", Iters: o.MaxIt, Res: F}
}

// macaulay returns <x> = max(x, 0)
func macaulay(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
