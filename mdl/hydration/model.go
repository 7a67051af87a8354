// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hydration implements hydrating concrete: heat of hydration and thermal properties
// depending on the degree of hydration
package hydration

import (
	"math"

	"github.com/fluxfem/fluxfem/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"
)

// hydration model types
const (
	Exponential = 1 // exponential curve in equivalent time (Schindler and Folliard)
	Affinity    = 2 // chemical affinity (Cervera et al.)
)

// constants
const (
	GasConstant  = 8.314  // [J/(mol・K)]
	ZeroCelsius  = 273.15 // [K]
	SteelConduct = 20.0   // conductivity of reinforcement [W/(m・K)]
	SteelCapac   = 500.0  // capacity of reinforcement [J/(kg・K)]
	SteelDensity = 7850.0 // density of reinforcement [kg/m³]
)

// Model implements hydrating concrete
type Model struct {

	// hydration
	ModelType int     // Exponential or Affinity
	Qpot      float64 // potential heat of hydration [kJ/kg] (≈ 500 for Portland cement)
	MassCem   float64 // mass of cement per m³ of concrete [kg/m³]
	CastAt    float64 // casting time
	Ea        float64 // activation energy [J/mol]
	Tref      float64 // reference temperature [°C]
	DoHInf    float64 // asymptotic degree of hydration

	// exponential model
	Tau  float64 // time parameter
	Beta float64 // shape parameter

	// affinity model
	B1   float64 // rate parameter
	B2   float64 // initial affinity parameter
	Eta  float64 // microdiffusion parameter
	DoH1 float64 // slag-rich extension: threshold degree of hydration (0 => off)
	P1   float64 // slag-rich extension: multiplier slope

	// integration
	MaxTime  float64 // maximum substep length
	MinSteps int     // minimum number of substeps within one time step

	// thermal properties
	K        float64 // conductivity of concrete [W/(m・K)]
	C        float64 // capacity of concrete [J/(kg・K)]
	Rho      float64 // density of concrete [kg/m³]
	KType    int     // 0: constant; 1: decreasing with hydration
	Reinforc float64 // degree of reinforcement (volume fraction of steel)
}

// add model to factory
func init() {
	mdl.SetAllocator("hydratingconcretemat", func() mdl.Model { return new(Model) })
}

// Init initialises model
func (o *Model) Init(prms dbf.Params) (err error) {
	name := "hydratingconcretemat"
	err = mdl.Require(name, prms, "hydrationmodeltype", "qpot", "masscement", "k", "c", "d")
	if err != nil {
		return
	}
	o.Ea, o.Tref = 38400, 25
	o.MaxTime, o.MinSteps = 36000, 30
	for _, p := range prms {
		switch p.N {
		case "hydrationmodeltype":
			o.ModelType = int(p.V)
		case "qpot":
			o.Qpot = p.V
		case "masscement":
			o.MassCem = p.V
		case "castat":
			o.CastAt = p.V
		case "activationenergy":
			o.Ea = p.V
		case "referencetemperature":
			o.Tref = p.V
		case "dohinf":
			o.DoHInf = p.V
		case "tau":
			o.Tau = p.V
		case "beta":
			o.Beta = p.V
		case "b1":
			o.B1 = p.V
		case "b2":
			o.B2 = p.V
		case "eta":
			o.Eta = p.V
		case "doh1":
			o.DoH1 = p.V
		case "p1":
			o.P1 = p.V
		case "maxmodelintegrationtime":
			o.MaxTime = p.V
		case "minmodeltimestepintegrations":
			o.MinSteps = int(p.V)
		case "k":
			o.K = p.V
		case "c":
			o.C = p.V
		case "d":
			o.Rho = p.V
		case "conductivitytype":
			o.KType = int(p.V)
		case "capacitytype", "densitytype":
			if p.V != 0 {
				return chk.Err("hydrating concrete: %s = %g is not available. only 0 (constant) is", p.N, p.V)
			}
		case "reinforcementdegree":
			o.Reinforc = p.V
		default:
			return chk.Err("hydrating concrete: parameter named %q is invalid", p.N)
		}
	}
	switch o.ModelType {
	case Exponential:
		err = mdl.Require(name, prms, "tau", "beta", "dohinf")
	case Affinity:
		err = mdl.Require(name, prms, "b1", "b2", "eta", "dohinf")
	default:
		err = chk.Err("hydrating concrete: hydration model type %d is not available. use 1 (exponential) or 2 (affinity)", o.ModelType)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o *Model) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "hydrationmodeltype", V: Affinity},
			&dbf.P{N: "qpot", V: 518.0},       // [kJ/kg]
			&dbf.P{N: "masscement", V: 400.0}, // [kg/m³]
			&dbf.P{N: "b1", V: 2.916e-4},      // [1/s]
			&dbf.P{N: "b2", V: 0.0024229},     // [-]
			&dbf.P{N: "eta", V: 5.554},        // [-]
			&dbf.P{N: "dohinf", V: 0.85},      // [-]
			&dbf.P{N: "k", V: 1.7},            // [W/(m・K)]
			&dbf.P{N: "c", V: 870.0},          // [J/(kg・K)]
			&dbf.P{N: "d", V: 2400.0},         // [kg/m³]
		}
	}
	return dbf.Params{
		&dbf.P{N: "hydrationmodeltype", V: float64(o.ModelType)},
		&dbf.P{N: "qpot", V: o.Qpot},
		&dbf.P{N: "masscement", V: o.MassCem},
		&dbf.P{N: "castat", V: o.CastAt},
		&dbf.P{N: "activationenergy", V: o.Ea},
		&dbf.P{N: "referencetemperature", V: o.Tref},
		&dbf.P{N: "dohinf", V: o.DoHInf},
		&dbf.P{N: "tau", V: o.Tau},
		&dbf.P{N: "beta", V: o.Beta},
		&dbf.P{N: "b1", V: o.B1},
		&dbf.P{N: "b2", V: o.B2},
		&dbf.P{N: "eta", V: o.Eta},
		&dbf.P{N: "doh1", V: o.DoH1},
		&dbf.P{N: "p1", V: o.P1},
		&dbf.P{N: "maxmodelintegrationtime", V: o.MaxTime},
		&dbf.P{N: "minmodeltimestepintegrations", V: float64(o.MinSteps)},
		&dbf.P{N: "k", V: o.K},
		&dbf.P{N: "c", V: o.C},
		&dbf.P{N: "d", V: o.Rho},
		&dbf.P{N: "conductivitytype", V: float64(o.KType)},
		&dbf.P{N: "reinforcementdegree", V: o.Reinforc},
	}
}

// CheckConsistency checks parameters
func (o *Model) CheckConsistency() error {
	name := "hydratingconcretemat"
	switch {
	case o.Qpot <= 0:
		return mdl.Inconsistent(name, "qpot", "must be positive. qpot = %g", o.Qpot)
	case o.MassCem <= 0:
		return mdl.Inconsistent(name, "masscement", "must be positive. masscement = %g", o.MassCem)
	case o.DoHInf <= 0 || o.DoHInf > 1:
		return mdl.Inconsistent(name, "dohinf", "must be in (0, 1]. dohinf = %g", o.DoHInf)
	case o.ModelType == Exponential && (o.Tau <= 0 || o.Beta <= 0):
		return mdl.Inconsistent(name, "tau", "and beta must be positive. tau = %g, beta = %g", o.Tau, o.Beta)
	case o.ModelType == Affinity && (o.B1 <= 0 || o.B2 <= 0 || o.Eta < 0):
		return mdl.Inconsistent(name, "b1", "and b2 must be positive and eta non-negative. b1 = %g, b2 = %g, eta = %g", o.B1, o.B2, o.Eta)
	case o.MaxTime <= 0:
		return mdl.Inconsistent(name, "maxmodelintegrationtime", "must be positive. %g", o.MaxTime)
	case o.MinSteps < 1:
		return mdl.Inconsistent(name, "minmodeltimestepintegrations", "must be at least 1. %d", o.MinSteps)
	case o.Ea < 0:
		return mdl.Inconsistent(name, "activationenergy", "must not be negative. %g", o.Ea)
	case o.K <= 0 || o.C <= 0 || o.Rho <= 0:
		return mdl.Inconsistent(name, "k", "c and d must be positive. k = %g, c = %g, d = %g", o.K, o.C, o.Rho)
	case o.KType != 0 && o.KType != 1:
		return mdl.Inconsistent(name, "conductivitytype", "must be 0 or 1. %d", o.KType)
	case o.Reinforc < 0 || o.Reinforc >= 1:
		return mdl.Inconsistent(name, "reinforcementdegree", "must be in [0, 1). %g", o.Reinforc)
	}
	return nil
}

// HasAnalyticalTangent returns true: the heat source does not enter the tangent
func (o *Model) HasAnalyticalTangent() bool { return true }

// NewStatus returns a new status
func (o *Model) NewStatus() mdl.Status { return new(Status) }

// IpValue returns internal values
func (o *Model) IpValue(s mdl.Status, key string) (val float64, ok bool) {
	st, ok := s.(*Status)
	if !ok {
		return
	}
	switch key {
	case "doh":
		return st.New.DoH, true
	case "power":
		return st.New.Power, true
	case "equivtime":
		return st.New.EquivTime, true
	case "k":
		return o.Conductivity(st), true
	}
	return 0, false
}

// Update integrates the degree of hydration up to time t at temperature temp [°C] and computes the
// heat source (power) released since the last converged evaluation
func (o *Model) Update(s *Status, temp, t float64) (err error) {

	// not cast yet
	old := s.Old
	if t <= o.CastAt {
		s.New = State{LastEvalTime: t}
		return
	}

	// nothing to integrate
	res := old
	res.Power = 0
	res.LastEvalTime = t
	t0 := math.Max(old.LastEvalTime, o.CastAt)
	h := t - t0
	if h <= 0 {
		s.New = res
		return
	}

	// degree of hydration
	scale := o.ScaleTemperature(temp)
	switch o.ModelType {
	case Exponential:
		res.EquivTime = old.EquivTime + h*scale
		res.DoH = o.DoHInf * math.Exp(-math.Pow(o.Tau/res.EquivTime, o.Beta))
	case Affinity:
		res.EquivTime = old.EquivTime + h*scale
		res.DoH = o.integrate(old.DoH, h, scale)
	default:
		return chk.Err("hydration model type %d is not available", o.ModelType)
	}
	res.DoH = clamp(res.DoH, old.DoH, o.DoHInf)

	// power [W/m³]
	Δt := t - old.LastEvalTime
	res.Power = o.Qpot * (res.DoH - old.DoH) / Δt * 1000.0 * o.MassCem * (1.0 - o.Reinforc)
	s.New = res
	return
}

// ScaleTemperature returns the Arrhenius factor relative to the reference temperature
func (o *Model) ScaleTemperature(temp float64) float64 {
	return math.Exp(o.Ea / GasConstant * (1.0/(ZeroCelsius+o.Tref) - 1.0/(ZeroCelsius+temp)))
}

// Affinity25 returns the normalised affinity at 25°C
func (o *Model) Affinity25(α float64) float64 {
	res := o.B1 * (o.B2/o.DoHInf + α) * (o.DoHInf - α) * math.Exp(-o.Eta*α/o.DoHInf)
	if o.DoH1 > 0 && α > o.DoH1 {
		res *= 1.0 + o.P1*(α-o.DoH1)
	}
	if res < 0 {
		return 0
	}
	return res
}

// Conductivity returns the conductivity at the current state
func (o *Model) Conductivity(s *Status) float64 {
	k := o.K
	if o.KType == 1 {
		k *= 1.0 - 0.33/1.33*s.New.DoH
	}
	return (1.0-o.Reinforc)*k + o.Reinforc*SteelConduct
}

// Capacity returns the specific heat capacity
func (o *Model) Capacity(s *Status) float64 {
	return (1.0-o.Reinforc)*o.C + o.Reinforc*SteelCapac
}

// Density returns the density
func (o *Model) Density(s *Status) float64 {
	return (1.0-o.Reinforc)*o.Rho + o.Reinforc*SteelDensity
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// integrate integrates dα/dt = A25(α)・scale over h with a fixed-step modified Euler (Heun) method.
// The step is the smaller of h/MinSteps and MaxTime.
//   Time is normalised by x = (t - t0) / h so that dα/dx = h・A25(α)・scale with x ∈ [0, 1]
func (o *Model) integrate(α0, h, scale float64) float64 {
	fcn := func(f la.Vector, dx, x float64, y la.Vector) {
		f[0] = h * o.Affinity25(clamp(y[0], 0, o.DoHInf)) * scale
	}
	dt := math.Min(h/float64(o.MinSteps), o.MaxTime)
	conf := ode.NewConfig("moeuler", "", nil)
	conf.SetFixedH(dt/h, 1)
	sol := ode.NewSolver(1, conf, fcn, nil, nil)
	defer sol.Free()
	y := la.Vector{α0}
	sol.Solve(y, 0, 1)
	return y[0]
}

// clamp returns x limited to [lo, hi]
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
