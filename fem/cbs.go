// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/ele/fluid"
	"github.com/fluxfem/fluxfem/inp"
	mfluid "github.com/fluxfem/fluxfem/mdl/fluid"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/floats"
)

// CBSStage indicates the stage of a CBS step
type CBSStage int

// stages
const (
	StageInit          CBSStage = iota // initialisation
	StagePredict                       // step 1: intermediate velocity increment ΔV*
	StagePressureSolve                 // step 2: pressure
	StageCorrect                       // step 3: velocity correction ΔV**
	StageCommit                        // end of step
)

// String returns the name of the stage
func (o CBSStage) String() string {
	switch o {
	case StageInit:
		return "init"
	case StagePredict:
		return "predict"
	case StagePressureSolve:
		return "pressure"
	case StageCorrect:
		return "correct"
	case StageCommit:
		return "commit"
	}
	return io.Sf("stage(%d)", int(o))
}

// consistent mass iterations
const (
	CmTol   = 1e-8 // tolerance
	CmMaxIt = 50   // max number of iterations
)

// safety factor on the critical time step
const DtSafety = 0.6

// MaterialInterface is an optional strategy updated once per committed step; e.g. coupling with
// other components
type MaterialInterface interface {
	Update(sol *ele.Solution) error
}

// CBS implements the characteristic-based split algorithm for incompressible flows. Each step
// computes an intermediate velocity increment (explicit), the new pressure (implicit, Poisson
// equation) and the velocity correction (explicit). Vectors are nondimensional if scaleflag is set
type CBS struct {

	// input
	Dom  *Domain       // domain
	Data *inp.CbsData  // solver data
	Sol  *ele.Solution // solution vectors

	// strategies
	LinSol   LinSol            // linear solver for the pressure equation
	MatIface MaterialInterface // [optional] material interface; required if miflag
	Sum      *Summary          // [optional] summary

	// numberings: velocity and pressure; free and prescribed
	Vf, Vp, Pf, Pp *dof.FieldNumbering

	// state
	Stage CBSStage // current stage
	T     float64  // time at the end of the last committed step (dimensional)
	Dt    float64  // last accepted time step (dimensional)
	Step  int      // number of committed steps

	// global matrices
	ML []float64   // lumped mass (free velocities)
	MC *la.Triplet // consistent mass (free velocities); only if cmflag
	H  *la.Triplet // pressure Laplacian (free pressures)

	// auxiliary
	elems  []ele.Element // CBS elements
	scales *ele.Scales   // scales set before Init
	init   bool          // Init has been called
	dvs    []float64     // ΔV* or ΔV**
	rv, rp []float64     // rhs of velocity and pressure equations
}

// NewCBS returns a new CBS solver
func NewCBS(dom *Domain) (o *CBS, err error) {
	o = &CBS{Dom: dom, Data: &dom.Sim.Solver.Cbs, Sol: ele.NewSolution()}
	o.Sol.Theta1 = o.Data.Theta1
	o.Sol.Theta2 = o.Data.Theta2
	o.LinSol, err = NewLinSol(dom.Sim.LinSol.Name)
	if err != nil {
		return nil, err
	}
	for _, e := range dom.Elems {
		if _, ok := e.(fluid.CbsElement); !ok {
			return nil, chk.Err("CBS solver: element %d is not a CBS element", e.Id())
		}
	}
	o.elems = dom.Elems
	o.Vf, o.Vp = dof.NewVelocityNumbering(false), dof.NewVelocityNumbering(true)
	o.Pf, o.Pp = dof.NewPressureNumbering(false), dof.NewPressureNumbering(true)
	return
}

// AttachMaterialInterface sets the material interface updated at each committed step
func (o *CBS) AttachMaterialInterface(mi MaterialInterface) {
	o.MatIface = mi
}

// SetScales sets the length, velocity and density scales. The scales are fixed for the whole
// simulation and cannot be changed after Init
func (o *CBS) SetScales(l, u, d float64) error {
	if o.init {
		return chk.Err("CBS solver: scales cannot be changed after initialisation")
	}
	if l <= 0 || u <= 0 || d <= 0 {
		return chk.Err("CBS solver: scales must be positive. l=%g, u=%g, d=%g are invalid", l, u, d)
	}
	o.scales = &ele.Scales{L: l, U: u, D: d}
	return nil
}

// Init numbers equations, allocates vectors, computes scales and assembles the fixed matrices
func (o *CBS) Init() (err error) {

	// check
	o.Stage = StageInit
	if o.init {
		return chk.Err("CBS solver: Init must be called once")
	}
	if o.Data.MiFlag && o.MatIface == nil {
		return chk.Err("CBS solver: miflag requires a material interface attached before initialisation")
	}

	// pressures at edges with traction are prescribed
	for _, cell := range o.Dom.Sim.Mesh.Cells {
		for _, v := range cell.FaceBcs.GetVerts("qn") {
			if d := o.Dom.Nodes[cell.Verts[v]].GetDof("p"); d != nil && !d.Prescribed() {
				d.Fix(nil)
			}
		}
	}

	// numbering
	err = dof.Number(o.Dom.Nodes, o.Vf, o.Vp, o.Pf, o.Pp)
	if err != nil {
		return
	}
	nvf, nvp := o.Vf.RequiredNumberOfEquations(), o.Vp.RequiredNumberOfEquations()
	npf, npp := o.Pf.RequiredNumberOfEquations(), o.Pp.RequiredNumberOfEquations()
	o.Sol.Fields[dof.FieldVelocity] = ele.NewField(nvf, nvp)
	o.Sol.Fields[dof.FieldPressure] = ele.NewField(npf, npp)
	o.dvs = make([]float64, nvf)
	o.rv = make([]float64, nvf)
	o.rp = make([]float64, npf)

	// scales
	if o.Data.ScaleFlag {
		if o.scales == nil {
			o.scales = &ele.Scales{L: o.Data.Lscale, U: o.Data.Uscale, D: o.Data.Dscale}
		}
		μ, e := o.viscosity()
		if e != nil {
			return e
		}
		o.scales.Re = o.scales.D * o.scales.U * o.scales.L / μ
		o.Sol.Scales = o.scales
	}

	// initial and prescribed values
	o.Sol.T, o.Sol.Dt = 0, 0
	o.Dom.SetInitial(o.Sol, o.factor)
	err = o.setPrescribed()
	if err != nil {
		return
	}
	o.commitVectors()

	// lumped mass
	o.ML = make([]float64, nvf)
	err = AssembleVector(o.ML, o.elems, fluid.LumpedMass{}, o.Sol, o.Vf, o.Dom.Workers)
	if err != nil {
		return
	}
	for i, m := range o.ML {
		if m <= 0 {
			return chk.Err("CBS solver: lumped mass of velocity equation %d is not positive. M = %g", i+1, m)
		}
	}

	// consistent mass
	if o.Data.CmFlag {
		o.MC = new(la.Triplet)
		o.MC.Init(nvf, nvf, NnzEstimate(o.elems, o.Vf))
		o.MC.Start()
		err = AssembleMatrix(o.MC, o.elems, fluid.ConsistentMass{}, o.Sol, o.Vf, o.Dom.Workers)
		if err != nil {
			return
		}
	}

	// pressure Laplacian
	o.H = new(la.Triplet)
	o.H.Init(npf, npf, NnzEstimate(o.elems, o.Pf))
	o.H.Start()
	err = AssembleMatrix(o.H, o.elems, fluid.PressureLhs{}, o.Sol, o.Pf, o.Dom.Workers)
	if err != nil {
		return
	}

	// initial values at integration points
	err = o.Dom.UpdateElems(o.Sol)
	if err != nil {
		return
	}
	o.Dom.CommitElems()
	o.init = true
	if o.Dom.ShowMsg {
		io.Pf(">> CBS: velocity equations = %d (+%d prescribed)\n", nvf, nvp)
		io.Pf(">> CBS: pressure equations = %d (+%d prescribed)\n", npf, npp)
		if o.Sol.Scales != nil {
			io.Pf(">> CBS: Re = %g\n", o.Sol.Scales.Re)
		}
	}
	return
}

// Run runs steps until tf or until the maximum number of steps is reached
func (o *CBS) Run(tf float64) (err error) {
	if !o.init {
		return chk.Err("CBS solver: Init must be called before Run")
	}
	nmax := o.Dom.Sim.Control.NSteps
	for tf-o.T > o.Data.MinDeltaT*1e-3 {
		if nmax > 0 && o.Step >= nmax {
			break
		}
		err = o.StepTo(tf)
		if err != nil {
			return
		}
	}
	return
}

// StepTo performs one step not going beyond tf. The step is repeated with half the time step on
// non-convergence; a time step smaller than mindeltat is fatal
func (o *CBS) StepTo(tf float64) (err error) {
	Δt := math.Min(o.TimeStep(), tf-o.T)
	for {
		err = o.solve(Δt)
		if err == nil {
			return o.commit(Δt)
		}
		if !IsNonConvergence(err) {
			return
		}
		o.rollback()
		if o.Sum != nil {
			o.Sum.Retries++
		}
		if o.Dom.ShowMsg {
			io.Pfyel("step %d: %v\n... repeating with Δt = %g\n", o.Step+1, err, Δt/2)
		}
		Δt /= 2
		if Δt < o.Data.MinDeltaT {
			if o.Dom.ShowMsg {
				io.Pfred("step %d: Δt = %g < mindeltat = %g\n", o.Step+1, Δt, o.Data.MinDeltaT)
			}
			return &StepSizeError{Dt: Δt, DtMin: o.Data.MinDeltaT, Cause: err}
		}
	}
}

// TimeStep returns Δt = min(deltat, 0.6 Δt_crit) floored at mindeltat (dimensional)
func (o *CBS) TimeStep() float64 {
	Δt := math.Min(o.Data.DeltaT, DtSafety*o.CriticalTimeStep())
	return math.Max(Δt, o.Data.MinDeltaT)
}

// CriticalTimeStep returns the smallest critical time step of all elements (dimensional)
func (o *CBS) CriticalTimeStep() float64 {
	_, _, _, ts, _ := o.Sol.Scales.Factors()
	Δt := math.Inf(1)
	for _, e := range o.elems {
		Δt = math.Min(Δt, e.(fluid.CbsElement).CriticalTimeStep(o.Sol)*ts)
	}
	return Δt
}

// Value returns the dimensional value of a velocity or pressure dof
func (o *CBS) Value(d *dof.Dof) float64 {
	_, u, _, _, p := o.Sol.Scales.Factors()
	v := o.Sol.Value(d, ele.Current)
	if d.Key == "p" {
		return v * p
	}
	return v * u
}

// Velocity returns the dimensional velocity of a node
func (o *CBS) Velocity(nod *dof.Node) (v []float64) {
	for _, key := range dof.VelocityKeys {
		if d := nod.GetDof(key); d != nil {
			v = append(v, o.Value(d))
		}
	}
	return
}

// Pressure returns the dimensional pressure of a node
func (o *CBS) Pressure(nod *dof.Node) float64 {
	if d := nod.GetDof("p"); d != nil {
		return o.Value(d)
	}
	return 0
}

// step stages /////////////////////////////////////////////////////////////////////////////////////

// solve performs the three stages with time step Δt (dimensional)
func (o *CBS) solve(Δt float64) (err error) {

	// time and prescribed values at the end of the step
	_, _, _, ts, _ := o.Sol.Scales.Factors()
	o.Sol.T = (o.T + Δt) / ts
	o.Sol.Dt = Δt / ts
	err = o.setPrescribed()
	if err != nil {
		return
	}
	V, P := o.Sol.Fields[dof.FieldVelocity], o.Sol.Fields[dof.FieldPressure]

	// step 1: ΔV* = M⁻¹ r1
	o.Stage = StagePredict
	zero(o.rv)
	err = AssembleVector(o.rv, o.elems, fluid.IntermediateConvectionDiffusion{}, o.Sol, o.Vf, o.Dom.Workers)
	if err != nil {
		return
	}
	err = o.solveMass(V.Aux, o.rv)
	if err != nil {
		return
	}

	// step 2: θ1 θ2 Δt H pⁿ⁺¹ = r2
	o.Stage = StagePressureSolve
	zero(o.rp)
	for _, asm := range []ele.VectorAssembler{fluid.DensityRhs{}, fluid.PrescribedVelocityRhs{}, fluid.DensityPrescribedTractionPressure{}} {
		err = AssembleVector(o.rp, o.elems, asm, o.Sol, o.Pf, o.Dom.Workers)
		if err != nil {
			return
		}
	}
	floats.Scale(1.0/(o.Sol.Theta1*o.Sol.Theta2*o.Sol.Dt), o.rp)
	err = o.LinSol.Solve(P.Y, o.H, o.rp)
	if err != nil {
		return
	}

	// step 3: ΔV** = M⁻¹ r3 and Vⁿ⁺¹ = Vⁿ + ΔV* + ΔV**
	o.Stage = StageCorrect
	zero(o.rv)
	err = AssembleVector(o.rv, o.elems, fluid.CorrectionRhs{}, o.Sol, o.Vf, o.Dom.Workers)
	if err != nil {
		return
	}
	err = o.solveMass(o.dvs, o.rv)
	if err != nil {
		return
	}
	for i := range V.Y {
		V.Y[i] = V.Yold[i] + V.Aux[i] + o.dvs[i]
	}
	err = checkFinite(V.Y)
	if err != nil {
		return nonConvergence(o.Stage.String(), "velocities are not finite")
	}
	return o.Dom.UpdateElems(o.Sol)
}

// commit accepts the step. A failure of the material interface leaves the solver at the
// beginning of the step
func (o *CBS) commit(Δt float64) (err error) {
	o.Stage = StageCommit
	if o.Data.MiFlag {
		err = o.MatIface.Update(o.Sol)
		if err != nil {
			o.rollback()
			return chk.Err("CBS solver: material interface failed at step %d:\n%v", o.Step+1, err)
		}
	}
	o.commitVectors()
	o.Dom.CommitElems()
	o.T += Δt
	o.Dt = Δt
	o.Step++
	if o.Sum != nil {
		o.Sum.Append(o.T, Δt)
	}
	if o.Dom.ShowMsg {
		io.Pforan("step %4d: t = %g, Δt = %g\n", o.Step, o.T, Δt)
	}
	return
}

// rollback restores vectors and states of the beginning of the step
func (o *CBS) rollback() {
	for _, f := range o.Sol.Fields {
		f.Restore()
	}
	o.Dom.ResetElems()
	_, _, _, ts, _ := o.Sol.Scales.Factors()
	o.Sol.T = o.T / ts
}

// solveMass solves M Δv = r with the lumped mass; with cmflag, the consistent mass is used by
// iterating M_L Δvᵏ⁺¹ = r - (M_C - M_L) Δvᵏ
func (o *CBS) solveMass(Δv, r []float64) error {
	for i := range Δv {
		Δv[i] = r[i] / o.ML[i]
	}
	if !o.Data.CmFlag || len(Δv) == 0 {
		return nil
	}
	y := make([]float64, len(Δv))
	prev := make([]float64, len(Δv))
	for it := 0; it < CmMaxIt; it++ {
		copy(prev, Δv)
		zero(y)
		la.SpTriMatVecMul(y, o.MC, prev)
		for i := range Δv {
			Δv[i] = (r[i] - y[i] + o.ML[i]*prev[i]) / o.ML[i]
		}
		nrm := floats.Norm(Δv, math.Inf(1))
		dif := floats.Distance(Δv, prev, math.Inf(1))
		if dif <= CmTol*nrm || nrm == 0 {
			return nil
		}
	}
	return nonConvergence(o.Stage.String(), "consistent mass iterations did not converge after %d iterations", CmMaxIt)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// setPrescribed sets the prescribed velocities and pressures at the current time. Pressures at
// edges with traction are averaged over the edges sharing a node. Boundary functions take
// precedence
func (o *CBS) setPrescribed() (err error) {
	P := o.Sol.Fields[dof.FieldPressure]
	if len(P.Presc) > 0 {
		cnt := make([]float64, len(P.Presc))
		sum := make([]float64, len(P.Presc))
		err = AssembleVector(cnt, o.elems, fluid.NumberOfNodalPrescribedTractionPressure{}, o.Sol, o.Pp, o.Dom.Workers)
		if err != nil {
			return
		}
		err = AssembleVector(sum, o.elems, fluid.PrescribedTractionPressure{}, o.Sol, o.Pp, o.Dom.Workers)
		if err != nil {
			return
		}
		for i := range P.Presc {
			if cnt[i] > 0 {
				P.Presc[i] = sum[i] / cnt[i]
			}
		}
	}
	_, _, _, ts, _ := o.Sol.Scales.Factors()
	o.Dom.SetPrescribed(o.Sol, o.Sol.T*ts, o.factor)
	return
}

// commitVectors copies current values to converged values and clears auxiliary vectors
func (o *CBS) commitVectors() {
	for _, f := range o.Sol.Fields {
		f.Commit()
		zero(f.Aux)
	}
}

// factor returns the scale of values of dof key
func (o *CBS) factor(key string) float64 {
	_, u, _, _, p := o.Sol.Scales.Factors()
	if key == "p" {
		return p
	}
	return u
}

// viscosity returns the viscosity of the first Newtonian material
func (o *CBS) viscosity() (float64, error) {
	for _, edat := range o.Dom.Sim.Elems {
		mat := o.Dom.Sim.MatModels.Get(edat.Mat)
		if m, ok := mat.Mdl.(*mfluid.Newtonian); ok {
			return m.Mu, nil
		}
	}
	return 0, chk.Err("CBS solver: scaleflag requires a newtonian material")
}

// zero sets all values of v to zero
func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
