// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/floats"
)

// Implicit solves nonlinear problems with the Newton-Raphson method and the θ-method in time. All
// fields are numbered together
type Implicit struct {

	// input
	Dom  *Domain           // domain
	Data *inp.ImplicitData // solver data
	Sol  *ele.Solution     // solution vectors

	// strategies
	LinSol LinSol   // linear solver
	Sum    *Summary // [optional] summary

	// numberings: free and prescribed
	Yf, Yp *dof.FieldNumbering

	// state
	T    float64 // time at the end of the last committed step
	Dt   float64 // last accepted time step
	Step int     // number of committed steps

	// auxiliary
	Kb   *la.Triplet // Jacobian matrix
	fb   []float64   // residual vector
	wb   []float64   // δy
	init bool        // Init has been called
}

// NewImplicit returns a new implicit solver
func NewImplicit(dom *Domain) (o *Implicit, err error) {
	o = &Implicit{Dom: dom, Data: &dom.Sim.Solver.Implicit, Sol: ele.NewSolution()}
	o.Sol.Theta = o.Data.Theta
	o.LinSol, err = NewLinSol(dom.Sim.LinSol.Name)
	if err != nil {
		return nil, err
	}
	if len(dom.ElemResids) != len(dom.Elems) {
		for _, e := range dom.Elems {
			if _, ok := e.(ele.WithResidual); !ok {
				return nil, chk.Err("implicit solver: element %d cannot compute residuals", e.Id())
			}
		}
	}
	o.Yf = dof.NewFieldNumbering("all", false)
	o.Yp = dof.NewFieldNumbering("all", true)
	return
}

// Init numbers equations and sets initial and prescribed values
func (o *Implicit) Init() (err error) {
	if o.init {
		return chk.Err("implicit solver: Init must be called once")
	}
	err = dof.Number(o.Dom.Nodes, o.Yf, o.Yp)
	if err != nil {
		return
	}
	nf, np := o.Yf.RequiredNumberOfEquations(), o.Yp.RequiredNumberOfEquations()
	o.Sol.Fields[dof.FieldAll] = ele.NewField(nf, np)
	o.fb = make([]float64, nf)
	o.wb = make([]float64, nf)
	o.Kb = new(la.Triplet)
	o.Kb.Init(nf, nf, NnzEstimate(o.Dom.Elems, o.Yf))

	// initial state
	o.Dom.SetInitial(o.Sol, nil)
	o.Dom.SetPrescribed(o.Sol, 0, nil)
	o.Sol.Fields[dof.FieldAll].Commit()
	err = o.Dom.UpdateElems(o.Sol)
	if err != nil {
		return
	}
	o.Dom.CommitElems()
	o.init = true
	if o.Dom.ShowMsg {
		io.Pf(">> implicit: equations = %d (+%d prescribed)\n", nf, np)
	}
	return
}

// Run runs steps of size control.dt until tf. With divergence control, diverging or
// non-converging steps are repeated with half the time step
func (o *Implicit) Run(tf float64) (err error) {
	if !o.init {
		return chk.Err("implicit solver: Init must be called before Run")
	}
	md := 1.0    // time step multiplier if divergence control is on
	ndiverg := 0 // number of steps diverging
	nmax := o.Dom.Sim.Control.NSteps
	for tf-o.T > o.Data.DtMin*1e-3 {

		// check for continued divergence
		if ndiverg >= o.Data.NdvgMax {
			return chk.Err("implicit solver: continuous divergence after %d steps reached", ndiverg)
		}
		if nmax > 0 && o.Step >= nmax {
			break
		}

		// time increment
		Δt := o.Dom.Sim.Control.Dt * md
		if o.T+Δt >= tf {
			Δt = tf - o.T
		}
		if Δt < o.Data.DtMin {
			if md < 1 {
				return &StepSizeError{Dt: Δt, DtMin: o.Data.DtMin, Cause: nonConvergence("newton", "%d diverging steps", ndiverg)}
			}
			break
		}

		// iterations
		it, diverging, e := o.iterations(Δt)
		if e != nil && !IsNonConvergence(e) {
			return e
		}
		if e != nil || diverging {
			o.rollback()
			if !o.Data.DvgCtrl {
				if e == nil {
					e = nonConvergence("newton", "iterations diverging")
				}
				return e
			}
			if o.Dom.ShowMsg {
				io.Pfred(". . . iterations diverging (%2d) . . .\n", ndiverg+1)
			}
			md *= 0.5
			ndiverg++
			if o.Sum != nil {
				o.Sum.Retries++
			}
			continue
		}
		ndiverg = 0
		md = 1.0

		// commit
		o.Sol.Fields[dof.FieldAll].Commit()
		o.Dom.CommitElems()
		o.T += Δt
		o.Dt = Δt
		o.Step++
		if o.Sum != nil {
			o.Sum.Append(o.T, Δt)
			o.Sum.Iters = append(o.Sum.Iters, it)
		}
		if o.Dom.ShowMsg {
			io.Pforan("step %4d: t = %g, Δt = %g, iterations = %d\n", o.Step, o.T, Δt, it)
		}
	}
	return
}

// iterations solves the nonlinear problem at the end of a step of size Δt
func (o *Implicit) iterations(Δt float64) (it int, diverging bool, err error) {

	// time and prescribed values
	o.Sol.T = o.T + Δt
	o.Sol.Dt = Δt
	o.Dom.SetPrescribed(o.Sol, o.Sol.T, nil)
	err = o.updateElems()
	if err != nil {
		return
	}
	Y := o.Sol.Fields[dof.FieldAll].Y

	// iterations
	var largFb, largFb0, prevFb, Lδu, prevLδu float64
	for it = 0; it < o.Data.NmaxIt; it++ {

		// residual
		zero(o.fb)
		err = AssembleVector(o.fb, o.Dom.Elems, ele.InternalForces{}, o.Sol, o.Yf, o.Dom.Workers)
		if err != nil {
			return
		}
		largFb = floats.Norm(o.fb, math.Inf(1))
		if math.IsNaN(largFb) || math.IsInf(largFb, 0) {
			err = nonConvergence("newton", "residual is not finite")
			return
		}

		// check convergence on fb
		if it == 0 {
			largFb0 = largFb
		} else {
			if largFb < o.Data.FbTol*largFb0 || largFb < o.Data.FbMin {
				return
			}
		}

		// check divergence on fb
		if it > 1 && o.Data.DvgCtrl && largFb > prevFb {
			diverging = true
			return
		}
		prevFb = largFb

		// Jacobian
		o.Kb.Start()
		err = AssembleMatrix(o.Kb, o.Dom.Elems, ele.Tangent{FirstIt: it == 0}, o.Sol, o.Yf, o.Dom.Workers)
		if err != nil {
			return
		}

		// solve for δy: K δy = -R
		floats.Scale(-1, o.fb)
		err = o.LinSol.Solve(o.wb, o.Kb, o.fb)
		if err != nil {
			return
		}
		floats.Add(Y, o.wb)

		// update secondary variables
		err = o.updateElems()
		if err != nil {
			return
		}

		// check convergence on δu
		Lδu = rmsErr(o.wb, o.Data.Atol, o.Data.Rtol, Y)
		if Lδu < o.Data.Itol {
			return
		}

		// check divergence on δu
		if it > 1 && o.Data.DvgCtrl && Lδu > prevLδu {
			diverging = true
			return
		}
		prevLδu = Lδu
	}
	err = nonConvergence("newton", "max number of iterations reached: it = %d, max|R| = %g, Lδu = %g", it, largFb, Lδu)
	return
}

// updateElems updates the internal variables; model failures are non-convergence errors
func (o *Implicit) updateElems() error {
	if err := o.Dom.UpdateElems(o.Sol); err != nil {
		return nonConvergence("update", "%v", err)
	}
	return nil
}

// rollback restores vectors and states of the beginning of the step
func (o *Implicit) rollback() {
	o.Sol.Fields[dof.FieldAll].Restore()
	o.Dom.ResetElems()
	o.Sol.T = o.T
}

// rmsErr returns the root-mean-square of δu scaled by atol + rtol |u|
func rmsErr(δu []float64, atol, rtol float64, u []float64) float64 {
	if len(δu) == 0 {
		return 0
	}
	sum := 0.0
	for i, v := range δu {
		e := v / (atol + rtol*math.Abs(u[i]))
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(δu)))
}
