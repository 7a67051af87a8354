// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"github.com/fluxfem/fluxfem/ele"

	"github.com/cpmech/gosl/chk"
)

// CbsElement defines the terms of elements solved with the CBS algorithm. All vectors and matrices
// follow the local layout given by Dofs()
type CbsElement interface {
	ele.Element
	LumpedMass(sol *ele.Solution) []float64                              // diagonal of lumped mass
	ConsistentMass(sol *ele.Solution) [][]float64                        // consistent mass
	ConvectionDiffusion(sol *ele.Solution) []float64                     // step 1 rhs
	DensityRhs(sol *ele.Solution) []float64                              // step 2 rhs: free velocities
	PrescribedVelocityRhs(sol *ele.Solution) []float64                   // step 2 rhs: prescribed velocities
	DensityPrescribedTractionPressure(sol *ele.Solution) []float64       // step 2 rhs: prescribed pressures
	PressureLhs(sol *ele.Solution) [][]float64                           // step 2 lhs (without θ1 θ2 Δt)
	CorrectionRhs(sol *ele.Solution) []float64                           // step 3 rhs
	NumberOfNodalPrescribedTractionPressure(sol *ele.Solution) []float64 // edges with traction per node
	PrescribedTractionPressure(sol *ele.Solution) []float64              // sum of traction pressures per node
	CriticalTimeStep(sol *ele.Solution) float64                          // stable time step
}

// cbs returns e as a CBS element
func cbs(e ele.Element) (CbsElement, error) {
	c, ok := e.(CbsElement)
	if !ok {
		return nil, chk.Err("element %d cannot be used with the CBS algorithm", e.Id())
	}
	return c, nil
}

// vector assemblers ///////////////////////////////////////////////////////////////////////////////

// LumpedMass assembles the lumped mass
type LumpedMass struct{ ele.Located }

// IntermediateConvectionDiffusion assembles the rhs of step 1
type IntermediateConvectionDiffusion struct{ ele.Located }

// DensityRhs assembles the free-velocity rhs of step 2
type DensityRhs struct{ ele.Located }

// PrescribedVelocityRhs assembles the prescribed-velocity rhs of step 2
type PrescribedVelocityRhs struct{ ele.Located }

// DensityPrescribedTractionPressure assembles the prescribed-pressure rhs of step 2
type DensityPrescribedTractionPressure struct{ ele.Located }

// CorrectionRhs assembles the rhs of step 3
type CorrectionRhs struct{ ele.Located }

// NumberOfNodalPrescribedTractionPressure assembles the number of traction edges per node
type NumberOfNodalPrescribedTractionPressure struct{ ele.Located }

// PrescribedTractionPressure assembles the sum of traction pressures per node
type PrescribedTractionPressure struct{ ele.Located }

// VectorFromElement returns the local vector
func (LumpedMass) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.LumpedMass(sol), nil
}

// VectorFromElement returns the local vector
func (IntermediateConvectionDiffusion) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.ConvectionDiffusion(sol), nil
}

// VectorFromElement returns the local vector
func (DensityRhs) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.DensityRhs(sol), nil
}

// VectorFromElement returns the local vector
func (PrescribedVelocityRhs) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.PrescribedVelocityRhs(sol), nil
}

// VectorFromElement returns the local vector
func (DensityPrescribedTractionPressure) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.DensityPrescribedTractionPressure(sol), nil
}

// VectorFromElement returns the local vector
func (CorrectionRhs) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.CorrectionRhs(sol), nil
}

// VectorFromElement returns the local vector
func (NumberOfNodalPrescribedTractionPressure) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.NumberOfNodalPrescribedTractionPressure(sol), nil
}

// VectorFromElement returns the local vector
func (PrescribedTractionPressure) VectorFromElement(e ele.Element, sol *ele.Solution) ([]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.PrescribedTractionPressure(sol), nil
}

// matrix assemblers ///////////////////////////////////////////////////////////////////////////////

// ConsistentMass assembles the consistent mass
type ConsistentMass struct{ ele.Located }

// PressureLhs assembles the pressure Laplacian of step 2
type PressureLhs struct{ ele.Located }

// MatrixFromElement returns the local matrix
func (ConsistentMass) MatrixFromElement(e ele.Element, sol *ele.Solution) ([][]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.ConsistentMass(sol), nil
}

// MatrixFromElement returns the local matrix
func (PressureLhs) MatrixFromElement(e ele.Element, sol *ele.Solution) ([][]float64, error) {
	c, err := cbs(e)
	if err != nil {
		return nil, err
	}
	return c.PressureLhs(sol), nil
}
