// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package thermal implements elements for transient heat conduction in hydrating concrete
package thermal

import (
	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl/hydration"
	"github.com/fluxfem/fluxfem/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/floats"
)

// Thermal implements an element for solving the heat equation with the heat released by the
// hydration of cement
//
//       dT                                     dT
//   ρ c ── + div q = Q(α, T) + s    with   q = -k ──
//       dt                                     dx
//
//  The time derivative is discretised with the θ-method
type Thermal struct {

	// basic data
	Cell  *inp.Cell        // the cell structure
	X     [][]float64      // matrix of nodal coordinates [ndim][nnode]
	Ndim  int              // space dimension
	Shp   *shp.Shape       // shape structure
	nodes []*dof.Node      // nodes
	dofs  [][]*dof.Dof     // dofs per node
	Mdl   *hydration.Model // hydration model with thermal properties
	Sfun  dbf.T            // s(t,x) extra source function

	// integration points
	IpsElem []shp.Ipoint // integration points of element
	IpsFace []shp.Ipoint // integration points corresponding to faces

	// material states
	States []*hydration.Status // [nip] states
	Temp   []float64           // [nip] temperature of last update

	// natural boundary conditions
	NatBcs []*ele.NaturalBc // natural boundary conditions

	// scratchpad
	Xip   []float64   // real coordinates of ip
	Tval  float64     // T(t,x) @ ip
	Tprev float64     // T(t-Δt,x) @ ip
	Gradt []float64   // [ndim] ∇T(t,x) @ ip
	Gradp []float64   // [ndim] ∇T(t-Δt,x) @ ip
	K     [][]float64 // Jacobian matrix
}

// initialisation ///////////////////////////////////////////////////////////////////////////////////

// register element
func init() {

	// information allocator
	ele.SetInfoFunc("thermal", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData) (*ele.Info, error) {
		if sim.Ndim != 2 || (cell.Type != "tri3" && cell.Type != "qua4") {
			return nil, chk.Err("thermal requires a tri3 or qua4 cell in 2D. type=%q and ndim=%d are invalid", cell.Type, sim.Ndim)
		}
		return ele.NewInfo(len(cell.Verts), "T"), nil
	})

	// element allocator
	ele.SetAllocator("thermal", func(sim *inp.Simulation, cell *inp.Cell, edat *inp.ElemData, nodes []*dof.Node) (ele.Element, error) {

		// basic data
		var o Thermal
		o.Cell = cell
		o.nodes = nodes
		o.X = ele.BuildCoordsMatrix(nodes)
		o.Ndim = sim.Ndim
		var err error
		o.Shp, err = shp.New(cell.Type)
		if err != nil {
			return nil, err
		}
		o.dofs, err = ele.DofsFromNodes(nodes, ele.NewInfo(len(nodes), "T").Dofs)
		if err != nil {
			return nil, err
		}

		// integration points
		o.IpsElem, o.IpsFace, err = o.Shp.GetIps(edat.Nip, edat.Nipf)
		if err != nil {
			return nil, chk.Err("cannot allocate integration points of thermal element with nip=%d and nipf=%d:\n%v", edat.Nip, edat.Nipf, err)
		}
		nip := len(o.IpsElem)

		// model
		m, err := ele.GetModel(sim, edat)
		if err != nil {
			return nil, err
		}
		var ok bool
		if o.Mdl, ok = m.(*hydration.Model); !ok {
			return nil, chk.Err("thermal requires a hydratingconcretemat model; material %q has a different one", edat.Mat)
		}
		o.States = make([]*hydration.Status, nip)
		for i := range o.States {
			o.States[i] = o.Mdl.NewStatus().(*hydration.Status)
		}
		o.Temp = make([]float64, nip)

		// natural boundary conditions
		for _, nbc := range ele.NaturalBcs(cell) {
			if nbc.Key != "q" {
				return nil, chk.Err("thermal cannot handle natural boundary condition named %q", nbc.Key)
			}
			o.NatBcs = append(o.NatBcs, nbc)
		}

		// scratchpad
		nverts := o.Shp.Nverts
		o.Xip = make([]float64, o.Ndim)
		o.Gradt = make([]float64, o.Ndim)
		o.Gradp = make([]float64, o.Ndim)
		o.K = utl.Alloc(nverts, nverts)
		return &o, nil
	})
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the cell Id
func (o *Thermal) Id() int { return o.Cell.Id }

// Dofs returns the dofs of nodes
func (o *Thermal) Dofs() [][]*dof.Dof { return o.dofs }

// Nodes returns the nodes
func (o *Thermal) Nodes() []*dof.Node { return o.nodes }

// SetEleConds sets element conditions
func (o *Thermal) SetEleConds(key string, f dbf.T, extra string) (err error) {
	if key != "s" {
		return chk.Err("thermal cannot handle element condition named %q", key)
	}
	o.Sfun = f
	return
}

// Residual computes R = ∫ S ρc (T - Tn)/Δt + G・q(θ) - S (Q + s) dΩ + ∫ Sf qb dΓ
func (o *Thermal) Residual(sol *ele.Solution) (R []float64, err error) {

	// for each integration point
	nverts := o.Shp.Nverts
	R = make([]float64, nverts)
	θ := sol.Theta
	var coef, ρc, kval, sval, dTdt float64
	for idx, ip := range o.IpsElem {

		// interpolation functions, gradients and variables @ ip
		err = o.ipvars(idx, sol)
		if err != nil {
			return
		}
		st := o.States[idx]
		coef = o.Shp.J * ip.W()
		S := o.Shp.S
		G := o.Shp.G
		ρc = o.Mdl.Density(st) * o.Mdl.Capacity(st)
		kval = o.Mdl.Conductivity(st)
		dTdt = (o.Tval - o.Tprev) / sol.Dt
		sval = st.New.Power
		if o.Sfun != nil {
			sval += o.Sfun.F(sol.T, o.Xip)
		}

		// residual
		for m := 0; m < nverts; m++ {
			R[m] += coef * S[m] * (ρc*dTdt - sval)
			for i := 0; i < o.Ndim; i++ {
				R[m] += coef * G[m][i] * kval * (θ*o.Gradt[i] + (1.0-θ)*o.Gradp[i])
			}
		}
	}

	// contribution from natural boundary conditions
	if len(o.NatBcs) > 0 {
		err = o.addNatBcs(R, sol)
	}
	return
}

// Jacobian computes K = ∫ S ρc/Δt S + θ G k G dΩ. The dependence of the heat source on the
// temperature is neglected
func (o *Thermal) Jacobian(sol *ele.Solution, firstIt bool) (K [][]float64, err error) {

	// clear matrices
	nverts := o.Shp.Nverts
	for m := 0; m < nverts; m++ {
		for n := 0; n < nverts; n++ {
			o.K[m][n] = 0
		}
	}

	// for each integration point
	θ := sol.Theta
	var coef, ρc, kval float64
	for idx, ip := range o.IpsElem {
		err = o.Shp.CalcAtIp(o.X, ip, true)
		if err != nil {
			return
		}
		st := o.States[idx]
		coef = o.Shp.J * ip.W()
		S := o.Shp.S
		G := o.Shp.G
		ρc = o.Mdl.Density(st) * o.Mdl.Capacity(st)
		kval = o.Mdl.Conductivity(st)
		for m := 0; m < nverts; m++ {
			for n := 0; n < nverts; n++ {
				o.K[m][n] += coef * S[m] * S[n] * ρc / sol.Dt
				for i := 0; i < o.Ndim; i++ {
					o.K[m][n] += coef * θ * kval * G[m][i] * G[n][i]
				}
			}
		}
	}
	return o.K, nil
}

// Update integrates the hydration at all integration points with the current temperatures
func (o *Thermal) Update(sol *ele.Solution) (err error) {
	for idx := range o.IpsElem {
		err = o.ipvars(idx, sol)
		if err != nil {
			return
		}
		o.Temp[idx] = o.Tval
		err = o.Mdl.Update(o.States[idx], o.Tval, sol.T)
		if err != nil {
			return chk.Err("thermal: cell %d, ip %d:\n%v", o.Cell.Id, idx, err)
		}
	}
	return
}

// Commit accepts the trial states
func (o *Thermal) Commit() {
	for _, s := range o.States {
		s.Commit()
	}
}

// Reset restores the converged states
func (o *Thermal) Reset() {
	for _, s := range o.States {
		s.Reset()
	}
}

// writer ///////////////////////////////////////////////////////////////////////////////////////////

// Encode encodes internal variables
func (o *Thermal) Encode(enc utl.Encoder) (err error) {
	for _, s := range o.States {
		err = s.Encode(enc)
		if err != nil {
			return
		}
	}
	return enc.Encode(o.Temp)
}

// Decode decodes internal variables
func (o *Thermal) Decode(dec utl.Decoder) (err error) {
	for _, s := range o.States {
		err = s.Decode(dec)
		if err != nil {
			return
		}
	}
	return dec.Decode(&o.Temp)
}

// IpCoords returns the coordinates of integration points
func (o *Thermal) IpCoords() (C [][]float64) {
	C = make([][]float64, len(o.IpsElem))
	for idx, ip := range o.IpsElem {
		C[idx] = o.Shp.IpRealCoords(o.X, ip)
	}
	return
}

// IpKeys returns the integration points' keys
func (o *Thermal) IpKeys() []string {
	return []string{"T", "doh", "power", "equivtime", "k"}
}

// IpValue returns the value of key at integration point idx
func (o *Thermal) IpValue(idx int, key string) (val float64, ok bool) {
	if idx < 0 || idx >= len(o.States) {
		return
	}
	if key == "T" {
		return o.Temp[idx], true
	}
	return o.Mdl.IpValue(o.States[idx], key)
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// ipvars computes current and previous values @ integration points. idx == index of integration point
func (o *Thermal) ipvars(idx int, sol *ele.Solution) (err error) {

	// interpolation functions and gradients
	err = o.Shp.CalcAtIp(o.X, o.IpsElem[idx], true)
	if err != nil {
		return
	}

	// clear values @ ip
	o.Tval, o.Tprev = 0, 0
	for i := 0; i < o.Ndim; i++ {
		o.Gradt[i] = 0
		o.Gradp[i] = 0
		o.Xip[i] = 0
	}

	// compute T and its gradient @ ip by means of interpolating from nodes
	for m := 0; m < o.Shp.Nverts; m++ {
		d := o.dofs[m][0]
		tcur := sol.Value(d, ele.Current)
		tpre := sol.Value(d, ele.Previous)
		o.Tval += o.Shp.S[m] * tcur
		o.Tprev += o.Shp.S[m] * tpre
		for i := 0; i < o.Ndim; i++ {
			o.Gradt[i] += o.Shp.G[m][i] * tcur
			o.Gradp[i] += o.Shp.G[m][i] * tpre
			o.Xip[i] += o.Shp.S[m] * o.X[i][m]
		}
	}
	return
}

// addNatBcs adds the outward flux qb to the residual
func (o *Thermal) addNatBcs(R []float64, sol *ele.Solution) (err error) {

	// compute surface integral
	var qb float64
	for _, nbc := range o.NatBcs {

		// specified flux
		qb = nbc.Fcn.F(sol.T, nil)

		// loop over ips of face
		for _, ipf := range o.IpsFace {

			// interpolation functions and gradients @ face
			iface := nbc.IdxFace
			err = o.Shp.CalcAtFaceIp(o.X, ipf, iface)
			if err != nil {
				return
			}
			Sf := o.Shp.Sf
			Jf := floats.Norm(o.Shp.Fnvec, 2)
			coef := ipf.W() * Jf
			for i, m := range o.Shp.FaceLocalVerts[iface] {
				R[m] += coef * qb * Sf[i]
			}
		}
	}
	return
}
