// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.yaml or .json) simulation file
package inp

import (
	goio "io"
	"math"
	"os"
	"path/filepath"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `yaml:"desc" json:"desc"`       // description of simulation
	DirOut  string `yaml:"dirout" json:"dirout"`   // directory for output; e.g. /tmp/fluxfem
	Encoder string `yaml:"encoder" json:"encoder"` // encoder name; e.g. "gob" "json"
	Workers int    `yaml:"workers" json:"workers"` // number of goroutines computing element contributions; 0 => number of CPUs
	ShowMsg bool   `yaml:"showmsg" json:"showmsg"` // show messages
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name string `yaml:"name" json:"name"` // "umfpack" or "dense"
}

// CbsData holds data for the characteristic-based split solver
type CbsData struct {
	DeltaT    float64 `yaml:"deltat" json:"deltat"`       // maximum time step
	MinDeltaT float64 `yaml:"mindeltat" json:"mindeltat"` // minimum time step; 0 => deltat・1e-6
	CmFlag    bool    `yaml:"cmflag" json:"cmflag"`       // use consistent mass
	Theta1    float64 `yaml:"theta1" json:"theta1"`       // weight of the intermediate velocity in the continuity equation
	Theta2    float64 `yaml:"theta2" json:"theta2"`       // weight of the new pressure
	ScaleFlag bool    `yaml:"scaleflag" json:"scaleflag"` // solve nondimensional equations
	Lscale    float64 `yaml:"lscale" json:"lscale"`       // length scale
	Uscale    float64 `yaml:"uscale" json:"uscale"`       // velocity scale
	Dscale    float64 `yaml:"dscale" json:"dscale"`       // density scale
	MiFlag    bool    `yaml:"miflag" json:"miflag"`       // update an attached material interface at each step
}

// ImplicitData holds data for the implicit (Newton) solver
type ImplicitData struct {
	NmaxIt  int     `yaml:"nmaxit" json:"nmaxit"`   // number of max iterations
	Atol    float64 `yaml:"atol" json:"atol"`       // absolute tolerance
	Rtol    float64 `yaml:"rtol" json:"rtol"`       // relative tolerance
	FbTol   float64 `yaml:"fbtol" json:"fbtol"`     // tolerance for convergence on fb
	FbMin   float64 `yaml:"fbmin" json:"fbmin"`     // minimum value of fb
	DvgCtrl bool    `yaml:"dvgctrl" json:"dvgctrl"` // use divergence control
	NdvgMax int     `yaml:"ndvgmax" json:"ndvgmax"` // max number of continued divergence
	DtMin   float64 `yaml:"dtmin" json:"dtmin"`     // minimum value of Dt
	Theta   float64 `yaml:"theta" json:"theta"`     // θ-method
	Eps     float64 `yaml:"eps" json:"eps"`         // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 `yaml:"-" json:"-"` // iterations tolerance
}

// SolverData holds FEM solver data
type SolverData struct {
	Type     string       `yaml:"type" json:"type"`         // "cbs" or "implicit"
	Cbs      CbsData      `yaml:"cbs" json:"cbs"`           // CBS data
	Implicit ImplicitData `yaml:"implicit" json:"implicit"` // implicit data
}

// ElemData holds element data
type ElemData struct {
	Tag   int    `yaml:"tag" json:"tag"`     // tag of cells
	Mat   string `yaml:"mat" json:"mat"`     // material name
	Type  string `yaml:"type" json:"type"`   // type of element. ex: tri3cbs, beam3d, boundarybeam, cohesive2d, thermal
	Nip   int    `yaml:"nip" json:"nip"`     // number of integration points; 0 => use default
	Nipf  int    `yaml:"nipf" json:"nipf"`   // number of integration points on face; 0 => use default
	Extra string `yaml:"extra" json:"extra"` // extra data; e.g. "thick:0.2"
}

// NodeBc holds node boundary condition
type NodeBc struct {
	Tag   int      `yaml:"tag" json:"tag"`     // tag of node
	Keys  []string `yaml:"keys" json:"keys"`   // dof keys. ex: vx, vy, p, ux, T
	Funcs []string `yaml:"funcs" json:"funcs"` // name of function. ex: zero, load, myfunction1, etc.
}

// FaceBc holds face boundary condition
type FaceBc struct {
	Tag   int      `yaml:"tag" json:"tag"`     // tag of face
	Keys  []string `yaml:"keys" json:"keys"`   // key indicating type of bcs. ex: qn, vx, vy, T, q
	Funcs []string `yaml:"funcs" json:"funcs"` // name of function. ex: zero, load, myfunction1, etc.
	Extra string   `yaml:"extra" json:"extra"` // extra information
}

// EleCond holds element condition
type EleCond struct {
	Tag   int      `yaml:"tag" json:"tag"`     // tag of cell/element
	Keys  []string `yaml:"keys" json:"keys"`   // key indicating type of condition. ex: "g" (gravity), "qn" for beams, "s" (source)
	Funcs []string `yaml:"funcs" json:"funcs"` // name of function. ex: grav, none
	Extra string   `yaml:"extra" json:"extra"` // extra information
}

// IniVal holds initial values of dofs of nodes with a given tag (or all nodes if tag == 0)
type IniVal struct {
	Tag  int       `yaml:"tag" json:"tag"`   // tag of nodes; 0 => all nodes
	Keys []string  `yaml:"keys" json:"keys"` // dof keys
	Vals []float64 `yaml:"vals" json:"vals"` // values
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf     float64 `yaml:"tf" json:"tf"`         // final time
	Dt     float64 `yaml:"dt" json:"dt"`         // time step size of the implicit solver
	DtOut  float64 `yaml:"dtout" json:"dtout"`   // time step size for output
	NSteps int     `yaml:"nsteps" json:"nsteps"` // maximum number of steps; 0 => unlimited
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data        `yaml:"data" json:"data"`           // stores global simulation data
	LinSol    LinSolData  `yaml:"linsol" json:"linsol"`       // linear solver data
	Solver    SolverData  `yaml:"solver" json:"solver"`       // FEM solver data
	Control   TimeControl `yaml:"control" json:"control"`     // time control
	Functions FuncsData   `yaml:"functions" json:"functions"` // stores all boundary condition functions
	Materials MatsData    `yaml:"materials" json:"materials"` // materials
	Mesh      Mesh        `yaml:"mesh" json:"mesh"`           // the mesh
	Elems     []*ElemData `yaml:"elems" json:"elems"`         // element data per cell tag
	NodeBcs   []*NodeBc   `yaml:"nodebcs" json:"nodebcs"`     // node boundary conditions
	FaceBcs   []*FaceBc   `yaml:"facebcs" json:"facebcs"`     // face boundary conditions
	EleConds  []*EleCond  `yaml:"eleconds" json:"eleconds"`   // element conditions
	IniVals   []*IniVal   `yaml:"inivals" json:"inivals"`     // initial values

	// derived
	Key       string `yaml:"-" json:"-"` // simulation key; e.g. mysim01.yaml => mysim01
	DirOut    string `yaml:"-" json:"-"` // directory to save results
	EncType   string `yaml:"-" json:"-"` // encoder type
	Ndim      int    `yaml:"-" json:"-"` // space dimension
	MatModels *MatDb `yaml:"-" json:"-"` // materials and models
}

// DefaultSimulation returns a simulation with default values
func DefaultSimulation() *Simulation {
	var o Simulation
	o.Data.Encoder = "gob"
	o.Data.Workers = 1
	o.LinSol.Name = "umfpack"
	o.Solver.Type = "implicit"
	o.Solver.Cbs.SetDefault()
	o.Solver.Implicit.SetDefault()
	return &o
}

// ReadSim reads all simulation data from a YAML (or JSON) file
func ReadSim(simfilepath string) (o *Simulation, err error) {
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}
	o, err = ParseSim(b)
	if err != nil {
		return
	}
	fn := filepath.Base(simfilepath)
	o.Key = io.FnKey(fn)
	if o.Data.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "fluxfem", o.Key)
	}
	return
}

// ParseSim decodes simulation data over the default values and post-processes it
func ParseSim(b []byte) (o *Simulation, err error) {
	o = DefaultSimulation()
	err = yaml.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("ParseSim: cannot unmarshal simulation data:\n%v", err)
	}
	err = o.PostProcess()
	if err != nil {
		return nil, err
	}
	return
}

// PostProcess checks records and computes derived data
func (o *Simulation) PostProcess() (err error) {

	// output
	o.Key = "sim"
	o.DirOut = o.Data.DirOut
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		return invalid("data", "encoder", "must be \"gob\" or \"json\". encoder = %q", o.EncType)
	}
	if o.Data.Workers < 0 {
		return invalid("data", "workers", "must not be negative. workers = %d", o.Data.Workers)
	}

	// solver
	switch o.Solver.Type {
	case "cbs":
		err = o.Solver.Cbs.PostProcess()
	case "implicit":
		if o.Control.Dt <= 0 {
			return missing("control", "dt")
		}
		err = o.Solver.Implicit.PostProcess()
	default:
		return invalid("solver", "type", "must be \"cbs\" or \"implicit\". type = %q", o.Solver.Type)
	}
	if err != nil {
		return
	}
	if o.Control.Tf <= 0 {
		return missing("control", "tf")
	}
	if o.Control.NSteps < 0 {
		return invalid("control", "nsteps", "must not be negative")
	}

	// mesh
	err = o.Mesh.Init()
	if err != nil {
		return
	}
	o.Ndim = o.Mesh.Ndim

	// functions and materials
	err = o.Functions.check()
	if err != nil {
		return
	}
	o.MatModels, err = NewMatDb(o.Materials)
	if err != nil {
		return
	}

	// elements
	for i, edat := range o.Elems {
		rec := io.Sf("elems[%d]", i)
		if edat.Tag >= 0 {
			return invalid(rec, "tag", "must be negative. tag = %d", edat.Tag)
		}
		if edat.Type == "" {
			return missing(rec, "type")
		}
		if edat.Mat == "" {
			return missing(rec, "mat")
		}
		if o.MatModels.Get(edat.Mat) == nil {
			return invalid(rec, "mat", "refers to unknown material %q", edat.Mat)
		}
	}
	for i, c := range o.Mesh.Cells {
		if o.Etag2data(c.Tag) == nil {
			return invalid(io.Sf("mesh.cells[%d]", i), "tag", "%d has no corresponding elems record", c.Tag)
		}
	}

	// node boundary conditions
	for i, nbc := range o.NodeBcs {
		rec := io.Sf("nodebcs[%d]", i)
		err = o.checkKeysFuncs(rec, nbc.Keys, nbc.Funcs)
		if err != nil {
			return
		}
		for _, key := range nbc.Keys {
			if !dof.IsKey(key) {
				return invalid(rec, "keys", "has unknown dof key %q", key)
			}
		}
	}

	// face boundary conditions
	for i, fbc := range o.FaceBcs {
		rec := io.Sf("facebcs[%d]", i)
		err = o.checkKeysFuncs(rec, fbc.Keys, fbc.Funcs)
		if err != nil {
			return
		}
		pairs, ok := o.Mesh.FaceTag2cells[fbc.Tag]
		if !ok {
			return invalid(rec, "tag", "%d does not correspond to any face", fbc.Tag)
		}
		for _, pair := range pairs {
			for j, key := range fbc.Keys {
				fcn, _ := o.Functions.Get(fbc.Funcs[j])
				lverts, gverts := o.faceVerts(pair)
				pair.C.FaceBcs = append(pair.C.FaceBcs, &FaceCond{
					FaceId:      pair.Fid,
					LocalVerts:  lverts,
					GlobalVerts: gverts,
					Cond:        key,
					Func:        fcn,
					Extra:       fbc.Extra,
				})
			}
		}
	}

	// element conditions
	for i, ec := range o.EleConds {
		rec := io.Sf("eleconds[%d]", i)
		err = o.checkKeysFuncs(rec, ec.Keys, ec.Funcs)
		if err != nil {
			return
		}
		if _, ok := o.Mesh.CellTag2cells[ec.Tag]; !ok {
			return invalid(rec, "tag", "%d does not correspond to any cell", ec.Tag)
		}
	}

	// initial values
	for i, iv := range o.IniVals {
		rec := io.Sf("inivals[%d]", i)
		if len(iv.Keys) != len(iv.Vals) {
			return invalid(rec, "vals", "must have one value per key. %d != %d", len(iv.Vals), len(iv.Keys))
		}
		for _, key := range iv.Keys {
			if !dof.IsKey(key) {
				return invalid(rec, "keys", "has unknown dof key %q", key)
			}
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// Etag2data returns the ElemData corresponding to element tag
//  Note: returns nil if not found
func (o *Simulation) Etag2data(etag int) *ElemData {
	for _, edat := range o.Elems {
		if edat.Tag == etag {
			return edat
		}
	}
	return nil
}

// GetEleCond returns element condition structure by giving an elem tag
//  Note: returns nil if not found
func (o *Simulation) GetEleCond(elemtag int) *EleCond {
	for _, ec := range o.EleConds {
		if elemtag == ec.Tag {
			return ec
		}
	}
	return nil
}

// GetNodeBc returns node boundary condition structure by giving a node tag
//  Note: returns nil if not found
func (o *Simulation) GetNodeBc(nodetag int) *NodeBc {
	for _, nbc := range o.NodeBcs {
		if nodetag == nbc.Tag {
			return nbc
		}
	}
	return nil
}

// GetInfo writes formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// checkKeysFuncs checks that each key has an existent function
func (o *Simulation) checkKeysFuncs(rec string, keys, funcs []string) error {
	if len(keys) == 0 {
		return missing(rec, "keys")
	}
	if len(keys) != len(funcs) {
		return invalid(rec, "funcs", "must have one function per key. %d != %d", len(funcs), len(keys))
	}
	for _, name := range funcs {
		if _, err := o.Functions.Get(name); err != nil {
			return invalid(rec, "funcs", "refers to unknown function %q", name)
		}
	}
	return nil
}

// faceVerts returns the local and global vertices of a cell's face
func (o *Simulation) faceVerts(pair CellFaceId) (lverts, gverts []int) {
	shape, err := shp.New(pair.C.Type)
	if err != nil {
		return
	}
	for _, l := range shape.FaceLocalVerts[pair.Fid] {
		lverts = append(lverts, l)
		gverts = append(gverts, pair.C.Verts[l])
	}
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *CbsData) SetDefault() {
	o.Theta1 = 1
	o.Theta2 = 1
	o.Lscale = 1
	o.Uscale = 1
	o.Dscale = 1
}

// PostProcess checks data and computes derived values
func (o *CbsData) PostProcess() error {
	if o.DeltaT <= 0 {
		return missing("solver.cbs", "deltat")
	}
	if o.MinDeltaT <= 0 {
		o.MinDeltaT = o.DeltaT * 1e-6
	}
	if o.MinDeltaT > o.DeltaT {
		return invalid("solver.cbs", "mindeltat", "must not be greater than deltat. %g > %g", o.MinDeltaT, o.DeltaT)
	}
	if o.Theta1 < 0.5 || o.Theta1 > 1 {
		return invalid("solver.cbs", "theta1", "must be in [0.5, 1]. theta1 = %g", o.Theta1)
	}
	if o.Theta2 < 0 || o.Theta2 > 1 {
		return invalid("solver.cbs", "theta2", "must be in [0, 1]. theta2 = %g", o.Theta2)
	}
	if o.ScaleFlag && (o.Lscale <= 0 || o.Uscale <= 0 || o.Dscale <= 0) {
		return invalid("solver.cbs", "lscale", "uscale and dscale must be positive")
	}
	return nil
}

// SetDefault set defaults values
func (o *ImplicitData) SetDefault() {
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20
	o.DtMin = 1e-8
	o.Theta = 1
	o.Eps = 1e-16
}

// PostProcess checks data and computes the iterations tolerance
func (o *ImplicitData) PostProcess() error {
	if o.NmaxIt < 1 {
		return invalid("solver.implicit", "nmaxit", "must be at least 1. nmaxit = %d", o.NmaxIt)
	}
	if o.Rtol <= 0 {
		return invalid("solver.implicit", "rtol", "must be positive. rtol = %g", o.Rtol)
	}
	if o.Theta <= 0 || o.Theta > 1 {
		return invalid("solver.implicit", "theta", "must be in (0, 1]. theta = %g", o.Theta)
	}
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
	return nil
}
