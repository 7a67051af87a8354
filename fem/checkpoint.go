// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	goio "io"
	"os"

	"github.com/fluxfem/fluxfem/dof"
	"github.com/fluxfem/fluxfem/ele"

	"github.com/cpmech/gosl/chk"
)

// ContextVersion is the version of the checkpoint format
const ContextVersion = 1

// ContextHeader holds the scalar data of a checkpoint
type ContextHeader struct {
	Version   int        // format version
	T         float64    // time
	Dt        float64    // last time step
	Step      int        // number of committed steps
	CmFlag    bool       // consistent mass
	ScaleFlag bool       // nondimensional vectors
	MiFlag    bool       // material interface
	Theta1    float64    // θ1
	Theta2    float64    // θ2
	Scales    ele.Scales // scales; zero if not scaled
	Nvf, Nvp  int        // number of velocity equations
	Npf, Npp  int        // number of pressure equations
	Nelems    int        // number of elements
}

// SaveContext writes the state at the end of the last committed step to w
func (o *CBS) SaveContext(w goio.Writer) (err error) {
	if !o.init {
		return chk.Err("SaveContext: solver is not initialised")
	}
	enc := GetEncoder(w, o.Dom.Sim.EncType)
	err = enc.Encode(o.header())
	if err != nil {
		return chk.Err("SaveContext: cannot encode header:\n%v", err)
	}
	for _, key := range []string{dof.FieldVelocity, dof.FieldPressure} {
		err = enc.Encode(o.Sol.Fields[key])
		if err != nil {
			return chk.Err("SaveContext: cannot encode vectors of field %q:\n%v", key, err)
		}
	}
	for _, e := range o.elems {
		err = e.Encode(enc)
		if err != nil {
			return chk.Err("SaveContext: cannot encode element %d:\n%v", e.Id(), err)
		}
	}
	return
}

// RestoreContext reads a state written by SaveContext. The solver must be initialised with the
// same simulation data
func (o *CBS) RestoreContext(r goio.Reader) (err error) {
	if !o.init {
		return chk.Err("RestoreContext: solver is not initialised")
	}
	dec := GetDecoder(r, o.Dom.Sim.EncType)
	var h ContextHeader
	err = dec.Decode(&h)
	if err != nil {
		return chk.Err("RestoreContext: cannot decode header:\n%v", err)
	}
	if h.Version != ContextVersion {
		return chk.Err("RestoreContext: version %d is not supported; expected %d", h.Version, ContextVersion)
	}
	mine := o.header()
	if h.Nvf != mine.Nvf || h.Nvp != mine.Nvp || h.Npf != mine.Npf || h.Npp != mine.Npp || h.Nelems != mine.Nelems {
		return chk.Err("RestoreContext: sizes (%d,%d,%d,%d,%d) differ from the ones of the solver (%d,%d,%d,%d,%d)",
			h.Nvf, h.Nvp, h.Npf, h.Npp, h.Nelems, mine.Nvf, mine.Nvp, mine.Npf, mine.Npp, mine.Nelems)
	}
	if h.CmFlag != mine.CmFlag || h.ScaleFlag != mine.ScaleFlag || h.MiFlag != mine.MiFlag {
		return chk.Err("RestoreContext: flags cmflag=%v scaleflag=%v miflag=%v differ from the ones of the solver", h.CmFlag, h.ScaleFlag, h.MiFlag)
	}
	if h.ScaleFlag && h.Scales != *o.Sol.Scales {
		return chk.Err("RestoreContext: scales %v differ from the ones of the solver %v", h.Scales, *o.Sol.Scales)
	}
	keys := []string{dof.FieldVelocity, dof.FieldPressure}
	fields := make([]*ele.Field, len(keys))
	for i, key := range keys {
		fields[i] = new(ele.Field)
		err = dec.Decode(fields[i])
		if err != nil {
			return chk.Err("RestoreContext: cannot decode vectors of field %q:\n%v", key, err)
		}
		err = checkField(o.Sol.Fields[key], fields[i])
		if err != nil {
			return chk.Err("RestoreContext: field %q:\n%v", key, err)
		}
	}

	// elements decode in place; their states are recovered from a snapshot on failure
	var snapshot bytes.Buffer
	enc := GetEncoder(&snapshot, "gob")
	for _, e := range o.elems {
		err = e.Encode(enc)
		if err != nil {
			return chk.Err("RestoreContext: cannot save state of element %d:\n%v", e.Id(), err)
		}
	}
	for _, e := range o.elems {
		err = e.Decode(dec)
		if err != nil {
			if errSnap := o.decodeElems(&snapshot); errSnap != nil {
				return chk.Err("RestoreContext: cannot decode element %d:\n%v\nand cannot recover states:\n%v", e.Id(), err, errSnap)
			}
			return chk.Err("RestoreContext: cannot decode element %d:\n%v", e.Id(), err)
		}
	}

	// commit
	for i, key := range keys {
		copyField(o.Sol.Fields[key], fields[i])
	}
	o.T, o.Dt, o.Step = h.T, h.Dt, h.Step
	o.Sol.Theta1, o.Sol.Theta2 = h.Theta1, h.Theta2
	_, _, _, ts, _ := o.Sol.Scales.Factors()
	o.Sol.T = o.T / ts
	o.Stage = StageCommit
	return
}

// SaveContextFile writes the checkpoint of the current step into the output directory
func (o *CBS) SaveContextFile() (fn string, err error) {
	var buf bytes.Buffer
	err = o.SaveContext(&buf)
	if err != nil {
		return
	}
	sim := o.Dom.Sim
	fn = outCtxPath(sim.DirOut, sim.Key, sim.EncType, o.Step)
	err = saveFile(fn, &buf, o.Dom.ShowMsg)
	return
}

// RestoreContextFile reads a checkpoint file
func (o *CBS) RestoreContextFile(fn string) (err error) {
	fil, err := os.Open(fn)
	if err != nil {
		return chk.Err("RestoreContextFile: cannot open %q:\n%v", fn, err)
	}
	defer fil.Close()
	return o.RestoreContext(fil)
}

// header returns the header of the current state
func (o *CBS) header() (h ContextHeader) {
	h = ContextHeader{
		Version:   ContextVersion,
		T:         o.T,
		Dt:        o.Dt,
		Step:      o.Step,
		CmFlag:    o.Data.CmFlag,
		ScaleFlag: o.Data.ScaleFlag,
		MiFlag:    o.Data.MiFlag,
		Theta1:    o.Sol.Theta1,
		Theta2:    o.Sol.Theta2,
		Nvf:       o.Vf.RequiredNumberOfEquations(),
		Nvp:       o.Vp.RequiredNumberOfEquations(),
		Npf:       o.Pf.RequiredNumberOfEquations(),
		Npp:       o.Pp.RequiredNumberOfEquations(),
		Nelems:    len(o.elems),
	}
	if o.Sol.Scales != nil {
		h.Scales = *o.Sol.Scales
	}
	return
}

// fieldPairs returns the vectors of dst and src side by side
func fieldPairs(dst, src *ele.Field) []struct {
	name     string
	dst, src []float64
} {
	return []struct {
		name     string
		dst, src []float64
	}{
		{"Y", dst.Y, src.Y},
		{"Yold", dst.Yold, src.Yold},
		{"Aux", dst.Aux, src.Aux},
		{"Presc", dst.Presc, src.Presc},
		{"PrescOld", dst.PrescOld, src.PrescOld},
	}
}

// checkField checks that the non-empty vectors of src have the sizes of the ones of dst. Empty
// vectors are omitted by some encoders
func checkField(dst, src *ele.Field) error {
	for _, p := range fieldPairs(dst, src) {
		if len(p.src) != 0 && len(p.src) != len(p.dst) {
			return chk.Err("size of %s (%d) differs from the expected one (%d)", p.name, len(p.src), len(p.dst))
		}
	}
	return nil
}

// copyField copies the vectors of a checked src into dst; empty vectors are zeroed
func copyField(dst, src *ele.Field) {
	for _, p := range fieldPairs(dst, src) {
		if len(p.src) == 0 {
			zero(p.dst)
			continue
		}
		copy(p.dst, p.src)
	}
}

// decodeElems decodes the states of all elements from a gob snapshot
func (o *CBS) decodeElems(snapshot goio.Reader) error {
	dec := GetDecoder(snapshot, "gob")
	for _, e := range o.elems {
		err := e.Decode(dec)
		if err != nil {
			return chk.Err("element %d:\n%v", e.Id(), err)
		}
	}
	return nil
}
