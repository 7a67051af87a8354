// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PltEntity stores all data for a plot entity (X vs Y)
type PltEntity struct {
	Alias string    // alias
	X     []float64 // x-values
	Y     []float64 // y-values
	Xlbl  string    // horizontal axis label (raw; e.g. "t")
	Ylbl  string    // vertical axis label (raw; e.g. "T")
}

// SplotDat stores all data for one subplot
type SplotDat struct {
	Id     string       // unique identifier
	Title  string       // title of subplot
	Xscale float64      // x-axis scale
	Yscale float64      // y-axis scale
	Xrange []float64    // x range
	Yrange []float64    // y range
	Xlbl   string       // x-axis label (formatted; e.g. "time [s]")
	Ylbl   string       // y-axis label (formatted)
	Data   []*PltEntity // data to be plotted
}

// Splot activates a new subplot window
func (o *Output) Splot(id, splotTitle string) {
	s := &SplotDat{Id: id, Title: splotTitle}
	o.Splots = append(o.Splots, s)
	o.Csplot = s
}

// SplotConfig configures units and scales of axes
func (o *Output) SplotConfig(xunit, yunit string, xscale, yscale float64) {
	if o.Csplot != nil {
		var xlabel, ylabel string
		if len(o.Csplot.Data) > 0 {
			xlabel = o.Csplot.Data[0].Xlbl
			ylabel = o.Csplot.Data[0].Ylbl
		}
		o.Csplot.Xlbl = GetLabel(xlabel, xunit)
		o.Csplot.Ylbl = GetLabel(ylabel, yunit)
		o.Csplot.Xscale = xscale
		o.Csplot.Yscale = yscale
	}
}

// Plot adds data to the current subplot
//  xHandle -- can be a string, e.g. "t" or a slice, e.g. []float64{0, 1, 2}
//  yHandle -- can be a string, e.g. "T" or a slice
//  alias   -- alias such as "centre"
//  idxI    -- index of time; use -1 for the last output time
func (o *Output) Plot(xHandle, yHandle interface{}, alias string, idxI int) (err error) {
	e := &PltEntity{Alias: alias}
	e.X, e.Xlbl, err = o.valsAndLabel(xHandle, yHandle, alias, idxI)
	if err != nil {
		return
	}
	e.Y, e.Ylbl, err = o.valsAndLabel(yHandle, xHandle, alias, idxI)
	if err != nil {
		return
	}
	if len(e.X) != len(e.Y) {
		return chk.Err("lengths of x- and y-series are different. len(x)=%d, len(y)=%d, x=%v, y=%v", len(e.X), len(e.Y), xHandle, yHandle)
	}
	if o.Csplot == nil {
		o.Splot(io.Sf("%d", len(o.Splots)), "")
	}
	o.Csplot.Data = append(o.Csplot.Data, e)
	o.SplotConfig("", "", 1, 1)
	return
}

// Draw saves one png figure per subplot
//  dirout -- directory to save figures
//  fnkey  -- file name key; figures are named fnkey_id.png
func (o *Output) Draw(dirout, fnkey string) (err error) {
	if len(o.Splots) == 0 {
		return chk.Err("there are no subplots to draw")
	}
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return chk.Err("cannot create directory %q:\n%v", dirout, err)
	}
	for _, spl := range o.Splots {
		p := plot.New()
		p.Title.Text = spl.Title
		p.X.Label.Text = spl.Xlbl
		p.Y.Label.Text = spl.Ylbl
		p.Add(plotter.NewGrid())
		var lines []interface{}
		for _, d := range spl.Data {
			xy := make(plotter.XYs, len(d.X))
			for i := range d.X {
				xy[i].X = scaled(d.X[i], spl.Xscale)
				xy[i].Y = scaled(d.Y[i], spl.Yscale)
			}
			lines = append(lines, d.Alias, xy)
		}
		err = plotutil.AddLinePoints(p, lines...)
		if err != nil {
			return
		}
		if len(spl.Xrange) == 2 {
			p.X.Min, p.X.Max = spl.Xrange[0], spl.Xrange[1]
		}
		if len(spl.Yrange) == 2 {
			p.Y.Min, p.Y.Max = spl.Yrange[0], spl.Yrange[1]
		}
		err = p.Save(4*vg.Inch, 3*vg.Inch, filepath.Join(dirout, fnkey+"_"+spl.Id+".png"))
		if err != nil {
			return
		}
	}
	return
}

// auxiliary /////////////////////////////////////////////////////////////////////////////////////////

func scaled(v, scale float64) float64 {
	if scale == 0 {
		return v
	}
	return v * scale
}

// valsAndLabel returns the values corresponding to handle
func (o *Output) valsAndLabel(handle, otherHandle interface{}, alias string, idxI int) ([]float64, string, error) {
	switch hnd := handle.(type) {
	case []float64:
		return hnd, io.Sf("%s-type", alias), nil
	case string:
		ids, ok := o.Aliases[alias]
		if !ok {
			return nil, "", chk.Err("cannot find alias %q", alias)
		}
		switch hnd {
		case "t":
			return o.Times, "t", nil
		case "x", "y", "z":
			dim := map[string]int{"x": 0, "y": 1, "z": 2}[hnd]
			var res []float64
			for _, ipid := range ids {
				if dim < len(o.Ipoints[ipid].X) {
					res = append(res, o.Ipoints[ipid].X[dim])
				}
			}
			return res, hnd, nil
		case "dist":
			return o.dist(ids), "dist", nil
		}
		if other, ok := otherHandle.(string); ok && other == "t" && len(ids) > 1 {
			return nil, "", chk.Err("cannot plot %q versus time with alias %q holding %d points", hnd, alias, len(ids))
		}
		return o.GetRes(hnd, alias, idxI), hnd, nil
	}
	return nil, "", chk.Err("cannot get values slice with handle = %v", handle)
}

// dist returns the distances of integration points from the first one in ids
func (o *Output) dist(ids []int) (res []float64) {
	if len(ids) == 0 {
		return
	}
	x0 := o.Ipoints[ids[0]].X
	res = make([]float64, len(ids))
	for i, ipid := range ids {
		res[i] = floats.Distance(o.Ipoints[ipid].X, x0, 2)
	}
	return
}
