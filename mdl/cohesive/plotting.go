// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cohesive

import (
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot plots normal traction versus normal jump, and damage versus normal jump, of states
// computed by Driver
func Plot(res []State, dirout, fname string) (err error) {
	tn := make(plotter.XYs, len(res))
	dm := make(plotter.XYs, len(res))
	for i, st := range res {
		n := len(st.Jump)
		tn[i].X, tn[i].Y = st.Jump[n-1], st.Traction[n-1]
		dm[i].X, dm[i].Y = st.Jump[n-1], st.Damage
	}
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return
	}
	for _, fig := range []struct {
		xys    plotter.XYs
		ylabel string
		suffix string
	}{
		{tn, "normal traction", "-tn"},
		{dm, "damage", "-dmg"},
	} {
		p := plot.New()
		p.X.Label.Text = "normal jump"
		p.Y.Label.Text = fig.ylabel
		var line *plotter.Line
		line, err = plotter.NewLine(fig.xys)
		if err != nil {
			return
		}
		p.Add(line, plotter.NewGrid())
		err = p.Save(4*vg.Inch, 3*vg.Inch, filepath.Join(dirout, fname+fig.suffix+".png"))
		if err != nil {
			return
		}
	}
	return
}
