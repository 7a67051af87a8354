// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydration

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Point holds one point of a hydration curve
type Point struct {
	T     float64 // time
	Temp  float64 // temperature [°C]
	DoH   float64 // degree of hydration
	Power float64 // released heat per unit volume and time
}

// Curve computes the evolution of hydration from t=0 to tf using np points. If adiabatic is
// false, the temperature remains equal to temp0; otherwise, the released heat increases the
// temperature by power・Δt / (ρ・c)
func Curve(o *Model, temp0, tf float64, np int, adiabatic bool) (res []Point, err error) {
	if np < 2 {
		return nil, chk.Err("hydration curve requires at least 2 points. np = %d is invalid", np)
	}
	sta := new(Status)
	temp := temp0
	times := utl.LinSpace(0, tf, np)
	res = append(res, Point{T: 0, Temp: temp})
	for i := 1; i < np; i++ {
		err = o.Update(sta, temp, times[i])
		if err != nil {
			return
		}
		if adiabatic {
			temp += sta.New.Power * (times[i] - times[i-1]) / (o.Density(sta) * o.Capacity(sta))
		}
		sta.Commit()
		res = append(res, Point{T: times[i], Temp: temp, DoH: sta.Old.DoH, Power: sta.Old.Power})
	}
	return
}

// PlotCurve saves figures with the degree of hydration and temperature versus time
func PlotCurve(res []Point, dirout, fname string) (err error) {
	doh := make(plotter.XYs, len(res))
	tmp := make(plotter.XYs, len(res))
	for i, p := range res {
		doh[i].X, doh[i].Y = p.T, p.DoH
		tmp[i].X, tmp[i].Y = p.T, p.Temp
	}
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return
	}
	p := plot.New()
	p.X.Label.Text = "time"
	p.Y.Label.Text = "degree of hydration"
	p.Add(plotter.NewGrid())
	err = plotutil.AddLines(p, "DoH", doh)
	if err != nil {
		return
	}
	err = p.Save(4*vg.Inch, 3*vg.Inch, filepath.Join(dirout, fname+"-doh.png"))
	if err != nil {
		return
	}
	p = plot.New()
	p.X.Label.Text = "time"
	p.Y.Label.Text = "temperature"
	p.Add(plotter.NewGrid())
	err = plotutil.AddLines(p, "T", tmp)
	if err != nil {
		return
	}
	return p.Save(4*vg.Inch, 3*vg.Inch, filepath.Join(dirout, fname+"-temp.png"))
}
