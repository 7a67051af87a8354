// Copyright 2016 The Fluxfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/fluxfem/fluxfem/ana"
	"github.com/fluxfem/fluxfem/fem"
	"github.com/fluxfem/fluxfem/inp"
	"github.com/fluxfem/fluxfem/mdl"
	"github.com/fluxfem/fluxfem/mdl/cohesive"
	"github.com/fluxfem/fluxfem/mdl/hydration"
	"github.com/fluxfem/fluxfem/out"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	verbose   bool      // show messages
	noSummary bool      // do not save summary
	trackKey  string    // ip key to follow during run
	trackAt   []float64 // coordinates of ip to follow
	plotDir   string    // directory to save figures
	matName   string    // material name (hydration)
	temp0     float64   // initial temperature (hydration)
	tfinal    float64   // final time (hydration)
	npoints   int       // number of points (hydration)
	adiabatic bool      // adiabatic curve (hydration)
	secType   string    // cross-section type (section)
	secDims   []float64 // cross-section dimensions (section)
	unitPres  string    // unit of pressure (section)
	jmax      float64   // maximum opening (cohesive)
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fluxfem",
		Short:        "finite element solver for fluid flow, hydrating concrete, cohesive interfaces and beams",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show messages")

	runCmd := &cobra.Command{
		Use:   "run [simfile.yaml]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVar(&noSummary, "nosummary", false, "do not save summary")
	runCmd.Flags().StringVar(&trackKey, "track", "", "key at integration point to follow; e.g. T")
	runCmd.Flags().Float64SliceVar(&trackAt, "at", nil, "coordinates of followed point; e.g. 0.5,0.5")
	runCmd.Flags().StringVar(&plotDir, "plot", "", "directory to save figures of the followed point")

	checkCmd := &cobra.Command{
		Use:   "check [simfile.yaml]",
		Short: "read simulation file and show its data",
		Args:  cobra.ExactArgs(1),
		RunE:  checkSimulation,
	}

	prmsCmd := &cobra.Command{
		Use:   "prms [model]",
		Short: "show example of parameters of model; without model, list models",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPrms,
	}

	hydrationCmd := &cobra.Command{
		Use:   "hydration [simfile.yaml]",
		Short: "compute hydration curve of a hydrating concrete material",
		Args:  cobra.ExactArgs(1),
		RunE:  hydrationCurve,
	}
	hydrationCmd.Flags().StringVar(&matName, "mat", "", "material name; default is the first hydrating material")
	hydrationCmd.Flags().Float64Var(&temp0, "temp", 20, "initial temperature")
	hydrationCmd.Flags().Float64Var(&tfinal, "tf", 7*24*3600, "final time")
	hydrationCmd.Flags().IntVar(&npoints, "np", 101, "number of points")
	hydrationCmd.Flags().BoolVar(&adiabatic, "adiabatic", false, "adiabatic instead of isothermal curve")
	hydrationCmd.Flags().StringVar(&plotDir, "plot", "", "directory to save figures")

	sectionCmd := &cobra.Command{
		Use:   "section [name] [material]",
		Short: "print beam material with reference material and cross-section; e.g. section beam steel",
		Args:  cobra.ExactArgs(2),
		RunE:  beamSection,
	}
	sectionCmd.Flags().StringVar(&secType, "type", "rectangle", "cross-section type: rectangle, I-beam or circle")
	sectionCmd.Flags().Float64SliceVar(&secDims, "dims", []float64{0.1, 0.2}, "dimensions: wid,hei[,tf,tw] or rad")
	sectionCmd.Flags().StringVar(&unitPres, "unit", "kPa", "unit of pressure: kPa, MPa or GPa")

	cohesiveCmd := &cobra.Command{
		Use:   "cohesive [simfile.yaml]",
		Short: "run a cohesive material through an opening and unloading path",
		Args:  cobra.ExactArgs(1),
		RunE:  cohesivePath,
	}
	cohesiveCmd.Flags().StringVar(&matName, "mat", "", "material name; default is the first cohesive material")
	cohesiveCmd.Flags().Float64Var(&jmax, "jmax", 1e-3, "maximum normal opening")
	cohesiveCmd.Flags().IntVar(&npoints, "np", 51, "number of points per branch")
	cohesiveCmd.Flags().StringVar(&plotDir, "plot", "", "directory to save figures")

	rootCmd.AddCommand(runCmd, checkCmd, prmsCmd, hydrationCmd, sectionCmd, cohesiveCmd)
	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {
	m, err := fem.ReadMain(args[0], !noSummary, verbose)
	if err != nil {
		return
	}

	// follow point
	var o *out.Output
	if trackKey != "" {
		if len(trackAt) == 0 {
			return chk.Err("--at is required with --track")
		}
		o = out.New(m)
		err = o.Define("A", trackAt)
		if err != nil {
			return
		}
		m.OnOutput = o.Record
	}

	// run
	err = m.Run()
	if err != nil {
		return
	}
	if m.Summary.Nsteps() > 1 {
		io.Pf("\n%s\n", m.Summary.Graph())
	}
	if o == nil {
		return
	}
	graph, err := o.Graph(trackKey, "A")
	if err != nil {
		return
	}
	io.Pf("\n%s\n", graph)
	if plotDir != "" {
		o.Splot(trackKey, io.Sf("%s @ %v", trackKey, trackAt))
		err = o.Plot("t", trackKey, "A", -1)
		if err != nil {
			return
		}
		err = o.Draw(plotDir, m.Sim.Key)
		if err != nil {
			return
		}
		io.Pforan("figure saved in %s\n", plotDir)
	}
	return
}

func checkSimulation(cmd *cobra.Command, args []string) (err error) {
	sim, err := inp.ReadSim(args[0])
	if err != nil {
		return
	}
	io.Pf("key        = %s\n", sim.Key)
	io.Pf("solver     = %s\n", sim.Solver.Type)
	io.Pf("linsol     = %s\n", sim.LinSol.Name)
	io.Pf("ndim       = %d\n", sim.Ndim)
	io.Pf("nverts     = %d\n", len(sim.Mesh.Verts))
	io.Pf("ncells     = %d\n", len(sim.Mesh.Cells))
	io.Pf("nmaterials = %d\n", len(sim.Materials))
	if verbose {
		io.Pf("\n")
		err = sim.GetInfo(os.Stdout)
	}
	return
}

func showPrms(cmd *cobra.Command, args []string) (err error) {
	if len(args) == 0 {
		for _, name := range mdl.Available() {
			io.Pf("%s\n", name)
		}
		return
	}
	model, err := mdl.New(args[0])
	if err != nil {
		return
	}
	for _, p := range model.GetPrms(true) {
		io.Pf("{n: %s, v: %g}\n", p.N, p.V)
	}
	return
}

func hydrationCurve(cmd *cobra.Command, args []string) (err error) {
	sim, err := inp.ReadSim(args[0])
	if err != nil {
		return
	}
	var model *hydration.Model
	for _, mat := range sim.Materials {
		if matName != "" && mat.Name != matName {
			continue
		}
		if m, ok := mat.Mdl.(*hydration.Model); ok {
			model = m
			break
		}
	}
	if model == nil {
		return chk.Err("cannot find hydrating concrete material %q in %q", matName, args[0])
	}
	res, err := hydration.Curve(model, temp0, tfinal, npoints, adiabatic)
	if err != nil {
		return
	}
	doh := make([]float64, len(res))
	temp := make([]float64, len(res))
	for i, r := range res {
		doh[i], temp[i] = r.DoH, r.Temp
	}
	io.Pf("%s\n", asciigraph.Plot(doh, asciigraph.Height(10), asciigraph.Caption("degree of hydration")))
	if adiabatic {
		io.Pf("\n%s\n", asciigraph.Plot(temp, asciigraph.Height(10), asciigraph.Caption("temperature")))
	}
	last := res[len(res)-1]
	io.Pf("t = %g  doh = %g  T = %g\n", last.T, last.DoH, last.Temp)
	if plotDir != "" {
		err = hydration.PlotCurve(res, plotDir, sim.Key)
	}
	return
}

func beamSection(cmd *cobra.Command, args []string) (err error) {
	d := make([]float64, 4)
	copy(d, secDims)
	var sec *ana.CrossSection
	if secType == "circle" {
		sec, err = ana.NewCrossSection(secType, 0, 0, 0, 0, d[0])
	} else {
		sec, err = ana.NewCrossSection(secType, d[0], d[1], d[2], d[3], 0)
	}
	if err != nil {
		return
	}
	mat, err := ana.NewRefMaterial(args[1], unitPres)
	if err != nil {
		return
	}
	s, err := ana.MaterialYAML(ana.BeamMaterial(args[0], mat, sec))
	if err != nil {
		return
	}
	io.Pf("%s", s)
	return
}

func cohesivePath(cmd *cobra.Command, args []string) (err error) {
	sim, err := inp.ReadSim(args[0])
	if err != nil {
		return
	}
	var model cohesive.Model
	for _, mat := range sim.Materials {
		if matName != "" && mat.Name != matName {
			continue
		}
		if m, ok := mat.Mdl.(cohesive.Model); ok {
			model = m
			break
		}
	}
	if model == nil {
		return chk.Err("cannot find cohesive material %q in %q", matName, args[0])
	}
	var drv cohesive.Driver
	drv.Init(model, 2)
	err = drv.Run(cohesive.OpeningPath(2, npoints, jmax))
	if err != nil {
		return
	}
	tn := make([]float64, len(drv.Res))
	dmg := make([]float64, len(drv.Res))
	for i, r := range drv.Res {
		tn[i], dmg[i] = r.Traction[1], r.Damage
	}
	io.Pf("%s\n", asciigraph.Plot(tn, asciigraph.Height(10), asciigraph.Caption("normal traction along path")))
	io.Pf("\n%s\n", asciigraph.Plot(dmg, asciigraph.Height(10), asciigraph.Caption("damage along path")))
	if plotDir != "" {
		err = cohesive.Plot(drv.Res, plotDir, sim.Key)
	}
	return
}
