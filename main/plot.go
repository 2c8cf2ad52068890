package main

import (
	"fmt"
	"log"
	"math"
	"path"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/flash-cores/sinkcore/core"
	"github.com/flash-cores/sinkcore/field"
)

// plotCore writes the diagnostic plots for a finished analysis to dir.
func plotCore(
	dir string, id int, pot *field.Field, r *core.Region, e *core.Energetics,
) {
	seedPos, err := pot.PositionOf(r.Seed)
	if err != nil {
		log.Fatal(err.Error())
	}

	plotPotentialSlice(dir, id, pot, r)
	plotEnergyProfile(dir, id, pot, seedPos, e)
	plt.Execute()
}

// plotPotentialSlice plots the mapped potential along the x axis through the
// seed cell, with core cells marked.
func plotPotentialSlice(dir string, id int, pot *field.Field, r *core.Region) {
	fname := path.Join(dir, fmt.Sprintf("potential_sink%d.png", id))
	g := pot.Grid()
	_, y, z := g.Coords(r.Seed)

	xs, phis := []float64{}, []float64{}
	coreXs, corePhis := []float64{}, []float64{}
	for x := 0; x < g.Length; x++ {
		idx := g.Idx(x, y, z)
		pos, _ := pot.PositionOf(idx)
		phi := float64(pot.Values[idx])

		xs, phis = append(xs, pos[0]), append(phis, phi)
		if r.Contains(idx) {
			coreXs, corePhis = append(coreXs, pos[0]), append(corePhis, phi)
		}
	}

	plt.Figure()
	plt.Plot(xs, phis, "k", plt.LW(2))
	if len(coreXs) > 0 {
		plt.Plot(coreXs, corePhis, "o", plt.C("r"))
	}
	plt.Title(fmt.Sprintf("Sink %d, %d core cells", id, r.Len()))
	plt.XLabel(`$x$ [cm]`, plt.FontSize(16))
	plt.YLabel(`$\Phi$ [erg/g]`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// plotEnergyProfile plots the specific total energy of every core cell
// against its distance from the seed cell.
func plotEnergyProfile(
	dir string, id int, pot *field.Field, seedPos [3]float64, e *core.Energetics,
) {
	if len(e.CellEnergies) == 0 {
		return
	}
	fname := path.Join(dir, fmt.Sprintf("energy_sink%d.png", id))

	boundRs, boundEs := []float64{}, []float64{}
	freeRs, freeEs := []float64{}, []float64{}
	for _, c := range e.CellEnergies {
		pos, _ := pot.PositionOf(c.Index)
		r := 0.0
		for k := 0; k < 3; k++ {
			dx := pos[k] - seedPos[k]
			r += dx * dx
		}
		r = math.Sqrt(r)

		specific := 0.0
		if c.Mass > 0 {
			specific = c.Total / c.Mass
		}
		if c.Bound() {
			boundRs, boundEs = append(boundRs, r), append(boundEs, specific)
		} else {
			freeRs, freeEs = append(freeRs, r), append(freeEs, specific)
		}
	}

	plt.Figure()
	plt.Plot([]float64{0, pot.CellWidth() * float64(pot.N)}, []float64{0, 0},
		"k", plt.LW(2))
	if len(boundRs) > 0 {
		plt.Plot(boundRs, boundEs, "o", plt.C("b"))
	}
	if len(freeRs) > 0 {
		plt.Plot(freeRs, freeEs, "o", plt.C("r"))
	}
	plt.Title(fmt.Sprintf(
		"Sink %d: %.3g of %.3g Msol bound", id,
		e.BoundMass/core.SolarMass, e.RegionMass/core.SolarMass,
	))
	plt.XLabel(`$R$ [cm]`, plt.FontSize(16))
	plt.YLabel(`$E_{\rm tot}/m$ [erg/g]`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.Grid(plt.Axis("x"), plt.Which("both"))
	plt.SaveFig(fname)
}
