package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/flash-cores/sinkcore/field"
)

// SolarMass is the mass of the sun in grams.
const SolarMass = 2.0e33

// Fields are the co-registered grids needed to evaluate cell energies.
type Fields struct {
	Potential      *field.Field
	Density        *field.Field
	InternalEnergy *field.Field // specific internal energy
	VelX           *field.Field
	VelY           *field.Field
	VelZ           *field.Field
}

// List returns the fields in a fixed order.
func (fs *Fields) List() []*field.Field {
	return []*field.Field{
		fs.Potential, fs.Density, fs.InternalEnergy, fs.VelX, fs.VelY, fs.VelZ,
	}
}

// Check returns an error if a field is missing or the fields are not
// co-registered.
func (fs *Fields) Check() error {
	names := []string{"potential", "density", "internal energy",
		"x velocity", "y velocity", "z velocity"}
	list := fs.List()
	for i, f := range list {
		if f == nil {
			return fmt.Errorf("The %s field has not been loaded.", names[i])
		}
	}
	return field.CheckBounds(list...)
}

// CellEnergy is the energy budget of a single cell. Gravitational energy is
// measured relative to the highest potential in the region.
type CellEnergy struct {
	Index         int     `csv:"index" yaml:"index"`
	Mass          float64 `csv:"mass" yaml:"mass"`
	Kinetic       float64 `csv:"e_kin" yaml:"e_kin"`
	Thermal       float64 `csv:"e_therm" yaml:"e_therm"`
	Gravitational float64 `csv:"e_grav" yaml:"e_grav"`
	Total         float64 `csv:"e_total" yaml:"e_total"`
}

// Bound returns true if the cell's total energy is negative.
func (e *CellEnergy) Bound() bool { return e.Total < 0 }

// Energetics summarizes the boundedness of a region.
type Energetics struct {
	Cells      int
	BoundCells int

	RegionMass float64
	BoundMass  float64

	CoMVelocity        [3]float64
	ReferencePotential float64

	// Seed is the energy of the seed cell.
	Seed CellEnergy

	// CellEnergies holds every cell's energy if requested.
	CellEnergies []CellEnergy
}

// BoundFraction returns the fraction of the region's mass which is bound.
func (e *Energetics) BoundFraction() float64 {
	if e.RegionMass == 0 {
		return 0
	}
	return e.BoundMass / e.RegionMass
}

// BoundMass computes the energy of every cell in region and sums the mass of
// the cells with negative total energy. Velocities are measured relative to
// the region's center of mass velocity. All sums are done in double
// precision. If keepCells is true, every cell's energy is returned.
func BoundMass(
	region *Region, fs *Fields, keepCells bool,
) (*Energetics, error) {
	if region == nil || region.Len() == 0 {
		return nil, errors.New("Cannot compute the bound mass of an empty region.")
	}
	if err := fs.Check(); err != nil {
		return nil, err
	}
	g := fs.Potential.Grid()
	for _, idx := range region.Indices {
		if !g.Contains(idx) {
			return nil, fmt.Errorf(
				"Region contains index %d, but the grid has %d cells: %w",
				idx, g.Volume, field.ErrOutOfRange,
			)
		}
	}

	cellVol := fs.Potential.CellVolume()
	rho, phi, eint := fs.Density.Values, fs.Potential.Values, fs.InternalEnergy.Values
	vx, vy, vz := fs.VelX.Values, fs.VelY.Values, fs.VelZ.Values

	e := &Energetics{Cells: region.Len(), ReferencePotential: math.Inf(-1)}

	var px, py, pz float64
	for _, idx := range region.Indices {
		m := cellVol * float64(rho[idx])
		px += m * float64(vx[idx])
		py += m * float64(vy[idx])
		pz += m * float64(vz[idx])
		e.RegionMass += m

		if p := float64(phi[idx]); p > e.ReferencePotential {
			e.ReferencePotential = p
		}
	}

	if e.RegionMass == 0 {
		return nil, errors.New("Region has zero mass, so it has no center of mass velocity.")
	}
	e.CoMVelocity = [3]float64{
		px / e.RegionMass, py / e.RegionMass, pz / e.RegionMass,
	}

	if keepCells {
		e.CellEnergies = make([]CellEnergy, 0, region.Len())
	}

	for _, idx := range region.Indices {
		m := cellVol * float64(rho[idx])
		dvx := float64(vx[idx]) - e.CoMVelocity[0]
		dvy := float64(vy[idx]) - e.CoMVelocity[1]
		dvz := float64(vz[idx]) - e.CoMVelocity[2]

		ce := CellEnergy{
			Index:         idx,
			Mass:          m,
			Kinetic:       0.5 * m * (dvx*dvx + dvy*dvy + dvz*dvz),
			Thermal:       m * float64(eint[idx]),
			Gravitational: m * (float64(phi[idx]) - e.ReferencePotential),
		}
		ce.Total = ce.Kinetic + ce.Thermal + ce.Gravitational

		if ce.Bound() {
			e.BoundMass += m
			e.BoundCells++
		}
		if idx == region.Seed {
			e.Seed = ce
		}
		if keepCells {
			e.CellEnergies = append(e.CellEnergies, ce)
		}
	}

	return e, nil
}
