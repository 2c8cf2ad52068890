/*package core finds the dense core around a sink particle and measures how
much of it is gravitationally bound.

An Analyzer runs the three stages in order: sink potentials are added to the
gas potential, a region is grown outward from the cell closest to the sink,
and the energy of every cell in that region is evaluated. */
package core

import (
	"errors"
	"fmt"
	"log"

	"github.com/flash-cores/sinkcore/field"
	"github.com/flash-cores/sinkcore/sink"
)

// ErrNotMapped is returned when a core region is requested before sink
// gravity has been added to the potential.
var ErrNotMapped = errors.New("sink gravity has not been mapped")

// Analyzer is the run context for a single target sink. It owns the fields
// and is the only writer of the potential field.
type Analyzer struct {
	SinkID    int
	Sinks     []sink.Sink
	Fields    Fields
	Segmenter Segmenter
	Workers   int
	// KeepCells requests per-cell energies from CalculateBoundMass.
	KeepCells bool

	mapping *Mapping
	region  *Region
}

// NewAnalyzer creates an Analyzer for the sink with the given ID. It returns
// an error if the fields are not co-registered or the sink does not exist.
func NewAnalyzer(
	sinks []sink.Sink, id int, fs Fields, seg Segmenter,
) (*Analyzer, error) {
	if err := fs.Check(); err != nil {
		return nil, err
	}

	found := false
	for i := range sinks {
		if sinks[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf(
			"Sink %d requested, but only %d sinks are known: %w",
			id, len(sinks), sink.ErrUnknownSink,
		)
	}

	if seg == nil {
		seg = FloodFill{}
	}

	return &Analyzer{SinkID: id, Sinks: sinks, Fields: fs, Segmenter: seg}, nil
}

// Mapped returns true if sink gravity has been added to the potential.
func (a *Analyzer) Mapped() bool { return a.mapping != nil }

// Mapping returns the result of MapSinkGravity, or nil if it has not been
// called.
func (a *Analyzer) Mapping() *Mapping { return a.mapping }

// Region returns the most recently found core region, or nil.
func (a *Analyzer) Region() *Region { return a.region }

// MapSinkGravity adds the potential of every sink to the potential field.
// It may only be called once, since the field is modified in place.
func (a *Analyzer) MapSinkGravity() (*Mapping, error) {
	if a.mapping != nil {
		return nil, errors.New("Sink gravity has already been mapped.")
	}

	log.Println("Mapping sink gravity onto the potential.")
	m, err := MapSinkGravity(a.Fields.Potential, a.Sinks, a.SinkID, a.Workers)
	if err != nil {
		return nil, err
	}
	if m.FloorHits > 0 {
		log.Printf(
			"Warning: %d cell centers coincided with a sink; used a distance "+
				"of %g.", m.FloorHits, DistanceFloor,
		)
	}
	log.Printf("The closest cell to sink %d is index %d, with distance %g.",
		a.SinkID, m.Seed, m.SeedDistance)

	a.mapping = m
	return m, nil
}

// FindCoreRegion grows the core region around the target sink. It returns
// ErrNotMapped if MapSinkGravity has not been called; the call can be
// retried once it has.
func (a *Analyzer) FindCoreRegion() (*Region, error) {
	if a.mapping == nil {
		return nil, fmt.Errorf(
			"Cannot find the core region of sink %d: %w", a.SinkID, ErrNotMapped,
		)
	}

	r, err := a.Segmenter.Segment(a.Fields.Potential, a.mapping.Seed)
	if err != nil {
		return nil, err
	}
	if r.Degenerate {
		log.Printf(
			"Warning: the core region of sink %d grew to cover all %d cells.",
			a.SinkID, r.Len(),
		)
	}
	log.Printf("Core region of sink %d has %d cells.", a.SinkID, r.Len())

	a.region = r
	return r, nil
}

// CalculateBoundMass evaluates the energetics of the most recent core region.
func (a *Analyzer) CalculateBoundMass() (*Energetics, error) {
	if a.region == nil {
		return nil, fmt.Errorf(
			"Cannot compute the bound mass of sink %d before its core region "+
				"has been found.", a.SinkID,
		)
	}

	e, err := BoundMass(a.region, &a.Fields, a.KeepCells)
	if err != nil {
		return nil, err
	}

	log.Printf("Reference (max in core region) potential: %g",
		e.ReferencePotential)
	log.Printf("For the cell nearest the sink: Ekin = %g, Etherm = %g, "+
		"Egrav = %g, Etotal = %g",
		e.Seed.Kinetic, e.Seed.Thermal, e.Seed.Gravitational, e.Seed.Total)
	log.Printf("There were %d cells (%d bound).", e.Cells, e.BoundCells)
	log.Printf("Total core region mass (Msol): %g", e.RegionMass/SolarMass)
	log.Printf("Bound core mass (Msol): %g", e.BoundMass/SolarMass)

	return e, nil
}

// Run maps sink gravity, finds the core region, and computes its bound mass.
func (a *Analyzer) Run() (*Energetics, error) {
	if _, err := a.MapSinkGravity(); err != nil {
		return nil, err
	}
	if _, err := a.FindCoreRegion(); err != nil {
		return nil, err
	}
	return a.CalculateBoundMass()
}

// LogSummaries writes the extreme values of every field to the log.
func (a *Analyzer) LogSummaries() {
	log.Println("Data minimum and maximum check:")
	for _, f := range a.Fields.List() {
		s := field.Summarize(f)
		log.Printf("    %s: max %g at index %d, min %g at index %d",
			s.Name, s.Max, s.MaxIdx, s.Min, s.MinIdx)
	}
}
