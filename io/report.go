package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/flash-cores/sinkcore/core"
	"github.com/flash-cores/sinkcore/sink"
)

// Summary is the machine readable result of a core analysis.
type Summary struct {
	SinkID   int    `yaml:"sink_id"`
	Strategy string `yaml:"strategy"`
	Cells    int    `yaml:"cells"`

	Seed         int     `yaml:"seed"`
	SeedDistance float64 `yaml:"seed_distance"`
	FloorHits    int     `yaml:"distance_floor_hits"`

	RegionCells int  `yaml:"region_cells"`
	BoundCells  int  `yaml:"bound_cells"`
	Degenerate  bool `yaml:"degenerate"`

	RegionMass         float64    `yaml:"region_mass"`
	BoundMass          float64    `yaml:"bound_mass"`
	RegionMassSolar    float64    `yaml:"region_mass_msol"`
	BoundMassSolar     float64    `yaml:"bound_mass_msol"`
	BoundFraction      float64    `yaml:"bound_fraction"`
	CoMVelocity        [3]float64 `yaml:"com_velocity"`
	ReferencePotential float64    `yaml:"reference_potential"`

	SeedEnergy core.CellEnergy `yaml:"seed_energy"`
}

// NewSummary collects the results of an analysis into a Summary.
func NewSummary(
	id int, strategy string, n int,
	m *core.Mapping, r *core.Region, e *core.Energetics,
) *Summary {
	return &Summary{
		SinkID:   id,
		Strategy: strategy,
		Cells:    n,

		Seed:         m.Seed,
		SeedDistance: m.SeedDistance,
		FloorHits:    m.FloorHits,

		RegionCells: r.Len(),
		BoundCells:  e.BoundCells,
		Degenerate:  r.Degenerate,

		RegionMass:         e.RegionMass,
		BoundMass:          e.BoundMass,
		RegionMassSolar:    e.RegionMass / core.SolarMass,
		BoundMassSolar:     e.BoundMass / core.SolarMass,
		BoundFraction:      e.BoundFraction(),
		CoMVelocity:        e.CoMVelocity,
		ReferencePotential: e.ReferencePotential,

		SeedEnergy: e.Seed,
	}
}

// WriteSummaryYAML writes a summary to the named file.
func WriteSummaryYAML(file string, s *Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return os.WriteFile(file, data, 0644)
}

// ReadSummaryYAML reads a summary written by WriteSummaryYAML.
func ReadSummaryYAML(file string) (*Summary, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	s := &Summary{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decoding summary %s: %w", file, err)
	}
	return s, nil
}

// WriteCellEnergiesCSV writes one row per core cell to the named file.
func WriteCellEnergiesCSV(file string, cells []core.CellEnergy) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err = gocsv.Marshal(cells, f); err != nil {
		err = fmt.Errorf("writing cell energies: %w", err)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// SinkRow is a single line of the sink table.
type SinkRow struct {
	ID            int     `csv:"id"`
	Mass          float64 `csv:"mass"`
	MassSolar     float64 `csv:"mass_msol"`
	X             float64 `csv:"x"`
	Y             float64 `csv:"y"`
	Z             float64 `csv:"z"`
	Vx            float64 `csv:"vx"`
	Vy            float64 `csv:"vy"`
	Vz            float64 `csv:"vz"`
	FormationTime float64 `csv:"formation_time"`
	AccretionRate float64 `csv:"accretion_rate"`
}

// WriteSinksCSV writes the sinks, in ID order, to the named file.
func WriteSinksCSV(file string, sinks []sink.Sink) error {
	rows := make([]SinkRow, len(sinks))
	for i, s := range sinks {
		rows[i] = SinkRow{
			ID: s.ID, Mass: s.Mass, MassSolar: s.Mass / core.SolarMass,
			X: s.Position[0], Y: s.Position[1], Z: s.Position[2],
			Vx: s.Velocity[0], Vy: s.Velocity[1], Vz: s.Velocity[2],
			FormationTime: s.FormationTime, AccretionRate: s.AccretionRate,
		}
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err = gocsv.Marshal(rows, f); err != nil {
		err = fmt.Errorf("writing sinks: %w", err)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// OutputFiles returns the paths of the files written to an output directory.
func OutputFiles(dir string, id int) (summary, cells, sinks string) {
	return filepath.Join(dir, fmt.Sprintf("sink%d_summary.yaml", id)),
		filepath.Join(dir, fmt.Sprintf("sink%d_cell_energies.csv", id)),
		filepath.Join(dir, "sinks.csv")
}
