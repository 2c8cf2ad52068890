package core

import (
	"fmt"
	"math"
	"runtime"

	"github.com/flash-cores/sinkcore/field"
	"github.com/flash-cores/sinkcore/sink"
)

const (
	// G is the gravitational constant in cgs units.
	G = 6.674e-8
	// DistanceFloor replaces a cell-to-sink distance of exactly zero. This
	// caps the potential of a sink sitting on a cell center instead of
	// dividing by zero.
	DistanceFloor = 0.01
)

// NumCores is the number of workers used by parallel loops when no explicit
// count is given.
var NumCores = runtime.NumCPU()

// Mapping is the result of superposing sink potentials onto a potential
// field.
type Mapping struct {
	// Seed is the index of the cell closest to the target sink.
	Seed int
	// SeedDistance is the distance from Seed's center to the target sink.
	SeedDistance float64
	// FloorHits counts the (cell, sink) pairs which used DistanceFloor.
	FloorHits int
}

// gravityWorker holds the per-worker state of MapSinkGravity.
type gravityWorker struct {
	start, end int
	seed       int
	seedDist   float64
	floorHits  int
	err        error
}

// MapSinkGravity subtracts G*m/r for every sink from every cell of pot and
// returns the cell closest to the sink with ID targetID. pot is modified in
// place. Only the target sink is used to choose the seed, but every sink
// contributes to the potential.
func MapSinkGravity(
	pot *field.Field, sinks []sink.Sink, targetID, workers int,
) (*Mapping, error) {
	target := -1
	for i := range sinks {
		if sinks[i].ID == targetID {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, fmt.Errorf(
			"Target sink %d is not among the %d known sinks: %w",
			targetID, len(sinks), sink.ErrUnknownSink,
		)
	}

	if workers <= 0 {
		workers = NumCores
	}
	n := pot.Len()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		return nil, fmt.Errorf("Potential field '%s' has no cells.", pot.Name)
	}

	// Each worker owns a contiguous slab of cells, so every cell is written
	// exactly once and the result does not depend on the worker count.
	ws := make([]gravityWorker, workers)
	for i := range ws {
		ws[i].start = i * n / workers
		ws[i].end = (i + 1) * n / workers
	}

	out := make(chan int, workers)
	for id := range ws {
		go func(id int) {
			ws[id].superpose(pot, sinks, target)
			out <- id
		}(id)
	}
	for i := 0; i < workers; i++ {
		<-out
	}

	m := &Mapping{Seed: -1, SeedDistance: math.Inf(+1)}
	for i := range ws {
		if ws[i].err != nil {
			return nil, ws[i].err
		}
		m.FloorHits += ws[i].floorHits
		// Strict comparison in slab order keeps the lowest index on ties.
		if ws[i].seed != -1 && ws[i].seedDist < m.SeedDistance {
			m.Seed, m.SeedDistance = ws[i].seed, ws[i].seedDist
		}
	}

	return m, nil
}

func (w *gravityWorker) superpose(
	pot *field.Field, sinks []sink.Sink, target int,
) {
	w.seed, w.seedDist = -1, math.Inf(+1)

	for idx := w.start; idx < w.end; idx++ {
		pos, err := pot.PositionOf(idx)
		if err != nil {
			w.err = err
			return
		}

		phi := float64(pot.Values[idx])
		for j := range sinks {
			r := distance(&pos, &sinks[j].Position)
			if r == 0 {
				r = DistanceFloor
				w.floorHits++
			}

			if j == target && r < w.seedDist {
				w.seed, w.seedDist = idx, r
			}

			phi -= G * sinks[j].Mass / r
		}
		pot.Values[idx] = float32(phi)
	}
}

func distance(x1, x2 *[3]float64) float64 {
	dx, dy, dz := x1[0]-x2[0], x1[1]-x2[1], x1[2]-x2[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
