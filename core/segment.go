package core

import (
	"fmt"
	"sort"

	"github.com/flash-cores/sinkcore/field"
	"github.com/flash-cores/sinkcore/geom"
)

// Names of the available segmentation strategies.
const (
	FloodFillStrategy   = "flood_fill"
	ContourTreeStrategy = "contour_tree"
)

// Label is the state of a cell during region growth.
type Label uint8

const (
	Unassigned Label = iota
	Exterior
	Interior
)

// Region is a set of grid cells belonging to a sink's core.
type Region struct {
	// Indices are the cells of the region in ascending order.
	Indices []int
	// Seed is the cell the region was grown from. It is always a member.
	Seed int
	// Degenerate is set when growth ran through every cell without finding
	// a boundary, so the region is the entire grid.
	Degenerate bool
}

// Len returns the number of cells in the region.
func (r *Region) Len() int { return len(r.Indices) }

// Contains returns true if idx is a member of the region.
func (r *Region) Contains(idx int) bool {
	i := sort.SearchInts(r.Indices, idx)
	return i < len(r.Indices) && r.Indices[i] == idx
}

// Segmenter finds the core region around a seed cell of a potential field.
type Segmenter interface {
	Segment(pot *field.Field, seed int) (*Region, error)
}

// NewSegmenter returns the segmentation strategy with the given name. An
// empty name selects flood filling.
func NewSegmenter(name string) (Segmenter, error) {
	switch name {
	case "", FloodFillStrategy:
		return FloodFill{}, nil
	case ContourTreeStrategy:
		return ContourTree{}, nil
	}
	return nil, fmt.Errorf(
		"Unrecognized segmentation strategy '%s'. Accepted strategies are "+
			"'%s' and '%s'.", name, FloodFillStrategy, ContourTreeStrategy,
	)
}

// FloodFill grows a region outward from the seed in order of ascending
// potential. A cell joins the region if it touches the region but not the
// exterior, and growth stops at the first cell which touches both.
type FloodFill struct{}

// growArena is the working state of a single flood fill.
type growArena struct {
	order  []int
	labels []Label
	nbrs   []int
}

// Segment implements Segmenter.
func (FloodFill) Segment(pot *field.Field, seed int) (*Region, error) {
	g := pot.Grid()
	if !g.Contains(seed) {
		return nil, fmt.Errorf(
			"Seed index %d is outside field '%s' with %d cells: %w",
			seed, pot.Name, g.Volume, field.ErrOutOfRange,
		)
	}

	arena := &growArena{
		order:  TotalOrder(pot.Values),
		labels: make([]Label, g.Volume),
		nbrs:   make([]int, 0, 18),
	}
	degenerate := grow(g, arena, seed)

	return &Region{
		Indices:    labeled(arena.labels, Interior),
		Seed:       seed,
		Degenerate: degenerate,
	}, nil
}

// grow runs the labeling loop over arena.order and returns true if the order
// was exhausted without reaching a boundary cell. The seed is labeled
// Interior up front and is skipped when the traversal reaches it.
func grow(g *geom.Grid, arena *growArena, seed int) (exhausted bool) {
	labels := arena.labels
	labels[seed] = Interior

	for _, idx := range arena.order {
		if idx == seed {
			continue
		}

		arena.nbrs = g.Neighbors18(idx, arena.nbrs)
		interior, exterior := false, false
		for _, n := range arena.nbrs {
			switch labels[n] {
			case Interior:
				interior = true
			case Exterior:
				exterior = true
			}
		}

		switch {
		case !interior:
			labels[idx] = Exterior
		case !exterior:
			labels[idx] = Interior
		default:
			labels[idx] = Interior
			return false
		}
	}

	return true
}

// labeled returns every index with the given label in ascending order.
func labeled(labels []Label, l Label) []int {
	out := []int{}
	for i := range labels {
		if labels[i] == l {
			out = append(out, i)
		}
	}
	return out
}
