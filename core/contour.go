package core

import (
	"fmt"

	"github.com/flash-cores/sinkcore/field"
	"github.com/flash-cores/sinkcore/geom"
)

// ContourTree segments a field using the arcs of its join tree: the part of
// the contour tree which tracks how sublevel sets of the potential merge as
// the level rises. The region is every cell on the same arc as the seed.
//
// The sweep uses the same total order and 18-connectivity as FloodFill, so
// the two strategies can be compared on identical inputs.
type ContourTree struct{}

// contourContext is the working state of a join tree sweep. It is acquired
// at the start of Segment and released on every exit path.
type contourContext struct {
	grid *geom.Grid

	parent   []int32 // union-find forest, -1 for unprocessed cells
	size     []int32
	rootArc  []int32 // current arc of each component root
	arc      []int32 // arc each cell was assigned to
	nbrs     []int
	roots    []int32
	arcCount int32
	released bool
}

func newContourContext(g *geom.Grid) *contourContext {
	ctx := &contourContext{
		grid:    g,
		parent:  make([]int32, g.Volume),
		size:    make([]int32, g.Volume),
		rootArc: make([]int32, g.Volume),
		arc:     make([]int32, g.Volume),
		nbrs:    make([]int, 0, 18),
		roots:   make([]int32, 0, 18),
	}
	for i := range ctx.parent {
		ctx.parent[i] = -1
		ctx.arc[i] = -1
	}
	return ctx
}

func (ctx *contourContext) release() {
	ctx.parent, ctx.size, ctx.rootArc, ctx.arc = nil, nil, nil, nil
	ctx.nbrs, ctx.roots = nil, nil
	ctx.released = true
}

func (ctx *contourContext) find(i int32) int32 {
	root := i
	for ctx.parent[root] != root {
		root = ctx.parent[root]
	}
	for ctx.parent[i] != root {
		ctx.parent[i], i = root, ctx.parent[i]
	}
	return root
}

func (ctx *contourContext) union(a, b int32) int32 {
	if ctx.size[a] < ctx.size[b] {
		a, b = b, a
	}
	ctx.parent[b] = a
	ctx.size[a] += ctx.size[b]
	return a
}

func (ctx *contourContext) newArc() int32 {
	ctx.arcCount++
	return ctx.arcCount - 1
}

// add inserts idx into the sweep. A cell with no processed neighbors starts
// a new arc (a minimum), a cell touching one component continues that
// component's arc, and a cell joining several components is a saddle which
// starts a new arc for the merged component.
func (ctx *contourContext) add(idx int) {
	i := int32(idx)
	ctx.parent[i], ctx.size[i] = i, 1

	ctx.roots = ctx.roots[:0]
	ctx.nbrs = ctx.grid.Neighbors18(idx, ctx.nbrs)
	for _, n := range ctx.nbrs {
		if ctx.parent[n] == -1 {
			continue
		}
		r := ctx.find(int32(n))
		dup := false
		for _, seen := range ctx.roots {
			if seen == r {
				dup = true
				break
			}
		}
		if !dup {
			ctx.roots = append(ctx.roots, r)
		}
	}

	switch len(ctx.roots) {
	case 0:
		ctx.arc[i] = ctx.newArc()
		ctx.rootArc[i] = ctx.arc[i]
	case 1:
		ctx.arc[i] = ctx.rootArc[ctx.roots[0]]
		root := ctx.union(ctx.roots[0], i)
		ctx.rootArc[root] = ctx.arc[i]
	default:
		root := i
		for _, r := range ctx.roots {
			root = ctx.union(root, r)
		}
		ctx.arc[i] = ctx.newArc()
		ctx.rootArc[root] = ctx.arc[i]
	}
}

// Segment implements Segmenter.
func (ContourTree) Segment(pot *field.Field, seed int) (*Region, error) {
	g := pot.Grid()
	if !g.Contains(seed) {
		return nil, fmt.Errorf(
			"Seed index %d is outside field '%s' with %d cells: %w",
			seed, pot.Name, g.Volume, field.ErrOutOfRange,
		)
	}

	ctx := newContourContext(g)
	defer ctx.release()

	for _, idx := range TotalOrder(pot.Values) {
		ctx.add(idx)
	}

	seedArc := ctx.arc[seed]
	indices := []int{}
	for i, a := range ctx.arc {
		if a == seedArc {
			indices = append(indices, i)
		}
	}

	return &Region{
		Indices:    indices,
		Seed:       seed,
		Degenerate: len(indices) == g.Volume,
	}, nil
}
