/*package field contains the named scalar fields that sinkcore reads from a
simulation snapshot. Every field is sampled on the same cubic grid of N^3
cells and carries the physical bounds of that grid. */
package field

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/flash-cores/sinkcore/geom"
)

var (
	// ErrOutOfRange is returned when a flat index lies outside the grid.
	ErrOutOfRange = errors.New("index out of range")
	// ErrBoundsMismatch is returned when two fields are not co-registered.
	ErrBoundsMismatch = errors.New("field bounds mismatch")
)

// Bounds are the physical extents of a grid, ordered as
// xmin, xmax, ymin, ymax, zmin, zmax.
type Bounds [6]float64

// Min returns the lower bound along the given axis.
func (b *Bounds) Min(axis int) float64 { return b[2*axis] }

// Max returns the upper bound along the given axis.
func (b *Bounds) Max(axis int) float64 { return b[2*axis+1] }

// Field is a named scalar quantity sampled at the centers of an N^3 grid.
type Field struct {
	Name   string
	N      int
	Bounds Bounds
	Values []float32

	grid *geom.Grid
}

// New creates a Field with the given name, resolution, and bounds. If values
// is nil, a zeroed buffer is allocated.
func New(name string, n int, bounds Bounds, values []float32) (*Field, error) {
	if n <= 0 {
		return nil, fmt.Errorf("Field '%s' needs a positive width, got %d.", name, n)
	}

	g := geom.NewGrid(n)
	if values == nil {
		values = make([]float32, g.Volume)
	} else if len(values) != g.Volume {
		return nil, fmt.Errorf(
			"Field '%s' has %d values, but a %d^3 grid needs %d.",
			name, len(values), n, g.Volume,
		)
	}

	if bounds.Max(0) <= bounds.Min(0) {
		return nil, fmt.Errorf(
			"Field '%s' has an empty x range [%g, %g].",
			name, bounds.Min(0), bounds.Max(0),
		)
	}

	return &Field{Name: name, N: n, Bounds: bounds, Values: values, grid: g}, nil
}

// Grid returns the index mapping used by the field.
func (f *Field) Grid() *geom.Grid {
	if f.grid == nil || f.grid.Length != f.N {
		f.grid = geom.NewGrid(f.N)
	}
	return f.grid
}

// Len returns the number of cells in the field.
func (f *Field) Len() int { return len(f.Values) }

// CellWidth returns the width of a single cell. Cells are assumed to be
// isotropic, so only the x extent is used.
func (f *Field) CellWidth() float64 {
	return (f.Bounds.Max(0) - f.Bounds.Min(0)) / float64(f.N)
}

// CellVolume returns the volume of a single cell.
func (f *Field) CellVolume() float64 {
	dx := f.CellWidth()
	return dx * dx * dx
}

// PositionOf returns the physical position of the center of the cell at idx.
// The returned position must not be used if err is non-nil.
func (f *Field) PositionOf(idx int) (pos [3]float64, err error) {
	g := f.Grid()
	if !g.Contains(idx) {
		return pos, fmt.Errorf(
			"Cannot find the position of index %d in field '%s' with %d "+
				"cells: %w", idx, f.Name, g.Volume, ErrOutOfRange,
		)
	}

	dx := f.CellWidth()
	x, y, z := g.Coords(idx)
	pos[0] = f.Bounds.Min(0) + float64(x)*dx + dx/2
	pos[1] = f.Bounds.Min(1) + float64(y)*dx + dx/2
	pos[2] = f.Bounds.Min(2) + float64(z)*dx + dx/2
	return pos, nil
}

// CheckBounds returns an error if any two of the given fields do not share
// the same resolution and the same bounds. Bounds are written once and never
// recomputed, so exact comparison is used.
func CheckBounds(fields ...*Field) error {
	for i := 1; i < len(fields); i++ {
		prev, curr := fields[i-1], fields[i]
		if prev.N != curr.N {
			return fmt.Errorf(
				"Fields '%s' and '%s' have widths %d and %d: %w",
				prev.Name, curr.Name, prev.N, curr.N, ErrBoundsMismatch,
			)
		}
		if prev.Bounds != curr.Bounds {
			return fmt.Errorf(
				"Fields '%s' and '%s' have bounds %v and %v: %w",
				prev.Name, curr.Name, prev.Bounds, curr.Bounds,
				ErrBoundsMismatch,
			)
		}
	}
	return nil
}

// Summary describes the extreme values of a field.
type Summary struct {
	Name           string
	Min, Max       float64
	MinIdx, MaxIdx int
}

// Summarize returns the minimum and maximum values of a field and where they
// occur. The first occurrence wins ties.
func Summarize(f *Field) Summary {
	if len(f.Values) == 0 {
		return Summary{Name: f.Name, MinIdx: -1, MaxIdx: -1}
	}

	vals := make([]float64, len(f.Values))
	for i, v := range f.Values {
		vals[i] = float64(v)
	}
	minIdx, maxIdx := floats.MinIdx(vals), floats.MaxIdx(vals)

	return Summary{
		Name:   f.Name,
		Min:    vals[minIdx],
		Max:    vals[maxIdx],
		MinIdx: minIdx,
		MaxIdx: maxIdx,
	}
}
