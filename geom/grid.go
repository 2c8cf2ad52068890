package geom

// Grid provides an interface for reasoning over a 1D slice as if it were a
// cubic 3D grid. x varies fastest, so idx = z*N^2 + y*N + x.
type Grid struct {
	Length, Area, Volume int
}

// neighborOffsets18 lists the face and edge neighbors of a cell. Corner
// offsets (where all three components are non-zero) are excluded.
var neighborOffsets18 = buildOffsets18()

func buildOffsets18() [][3]int {
	offsets := make([][3]int, 0, 18)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nonZero := 0
				if dx != 0 {
					nonZero++
				}
				if dy != 0 {
					nonZero++
				}
				if dz != 0 {
					nonZero++
				}
				if nonZero == 1 || nonZero == 2 {
					offsets = append(offsets, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return offsets
}

// NewGrid returns a new Grid instance with n cells on a side.
func NewGrid(n int) *Grid {
	g := &Grid{}
	g.Init(n)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(n int) {
	g.Length = n
	g.Area = n * n
	g.Volume = n * n * n
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return x + y*g.Length + z*g.Area
}

// IdxCheck returns an index and true if the given coordinate are valid and
// false otherwise.
func (g *Grid) IdxCheck(x, y, z int) (idx int, ok bool) {
	if !g.BoundsCheck(x, y, z) {
		return -1, false
	}

	return g.Idx(x, y, z), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return (0 <= x && 0 <= y && 0 <= z) &&
		(x < g.Length && y < g.Length && z < g.Length)
}

// Contains returns true if idx is a valid flat index into the Grid.
func (g *Grid) Contains(idx int) bool {
	return idx >= 0 && idx < g.Volume
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.Length
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

// Neighbors18 appends the indices of the face- and edge-adjacent cells of idx
// to buf and returns it. Neighbors which would fall outside the grid are
// dropped; the grid is not periodic.
func (g *Grid) Neighbors18(idx int, buf []int) []int {
	buf = buf[:0]
	x, y, z := g.Coords(idx)
	for _, off := range neighborOffsets18 {
		nIdx, ok := g.IdxCheck(x+off[0], y+off[1], z+off[2])
		if ok {
			buf = append(buf, nIdx)
		}
	}
	return buf
}
