package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flash-cores/sinkcore/field"
)

const (
	bowlN      = 8
	bowlCenter = 4
	bowlR2     = 4 // squared radius of the bowl, in cells
)

var unitBounds = field.Bounds{0, bowlN, 0, bowlN, 0, bowlN}

// bowlValue is zero outside a ball of radius 2 cells around the center of
// an 8^3 grid and negative inside it, deepest at the center.
func bowlValue(x, y, z int) (float32, bool) {
	dx, dy, dz := x-bowlCenter, y-bowlCenter, z-bowlCenter
	r2 := dx*dx + dy*dy + dz*dz
	if r2 > bowlR2 {
		return 0, false
	}
	return -float32(bowlR2 + 1 - r2), true
}

// bowlField returns the bowl potential and the indices of the bowl's cells
// in ascending order.
func bowlField(t *testing.T) (*field.Field, []int) {
	f, err := field.New("gpot", bowlN, unitBounds, nil)
	require.NoError(t, err)

	g := f.Grid()
	bowl := []int{}
	for idx := range f.Values {
		x, y, z := g.Coords(idx)
		v, in := bowlValue(x, y, z)
		f.Values[idx] = v
		if in {
			bowl = append(bowl, idx)
		}
	}
	return f, bowl
}

// uniformField returns a field with every value set to v.
func uniformField(t *testing.T, name string, n int, v float32) *field.Field {
	f, err := field.New(name, n, field.Bounds{0, float64(n), 0, float64(n), 0, float64(n)}, nil)
	require.NoError(t, err)
	for i := range f.Values {
		f.Values[i] = v
	}
	return f
}

// bowlFields returns a full set of fields around the bowl potential with
// unit density, no motion, and the given specific internal energy.
func bowlFields(t *testing.T, eint float32) (Fields, []int) {
	pot, bowl := bowlField(t)
	return Fields{
		Potential:      pot,
		Density:        uniformField(t, "dens", bowlN, 1),
		InternalEnergy: uniformField(t, "eint", bowlN, eint),
		VelX:           uniformField(t, "velx", bowlN, 0),
		VelY:           uniformField(t, "vely", bowlN, 0),
		VelZ:           uniformField(t, "velz", bowlN, 0),
	}, bowl
}
