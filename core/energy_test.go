package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flash-cores/sinkcore/field"
)

func TestBoundMassBowl(t *testing.T) {
	fs, bowl := bowlFields(t, -1e-3)
	seed := fs.Potential.Grid().Idx(bowlCenter, bowlCenter, bowlCenter)

	for _, seg := range []Segmenter{FloodFill{}, ContourTree{}} {
		r, err := seg.Segment(fs.Potential, seed)
		require.NoError(t, err)

		e, err := BoundMass(r, &fs, true)
		require.NoError(t, err)
		assert.Equal(t, r.Len(), e.Cells)
		assert.Equal(t, r.Len(), e.BoundCells)
		assert.InEpsilon(t, float64(r.Len()), e.RegionMass, 1e-12)
		assert.InEpsilon(t, e.RegionMass, e.BoundMass, 1e-6)
		assert.Equal(t, 1.0, e.BoundFraction())
		assert.Len(t, e.CellEnergies, r.Len())
	}

	// The contour tree region is exactly the bowl, so its reference
	// potential is the bowl's rim.
	r, err := ContourTree{}.Segment(fs.Potential, seed)
	require.NoError(t, err)
	require.Equal(t, bowl, r.Indices)
	e, err := BoundMass(r, &fs, false)
	require.NoError(t, err)
	assert.Equal(t, -1.0, e.ReferencePotential)
	assert.Equal(t, seed, e.Seed.Index)
	assert.InDelta(t, -4.0, e.Seed.Gravitational, 1e-12)
	assert.InDelta(t, -1e-3, e.Seed.Thermal, 1e-9)
	assert.Equal(t, 0.0, e.Seed.Kinetic)
	assert.Nil(t, e.CellEnergies)
}

func TestBoundMassReferenceCellUnbound(t *testing.T) {
	// With no internal energy the cells at the reference potential have
	// exactly zero energy and are not counted as bound.
	fs, _ := bowlFields(t, 0)
	seed := fs.Potential.Grid().Idx(bowlCenter, bowlCenter, bowlCenter)
	r, err := FloodFill{}.Segment(fs.Potential, seed)
	require.NoError(t, err)

	e, err := BoundMass(r, &fs, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.ReferencePotential)
	assert.Equal(t, r.Len()-1, e.BoundCells)
}

func TestBoundMassCoMVelocity(t *testing.T) {
	fs, _ := bowlFields(t, 0)
	g := fs.Potential.Grid()
	a, b := g.Idx(0, 0, 0), g.Idx(1, 0, 0)
	fs.Density.Values[a], fs.Density.Values[b] = 1, 3
	fs.VelX.Values[a], fs.VelX.Values[b] = 4, 0
	fs.VelY.Values[a], fs.VelY.Values[b] = 0, 2
	fs.VelZ.Values[a], fs.VelZ.Values[b] = -8, 8

	r := &Region{Indices: []int{a, b}, Seed: a}
	e, err := BoundMass(r, &fs, true)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, e.CoMVelocity[0], 1e-12)
	assert.InDelta(t, 1.5, e.CoMVelocity[1], 1e-12)
	assert.InDelta(t, 4.0, e.CoMVelocity[2], 1e-12)
	assert.InDelta(t, 4.0, e.RegionMass, 1e-12)

	// Cell a moves at (3, -1.5, -12) relative to the center of mass.
	assert.InDelta(t, 0.5*(9+2.25+144), e.Seed.Kinetic, 1e-9)
}

func TestBoundMassMonotonic(t *testing.T) {
	prev := -1.0
	for _, scale := range []float32{8, 4, 2, 1, 0.5, 0.25, 0} {
		fs, _ := bowlFields(t, 0.5*scale)
		g := fs.Potential.Grid()
		for idx := range fs.VelX.Values {
			x, y, z := g.Coords(idx)
			fs.VelX.Values[idx] = scale * float32(x-y)
			fs.VelY.Values[idx] = scale * float32(z)
			fs.VelZ.Values[idx] = -scale * float32(x)
		}

		seed := g.Idx(bowlCenter, bowlCenter, bowlCenter)
		r, err := FloodFill{}.Segment(fs.Potential, seed)
		require.NoError(t, err)
		e, err := BoundMass(r, &fs, false)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, e.BoundMass, prev, "scale = %g", scale)
		prev = e.BoundMass
	}
}

func TestBoundMassErrors(t *testing.T) {
	fs, _ := bowlFields(t, 0)

	_, err := BoundMass(&Region{}, &fs, false)
	assert.Error(t, err)
	_, err = BoundMass(nil, &fs, false)
	assert.Error(t, err)

	_, err = BoundMass(&Region{Indices: []int{fs.Potential.Len()}}, &fs, false)
	assert.True(t, errors.Is(err, field.ErrOutOfRange))

	zero := fs
	zero.Density = uniformField(t, "dens", bowlN, 0)
	_, err = BoundMass(&Region{Indices: []int{0}}, &zero, false)
	assert.Error(t, err)

	missing := fs
	missing.VelY = nil
	_, err = BoundMass(&Region{Indices: []int{0}}, &missing, false)
	assert.Error(t, err)

	shifted := fs
	shifted.InternalEnergy, _ = field.New("eint", bowlN, field.Bounds{1, 9, 0, 8, 0, 8}, nil)
	_, err = BoundMass(&Region{Indices: []int{0}}, &shifted, false)
	assert.True(t, errors.Is(err, field.ErrBoundsMismatch))
}
