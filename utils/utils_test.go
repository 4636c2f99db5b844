package utils

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	s := NewShape(3, 4, 5)
	assert.Equal(t, 3, s.Dim())
	assert.Equal(t, 60, s.Size())
	assert.Equal(t, Index{20, 5, 1}, s.Strides())
	assert.Equal(t, Index{1, 2, 2}, s.Center())
	assert.True(t, s.Odd().Equal(NewShape(5, 7, 9)))
	assert.True(t, s.Half().Equal(NewShape(1, 2, 2)))
	assert.Equal(t, 4., s.Mean())
	assert.True(t, s.Compare(LessOrEqual, NewShape(3, 5, 5)))
	assert.False(t, s.Compare(Less, NewShape(3, 5, 5)))
	assert.False(t, s.Compare(Equal, NewShape(3, 4)))

	sub := NewIndex(3)
	for ind := 0; ind < s.Size(); ind++ {
		s.Unravel(ind, sub)
		require.Equal(t, ind, s.Ravel(sub))
	}
	s.Unravel(27, sub)
	assert.Equal(t, Index{1, 1, 2}, sub)

	assert.NoError(t, NewShape(4, 4).Validate())
	assert.Error(t, NewShape(4).Validate())
	assert.Error(t, NewShape(4, 0).Validate())
	assert.Equal(t, "[3 4 5]", s.String())
}

func TestCoordinates(t *testing.T) {
	coord := NewShape(4, 3).Coordinates([]float64{2, 3})
	require.Len(t, coord, 2)
	// first axis: (i - 2) * 2/4, second axis: (j - 1) * 3/3
	assert.InDeltaSlice(t, []float64{-1, -1, -1, -0.5, -0.5, -0.5, 0, 0, 0, 0.5, 0.5, 0.5}, coord[0], 1.e-15)
	assert.InDeltaSlice(t, []float64{-1, 0, 1, -1, 0, 1, -1, 0, 1, -1, 0, 1}, coord[1], 1.e-15)
	assert.True(t, CeilDiv(NewShape(9, 4), NewShape(4, 4)).Equal(NewShape(3, 1)))
}

func TestMath(t *testing.T) {
	assert.Equal(t, 1., Sinc(0))
	assert.InDelta(t, 0, Sinc(3), 1.e-15)
	assert.InDelta(t, 2/math.Pi, Sinc(0.5), 1.e-15)
	assert.Equal(t, 16., POW(2, 4))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.InDelta(t, math.Pow(1.1, 11), POW(1.1, 11), 1.e-12)
	assert.Equal(t, []float64{2, 2, 2}, ConstArray(3, 2))

	assert.True(t, AllClose([]float64{1, 1.e-9}, []float64{1 + 1.e-7, 0}))
	assert.False(t, AllClose([]float64{1, 1.e-6}, []float64{1, 0}))
	assert.False(t, AllClose([]float64{1}, []float64{1, 0}))

	assert.True(t, IsNan(math.NaN()))
	assert.True(t, IsNan([]complex128{1, cmplx.NaN()}))
	assert.False(t, IsNan([][]complex128{{1, 2}, {3}}))
}

func TestMemUsage(t *testing.T) {
	mu := GetMemUsage()
	assert.Greater(t, mu.Sys, uint64(0))
	assert.GreaterOrEqual(t, mu.TotalAlloc, mu.Alloc)
	assert.Contains(t, mu.String(), "MiB")
}
