package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	t.Parallel()
	var s Statistics
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.Variance())
	assert.Equal(t, 0.0, s.StdError())
	assert.Equal(t, 0.0, s.Median())
}

func TestStatistics_MultipleValues(t *testing.T) {
	t.Parallel()
	var s Statistics
	for i, v := range []float64{-2, 4, 1, 5} {
		s.Add(HandResult{NetBB: v, Position: i % 2, WentToShowdown: v > 3})
	}

	assert.Equal(t, 4, s.Hands)
	assert.InDelta(t, 2.0, s.Mean(), 1e-9)
	assert.InDelta(t, 200.0, s.BBPer100(), 1e-9)
	assert.InDelta(t, 2.5, s.Median(), 1e-9)
	assert.InDelta(t, 10.0, s.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(10), s.StdDev(), 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, s.Mean())
	assert.Greater(t, hi, s.Mean())

	assert.Equal(t, 2, s.ShowdownWins)
	assert.Equal(t, 1, s.NonShowdownWins)
	assert.Equal(t, 2, s.Positions[0].Hands)
	require.NoError(t, s.Validate())
}

func TestStatistics_ValidateLedgerMismatch(t *testing.T) {
	t.Parallel()
	var s Statistics
	s.Add(HandResult{NetBB: 3})
	s.ShowdownBB = 10
	assert.Error(t, s.Validate())
}

func TestSliceHelpers(t *testing.T) {
	t.Parallel()
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean, err := Mean(xs)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mean, 1e-12)

	median, err := Median(xs)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, median, 1e-12)

	p, err := PStdDev(xs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p, 1e-12)

	s, err := StdDev(xs)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s, 1e-12)

	_, err = Mean(nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = StdDev([]float64{1})
	assert.ErrorIs(t, err, ErrNoData)
}
