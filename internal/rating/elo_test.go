package rating

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func TestUpdateRatingsHeadsUp(t *testing.T) {
	t.Parallel()

	got, err := UpdateRatings([]float64{1500, 1500}, []float64{100, -100}, 24)
	require.NoError(t, err)
	assert.Greater(t, got[0], 1500.0)
	assert.Less(t, got[1], 1500.0)
	assert.InDelta(t, 3000, sum(got), 1e-9)
	assert.InDelta(t, 1512, got[0], 1e-9)
}

func TestUpdateRatingsDraw(t *testing.T) {
	t.Parallel()

	got, err := UpdateRatings([]float64{1500, 1500}, []float64{0, 0}, 24)
	require.NoError(t, err)
	assert.Equal(t, []float64{1500, 1500}, got)
}

func TestUpdateRatingsUpset(t *testing.T) {
	t.Parallel()

	// The weaker player winning gains more than the stronger player would.
	upset, err := UpdateRatings([]float64{1400, 1600}, []float64{50, -50}, 24)
	require.NoError(t, err)
	expected, err := UpdateRatings([]float64{1400, 1600}, []float64{-50, 50}, 24)
	require.NoError(t, err)

	assert.Greater(t, upset[0]-1400, expected[1]-1600)
	assert.InDelta(t, 3000, sum(upset), 1e-9)
}

func TestUpdateRatingsMultiway(t *testing.T) {
	t.Parallel()

	got, err := UpdateRatings([]float64{1500, 1500, 1500}, []float64{300, 0, -300}, 24)
	require.NoError(t, err)
	// Winner beats both opponents: 2 * 24 * 0.5 / 2.
	assert.InDelta(t, 1512, got[0], 1e-9)
	assert.InDelta(t, 1500, got[1], 1e-9)
	assert.InDelta(t, 1488, got[2], 1e-9)
}

func TestUpdateRatingsZeroSum(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		n := 2 + rng.IntN(8)
		ratings := make([]float64, n)
		scores := make([]float64, n)
		for i := range n {
			ratings[i] = 1000 + rng.Float64()*1000
			scores[i] = float64(rng.IntN(5) - 2)
		}
		got, err := UpdateRatings(ratings, scores, 32)
		require.NoError(t, err)
		assert.InDelta(t, sum(ratings), sum(got), 1e-6)
	}
}

func TestUpdateRatingsEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := UpdateRatings([]float64{1500}, []float64{1, 2}, 24)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		got, err := UpdateRatings(nil, nil, 24)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("single participant unchanged", func(t *testing.T) {
		t.Parallel()
		got, err := UpdateRatings([]float64{1723}, []float64{500}, 24)
		require.NoError(t, err)
		assert.Equal(t, []float64{1723}, got)
	})

	t.Run("non-finite reset to default", func(t *testing.T) {
		t.Parallel()
		got, err := UpdateRatings([]float64{math.NaN(), math.Inf(1)}, []float64{0, 0}, 24)
		require.NoError(t, err)
		assert.Equal(t, []float64{Default, Default}, got)
	})

	t.Run("clamped", func(t *testing.T) {
		t.Parallel()
		got, err := UpdateRatings([]float64{3995, 105}, []float64{-1, 1}, 400)
		require.NoError(t, err)
		for _, r := range got {
			assert.GreaterOrEqual(t, r, MinRating)
			assert.LessOrEqual(t, r, MaxRating)
		}
	})

	t.Run("input not modified", func(t *testing.T) {
		t.Parallel()
		in := []float64{1500, 1500}
		_, err := UpdateRatings(in, []float64{1, 0}, 24)
		require.NoError(t, err)
		assert.Equal(t, []float64{1500, 1500}, in)
	})
}

func TestExpected(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, Expected(1500, 1500), 1e-12)
	assert.InDelta(t, 1, Expected(1900, 1500)+Expected(1500, 1900), 1e-12)
	assert.InDelta(t, 1/(1+math.Pow(10, -1)), Expected(1900, 1500), 1e-12)
}
