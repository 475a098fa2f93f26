// Package rating maintains Elo ratings for bots that play multi-way matches.
package rating

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Default is the rating of a bot that has never played.
	Default = 1500.0
	// DefaultKFactor scales how far one match moves a rating.
	DefaultKFactor = 24.0

	MinRating = 100.0
	MaxRating = 4000.0
)

// ErrLengthMismatch is returned when ratings and scores differ in length.
var ErrLengthMismatch = errors.New("ratings and scores must have the same length")

// Expected returns the expected score of a player rated a against one rated b.
func Expected(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// UpdateRatings applies one multi-way result using pairwise Elo. Every pair
// of participants is scored as a win, loss or draw by comparing their scores
// (higher is better, equal scores draw). Each participant's summed delta is
// divided by its number of opponents so k keeps its meaning at any table
// size. Non-finite input ratings are treated as Default and results are
// clamped to [MinRating, MaxRating].
func UpdateRatings(ratings, scores []float64, k float64) ([]float64, error) {
	if len(ratings) != len(scores) {
		return nil, fmt.Errorf("%w: %d ratings, %d scores", ErrLengthMismatch, len(ratings), len(scores))
	}

	n := len(ratings)
	current := make([]float64, n)
	for i, r := range ratings {
		current[i] = Sanitize(r)
	}
	if n <= 1 {
		return current, nil
	}

	deltas := Deltas(current, scores, k)
	out := make([]float64, n)
	for i := range current {
		out[i] = Clamp(current[i] + deltas[i])
	}
	return out, nil
}

// Deltas returns the unclamped rating change for each participant. The
// deltas sum to zero. Ratings and scores must have equal length.
func Deltas(ratings, scores []float64, k float64) []float64 {
	n := len(ratings)
	deltas := make([]float64, n)
	if n <= 1 {
		return deltas
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			si := outcome(scores[i], scores[j])
			ei := Expected(ratings[i], ratings[j])
			d := k * (si - ei)
			deltas[i] += d
			deltas[j] -= d
		}
	}
	denom := float64(n - 1)
	for i := range deltas {
		deltas[i] /= denom
	}
	return deltas
}

func outcome(a, b float64) float64 {
	switch {
	case a > b:
		return 1
	case a < b:
		return 0
	default:
		return 0.5
	}
}

// Sanitize replaces NaN and infinite ratings with Default.
func Sanitize(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Default
	}
	return r
}

// Clamp bounds r to [MinRating, MaxRating]; non-finite values become Default.
func Clamp(r float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, Sanitize(r)))
}
