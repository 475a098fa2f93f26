// Package statistics summarises per-hand results for a bot across matches and
// provides the small descriptive-statistics toolkit exposed to bot code.
package statistics

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrNoData is returned by the slice helpers when given no values.
var ErrNoData = errors.New("statistics requires at least one data point")

// HandResult represents the outcome of a single hand for one seat.
type HandResult struct {
	NetBB          float64 // Net big blinds won/lost
	Position       int     // Seats after the dealer, 0 for the dealer
	WentToShowdown bool
}

// PositionStats tracks statistics for a specific table position.
type PositionStats struct {
	Hands int
	SumBB float64
}

// Statistics accumulates a bot's hand results.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	Positions map[int]*PositionStats
}

// Add incorporates a hand result.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if result.WentToShowdown {
		s.ShowdownBB += netBB
		if netBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += netBB
		if netBB > 0 {
			s.NonShowdownWins++
		}
	}

	if s.Positions == nil {
		s.Positions = make(map[int]*PositionStats)
	}
	ps, ok := s.Positions[result.Position]
	if !ok {
		ps = &PositionStats{}
		s.Positions[result.Position] = ps
	}
	ps.Hands++
	ps.SumBB += netBB
}

// Mean returns the mean result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// BBPer100 returns the win rate in big blinds per hundred hands.
func (s *Statistics) BBPer100() float64 {
	return s.Mean() * 100
}

// Variance returns the sample variance of all results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(0, s.Variance()))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	m, err := Median(s.Values)
	if err != nil {
		return 0
	}
	return m
}

// Validate checks that the showdown split accounts for every result.
func (s *Statistics) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: sum=%.6f showdown=%.6f non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	total := 0
	for _, ps := range s.Positions {
		total += ps.Hands
	}
	if total != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)", total, s.Hands)
	}
	return nil
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNoData
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// Median returns the middle value of xs, averaging the two middle values
// for even lengths.
func Median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNoData
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2, nil
	}
	return sorted[n/2], nil
}

// PStdDev returns the population standard deviation of xs.
func PStdDev(xs []float64) (float64, error) {
	ss, err := sumSquares(xs)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(ss / float64(len(xs))), nil
}

// StdDev returns the sample standard deviation of xs; it needs two values.
func StdDev(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: sample standard deviation needs two", ErrNoData)
	}
	ss, err := sumSquares(xs)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(ss / float64(len(xs)-1)), nil
}

func sumSquares(xs []float64) (float64, error) {
	mean, err := Mean(xs)
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return ss, nil
}
