package poker

import (
	"context"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-arena/internal/randutil"
)

// equityChunk is the number of samples handled per worker chunk. Chunking by
// sample count rather than by CPU count keeps results identical on every
// machine for the same seed.
const equityChunk = 256

// EstimateEquity estimates the share of the pot hole wins against opponents
// random hands, completing the board at random. Ties credit 1/k to each of
// the k tied hands. The result is in [0, 1] and deterministic for a seed.
//
// Malformed input (hole not two cards, board over five, invalid or repeated
// cards, not enough cards left to deal) yields 0. With no opponents the hand
// wins by default and the result is 1.
func EstimateEquity(hole, board []Card, opponents int, seed int64, samples int) float64 {
	if len(hole) != 2 || len(board) > 5 || opponents < 0 {
		return 0.0
	}
	known, err := NewCardSet(append(append(make([]Card, 0, 7), hole...), board...)...)
	if err != nil {
		return 0.0
	}
	if opponents == 0 {
		return 1.0
	}
	if samples <= 0 {
		return 0.0
	}

	sim := equitySim{
		hole:      hole,
		board:     board,
		opponents: opponents,
		available: known.Remaining(),
	}
	sim.boardNeed = 5 - len(board)
	sim.need = sim.boardNeed + 2*opponents
	if sim.need > len(sim.available) {
		return 0.0
	}

	chunks := (samples + equityChunk - 1) / equityChunk
	seeds := make([]int64, chunks)
	parent := randutil.New(seed)
	for i := range seeds {
		seeds[i] = int64(parent.Uint64())
	}
	sizeOf := func(i int) int {
		if i == chunks-1 {
			return samples - i*equityChunk
		}
		return equityChunk
	}

	credits := make([]float64, chunks)
	if chunks == 1 {
		credits[0] = sim.run(randutil.New(seeds[0]), sizeOf(0))
	} else {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range chunks {
			g.Go(func() error {
				credits[i] = sim.run(randutil.New(seeds[i]), sizeOf(i))
				return nil
			})
		}
		_ = g.Wait()
	}

	var total float64
	for _, c := range credits {
		total += c
	}
	return total / float64(samples)
}

type equitySim struct {
	hole      []Card
	board     []Card
	opponents int
	available []Card
	boardNeed int
	need      int
}

// run plays n random completions and returns the summed pot share.
func (s *equitySim) run(rng *rand.Rand, n int) float64 {
	deck := make([]Card, len(s.available))
	copy(deck, s.available)

	hero := make([]Card, 7)
	villain := make([]Card, 7)
	copy(hero, s.hole)
	copy(hero[2:], s.board)
	copy(villain[2:], s.board)

	var credit float64
	for range n {
		// Partial Fisher-Yates: only the first need positions are drawn.
		for j := 0; j < s.need; j++ {
			k := j + rng.IntN(len(deck)-j)
			deck[j], deck[k] = deck[k], deck[j]
		}
		runout := deck[:s.boardNeed]
		copy(hero[2+len(s.board):], runout)
		copy(villain[2+len(s.board):], runout)
		mine := bestOf(hero)

		tied, lost := 0, false
		for o := 0; o < s.opponents; o++ {
			off := s.boardNeed + 2*o
			villain[0], villain[1] = deck[off], deck[off+1]
			switch bestOf(villain).Compare(mine) {
			case 1:
				lost = true
			case 0:
				tied++
			}
			if lost {
				break
			}
		}
		if !lost {
			credit += 1.0 / float64(tied+1)
		}
	}
	return credit
}
