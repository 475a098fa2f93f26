package match

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-arena/internal/gameid"
	"github.com/lox/holdem-arena/internal/randutil"
	"github.com/lox/holdem-arena/internal/rating"
	"github.com/lox/holdem-arena/internal/statistics"
)

// seatShuffleSalt decouples the seat shuffle from the scheduler's draws.
const seatShuffleSalt = 0x5F3759DF

// Bot is a named entrant.
type Bot struct {
	Name string `json:"name"`
	Code string `json:"-"`
}

// TournamentConfig describes a tournament.
type TournamentConfig struct {
	Seed     int64   `json:"seed"`
	Matches  int     `json:"matches"`
	Parallel int     `json:"parallel"`
	KFactor  float64 `json:"k_factor"`
	// Match is the per-match configuration; Seats is the largest table.
	Match Config `json:"match"`
}

// DefaultTournamentConfig returns twenty matches run on every CPU.
func DefaultTournamentConfig() TournamentConfig {
	return TournamentConfig{
		Matches:  20,
		Parallel: runtime.GOMAXPROCS(0),
		KFactor:  rating.DefaultKFactor,
		Match:    DefaultConfig(),
	}
}

// Validate checks the configuration for consistency.
func (c TournamentConfig) Validate() error {
	if c.Matches <= 0 {
		return fmt.Errorf("%w: matches must be positive, got %d", ErrConfig, c.Matches)
	}
	if c.Parallel <= 0 {
		return fmt.Errorf("%w: parallel must be positive, got %d", ErrConfig, c.Parallel)
	}
	if c.KFactor <= 0 {
		return fmt.Errorf("%w: k factor must be positive", ErrConfig)
	}
	return c.Match.Validate()
}

// Pairing is one scheduled match: which bots sit in which seats.
type Pairing struct {
	Index int   `json:"index"`
	Seed  int64 `json:"seed"`
	// Bots holds roster indexes in seat order.
	Bots []int `json:"bots"`
}

// Schedule assigns bots to matches. Each match takes the bots that have been
// scheduled least so far, breaking ties with a draw from seed, then shuffles
// their seats. The schedule depends only on its arguments.
func Schedule(bots, matches, seats int, seed int64) []Pairing {
	if bots < 2 || matches <= 0 {
		return nil
	}
	seats = min(seats, bots)
	rng := randutil.New(seed)
	played := make([]int, bots)
	out := make([]Pairing, matches)

	type candidate struct {
		bot    int
		played int
		draw   uint64
	}
	for m := range out {
		cands := make([]candidate, bots)
		for i := range cands {
			cands[i] = candidate{bot: i, played: played[i], draw: rng.Uint64()}
		}
		slices.SortFunc(cands, func(a, b candidate) int {
			if c := cmp.Compare(a.played, b.played); c != 0 {
				return c
			}
			return cmp.Compare(a.draw, b.draw)
		})

		table := make([]int, seats)
		for i := range table {
			table[i] = cands[i].bot
			played[table[i]]++
		}
		matchSeed := randutil.SubSeed(seed, m)
		seatRng := randutil.New(matchSeed ^ seatShuffleSalt)
		seatRng.Shuffle(len(table), func(i, j int) {
			table[i], table[j] = table[j], table[i]
		})
		out[m] = Pairing{Index: m, Seed: matchSeed, Bots: table}
	}
	return out
}

// MatchSummary is one finished tournament match with its rating changes.
type MatchSummary struct {
	Pairing
	Names   []string        `json:"names"`
	Result  *Result         `json:"result"`
	Changes []rating.Change `json:"rating_changes"`
}

// TournamentResult is the outcome of a tournament.
type TournamentResult struct {
	ID         string                           `json:"id"`
	Seed       int64                            `json:"seed"`
	Matches    []MatchSummary                   `json:"matches"`
	Standings  []rating.Entry                   `json:"standings"`
	Statistics map[string]*statistics.Statistics `json:"statistics"`
}

// WithRatings applies tournament results to an existing rating table.
func WithRatings(t *rating.Table) Option {
	return func(o *options) {
		o.ratings = t
	}
}

// WithOnMatchComplete registers a callback invoked for each match, in
// schedule order, after its ratings are applied.
func WithOnMatchComplete(fn func(MatchSummary)) Option {
	return func(o *options) {
		o.onComplete = fn
	}
}

// RunTournament plays the scheduled matches, up to cfg.Parallel at a time.
// Matches share nothing but the rating table, and results are committed to
// it in schedule order, so ratings do not depend on Parallel.
func RunTournament(ctx context.Context, bots []Bot, cfg TournamentConfig, opts ...Option) (*TournamentResult, error) {
	if len(bots) < 2 {
		return nil, fmt.Errorf("%w: need at least two bots, got %d", ErrConfig, len(bots))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(bots))
	for _, b := range bots {
		if b.Name == "" || names[b.Name] {
			return nil, fmt.Errorf("%w: bot names must be unique and non-empty, got %q", ErrConfig, b.Name)
		}
		names[b.Name] = true
	}

	o := buildOptions(opts)
	table := o.ratings
	if table == nil {
		table = rating.NewTable(cfg.KFactor)
	}
	id := gameid.Tournament(cfg.Seed)
	logger := o.logger.WithPrefix("tournament").With("tournament", id)
	matchOpts := []Option{WithLogger(o.logger), WithSandbox(o.sandbox)}
	if o.provider != nil {
		matchOpts = append(matchOpts, WithProvider(o.provider))
	}

	pairings := Schedule(len(bots), cfg.Matches, cfg.Match.Seats, cfg.Seed)
	res := &TournamentResult{
		ID:         id,
		Seed:       cfg.Seed,
		Matches:    make([]MatchSummary, len(pairings)),
		Statistics: make(map[string]*statistics.Statistics, len(bots)),
	}
	for _, b := range bots {
		res.Statistics[b.Name] = &statistics.Statistics{}
	}

	c := &committer{
		table:      table,
		results:    res,
		done:       make([]bool, len(pairings)),
		onComplete: o.onComplete,
	}

	logger.Info("tournament started", "bots", len(bots), "matches", len(pairings), "parallel", cfg.Parallel)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for _, p := range pairings {
		g.Go(func() error {
			mcfg := cfg.Match
			mcfg.Seats = len(p.Bots)
			codes := make([]string, len(p.Bots))
			seatNames := make([]string, len(p.Bots))
			for seat, bi := range p.Bots {
				codes[seat] = bots[bi].Code
				seatNames[seat] = bots[bi].Name
			}

			mr, err := RunMatch(gctx, codes, p.Seed, mcfg, matchOpts...)
			if err != nil {
				return fmt.Errorf("match %d: %w", p.Index, err)
			}
			return c.finish(MatchSummary{Pairing: p, Names: seatNames, Result: mr})
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("tournament aborted", "err", err)
		return nil, err
	}

	res.Standings = table.Standings()
	logger.Info("tournament complete", "matches", len(res.Matches))
	return res, nil
}

// committer applies finished matches to the rating table in schedule order.
type committer struct {
	mu         sync.Mutex
	next       int
	done       []bool
	table      *rating.Table
	results    *TournamentResult
	onComplete func(MatchSummary)
}

func (c *committer) finish(s MatchSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results.Matches[s.Index] = s
	c.done[s.Index] = true
	for c.next < len(c.done) && c.done[c.next] {
		if err := c.commit(&c.results.Matches[c.next]); err != nil {
			return err
		}
		c.next++
	}
	return nil
}

func (c *committer) commit(s *MatchSummary) error {
	scores := make([]float64, len(s.Result.ChipsWon))
	for i, won := range s.Result.ChipsWon {
		scores[i] = float64(won)
	}
	changes, err := c.table.Apply(s.Names, scores)
	if err != nil {
		return fmt.Errorf("match %d: %w", s.Index, err)
	}
	s.Changes = changes

	for seat, name := range s.Names {
		stats := c.results.Statistics[name]
		for _, hr := range s.Result.Hands {
			if hs, ok := handStatistics(hr, seat, s.Result.Config.BigBlind); ok {
				stats.Add(hs)
			}
		}
	}
	if c.onComplete != nil {
		c.onComplete(*s)
	}
	return nil
}
