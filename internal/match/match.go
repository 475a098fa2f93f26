// Package match plays multi-hand matches between bots and schedules
// tournaments of matches with Elo ratings.
package match

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/game"
	"github.com/lox/holdem-arena/internal/gameid"
	"github.com/lox/holdem-arena/internal/randutil"
	"github.com/lox/holdem-arena/internal/rating"
	"github.com/lox/holdem-arena/internal/sandbox"
	"github.com/lox/holdem-arena/internal/statistics"
)

// Result is the fully serializable outcome of a match.
type Result struct {
	ID             string             `json:"id"`
	Seed           int64              `json:"seed"`
	Config         Config             `json:"config"`
	HandsPlayed    int                `json:"hands_played"`
	DealerSequence []int              `json:"dealer_sequence"`
	FinalStacks    []int              `json:"final_stacks"`
	ChipsWon       []int              `json:"chips_won"`
	Hands          []*game.HandResult `json:"hands"`
	// BotLogs and BotErrors hold the tail of each seat's print output and
	// decision failures.
	BotLogs   []string `json:"bot_logs"`
	BotErrors []string `json:"bot_errors"`
}

// Option configures RunMatch and RunTournament.
type Option func(*options)

type options struct {
	logger     *log.Logger
	sandbox    *sandbox.Sandbox
	provider   game.DecisionProvider
	ratings    *rating.Table
	onComplete func(MatchSummary)
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSandbox sets the sandbox bot code runs in.
func WithSandbox(sb *sandbox.Sandbox) Option {
	return func(o *options) {
		o.sandbox = sb
	}
}

// WithProvider makes every seat decide with p instead of running bot code.
// The bot code is then not compiled.
func WithProvider(p game.DecisionProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.sandbox == nil {
		o.sandbox = sandbox.New(sandbox.WithLogger(o.logger))
	}
	return o
}

// RunMatch plays up to cfg.Hands hands between the given bots, one per seat.
// Hand h is dealt with the button at seat h mod seats from a seed derived
// from (seed, h), and stacks carry over between hands. The match ends early
// once fewer than two seats have chips.
//
// Bot failures never abort a match: they are recorded in BotErrors and the
// seat checks or folds. Errors are returned for invalid configuration,
// game.ErrInvariant, and cancellation of ctx.
func RunMatch(ctx context.Context, codes []string, seed int64, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(codes) != cfg.Seats {
		return nil, fmt.Errorf("%w: got %d bots for %d seats", ErrConfig, len(codes), cfg.Seats)
	}

	o := buildOptions(opts)
	id := gameid.Match(seed, cfg.Seats)
	logger := o.logger.WithPrefix("match").With("match", id)

	seats := newBotSeats(o.sandbox, cfg.Seats, cfg.MaxLogBytes)
	provider := o.provider
	if provider == nil {
		seats.compile(codes)
		provider = seats
	}

	res := &Result{
		ID:             id,
		Seed:           seed,
		Config:         cfg,
		DealerSequence: []int{},
		Hands:          []*game.HandResult{},
	}
	stacks := make([]int, cfg.Seats)
	for i := range stacks {
		stacks[i] = cfg.StartingStack
	}

	logger.Info("match started", "seed", seed, "seats", cfg.Seats, "hands", cfg.Hands)
	for h := 0; h < cfg.Hands; h++ {
		if funded(stacks) < 2 {
			logger.Info("match ended early", "hand", h, "reason", "fewer than two funded seats")
			break
		}

		dealer := h % cfg.Seats
		hand, err := game.NewHand(randutil.SubSeed(seed, h), dealer, stacks, cfg.HandConfig(),
			game.WithLogger(logger),
			game.WithHandID(gameid.Hand(id, h)))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", h, err)
		}
		hr, err := hand.Play(ctx, provider)
		if err != nil {
			logger.Error("hand aborted", "hand", h, "err", err)
			return nil, fmt.Errorf("hand %d: %w", h, err)
		}

		res.Hands = append(res.Hands, hr)
		res.DealerSequence = append(res.DealerSequence, dealer)
		stacks = hr.FinalStacks
	}

	total := 0
	for _, s := range stacks {
		total += s
	}
	if want := cfg.StartingStack * cfg.Seats; total != want {
		return nil, fmt.Errorf("%w: match ended with %d chips, started with %d", game.ErrInvariant, total, want)
	}

	res.HandsPlayed = len(res.Hands)
	res.FinalStacks = slices.Clone(stacks)
	res.ChipsWon = make([]int, cfg.Seats)
	for i, s := range stacks {
		res.ChipsWon[i] = s - cfg.StartingStack
	}
	res.BotLogs = seats.logText()
	res.BotErrors = seats.errorText()

	logger.Info("match complete", "hands", res.HandsPlayed, "chips_won", res.ChipsWon)
	return res, nil
}

// SeatStatistics summarises each seat's per-hand results in big blinds.
func (r *Result) SeatStatistics() []*statistics.Statistics {
	out := make([]*statistics.Statistics, r.Config.Seats)
	for seat := range out {
		out[seat] = &statistics.Statistics{}
		for _, hr := range r.Hands {
			if hs, ok := handStatistics(hr, seat, r.Config.BigBlind); ok {
				out[seat].Add(hs)
			}
		}
	}
	return out
}

// handStatistics reports one seat's result in a hand. Seats that were not
// dealt in are skipped.
func handStatistics(hr *game.HandResult, seat, bigBlind int) (statistics.HandResult, bool) {
	if seat >= len(hr.HoleCards) || hr.HoleCards[seat] == nil {
		return statistics.HandResult{}, false
	}
	n := len(hr.FinalStacks)
	showdown := false
	if hr.End == game.EndShowdown {
		for _, pot := range hr.Pots {
			if slices.Contains(pot.Eligible, seat) {
				showdown = true
				break
			}
		}
	}
	return statistics.HandResult{
		NetBB:          float64(hr.Deltas[seat]) / float64(bigBlind),
		Position:       (seat - hr.DealerSeat + n) % n,
		WentToShowdown: showdown,
	}, true
}

func funded(stacks []int) int {
	n := 0
	for _, s := range stacks {
		if s > 0 {
			n++
		}
	}
	return n
}
