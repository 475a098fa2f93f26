package match

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-arena/internal/game"
)

// ErrConfig is returned for invalid match or tournament configuration,
// including a bot count that does not match the seat count.
var ErrConfig = errors.New("invalid match config")

// Config describes one match. It is immutable once the match starts.
type Config struct {
	Seats         int `json:"seats"`
	Hands         int `json:"hands"`
	StartingStack int `json:"starting_stack"`
	SmallBlind    int `json:"small_blind"`
	BigBlind      int `json:"big_blind"`

	MaxActionsPerStreet int               `json:"max_actions_per_street"`
	RejectPolicy        game.RejectPolicy `json:"-"`
	EquitySamples       int               `json:"equity_samples"`

	// MaxLogBytes bounds the bot output and error text kept per seat.
	MaxLogBytes int `json:"-"`
}

// DefaultConfig returns a six-seat, fifty-hand match with 1000-chip stacks
// and 10/20 blinds.
func DefaultConfig() Config {
	hand := game.DefaultHandConfig()
	return Config{
		Seats:               6,
		Hands:               50,
		StartingStack:       1000,
		SmallBlind:          hand.SmallBlind,
		BigBlind:            hand.BigBlind,
		MaxActionsPerStreet: hand.MaxActionsPerStreet,
		RejectPolicy:        hand.RejectPolicy,
		EquitySamples:       hand.EquitySamples,
		MaxLogBytes:         20_000,
	}
}

// HandConfig returns the per-hand rules for this match.
func (c Config) HandConfig() game.HandConfig {
	return game.HandConfig{
		SmallBlind:          c.SmallBlind,
		BigBlind:            c.BigBlind,
		MaxActionsPerStreet: c.MaxActionsPerStreet,
		RejectPolicy:        c.RejectPolicy,
		EquitySamples:       c.EquitySamples,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Seats < 2 || c.Seats > game.MaxSeats {
		return fmt.Errorf("%w: seats must be 2-%d, got %d", ErrConfig, game.MaxSeats, c.Seats)
	}
	if c.Hands <= 0 {
		return fmt.Errorf("%w: hands must be positive, got %d", ErrConfig, c.Hands)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("%w: starting stack must be positive, got %d", ErrConfig, c.StartingStack)
	}
	if c.MaxLogBytes < 0 {
		return fmt.Errorf("%w: max log bytes cannot be negative", ErrConfig)
	}
	if err := c.HandConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
