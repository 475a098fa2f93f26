package game

import "fmt"

// HandConfig holds the per-hand rules. It is immutable once a hand starts.
type HandConfig struct {
	SmallBlind int
	BigBlind   int
	// MaxActionsPerStreet force-closes a street after this many decisions.
	MaxActionsPerStreet int
	RejectPolicy        RejectPolicy
	// EquitySamples is the Monte Carlo sample count behind the equity
	// estimate in BotVisibleState. Zero disables the estimate.
	EquitySamples int
}

// DefaultHandConfig returns 10/20 blinds with the fold reject policy.
func DefaultHandConfig() HandConfig {
	return HandConfig{
		SmallBlind:          10,
		BigBlind:            20,
		MaxActionsPerStreet: 200,
		RejectPolicy:        RejectFold,
		EquitySamples:       100,
	}
}

// Validate checks the configuration for consistency.
func (c HandConfig) Validate() error {
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		return fmt.Errorf("%w: blinds must be positive (small=%d big=%d)", ErrConfig, c.SmallBlind, c.BigBlind)
	}
	if c.SmallBlind > c.BigBlind {
		return fmt.Errorf("%w: small blind %d exceeds big blind %d", ErrConfig, c.SmallBlind, c.BigBlind)
	}
	if c.MaxActionsPerStreet <= 0 {
		return fmt.Errorf("%w: max actions per street must be positive", ErrConfig)
	}
	if c.EquitySamples < 0 {
		return fmt.Errorf("%w: equity samples cannot be negative", ErrConfig)
	}
	if c.RejectPolicy != RejectFold && c.RejectPolicy != RejectCoerce {
		return fmt.Errorf("%w: unknown reject policy %d", ErrConfig, c.RejectPolicy)
	}
	return nil
}
