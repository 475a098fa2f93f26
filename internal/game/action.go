package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidAction reports an action that is not a well-formed fold,
	// check, call or raise.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvariant reports an engine bug such as a chip conservation failure
	// or an action after the hand completed. It is never caused by bot input.
	ErrInvariant = errors.New("engine invariant violated")
	// ErrConfig reports an invalid hand configuration.
	ErrConfig = errors.New("invalid hand configuration")
)

// ActionType is the kind of a player action.
type ActionType string

const (
	Fold  ActionType = "fold"
	Check ActionType = "check"
	Call  ActionType = "call"
	Raise ActionType = "raise"
)

// Action is a player decision. Amount is only meaningful for Raise, where it
// is the total the seat's street contribution is raised to.
type Action struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Type == Raise {
		return fmt.Sprintf("raise to %d", a.Amount)
	}
	return string(a.Type)
}

// Validate checks the shape of the action, not its legality at a table.
func (a Action) Validate() error {
	switch a.Type {
	case Fold, Check, Call:
		return nil
	case Raise:
		if a.Amount <= 0 {
			return fmt.Errorf("%w: raise amount must be a positive integer, got %d", ErrInvalidAction, a.Amount)
		}
		return nil
	case "":
		return fmt.Errorf("%w: missing action type", ErrInvalidAction)
	default:
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, a.Type)
	}
}

// ParseAction converts a decoded JSON object into an Action. The type must be
// one of fold, check, call or raise exactly as written, and the raise amount
// must be an integer; floats, strings and booleans are rejected rather than
// coerced.
func ParseAction(raw map[string]any) (Action, error) {
	if raw == nil {
		return Action{}, fmt.Errorf("%w: action must be an object", ErrInvalidAction)
	}
	typ, ok := raw["type"].(string)
	if !ok {
		return Action{}, fmt.Errorf("%w: action type must be a string", ErrInvalidAction)
	}
	a := Action{Type: ActionType(typ)}
	if a.Type == Raise {
		amount, err := intField(raw["amount"])
		if err != nil {
			return Action{}, err
		}
		a.Amount = amount
	}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

func intField(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("%w: raise requires an amount", ErrInvalidAction)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: raise amount must be an integer, got %s", ErrInvalidAction, n)
		}
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, fmt.Errorf("%w: raise amount %d out of range", ErrInvalidAction, i)
		}
		return int(i), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: raise amount must be an integer, got %T", ErrInvalidAction, v)
	}
}

// LegalAction describes one action available to the seat to act. Call
// carries the chips it costs; Raise carries the raise-to bounds.
type LegalAction struct {
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
	Min    int        `json:"min,omitempty"`
	Max    int        `json:"max,omitempty"`
}

// ActionRecord is one entry in the hand's action log. Blind posts are
// recorded with types post_sb and post_bb.
type ActionRecord struct {
	Street string `json:"street"`
	Seat   int    `json:"seat"`
	Type   string `json:"type"`
	Amount int    `json:"amount"`
	To     int    `json:"to,omitempty"`
	Note   string `json:"note,omitempty"`
}

// RejectPolicy decides what happens to an action that is well-formed but
// not legal at the table, or not well-formed at all.
type RejectPolicy int

const (
	// RejectFold folds the seat.
	RejectFold RejectPolicy = iota
	// RejectCoerce maps the action to the nearest legal one: check facing a
	// bet calls, call with nothing to call checks, out of range raises are
	// clamped, and raises with no raise available call or check.
	RejectCoerce
)

func (p RejectPolicy) String() string {
	if p == RejectCoerce {
		return "coerce"
	}
	return "fold"
}

// ParseRejectPolicy parses "fold" or "coerce".
func ParseRejectPolicy(s string) (RejectPolicy, error) {
	switch strings.ToLower(s) {
	case "", "fold":
		return RejectFold, nil
	case "coerce":
		return RejectCoerce, nil
	}
	return RejectFold, fmt.Errorf("%w: unknown reject policy %q", ErrConfig, s)
}
