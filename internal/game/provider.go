package game

import (
	"context"
	"strings"
)

// DecisionProvider supplies the action for the seat to act. An error means
// no decision could be obtained; the engine then checks if that is free and
// folds otherwise.
type DecisionProvider interface {
	Decide(ctx context.Context, seat int, state BotVisibleState) (Action, error)
}

// DecisionFunc adapts a function to DecisionProvider.
type DecisionFunc func(ctx context.Context, seat int, state BotVisibleState) (Action, error)

func (f DecisionFunc) Decide(ctx context.Context, seat int, state BotVisibleState) (Action, error) {
	return f(ctx, seat, state)
}

// CheckCall is a provider that checks when it can and calls otherwise.
var CheckCall = DecisionFunc(func(_ context.Context, _ int, state BotVisibleState) (Action, error) {
	if state.Can(Check) {
		return Action{Type: Check}, nil
	}
	return Action{Type: Call}, nil
})

// Play drives the hand to completion, asking provider for every decision.
// Provider failures are recovered with the check-or-fold fallback and noted
// in the action log. Play only returns an error for ErrInvariant or when ctx
// is done.
func (h *HandState) Play(ctx context.Context, provider DecisionProvider) (*HandResult, error) {
	for !h.complete {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seat := h.actor
		action, err := provider.Decide(ctx, seat, h.VisibleState(seat))
		note := ""
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			action = h.fallback()
			note = "fallback: " + firstLine(err.Error())
			h.logger.Warn("decision failed", "hand", h.ID, "seat", seat, "fallback", action.Type, "err", firstLine(err.Error()))
		}
		if _, err := h.apply(action, note); err != nil {
			return nil, err
		}
	}
	return h.Result(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
