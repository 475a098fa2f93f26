// Package game implements the Texas Hold'em betting engine.
//
// The main type is HandState, a state machine for a single hand: it posts
// blinds, derives the legal actions for the seat to act, applies actions,
// deals the board and resolves showdown across side pots.
//
// # Basic Usage
//
// Drive a hand with a DecisionProvider:
//
//	h, err := game.NewHand(seed, dealer, []int{1000, 1000, 1000}, game.DefaultHandConfig())
//	if err != nil {
//	    return err
//	}
//	result, err := h.Play(ctx, provider)
//
// Or step it by hand, which is how most tests work:
//
//	for !h.IsComplete() {
//	    legal := h.LegalActions()
//	    h.Apply(game.Action{Type: game.Call})
//	}
//
// # Determinism
//
// The deck is shuffled from the hand seed, and the equity estimate shown to
// each decision is seeded from the hand seed and the decision index. The same
// seed, stacks and decisions always produce the same hand. A pre-arranged
// deck can be supplied with WithDeck.
//
// # Invariants
//
// The sum of all stacks plus the pot never changes within a hand. Apply
// verifies this after every action and returns ErrInvariant if it breaks.
package game
