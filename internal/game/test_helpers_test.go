package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/poker"
)

// stackedDeck builds a deck that deals the given hole cards (one entry per
// funded seat, in seat order) followed by board, inserting burn cards.
func stackedDeck(t *testing.T, holes []string, board string) *poker.Deck {
	t.Helper()
	var order []poker.Card
	for _, h := range holes {
		order = append(order, poker.MustParseCards(h)...)
	}
	b := poker.MustParseCards(board)
	require.Len(t, b, 5)

	used, err := poker.NewCardSet(append(append([]poker.Card{}, order...), b...)...)
	require.NoError(t, err)
	burns := used.Remaining()[:3]

	order = append(order, burns[0], b[0], b[1], b[2], burns[1], b[3], burns[2], b[4])
	deck, err := poker.NewStackedDeck(order)
	require.NoError(t, err)
	return deck
}

func newTestHand(t *testing.T, stacks []int, dealer int, cfg HandConfig, opts ...HandOption) *HandState {
	t.Helper()
	h, err := NewHand(42, dealer, stacks, cfg, opts...)
	require.NoError(t, err)
	return h
}

func mustApply(t *testing.T, h *HandState, a Action) ActionRecord {
	t.Helper()
	rec, err := h.Apply(a)
	require.NoError(t, err)
	return rec
}

func checkOrCall(t *testing.T, h *HandState) {
	t.Helper()
	for !h.IsComplete() {
		a := Action{Type: Call}
		for _, la := range h.LegalActions() {
			if la.Type == Check {
				a = Action{Type: Check}
			}
		}
		mustApply(t, h, a)
	}
}

func stackSum(h *HandState) int {
	sum := h.Pot()
	for _, p := range h.Players {
		sum += p.Stack
	}
	return sum
}

func noEquity() HandConfig {
	cfg := DefaultHandConfig()
	cfg.EquitySamples = 0
	return cfg
}
