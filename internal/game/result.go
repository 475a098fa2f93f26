package game

import (
	"slices"

	"github.com/lox/holdem-arena/poker"
)

// HandResult is the summary of a finished hand. Only this survives the hand.
type HandResult struct {
	ID             string         `json:"id"`
	Seed           int64          `json:"seed"`
	DealerSeat     int            `json:"dealer_seat"`
	SmallBlindSeat int            `json:"small_blind_seat"`
	BigBlindSeat   int            `json:"big_blind_seat"`
	Board          []string       `json:"board"`
	HoleCards      [][]string     `json:"hole_cards"`
	Actions        []ActionRecord `json:"actions"`
	Pots           []Pot          `json:"pots"`
	StartStacks    []int          `json:"start_stacks"`
	FinalStacks    []int          `json:"final_stacks"`
	Deltas         []int          `json:"deltas"`
	Winners        []int          `json:"winners"`
	End            EndReason      `json:"end"`
}

// Result returns the hand summary, or nil while the hand is in progress.
func (h *HandState) Result() *HandResult {
	if !h.complete {
		return nil
	}
	n := len(h.Players)
	r := &HandResult{
		ID:             h.ID,
		Seed:           h.Seed,
		DealerSeat:     h.Dealer,
		SmallBlindSeat: h.sbSeat,
		BigBlindSeat:   h.bbSeat,
		Board:          poker.CardStrings(h.Board),
		HoleCards:      make([][]string, n),
		Actions:        slices.Clone(h.actions),
		Pots:           slices.Clone(h.pots),
		StartStacks:    slices.Clone(h.startStacks),
		FinalStacks:    make([]int, n),
		Deltas:         make([]int, n),
		Winners:        []int{},
		End:            h.end,
	}
	for i, p := range h.Players {
		if p.HoleCards != nil {
			r.HoleCards[i] = poker.CardStrings(p.HoleCards)
		}
		r.FinalStacks[i] = p.Stack
		r.Deltas[i] = p.Stack - h.startStacks[i]
	}
	for _, pot := range h.pots {
		for _, seat := range pot.Winners {
			if !slices.Contains(r.Winners, seat) {
				r.Winners = append(r.Winners, seat)
			}
		}
	}
	slices.Sort(r.Winners)
	return r
}
