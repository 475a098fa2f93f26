package phh

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-arena/internal/game"
)

// Variant is the PHH code for no-limit Texas Hold'em.
const Variant = "NT"

var streetIndex = map[string]int{
	game.Preflop.String(): 0,
	game.Flop.String():    1,
	game.Turn.String():    2,
	game.River.String():   3,
}

// boardCount is the number of board cards visible once a street starts.
var boardCount = [...]int{0, 3, 4, 5}

// FromHand converts a completed hand to PHH. Only seats dealt into the
// hand appear, ordered from the small blind. It returns false for hands
// that were never dealt.
func FromHand(hr *game.HandResult, cfg game.HandConfig, names []string, table string) (*HandHistory, bool) {
	if hr == nil || hr.End == game.EndNoContest {
		return nil, false
	}
	n := len(hr.StartStacks)
	var order []int
	for i := range n {
		seat := (hr.SmallBlindSeat + i) % n
		if len(hr.HoleCards[seat]) == 2 {
			order = append(order, seat)
		}
	}
	if len(order) < 2 {
		return nil, false
	}
	player := make(map[int]int, len(order))
	for i, seat := range order {
		player[seat] = i
	}

	h := &HandHistory{
		Variant:           Variant,
		Table:             table,
		SeatCount:         n,
		Seats:             make([]int, len(order)),
		Antes:             make([]int, len(order)),
		BlindsOrStraddles: make([]int, len(order)),
		MinBet:            cfg.BigBlind,
		StartingStacks:    make([]int, len(order)),
		FinishingStacks:   make([]int, len(order)),
		Winnings:          make([]int, len(order)),
		HandID:            hr.ID,
		Seed:              hr.Seed,
		Board:             hr.Board,
	}
	if len(names) == n {
		h.Players = make([]string, len(order))
	}
	h.BlindsOrStraddles[player[hr.SmallBlindSeat]] = cfg.SmallBlind
	h.BlindsOrStraddles[player[hr.BigBlindSeat]] = cfg.BigBlind

	for i, seat := range order {
		h.Seats[i] = seat + 1
		h.StartingStacks[i] = hr.StartStacks[seat]
		h.FinishingStacks[i] = hr.FinalStacks[seat]
		if h.Players != nil {
			h.Players[i] = names[seat]
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", i+1, strings.Join(hr.HoleCards[seat], "")))
	}

	dealt := 0
	dealThrough := func(street int) {
		target := min(boardCount[street], len(hr.Board))
		if target > dealt {
			h.Actions = append(h.Actions, "d db "+strings.Join(hr.Board[dealt:target], ""))
			dealt = target
		}
	}

	contributed := make([]int, len(order))
	folded := make([]bool, len(order))
	for _, rec := range hr.Actions {
		idx, ok := player[rec.Seat]
		if !ok {
			continue
		}
		contributed[idx] += rec.Amount
		if rec.Type == string(game.Fold) {
			folded[idx] = true
		}
		if street, ok := streetIndex[rec.Street]; ok {
			dealThrough(street)
		}
		if action, ok := FormatAction(idx, rec.Type, rec.To); ok {
			h.Actions = append(h.Actions, action)
		}
	}
	dealThrough(len(boardCount) - 1)

	if hr.End == game.EndShowdown {
		for i, seat := range order {
			if !folded[i] {
				h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", i+1, strings.Join(hr.HoleCards[seat], "")))
			}
		}
	}
	for i := range order {
		h.Winnings[i] = h.FinishingStacks[i] - h.StartingStacks[i] + contributed[i]
	}
	return h, true
}

// FromHands converts every dealt hand, skipping hands with no contest.
func FromHands(hands []*game.HandResult, cfg game.HandConfig, names []string, table string) []*HandHistory {
	out := make([]*HandHistory, 0, len(hands))
	for _, hr := range hands {
		if h, ok := FromHand(hr, cfg, names, table); ok {
			out = append(out, h)
		}
	}
	return out
}
