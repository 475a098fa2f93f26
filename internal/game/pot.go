package game

import (
	"slices"
)

// Pot is a main or side pot: the chips contributed up to Cap per seat,
// contested only by the Eligible seats.
type Pot struct {
	Amount   int   `json:"amount"`
	Cap      int   `json:"cap"`
	Eligible []int `json:"eligible_seats"`
	Winners  []int `json:"winner_seats,omitempty"`

	contributors []int
}

// buildPots splits total contributions into tiers. Each tier takes the
// smallest outstanding contribution from every seat still contributing;
// adjacent tiers with the same eligible seats are merged. A seat is eligible
// for a tier when it contributed to it and is still live.
//
// Tiers no live seat contributed to (chips above every live seat's total,
// put in by seats that later folded) come back as refunds instead.
func buildPots(totals []int, live []bool) (pots []Pot, refunds []int) {
	type rem struct {
		seat   int
		amount int
	}
	remaining := make([]rem, 0, len(totals))
	for seat, amt := range totals {
		if amt > 0 {
			remaining = append(remaining, rem{seat: seat, amount: amt})
		}
	}

	refunds = make([]int, len(totals))
	level := 0
	for len(remaining) > 0 {
		step := remaining[0].amount
		for _, r := range remaining[1:] {
			step = min(step, r.amount)
		}
		level += step

		tier := Pot{Amount: step * len(remaining), Cap: level}
		for _, r := range remaining {
			tier.contributors = append(tier.contributors, r.seat)
			if live[r.seat] {
				tier.Eligible = append(tier.Eligible, r.seat)
			}
		}

		switch {
		case len(tier.Eligible) == 0:
			for _, seat := range tier.contributors {
				refunds[seat] += step
			}
		case len(pots) > 0 && slices.Equal(pots[len(pots)-1].Eligible, tier.Eligible):
			last := &pots[len(pots)-1]
			last.Amount += tier.Amount
			last.Cap = tier.Cap
		default:
			pots = append(pots, tier)
		}

		next := remaining[:0]
		for _, r := range remaining {
			r.amount -= step
			if r.amount > 0 {
				next = append(next, r)
			}
		}
		remaining = next
	}
	return pots, refunds
}

// splitPot divides amount among winners. Odd chips go one at a time to the
// winners closest to the dealer's left, clockwise.
func splitPot(amount int, winners []int, dealer, seats int) map[int]int {
	ordered := slices.Clone(winners)
	slices.SortFunc(ordered, func(a, b int) int {
		return clockwiseFrom(dealer, a, seats) - clockwiseFrom(dealer, b, seats)
	})

	share := amount / len(ordered)
	remainder := amount % len(ordered)
	out := make(map[int]int, len(ordered))
	for i, seat := range ordered {
		out[seat] = share
		if i < remainder {
			out[seat]++
		}
	}
	return out
}

// clockwiseFrom returns how many seats past the dealer seat is, with the
// seat immediately left of the dealer at 0 and the dealer last.
func clockwiseFrom(dealer, seat, seats int) int {
	return (seat - dealer - 1 + seats) % seats
}
