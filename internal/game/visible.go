package game

import (
	"slices"

	"github.com/lox/holdem-arena/internal/randutil"
	"github.com/lox/holdem-arena/poker"
)

// BotVisibleState is what a decision maker sees. It carries the actor's own
// hole cards only; other seats' cards and the deck never appear.
type BotVisibleState struct {
	HandID                string         `json:"hand_id"`
	Street                string         `json:"street"`
	ActorSeat             int            `json:"actor_seat"`
	DealerSeat            int            `json:"dealer_seat"`
	SmallBlindSeat        int            `json:"small_blind_seat"`
	BigBlindSeat          int            `json:"big_blind_seat"`
	SmallBlind            int            `json:"small_blind"`
	BigBlind              int            `json:"big_blind"`
	HoleCards             []string       `json:"hole_cards"`
	BoardCards            []string       `json:"board_cards"`
	Stacks                []int          `json:"stacks"`
	ContributedThisStreet []int          `json:"contributed_this_street"`
	ContributedTotal      []int          `json:"contributed_total"`
	Pot                   int            `json:"pot"`
	Pots                  []Pot          `json:"pots"`
	CurrentBet            int            `json:"current_bet"`
	ToCall                int            `json:"to_call"`
	ActiveSeats           []int          `json:"active_seats"`
	ActionHistory         []ActionRecord `json:"action_history"`
	LegalActions          []LegalAction  `json:"legal_actions"`
	HandStrength          StrengthView   `json:"hand_strength"`
}

// StrengthView summarises the actor's hand.
type StrengthView struct {
	Category       string       `json:"category"`
	Rank           []poker.Rank `json:"rank"`
	EquityEstimate float64      `json:"equity_estimate"`
	PreflopClass   string       `json:"preflop_class"`
}

// Can reports whether an action type is among the legal actions.
func (s BotVisibleState) Can(t ActionType) bool {
	_, ok := s.Legal(t)
	return ok
}

// Legal returns the legal action of type t, if any.
func (s BotVisibleState) Legal(t ActionType) (LegalAction, bool) {
	for _, la := range s.LegalActions {
		if la.Type == t {
			return la, true
		}
	}
	return LegalAction{}, false
}

// VisibleState builds the view for seat. The equity estimate is seeded from
// the hand seed and the decision index so that it is reproducible.
func (h *HandState) VisibleState(seat int) BotVisibleState {
	n := len(h.Players)
	p := h.Players[seat]
	s := BotVisibleState{
		HandID:                h.ID,
		Street:                h.Street.String(),
		ActorSeat:             seat,
		DealerSeat:            h.Dealer,
		SmallBlindSeat:        h.sbSeat,
		BigBlindSeat:          h.bbSeat,
		SmallBlind:            h.cfg.SmallBlind,
		BigBlind:              h.cfg.BigBlind,
		HoleCards:             poker.CardStrings(p.HoleCards),
		BoardCards:            poker.CardStrings(h.Board),
		Stacks:                make([]int, n),
		ContributedThisStreet: make([]int, n),
		ContributedTotal:      make([]int, n),
		Pot:                   h.pot,
		CurrentBet:            h.currentBet,
		ToCall:                max(0, h.currentBet-p.StreetBet),
		ActiveSeats:           []int{},
		ActionHistory:         slices.Clone(h.actions),
		LegalActions:          []LegalAction{},
	}
	if seat == h.actor {
		s.LegalActions = h.LegalActions()
	}

	totals := make([]int, n)
	live := make([]bool, n)
	for i, other := range h.Players {
		s.Stacks[i] = other.Stack
		s.ContributedThisStreet[i] = other.StreetBet
		s.ContributedTotal[i] = other.TotalBet
		totals[i] = other.TotalBet
		live[i] = other.InHand()
		if live[i] {
			s.ActiveSeats = append(s.ActiveSeats, i)
		}
	}
	s.Pots, _ = buildPots(totals, live)
	if s.Pots == nil {
		s.Pots = []Pot{}
	}

	if p.HoleCards != nil {
		made, err := poker.MadeHand(p.HoleCards, h.Board)
		if err == nil {
			s.HandStrength.Category = made.Category.String()
			s.HandStrength.Rank = made.Ranks
		}
		opponents := len(s.ActiveSeats) - 1
		if !p.InHand() {
			opponents = len(s.ActiveSeats)
		}
		if h.cfg.EquitySamples > 0 {
			equitySeed := randutil.SubSeed(h.Seed, len(h.actions))
			s.HandStrength.EquityEstimate = poker.EstimateEquity(p.HoleCards, h.Board, opponents, equitySeed, h.cfg.EquitySamples)
		}
		s.HandStrength.PreflopClass = string(poker.CategorizeHoleCards(p.HoleCards))
	}
	return s
}
