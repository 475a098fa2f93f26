package game

import (
	"github.com/lox/holdem-arena/poker"
)

// Player is one seat's state within a hand.
type Player struct {
	Seat      int
	Stack     int
	HoleCards []poker.Card // nil for seats that started the hand busted
	Folded    bool
	AllIn     bool
	StreetBet int // Contributed this street
	TotalBet  int // Contributed this hand
}

// InHand reports whether the seat was dealt in and has not folded.
func (p *Player) InHand() bool {
	return p.HoleCards != nil && !p.Folded
}

// CanAct reports whether the seat can still make decisions.
func (p *Player) CanAct() bool {
	return p.InHand() && !p.AllIn
}

// commit moves chips from the stack into the pot.
func (p *Player) commit(amount int) int {
	amount = min(amount, p.Stack)
	p.Stack -= amount
	p.StreetBet += amount
	p.TotalBet += amount
	if p.Stack == 0 {
		p.AllIn = true
	}
	return amount
}
