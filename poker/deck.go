package poker

import (
	rand "math/rand/v2"
)

// Deck represents a standard 52-card deck
type Deck struct {
	cards [52]Card // Fixed size array
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled deck with explicit RNG. Every shuffle draws
// from rng, so the same seed yields the same deal.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("poker: NewDeck requires a non-nil rng")
	}
	d := &Deck{rng: rng}
	for i := range d.cards {
		d.cards[i] = Card(i)
	}
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals cards in exactly the given order.
// Used to replay or construct specific hands.
func NewStackedDeck(order []Card) (*Deck, error) {
	if _, err := NewCardSet(order...); err != nil {
		return nil, err
	}
	d := &Deck{next: 52 - len(order)}
	copy(d.cards[d.next:], order)
	return d, nil
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	for i := range d.cards {
		d.cards[i] = Card(i)
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck. It returns nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// Burn discards the top card.
func (d *Deck) Burn() bool {
	if d.next >= len(d.cards) {
		return false
	}
	d.next++
	return true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
