// Package poker provides cards, decks and hand evaluation for Texas Hold'em.
package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	// ErrInvalidCard is returned for card strings or indexes that do not name
	// one of the 52 cards.
	ErrInvalidCard = errors.New("invalid card")
	// ErrCardCount is returned when an evaluator receives the wrong number of cards.
	ErrCardCount = errors.New("wrong number of cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
)

// Rank is a card rank, Two (2) through Ace (14).
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit is one of the four card suits.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// Card is a card index in [0, 52): (rank-2)*4 + suit.
type Card uint8

// NewCard creates a card from rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(int(rank-Two)*4 + int(suit))
}

// Rank returns the rank of the card.
func (c Card) Rank() Rank {
	return Rank(c/4) + Two
}

// Suit returns the suit of the card.
func (c Card) Suit() Suit {
	return Suit(c % 4)
}

// Valid reports whether c is one of the 52 cards.
func (c Card) Valid() bool {
	return c < 52
}

// String returns the two character form, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()-Two], suitChars[c.Suit()]})
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidCard, c)
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a card such as "As" or "Td": one rank from 23456789TJQKA
// followed by one suit from cdhs, exactly as written.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	r := strings.IndexByte(rankChars, s[0])
	u := strings.IndexByte(suitChars, s[1])
	if r < 0 || u < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	return NewCard(Two+Rank(r), Suit(u)), nil
}

// MustParseCard is ParseCard that panics on error. Intended for tests and
// static tables.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a card list. Cards may be separated by spaces or commas
// or run together ("AsKd").
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, ",", " ")
	var cards []Card
	for _, field := range strings.Fields(s) {
		if len(field)%2 != 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCard, field)
		}
		for i := 0; i < len(field); i += 2 {
			c, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// CardStrings returns the string form of each card.
func CardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// CardSet is a bitset of cards, bit i set for card index i.
type CardSet uint64

// NewCardSet builds a set from cards, reporting invalid or repeated cards.
func NewCardSet(cards ...Card) (CardSet, error) {
	var cs CardSet
	for _, c := range cards {
		if !c.Valid() {
			return 0, fmt.Errorf("%w: index %d", ErrInvalidCard, c)
		}
		if cs.Contains(c) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		cs.Add(c)
	}
	return cs, nil
}

func (cs *CardSet) Add(c Card) {
	*cs |= 1 << c
}

func (cs CardSet) Contains(c Card) bool {
	return cs&(1<<c) != 0
}

func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Remaining returns the cards of a full deck not in cs, in index order.
func (cs CardSet) Remaining() []Card {
	out := make([]Card, 0, 52-cs.Len())
	for c := Card(0); c < 52; c++ {
		if !cs.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}
