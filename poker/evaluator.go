package poker

import (
	"cmp"
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Category enumerates the categories of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = [...]string{
	"high_card",
	"pair",
	"two_pair",
	"three_of_a_kind",
	"straight",
	"flush",
	"full_house",
	"four_of_a_kind",
	"straight_flush",
}

var categoryTitles = [...]string{
	"High Card",
	"Pair",
	"Two Pair",
	"Three of a Kind",
	"Straight",
	"Flush",
	"Full House",
	"Four of a Kind",
	"Straight Flush",
}

// String returns the snake_case name used in serialized state, e.g. "full_house".
func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Title returns a human-readable name, e.g. "Full House".
func (c Category) Title() string {
	if int(c) >= len(categoryTitles) {
		return "Unknown"
	}
	return categoryTitles[c]
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// HandStrength is a totally ordered hand value: the category, then a
// tie-break tuple compared lexicographically. A wheel straight has tuple (5).
type HandStrength struct {
	Category Category `json:"category"`
	Ranks    []Rank   `json:"rank"`
}

// Compare returns 1 if h beats o, -1 if o beats h and 0 for a tie.
func (h HandStrength) Compare(o HandStrength) int {
	if c := cmp.Compare(h.Category, o.Category); c != 0 {
		return c
	}
	return slices.Compare(h.Ranks, o.Ranks)
}

func (h HandStrength) String() string {
	parts := make([]string, len(h.Ranks))
	for i, r := range h.Ranks {
		parts[i] = string(rankChars[r-Two])
	}
	return fmt.Sprintf("%s (%s)", h.Category.Title(), strings.Join(parts, " "))
}

// Rank5 evaluates exactly five distinct cards.
func Rank5(cards []Card) (HandStrength, error) {
	if len(cards) != 5 {
		return HandStrength{}, fmt.Errorf("%w: rank5 needs 5 cards, got %d", ErrCardCount, len(cards))
	}
	if _, err := NewCardSet(cards...); err != nil {
		return HandStrength{}, err
	}
	return rank5((*[5]Card)(cards)), nil
}

// Best7 evaluates the best five-card hand among seven distinct cards by
// ranking all 21 five-card subsets.
func Best7(cards []Card) (HandStrength, error) {
	if len(cards) != 7 {
		return HandStrength{}, fmt.Errorf("%w: best7 needs 7 cards, got %d", ErrCardCount, len(cards))
	}
	if _, err := NewCardSet(cards...); err != nil {
		return HandStrength{}, err
	}
	return bestOf(cards), nil
}

// Compare ranks two seven-card hands: 1 if a wins, -1 if b wins, 0 for a tie.
func Compare(a, b []Card) (int, error) {
	ha, err := Best7(a)
	if err != nil {
		return 0, err
	}
	hb, err := Best7(b)
	if err != nil {
		return 0, err
	}
	return ha.Compare(hb), nil
}

// MadeHand describes the best hand available from hole and board cards at
// any street. With fewer than five cards it reports the pairing category
// over the cards present; with five to seven it is the best five-card hand.
func MadeHand(hole, board []Card) (HandStrength, error) {
	cards := make([]Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	if len(cards) > 7 {
		return HandStrength{}, fmt.Errorf("%w: at most 7 cards, got %d", ErrCardCount, len(cards))
	}
	if _, err := NewCardSet(cards...); err != nil {
		return HandStrength{}, err
	}
	if len(cards) >= 5 {
		return bestOf(cards), nil
	}
	return partial(cards), nil
}

var fiveCardCombos = func() map[int][][5]uint8 {
	out := make(map[int][][5]uint8, 3)
	for n := 5; n <= 7; n++ {
		var combos [][5]uint8
		var idx [5]uint8
		var walk func(start, depth int)
		walk = func(start, depth int) {
			if depth == 5 {
				combos = append(combos, idx)
				return
			}
			for i := start; i < n; i++ {
				idx[depth] = uint8(i)
				walk(i+1, depth+1)
			}
		}
		walk(0, 0)
		out[n] = combos
	}
	return out
}()

func bestOf(cards []Card) HandStrength {
	var best HandStrength
	var hand [5]Card
	for i, combo := range fiveCardCombos[len(cards)] {
		for j, k := range combo {
			hand[j] = cards[k]
		}
		s := rank5(&hand)
		if i == 0 || s.Compare(best) > 0 {
			best = s
		}
	}
	return best
}

func rank5(cards *[5]Card) HandStrength {
	var counts [Ace + 1]uint8
	var rankMask uint16
	flush := true
	for _, c := range cards {
		counts[c.Rank()]++
		rankMask |= 1 << c.Rank()
		if c.Suit() != cards[0].Suit() {
			flush = false
		}
	}

	high := straightHigh(rankMask)
	if flush && high > 0 {
		return HandStrength{Category: StraightFlush, Ranks: []Rank{high}}
	}

	g := groupRanks(counts[:])
	switch {
	case g.quads > 0:
		return HandStrength{Category: FourOfAKind, Ranks: []Rank{g.quads, g.singles[0]}}
	case g.trips > 0 && len(g.pairs) > 0:
		return HandStrength{Category: FullHouse, Ranks: []Rank{g.trips, g.pairs[0]}}
	case flush:
		return HandStrength{Category: Flush, Ranks: g.singles}
	case high > 0:
		return HandStrength{Category: Straight, Ranks: []Rank{high}}
	case g.trips > 0:
		return HandStrength{Category: ThreeOfAKind, Ranks: []Rank{g.trips, g.singles[0], g.singles[1]}}
	case len(g.pairs) == 2:
		return HandStrength{Category: TwoPair, Ranks: []Rank{g.pairs[0], g.pairs[1], g.singles[0]}}
	case len(g.pairs) == 1:
		return HandStrength{Category: Pair, Ranks: append([]Rank{g.pairs[0]}, g.singles...)}
	default:
		return HandStrength{Category: HighCard, Ranks: g.singles}
	}
}

// partial handles fewer than five cards, where only pairings can exist.
func partial(cards []Card) HandStrength {
	var counts [Ace + 1]uint8
	for _, c := range cards {
		counts[c.Rank()]++
	}
	g := groupRanks(counts[:])
	switch {
	case g.quads > 0:
		return HandStrength{Category: FourOfAKind, Ranks: []Rank{g.quads}}
	case g.trips > 0:
		return HandStrength{Category: ThreeOfAKind, Ranks: append([]Rank{g.trips}, g.singles...)}
	case len(g.pairs) == 2:
		return HandStrength{Category: TwoPair, Ranks: g.pairs}
	case len(g.pairs) == 1:
		return HandStrength{Category: Pair, Ranks: append([]Rank{g.pairs[0]}, g.singles...)}
	default:
		return HandStrength{Category: HighCard, Ranks: g.singles}
	}
}

type rankGroups struct {
	quads   Rank
	trips   Rank
	pairs   []Rank
	singles []Rank
}

// groupRanks buckets ranks by multiplicity, each bucket in descending order.
func groupRanks(counts []uint8) rankGroups {
	var g rankGroups
	for r := Ace; r >= Two; r-- {
		switch counts[r] {
		case 4:
			g.quads = r
		case 3:
			g.trips = r
		case 2:
			g.pairs = append(g.pairs, r)
		case 1:
			g.singles = append(g.singles, r)
		}
	}
	return g
}

// straightHigh returns the high rank of the best straight in a rank mask
// (bit r set for rank r), or 0 if there is none. The wheel A-2-3-4-5 is 5-high.
func straightHigh(mask uint16) Rank {
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return Rank(bits.Len16(seq)-1) + 4
	}
	const wheel = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five
	if mask&wheel == wheel {
		return Five
	}
	return 0
}
