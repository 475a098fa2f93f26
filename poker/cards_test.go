package poker

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/randutil"
)

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		rank  Rank
		suit  Suit
	}{
		{"As", Ace, Spades},
		{"Kh", King, Hearts},
		{"Td", Ten, Diamonds},
		{"2c", Two, Clubs},
		{"Qd", Queen, Diamonds},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			c, err := ParseCard(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.rank, c.Rank())
			assert.Equal(t, tt.suit, c.Suit())
		})
	}
}

func TestParseCardRejectsInvalid(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "A", "1s", "Ax", "Asd", "ZZ", "11h", "10c", "qD", "as", "AS", " As", "tc"} {
		_, err := ParseCard(input)
		if !errors.Is(err, ErrInvalidCard) {
			t.Errorf("ParseCard(%q) error = %v, want ErrInvalidCard", input, err)
		}
	}
}

func TestAll52Cards(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(rank, suit)
			require.True(t, card.Valid())
			str := card.String()
			require.False(t, seen[str], "duplicate card %s", str)
			seen[str] = true

			parsed, err := ParseCard(str)
			require.NoError(t, err)
			require.Equal(t, card, parsed)
		}
	}
	assert.Len(t, seen, 52)
	assert.False(t, Card(52).Valid())
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"AsKd", "As Kd", "As,Kd", " As , Kd "} {
		cards, err := ParseCards(input)
		require.NoError(t, err, input)
		assert.Equal(t, []string{"As", "Kd"}, CardStrings(cards), input)
	}

	for _, input := range []string{"AsK", "10cKd", "As kd", "AsKD"} {
		_, err := ParseCards(input)
		assert.ErrorIs(t, err, ErrInvalidCard, input)
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal([]Card{MustParseCard("Ah"), MustParseCard("Tc")})
	require.NoError(t, err)
	assert.JSONEq(t, `["Ah","Tc"]`, string(data))

	var back []Card
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Ah", back[0].String())

	assert.ErrorIs(t, json.Unmarshal([]byte(`["ah"]`), &back), ErrInvalidCard)
	assert.ErrorIs(t, json.Unmarshal([]byte(`["10h"]`), &back), ErrInvalidCard)
}

func TestCardSet(t *testing.T) {
	t.Parallel()
	cs, err := NewCardSet(MustParseCards("As Kd 2c")...)
	require.NoError(t, err)
	assert.Equal(t, 3, cs.Len())
	assert.True(t, cs.Contains(MustParseCard("Kd")))
	assert.False(t, cs.Contains(MustParseCard("Kh")))
	assert.Len(t, cs.Remaining(), 49)

	_, err = NewCardSet(MustParseCards("As As")...)
	assert.ErrorIs(t, err, ErrDuplicateCard)
}

func TestDeck(t *testing.T) {
	t.Parallel()
	deck := NewDeck(randutil.New(42))

	cards1 := deck.Deal(2)
	require.Len(t, cards1, 2)
	cards2 := deck.Deal(3)
	require.Len(t, cards2, 3)
	for _, c1 := range cards1 {
		for _, c2 := range cards2 {
			require.NotEqual(t, c1, c2, "dealt same card twice")
		}
	}

	require.True(t, deck.Burn())
	remaining := deck.Deal(46)
	require.Len(t, remaining, 46)
	assert.Equal(t, 0, deck.CardsRemaining())
	assert.Nil(t, deck.Deal(1), "should not deal from an empty deck")
	assert.False(t, deck.Burn())

	deck.Shuffle()
	assert.Equal(t, 52, deck.CardsRemaining())
}

func TestDeckDeterministic(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(99)).Deal(52)
	b := NewDeck(randutil.New(99)).Deal(52)
	c := NewDeck(randutil.New(100)).Deal(52)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err := NewCardSet(a...)
	assert.NoError(t, err, "a shuffled deck holds every card once")
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()
	deck, err := NewStackedDeck(MustParseCards("As Ad Kc"))
	require.NoError(t, err)
	assert.Equal(t, 3, deck.CardsRemaining())
	assert.Equal(t, []string{"As", "Ad"}, CardStrings(deck.Deal(2)))

	_, err = NewStackedDeck(MustParseCards("As As"))
	assert.ErrorIs(t, err, ErrDuplicateCard)
}
