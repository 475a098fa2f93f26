package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/randutil"
)

func TestBest7(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cards    string
		category Category
		ranks    []Rank
	}{
		{"royal flush", "As Ks Qs Js Ts 2d 3c", StraightFlush, []Rank{Ace}},
		{"steel wheel", "As 2s 3s 4s 5s Kd Kc", StraightFlush, []Rank{Five}},
		{"aces full of kings", "Ac Ad Ah Ks Kc 7d 2h", FullHouse, []Rank{Ace, King}},
		{"best full house from two trips", "Ac Ad Ah Ks Kc Kd 2h", FullHouse, []Rank{Ace, King}},
		{"quads with kicker", "9c 9d 9h 9s Ac Kd 2h", FourOfAKind, []Rank{Nine, Ace}},
		{"flush", "Ah Jh 8h 4h 2h 9c Tc", Flush, []Rank{Ace, Jack, Eight, Four, Two}},
		{"wheel straight", "Ac 2d 3h 4s 5c 9d Jh", Straight, []Rank{Five}},
		{"six-high beats wheel", "Ac 2d 3h 4s 5c 6d Jh", Straight, []Rank{Six}},
		{"broadway", "Ac Kd Qh Js Tc 2d 3h", Straight, []Rank{Ace}},
		{"trips", "7c 7d 7h As Kc 2d 3h", ThreeOfAKind, []Rank{Seven, Ace, King}},
		{"two pair best kicker", "Ac Ad Kh Ks Qc Qd 2h", TwoPair, []Rank{Ace, King, Queen}},
		{"pair", "Jc Jd 9h 7s 5c 3d 2h", Pair, []Rank{Jack, Nine, Seven, Five}},
		{"high card", "Ac Jd 9h 7s 5c 3d 2h", HighCard, []Rank{Ace, Jack, Nine, Seven, Five}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Best7(MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.ranks, got.Ranks)
		})
	}
}

func TestBest7RejectsBadInput(t *testing.T) {
	t.Parallel()
	_, err := Best7(MustParseCards("As Ks Qs Js Ts 2d"))
	assert.ErrorIs(t, err, ErrCardCount)

	_, err = Best7(MustParseCards("As Ks Qs Js Ts 2d 3c 4h"))
	assert.ErrorIs(t, err, ErrCardCount)

	_, err = Best7(MustParseCards("As Ks Qs Js Ts 2d As"))
	assert.ErrorIs(t, err, ErrDuplicateCard)

	_, err = Rank5(MustParseCards("As Ks"))
	assert.ErrorIs(t, err, ErrCardCount)
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	hands := []string{
		"Ac Jd 9h 7s 5c",
		"Jc Jd 9h 7s 5c",
		"Jc Jd 9h 9s 5c",
		"Jc Jd Jh 9s 5c",
		"9c Td Jh Qs Kc",
		"2h 7h 9h Jh Kh",
		"Jc Jd Jh 9s 9c",
		"Jc Jd Jh Js 9c",
		"9h Th Jh Qh Kh",
	}
	for i := 1; i < len(hands); i++ {
		lo, err := Rank5(MustParseCards(hands[i-1]))
		require.NoError(t, err)
		hi, err := Rank5(MustParseCards(hands[i]))
		require.NoError(t, err)
		assert.Equal(t, Category(i), hi.Category)
		assert.Equal(t, 1, hi.Compare(lo), "%s should beat %s", hands[i], hands[i-1])
		assert.Equal(t, -1, lo.Compare(hi))
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()
	board := "2c 7d 9h Js 4c"
	aces := MustParseCards("As Ad " + board)
	kings := MustParseCards("Ks Kd " + board)

	got, err := Compare(aces, kings)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = Compare(kings, aces)
	require.NoError(t, err)
	assert.Equal(t, -1, got)

	// Board plays for both.
	got, err = Compare(MustParseCards("2s 3s Ah Kh Qh Jh Th"), MustParseCards("4d 5d Ah Kh Qh Jh Th"))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCompareAntisymmetricRandom(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	for range 2000 {
		d := NewDeck(rng).Deal(9)
		a := append([]Card{d[0], d[1]}, d[4:]...)
		b := append([]Card{d[2], d[3]}, d[4:]...)
		ab, err := Compare(a, b)
		require.NoError(t, err)
		ba, err := Compare(b, a)
		require.NoError(t, err)
		require.Equal(t, -ab, ba)
	}
}

func toOracle(t *testing.T, c Card) ph.Card {
	t.Helper()
	suits := [...]ph.Suit{ph.Club, ph.Diamond, ph.Heart, ph.Spade}
	r := ph.Rank(c.Rank())
	if c.Rank() == Ace {
		r = ph.Rank(1)
	}
	out, err := ph.MakeCard(suits[c.Suit()], r)
	require.NoError(t, err)
	return out
}

func oracleEval(t *testing.T, cards []Card) int16 {
	t.Helper()
	var hand [7]ph.Card
	for i, c := range cards {
		hand[i] = toOracle(t, c)
	}
	return ph.Eval7(&hand)
}

// TestCompareMatchesOracle checks our ordering against an independent
// evaluator on random showdowns.
func TestCompareMatchesOracle(t *testing.T) {
	t.Parallel()
	rng := randutil.New(2024)
	for range 3000 {
		d := NewDeck(rng).Deal(9)
		a := append([]Card{d[0], d[1]}, d[4:]...)
		b := append([]Card{d[2], d[3]}, d[4:]...)

		got, err := Compare(a, b)
		require.NoError(t, err)

		ea, eb := oracleEval(t, a), oracleEval(t, b)
		want := 0
		switch {
		case ea > eb:
			want = 1
		case ea < eb:
			want = -1
		}
		require.Equal(t, want, got, "a=%v b=%v", CardStrings(a), CardStrings(b))
	}
}

func TestMadeHand(t *testing.T) {
	t.Parallel()
	got, err := MadeHand(MustParseCards("As Ad"), nil)
	require.NoError(t, err)
	assert.Equal(t, Pair, got.Category)
	assert.Equal(t, []Rank{Ace}, got.Ranks)

	got, err = MadeHand(MustParseCards("As Kd"), nil)
	require.NoError(t, err)
	assert.Equal(t, HighCard, got.Category)
	assert.Equal(t, []Rank{Ace, King}, got.Ranks)

	got, err = MadeHand(MustParseCards("As Kd"), MustParseCards("Ah Kh 2c"))
	require.NoError(t, err)
	assert.Equal(t, TwoPair, got.Category)

	got, err = MadeHand(MustParseCards("As Kd"), MustParseCards("Ah Kh 2c Ac"))
	require.NoError(t, err)
	assert.Equal(t, FullHouse, got.Category)

	_, err = MadeHand(MustParseCards("As Kd"), MustParseCards("As"))
	assert.ErrorIs(t, err, ErrDuplicateCard)
}

func TestHandStrengthString(t *testing.T) {
	t.Parallel()
	hs, err := Best7(MustParseCards("Ac Ad Ah Ks Kc 7d 2h"))
	require.NoError(t, err)
	assert.Equal(t, "Full House (A K)", hs.String())
	assert.Equal(t, "full_house", hs.Category.String())
}

func BenchmarkBest7(b *testing.B) {
	cards := MustParseCards("As Kd 9h 7s 5c 3d 2h")
	b.ResetTimer()
	for b.Loop() {
		_, _ = Best7(cards)
	}
}
