package poker

// HoleCardCategory is a coarse preflop strength bucket for two hole cards.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "premium"
	CategoryStrong  HoleCardCategory = "strong"
	CategoryMedium  HoleCardCategory = "medium"
	CategoryWeak    HoleCardCategory = "weak"
	CategoryTrash   HoleCardCategory = "trash"
	CategoryUnknown HoleCardCategory = "unknown"
)

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77-99, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(hole []Card) HoleCardCategory {
	if len(hole) != 2 || !hole[0].Valid() || !hole[1].Valid() || hole[0] == hole[1] {
		return CategoryUnknown
	}

	small, big := hole[0].Rank(), hole[1].Rank()
	if small > big {
		small, big = big, small
	}
	suited := hole[0].Suit() == hole[1].Suit()
	pair := small == big

	switch {
	case pair && small >= Jack, small == King && big == Ace:
		return CategoryPremium
	case pair && small == Ten, big == Ace && (small == Queen || small == Jack):
		return CategoryStrong
	case pair && small >= Seven, suited && small >= Ten:
		return CategoryMedium
	case pair, suited && big-small <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}
