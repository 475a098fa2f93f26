package game

// Street is a betting round, or Showdown once betting is over.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

var streetNames = [...]string{"preflop", "flop", "turn", "river", "showdown"}

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return streetNames[s]
}

func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EndReason records how a hand finished.
type EndReason string

const (
	EndShowdown  EndReason = "showdown"
	EndFoldedOut EndReason = "folded_out"
	// EndNoContest is a hand with fewer than two funded seats. Nothing is
	// dealt or posted.
	EndNoContest EndReason = "no_contest"
)
