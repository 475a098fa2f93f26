package match

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/rating"
)

func TestScheduleBalanced(t *testing.T) {
	t.Parallel()

	pairings := Schedule(5, 10, 3, 77)
	require.Len(t, pairings, 10)

	counts := make([]int, 5)
	for i, p := range pairings {
		assert.Equal(t, i, p.Index)
		require.Len(t, p.Bots, 3)
		seen := map[int]bool{}
		for _, b := range p.Bots {
			assert.False(t, seen[b], "bot %d seated twice in match %d", b, i)
			seen[b] = true
			counts[b]++
		}
	}
	// 30 seats over 5 bots: everyone plays 6 matches.
	for b, c := range counts {
		assert.Equal(t, 6, c, "bot %d", b)
	}
}

func TestScheduleDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Schedule(6, 8, 4, 1), Schedule(6, 8, 4, 1))
	assert.NotEqual(t, Schedule(6, 8, 4, 1), Schedule(6, 8, 4, 2))
}

func TestScheduleSmallRoster(t *testing.T) {
	t.Parallel()

	pairings := Schedule(2, 3, 6, 5)
	require.Len(t, pairings, 3)
	for _, p := range pairings {
		assert.ElementsMatch(t, []int{0, 1}, p.Bots)
	}
	assert.Nil(t, Schedule(1, 3, 6, 5))
}

func tournamentBots() []Bot {
	return []Bot{
		{Name: "maniac", Code: maniacBot},
		{Name: "station", Code: checkCallBot},
		{Name: "monkey", Code: minRaiseBot},
		{Name: "station2", Code: checkCallBot},
	}
}

func tournamentConfig(parallel int) TournamentConfig {
	cfg := DefaultTournamentConfig()
	cfg.Seed = 2024
	cfg.Matches = 6
	cfg.Parallel = parallel
	cfg.Match = testConfig(3, 8)
	return cfg
}

func TestRunTournamentIndependentOfParallelism(t *testing.T) {
	t.Parallel()

	serial, err := RunTournament(context.Background(), tournamentBots(), tournamentConfig(1))
	require.NoError(t, err)
	parallel, err := RunTournament(context.Background(), tournamentBots(), tournamentConfig(4))
	require.NoError(t, err)

	assert.Equal(t, serial.ID, parallel.ID)
	assert.Equal(t, serial.Standings, parallel.Standings)
	require.Len(t, parallel.Matches, 6)
	for i := range serial.Matches {
		assert.Equal(t, serial.Matches[i].Names, parallel.Matches[i].Names)
		assert.Equal(t, serial.Matches[i].Result.FinalStacks, parallel.Matches[i].Result.FinalStacks)
		assert.Equal(t, serial.Matches[i].Changes, parallel.Matches[i].Changes)
	}
}

func TestRunTournamentZeroSum(t *testing.T) {
	t.Parallel()

	res, err := RunTournament(context.Background(), tournamentBots(), tournamentConfig(2))
	require.NoError(t, err)
	require.Len(t, res.Standings, 4)

	var total float64
	matches := 0
	for _, e := range res.Standings {
		total += e.Rating
		matches += e.Matches
	}
	assert.InDelta(t, 4*rating.Default, total, 1e-6)
	assert.Equal(t, 6*3, matches)

	for i := 1; i < len(res.Standings); i++ {
		assert.GreaterOrEqual(t, res.Standings[i-1].Rating, res.Standings[i].Rating)
	}

	hands := 0
	for _, s := range res.Statistics {
		hands += s.Hands
	}
	assert.Positive(t, hands)
}

func TestRunTournamentCallbackOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var order []int
	table := rating.NewTable(16)
	_, err := RunTournament(context.Background(), tournamentBots(), tournamentConfig(3),
		WithRatings(table),
		WithOnMatchComplete(func(s MatchSummary) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, s.Index)
			assert.Len(t, s.Changes, len(s.Names))
		}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)
	assert.Len(t, table.Standings(), 4)
}

func TestRunTournamentValidation(t *testing.T) {
	t.Parallel()

	_, err := RunTournament(context.Background(), tournamentBots()[:1], tournamentConfig(1))
	assert.ErrorIs(t, err, ErrConfig)

	dup := []Bot{{Name: "a", Code: checkCallBot}, {Name: "a", Code: checkCallBot}}
	_, err = RunTournament(context.Background(), dup, tournamentConfig(1))
	assert.ErrorIs(t, err, ErrConfig)

	cfg := tournamentConfig(0)
	_, err = RunTournament(context.Background(), tournamentBots(), cfg)
	assert.ErrorIs(t, err, ErrConfig)
}
