package rating

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableApply(t *testing.T) {
	t.Parallel()

	table := NewTable(24)
	assert.Equal(t, Default, table.Rating("alice"))

	changes, err := table.Apply([]string{"alice", "bob"}, []float64{100, -100})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.InDelta(t, 12, changes[0].Delta(), 1e-9)
	assert.InDelta(t, -12, changes[1].Delta(), 1e-9)

	standings := table.Standings()
	require.Len(t, standings, 2)
	assert.Equal(t, "alice", standings[0].Name)
	assert.Equal(t, 1, standings[0].Matches)
	assert.Equal(t, "bob", standings[1].Name)
}

func TestTableApplyErrors(t *testing.T) {
	t.Parallel()

	table := NewTable(0)
	_, err := table.Apply([]string{"a"}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = table.Apply([]string{"a", "a"}, []float64{1, 2})
	assert.Error(t, err)
	assert.Empty(t, table.Standings())
}

func TestTableConcurrentApplyIsZeroSum(t *testing.T) {
	t.Parallel()

	table := NewTable(24)
	names := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seats := []string{names[i%4], names[(i+1)%4], names[(i+2)%4]}
			_, err := table.Apply(seats, []float64{float64(i % 3), 1, -float64(i % 3)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var total float64
	matches := 0
	for _, e := range table.Standings() {
		total += e.Rating
		matches += e.Matches
	}
	assert.InDelta(t, 4*Default, total, 1e-6)
	assert.Equal(t, 150, matches)
}

func TestTableSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ratings.json")

	table := NewTable(24)
	for i := range 5 {
		_, err := table.Apply([]string{"x", "y", "z"}, []float64{float64(i), 0, -float64(i)})
		require.NoError(t, err)
	}
	require.NoError(t, table.Save(path))

	loaded := NewTable(24)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, table.Standings(), loaded.Standings())
}

func TestTableLoadMissing(t *testing.T) {
	t.Parallel()

	table := NewTable(24)
	require.NoError(t, table.Load(filepath.Join(t.TempDir(), "none.json")))
	assert.Empty(t, table.Standings())
}

func TestTableSet(t *testing.T) {
	t.Parallel()

	table := NewTable(24)
	table.Set("hi", 9000)
	table.Set("lo", -5)
	assert.Equal(t, MaxRating, table.Rating("hi"))
	assert.Equal(t, MinRating, table.Rating("lo"))
	assert.Equal(t, fmt.Sprint([]string{"hi", "lo"}), fmt.Sprint(names(table.Standings())))
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
