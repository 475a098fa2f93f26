package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a := New(42)
	b := New(42)
	for range 100 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	c := New(43)
	assert.NotEqual(t, New(42).Uint64(), c.Uint64())
}

func TestSubSeedDistinct(t *testing.T) {
	t.Parallel()

	seen := make(map[int64]int)
	for i := range 10000 {
		s := SubSeed(7, i)
		if prev, ok := seen[s]; ok {
			t.Fatalf("SubSeed(7, %d) collides with index %d", i, prev)
		}
		seen[s] = i
	}

	assert.Equal(t, SubSeed(7, 3), SubSeed(7, 3))
	assert.NotEqual(t, SubSeed(7, 3), SubSeed(8, 3))
}
