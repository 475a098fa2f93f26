package gameid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Match(42, 3), Match(42, 3))
	assert.NotEqual(t, Match(42, 3), Match(43, 3))
	assert.NotEqual(t, Match(42, 3), Match(42, 4))

	m := Match(7, 2)
	assert.Equal(t, Hand(m, 0), Hand(m, 0))
	assert.NotEqual(t, Hand(m, 0), Hand(m, 1))
	assert.NotEqual(t, Tournament(7), Match(7, 2))
}

func TestGeneratedIDsValidate(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := range 200 {
		id := Hand("m", i)
		require.NoError(t, Validate(id), id)
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestEncodeBase32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00000000000000000000000000", encodeBase32([16]byte{}))

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", encodeBase32(ones))

	var low [16]byte
	low[15] = 1
	assert.Equal(t, "00000000000000000000000001", encodeBase32(low))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h2xcejqtf2nbrexx3vqjhp41", false},
		{"too short", "01h2xcejqtf2nbrexx3vqjhp4", true},
		{"too long", "01h2xcejqtf2nbrexx3vqjhp411", true},
		{"first char too large", "81h2xcejqtf2nbrexx3vqjhp41", true},
		{"invalid char i", "01h2xcejqtf2nbrexx3vqjhpi1", true},
		{"uppercase", "01H2XCEJQTF2NBREXX3VQJHP41", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
