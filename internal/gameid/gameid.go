// Package gameid derives identifiers for matches, hands and tournaments.
//
// IDs are name-based UUIDs (version 5) encoded as 26 characters of
// Crockford base32, the TypeID suffix format. The same inputs always give
// the same ID, so replaying a seed reproduces its IDs.
package gameid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID.
const Length = 26

var namespace = uuid.MustParse("5d1f9a34-2b7e-4c1a-9f0e-6c3b8a1d4e27")

// New derives an ID from the given parts.
func New(kind string, parts ...any) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range parts {
		fmt.Fprintf(&b, "/%v", p)
	}
	return encodeBase32(uuid.NewSHA1(namespace, []byte(b.String())))
}

// Match returns the ID of the match played from seed by the given bots.
func Match(seed int64, seats int) string {
	return New("match", seed, seats)
}

// Hand returns the ID of hand number n of a match.
func Hand(matchID string, n int) string {
	return New("hand", matchID, n)
}

// Tournament returns the ID of the tournament run from seed.
func Tournament(seed int64) string {
	return New("tournament", seed)
}

// encodeBase32 encodes 128 bits as 26 characters. The value is treated as
// 130 bits with two leading zero bits, so the first character is 0-7.
func encodeBase32(data [16]byte) string {
	bit := func(j int) uint8 {
		if j < 0 {
			return 0
		}
		return (data[j/8] >> (7 - j%8)) & 1
	}

	result := make([]byte, Length)
	for i := range result {
		var value uint8
		for k := 0; k < 5; k++ {
			value = value<<1 | bit(i*5+k-2)
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks that id is 26 characters of base32 with a first character
// no greater than 7.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
