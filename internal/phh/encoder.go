package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Encode writes one hand history as a bare PHH TOML document.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeSession writes hands as a PHHS session, one numbered table per
// hand starting at [1].
func EncodeSession(w io.Writer, hands []*HandHistory) error {
	for i, hand := range hands {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return fmt.Errorf("phh: hand %d: %w", i+1, err)
		}
	}
	return nil
}

// FormatAction converts an action log entry to its PHH form. Blind posts
// are carried by blinds_or_straddles and are not emitted.
func FormatAction(player int, action string, raiseTo int) (string, bool) {
	p := fmt.Sprintf("p%d", player+1)
	switch action {
	case "fold":
		return p + " f", true
	case "check", "call":
		return p + " cc", true
	case "raise":
		if raiseTo <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", p, raiseTo), true
	case "post_sb", "post_bb":
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", p, action, raiseTo), true
	}
}
