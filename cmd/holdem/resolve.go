package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lox/holdem-arena/internal/bots"
	"github.com/lox/holdem-arena/internal/match"
)

// resolveBot loads a bot from a file path, or from the built-in roster when
// no such file exists.
func resolveBot(ref string) (match.Bot, error) {
	code, err := os.ReadFile(ref)
	if err == nil {
		name := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
		return match.Bot{Name: name, Code: string(code)}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return match.Bot{}, err
	}
	if b, ok := bots.Get(ref); ok {
		return match.Bot{Name: b.Name, Code: b.Code}, nil
	}
	return match.Bot{}, fmt.Errorf("bot %q is neither a file nor a built-in (see `holdem bots`)", ref)
}

// resolveBots resolves refs and makes names unique by suffixing repeats.
func resolveBots(refs []string) ([]match.Bot, error) {
	out := make([]match.Bot, 0, len(refs))
	seen := make(map[string]int)
	for _, ref := range refs {
		b, err := resolveBot(ref)
		if err != nil {
			return nil, err
		}
		seen[b.Name]++
		if n := seen[b.Name]; n > 1 {
			b.Name = fmt.Sprintf("%s#%d", b.Name, n)
		}
		out = append(out, b)
	}
	return out, nil
}
