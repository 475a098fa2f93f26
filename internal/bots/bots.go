// Package bots ships the built-in reference bots.
package bots

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
)

//go:embed star/*.star
var sources embed.FS

// Bot is a built-in bot.
type Bot struct {
	Name        string
	Description string
	Code        string
}

var roster = load()

func load() []Bot {
	entries, err := sources.ReadDir("star")
	if err != nil {
		panic(fmt.Sprintf("reading embedded bots: %v", err))
	}
	out := make([]Bot, 0, len(entries))
	for _, e := range entries {
		data, err := sources.ReadFile(path.Join("star", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("reading embedded bot %s: %v", e.Name(), err))
		}
		code := string(data)
		out = append(out, Bot{
			Name:        strings.TrimSuffix(e.Name(), ".star"),
			Description: description(code),
			Code:        code,
		})
	}
	slices.SortFunc(out, func(a, b Bot) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// description is the first comment line of a bot's source.
func description(code string) string {
	line, _, _ := strings.Cut(code, "\n")
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimPrefix(line, "#"))
	}
	return ""
}

// All returns every built-in bot ordered by name.
func All() []Bot {
	return slices.Clone(roster)
}

// Names returns the built-in bot names in order.
func Names() []string {
	names := make([]string, len(roster))
	for i, b := range roster {
		names[i] = b.Name
	}
	return names
}

// Get returns the named built-in bot.
func Get(name string) (Bot, bool) {
	for _, b := range roster {
		if b.Name == name {
			return b, true
		}
	}
	return Bot{}, false
}
