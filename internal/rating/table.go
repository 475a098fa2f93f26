package rating

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/lox/holdem-arena/internal/fileutil"
)

// Entry is one bot's rating record.
type Entry struct {
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Matches int     `json:"matches"`
}

// Change describes how one match moved a bot's rating.
type Change struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Score  float64 `json:"score"`
}

// Delta returns After - Before.
func (c Change) Delta() float64 {
	return c.After - c.Before
}

// Table is a rating table shared between concurrently running matches. Each
// Apply is atomic with respect to the others.
type Table struct {
	mu      sync.Mutex
	k       float64
	entries map[string]*Entry
}

// NewTable creates an empty table using k as the Elo K-factor.
func NewTable(k float64) *Table {
	if k <= 0 {
		k = DefaultKFactor
	}
	return &Table{k: k, entries: make(map[string]*Entry)}
}

// Rating returns the current rating of name, or Default if unknown.
func (t *Table) Rating(name string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[name]; ok {
		return e.Rating
	}
	return Default
}

// Set overrides a bot's rating.
func (t *Table) Set(name string, r float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(name).Rating = Clamp(r)
}

// Apply records one match between the named bots with the given scores.
func (t *Table) Apply(names []string, scores []float64) ([]Change, error) {
	if len(names) != len(scores) {
		return nil, fmt.Errorf("%w: %d names, %d scores", ErrLengthMismatch, len(names), len(scores))
	}
	if dup := duplicate(names); dup != "" {
		return nil, fmt.Errorf("bot %q appears twice in one match", dup)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	before := make([]float64, len(names))
	for i, name := range names {
		before[i] = t.entry(name).Rating
	}
	after, err := UpdateRatings(before, scores, t.k)
	if err != nil {
		return nil, err
	}

	changes := make([]Change, len(names))
	for i, name := range names {
		e := t.entry(name)
		e.Rating = after[i]
		e.Matches++
		changes[i] = Change{Name: name, Before: before[i], After: after[i], Score: scores[i]}
	}
	return changes, nil
}

// Standings returns all entries ordered by rating, highest first, then name.
func (t *Table) Standings() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, len(t.entries))
	for _, name := range slices.Sorted(maps.Keys(t.entries)) {
		out = append(out, *t.entries[name])
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return out
}

// Save writes the table to path as JSON.
func (t *Table) Save(path string) error {
	return fileutil.WriteJSONAtomic(path, t.Standings())
}

// Load merges entries from a JSON file written by Save. A missing file is not
// an error.
func (t *Table) Load(path string) error {
	var entries []Entry
	if _, err := fileutil.ReadJSON(path, &entries); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		cur := t.entry(e.Name)
		cur.Rating = Clamp(e.Rating)
		cur.Matches = e.Matches
	}
	return nil
}

func (t *Table) entry(name string) *Entry {
	e, ok := t.entries[name]
	if !ok {
		e = &Entry{Name: name, Rating: Default}
		t.entries[name] = e
	}
	return e
}

func duplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return ""
}
