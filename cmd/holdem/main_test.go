package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/match"
)

func TestResolveBots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "mine.star")
	require.NoError(t, os.WriteFile(path, []byte("def decide_action(s):\n    return {\"type\": \"fold\"}\n"), 0o644))

	got, err := resolveBots([]string{path, "scaredy_cat", "scaredy_cat"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "mine", got[0].Name)
	assert.Contains(t, got[0].Code, "fold")
	assert.Equal(t, "scaredy_cat", got[1].Name)
	assert.Equal(t, "scaredy_cat#2", got[2].Name)

	_, err = resolveBots([]string{"no_such_bot"})
	assert.ErrorContains(t, err, "neither a file nor a built-in")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestRateCmd(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&RateCmd{Entries: []string{"1500:100", "1500:-100"}, K: 24}).Run())
	assert.Error(t, (&RateCmd{Entries: []string{"1500"}, K: 24}).Run())
	assert.Error(t, (&RateCmd{Entries: []string{"x:1", "1500:2"}, K: 24}).Run())
}

func TestEvalCmd(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&EvalCmd{Cards: []string{"As", "Ks", "Qs", "Js", "Ts", "2d", "3c"}}).Run())
	assert.Error(t, (&EvalCmd{Cards: []string{"As", "Ks"}}).Run())
	assert.Error(t, (&EvalCmd{Cards: []string{"As", "As", "Qs", "Js", "Ts"}}).Run())
}

func TestWritePHH(t *testing.T) {
	t.Parallel()

	entrants, err := resolveBots([]string{"calling_station", "baseline_check_call"})
	require.NoError(t, err)

	cfg := match.DefaultConfig()
	cfg.Seats = 2
	cfg.Hands = 3
	cfg.EquitySamples = 0
	res, err := match.RunMatch(context.Background(), []string{entrants[0].Code, entrants[1].Code}, 5, cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.phhs")
	require.NoError(t, writePHH(path, res, entrants))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "[1]\n"))
	assert.Contains(t, out, "[3]\n")
	assert.Contains(t, out, `players = ["calling_station", "baseline_check_call"]`)
}
