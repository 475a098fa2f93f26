// Package config loads match and tournament settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-arena/internal/bots"
	"github.com/lox/holdem-arena/internal/game"
	"github.com/lox/holdem-arena/internal/match"
	"github.com/lox/holdem-arena/internal/sandbox"
)

// File is the raw HCL layout. Every block is optional.
type File struct {
	Match      *MatchBlock      `hcl:"match,block"`
	Sandbox    *SandboxBlock    `hcl:"sandbox,block"`
	Tournament *TournamentBlock `hcl:"tournament,block"`
	Bots       []BotBlock       `hcl:"bot,block"`
}

// MatchBlock holds per-match settings.
type MatchBlock struct {
	Seats               int    `hcl:"seats,optional"`
	Hands               int    `hcl:"hands,optional"`
	StartingStack       int    `hcl:"starting_stack,optional"`
	SmallBlind          int    `hcl:"small_blind,optional"`
	BigBlind            int    `hcl:"big_blind,optional"`
	MaxActionsPerStreet int    `hcl:"max_actions_per_street,optional"`
	RejectPolicy        string `hcl:"reject_policy,optional"`
	EquitySamples       *int   `hcl:"equity_samples,optional"`
	MaxLogBytes         int    `hcl:"max_log_bytes,optional"`
}

// SandboxBlock holds bot execution limits.
type SandboxBlock struct {
	Timeout  string  `hcl:"timeout,optional"`
	MaxSteps *uint64 `hcl:"max_steps,optional"`
}

// TournamentBlock holds tournament settings.
type TournamentBlock struct {
	Seed        int64   `hcl:"seed,optional"`
	Matches     int     `hcl:"matches,optional"`
	Parallel    int     `hcl:"parallel,optional"`
	KFactor     float64 `hcl:"k_factor,optional"`
	RatingsFile string  `hcl:"ratings_file,optional"`
}

// BotBlock names a bot and where its code comes from: a built-in bot or a
// file path relative to the config file.
type BotBlock struct {
	Name    string `hcl:"name,label"`
	Builtin string `hcl:"builtin,optional"`
	File    string `hcl:"file,optional"`
}

// Config is a loaded configuration with defaults applied.
type Config struct {
	Match       match.Config
	Tournament  match.TournamentConfig
	Timeout     time.Duration
	MaxSteps    uint64
	RatingsFile string
	Bots        []BotBlock

	dir string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	t := match.DefaultTournamentConfig()
	return &Config{
		Match:      t.Match,
		Tournament: t,
		Timeout:    sandbox.DefaultTimeout,
		MaxSteps:   sandbox.DefaultMaxSteps,
		dir:        ".",
	}
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(src, filename)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(filename)
	return cfg, nil
}

// Parse decodes HCL source, applies defaults and validates the result.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw File
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if err := cfg.apply(&raw); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(raw *File) error {
	if m := raw.Match; m != nil {
		setInt(&c.Match.Seats, m.Seats)
		setInt(&c.Match.Hands, m.Hands)
		setInt(&c.Match.StartingStack, m.StartingStack)
		setInt(&c.Match.SmallBlind, m.SmallBlind)
		setInt(&c.Match.BigBlind, m.BigBlind)
		setInt(&c.Match.MaxActionsPerStreet, m.MaxActionsPerStreet)
		setInt(&c.Match.MaxLogBytes, m.MaxLogBytes)
		if m.EquitySamples != nil {
			c.Match.EquitySamples = *m.EquitySamples
		}
		policy, err := game.ParseRejectPolicy(m.RejectPolicy)
		if err != nil {
			return err
		}
		c.Match.RejectPolicy = policy
	}

	if s := raw.Sandbox; s != nil {
		if s.Timeout != "" {
			d, err := time.ParseDuration(s.Timeout)
			if err != nil {
				return fmt.Errorf("sandbox timeout: %w", err)
			}
			c.Timeout = d
		}
		if s.MaxSteps != nil {
			c.MaxSteps = *s.MaxSteps
		}
	}

	if t := raw.Tournament; t != nil {
		c.Tournament.Seed = t.Seed
		setInt(&c.Tournament.Matches, t.Matches)
		setInt(&c.Tournament.Parallel, t.Parallel)
		if t.KFactor != 0 {
			c.Tournament.KFactor = t.KFactor
		}
		c.RatingsFile = t.RatingsFile
	}
	c.Tournament.Match = c.Match
	c.Bots = raw.Bots
	return nil
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Tournament.Validate(); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("sandbox timeout must be positive, got %s", c.Timeout)
	}

	seen := make(map[string]bool, len(c.Bots))
	for _, b := range c.Bots {
		if seen[b.Name] {
			return fmt.Errorf("bot %s: defined more than once", b.Name)
		}
		seen[b.Name] = true
		if (b.Builtin == "") == (b.File == "") {
			return fmt.Errorf("bot %s: exactly one of builtin or file must be set", b.Name)
		}
		if b.Builtin != "" {
			if _, ok := bots.Get(b.Builtin); !ok {
				return fmt.Errorf("bot %s: unknown builtin %q", b.Name, b.Builtin)
			}
		}
	}
	return nil
}

// SandboxOptions returns the sandbox limits as options.
func (c *Config) SandboxOptions() []sandbox.Option {
	return []sandbox.Option{
		sandbox.WithTimeout(c.Timeout),
		sandbox.WithMaxSteps(c.MaxSteps),
	}
}

// LoadBots resolves the configured bots to source code. Files are read
// relative to the config file's directory.
func (c *Config) LoadBots() ([]match.Bot, error) {
	out := make([]match.Bot, 0, len(c.Bots))
	for _, b := range c.Bots {
		if b.Builtin != "" {
			builtin, _ := bots.Get(b.Builtin)
			out = append(out, match.Bot{Name: b.Name, Code: builtin.Code})
			continue
		}
		path := b.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.dir, path)
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("bot %s: %w", b.Name, err)
		}
		out = append(out, match.Bot{Name: b.Name, Code: string(code)})
	}
	return out, nil
}
