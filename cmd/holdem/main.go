package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"warn" env:"HOLDEM_LOG_LEVEL"`
	NoColor  bool   `help:"Disable colored output" env:"NO_COLOR"`
}

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Match      MatchCmd         `cmd:"" help:"Play a match between bots"`
	Tournament TournamentCmd    `cmd:"" help:"Run a rated tournament"`
	Equity     EquityCmd        `cmd:"" help:"Estimate hand equity by Monte Carlo"`
	Eval       EvalCmd          `cmd:"" help:"Evaluate the best five-card hand"`
	Validate   ValidateCmd      `cmd:"" help:"Check bot code without running it"`
	Rate       RateCmd          `cmd:"" help:"Apply one multi-way result to Elo ratings"`
	Bots       BotsCmd          `cmd:"" help:"List built-in bots"`
}

func main() {
	// A missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Deterministic Texas Hold'em arena for sandboxed bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger, err := newLogger(cli.LogLevel)
	kctx.FatalIfErrorf(err)
	setupStyles(cli.NoColor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(logger)
	err = kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}), nil
}
