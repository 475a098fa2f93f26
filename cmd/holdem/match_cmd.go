package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/config"
	"github.com/lox/holdem-arena/internal/fileutil"
	"github.com/lox/holdem-arena/internal/match"
	"github.com/lox/holdem-arena/internal/phh"
	"github.com/lox/holdem-arena/internal/sandbox"
)

// MatchCmd plays one match.
type MatchCmd struct {
	Bots   []string `arg:"" help:"Bot files or built-in bot names, one per seat"`
	Seed   int64    `short:"s" help:"Match seed" default:"1"`
	Config string   `short:"c" help:"HCL config file" default:"holdem.hcl" env:"HOLDEM_CONFIG"`
	Hands  int      `help:"Override the number of hands"`
	JSON   bool     `help:"Print the full match result as JSON"`
	Out    string   `short:"o" help:"Also write the full match result as JSON to this file"`
	Logs   bool     `help:"Print captured bot output and errors"`
	PHH    string   `name:"phh" help:"Write the hand histories as a PHH session file"`
}

func (c *MatchCmd) Run(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	entrants, err := resolveBots(c.Bots)
	if err != nil {
		return err
	}

	mcfg := cfg.Match
	mcfg.Seats = len(entrants)
	if c.Hands > 0 {
		mcfg.Hands = c.Hands
	}
	codes := make([]string, len(entrants))
	for i, b := range entrants {
		codes[i] = b.Code
	}

	sb := sandbox.New(append(cfg.SandboxOptions(), sandbox.WithLogger(logger))...)
	res, err := match.RunMatch(ctx, codes, c.Seed, mcfg, match.WithLogger(logger), match.WithSandbox(sb))
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := fileutil.WriteJSONAtomic(c.Out, res); err != nil {
			return err
		}
	}
	if c.PHH != "" {
		if err := writePHH(c.PHH, res, entrants); err != nil {
			return err
		}
		logger.Info("wrote hand histories", "file", c.PHH)
	}
	if c.JSON {
		return fileutil.WriteJSON(os.Stdout, res)
	}
	printMatch(res, entrants, c.Logs)
	return nil
}

func writePHH(filename string, res *match.Result, entrants []match.Bot) error {
	names := make([]string, len(entrants))
	for i, b := range entrants {
		names[i] = b.Name
	}
	var buf bytes.Buffer
	hands := phh.FromHands(res.Hands, res.Config.HandConfig(), names, res.ID)
	if err := phh.EncodeSession(&buf, hands); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(filename, buf.Bytes(), 0o644)
}

func printMatch(res *match.Result, entrants []match.Bot, showLogs bool) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Match %s", res.ID)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("seed %d, %d of %d hands played", res.Seed, res.HandsPlayed, res.Config.Hands)))
	fmt.Println()

	stats := res.SeatStatistics()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("SEAT")+"\t"+headerStyle.Render("BOT")+"\t"+
		headerStyle.Render("STACK")+"\t"+headerStyle.Render("WON")+"\t"+headerStyle.Render("BB/100")+"\t"+headerStyle.Render("ERRORS"))
	for seat, b := range entrants {
		won := res.ChipsWon[seat]
		errs := "-"
		if res.BotErrors[seat] != "" {
			errs = errorStyle.Render(fmt.Sprintf("%d", strings.Count(res.BotErrors[seat], "ERROR ---")))
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.1f\t%s\n",
			seat, nameStyle.Render(b.Name), res.FinalStacks[seat],
			signed(float64(won), fmt.Sprintf("%+d", won)), stats[seat].BBPer100(), errs)
	}
	w.Flush()

	if !showLogs {
		return
	}
	for seat, b := range entrants {
		if res.BotLogs[seat] == "" && res.BotErrors[seat] == "" {
			continue
		}
		fmt.Println()
		fmt.Println(nameStyle.Render(fmt.Sprintf("seat %d: %s", seat, b.Name)))
		if res.BotLogs[seat] != "" {
			fmt.Println(res.BotLogs[seat])
		}
		if res.BotErrors[seat] != "" {
			fmt.Println(errorStyle.Render(res.BotErrors[seat]))
		}
	}
}
