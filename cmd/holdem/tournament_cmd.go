package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/bots"
	"github.com/lox/holdem-arena/internal/config"
	"github.com/lox/holdem-arena/internal/fileutil"
	"github.com/lox/holdem-arena/internal/match"
	"github.com/lox/holdem-arena/internal/rating"
	"github.com/lox/holdem-arena/internal/sandbox"
)

// TournamentCmd runs a rated tournament.
type TournamentCmd struct {
	Bots     []string `arg:"" optional:"" help:"Bot files or built-in names; defaults to the config's bots, then every built-in bot"`
	Config   string   `short:"c" help:"HCL config file" default:"holdem.hcl" env:"HOLDEM_CONFIG"`
	Seed     *int64   `short:"s" help:"Override the tournament seed"`
	Matches  int      `short:"m" help:"Override the number of matches"`
	Parallel int      `short:"p" help:"Override the number of concurrent matches"`
	Ratings  string   `short:"r" help:"Ratings file to load and update" env:"HOLDEM_RATINGS"`
	Progress bool     `help:"Show a live progress view"`
	JSON     bool     `help:"Print the full tournament result as JSON"`
	Out      string   `short:"o" help:"Also write the full tournament result as JSON to this file"`
}

func (c *TournamentCmd) Run(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	entrants, err := c.entrants(cfg)
	if err != nil {
		return err
	}

	tcfg := cfg.Tournament
	if c.Seed != nil {
		tcfg.Seed = *c.Seed
	}
	if c.Matches > 0 {
		tcfg.Matches = c.Matches
	}
	if c.Parallel > 0 {
		tcfg.Parallel = c.Parallel
	}

	ratingsFile := c.Ratings
	if ratingsFile == "" {
		ratingsFile = cfg.RatingsFile
	}
	table := rating.NewTable(tcfg.KFactor)
	if ratingsFile != "" {
		if err := table.Load(ratingsFile); err != nil {
			return err
		}
	}

	sb := sandbox.New(append(cfg.SandboxOptions(), sandbox.WithLogger(logger))...)
	opts := []match.Option{match.WithLogger(logger), match.WithSandbox(sb), match.WithRatings(table)}

	var res *match.TournamentResult
	if c.Progress {
		res, err = runWithProgress(ctx, entrants, tcfg, opts)
	} else {
		res, err = match.RunTournament(ctx, entrants, tcfg, opts...)
	}
	if err != nil {
		return err
	}

	if ratingsFile != "" {
		if err := table.Save(ratingsFile); err != nil {
			return err
		}
	}
	if c.Out != "" {
		if err := fileutil.WriteJSONAtomic(c.Out, res); err != nil {
			return err
		}
	}
	if c.JSON {
		return fileutil.WriteJSON(os.Stdout, res)
	}
	printStandings(res)
	return nil
}

func (c *TournamentCmd) entrants(cfg *config.Config) ([]match.Bot, error) {
	if len(c.Bots) > 0 {
		return resolveBots(c.Bots)
	}
	if len(cfg.Bots) > 0 {
		return cfg.LoadBots()
	}
	all := bots.All()
	if len(all) < 2 {
		return nil, errors.New("no bots given")
	}
	out := make([]match.Bot, len(all))
	for i, b := range all {
		out[i] = match.Bot{Name: b.Name, Code: b.Code}
	}
	return out, nil
}

func printStandings(res *match.TournamentResult) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Tournament %s", res.ID)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("seed %d, %d matches", res.Seed, len(res.Matches))))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("#")+"\t"+headerStyle.Render("BOT")+"\t"+headerStyle.Render("RATING")+"\t"+
		headerStyle.Render("MATCHES")+"\t"+headerStyle.Render("HANDS")+"\t"+headerStyle.Render("BB/100")+"\t"+headerStyle.Render("95% CI"))
	for i, e := range res.Standings {
		hands, bb100, ci := 0, 0.0, "-"
		if s, ok := res.Statistics[e.Name]; ok && s.Hands > 0 {
			hands = s.Hands
			bb100 = s.BBPer100()
			lo, hi := s.ConfidenceInterval95()
			ci = fmt.Sprintf("[%.1f, %.1f]", lo*100, hi*100)
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%d\t%d\t%s\t%s\n",
			i+1, nameStyle.Render(e.Name), e.Rating, e.Matches, hands,
			signed(bb100, fmt.Sprintf("%+.1f", bb100)), dimStyle.Render(ci))
	}
	w.Flush()
}
