package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/bots"
	"github.com/lox/holdem-arena/internal/rating"
	"github.com/lox/holdem-arena/internal/sandbox"
	"github.com/lox/holdem-arena/poker"
)

// EquityCmd estimates equity against random opponent hands.
type EquityCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. AsAd"`
	Board     string `short:"b" help:"Board cards, e.g. Td7s8h"`
	Opponents int    `short:"n" help:"Number of opponents" default:"1"`
	Samples   int    `short:"i" help:"Number of Monte Carlo samples" default:"100000"`
	Seed      *int64 `help:"Random seed for reproducible results"`
}

func (c *EquityCmd) Run(logger *log.Logger) error {
	hole, err := poker.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	if len(hole) != 2 {
		return fmt.Errorf("hole cards: want 2, got %d", len(hole))
	}
	var board []poker.Card
	if c.Board != "" {
		if board, err = poker.ParseCards(c.Board); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}
	if len(board) > 5 {
		return fmt.Errorf("board: at most 5 cards, got %d", len(board))
	}
	if _, err := poker.NewCardSet(append(append([]poker.Card{}, hole...), board...)...); err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	start := time.Now()
	equity := poker.EstimateEquity(hole, board, c.Opponents, seed, c.Samples)
	logger.Debug("equity estimated", "samples", c.Samples, "seed", seed, "elapsed", time.Since(start))

	fmt.Printf("%s %s vs %d opponent(s): %s\n",
		nameStyle.Render(strings.Join(poker.CardStrings(hole), " ")),
		dimStyle.Render("["+strings.Join(poker.CardStrings(board), " ")+"]"),
		c.Opponents,
		okStyle.Render(fmt.Sprintf("%.2f%%", equity*100)))
	if len(board) == 0 {
		fmt.Println(dimStyle.Render("preflop class: " + string(poker.CategorizeHoleCards(hole))))
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d samples, seed %d", c.Samples, seed)))
	return nil
}

// EvalCmd evaluates five to seven cards.
type EvalCmd struct {
	Cards []string `arg:"" help:"Five to seven cards, e.g. As Ks Qs Js Ts 2d 3c"`
}

func (c *EvalCmd) Run() error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	if len(cards) < 5 || len(cards) > 7 {
		return fmt.Errorf("%w: want 5 to 7 cards, got %d", poker.ErrCardCount, len(cards))
	}
	hs, err := poker.MadeHand(cards, nil)
	if err != nil {
		return err
	}
	ranks := make([]string, len(hs.Ranks))
	for i, r := range hs.Ranks {
		ranks[i] = strconv.Itoa(int(r))
	}
	fmt.Printf("%s %s\n", categoryStyle.Render(hs.Category.String()), dimStyle.Render("("+strings.Join(ranks, ",")+")"))
	fmt.Println(hs.String())
	return nil
}

// ValidateCmd statically checks bot files.
type ValidateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Bot source files"`
}

func (c *ValidateCmd) Run() error {
	failed := 0
	for _, f := range c.Files {
		code, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if err := sandbox.Validate(string(code)); err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", errorStyle.Render("✗"), f, err)
			continue
		}
		fmt.Printf("%s %s\n", okStyle.Render("✓"), f)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bots failed validation", failed, len(c.Files))
	}
	return nil
}

// RateCmd applies one result to a set of ratings.
type RateCmd struct {
	Entries []string `arg:"" help:"rating:score pairs, e.g. 1500:100 1500:-100"`
	K       float64  `short:"k" help:"Elo K-factor" default:"24"`
}

func (c *RateCmd) Run() error {
	ratings := make([]float64, len(c.Entries))
	scores := make([]float64, len(c.Entries))
	for i, e := range c.Entries {
		r, s, ok := strings.Cut(e, ":")
		if !ok {
			return fmt.Errorf("entry %q: want rating:score", e)
		}
		var err error
		if ratings[i], err = strconv.ParseFloat(r, 64); err != nil {
			return fmt.Errorf("entry %q: %w", e, err)
		}
		if scores[i], err = strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("entry %q: %w", e, err)
		}
	}

	updated, err := rating.UpdateRatings(ratings, scores, c.K)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("BEFORE")+"\t"+headerStyle.Render("SCORE")+"\t"+headerStyle.Render("AFTER")+"\t"+headerStyle.Render("DELTA"))
	for i := range updated {
		d := updated[i] - rating.Sanitize(ratings[i])
		fmt.Fprintf(w, "%.1f\t%g\t%.1f\t%s\n", ratings[i], scores[i], updated[i], signed(d, fmt.Sprintf("%+.2f", d)))
	}
	return w.Flush()
}

// BotsCmd lists the built-in bots.
type BotsCmd struct {
	Show string `help:"Print the source of one built-in bot"`
}

func (c *BotsCmd) Run() error {
	if c.Show != "" {
		b, ok := bots.Get(c.Show)
		if !ok {
			return errors.New("unknown bot " + c.Show)
		}
		fmt.Print(b.Code)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, b := range bots.All() {
		fmt.Fprintf(w, "%s\t%s\n", nameStyle.Render(b.Name), dimStyle.Render(b.Description))
	}
	return w.Flush()
}
