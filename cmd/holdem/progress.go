package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-arena/internal/match"
)

const barWidth = 40

type matchDoneMsg struct {
	summary match.MatchSummary
}

type tournamentDoneMsg struct {
	result *match.TournamentResult
	err    error
}

// progressModel shows tournament progress while matches run.
type progressModel struct {
	total   int
	done    int
	last    []string
	spin    spinner.Model
	result  *match.TournamentResult
	err     error
	aborted bool
}

func newProgressModel(total int) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return progressModel{total: total, spin: s}
}

func (m progressModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.aborted = true
			return m, tea.Quit
		}
	case matchDoneMsg:
		m.done++
		line := fmt.Sprintf("match %d:", msg.summary.Index)
		for _, ch := range msg.summary.Changes {
			line += " " + ch.Name + " " + signed(ch.Delta(), fmt.Sprintf("%+.1f", ch.Delta()))
		}
		m.last = append(m.last, line)
		if len(m.last) > 5 {
			m.last = m.last[1:]
		}
	case tournamentDoneMsg:
		m.result, m.err = msg.result, msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	filled := 0
	if m.total > 0 {
		filled = barWidth * m.done / m.total
	}
	bar := okStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(&b, "%s %s %d/%d matches\n", m.spin.View(), bar, m.done, m.total)
	for _, line := range m.last {
		b.WriteString(dimStyle.Render("  "+line) + "\n")
	}
	return b.String()
}

// runWithProgress runs the tournament behind a live progress view on stderr.
func runWithProgress(ctx context.Context, bots []match.Bot, cfg match.TournamentConfig, opts []match.Option) (*match.TournamentResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(cfg.Matches), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	go func() {
		opts := append(opts, match.WithOnMatchComplete(func(s match.MatchSummary) {
			p.Send(matchDoneMsg{summary: s})
		}))
		res, err := match.RunTournament(ctx, bots, cfg, opts...)
		p.Send(tournamentDoneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(progressModel)
	if m.aborted {
		return nil, context.Canceled
	}
	return m.result, m.err
}
