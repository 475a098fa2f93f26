package match

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lox/holdem-arena/internal/game"
	"github.com/lox/holdem-arena/internal/sandbox"
)

// botSeats is the DecisionProvider that runs each seat's compiled bot in
// the sandbox and keeps its output.
type botSeats struct {
	sandbox  *sandbox.Sandbox
	programs []*sandbox.Program
	failures []error
	logs     []*tail
	errs     []*tail
}

func newBotSeats(sb *sandbox.Sandbox, n, maxBytes int) *botSeats {
	b := &botSeats{
		sandbox:  sb,
		programs: make([]*sandbox.Program, n),
		failures: make([]error, n),
		logs:     make([]*tail, n),
		errs:     make([]*tail, n),
	}
	for i := range n {
		b.logs[i] = &tail{max: maxBytes}
		b.errs[i] = &tail{max: maxBytes}
	}
	return b
}

// compile compiles every seat's code once. A seat whose code does not
// compile fails every decision.
func (b *botSeats) compile(codes []string) {
	for seat, code := range codes {
		prog, err := sandbox.Compile(code)
		if err != nil {
			b.failures[seat] = err
			b.errs[seat].add(fmt.Sprintf("--- compile seat=%d ERROR ---\n%s", seat, err))
			continue
		}
		b.programs[seat] = prog
	}
}

func (b *botSeats) Decide(ctx context.Context, seat int, state game.BotVisibleState) (game.Action, error) {
	if err := b.failures[seat]; err != nil {
		return game.Action{}, err
	}

	res := b.sandbox.Run(ctx, b.programs[seat], state)
	if len(res.Logs) > 0 {
		b.logs[seat].add(header(state, seat, "") + strings.Join(res.Logs, "\n"))
	}
	if res.Err != nil {
		b.errs[seat].add(header(state, seat, " ERROR") + res.Err.Error())
		return game.Action{}, res.Err
	}
	return res.Action, nil
}

func header(state game.BotVisibleState, seat int, suffix string) string {
	return fmt.Sprintf("--- %s %s seat=%d%s ---\n", state.HandID, state.Street, seat, suffix)
}

func (b *botSeats) logText() []string {
	return texts(b.logs)
}

func (b *botSeats) errorText() []string {
	return texts(b.errs)
}

func texts(ts []*tail) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

// tail keeps the last max bytes of appended blocks.
type tail struct {
	mu  sync.Mutex
	max int
	buf string
}

func (t *tail) add(block string) {
	block = strings.TrimRight(block, "\n")
	if block == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf != "" {
		t.buf += "\n"
	}
	t.buf += block
	if t.max > 0 && len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
}

func (t *tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf
}
