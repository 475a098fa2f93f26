// Package sandbox validates and runs untrusted bot code.
//
// Bot code is Starlark, a small deterministic Python dialect with no access
// to files, the network, the clock or other processes. Each decision runs
// in a fresh interpreter thread with:
//
//   - an allow-list of builtins and loadable modules (math, json, statistics)
//   - a wall-clock deadline that cancels the thread
//   - an execution step budget
//   - captured print output
//
// State crosses the boundary as JSON in both directions; bot code never
// shares memory with the engine.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	starjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/lox/holdem-arena/internal/game"
)

const (
	DefaultTimeout     = time.Second
	DefaultMaxSteps    = 5_000_000
	DefaultMaxLogBytes = 16 << 10
)

// Sandbox runs bot programs under limits. It is safe for concurrent use.
type Sandbox struct {
	clock       quartz.Clock
	logger      *log.Logger
	timeout     time.Duration
	maxSteps    uint64
	maxLogBytes int
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithClock sets the clock used for deadlines.
func WithClock(clock quartz.Clock) Option {
	return func(s *Sandbox) {
		s.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Sandbox) {
		s.logger = logger
	}
}

// WithTimeout sets the default per-decision deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Sandbox) {
		s.timeout = d
	}
}

// WithMaxSteps sets the execution step budget. Zero means unlimited.
func WithMaxSteps(n uint64) Option {
	return func(s *Sandbox) {
		s.maxSteps = n
	}
}

// WithMaxLogBytes bounds the print output kept per decision.
func WithMaxLogBytes(n int) Option {
	return func(s *Sandbox) {
		s.maxLogBytes = n
	}
}

// New creates a Sandbox.
func New(opts ...Option) *Sandbox {
	s := &Sandbox{
		clock:       quartz.NewReal(),
		timeout:     DefaultTimeout,
		maxSteps:    DefaultMaxSteps,
		maxLogBytes: DefaultMaxLogBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("sandbox")
	return s
}

// Timeout returns the default per-decision deadline.
func (s *Sandbox) Timeout() time.Duration {
	return s.timeout
}

// Program is validated, compiled bot code. A Program holds no state between
// runs: every run executes the module afresh.
type Program struct {
	prog *starlark.Program
}

// Compile validates and compiles code.
func Compile(code string) (*Program, error) {
	src, err := check(code)
	if err != nil {
		return nil, err
	}
	f, err := syntax.Parse(botFilename, src, 0)
	if err != nil {
		return nil, syntaxError(err)
	}
	prog, err := starlark.FileProgram(f, predeclared.Has)
	if err != nil {
		return nil, nameError(err)
	}
	return &Program{prog: prog}, nil
}

// Result is the outcome of one decision.
type Result struct {
	Action game.Action
	Err    error
	Logs   []string
}

// OK reports whether the decision produced an action.
func (r Result) OK() bool {
	return r.Err == nil
}

// RunDecision compiles code and runs one decision with the given deadline.
func (s *Sandbox) RunDecision(ctx context.Context, code string, state game.BotVisibleState, timeout time.Duration) Result {
	prog, err := Compile(code)
	if err != nil {
		return Result{Err: err}
	}
	return s.run(ctx, prog, state, timeout)
}

// Run runs one decision of a compiled program with the default deadline.
func (s *Sandbox) Run(ctx context.Context, prog *Program, state game.BotVisibleState) Result {
	return s.run(ctx, prog, state, s.timeout)
}

func (s *Sandbox) run(ctx context.Context, prog *Program, state game.BotVisibleState, timeout time.Duration) Result {
	payload, err := json.Marshal(state)
	if err != nil {
		return Result{Err: fmt.Errorf("encoding state: %w", err)}
	}

	logs := &logBuffer{limit: s.maxLogBytes}
	thread := &starlark.Thread{
		Name: entryPoint,
		Print: func(_ *starlark.Thread, msg string) {
			logs.add(msg)
		},
		Load: loadModule,
	}
	if s.maxSteps > 0 {
		thread.SetMaxExecutionSteps(s.maxSteps)
	}

	expired := make(chan struct{})
	timer := s.clock.AfterFunc(timeout, func() {
		close(expired)
		thread.Cancel("timeout")
	}, "sandbox", "deadline")
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel("context done")
	})
	defer stop()

	// The worker is abandoned on timeout; Cancel stops it at its next step.
	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Result{Err: &RuntimeError{Msg: fmt.Sprintf("panic: %v", r)}}
			}
		}()
		action, err := prog.call(thread, payload)
		done <- Result{Action: action, Err: err}
	}()

	var res Result
	select {
	case res = <-done:
		if res.Err != nil {
			select {
			case <-expired:
				res = Result{Err: &timeoutError{after: timeout}}
			default:
			}
		}
	case <-expired:
		res = Result{Err: &timeoutError{after: timeout}}
	case <-ctx.Done():
		res = Result{Err: ctx.Err()}
	}
	res.Logs = logs.lines()

	if res.Err != nil {
		s.logger.Debug("decision failed", "hand", state.HandID, "seat", state.ActorSeat, "err", res.Err)
	}
	return res
}

func (p *Program) call(thread *starlark.Thread, payload []byte) (game.Action, error) {
	globals, err := p.prog.Init(thread, predeclared)
	if err != nil {
		return game.Action{}, runtimeError(err)
	}
	fn, ok := globals[entryPoint].(starlark.Callable)
	if !ok {
		return game.Action{}, &RuntimeError{Msg: entryPoint + " is not callable"}
	}

	state, err := starlark.Call(thread, starjson.Module.Members["decode"], starlark.Tuple{starlark.String(payload)}, nil)
	if err != nil {
		return game.Action{}, fmt.Errorf("decoding state: %w", err)
	}
	state.Freeze()

	out, err := starlark.Call(thread, fn, starlark.Tuple{state}, nil)
	if err != nil {
		return game.Action{}, runtimeError(err)
	}
	if _, ok := out.(*starlark.Dict); !ok {
		return game.Action{}, fmt.Errorf("%w: %s returned %s, want dict", ErrBadAction, entryPoint, out.Type())
	}

	encoded, err := starlark.Call(thread, starjson.Module.Members["encode"], starlark.Tuple{out}, nil)
	if err != nil {
		return game.Action{}, fmt.Errorf("%w: %v", ErrBadAction, err)
	}
	text, _ := starlark.AsString(encoded)
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return game.Action{}, fmt.Errorf("%w: %v", ErrBadAction, err)
	}
	action, err := game.ParseAction(raw)
	if err != nil {
		return game.Action{}, fmt.Errorf("%w: %v", ErrBadAction, err)
	}
	return action, nil
}

func runtimeError(err error) error {
	if strings.Contains(err.Error(), "too many steps") {
		return fmt.Errorf("%w: %v", ErrStepLimit, err)
	}
	re := &RuntimeError{Msg: err.Error()}
	if evalErr, ok := err.(*starlark.EvalError); ok {
		re.Msg = evalErr.Msg
		re.Backtrace = evalErr.Backtrace()
	}
	return re
}

// logBuffer collects print output up to a byte limit. The abandoned worker
// of a timed out decision may still write, hence the lock.
type logBuffer struct {
	mu        sync.Mutex
	limit     int
	size      int
	entries   []string
	truncated bool
}

func (b *logBuffer) add(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.truncated {
		return
	}
	if b.size+len(msg) > b.limit {
		b.entries = append(b.entries, "... (log truncated)")
		b.truncated = true
		return
	}
	b.size += len(msg)
	b.entries = append(b.entries, msg)
}

func (b *logBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}
