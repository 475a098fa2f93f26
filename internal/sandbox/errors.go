package sandbox

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when a decision exceeds its wall-clock deadline.
	ErrTimeout = errors.New("decision timed out")
	// ErrStepLimit is returned when a decision exceeds its execution step budget.
	ErrStepLimit = errors.New("decision exceeded step budget")
	// ErrBadAction is returned when decide_action returns something that is
	// not a well-formed action.
	ErrBadAction = errors.New("malformed action")
)

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	KindSyntax     ValidationKind = "syntax"
	KindImport     ValidationKind = "import"
	KindEntryPoint ValidationKind = "entry_point"
	KindName       ValidationKind = "name"
)

// ValidationError is a static problem with bot code, found without running it.
type ValidationError struct {
	Kind ValidationKind
	Line int
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// RuntimeError is an error raised by bot code while running.
type RuntimeError struct {
	Msg       string
	Backtrace string
}

func (e *RuntimeError) Error() string {
	return e.Msg
}

type timeoutError struct {
	after time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("decision timed out after %s", e.after)
}

func (e *timeoutError) Unwrap() error {
	return ErrTimeout
}
