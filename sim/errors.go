package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidDelay is returned by Scheduler.Schedule for a negative or NaN
// delay. Scheduling in the past would corrupt the event order.
var ErrInvalidDelay = errors.New("event delay must be finite and non-negative")

// InvariantError reports a broken engine invariant: a clock regression, a
// location query outside the covered window, a task leaving a terminal
// state. These are bugs in the engine or its inputs, not scenario
// outcomes, so the run surfaces them instead of recording a task failure.
type InvariantError struct {
	Op     string
	Time   float64
	Detail string
	err    error
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("invariant violated in %s at t=%.6f: %s", e.Op, e.Time, e.Detail)
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *InvariantError) Unwrap() error { return e.err }

func invariantf(op string, t float64, format string, args ...interface{}) *InvariantError {
	return &InvariantError{Op: op, Time: t, Detail: fmt.Sprintf(format, args...)}
}

func invariantWrap(op string, t float64, detail string, err error) *InvariantError {
	return &InvariantError{Op: op, Time: t, Detail: detail, err: err}
}
