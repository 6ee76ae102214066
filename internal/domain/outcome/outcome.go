// Package outcome describes how a single bounded branch settled.
package outcome

import (
	"time"

	"github.com/kailas-cloud/triage/internal/domain"
)

// Kind is the settle state of a branch.
type Kind string

// Outcome kinds.
const (
	Completed Kind = "completed"
	TimedOut  Kind = "timed_out"
	Failed    Kind = "failed"
)

// Outcome is produced exactly once per branch per request.
type Outcome struct {
	kind     Kind
	err      error
	duration time.Duration
}

// NewCompleted records a branch that returned a value in time.
func NewCompleted(d time.Duration) Outcome {
	return Outcome{kind: Completed, duration: d}
}

// NewTimedOut records a branch abandoned at its deadline.
func NewTimedOut(d time.Duration) Outcome {
	return Outcome{kind: TimedOut, err: domain.ErrUpstreamTimeout, duration: d}
}

// NewFailed records a branch whose operation returned err.
func NewFailed(err error, d time.Duration) Outcome {
	return Outcome{kind: Failed, err: err, duration: d}
}

// Kind returns the settle state.
func (o Outcome) Kind() Kind { return o.kind }

// Err returns the cause for TimedOut and Failed outcomes.
func (o Outcome) Err() error { return o.err }

// ErrorKind returns the failure classification, empty unless Failed.
func (o Outcome) ErrorKind() string {
	if o.kind != Failed {
		return ""
	}
	return domain.ErrorKind(o.err)
}

// Duration returns how long the branch ran before settling.
func (o Outcome) Duration() time.Duration { return o.duration }

// OK reports whether the branch completed.
func (o Outcome) OK() bool { return o.kind == Completed }

// String renders the outcome as "completed", "timed_out" or "failed:<kind>".
func (o Outcome) String() string {
	if o.kind == Failed {
		return string(o.kind) + ":" + o.ErrorKind()
	}
	return string(o.kind)
}
