// Package branch runs single backend lookups with their own deadline and
// converts every failure into the branch's fallback value.
package branch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/triage/internal/domain/outcome"
)

// Func is one backend lookup. It must honor ctx cancellation to release its
// resources early; Run does not wait for it either way.
type Func[T any] func(ctx context.Context) (T, error)

// Fail returns a lookup that fails with err without doing any work.
func Fail[T any](err error) Func[T] {
	return func(context.Context) (T, error) {
		var zero T
		return zero, err
	}
}

// Result pairs the value a branch yields with how it settled.
type Result[T any] struct {
	Value   T
	Outcome outcome.Outcome
}

// errPanic marks a lookup that panicked instead of returning.
var errPanic = errors.New("branch panicked")

type settled[T any] struct {
	value T
	err   error
}

// Run starts op in its own goroutine and races it against timeout.
//
//   - op returns first without error: (value, Completed)
//   - timeout (or ctx) expires first: (fallback, TimedOut)
//   - op returns an error or panics first: (fallback, Failed)
//
// Run never returns an error and never panics. When it returns, the context
// passed to op is cancelled; an op that ignores cancellation keeps running in
// the background and its late result is dropped. timeout <= 0 means the
// branch is bounded only by ctx.
func Run[T any](ctx context.Context, timeout time.Duration, fallback T, op Func[T]) Result[T] {
	start := time.Now()

	var (
		bctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		bctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		bctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	// Buffered so a late sender never blocks after Run has returned.
	done := make(chan settled[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- settled[T]{err: fmt.Errorf("%w: %v", errPanic, r)}
			}
		}()
		v, err := op(bctx)
		done <- settled[T]{value: v, err: err}
	}()

	select {
	case s := <-done:
		elapsed := time.Since(start)
		if s.err == nil {
			return Result[T]{Value: s.value, Outcome: outcome.NewCompleted(elapsed)}
		}
		// An op that surfaces its own context expiry timed out, it did not fail.
		if bctx.Err() != nil && isContextErr(s.err) {
			return Result[T]{Value: fallback, Outcome: outcome.NewTimedOut(elapsed)}
		}
		return Result[T]{Value: fallback, Outcome: outcome.NewFailed(s.err, elapsed)}
	case <-bctx.Done():
		return Result[T]{Value: fallback, Outcome: outcome.NewTimedOut(time.Since(start))}
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
