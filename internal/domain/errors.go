package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput signals a query that is neither a positive ticket id nor non-empty text.
	ErrMalformedInput = errors.New("malformed input")
	// ErrOverallTimeout signals that the whole aggregation exceeded its deadline.
	ErrOverallTimeout = errors.New("request timed out")

	// ErrConfigMissing signals an adapter called without its required credentials.
	ErrConfigMissing = errors.New("config missing")
	// ErrUpstreamError signals a non-2xx response or transport failure from a backend.
	ErrUpstreamError = errors.New("upstream error")
	// ErrUpstreamTimeout signals a branch that did not settle within its own timeout.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrTicketNotFound signals that the ticketing backend has no such ticket.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrSummaryQuotaExceeded signals an exhausted summarizer token budget.
	ErrSummaryQuotaExceeded = errors.New("summary quota exceeded")
	// ErrCircuitOpen signals a branch short-circuited by an open breaker.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrNoContext signals that there is nothing to summarize.
	ErrNoContext = errors.New("no context to summarize")
)

// UpstreamError wraps ErrUpstreamError with the failing backend operation and HTTP status.
// Status is zero for transport-level failures.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s: status %d", ErrUpstreamError.Error(), e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrUpstreamError.Error(), e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrUpstreamError.Error(), e.Op)
}

// Is makes errors.Is(err, ErrUpstreamError) match.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamError }

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError creates an upstream error for op. status may be zero.
func NewUpstreamError(op string, status int, err error) error {
	return &UpstreamError{Op: op, Status: status, Err: err}
}

// ErrorKind classifies a branch failure into a short stable label for logs,
// metrics and the public branch diagnostics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfigMissing):
		return "config_missing"
	case errors.Is(err, ErrTicketNotFound):
		return "not_found"
	case errors.Is(err, ErrSummaryQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrNoContext):
		return "no_context"
	case errors.Is(err, ErrUpstreamTimeout):
		return "upstream_timeout"
	case errors.Is(err, ErrUpstreamError):
		return "upstream_error"
	default:
		return "internal"
	}
}
