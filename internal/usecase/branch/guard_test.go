package branch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/triage/internal/domain"
)

func TestGuarded_NilGuardPassesThrough(t *testing.T) {
	op := Guarded[string](nil, func(_ context.Context) (string, error) { return "ok", nil })
	v, err := op(context.Background())
	if err != nil || v != "ok" {
		t.Fatalf("got (%q, %v)", v, err)
	}
}

func TestGuarded_PassesValuesAndErrors(t *testing.T) {
	g := NewGuard(BreakerConfig{})

	v, err := Guarded(g, func(_ context.Context) (int, error) { return 7, nil })(context.Background())
	if err != nil || v != 7 {
		t.Fatalf("got (%d, %v)", v, err)
	}

	boom := errors.New("boom")
	v, err = Guarded(g, func(_ context.Context) (int, error) { return 7, boom })(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if v != 0 {
		t.Errorf("failed call should return zero value, got %d", v)
	}
}

func TestGuarded_OpensAfterFailures(t *testing.T) {
	g := NewGuard(BreakerConfig{
		ErrorPercentThresholdToOpen: 50,
		MinimumRequestToOpen:        3,
		WaitDurationInOpenState:     time.Minute,
	})

	calls := 0
	op := Guarded(g, func(_ context.Context) (string, error) {
		calls++
		return "", domain.NewUpstreamError("docs search", 500, nil)
	})

	var lastErr error
	for range 10 {
		_, lastErr = op(context.Background())
	}

	if !errors.Is(lastErr, domain.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after repeated failures, got %v", lastErr)
	}
	if calls >= 10 {
		t.Errorf("open breaker should stop upstream calls, got %d calls", calls)
	}
	if domain.ErrorKind(lastErr) != "circuit_open" {
		t.Errorf("error kind = %q", domain.ErrorKind(lastErr))
	}
}

func TestGuarded_RequestErrorsKeepBreakerClosed(t *testing.T) {
	g := NewGuard(BreakerConfig{
		ErrorPercentThresholdToOpen: 50,
		MinimumRequestToOpen:        3,
		WaitDurationInOpenState:     time.Minute,
	})

	requestErrs := []error{
		domain.ErrConfigMissing,
		domain.ErrNoContext,
		domain.ErrTicketNotFound,
		domain.ErrSummaryQuotaExceeded,
	}
	for _, want := range requestErrs {
		for range 3 {
			_, err := Guarded(g, func(_ context.Context) (int, error) { return 1, want })(context.Background())
			if !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
		}
	}

	calls := 0
	v, err := Guarded(g, func(_ context.Context) (int, error) {
		calls++
		return 5, nil
	})(context.Background())
	if err != nil || v != 5 {
		t.Fatalf("breaker should stay closed, got (%d, %v)", v, err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsBackendFailure(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{domain.ErrConfigMissing, false},
		{domain.ErrNoContext, false},
		{domain.ErrTicketNotFound, false},
		{domain.ErrSummaryQuotaExceeded, false},
		{domain.NewUpstreamError("search", 503, nil), true},
		{context.DeadlineExceeded, true},
		{errors.New("boom"), true},
	}
	for _, tt := range tests {
		if got := IsBackendFailure(tt.err); got != tt.want {
			t.Errorf("IsBackendFailure(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
