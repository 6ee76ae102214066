package branch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/goresilience"
	"github.com/slok/goresilience/circuitbreaker"
	reserrors "github.com/slok/goresilience/errors"

	"github.com/kailas-cloud/triage/internal/domain"
)

// BreakerConfig holds circuit breaker settings for one backend.
type BreakerConfig struct {
	ErrorPercentThresholdToOpen int
	MinimumRequestToOpen        int
	WaitDurationInOpenState     time.Duration
}

// DefaultBreakerConfig returns the breaker settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ErrorPercentThresholdToOpen: 50,
		MinimumRequestToOpen:        10,
		WaitDurationInOpenState:     30 * time.Second,
	}
}

// Guard short-circuits calls to a backend that keeps failing. It never
// retries: every guarded call makes at most one upstream attempt.
type Guard struct {
	runner goresilience.Runner
}

// NewGuard creates a circuit breaker guard. A nil *Guard passes calls through.
func NewGuard(cfg BreakerConfig) *Guard {
	def := DefaultBreakerConfig()
	if cfg.ErrorPercentThresholdToOpen <= 0 {
		cfg.ErrorPercentThresholdToOpen = def.ErrorPercentThresholdToOpen
	}
	if cfg.MinimumRequestToOpen <= 0 {
		cfg.MinimumRequestToOpen = def.MinimumRequestToOpen
	}
	if cfg.WaitDurationInOpenState <= 0 {
		cfg.WaitDurationInOpenState = def.WaitDurationInOpenState
	}

	cb := circuitbreaker.NewMiddleware(circuitbreaker.Config{
		ErrorPercentThresholdToOpen:        cfg.ErrorPercentThresholdToOpen,
		MinimumRequestToOpen:               cfg.MinimumRequestToOpen,
		SuccessfulRequiredOnHalfOpen:       1,
		WaitDurationInOpenState:            cfg.WaitDurationInOpenState,
		MetricsSlidingWindowBucketQuantity: 10,
		MetricsBucketDuration:              time.Second,
	})
	return &Guard{runner: goresilience.RunnerChain(cb)}
}

// Guarded wraps op with g. Calls rejected by an open breaker fail with
// domain.ErrCircuitOpen without reaching the backend. Errors for which
// IsBackendFailure is false are returned to the caller but recorded as
// successful calls by the breaker.
func Guarded[T any](g *Guard, op Func[T]) Func[T] {
	if g == nil {
		return op
	}
	return func(ctx context.Context) (T, error) {
		var (
			v        T
			localErr error
		)
		err := g.runner.Run(ctx, func(ctx context.Context) error {
			var opErr error
			v, opErr = op(ctx)
			if opErr != nil && !IsBackendFailure(opErr) {
				localErr = opErr
				return nil
			}
			return opErr
		})
		var zero T
		if err != nil {
			if errors.Is(err, reserrors.ErrCircuitOpen) {
				return zero, fmt.Errorf("%w: %w", domain.ErrCircuitOpen, err)
			}
			return zero, err
		}
		if localErr != nil {
			return zero, localErr
		}
		return v, nil
	}
}

// IsBackendFailure reports whether err says the backend itself is unhealthy.
// Missing configuration, empty input, unknown tickets and an exhausted token
// budget are answers about the request, not about the backend.
func IsBackendFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, domain.ErrConfigMissing),
		errors.Is(err, domain.ErrNoContext),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrSummaryQuotaExceeded),
		errors.Is(err, domain.ErrMalformedInput):
		return false
	default:
		return true
	}
}
