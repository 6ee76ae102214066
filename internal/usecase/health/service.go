package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated readiness status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Analyses still answer with fallbacks.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const (
	checkStore      = "budget_store"
	checkSummarizer = "summarizer"
)

const defaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates readiness checks.
type Service struct {
	store      StorePinger
	summarizer SummarizerChecker
	timeout    time.Duration
}

// New creates a Service. Both components are optional; an absent component
// is left out of the report.
func New(store StorePinger, summarizer SummarizerChecker) *Service {
	return &Service{store: store, summarizer: summarizer, timeout: defaultCheckTimeout}
}

// Check runs the component checks concurrently, each bounded by the check timeout.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, 2)
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := CheckOK
			if err := fn(ctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}

	if s.store != nil {
		run(checkStore, s.store.Ping)
	}
	if s.summarizer != nil {
		run(checkSummarizer, s.summarizer.HealthCheck)
	}
	wg.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
