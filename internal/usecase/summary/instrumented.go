package summary

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/triage/internal/domain"
	domsummary "github.com/kailas-cloud/triage/internal/domain/summary"
	"github.com/kailas-cloud/triage/internal/metrics"
)

// Generator is the raw summarizer backend.
type Generator interface {
	Generate(ctx context.Context, text string) (domsummary.Summary, domsummary.Usage, error)
}

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// Instrumented wraps a Generator with budget enforcement and usage
// accounting. Request and token metrics are recorded in transport/openai.
type Instrumented struct {
	inner  Generator
	model  string
	budget BudgetChecker
	logger *zap.Logger
}

// NewInstrumented wraps inner. budget may be nil.
func NewInstrumented(inner Generator, model string, budget BudgetChecker, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{inner: inner, model: model, budget: budget, logger: logger}
}

// Summarize checks the budget, delegates to the backend and records usage.
func (s *Instrumented) Summarize(ctx context.Context, text string) (domsummary.Summary, error) {
	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			s.logger.Warn("Summarizer budget exceeded",
				zap.String("model", s.model),
				zap.Error(err),
			)
			return domsummary.Summary{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, usage, err := s.inner.Generate(ctx, text)
	duration := time.Since(start)
	if err != nil {
		s.logger.Warn("Summarizer request failed",
			zap.String("model", s.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domsummary.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(usage.Total())

	if s.budget != nil && usage.Total() > 0 {
		s.budget.Record(int64(usage.Total()))
		remaining := metrics.SummarizerBudgetTokensRemaining
		remaining.WithLabelValues("daily").Set(float64(s.budget.RemainingDaily()))
		remaining.WithLabelValues("monthly").Set(float64(s.budget.RemainingMonthly()))
	}

	s.logger.Debug("Summarizer request completed",
		zap.String("model", s.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Bool("empty", result.IsEmpty()),
	)
	return result, nil
}
