package triage

import (
	"context"
	"fmt"

	domsummary "github.com/kailas-cloud/triage/internal/domain/summary"
)

// Summarizer turns ticket or query text into a summary and a recommended
// resolution. Use WithSummarizer to plug in a model other than OpenAI.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summary, resolution string, err error)
}

// summarizerAdapter wraps the public Summarizer to satisfy the aggregator.
type summarizerAdapter struct {
	inner Summarizer
}

func (a *summarizerAdapter) Summarize(ctx context.Context, text string) (domsummary.Summary, error) {
	s, r, err := a.inner.Summarize(ctx, text)
	if err != nil {
		return domsummary.Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return domsummary.New(s, r), nil
}
