package triage

import (
	"context"

	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
	"github.com/kailas-cloud/triage/internal/domain/query"
)

// --- analyzeUseCase mock ---

type mockAnalyzeUC struct {
	analyzeFn func(ctx context.Context, q query.Query) (domanalysis.Result, error)
}

func (m *mockAnalyzeUC) Analyze(ctx context.Context, q query.Query) (domanalysis.Result, error) {
	return m.analyzeFn(ctx, q)
}

// --- Summarizer mock ---

type mockSummarizer struct {
	fn func(ctx context.Context, text string) (string, string, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string) (string, string, error) {
	return m.fn(ctx, text)
}
