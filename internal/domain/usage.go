package domain

import (
	"context"
	"sync"
)

type summaryUsageKey struct{}

// SummaryUsage collects summarizer token usage for a single request.
// The handler puts a pointer into the context before calling the aggregator;
// the summarizer writes after its call; the handler reads it for response headers.
// Branches run concurrently, so writes are guarded.
type SummaryUsage struct {
	mu          sync.Mutex
	totalTokens int
	used        bool
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *SummaryUsage) {
	u := &SummaryUsage{}
	return context.WithValue(ctx, summaryUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *SummaryUsage {
	u, _ := ctx.Value(summaryUsageKey{}).(*SummaryUsage)
	return u
}

// AddTokens records consumed tokens. Safe on a nil receiver.
func (u *SummaryUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.totalTokens += n
	u.used = true
	u.mu.Unlock()
}

// TotalTokens returns the tokens recorded so far.
func (u *SummaryUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens
}

// Used reports whether the summarizer was called at all.
func (u *SummaryUsage) Used() bool {
	if u == nil {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.used
}
