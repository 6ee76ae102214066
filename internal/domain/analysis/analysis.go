// Package analysis holds the unified result of a support-query aggregation.
package analysis

import (
	"math"

	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/domain/outcome"
	"github.com/kailas-cloud/triage/internal/domain/query"
	"github.com/kailas-cloud/triage/internal/domain/summary"
)

// Branch names used in diagnostics, logs and metrics.
const (
	BranchComments = "ticket_comments"
	BranchRelated  = "related_tickets"
	BranchDocs     = "related_docs"
	BranchSummary  = "summary"
)

// Confidence bounds.
const (
	MinConfidence  = 0.4
	MaxConfidence  = 0.9
	ConfidenceStep = 0.15
)

// Confidence derives the score from the number of unique related items:
// min(0.4 + 0.15*n, 0.9), rounded to two decimals. Negative n counts as zero.
func Confidence(relatedCount int) float64 {
	n := max(relatedCount, 0)
	c := math.Min(MinConfidence+ConfidenceStep*float64(n), MaxConfidence)
	return math.Round(c*100) / 100
}

// Result is the public outcome of one analysis. Owned by the request that
// produced it.
type Result struct {
	query      query.Query
	searchKey  string
	summary    summary.Summary
	confidence float64
	related    []evidence.RelatedItem
	docs       []evidence.DocReference
	primary    *evidence.RelatedItem
	branches   map[string]outcome.Outcome
}

// Params carries everything needed to build a Result.
type Params struct {
	Query     query.Query
	SearchKey string
	Summary   summary.Summary
	Related   []evidence.RelatedItem
	Docs      []evidence.DocReference
	Primary   *evidence.RelatedItem
	Branches  map[string]outcome.Outcome
}

// New builds a Result. Confidence is computed from the related items given,
// so callers dedup before calling. Nil slices become empty ones.
func New(p Params) Result {
	related := p.Related
	if related == nil {
		related = []evidence.RelatedItem{}
	}
	docs := p.Docs
	if docs == nil {
		docs = []evidence.DocReference{}
	}
	branches := p.Branches
	if branches == nil {
		branches = map[string]outcome.Outcome{}
	}
	return Result{
		query:      p.Query,
		searchKey:  p.SearchKey,
		summary:    p.Summary,
		confidence: Confidence(len(related)),
		related:    related,
		docs:       docs,
		primary:    p.Primary,
		branches:   branches,
	}
}

// Query returns the analyzed query.
func (r *Result) Query() query.Query { return r.query }

// SearchKey returns the normalized key used for the search branches.
func (r *Result) SearchKey() string { return r.searchKey }

// Summary returns the summarizer output (possibly empty).
func (r *Result) Summary() summary.Summary { return r.summary }

// Confidence returns the derived score in [0.4, 0.9].
func (r *Result) Confidence() float64 { return r.confidence }

// Related returns unique related tickets in upstream order.
func (r *Result) Related() []evidence.RelatedItem { return r.related }

// Docs returns unique documentation references in upstream order.
func (r *Result) Docs() []evidence.DocReference { return r.docs }

// Primary returns the source ticket reference in ticket mode, nil otherwise.
func (r *Result) Primary() *evidence.RelatedItem { return r.primary }

// Branches returns how each branch settled, keyed by branch name.
func (r *Result) Branches() map[string]outcome.Outcome { return r.branches }
