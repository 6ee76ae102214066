package analysis

import (
	"strings"
	"unicode/utf8"

	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/domain/outcome"
	"github.com/kailas-cloud/triage/internal/domain/query"
	"github.com/kailas-cloud/triage/internal/domain/summary"
)

const ellipsis = "..."

// joined is everything the branches produced for one request.
type joined struct {
	query     query.Query
	searchKey string
	primary   *evidence.RelatedItem
	related   []evidence.RelatedItem
	docs      []evidence.DocReference
	summary   summary.Summary
	branches  map[string]outcome.Outcome
}

// assemble maps joined branch output to the result shape. It dedups and caps
// evidence, substitutes default docs and truncates excerpts. No I/O.
func assemble(j joined, maxEvidence, excerptLen int, defaultDocs []evidence.DocReference) domanalysis.Result {
	related := evidence.UniqueRelated(j.related, maxEvidence)
	for i, it := range related {
		related[i] = evidence.NewRelatedItem(it.ID(), it.URL(), truncate(it.Excerpt(), excerptLen))
	}

	docs := evidence.UniqueDocs(j.docs, maxEvidence)
	if len(docs) == 0 {
		docs = evidence.UniqueDocs(defaultDocs, maxEvidence)
	}
	for i, d := range docs {
		docs[i] = evidence.NewDocReference(d.Title(), d.URL(), truncate(d.Annotation(), excerptLen))
	}

	return domanalysis.New(domanalysis.Params{
		Query:     j.query,
		SearchKey: j.searchKey,
		Summary:   j.summary,
		Related:   related,
		Docs:      docs,
		Primary:   j.primary,
		Branches:  j.branches,
	})
}

// truncate collapses whitespace and cuts s to at most limit runes, ellipsis
// included. limit <= 0 disables truncation.
func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit <= len(ellipsis) {
		return string([]rune(s)[:limit])
	}
	cut := []rune(s)[:limit-len(ellipsis)]
	return strings.TrimRight(string(cut), " ") + ellipsis
}

// head cuts s to its first limit runes. limit <= 0 disables the cut.
func head(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
