// Package keyword turns free text or ticket content into a compact search key.
package keyword

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/triage/internal/domain"
)

// tokenRe matches words of at least four characters that start with a letter.
var tokenRe = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]{3,}\b`)

// stopwords are dropped regardless of case. Support tickets are full of them
// and they match nearly everything upstream.
var stopwords = map[string]struct{}{
	"error": {}, "errors": {}, "issue": {}, "issues": {}, "problem": {}, "problems": {},
	"unable": {}, "failed": {}, "fails": {}, "failure": {}, "ticket": {}, "tickets": {},
	"please": {}, "thanks": {}, "thank": {}, "regards": {}, "hello": {}, "help": {},
	"need": {}, "with": {}, "that": {}, "this": {}, "have": {}, "from": {}, "when": {},
	"what": {}, "there": {}, "their": {}, "would": {}, "could": {}, "should": {},
	"about": {}, "after": {}, "again": {}, "been": {}, "into": {}, "some": {}, "they": {},
	"were": {}, "will": {}, "your": {}, "also": {}, "just": {}, "like": {}, "here": {},
	"only": {}, "than": {}, "then": {}, "them": {}, "very": {}, "which": {}, "while": {},
	"where": {}, "cannot": {}, "does": {}, "dear": {}, "team": {},
}

// IsStopword reports whether w is dropped by the normalizer.
func IsStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}

// Normalizer extracts search keys with a fixed token budget and fallback term.
type Normalizer struct {
	maxWords int
	fallback string
}

// New creates a Normalizer. maxWords <= 0 selects domain.DefaultMaxKeywords,
// an empty fallback selects domain.DefaultSearchTerm. The fallback must survive
// its own normalization unchanged, otherwise Normalize would not be idempotent.
func New(maxWords int, fallback string) (*Normalizer, error) {
	if maxWords <= 0 {
		maxWords = domain.DefaultMaxKeywords
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = domain.DefaultSearchTerm
	}
	n := &Normalizer{maxWords: maxWords, fallback: fallback}
	if got := n.extract(fallback); got != "" && got != fallback {
		return nil, fmt.Errorf("default search term %q is not stable under normalization (got %q)", fallback, got)
	}
	return n, nil
}

// MustNew is New that panics on an invalid fallback.
func MustNew(maxWords int, fallback string) *Normalizer {
	n, err := New(maxWords, fallback)
	if err != nil {
		panic(err)
	}
	return n
}

// Default is the normalizer with the built-in limits.
var Default = MustNew(domain.DefaultMaxKeywords, domain.DefaultSearchTerm)

// Normalize returns the first maxWords non-stopword tokens of text in their
// original order and case, joined by single spaces, or the fallback term if
// none survive. Repeated tokens are kept. Never empty.
func (n *Normalizer) Normalize(text string) string {
	if key := n.extract(text); key != "" {
		return key
	}
	return n.fallback
}

// Fallback returns the term used when extraction yields nothing.
func (n *Normalizer) Fallback() string { return n.fallback }

// MaxWords returns the token budget.
func (n *Normalizer) MaxWords() int { return n.maxWords }

func (n *Normalizer) extract(text string) string {
	tokens := make([]string, 0, n.maxWords)
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if _, stop := stopwords[strings.ToLower(tok)]; stop {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == n.maxWords {
			break
		}
	}
	return strings.Join(tokens, " ")
}

// Normalize runs the Default normalizer with a custom token budget.
func Normalize(text string, maxWords int) string {
	if maxWords == Default.maxWords || maxWords <= 0 {
		return Default.Normalize(text)
	}
	return (&Normalizer{maxWords: maxWords, fallback: Default.fallback}).Normalize(text)
}
