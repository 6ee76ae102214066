package triage

import (
	"time"

	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
)

// Result is the merged answer to one query.
type Result struct {
	Query string
	// SearchKey is the normalized keyword string used for both searches.
	SearchKey           string
	Summary             string
	RecommendedSolution string
	// Confidence grows with the number of related tickets, from 0.4 to 0.9.
	Confidence     float64
	RelatedTickets []RelatedTicket
	RelatedDocs    []DocLink
	// Ticket is set in ticket mode.
	Ticket *RelatedTicket
	// Branches maps each backend call to "completed", "timed_out" or "failed:<kind>".
	Branches map[string]string
}

// RelatedTicket references a ticket in the ticketing system.
type RelatedTicket struct {
	ID      int64
	URL     string
	Excerpt string
}

// DocLink references a documentation page.
type DocLink struct {
	Title   string
	URL     string
	Comment string
}

// ZendeskConfig holds ticketing credentials and search settings.
type ZendeskConfig struct {
	Subdomain string
	Email     string
	APIToken  string
	// BaseURL overrides https://{Subdomain}.zendesk.com.
	BaseURL string
	// RatePerSec throttles outgoing requests. Zero disables throttling.
	RatePerSec float64
	Burst      int
	// StatusFilter restricts related search, e.g. "solved".
	StatusFilter string
}

// OpenAIConfig holds chat-completion settings. Any OpenAI-compatible API works.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string // default gpt-4o-mini
	MaxTokens int    // default 400
}

// DocSearchConfig holds documentation search settings.
type DocSearchConfig struct {
	// SearchURL is the HTML results endpoint. Default https://html.duckduckgo.com/html/.
	SearchURL string
	// Site restricts results to one host and its subdomains.
	Site      string
	UserAgent string
}

// Timeouts bounds one analysis. Zero fields use the defaults.
type Timeouts struct {
	Overall  time.Duration
	Comments time.Duration
	Related  time.Duration
	Docs     time.Duration
	Summary  time.Duration
}

func resultFromDomain(r *domanalysis.Result) Result {
	out := Result{
		Query:               r.Query().String(),
		SearchKey:           r.SearchKey(),
		Summary:             r.Summary().Text(),
		RecommendedSolution: r.Summary().Resolution(),
		Confidence:          r.Confidence(),
		RelatedTickets:      make([]RelatedTicket, 0, len(r.Related())),
		RelatedDocs:         make([]DocLink, 0, len(r.Docs())),
		Branches:            make(map[string]string, len(r.Branches())),
	}
	for _, it := range r.Related() {
		out.RelatedTickets = append(out.RelatedTickets, RelatedTicket{ID: it.ID(), URL: it.URL(), Excerpt: it.Excerpt()})
	}
	for _, d := range r.Docs() {
		out.RelatedDocs = append(out.RelatedDocs, DocLink{Title: d.Title(), URL: d.URL(), Comment: d.Annotation()})
	}
	if p := r.Primary(); p != nil {
		out.Ticket = &RelatedTicket{ID: p.ID(), URL: p.URL()}
	}
	for name, o := range r.Branches() {
		out.Branches[name] = o.String()
	}
	return out
}
