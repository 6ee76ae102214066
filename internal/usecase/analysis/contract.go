package analysis

import (
	"context"

	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/domain/summary"
	"github.com/kailas-cloud/triage/internal/domain/ticket"
)

// TicketFetcher loads a ticket's subject and conversation.
type TicketFetcher interface {
	FetchTicket(ctx context.Context, id int64) (ticket.Content, error)
	TicketURL(id int64) string
}

// RelatedSearcher finds tickets similar to a search key.
type RelatedSearcher interface {
	SearchRelated(ctx context.Context, key string, excludeID int64, limit int) ([]evidence.RelatedItem, error)
}

// DocSearcher finds documentation pages for a search key.
type DocSearcher interface {
	SearchDocs(ctx context.Context, key string, limit int) ([]evidence.DocReference, error)
}

// Summarizer condenses support text into a summary and a suggested resolution.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summary.Summary, error)
}
