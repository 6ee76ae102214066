package chi

import (
	"time"

	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
)

// Error codes carried next to the human-readable message.
const (
	codeBadRequest     = "bad_request"
	codeMalformedInput = "malformed_input"
	codeTimeout        = "timeout"
	codeUnauthorized   = "unauthorized"
	codeInternal       = "internal_error"
)

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeTicketRequest struct {
	TicketID int64 `json:"ticket_id"`
}

type relatedTicket struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Comment string `json:"comment,omitempty"`
}

type relatedDoc struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Comment string `json:"comment,omitempty"`
}

type ticketRef struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type analysisResponse struct {
	Query               string            `json:"query"`
	Summary             string            `json:"summary"`
	RecommendedSolution string            `json:"recommended_solution"`
	Confidence          float64           `json:"confidence"`
	RelatedTickets      []relatedTicket   `json:"related_tickets"`
	RelatedDocs         []relatedDoc      `json:"related_docs"`
	Ticket              *ticketRef        `json:"ticket,omitempty"`
	Branches            map[string]string `json:"branches,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type budgetStatus struct {
	TokensLimit     int64     `json:"tokens_limit"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
	ResetsAt        time.Time `json:"resets_at"`
}

type usageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt time.Time    `json:"period_start_at"`
	PeriodEndAt   time.Time    `json:"period_end_at"`
	Tokens        int64        `json:"tokens"`
	Budget        budgetStatus `json:"budget"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func resultToResponse(r *domanalysis.Result) analysisResponse {
	resp := analysisResponse{
		Query:               r.Query().String(),
		Summary:             r.Summary().Text(),
		RecommendedSolution: r.Summary().Resolution(),
		Confidence:          r.Confidence(),
		RelatedTickets:      make([]relatedTicket, 0, len(r.Related())),
		RelatedDocs:         make([]relatedDoc, 0, len(r.Docs())),
	}
	for _, it := range r.Related() {
		resp.RelatedTickets = append(resp.RelatedTickets, relatedTicket{
			ID: it.ID(), URL: it.URL(), Comment: it.Excerpt(),
		})
	}
	for _, d := range r.Docs() {
		resp.RelatedDocs = append(resp.RelatedDocs, relatedDoc{
			Title: d.Title(), URL: d.URL(), Comment: d.Annotation(),
		})
	}
	if p := r.Primary(); p != nil {
		resp.Ticket = &ticketRef{ID: p.ID(), URL: p.URL()}
	}
	if b := r.Branches(); len(b) > 0 {
		resp.Branches = make(map[string]string, len(b))
		for name, o := range b {
			resp.Branches[name] = o.String()
		}
	}
	return resp
}
