// Package query holds the validated input of an analysis request.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/triage/internal/domain"
)

// MaxTextLength bounds free-text queries (in runes).
const MaxTextLength = 2000

// Mode tags which kind of query is active.
type Mode string

// Query mode constants.
const (
	// Ticket queries start from an existing ticket's comments.
	Ticket Mode = "ticket"
	// Text queries use the free-text phrase directly.
	Text Mode = "text"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Ticket || m == Text
}

// Query is either TicketMode(id) or TextMode(text). Exactly one is active.
// Immutable once constructed.
type Query struct {
	mode     Mode
	ticketID int64
	text     string
}

// NewTicket creates a ticket-mode query. id must be positive.
func NewTicket(id int64) (Query, error) {
	if id <= 0 {
		return Query{}, fmt.Errorf("%w: ticket id must be positive, got %d", domain.ErrMalformedInput, id)
	}
	return Query{mode: Ticket, ticketID: id}, nil
}

// NewText creates a text-mode query from non-empty text.
func NewText(text string) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query text is empty", domain.ErrMalformedInput)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query text exceeds %d characters", domain.ErrMalformedInput, MaxTextLength)
	}
	return Query{mode: Text, text: text}, nil
}

// Parse resolves raw input into a Query. All-digit input (optionally
// prefixed with '#') is a ticket id; anything else is free text.
func Parse(raw string) (Query, error) {
	s := strings.TrimSpace(raw)
	digits := strings.TrimPrefix(s, "#")
	if digits != "" && isDigits(digits) {
		id, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Query{}, fmt.Errorf("%w: ticket id out of range", domain.ErrMalformedInput)
		}
		return NewTicket(id)
	}
	return NewText(s)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Mode returns the active mode.
func (q Query) Mode() Mode { return q.mode }

// TicketID returns the ticket id (zero in text mode).
func (q Query) TicketID() int64 { return q.ticketID }

// Text returns the query text (empty in ticket mode).
func (q Query) Text() string { return q.text }

// IsZero reports whether the query was never constructed.
func (q Query) IsZero() bool { return q.mode == "" }

// String renders the query as the caller would have typed it.
func (q Query) String() string {
	if q.mode == Ticket {
		return strconv.FormatInt(q.ticketID, 10)
	}
	return q.text
}
