// Package ticket holds the content fetched for a ticket-mode query.
package ticket

import "strings"

// Comment is one entry of a ticket's conversation.
type Comment struct {
	AuthorID int64
	Body     string
	Public   bool
}

// Content is what the ticketing backend knows about one ticket.
// The zero value is valid and means "nothing could be fetched".
type Content struct {
	ID       int64
	Subject  string
	Status   string
	Comments []Comment
}

// Text returns the subject followed by every non-empty comment body,
// separated by blank lines. Empty when nothing was fetched.
func (c Content) Text() string {
	parts := make([]string, 0, len(c.Comments)+1)
	if s := strings.TrimSpace(c.Subject); s != "" {
		parts = append(parts, s)
	}
	for _, cm := range c.Comments {
		if b := strings.TrimSpace(cm.Body); b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, "\n\n")
}

// IsEmpty reports whether there is no text to work with.
func (c Content) IsEmpty() bool { return c.Text() == "" }
