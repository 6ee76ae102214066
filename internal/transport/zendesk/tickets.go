package zendesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/triage/internal/domain"
	"github.com/kailas-cloud/triage/internal/domain/ticket"
)

// FetchTicket loads the ticket subject and its conversation.
func (c *Client) FetchTicket(ctx context.Context, id int64) (ticket.Content, error) {
	idStr := strconv.FormatInt(id, 10)

	var t ticketResponse
	if err := c.get(ctx, "get ticket", "/api/v2/tickets/"+idStr+".json", nil, &t); err != nil {
		return ticket.Content{}, notFound(err, id)
	}

	var cs commentsResponse
	if err := c.get(ctx, "list comments", "/api/v2/tickets/"+idStr+"/comments.json", nil, &cs); err != nil {
		return ticket.Content{}, notFound(err, id)
	}

	content := ticket.Content{
		ID:       t.Ticket.ID,
		Subject:  t.Ticket.Subject,
		Status:   t.Ticket.Status,
		Comments: make([]ticket.Comment, 0, len(cs.Comments)),
	}
	for _, cm := range cs.Comments {
		body := cm.PlainBody
		if body == "" {
			body = cm.Body
		}
		content.Comments = append(content.Comments, ticket.Comment{
			AuthorID: cm.AuthorID,
			Body:     body,
			Public:   cm.Public,
		})
	}
	return content, nil
}

func notFound(err error, id int64) error {
	var ue *domain.UpstreamError
	if errors.As(err, &ue) && ue.Status == http.StatusNotFound {
		return fmt.Errorf("ticket %d: %w", id, domain.ErrTicketNotFound)
	}
	return err
}
