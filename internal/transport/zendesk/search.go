package zendesk

import (
	"context"
	"strconv"
	"strings"

	"github.com/kailas-cloud/triage/internal/domain/evidence"
)

// SearchRelated returns tickets matching key in Zendesk ranking order,
// skipping excludeID and repeated ids, at most limit items.
func (c *Client) SearchRelated(
	ctx context.Context, key string, excludeID int64, limit int,
) ([]evidence.RelatedItem, error) {
	params := map[string]string{
		"query":    c.searchQuery(key),
		"per_page": strconv.Itoa(max(limit+1, 1)),
	}
	if c.cfg.SortBy != "" {
		params["sort_by"] = c.cfg.SortBy
	}
	if c.cfg.SortOrder != "" {
		params["sort_order"] = c.cfg.SortOrder
	}

	var sr searchResponse
	if err := c.get(ctx, "search", "/api/v2/search.json", params, &sr); err != nil {
		return nil, err
	}

	items := make([]evidence.RelatedItem, 0, min(len(sr.Results), max(limit, 0)))
	seen := make(map[int64]struct{}, len(sr.Results))
	for _, r := range sr.Results {
		if len(items) >= limit {
			break
		}
		if r.ID <= 0 || r.ID == excludeID {
			continue
		}
		if r.ResultType != "" && r.ResultType != "ticket" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		excerpt := r.Subject
		if excerpt == "" {
			excerpt = r.Description
		}
		items = append(items, evidence.NewRelatedItem(r.ID, c.TicketURL(r.ID), excerpt))
	}
	return items, nil
}

// searchQuery builds the Zendesk search expression, e.g.
// `type:ticket status:solved billing export`.
func (c *Client) searchQuery(key string) string {
	parts := []string{"type:ticket"}
	if c.cfg.StatusFilter != "" {
		parts = append(parts, "status:"+c.cfg.StatusFilter)
	}
	if k := strings.TrimSpace(key); k != "" {
		parts = append(parts, k)
	}
	return strings.Join(parts, " ")
}
