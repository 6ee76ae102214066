// Package zendesk adapts the Zendesk Support REST API to the ticket fetcher
// and related-ticket search used by analyses.
package zendesk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/triage/internal/domain"
	"github.com/kailas-cloud/triage/internal/version"
)

// Config holds connection settings.
type Config struct {
	Subdomain string
	Email     string
	APIToken  string
	// BaseURL overrides https://{Subdomain}.zendesk.com (tests, proxies).
	BaseURL string
	// RatePerSec and Burst throttle outgoing requests. Zero disables throttling.
	RatePerSec float64
	Burst      int
	// StatusFilter restricts related search, e.g. "solved".
	StatusFilter string
	SortBy       string
	SortOrder    string
	UserAgent    string
}

// Client talks to one Zendesk account. Every call makes a single attempt;
// retries would eat into the branch deadline.
type Client struct {
	http       *resty.Client
	limiter    *rate.Limiter
	cfg        Config
	agentBase  string
	configured bool
}

// New creates a client. Missing credentials are not an error here: every
// call then fails with domain.ErrConfigMissing.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" && cfg.Subdomain != "" {
		base = fmt.Sprintf("https://%s.zendesk.com", cfg.Subdomain)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}

	httpClient := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetBasicAuth(cfg.Email+"/token", cfg.APIToken).
		SetRetryCount(0)

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), max(cfg.Burst, 1))
	}

	return &Client{
		http:       httpClient,
		limiter:    limiter,
		cfg:        cfg,
		agentBase:  base,
		configured: base != "" && cfg.Email != "" && cfg.APIToken != "",
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool { return c.configured }

// TicketURL returns the agent-facing link of a ticket.
func (c *Client) TicketURL(id int64) string {
	return fmt.Sprintf("%s/agent/tickets/%d", c.agentBase, id)
}

// apiError is the Zendesk error envelope. "error" is a string for most
// endpoints and an object for some.
type apiError struct {
	Error       any    `json:"error"`
	Description string `json:"description"`
}

func (e *apiError) String() string {
	if e == nil {
		return ""
	}
	switch v := e.Error.(type) {
	case string:
		if e.Description != "" {
			return v + ": " + e.Description
		}
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
		if title, ok := v["title"].(string); ok {
			return title
		}
	}
	return e.Description
}

// get performs one throttled GET and maps transport failures.
func (c *Client) get(ctx context.Context, op, path string, params map[string]string, out any) error {
	if !c.configured {
		return fmt.Errorf("zendesk %s: %w", op, domain.ErrConfigMissing)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("zendesk %s: rate limit wait: %w", op, err)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(&apiError{}).
		Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("zendesk %s: %w", op, ctxErr)
		}
		return domain.NewUpstreamError("zendesk "+op, 0, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.String() != "" {
			msg = apiErr.String()
		}
		return domain.NewUpstreamError("zendesk "+op, resp.StatusCode(), errors.New(msg))
	}
	return nil
}
