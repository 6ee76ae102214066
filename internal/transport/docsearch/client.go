// Package docsearch finds documentation pages through a DuckDuckGo-style
// HTML search endpoint restricted to one site.
package docsearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/kailas-cloud/triage/internal/domain"
	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/version"
)

// Config holds search settings.
type Config struct {
	// SearchURL is the HTML results endpoint, e.g. https://html.duckduckgo.com/html/.
	SearchURL string
	// Site restricts results to one host and its subdomains. Empty searches the web.
	Site      string
	UserAgent string
}

// Client performs documentation searches. One attempt per call.
type Client struct {
	http *resty.Client
	cfg  Config
}

// New creates a search client.
func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}
	cfg.Site = strings.ToLower(strings.TrimSpace(cfg.Site))

	httpClient := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html").
		SetRetryCount(0)

	return &Client{http: httpClient, cfg: cfg}
}

// SearchDocs returns up to limit documentation references for key, in
// search-engine ranking order. No results is not an error.
func (c *Client) SearchDocs(ctx context.Context, key string, limit int) ([]evidence.DocReference, error) {
	if c.cfg.SearchURL == "" {
		return nil, fmt.Errorf("doc search: %w", domain.ErrConfigMissing)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", c.query(key)).
		Get(c.cfg.SearchURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("doc search: %w", ctxErr)
		}
		return nil, domain.NewUpstreamError("doc search", 0, err)
	}
	if resp.IsError() {
		return nil, domain.NewUpstreamError("doc search", resp.StatusCode(), errors.New(resp.Status()))
	}

	results, err := parseResults(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, domain.NewUpstreamError("doc search", resp.StatusCode(), err)
	}

	docs := make([]evidence.DocReference, 0, min(len(results), max(limit, 0)))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if len(docs) >= limit {
			break
		}
		if !c.onSite(r.URL) {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		docs = append(docs, evidence.NewDocReference(r.Title, r.URL, r.Snippet))
	}
	return docs, nil
}

func (c *Client) query(key string) string {
	key = strings.TrimSpace(key)
	if c.cfg.Site == "" {
		return key
	}
	return "site:" + c.cfg.Site + " " + key
}

func (c *Client) onSite(rawURL string) bool {
	if c.cfg.Site == "" {
		return true
	}
	host := hostOf(rawURL)
	return host == c.cfg.Site || strings.HasSuffix(host, "."+c.cfg.Site)
}
