package triage

import (
	"context"
	"fmt"
	"time"

	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/domain/keyword"
	"github.com/kailas-cloud/triage/internal/domain/query"
	"github.com/kailas-cloud/triage/internal/transport/docsearch"
	openaiSum "github.com/kailas-cloud/triage/internal/transport/openai"
	"github.com/kailas-cloud/triage/internal/transport/zendesk"
	analysisuc "github.com/kailas-cloud/triage/internal/usecase/analysis"
	summaryuc "github.com/kailas-cloud/triage/internal/usecase/summary"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 400
	defaultSearchURL = "https://html.duckduckgo.com/html/"
)

// analyzeUseCase is the aggregator seen by the client; swapped in tests.
type analyzeUseCase interface {
	Analyze(ctx context.Context, q query.Query) (domanalysis.Result, error)
}

// Client is the triage SDK entry point. Safe for concurrent use.
type Client struct {
	svc analyzeUseCase
	obs *observer
}

// New creates a Client. Every backend is optional: a missing one fails its
// branch, which then contributes its fallback value.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	normalizer, err := keyword.New(cfg.maxKeywords, cfg.defaultSearchTerm)
	if err != nil {
		return nil, fmt.Errorf("triage: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{svc: wireService(cfg, normalizer), obs: obs}, nil
}

func wireService(cfg *clientConfig, normalizer *keyword.Normalizer) *analysisuc.Service {
	var (
		tickets    analysisuc.TicketFetcher
		related    analysisuc.RelatedSearcher
		docs       analysisuc.DocSearcher
		summarizer analysisuc.Summarizer
	)

	if cfg.zendesk != nil {
		zc := zendesk.New(zendesk.Config{
			Subdomain:    cfg.zendesk.Subdomain,
			Email:        cfg.zendesk.Email,
			APIToken:     cfg.zendesk.APIToken,
			BaseURL:      cfg.zendesk.BaseURL,
			RatePerSec:   cfg.zendesk.RatePerSec,
			Burst:        cfg.zendesk.Burst,
			StatusFilter: cfg.zendesk.StatusFilter,
					})
		tickets, related = zc, zc
	}

	if cfg.docs != nil {
		searchURL := cfg.docs.SearchURL
		if searchURL == "" {
			searchURL = defaultSearchURL
		}
		docs = docsearch.New(docsearch.Config{SearchURL: searchURL, Site: cfg.docs.Site, UserAgent: cfg.docs.UserAgent})
	}

	switch {
	case cfg.summarizer != nil:
		summarizer = &summarizerAdapter{inner: cfg.summarizer}
	case cfg.openAI != nil:
		model := cfg.openAI.Model
		if model == "" {
			model = defaultModel
		}
		maxTokens := cfg.openAI.MaxTokens
		if maxTokens <= 0 {
			maxTokens = defaultMaxTokens
		}
		base := openaiSum.NewSummarizer(&openaiSum.Config{
			APIKey:    cfg.openAI.APIKey,
			BaseURL:   cfg.openAI.BaseURL,
			Model:     model,
			MaxTokens: maxTokens,
		})
		// nil budget = unlimited (no budget tracking in SDK)
		summarizer = summaryuc.NewInstrumented(base, model, nil, nil)
	}

	acfg := analysisuc.Config{
		OverallTimeout:  cfg.timeouts.Overall,
		CommentsTimeout: cfg.timeouts.Comments,
		RelatedTimeout:  cfg.timeouts.Related,
		DocsTimeout:     cfg.timeouts.Docs,
		SummaryTimeout:  cfg.timeouts.Summary,
		MaxEvidence:     cfg.maxEvidence,
	}
	for _, l := range cfg.defaults {
		acfg.DefaultDocs = append(acfg.DefaultDocs, evidence.NewDocReference(l.Title, l.URL, l.Comment))
	}

	return analysisuc.New(tickets, related, docs, summarizer, normalizer, acfg, nil)
}

// Analyze answers a raw query: digits (optionally prefixed with '#') select
// ticket mode, anything else is free text. Backend failures never surface;
// only ErrMalformedInput, ErrOverallTimeout and ctx cancellation do.
func (c *Client) Analyze(ctx context.Context, raw string) (Result, error) {
	q, err := query.Parse(raw)
	if err != nil {
		c.obs.observe("analyze", time.Now(), err)
		return Result{}, err
	}
	return c.run(ctx, "analyze", q)
}

// AnalyzeTicket answers a query about one ticket.
func (c *Client) AnalyzeTicket(ctx context.Context, ticketID int64) (Result, error) {
	q, err := query.NewTicket(ticketID)
	if err != nil {
		c.obs.observe("analyze_ticket", time.Now(), err)
		return Result{}, err
	}
	return c.run(ctx, "analyze_ticket", q)
}

func (c *Client) run(ctx context.Context, op string, q query.Query) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observeResult(op, start, res, err) }()

	r, err := c.svc.Analyze(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return resultFromDomain(&r), nil
}
