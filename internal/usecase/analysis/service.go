// Package analysis fans a support query out to the ticketing, documentation
// and summarizer backends and merges whatever settled in time.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/triage/internal/domain"
	domanalysis "github.com/kailas-cloud/triage/internal/domain/analysis"
	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/domain/keyword"
	"github.com/kailas-cloud/triage/internal/domain/outcome"
	"github.com/kailas-cloud/triage/internal/domain/query"
	"github.com/kailas-cloud/triage/internal/domain/summary"
	"github.com/kailas-cloud/triage/internal/domain/ticket"
	"github.com/kailas-cloud/triage/internal/logger"
	"github.com/kailas-cloud/triage/internal/metrics"
	"github.com/kailas-cloud/triage/internal/usecase/branch"
)

// Config bounds one analysis.
type Config struct {
	// OverallTimeout is the hard deadline of the whole request. It must exceed
	// the slowest branch timeout.
	OverallTimeout  time.Duration
	CommentsTimeout time.Duration
	RelatedTimeout  time.Duration
	DocsTimeout     time.Duration
	SummaryTimeout  time.Duration

	// MaxEvidence caps related tickets and doc references.
	MaxEvidence   int
	ExcerptLength int
	// MaxSummaryContext caps the text sent to the summarizer, in runes.
	MaxSummaryContext int
	// DefaultDocs replace the doc search result when it is empty or fails.
	DefaultDocs []evidence.DocReference
}

// DefaultConfig returns the settings used for zero-valued fields.
func DefaultConfig() Config {
	return Config{
		OverallTimeout:    40 * time.Second,
		CommentsTimeout:   10 * time.Second,
		RelatedTimeout:    15 * time.Second,
		DocsTimeout:       15 * time.Second,
		SummaryTimeout:    30 * time.Second,
		MaxEvidence:       domain.DefaultMaxEvidence,
		ExcerptLength:     domain.DefaultExcerptLength,
		MaxSummaryContext: 12000,
		DefaultDocs:       DefaultDocLinks(),
	}
}

// DefaultDocLinks is the documentation shown when doc search yields nothing.
func DefaultDocLinks() []evidence.DocReference {
	return []evidence.DocReference{
		evidence.NewDocReference("CAST Documentation", "https://doc.castsoftware.com/", "Product documentation home"),
		evidence.NewDocReference("CAST Imaging", "https://doc.castsoftware.com/imaging/", "Installation and administration guides"),
		evidence.NewDocReference("CAST Support Help Center", "https://castsoftware.zendesk.com/hc/en-us", "Knowledge base and known issues"),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.OverallTimeout <= 0 {
		c.OverallTimeout = def.OverallTimeout
	}
	if c.CommentsTimeout <= 0 {
		c.CommentsTimeout = def.CommentsTimeout
	}
	if c.RelatedTimeout <= 0 {
		c.RelatedTimeout = def.RelatedTimeout
	}
	if c.DocsTimeout <= 0 {
		c.DocsTimeout = def.DocsTimeout
	}
	if c.SummaryTimeout <= 0 {
		c.SummaryTimeout = def.SummaryTimeout
	}
	if c.MaxEvidence <= 0 {
		c.MaxEvidence = def.MaxEvidence
	}
	if c.ExcerptLength <= 0 {
		c.ExcerptLength = def.ExcerptLength
	}
	if c.MaxSummaryContext <= 0 {
		c.MaxSummaryContext = def.MaxSummaryContext
	}
	if len(c.DefaultDocs) == 0 {
		c.DefaultDocs = def.DefaultDocs
	}
	return c
}

// Guards holds one circuit breaker per upstream. Nil guards pass through.
type Guards struct {
	Tickets    *branch.Guard
	Docs       *branch.Guard
	Summarizer *branch.Guard
}

// Service runs analyses.
type Service struct {
	tickets    TicketFetcher
	related    RelatedSearcher
	docs       DocSearcher
	summarizer Summarizer
	normalizer *keyword.Normalizer
	guards     Guards
	cfg        Config
	logger     *zap.Logger
}

// New creates an analysis service. Any adapter may be nil: its branch then
// fails with domain.ErrConfigMissing and yields its fallback.
func New(
	tickets TicketFetcher, related RelatedSearcher, docs DocSearcher, summarizer Summarizer,
	normalizer *keyword.Normalizer, cfg Config, logger *zap.Logger,
) *Service {
	if normalizer == nil {
		normalizer = keyword.Default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tickets:    tickets,
		related:    related,
		docs:       docs,
		summarizer: summarizer,
		normalizer: normalizer,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// WithGuards returns the service with circuit breakers installed.
func (s *Service) WithGuards(g Guards) *Service {
	s.guards = g
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() Config { return s.cfg }

// Analyze answers q with the best evidence available before the deadlines.
// Branch failures never surface: only domain.ErrMalformedInput (zero query),
// domain.ErrOverallTimeout and parent cancellation are returned as errors.
func (s *Service) Analyze(ctx context.Context, q query.Query) (domanalysis.Result, error) {
	if q.IsZero() || !q.Mode().IsValid() {
		return domanalysis.Result{}, fmt.Errorf("%w: empty query", domain.ErrMalformedInput)
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OverallTimeout)
	defer cancel()

	log := logger.FromContext(ctx, s.logger).With(zap.String("mode", string(q.Mode())))

	res := s.run(ctx, q, log)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			metrics.AnalysesTotal.WithLabelValues(string(q.Mode()), "cancelled").Inc()
			return domanalysis.Result{}, fmt.Errorf("analyze: %w", err)
		}
		metrics.AnalysesTotal.WithLabelValues(string(q.Mode()), "timeout").Inc()
		log.Warn("analysis exceeded overall deadline",
			zap.Duration("timeout", s.cfg.OverallTimeout),
			zap.Duration("elapsed", time.Since(start)),
		)
		return domanalysis.Result{}, fmt.Errorf("%w: after %s", domain.ErrOverallTimeout, s.cfg.OverallTimeout)
	}

	metrics.AnalysesTotal.WithLabelValues(string(q.Mode()), "ok").Inc()
	metrics.AnalysisConfidence.Observe(res.Confidence())
	log.Info("analysis completed",
		zap.String("search_key", res.SearchKey()),
		zap.Int("related", len(res.Related())),
		zap.Int("docs", len(res.Docs())),
		zap.Float64("confidence", res.Confidence()),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, q query.Query, log *zap.Logger) domanalysis.Result {
	j := joined{query: q, branches: make(map[string]outcome.Outcome, 4)}
	var mu sync.Mutex
	record := func(name string, o outcome.Outcome) {
		mu.Lock()
		j.branches[name] = o
		mu.Unlock()
		s.observe(log, name, o)
	}

	var (
		sourceText string
		excludeID  int64
	)
	switch q.Mode() {
	case query.Ticket:
		excludeID = q.TicketID()
		primary := evidence.NewRelatedItem(excludeID, s.ticketURL(excludeID), "")
		j.primary = &primary

		r := branch.Run(ctx, s.cfg.CommentsTimeout, ticket.Content{}, s.fetchTicket(excludeID))
		record(domanalysis.BranchComments, r.Outcome)
		sourceText = r.Value.Text()
	case query.Text:
		sourceText = q.Text()
	}

	j.searchKey = s.normalizer.Normalize(sourceText)
	summaryContext := head(sourceText, s.cfg.MaxSummaryContext)

	var g errgroup.Group
	g.Go(func() error {
		r := branch.Run(ctx, s.cfg.RelatedTimeout, []evidence.RelatedItem(nil), s.searchRelated(j.searchKey, excludeID))
		record(domanalysis.BranchRelated, r.Outcome)
		mu.Lock()
		j.related = evidence.ExcludeTicket(r.Value, excludeID)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		r := branch.Run(ctx, s.cfg.DocsTimeout, []evidence.DocReference(nil), s.searchDocs(j.searchKey))
		record(domanalysis.BranchDocs, r.Outcome)
		mu.Lock()
		j.docs = r.Value
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		r := branch.Run(ctx, s.cfg.SummaryTimeout, summary.Summary{}, s.summarize(summaryContext))
		record(domanalysis.BranchSummary, r.Outcome)
		mu.Lock()
		j.summary = r.Value
		mu.Unlock()
		return nil
	})
	_ = g.Wait() // branches never return errors

	return assemble(j, s.cfg.MaxEvidence, s.cfg.ExcerptLength, s.cfg.DefaultDocs)
}

func (s *Service) ticketURL(id int64) string {
	if s.tickets == nil {
		return ""
	}
	return s.tickets.TicketURL(id)
}

// fetchTicket and the lookups below reject nil adapters and empty input
// before the circuit breaker sees the call.
func (s *Service) fetchTicket(id int64) branch.Func[ticket.Content] {
	if s.tickets == nil {
		return branch.Fail[ticket.Content](fmt.Errorf("ticket fetcher: %w", domain.ErrConfigMissing))
	}
	return branch.Guarded(s.guards.Tickets, func(ctx context.Context) (ticket.Content, error) {
		return s.tickets.FetchTicket(ctx, id)
	})
}

func (s *Service) searchRelated(key string, excludeID int64) branch.Func[[]evidence.RelatedItem] {
	if s.related == nil {
		return branch.Fail[[]evidence.RelatedItem](fmt.Errorf("related search: %w", domain.ErrConfigMissing))
	}
	return branch.Guarded(s.guards.Tickets, func(ctx context.Context) ([]evidence.RelatedItem, error) {
		// Ask for one extra so excluding the source ticket still fills the cap.
		return s.related.SearchRelated(ctx, key, excludeID, s.cfg.MaxEvidence+1)
	})
}

func (s *Service) searchDocs(key string) branch.Func[[]evidence.DocReference] {
	if s.docs == nil {
		return branch.Fail[[]evidence.DocReference](fmt.Errorf("doc search: %w", domain.ErrConfigMissing))
	}
	return branch.Guarded(s.guards.Docs, func(ctx context.Context) ([]evidence.DocReference, error) {
		return s.docs.SearchDocs(ctx, key, s.cfg.MaxEvidence)
	})
}

func (s *Service) summarize(text string) branch.Func[summary.Summary] {
	switch {
	case s.summarizer == nil:
		return branch.Fail[summary.Summary](fmt.Errorf("summarizer: %w", domain.ErrConfigMissing))
	case text == "":
		return branch.Fail[summary.Summary](domain.ErrNoContext)
	}
	return branch.Guarded(s.guards.Summarizer, func(ctx context.Context) (summary.Summary, error) {
		return s.summarizer.Summarize(ctx, text)
	})
}

func (s *Service) observe(log *zap.Logger, name string, o outcome.Outcome) {
	metrics.ObserveBranch(name, o)

	fields := []zap.Field{
		zap.String("branch", name),
		zap.String("outcome", string(o.Kind())),
		zap.Duration("duration", o.Duration()),
	}
	if o.OK() {
		log.Debug("branch settled", fields...)
		return
	}
	fields = append(fields, zap.String("error_kind", domain.ErrorKind(o.Err())), zap.Error(o.Err()))
	log.Warn("branch fell back", fields...)
}
