package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/triage/internal/config"
	dbRedis "github.com/kailas-cloud/triage/internal/db/redis"
	"github.com/kailas-cloud/triage/internal/domain/evidence"
	"github.com/kailas-cloud/triage/internal/domain/keyword"
	logpkg "github.com/kailas-cloud/triage/internal/logger"
	"github.com/kailas-cloud/triage/internal/metrics"
	budgetrepo "github.com/kailas-cloud/triage/internal/repository/budget"
	chiTransport "github.com/kailas-cloud/triage/internal/transport/chi"
	"github.com/kailas-cloud/triage/internal/transport/docsearch"
	openaiSum "github.com/kailas-cloud/triage/internal/transport/openai"
	"github.com/kailas-cloud/triage/internal/transport/zendesk"
	analysisuc "github.com/kailas-cloud/triage/internal/usecase/analysis"
	"github.com/kailas-cloud/triage/internal/usecase/branch"
	healthuc "github.com/kailas-cloud/triage/internal/usecase/health"
	summaryuc "github.com/kailas-cloud/triage/internal/usecase/summary"
	usageuc "github.com/kailas-cloud/triage/internal/usecase/usage"
	"github.com/kailas-cloud/triage/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting triage API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Duration("overall_timeout", cfg.Analysis.OverallTimeout()),
	)

	metrics.Register()
	ctx := context.Background()

	// Optional persistent budget counters
	var healthStore healthuc.StorePinger
	var budgetStore summaryuc.BudgetStore
	if cfg.Redis.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Redis.Addrs))
		healthStore = store
		budgetStore = budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL)
	}

	// Backends
	tickets := zendesk.New(zendesk.Config{
		Subdomain:    cfg.Zendesk.Subdomain,
		Email:        cfg.Zendesk.Email,
		APIToken:     cfg.Zendesk.APIToken,
		BaseURL:      cfg.Zendesk.BaseURL,
		RatePerSec:   cfg.Zendesk.RatePerSec,
		Burst:        cfg.Zendesk.Burst,
		StatusFilter: cfg.Zendesk.StatusFilter,
		SortBy:       cfg.Zendesk.SortBy,
		SortOrder:    cfg.Zendesk.SortOrder,
		UserAgent:    cfg.Docs.UserAgent,
	})
	if !tickets.Configured() {
		logger.Warn("Zendesk credentials missing, ticket branches will use fallbacks")
	}

	docs := docsearch.New(docsearch.Config{
		SearchURL: cfg.Docs.SearchURL,
		Site:      cfg.Docs.Site,
		UserAgent: cfg.Docs.UserAgent,
	})

	summarizerBase := openaiSum.NewSummarizer(&openaiSum.Config{
		APIKey:      cfg.Summarizer.APIKey,
		BaseURL:     cfg.Summarizer.BaseURL,
		Model:       cfg.Summarizer.Model,
		MaxTokens:   cfg.Summarizer.MaxTokens,
		Temperature: cfg.Summarizer.Temperature,
		Logger:      logger,
	})
	if !summarizerBase.Configured() {
		logger.Warn("Summarizer API key missing, summaries will be empty")
	}

	// Single BudgetTracker shared by the summarizer and the usage report.
	// Zero limits keep it counting without enforcing.
	budgetCfg := cfg.Summarizer.Budget
	action, err := summaryuc.ParseBudgetAction(budgetCfg.Action)
	if err != nil {
		logger.Fatal("Invalid budget action", zap.Error(err))
	}
	budget := summaryuc.NewBudgetTracker(
		cfg.Summarizer.Model, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
	)
	if budgetStore != nil {
		// Connect persistence store: loads current counters from redis.
		budget.WithStore(ctx, budgetStore)
	}
	summarizer := summaryuc.NewInstrumented(summarizerBase, cfg.Summarizer.Model, budget, logger)

	// Aggregator
	normalizer, err := keyword.New(cfg.Analysis.MaxKeywords, cfg.Analysis.DefaultSearchTerm)
	if err != nil {
		logger.Fatal("Invalid keyword settings", zap.Error(err))
	}

	searchTimeout := time.Duration(cfg.Zendesk.SearchTimeoutSec) * time.Second
	analysis := analysisuc.New(tickets, tickets, docs, summarizer, normalizer, analysisuc.Config{
		OverallTimeout:    cfg.Analysis.OverallTimeout(),
		CommentsTimeout:   time.Duration(cfg.Zendesk.CommentsTimeoutSec) * time.Second,
		RelatedTimeout:    searchTimeout,
		DocsTimeout:       time.Duration(cfg.Docs.TimeoutSec) * time.Second,
		SummaryTimeout:    time.Duration(cfg.Summarizer.TimeoutSec) * time.Second,
		MaxEvidence:       cfg.Analysis.MaxEvidence,
		ExcerptLength:     cfg.Analysis.ExcerptLength,
		MaxSummaryContext: cfg.Summarizer.MaxContextChars,
		DefaultDocs:       defaultDocs(cfg.Docs.DefaultLinks),
	}, logger)

	if cfg.Breaker.Enabled {
		breakerCfg := branch.BreakerConfig{
			ErrorPercentThresholdToOpen: cfg.Breaker.ErrorPercentThreshold,
			MinimumRequestToOpen:        cfg.Breaker.MinimumRequests,
			WaitDurationInOpenState:     time.Duration(cfg.Breaker.OpenWaitSec) * time.Second,
		}
		analysis.WithGuards(analysisuc.Guards{
			Tickets:    branch.NewGuard(breakerCfg),
			Docs:       branch.NewGuard(breakerCfg),
			Summarizer: branch.NewGuard(breakerCfg),
		})
		logger.Info("Circuit breakers enabled",
			zap.Int("error_percent_threshold", cfg.Breaker.ErrorPercentThreshold),
			zap.Int("minimum_requests", cfg.Breaker.MinimumRequests),
		)
	}

	// Health service
	var summarizerChecker healthuc.SummarizerChecker
	if summarizerBase.Configured() {
		summarizerChecker = summarizerBase
	}
	healthSvc := healthuc.New(healthStore, summarizerChecker)

	usageSvc := usageuc.New(budget)

	server := chiTransport.NewServer(analysis, healthSvc, usageSvc, map[string]bool{
		"ZENDESK_SUBDOMAIN": cfg.Zendesk.Subdomain != "",
		"ZENDESK_EMAIL":     cfg.Zendesk.Email != "",
		"ZENDESK_API_TOKEN": cfg.Zendesk.APIToken != "",
		"OPENAI_API_KEY":    cfg.Summarizer.APIKey != "",
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	budget.Flush()

	logger.Info("Server stopped gracefully")
}

func defaultDocs(links []config.DocLink) []evidence.DocReference {
	out := make([]evidence.DocReference, 0, len(links))
	for _, l := range links {
		out = append(out, evidence.NewDocReference(l.Title, l.URL, l.Comment))
	}
	return out
}
