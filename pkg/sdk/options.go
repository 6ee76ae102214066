package triage

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	zendesk    *ZendeskConfig
	openAI     *OpenAIConfig
	docs       *DocSearchConfig
	summarizer Summarizer
	defaults   []DocLink

	timeouts          Timeouts
	maxEvidence       int
	maxKeywords       int
	defaultSearchTerm string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithZendesk enables the ticket branches. Without it, ticket comments and
// related tickets fall back to empty values.
func WithZendesk(cfg ZendeskConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.zendesk = &cfg
	})
}

// WithOpenAI enables summaries through an OpenAI-compatible chat API.
func WithOpenAI(cfg OpenAIConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAI = &cfg
	})
}

// WithSummarizer sets a custom summarizer. It takes precedence over WithOpenAI.
func WithSummarizer(s Summarizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarizer = s
	})
}

// WithDocSearch enables the documentation search branch.
func WithDocSearch(cfg DocSearchConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.docs = &cfg
	})
}

// WithDefaultDocs replaces the links returned when doc search finds nothing.
func WithDefaultDocs(links ...DocLink) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults = links
	})
}

// WithTimeouts overrides the overall and per-branch deadlines.
func WithTimeouts(t Timeouts) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeouts = t
	})
}

// WithMaxEvidence caps related tickets and doc links. Default: 3.
func WithMaxEvidence(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxEvidence = n
	})
}

// WithKeywords sets the keyword count and the search term used when the
// text yields no keywords. Defaults: 8 and "CAST".
func WithKeywords(maxWords int, defaultTerm string) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxKeywords = maxWords
		c.defaultSearchTerm = defaultTerm
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (analysis counts, durations and
// confidence) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
