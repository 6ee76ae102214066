// Package openai implements the summarizer backend on an OpenAI-compatible
// chat-completion API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/triage/internal/domain"
	"github.com/kailas-cloud/triage/internal/domain/summary"
	"github.com/kailas-cloud/triage/internal/metrics"
)

const systemPrompt = `You are a senior support engineer triaging a customer ticket.
Read the ticket conversation and reply in exactly this format:

Summary: <two or three sentences describing the customer's problem>
Resolution: <the most likely fix or next troubleshooting steps>

Do not add any other sections. If the text is not enough to suggest a fix,
write "Resolution: Not enough information."`

// Config holds the chat-completion settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	User        string
	Logger      *zap.Logger
}

// Summarizer asks a chat model for a summary and a suggested resolution.
type Summarizer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	user        string
	configured  bool
	logger      *zap.Logger
}

// NewSummarizer creates a summarizer. An empty API key yields a summarizer
// whose calls fail with domain.ErrConfigMissing.
func NewSummarizer(cfg *Config) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Summarizer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		user:        cfg.User,
		configured:  cfg.APIKey != "",
		logger:      logger,
	}
}

// Configured reports whether an API key is present.
func (s *Summarizer) Configured() bool { return s.configured }

// Model returns the chat model name.
func (s *Summarizer) Model() string { return s.model }

// Generate summarizes text. Returns the parsed reply and token usage with
// transport-level metrics.
func (s *Summarizer) Generate(ctx context.Context, text string) (summary.Summary, summary.Usage, error) {
	if !s.configured {
		return summary.Summary{}, summary.Usage{}, fmt.Errorf("summarizer: %w", domain.ErrConfigMissing)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		User:        s.user,
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary.Summary{}, summary.Usage{}, fmt.Errorf("chat completion: %w", ctxErr)
		}
		return summary.Summary{}, summary.Usage{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "empty").Inc()
		return summary.Summary{}, summary.Usage{}, domain.NewUpstreamError(
			"chat completion", 0, errors.New("empty completion"),
		)
	}

	metrics.SummarizerRequestsTotal.WithLabelValues(s.model, "success").Inc()
	metrics.SummarizerRequestDuration.WithLabelValues(s.model).Observe(duration.Seconds())

	usage := summary.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	if usage.Total() > 0 {
		metrics.SummarizerTokensTotal.WithLabelValues(s.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.SummarizerTokensTotal.WithLabelValues(s.model, "completion").Add(float64(usage.CompletionTokens))
	}

	if resp.Choices[0].FinishReason == openai.FinishReasonLength {
		s.logger.Debug("Summary truncated by max_tokens", zap.String("model", s.model))
	}

	return summary.Parse(resp.Choices[0].Message.Content), usage, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Summarizer) HealthCheck(ctx context.Context) error {
	if !s.configured {
		return fmt.Errorf("summarizer: %w", domain.ErrConfigMissing)
	}
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// Every error is a *domain.UpstreamError carrying the HTTP status when known.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return domain.NewUpstreamError("chat completion", reqErr.HTTPStatusCode, errors.New(detail))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewUpstreamError("chat completion", apiErr.HTTPStatusCode, errors.New(apiErr.Message))
	}

	return domain.NewUpstreamError("chat completion", 0, err)
}

// extractDetail extracts the "detail" field from a JSON error body (some
// compatible providers use it instead of the OpenAI envelope).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
