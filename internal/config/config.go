package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/triage/internal/domain"
	"github.com/kailas-cloud/triage/internal/domain/keyword"
)

// Config holds the triage service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Zendesk    ZendeskConfig    `yaml:"zendesk"`
	Docs       DocsConfig       `yaml:"docs"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Breaker    BreakerConfig    `yaml:"breaker"`
	Redis      RedisConfig      `yaml:"redis"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AnalysisConfig bounds every analysis.
type AnalysisConfig struct {
	OverallTimeoutSec int    `yaml:"overall_timeout_sec"`
	MaxKeywords       int    `yaml:"max_keywords"`
	DefaultSearchTerm string `yaml:"default_search_term"`
	MaxEvidence       int    `yaml:"max_evidence"`
	ExcerptLength     int    `yaml:"excerpt_length"`
}

// ZendeskConfig holds ticketing backend settings.
type ZendeskConfig struct {
	Subdomain          string  `yaml:"subdomain"`
	Email              string  `yaml:"email"`
	APIToken           string  `yaml:"api_token"`
	BaseURL            string  `yaml:"base_url"` // overrides https://{subdomain}.zendesk.com
	CommentsTimeoutSec int     `yaml:"comments_timeout_sec"`
	SearchTimeoutSec   int     `yaml:"search_timeout_sec"`
	RatePerSec         float64 `yaml:"rate_per_sec"`
	Burst              int     `yaml:"burst"`
	StatusFilter       string  `yaml:"status_filter"` // e.g. "solved"; empty searches every status
	SortBy             string  `yaml:"sort_by"`
	SortOrder          string  `yaml:"sort_order"`
}

// Configured reports whether every credential is present.
func (z ZendeskConfig) Configured() bool {
	return z.Subdomain != "" && z.Email != "" && z.APIToken != ""
}

// DocLink is one fallback documentation reference.
type DocLink struct {
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Comment string `yaml:"comment"`
}

// DocsConfig holds documentation search settings.
type DocsConfig struct {
	Site         string    `yaml:"site"`       // restricts results, e.g. doc.castsoftware.com
	SearchURL    string    `yaml:"search_url"` // HTML search endpoint
	UserAgent    string    `yaml:"user_agent"`
	TimeoutSec   int       `yaml:"timeout_sec"`
	DefaultLinks []DocLink `yaml:"default_links"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// SummarizerConfig holds chat-completion backend settings.
type SummarizerConfig struct {
	APIKey          string       `yaml:"api_key"`
	BaseURL         string       `yaml:"base_url"`
	Model           string       `yaml:"model"`
	TimeoutSec      int          `yaml:"timeout_sec"`
	MaxContextChars int          `yaml:"max_context_chars"`
	MaxTokens       int          `yaml:"max_tokens"`
	Temperature     float32      `yaml:"temperature"`
	Budget          BudgetConfig `yaml:"budget"`
}

// BreakerConfig holds per-backend circuit breaker settings.
type BreakerConfig struct {
	Enabled               bool `yaml:"enabled"`
	ErrorPercentThreshold int  `yaml:"error_percent_threshold"`
	MinimumRequests       int  `yaml:"minimum_requests"`
	OpenWaitSec           int  `yaml:"open_wait_sec"`
}

// RedisConfig enables persistent budget counters when Addrs is set.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a Redis server is configured.
func (r RedisConfig) Enabled() bool { return len(r.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first; it never overrides
// variables already set in the process environment.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates one YAML file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Analysis.OverallTimeoutSec <= 0 {
		c.Analysis.OverallTimeoutSec = 40
	}
	if c.Analysis.MaxKeywords <= 0 {
		c.Analysis.MaxKeywords = domain.DefaultMaxKeywords
	}
	if c.Analysis.DefaultSearchTerm == "" {
		c.Analysis.DefaultSearchTerm = domain.DefaultSearchTerm
	}
	if c.Analysis.MaxEvidence <= 0 {
		c.Analysis.MaxEvidence = domain.DefaultMaxEvidence
	}
	if c.Analysis.ExcerptLength <= 0 {
		c.Analysis.ExcerptLength = domain.DefaultExcerptLength
	}

	if c.Zendesk.CommentsTimeoutSec <= 0 {
		c.Zendesk.CommentsTimeoutSec = 10
	}
	if c.Zendesk.SearchTimeoutSec <= 0 {
		c.Zendesk.SearchTimeoutSec = 15
	}
	if c.Zendesk.RatePerSec <= 0 {
		c.Zendesk.RatePerSec = 10
	}
	if c.Zendesk.Burst <= 0 {
		c.Zendesk.Burst = 5
	}
	if c.Zendesk.SortBy == "" {
		c.Zendesk.SortBy = "updated_at"
	}
	if c.Zendesk.SortOrder == "" {
		c.Zendesk.SortOrder = "desc"
	}

	if c.Docs.SearchURL == "" {
		c.Docs.SearchURL = "https://html.duckduckgo.com/html/"
	}
	if c.Docs.UserAgent == "" {
		c.Docs.UserAgent = "triage/1.0"
	}
	if c.Docs.TimeoutSec <= 0 {
		c.Docs.TimeoutSec = 15
	}

	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gpt-4o-mini"
	}
	if c.Summarizer.TimeoutSec <= 0 {
		c.Summarizer.TimeoutSec = 25
	}
	if c.Summarizer.MaxContextChars <= 0 {
		c.Summarizer.MaxContextChars = 12000
	}
	if c.Summarizer.MaxTokens <= 0 {
		c.Summarizer.MaxTokens = 400
	}

	if c.Breaker.ErrorPercentThreshold <= 0 {
		c.Breaker.ErrorPercentThreshold = 50
	}
	if c.Breaker.MinimumRequests <= 0 {
		c.Breaker.MinimumRequests = 10
	}
	if c.Breaker.OpenWaitSec <= 0 {
		c.Breaker.OpenWaitSec = 30
	}

	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	// Ticket mode fetches comments before fanning out, so the deadline must
	// cover both stages.
	fanOut := max(c.Zendesk.SearchTimeoutSec, c.Docs.TimeoutSec, c.Summarizer.TimeoutSec)
	if need := c.Zendesk.CommentsTimeoutSec + fanOut; c.Analysis.OverallTimeoutSec <= need {
		return fmt.Errorf(
			"analysis.overall_timeout_sec must exceed comments + slowest branch timeout (%ds), got %d",
			need, c.Analysis.OverallTimeoutSec,
		)
	}
	if c.HTTP.WriteTimeoutSec <= c.Analysis.OverallTimeoutSec {
		return fmt.Errorf(
			"http.write_timeout_sec (%d) must exceed analysis.overall_timeout_sec (%d)",
			c.HTTP.WriteTimeoutSec, c.Analysis.OverallTimeoutSec,
		)
	}

	if _, err := keyword.New(c.Analysis.MaxKeywords, c.Analysis.DefaultSearchTerm); err != nil {
		return fmt.Errorf("analysis.default_search_term: %w", err)
	}

	switch c.Summarizer.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"summarizer.budget.action must be \"warn\" or \"reject\", got %q",
			c.Summarizer.Budget.Action,
		)
	}

	if len(c.Docs.DefaultLinks) == 0 {
		return fmt.Errorf("docs.default_links must contain at least one link")
	}
	for i, l := range c.Docs.DefaultLinks {
		if strings.TrimSpace(l.URL) == "" {
			return fmt.Errorf("docs.default_links[%d].url is required", i)
		}
	}

	if c.Breaker.ErrorPercentThreshold > 100 {
		return fmt.Errorf("breaker.error_percent_threshold must be at most 100, got %d", c.Breaker.ErrorPercentThreshold)
	}
	return nil
}

// OverallTimeout returns the analysis deadline.
func (a AnalysisConfig) OverallTimeout() time.Duration {
	return time.Duration(a.OverallTimeoutSec) * time.Second
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
