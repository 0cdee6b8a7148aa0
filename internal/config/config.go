// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey            = "GEMINI_API_KEY"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvNaverClientID     = "NAVER_CLIENT_ID"
	EnvNaverClientSecret = "NAVER_CLIENT_SECRET"
	EnvRedisURL          = "REDIS_URL"
	EnvLogLevel          = "LOG_LEVEL"
)

// Search sources accepted by Validate.
const (
	SourceNaver = "naver"
	SourceRSS   = "rss"
	SourceAll   = "all"
)

// Relevance modes accepted by Validate.
const (
	RelevanceBoolean = "boolean"
	RelevanceScore   = "score"
)

// Owner is one entry of a multi-owner batch.
type Owner struct {
	OwnerID  string `json:"owner_id" yaml:"owner_id"`
	JobGroup string `json:"job_group" yaml:"job_group"`
	JobRole  string `json:"job_role,omitempty" yaml:"job_role,omitempty"`
}

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Profile
	OwnerID  string  `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`   // Owner the records are stored under
	JobGroup string  `json:"job_group,omitempty" yaml:"job_group,omitempty"` // Job group, e.g. "개발"
	JobRole  string  `json:"job_role,omitempty" yaml:"job_role,omitempty"`   // Job role, e.g. "백엔드 개발자"
	Owners   []Owner `json:"owners,omitempty" yaml:"owners,omitempty"`       // Batch of owners for concurrent runs

	// Collection
	LimitPerKeyword    int    `json:"limit_per_keyword,omitempty" yaml:"limit_per_keyword,omitempty"`     // Search results per keyword (1-100)
	Sort               string `json:"sort,omitempty" yaml:"sort,omitempty"`                               // "date" or "sim"
	RelevanceMode      string `json:"relevance_mode,omitempty" yaml:"relevance_mode,omitempty"`           // "boolean" or "score"
	RelevanceThreshold int    `json:"relevance_threshold,omitempty" yaml:"relevance_threshold,omitempty"` // Minimum score in score mode (0-100)
	RequestIntervalMs  int    `json:"request_interval_ms,omitempty" yaml:"request_interval_ms,omitempty"` // Delay between external calls
	HostIntervalMs     int    `json:"host_interval_ms,omitempty" yaml:"host_interval_ms,omitempty"`       // Delay between scrapes of one host
	MinSnippetRunes    int    `json:"min_snippet_runes,omitempty" yaml:"min_snippet_runes,omitempty"`     // Snippets shorter than this are scraped
	Concurrency        int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`                 // Owners processed at once
	KeywordCacheTTLMin int    `json:"keyword_cache_ttl_min,omitempty" yaml:"keyword_cache_ttl_min,omitempty"`

	// Services
	APIKey            string `json:"api_key,omitempty" yaml:"api_key,omitempty"`           // Gemini API key
	DatabaseURL       string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL          string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // Shared keyword cache
	SearchEndpoint    string `json:"search_endpoint,omitempty" yaml:"search_endpoint,omitempty"`
	NaverClientID     string `json:"naver_client_id,omitempty" yaml:"naver_client_id,omitempty"`
	NaverClientSecret string `json:"naver_client_secret,omitempty" yaml:"naver_client_secret,omitempty"`
	Source            string `json:"source,omitempty" yaml:"source,omitempty"`               // "naver", "rss" or "all"
	FeedEndpoint      string `json:"feed_endpoint,omitempty" yaml:"feed_endpoint,omitempty"` // RSS search endpoint

	// Behavior
	UseBrowser   bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`     // Render pages with headless Chrome when static HTML has no body
	IgnoreRobots bool   `json:"ignore_robots,omitempty" yaml:"ignore_robots,omitempty"` // Scrape pages even when robots.txt disallows them
	Verbose      bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`             // Print detailed run reports
	LogLevel     string `json:"log_level,omitempty" yaml:"log_level,omitempty"`         // debug, info, warn, error
	LogFormat    string `json:"log_format,omitempty" yaml:"log_format,omitempty"`       // text or json
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		LimitPerKeyword:    10,
		Sort:               "date",
		Source:             SourceNaver,
		RelevanceMode:      RelevanceBoolean,
		RelevanceThreshold: 15,
		RequestIntervalMs:  500,
		HostIntervalMs:     1000,
		MinSnippetRunes:    200,
		Concurrency:        4,
		KeywordCacheTTLMin: 24 * 60,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after flags are merged.
func (c *Config) Validate() error {
	if c.LimitPerKeyword < 0 || c.LimitPerKeyword > 100 {
		return fmt.Errorf("config error: 'limit_per_keyword' must be between 1 and 100")
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 100 {
		return fmt.Errorf("config error: 'relevance_threshold' must be between 0 and 100")
	}
	switch c.RelevanceMode {
	case "", RelevanceBoolean, RelevanceScore:
	default:
		return fmt.Errorf("config error: unknown 'relevance_mode' %q", c.RelevanceMode)
	}
	switch c.Sort {
	case "", "date", "sim":
	default:
		return fmt.Errorf("config error: unknown 'sort' %q", c.Sort)
	}
	if c.RequestIntervalMs < 0 || c.HostIntervalMs < 0 {
		return fmt.Errorf("config error: intervals must be non-negative")
	}
	if c.MinSnippetRunes < 0 {
		return fmt.Errorf("config error: 'min_snippet_runes' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	switch c.Source {
	case "", SourceNaver, SourceRSS, SourceAll:
	default:
		return fmt.Errorf("config error: unknown 'source' %q", c.Source)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown 'log_format' %q", c.LogFormat)
	}
	for i, o := range c.Owners {
		if o.OwnerID == "" || o.JobGroup == "" {
			return fmt.Errorf("config error: owners[%d] needs owner_id and job_group", i)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	mergeInt := func(dst *int, def int) {
		if *dst == 0 {
			*dst = def
		}
	}

	mergeString(&result.OwnerID, defaults.OwnerID)
	mergeString(&result.JobGroup, defaults.JobGroup)
	mergeString(&result.JobRole, defaults.JobRole)
	mergeString(&result.Sort, defaults.Sort)
	mergeString(&result.RelevanceMode, defaults.RelevanceMode)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.RedisURL, defaults.RedisURL)
	mergeString(&result.SearchEndpoint, defaults.SearchEndpoint)
	mergeString(&result.NaverClientID, defaults.NaverClientID)
	mergeString(&result.NaverClientSecret, defaults.NaverClientSecret)
	mergeString(&result.Source, defaults.Source)
	mergeString(&result.FeedEndpoint, defaults.FeedEndpoint)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	mergeInt(&result.LimitPerKeyword, defaults.LimitPerKeyword)
	mergeInt(&result.RelevanceThreshold, defaults.RelevanceThreshold)
	mergeInt(&result.RequestIntervalMs, defaults.RequestIntervalMs)
	mergeInt(&result.HostIntervalMs, defaults.HostIntervalMs)
	mergeInt(&result.MinSnippetRunes, defaults.MinSnippetRunes)
	mergeInt(&result.Concurrency, defaults.Concurrency)
	mergeInt(&result.KeywordCacheTTLMin, defaults.KeywordCacheTTLMin)

	if len(result.Owners) == 0 {
		result.Owners = defaults.Owners
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills empty service settings from the environment. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	set(&c.APIKey, EnvAPIKey)
	set(&c.DatabaseURL, EnvDatabaseURL)
	set(&c.NaverClientID, EnvNaverClientID)
	set(&c.NaverClientSecret, EnvNaverClientSecret)
	set(&c.RedisURL, EnvRedisURL)
	set(&c.LogLevel, EnvLogLevel)
}

// RequestInterval is the delay between external calls of one run.
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.RequestIntervalMs) * time.Millisecond
}

// HostInterval is the delay between scrapes of one publisher host.
func (c *Config) HostInterval() time.Duration {
	return time.Duration(c.HostIntervalMs) * time.Millisecond
}

// KeywordCacheTTL is how long keyword expansions are reused.
func (c *Config) KeywordCacheTTL() time.Duration {
	return time.Duration(c.KeywordCacheTTLMin) * time.Minute
}

// BatchOwners returns Owners, or the single configured owner when no batch is set.
func (c *Config) BatchOwners() []Owner {
	if len(c.Owners) > 0 {
		return c.Owners
	}
	if c.OwnerID == "" {
		return nil
	}
	return []Owner{{OwnerID: c.OwnerID, JobGroup: c.JobGroup, JobRole: c.JobRole}}
}

// UsesNaver reports whether the Naver search API is one of the sources.
func (c *Config) UsesNaver() bool {
	return c.Source == "" || c.Source == SourceNaver || c.Source == SourceAll
}

// String renders the non-secret settings for verbose output.
func (c *Config) String() string {
	return "owner=" + c.OwnerID +
		" group=" + c.JobGroup +
		" role=" + c.JobRole +
		" source=" + c.Source +
		" limit=" + strconv.Itoa(c.LimitPerKeyword) +
		" relevance=" + c.RelevanceMode +
		" interval=" + c.RequestInterval().String()
}
