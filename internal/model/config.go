package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Research    ResearchConfig    `yaml:"research" mapstructure:"research"`
	Critique    CritiqueConfig    `yaml:"critique" mapstructure:"critique"`
	Revision    RevisionConfig    `yaml:"revision" mapstructure:"revision"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behavior for all research calls
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig controls caching of research API responses and enriched pages
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch workers and per-host rate limits
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ResearchConfig configures the research API collaborators
type ResearchConfig struct {
	FirecrawlBaseURL string `yaml:"firecrawl_base_url" mapstructure:"firecrawl_base_url"`
	FirecrawlAPIKey  string `yaml:"-" mapstructure:"-"` // From FIRECRAWL_API_KEY
	LinkedInBaseURL  string `yaml:"linkedin_base_url" mapstructure:"linkedin_base_url"`
	LinkedInAPIKey   string `yaml:"-" mapstructure:"-"` // From LINKEDIN_API_KEY
	SearchLimit      int    `yaml:"search_limit" mapstructure:"search_limit"`
	MinSnippetChars  int    `yaml:"min_snippet_chars" mapstructure:"min_snippet_chars"`
	EnrichPages      bool   `yaml:"enrich_pages" mapstructure:"enrich_pages"`
}

// CritiqueConfig tunes the critique gate
type CritiqueConfig struct {
	// MinFacts is the research-depth threshold: the minimum number of
	// distinct, non-boilerplate accepted facts required for approval.
	MinFacts int `yaml:"min_facts" mapstructure:"min_facts"`
}

// RevisionConfig tunes the revision loop
type RevisionConfig struct {
	MaxIterations int `yaml:"max_iterations" mapstructure:"max_iterations"`
}

// LLMConfig configures the optional drafting layer
type LLMConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model       string `yaml:"model" mapstructure:"model"`
	APIKey      string `yaml:"-" mapstructure:"-"` // From environment, never persisted
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictFacts bool   `yaml:"strict_facts" mapstructure:"strict_facts"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	InterestsPath string `yaml:"interests_path" mapstructure:"interests_path"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Rapport/0.1 (+https://github.com/rapportlabs/rapport)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Research: ResearchConfig{
			FirecrawlBaseURL: "https://api.firecrawl.dev",
			LinkedInBaseURL:  "https://api.scrapingdog.com/linkedin",
			SearchLimit:      5,
			MinSnippetChars:  80,
			EnrichPages:      true,
		},
		Critique: CritiqueConfig{
			MinFacts: 3,
		},
		Revision: RevisionConfig{
			MaxIterations: DefaultMaxIterations,
		},
		LLM: LLMConfig{
			Provider:    "",
			Timeout:     30,
			MaxTokens:   1000,
			StrictFacts: true,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			InterestsPath: "my_interests.md",
		},
	}
}

// defaultCacheDir returns the default on-disk cache location
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rapport-cache"
	}
	return filepath.Join(home, ".rapport", "cache")
}
