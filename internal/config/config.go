// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store backend names accepted in StoreBackend.
const (
	StoreSession  = "session"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags and environment variables.
type Config struct {
	// AI
	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Gemini model name

	// Review site
	SiteRoot string `json:"site_root,omitempty"` // Base URL of the review site

	// Web search (optional, used for website discovery)
	SearchAPIKey string `json:"search_api_key,omitempty"` // Google Custom Search API key
	SearchCX     string `json:"search_cx,omitempty"`      // Custom Search engine ID

	// Storage
	StoreBackend string `json:"store_backend,omitempty"` // session, redis, or postgres
	StoreTTL     string `json:"store_ttl,omitempty"`     // Record lifetime, e.g. "12h"
	RedisURL     string `json:"redis_url,omitempty"`     // redis:// connection URL
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL

	// Decoding
	RuleFile  string   `json:"rule_file,omitempty"` // Path to a JSON rule override file
	CaseStyle string   `json:"case_style,omitempty"` // sentence, title, or upper
	Selectors []string `json:"selectors,omitempty"`  // CSS selector overrides for page rewriting

	// Behavior
	UseBrowser bool   `json:"use_browser,omitempty"` // Use headless browser for SPA career pages
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed debug information
	NoCache    bool   `json:"no_cache,omitempty"`    // Disable the fetched-page cache
	CacheDir   string `json:"cache_dir,omitempty"`   // Override for the page cache directory
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills API credentials from the environment when the config does
// not set them. Environment variables never override explicit values.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.SearchAPIKey == "" {
		c.SearchAPIKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	if c.SearchCX == "" {
		c.SearchCX = os.Getenv("GOOGLE_SEARCH_CX")
	}
	if c.RedisURL == "" {
		c.RedisURL = os.Getenv("REDIS_URL")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "", StoreSession, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("config error: unknown store_backend %q (want session, redis, or postgres)", c.StoreBackend)
	}

	if c.StoreBackend == StoreRedis && c.RedisURL == "" {
		return fmt.Errorf("config error: store_backend redis requires 'redis_url'")
	}
	if c.StoreBackend == StorePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config error: store_backend postgres requires 'database_url'")
	}

	if c.StoreTTL != "" {
		if _, err := time.ParseDuration(c.StoreTTL); err != nil {
			return fmt.Errorf("config error: invalid store_ttl %q: %w", c.StoreTTL, err)
		}
	}

	switch c.CaseStyle {
	case "", "sentence", "title", "upper":
	default:
		return fmt.Errorf("config error: unknown case_style %q (want sentence, title, or upper)", c.CaseStyle)
	}

	if c.RuleFile != "" {
		if _, err := os.Stat(c.RuleFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: rule file not found: %s", c.RuleFile)
		}
	}

	return nil
}

// TTL returns the configured record lifetime, or fallback when unset.
// Validate catches malformed durations before this is called.
func (c Config) TTL(fallback time.Duration) time.Duration {
	if c.StoreTTL == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.StoreTTL)
	if err != nil {
		return fallback
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.SiteRoot == "" {
		result.SiteRoot = defaults.SiteRoot
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchCX == "" {
		result.SearchCX = defaults.SearchCX
	}
	if result.StoreBackend == "" {
		result.StoreBackend = defaults.StoreBackend
	}
	if result.StoreTTL == "" {
		result.StoreTTL = defaults.StoreTTL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RuleFile == "" {
		result.RuleFile = defaults.RuleFile
	}
	if result.CaseStyle == "" {
		result.CaseStyle = defaults.CaseStyle
	}
	if result.Selectors == nil {
		result.Selectors = defaults.Selectors
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
