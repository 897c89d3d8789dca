// Package config loads server settings from an optional YAML file with
// FOLIO_* environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Community connection
	BaseURL  string
	Username string
	Password string

	// Transport
	Transport  string
	HTTPAddr   string
	HTTPAPIKey string

	// Fetch tool
	FetchMaxLength int
	FetchTimeout   time.Duration
	FetchMaxPages  int

	// Search tool
	SearchPageSize     int
	SearchDefaultLimit int

	// Page cache
	CachePath string
	CacheTTL  time.Duration

	// Windowing
	SentenceTerminators string
}

// Defaults returns the built-in settings used before file and environment
// overrides.
func Defaults() Config {
	return Config{
		Transport:           "stdio",
		HTTPAddr:            ":8000",
		FetchMaxLength:      50000,
		FetchTimeout:        15 * time.Second,
		FetchMaxPages:       5,
		SearchPageSize:      50,
		SearchDefaultLimit:  20,
		CacheTTL:            5 * time.Minute,
		SentenceTerminators: ".!?",
	}
}

type fileConfig struct {
	BaseURL             string `yaml:"base_url"`
	Username            string `yaml:"username"`
	Password            string `yaml:"password"`
	Transport           string `yaml:"transport"`
	HTTPAddr            string `yaml:"http_addr"`
	HTTPAPIKey          string `yaml:"http_api_key"`
	FetchMaxLength      int    `yaml:"fetch_max_length"`
	FetchTimeout        string `yaml:"fetch_timeout"`
	FetchMaxPages       int    `yaml:"fetch_max_pages"`
	SearchPageSize      int    `yaml:"search_page_size"`
	SearchDefaultLimit  int    `yaml:"search_default_limit"`
	CachePath           string `yaml:"cache_path"`
	CacheTTL            string `yaml:"cache_ttl"`
	SentenceTerminators string `yaml:"sentence_terminators"`
}

// Load builds the configuration. path may be empty, in which case the file
// named by FOLIO_CONFIG is used when set. Environment variables override the
// file, which overrides the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = os.Getenv("FOLIO_CONFIG")
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.Username, fc.Username)
	setString(&cfg.Password, fc.Password)
	setString(&cfg.Transport, fc.Transport)
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.HTTPAPIKey, fc.HTTPAPIKey)
	setInt(&cfg.FetchMaxLength, fc.FetchMaxLength)
	setInt(&cfg.FetchMaxPages, fc.FetchMaxPages)
	setInt(&cfg.SearchPageSize, fc.SearchPageSize)
	setInt(&cfg.SearchDefaultLimit, fc.SearchDefaultLimit)
	setString(&cfg.CachePath, fc.CachePath)
	setString(&cfg.SentenceTerminators, fc.SentenceTerminators)

	if fc.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.FetchTimeout)
		if err != nil {
			return fmt.Errorf("parse fetch_timeout %q: %w", fc.FetchTimeout, err)
		}
		cfg.FetchTimeout = d
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("parse cache_ttl %q: %w", fc.CacheTTL, err)
		}
		cfg.CacheTTL = d
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = envOr("FOLIO_BASE_URL", cfg.BaseURL)
	cfg.Username = envOr("FOLIO_USERNAME", cfg.Username)
	cfg.Password = envOr("FOLIO_PASSWORD", cfg.Password)
	cfg.Transport = envOr("FOLIO_TRANSPORT", cfg.Transport)
	cfg.HTTPAddr = envOr("FOLIO_HTTP_ADDR", cfg.HTTPAddr)
	cfg.HTTPAPIKey = envOr("FOLIO_HTTP_API_KEY", cfg.HTTPAPIKey)
	cfg.FetchMaxLength = envInt("FOLIO_FETCH_MAX_LENGTH", cfg.FetchMaxLength)
	cfg.FetchTimeout = envDuration("FOLIO_FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchMaxPages = envInt("FOLIO_FETCH_MAX_PAGES", cfg.FetchMaxPages)
	cfg.SearchPageSize = envInt("FOLIO_SEARCH_PAGE_SIZE", cfg.SearchPageSize)
	cfg.SearchDefaultLimit = envInt("FOLIO_SEARCH_DEFAULT_LIMIT", cfg.SearchDefaultLimit)
	cfg.CachePath = envOr("FOLIO_CACHE_PATH", cfg.CachePath)
	cfg.CacheTTL = envDuration("FOLIO_CACHE_TTL", cfg.CacheTTL)
	cfg.SentenceTerminators = envOr("FOLIO_SENTENCE_TERMINATORS", cfg.SentenceTerminators)
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("FOLIO_BASE_URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("FOLIO_USERNAME is required")
	}
	if c.Password == "" {
		return fmt.Errorf("FOLIO_PASSWORD is required")
	}
	if c.Transport != "stdio" && c.Transport != "http" {
		return fmt.Errorf("FOLIO_TRANSPORT must be stdio or http, got %q", c.Transport)
	}
	if c.FetchMaxLength < 1000 || c.FetchMaxLength > 500000 {
		return fmt.Errorf("FOLIO_FETCH_MAX_LENGTH must be between 1000 and 500000, got %d", c.FetchMaxLength)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FOLIO_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.FetchMaxPages < 1 || c.FetchMaxPages > 20 {
		return fmt.Errorf("FOLIO_FETCH_MAX_PAGES must be between 1 and 20, got %d", c.FetchMaxPages)
	}
	if c.SearchPageSize < 10 || c.SearchPageSize > 1000 {
		return fmt.Errorf("FOLIO_SEARCH_PAGE_SIZE must be between 10 and 1000, got %d", c.SearchPageSize)
	}
	if c.SearchDefaultLimit <= 0 {
		return fmt.Errorf("FOLIO_SEARCH_DEFAULT_LIMIT must be positive, got %d", c.SearchDefaultLimit)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("FOLIO_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.SentenceTerminators == "" {
		return fmt.Errorf("FOLIO_SENTENCE_TERMINATORS must not be empty")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
