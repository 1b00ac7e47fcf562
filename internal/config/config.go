// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the bot server and the beer store service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ValidationMode selects which settings are required.
type ValidationMode int

const (
	// ServerMode validates settings for the LINE bot server.
	ServerMode ValidationMode = iota
	// StoreMode validates settings for the delegated beer store service.
	StoreMode
)

// Default content sources.
const (
	DefaultVenueURL          = "https://untappd.com/v/titans-craft-beer-bar-and-bottle-shop/5286704"
	DefaultScraperServiceURL = "http://159.13.59.218:5000"
	DefaultLineAPIEndpoint   = "https://api.line.me"
	DefaultMenuMarker        = "menu-section-list"
	DefaultLabelLimit        = 40
	DefaultUserRateBurst     = 10
	DefaultUserRateRefill    = 0.2
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string // Empty disables signature verification
	LineAPIEndpoint   string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Content Sources
	VenueURL          string
	MenuMarker        string
	ScraperServiceURL string   // Delegated scrape/storage service; empty disables it
	MenuRelayURLs     []string // Relay prefixes tried after the direct page strategies
	ReferenceDataDir  string   // Optional override directory for reference JSON

	// Timeouts and concurrency
	FetchTimeout     time.Duration
	ReplyTimeout     time.Duration
	EventTimeout     time.Duration
	EventConcurrency int

	// Per-user token bucket; a burst of zero disables it
	UserRateBurst  float64
	UserRateRefill float64 // tokens per second

	// Cards
	LabelLimit int

	// Metrics Authentication
	MetricsUsername string
	MetricsPassword string // Empty = no auth

	// Error tracking and log shipping
	SentryDSN           string
	SentryEnvironment   string
	SentrySampleRate    float64
	BetterStackToken    string
	BetterStackEndpoint string

	// Beer store service
	StorePort   string
	StoreDBPath string
}

// Load reads configuration for the bot server.
func Load() (*Config, error) {
	return LoadForMode(ServerMode)
}

// LoadForMode reads configuration from environment variables and validates
// it for the given mode. It attempts to load a .env file first.
func LoadForMode(mode ValidationMode) (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),
		LineAPIEndpoint:   getEnv(EnvLineAPIEndpoint, DefaultLineAPIEndpoint),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		VenueURL:          getEnv(EnvVenueURL, DefaultVenueURL),
		MenuMarker:        getEnv(EnvMenuMarker, DefaultMenuMarker),
		ScraperServiceURL: strings.TrimRight(getOptionalEnv(EnvScraperServiceURL, DefaultScraperServiceURL), "/"),
		MenuRelayURLs:     getListEnv(EnvMenuRelayURLs),
		ReferenceDataDir:  getEnv(EnvReferenceDataDir, ""),

		FetchTimeout:     getDurationEnv(EnvFetchTimeout, FetchRequest),
		ReplyTimeout:     getDurationEnv(EnvReplyTimeout, ReplyRequest),
		EventTimeout:     getDurationEnv(EnvEventTimeout, EventProcessing),
		EventConcurrency: getIntEnv(EnvEventConcurrency, 1),

		UserRateBurst:  getFloatEnv(EnvUserRateBurst, DefaultUserRateBurst),
		UserRateRefill: getFloatEnv(EnvUserRateRefill, DefaultUserRateRefill),

		LabelLimit: getIntEnv(EnvLabelLimit, DefaultLabelLimit),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		SentryDSN:           getEnv(EnvSentryDSN, ""),
		SentryEnvironment:   getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:    getFloatEnv(EnvSentrySampleRate, 1.0),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		StorePort:   getEnv(EnvStorePort, "5000"),
		StoreDBPath: getEnv(EnvStoreDBPath, "./data/beerstore.db"),
	}

	if err := cfg.ValidateForMode(mode); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for the bot server.
func (c *Config) Validate() error {
	return c.ValidateForMode(ServerMode)
}

// ValidateForMode checks if required configuration values are set for mode.
func (c *Config) ValidateForMode(mode ValidationMode) error {
	var errs []error

	switch mode {
	case ServerMode:
		if c.LineChannelToken == "" {
			errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelAccessToken))
		}
		if c.Port == "" {
			errs = append(errs, fmt.Errorf("%s is required", EnvPort))
		}
		if err := validateURL(EnvLineAPIEndpoint, c.LineAPIEndpoint); err != nil {
			errs = append(errs, err)
		}
		if c.ScraperServiceURL != "" {
			if err := validateURL(EnvScraperServiceURL, c.ScraperServiceURL); err != nil {
				errs = append(errs, err)
			}
		}
		for _, relay := range c.MenuRelayURLs {
			if err := validateURL(EnvMenuRelayURLs, relay); err != nil {
				errs = append(errs, err)
			}
		}
		if c.ReplyTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvReplyTimeout, c.ReplyTimeout))
		}
		if c.EventTimeout <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvEventTimeout, c.EventTimeout))
		}
		if c.EventConcurrency < 1 {
			errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", EnvEventConcurrency, c.EventConcurrency))
		}
		if c.UserRateBurst < 0 || (c.UserRateBurst > 0 && c.UserRateBurst < 1) {
			errs = append(errs, fmt.Errorf("%s must be 0 or at least 1, got %v", EnvUserRateBurst, c.UserRateBurst))
		}
		if c.UserRateBurst > 0 && c.UserRateRefill <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive when %s is set, got %v", EnvUserRateRefill, EnvUserRateBurst, c.UserRateRefill))
		}
		if c.FetchTimeout > 0 && c.ReplyTimeout > 0 && c.EventTimeout > 0 {
			if need := c.EventBudget(); c.EventTimeout < need {
				errs = append(errs, fmt.Errorf("%s must cover %d menu strategies at %s plus the %s reply timeout: need at least %v, got %v",
					EnvEventTimeout, c.MenuStrategyCount(), EnvFetchTimeout, EnvReplyTimeout, need, c.EventTimeout))
			}
		}
		if c.LabelLimit < 4 {
			errs = append(errs, fmt.Errorf("%s must be at least 4, got %d", EnvLabelLimit, c.LabelLimit))
		}
	case StoreMode:
		if c.StorePort == "" {
			errs = append(errs, fmt.Errorf("%s is required", EnvStorePort))
		}
		if c.StoreDBPath == "" {
			errs = append(errs, fmt.Errorf("%s is required", EnvStoreDBPath))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown validation mode %d", mode))
	}

	// Shared by both modes: the store scrapes the venue page too.
	if err := validateURL(EnvVenueURL, c.VenueURL); err != nil {
		errs = append(errs, err)
	}
	if c.MenuMarker == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvMenuMarker))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvFetchTimeout, c.FetchTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// MenuStrategyCount is the length of the menu fallback chain: the delegated
// service when configured, two direct page fetches, then one per relay.
func (c *Config) MenuStrategyCount() int {
	n := 2 + len(c.MenuRelayURLs)
	if c.ScraperServiceURL != "" {
		n++
	}
	return n
}

// EventBudget is the longest one event can take when every menu strategy
// times out and the reply still has to be sent.
func (c *Config) EventBudget() time.Duration {
	return time.Duration(c.MenuStrategyCount())*c.FetchTimeout + c.ReplyTimeout
}

// SignatureBypass reports whether webhook signature verification is disabled.
func (c *Config) SignatureBypass() bool {
	return c.LineChannelSecret == ""
}

// MetricsAuthEnabled reports whether /metrics and diagnostics require Basic Auth.
func (c *Config) MetricsAuthEnabled() bool {
	return c.MetricsPassword != ""
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, u.Scheme)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getOptionalEnv is like getEnv, except that a variable set to the empty
// string overrides the default.
func getOptionalEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping blank entries.
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
