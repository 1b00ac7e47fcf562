// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// LINE
	EnvLineChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "LINE_CHANNEL_SECRET"
	EnvLineAPIEndpoint        = "LINE_API_ENDPOINT"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	// Content sources
	EnvVenueURL          = "VENUE_URL"
	EnvMenuMarker        = "MENU_MARKER"
	EnvScraperServiceURL = "SCRAPER_SERVICE_URL"
	EnvMenuRelayURLs     = "MENU_RELAY_URLS"
	EnvReferenceDataDir  = "REFERENCE_DATA_DIR"

	// Timeouts and concurrency
	EnvFetchTimeout     = "FETCH_TIMEOUT"
	EnvReplyTimeout     = "REPLY_TIMEOUT"
	EnvEventTimeout     = "EVENT_TIMEOUT"
	EnvEventConcurrency = "EVENT_CONCURRENCY"

	// Per-user rate limit
	EnvUserRateBurst  = "USER_RATE_BURST"
	EnvUserRateRefill = "USER_RATE_REFILL"

	// Cards
	EnvLabelLimit = "LABEL_LIMIT"

	// Metrics Auth
	EnvMetricsUsername = "METRICS_USERNAME"
	EnvMetricsPassword = "METRICS_PASSWORD"

	// Sentry
	EnvSentryDSN         = "SENTRY_DSN"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Better Stack
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"

	// Beer store (delegated service)
	EnvStorePort   = "STORE_PORT"
	EnvStoreDBPath = "STORE_DB_PATH"
)
