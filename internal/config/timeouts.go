// Package config provides centralized timeout constants for the application.
//
// LINE expects a quick 200 acknowledgment for every webhook delivery and
// redelivers on failure, so event work runs after the response is written.
// Reply tokens stay valid for about a minute, which bounds EventProcessing.
package config

import "time"

// Webhook timeouts
const (
	// EventProcessing bounds routing, fetching, card building and the reply for
	// one event. The default covers three menu strategies at FetchRequest plus
	// ReplyRequest; Validate rejects a shorter EVENT_TIMEOUT.
	EventProcessing = 60 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout. LINE sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 30 * time.Second

	// DiagnosticScrape bounds /test-scrape so it answers before WebhookHTTPWrite
	// cuts the connection.
	DiagnosticScrape = 25 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second

	// WebhookMaxBodyBytes caps the raw webhook body read for signature verification.
	WebhookMaxBodyBytes = 1 << 20
)

// Outbound call timeouts
const (
	// FetchRequest is the timeout for a single menu, saved-list or save call.
	// The venue page sits behind anti-bot protection and can take several seconds.
	FetchRequest = 15 * time.Second

	// ReplyRequest is the timeout for one LINE reply API call.
	ReplyRequest = 10 * time.Second

	// HealthcheckRequest is used by cmd/healthcheck.
	HealthcheckRequest = 8 * time.Second
)

// Store timeouts
const (
	// DatabaseBusyTimeout is the SQLite busy_timeout pragma value.
	DatabaseBusyTimeout = 10 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	DatabaseConnMaxLifetime = time.Hour
)

// GracefulShutdown is the default timeout for graceful server shutdown.
const GracefulShutdown = 30 * time.Second
