// Package metrics defines the Prometheus metrics exported by the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Fetch metrics (one observation per strategy attempt)
	FetchRequestsTotal   *prometheus.CounterVec
	FetchDurationSeconds *prometheus.HistogramVec

	// Menu outcome after the strategy chain
	MenuResultsTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookEventsTotal     *prometheus.CounterVec

	// Routing and reply metrics
	CommandsTotal *prometheus.CounterVec
	RepliesTotal  *prometheus.CounterVec

	// Saved-beer metrics
	SavesTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		FetchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_fetch_requests_total",
				Help: "Total number of menu fetch attempts by source and status",
			},
			[]string{"source", "status"}, // status: ok, empty, error
		),

		FetchDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "titans_fetch_duration_seconds",
				Help:    "Menu fetch attempt duration in seconds by source",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
			},
			[]string{"source"}, // source: delegated, direct-desktop, direct-rotating, relay-N
		),

		MenuResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_menu_results_total",
				Help: "Total number of menu lookups by final status",
			},
			[]string{"status"},
		),

		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "titans_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15, 45},
			},
			[]string{"event_type"}, // event_type: message, postback
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_webhook_requests_total",
				Help: "Total number of webhook deliveries by outcome",
			},
			[]string{"status"}, // status: accepted, invalid_signature, bad_request
		),

		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_webhook_events_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // status: replied, ignored, error, panic
		),

		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_commands_total",
				Help: "Total number of routed commands",
			},
			[]string{"command"},
		),

		RepliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_replies_total",
				Help: "Total number of LINE reply calls by status",
			},
			[]string{"status"}, // status: success, error
		),

		SavesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_saves_total",
				Help: "Total number of save-beer requests by status",
			},
			[]string{"status"},
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "titans_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"},
		),
	}
}

// RecordFetch records one strategy attempt.
func (m *Metrics) RecordFetch(source, status string, duration float64) {
	m.FetchRequestsTotal.WithLabelValues(source, status).Inc()
	m.FetchDurationSeconds.WithLabelValues(source).Observe(duration)
}

// RecordMenuResult records the outcome of a full strategy chain.
func (m *Metrics) RecordMenuResult(status string) {
	m.MenuResultsTotal.WithLabelValues(status).Inc()
}

// RecordWebhookRequest records a webhook delivery outcome.
func (m *Metrics) RecordWebhookRequest(status string) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
}

// RecordWebhook records a processed webhook event
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookEventsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordCommand records a routed command.
func (m *Metrics) RecordCommand(command string) {
	m.CommandsTotal.WithLabelValues(command).Inc()
}

// RecordReply records a reply API call.
func (m *Metrics) RecordReply(status string) {
	m.RepliesTotal.WithLabelValues(status).Inc()
}

// RecordSave records a save-beer request.
func (m *Metrics) RecordSave(status string) {
	m.SavesTotal.WithLabelValues(status).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}
