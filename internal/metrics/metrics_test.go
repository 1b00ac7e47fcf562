package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	assert.NotNil(t, m.FetchRequestsTotal)
	assert.NotNil(t, m.FetchDurationSeconds)
	assert.NotNil(t, m.MenuResultsTotal)
	assert.NotNil(t, m.WebhookDurationSeconds)
	assert.NotNil(t, m.WebhookRequestsTotal)
	assert.NotNil(t, m.WebhookEventsTotal)
	assert.NotNil(t, m.CommandsTotal)
	assert.NotNil(t, m.RepliesTotal)
	assert.NotNil(t, m.SavesTotal)
	assert.NotNil(t, m.HTTPErrorsTotal)
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Registering twice on distinct registries must not panic.
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestRecordFetch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFetch("delegated", "error", 0.2)
	m.RecordFetch("direct-desktop", "ok", 1.5)
	m.RecordFetch("direct-desktop", "ok", 0.7)

	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchRequestsTotal.WithLabelValues("delegated", "error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.FetchRequestsTotal.WithLabelValues("direct-desktop", "ok")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.FetchDurationSeconds))
}

func TestRecordWebhook(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordWebhookRequest("accepted")
	m.RecordWebhookRequest("invalid_signature")
	m.RecordWebhook("message", "replied", 0.3)
	m.RecordWebhook("postback", "error", 1.1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.WebhookRequestsTotal.WithLabelValues("invalid_signature")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("message", "replied")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.WebhookDurationSeconds))
}

func TestRecordCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordCommand("menu")
	m.RecordCommand("menu")
	m.RecordReply("success")
	m.RecordSave("error")
	m.RecordMenuResult("empty")
	m.RecordHTTPError("timeout", "fetcher")

	assert.InDelta(t, 2, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("menu")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RepliesTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SavesTotal.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.MenuResultsTotal.WithLabelValues("empty")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPErrorsTotal.WithLabelValues("timeout", "fetcher")), 0)
}
