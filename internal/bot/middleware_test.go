package bot

import (
	"context"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
)

func okHandler(called *bool) HandlerFunc {
	return func(context.Context, TextEvent) messaging_api.MessageInterface {
		*called = true
		return &messaging_api.TextMessage{Text: "test"}
	}
}

func TestLoggingMiddleware(t *testing.T) {
	log := logger.New("debug")

	called := false
	h := LoggingMiddleware(log)(CommandMenu, okHandler(&called))
	msg := h(context.Background(), TextEvent{Text: "beer"})

	if !called {
		t.Error("Expected next to be called")
	}
	if msg == nil {
		t.Error("Expected message from handler")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	called := false
	h := MetricsMiddleware(m)(CommandStaff, okHandler(&called))
	h(context.Background(), TextEvent{Text: "staff"})
	h(context.Background(), TextEvent{Text: "staff"})

	if !called {
		t.Error("Expected next to be called")
	}
	if got := testutil.ToFloat64(m.CommandsTotal.WithLabelValues("staff")); got != 2 {
		t.Errorf("Expected 2 staff commands, got %v", got)
	}
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	called := false
	h := MetricsMiddleware(nil)(CommandStaff, okHandler(&called))
	h(context.Background(), TextEvent{})

	if !called {
		t.Error("Expected next to be called")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	log := logger.New("info")
	panicking := func(context.Context, TextEvent) messaging_api.MessageInterface {
		panic("test panic")
	}

	// Test that panic is recovered
	defer func() {
		if r := recover(); r != nil {
			t.Error("Panic should have been recovered by middleware")
		}
	}()

	msg := RecoveryMiddleware(log)(CommandMenu, panicking)(context.Background(), TextEvent{})
	if msg != nil {
		t.Errorf("Expected no reply after a panic, got %T", msg)
	}
}

func TestMiddlewareChaining(t *testing.T) {
	var executionOrder []string

	record := func(name string) Middleware {
		return func(_ Command, next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, ev TextEvent) messaging_api.MessageInterface {
				executionOrder = append(executionOrder, name+"_before")
				msg := next(ctx, ev)
				executionOrder = append(executionOrder, name+"_after")
				return msg
			}
		}
	}

	called := false
	h := chain(CommandMenu, okHandler(&called), record("mw1"), record("mw2"))
	if msg := h(context.Background(), TextEvent{}); msg == nil {
		t.Error("Expected message from handler")
	}

	// Verify execution order
	expected := []string{"mw1_before", "mw2_before", "mw2_after", "mw1_after"}
	if len(executionOrder) != len(expected) {
		t.Fatalf("Expected %d middleware calls, got %d", len(expected), len(executionOrder))
	}
	for i, exp := range expected {
		if executionOrder[i] != exp {
			t.Errorf("Expected execution order[%d] = %s, got %v", i, exp, executionOrder)
		}
	}
}
