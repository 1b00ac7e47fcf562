package webhook

import (
	"time"

	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
	"github.com/titansbeer/titans-linebot-go/internal/ratelimit"
)

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithEventTimeout bounds routing and replying for one event.
func WithEventTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		if timeout > 0 {
			h.eventTimeout = timeout
		}
	}
}

// WithConcurrency sets how many events of one batch run in parallel.
// One keeps the batch order.
func WithConcurrency(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = log
	}
}

// WithUserLimiter drops events from users who exceed their token bucket.
// A nil or disabled limiter lets everything through.
func WithUserLimiter(l *ratelimit.UserLimiter) HandlerOption {
	return func(h *Handler) {
		h.userLimiter = l
	}
}
