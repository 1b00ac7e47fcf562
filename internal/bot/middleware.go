package bot

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
	"github.com/titansbeer/titans-linebot-go/internal/sentry"
)

// Middleware wraps the handler bound to cmd.
type Middleware func(cmd Command, next HandlerFunc) HandlerFunc

// LoggingMiddleware logs handler execution with timing and result info.
func LoggingMiddleware(log *logger.Logger) Middleware {
	return func(cmd Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, ev TextEvent) messaging_api.MessageInterface {
			start := time.Now()

			msg := next(ctx, ev)

			log.WithField("command", cmd.String()).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				WithField("replied", msg != nil).
				DebugContext(ctx, "Handler completed")

			return msg
		}
	}
}

// MetricsMiddleware counts routed commands.
func MetricsMiddleware(m *metrics.Metrics) Middleware {
	return func(cmd Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, ev TextEvent) messaging_api.MessageInterface {
			if m != nil {
				m.RecordCommand(cmd.String())
			}
			return next(ctx, ev)
		}
	}
}

// RecoveryMiddleware recovers from panics in handlers. A panicking handler
// produces no reply.
func RecoveryMiddleware(log *logger.Logger) Middleware {
	return func(cmd Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, ev TextEvent) (msg messaging_api.MessageInterface) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("command", cmd.String()).
						WithField("panic", r).
						WithField("stack", string(debug.Stack())).
						ErrorContext(ctx, "Handler panicked")
					sentry.CapturePanic(ctx, r, map[string]string{"command": cmd.String()})
					msg = nil
				}
			}()

			return next(ctx, ev)
		}
	}
}

// chain applies middlewares so the first one listed runs outermost.
func chain(cmd Command, h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](cmd, h)
	}
	return h
}
