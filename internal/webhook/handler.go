// Package webhook receives LINE webhook deliveries, authenticates them and
// answers each event through the bot router and the reply API.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/titansbeer/titans-linebot-go/internal/bot"
	"github.com/titansbeer/titans-linebot-go/internal/config"
	"github.com/titansbeer/titans-linebot-go/internal/ctxutil"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
	"github.com/titansbeer/titans-linebot-go/internal/ratelimit"
	"github.com/titansbeer/titans-linebot-go/internal/sentry"
)

// Router answers one routed event. A nil message means no reply.
type Router interface {
	Route(ctx context.Context, ev bot.Event) messaging_api.MessageInterface
}

// Handler handles LINE webhook events
type Handler struct {
	verifier *Verifier
	router   Router
	replier  Replier
	metrics  *metrics.Metrics
	logger   *logger.Logger
	wg       sync.WaitGroup // WaitGroup for async event processing

	userLimiter  *ratelimit.UserLimiter
	eventTimeout time.Duration
	concurrency  int
}

// NewHandler creates a new webhook handler.
func NewHandler(verifier *Verifier, router Router, replier Replier, opts ...HandlerOption) (*Handler, error) {
	if verifier == nil || router == nil || replier == nil {
		return nil, errors.New("webhook handler requires a verifier, a router and a replier")
	}

	h := &Handler{
		verifier:     verifier,
		router:       router,
		replier:      replier,
		eventTimeout: config.EventProcessing,
		concurrency:  1,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.New("info")
	}
	if h.metrics == nil {
		h.metrics = metrics.New(prometheus.NewRegistry())
	}
	h.logger = h.logger.WithModule("webhook")

	if verifier.Bypassed() {
		h.logger.Error("LINE channel secret is empty: webhook signature verification is DISABLED")
	}
	return h, nil
}

// Handle is the Gin handler for the webhook endpoint. Authentic deliveries
// are always acknowledged with 200; events run after the response.
func (h *Handler) Handle(c *gin.Context) {
	// 1. Read the raw body; the signature covers the exact bytes.
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, config.WebhookMaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.metrics.RecordWebhookRequest("too_large")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		h.metrics.RecordWebhookRequest("read_error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	// 2. Authenticate
	if !h.verifier.Verify(body, c.GetHeader(SignatureHeader)) {
		h.logger.WarnContext(c.Request.Context(), "Invalid webhook signature")
		h.metrics.RecordWebhookRequest("invalid_signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}
	if h.verifier.Bypassed() {
		h.logger.WarnContext(c.Request.Context(), "Webhook accepted without signature verification")
	}

	// 3. Decode. A body LINE can't have meant is still acknowledged so it
	// is not redelivered.
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		h.logger.WithError(err).WarnContext(c.Request.Context(), "Failed to parse webhook body")
		h.metrics.RecordWebhookRequest("malformed")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	// 4. Return 200 OK immediately (LINE requirement)
	h.metrics.RecordWebhookRequest("accepted")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})

	if len(cb.Events) == 0 {
		return
	}

	// Copy events to avoid race condition after HTTP response completes
	events := make([]webhook.EventInterface, len(cb.Events))
	copy(events, cb.Events)

	ctx := ctxutil.PreserveTracing(c.Request.Context())
	h.wg.Go(func() {
		h.ProcessEvents(ctx, events)
	})
}

// ProcessEvents answers a batch. Events are independent: a failure or panic
// in one never stops the others.
func (h *Handler) ProcessEvents(ctx context.Context, events []webhook.EventInterface) {
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(h.concurrency)
	for _, event := range events {
		g.Go(func() error {
			h.processEvent(ctx, event)
			return nil
		})
	}
	_ = g.Wait()

	h.logger.WithField("event_count", len(events)).
		WithField("batch_duration_ms", time.Since(start).Milliseconds()).
		DebugContext(ctx, "Batch processed")
}

// processEvent handles a single webhook event
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	eventStart := time.Now()
	eventType := "unknown"

	eventID, eventTimestamp, isRedelivery := extractEventMeta(event)
	if eventID != "" {
		ctx = ctxutil.WithEventID(ctx, eventID)
	}

	log := h.logger
	if isRedelivery != nil {
		log = log.WithField("is_redelivery", *isRedelivery)
	}
	if eventTimestamp > 0 {
		log = log.WithField("event_timestamp_ms", eventTimestamp)
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).
				WithField("stack", string(debug.Stack())).
				ErrorContext(ctx, "Panic while processing event")
			sentry.CapturePanic(ctx, r, map[string]string{"event_type": eventType})
			h.metrics.RecordWebhook(eventType, "panic", time.Since(eventStart).Seconds())
		}
	}()

	routed, ok := bot.FromWebhook(event)
	if !ok {
		log.WithField("event_type", fmt.Sprintf("%T", event)).DebugContext(ctx, "Unsupported event type")
		h.metrics.RecordWebhook("unsupported", "skipped", 0)
		return
	}
	eventType = routed.Kind()
	origin := routed.Origin()
	if origin.UserID != "" {
		ctx = ctxutil.WithUserID(ctx, origin.UserID)
	}

	if origin.ReplyToken == "" {
		log.WithField("event_type", eventType).DebugContext(ctx, "Empty reply token, skipping event")
		h.metrics.RecordWebhook(eventType, "skipped", 0)
		return
	}

	if !h.userLimiter.Allow(origin.UserID) {
		log.WithField("event_type", eventType).WarnContext(ctx, "User rate limited, dropping event")
		h.metrics.RecordWebhook(eventType, "rate_limited", 0)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.eventTimeout)
	defer cancel()

	msg := h.router.Route(ctx, routed)
	if msg == nil {
		h.metrics.RecordWebhook(eventType, "no_reply", time.Since(eventStart).Seconds())
		log.WithField("event_type", eventType).DebugContext(ctx, "No reply for event")
		return
	}

	status := "success"
	if err := h.replier.Reply(ctx, origin.ReplyToken, []messaging_api.MessageInterface{msg}); err != nil {
		status = "reply_error"
		h.metrics.RecordReply("error")
		if isInvalidReplyToken(err) {
			log.WithError(err).DebugContext(ctx, "Reply token already used or invalid")
		} else {
			log.WithError(err).ErrorContext(ctx, "Failed to send reply")
			sentry.CaptureExceptionWithContext(ctx, err, map[string]string{"event_type": eventType})
		}
	} else {
		h.metrics.RecordReply("success")
	}

	h.metrics.RecordWebhook(eventType, status, time.Since(eventStart).Seconds())
	log.WithField("event_type", eventType).
		WithField("status", status).
		WithField("event_duration_ms", time.Since(eventStart).Milliseconds()).
		InfoContext(ctx, "Event processed")
}

func extractEventMeta(event webhook.EventInterface) (string, int64, *bool) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		return e.WebhookEventId, e.Timestamp, boolPtr(e.DeliveryContext)
	case webhook.PostbackEvent:
		return e.WebhookEventId, e.Timestamp, boolPtr(e.DeliveryContext)
	default:
		return "", 0, nil
	}
}

func boolPtr(ctx *webhook.DeliveryContext) *bool {
	if ctx == nil {
		return nil
	}
	val := ctx.IsRedelivery
	return &val
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
