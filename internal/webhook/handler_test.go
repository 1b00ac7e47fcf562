package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/bot"
	"github.com/titansbeer/titans-linebot-go/internal/cards"
	"github.com/titansbeer/titans-linebot-go/internal/data"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
	"github.com/titansbeer/titans-linebot-go/internal/ratelimit"
)

const testSecret = "test_channel_secret"

type fakeRouter struct {
	mu     sync.Mutex
	events []bot.Event
}

func (f *fakeRouter) Route(_ context.Context, ev bot.Event) messaging_api.MessageInterface {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()

	text, ok := ev.(bot.TextEvent)
	if !ok {
		return nil
	}
	switch text.Text {
	case "panic":
		panic("router exploded")
	case "silent":
		return nil
	}
	return &messaging_api.TextMessage{Text: "echo: " + text.Text}
}

func (f *fakeRouter) routed() []bot.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bot.Event(nil), f.events...)
}

type reply struct {
	token    string
	messages []messaging_api.MessageInterface
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []reply
	err     error
}

func (f *fakeReplier) Reply(_ context.Context, token string, messages []messaging_api.MessageInterface) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, reply{token: token, messages: messages})
	return f.err
}

func (f *fakeReplier) sent() []reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reply(nil), f.replies...)
}

type testEnv struct {
	handler *Handler
	router  *fakeRouter
	replier *fakeReplier
	metrics *metrics.Metrics
	engine  *gin.Engine
}

func newTestEnv(t *testing.T, secret string, router Router, opts ...HandlerOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fr, _ := router.(*fakeRouter)
	replier := &fakeReplier{}
	m := metrics.New(prometheus.NewRegistry())

	opts = append([]HandlerOption{
		WithMetrics(m),
		WithLogger(logger.New("error")),
		WithEventTimeout(5 * time.Second),
	}, opts...)
	h, err := NewHandler(NewVerifier(secret), router, replier, opts...)
	require.NoError(t, err)

	engine := gin.New()
	engine.POST("/webhook", h.Handle)

	return &testEnv{handler: h, router: fr, replier: replier, metrics: m, engine: engine}
}

// post sends body signed with secret and waits for async processing.
func (e *testEnv) post(t *testing.T, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.handler.Shutdown(ctx))
	return w
}

func textEvent(token, text string) string {
	return fmt.Sprintf(`{"type":"message","mode":"active","timestamp":1700000000000,"source":{"type":"user","userId":"U1"},"webhookEventId":"EV-%s","deliveryContext":{"isRedelivery":false},"replyToken":%q,"message":{"type":"text","id":"1","quoteToken":"q","text":%q}}`, token, token, text)
}

func postbackEvent(token, data string) string {
	return fmt.Sprintf(`{"type":"postback","mode":"active","timestamp":1700000000000,"source":{"type":"user","userId":"U1"},"webhookEventId":"EV-%s","deliveryContext":{"isRedelivery":false},"replyToken":%q,"postback":{"data":%q}}`, token, token, data)
}

func batch(events ...string) string {
	return `{"destination":"Ubot","events":[` + strings.Join(events, ",") + `]}`
}

func TestHandle_ValidSignature(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	body := batch(textEvent("rt-1", "beer"))

	w := env.post(t, body, sign(testSecret, []byte(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	routed := env.router.routed()
	require.Len(t, routed, 1)
	assert.Equal(t, bot.TextEvent{Source: bot.Source{ReplyToken: "rt-1", UserID: "U1"}, Text: "beer"}, routed[0])

	sent := env.replier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "rt-1", sent[0].token)
	require.Len(t, sent[0].messages, 1)
	assert.Equal(t, "echo: beer", sent[0].messages[0].(*messaging_api.TextMessage).Text)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookRequestsTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.RepliesTotal.WithLabelValues("success")))
}

func TestHandle_InvalidSignatureRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	body := batch(textEvent("rt-1", "beer"))

	tests := []struct {
		name      string
		signature string
	}{
		{"missing", ""},
		{"wrong secret", sign("other-secret", []byte(body))},
		{"garbage", "not-a-signature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.post(t, body, tt.signature)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"invalid signature"}`, w.Body.String())
		})
	}

	assert.Empty(t, env.router.routed(), "no event may reach the router")
	assert.Empty(t, env.replier.sent())
	assert.Equal(t, 3.0, testutil.ToFloat64(env.metrics.WebhookRequestsTotal.WithLabelValues("invalid_signature")))
}

func TestHandle_TamperedBodyRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	body := batch(textEvent("rt-1", "beer"))
	sig := sign(testSecret, []byte(body))

	w := env.post(t, strings.Replace(body, "beer", "size", 1), sig)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.router.routed())
}

func TestHandle_EmptySecretBypasses(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "", &fakeRouter{})
	body := batch(textEvent("rt-1", "beer"))

	w := env.post(t, body, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.router.routed(), 1)
}

func TestHandle_MalformedBodyAcknowledged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	body := `{"events": [ not json`

	w := env.post(t, body, sign(testSecret, []byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.router.routed())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookRequestsTotal.WithLabelValues("malformed")))
}

func TestHandle_BodyTooLarge(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	body := `{"events":[],"pad":"` + strings.Repeat("x", 2<<20) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set(SignatureHeader, sign(testSecret, []byte(body)))
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, env.router.routed())
}

func TestHandle_OneFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	body := batch(
		textEvent("rt-1", "panic"),
		textEvent("rt-2", "beer"),
		textEvent("", "staff"),
		textEvent("rt-4", "silent"),
		`{"type":"follow","mode":"active","timestamp":1,"source":{"type":"user","userId":"U1"},"webhookEventId":"EV-f","deliveryContext":{"isRedelivery":false},"replyToken":"rt-5","follow":{"isUnblocked":false}}`,
		textEvent("rt-6", "size"),
	)

	w := env.post(t, body, sign(testSecret, []byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)

	var tokens []string
	for _, r := range env.replier.sent() {
		tokens = append(tokens, r.token)
	}
	assert.Equal(t, []string{"rt-2", "rt-6"}, tokens)

	// The empty-token event and the follow event never reach the router.
	assert.Len(t, env.router.routed(), 4)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "panic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "skipped")))
}

func TestHandle_ReplyFailureStillAcknowledged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, &fakeRouter{})
	env.replier.err = errors.New("unexpected status code: 500")
	body := batch(textEvent("rt-1", "beer"), textEvent("rt-2", "size"))

	w := env.post(t, body, sign(testSecret, []byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.replier.sent(), 2, "a failed reply is not retried and does not stop the batch")
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.RepliesTotal.WithLabelValues("error")))
}

func TestHandle_Concurrency(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	router := &fakeRouter{}
	replier := &fakeReplier{}
	h, err := NewHandler(NewVerifier(""), router, replier, WithConcurrency(4), WithLogger(logger.New("error")))
	require.NoError(t, err)

	events := make([]string, 10)
	for i := range events {
		events[i] = textEvent(fmt.Sprintf("rt-%d", i), "beer")
	}
	engine := gin.New()
	engine.POST("/webhook", h.Handle)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(batch(events...)))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.NoError(t, h.Shutdown(context.Background()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, replier.sent(), 10)
}

type stubMenu struct{}

func (stubMenu) FetchMenu(context.Context) fetcher.Result[beer.Record] {
	return fetcher.OK("stub", []beer.Record{{Name: "IPA X"}})
}

type stubStore struct {
	saved []beer.SaveRequest
	mu    sync.Mutex
}

func (s *stubStore) FetchSaved(context.Context, string) fetcher.Result[beer.Saved] {
	return fetcher.Empty[beer.Saved]("stub")
}

func (s *stubStore) Save(_ context.Context, userID string, p beer.SavePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, p.SaveRequest(userID))
	return nil
}

func newBotRouter(t *testing.T, store *stubStore) *bot.Router {
	t.Helper()
	r, err := bot.NewRouter(bot.DefaultTriggers(), bot.Deps{
		Menu:   stubMenu{},
		Store:  store,
		Cards:  cards.NewBuilder(data.Default(), 40),
		Logger: logger.New("error"),
	})
	require.NoError(t, err)
	return r
}

func TestHandle_MalformedPostbackNoReply(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	env := newTestEnv(t, testSecret, newBotRouter(t, store))
	body := batch(postbackEvent("rt-1", "definitely not json"))

	w := env.post(t, body, sign(testSecret, []byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.replier.sent())
	assert.Empty(t, store.saved)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("postback", "no_reply")))
}

func TestHandle_SavePostback(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	env := newTestEnv(t, testSecret, newBotRouter(t, store))
	body := batch(postbackEvent("rt-1", `{"action":"save_beer","name":"IPA X","brewery":"B","style":"IPA","abv":"6%","rating":"3.9"}`))

	w := env.post(t, body, sign(testSecret, []byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)

	sent := env.replier.sent()
	require.Len(t, sent, 1)
	text, ok := sent[0].messages[0].(*messaging_api.TextMessage)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Saved 'IPA X'")
	require.Len(t, store.saved, 1)
	assert.Equal(t, "U1", store.saved[0].UserID)
}

func TestHandle_MenuThroughBotRouter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testSecret, newBotRouter(t, &stubStore{}))
	body := batch(textEvent("rt-1", "ＢＥＥＲ"))

	env.post(t, body, sign(testSecret, []byte(body)))

	sent := env.replier.sent()
	require.Len(t, sent, 1)
	fm, ok := sent[0].messages[0].(*messaging_api.FlexMessage)
	require.True(t, ok)
	assert.Equal(t, cards.AltBeerMenu, fm.AltText)
}

func TestNewHandler_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewHandler(nil, &fakeRouter{}, &fakeReplier{})
	assert.Error(t, err)
	_, err = NewHandler(NewVerifier("s"), nil, &fakeReplier{})
	assert.Error(t, err)
	_, err = NewHandler(NewVerifier("s"), &fakeRouter{}, nil)
	assert.Error(t, err)
}

func TestHandle_UserRateLimited(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New(ratelimit.Config{Burst: 2, RefillRate: 0})
	t.Cleanup(limiter.Stop)

	env := newTestEnv(t, testSecret, &fakeRouter{}, WithUserLimiter(limiter))
	body := batch(textEvent("rt-1", "beer"), textEvent("rt-2", "size"), textEvent("rt-3", "staff"))

	w := env.post(t, body, sign(testSecret, []byte(body)))
	require.Equal(t, http.StatusOK, w.Code)

	sent := env.replier.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "rt-1", sent[0].token)
	assert.Equal(t, "rt-2", sent[1].token)
	assert.Len(t, env.router.routed(), 2, "limited events never reach the router")
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "rate_limited")))
}
