package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReplier_Reply(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentMessages":[]}`))
	}))
	defer srv.Close()

	r, err := NewLineReplier("channel-token", srv.URL, 2*time.Second)
	require.NoError(t, err)

	err = r.Reply(context.Background(), "reply-token", []messaging_api.MessageInterface{
		&messaging_api.TextMessage{Text: "hello"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v2/bot/message/reply", gotPath)
	assert.Equal(t, "Bearer channel-token", gotAuth)
	assert.Equal(t, "reply-token", gotBody["replyToken"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].(map[string]any)["text"])
}

func TestLineReplier_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid reply token"}`))
	}))
	defer srv.Close()

	r, err := NewLineReplier("channel-token", srv.URL, 2*time.Second)
	require.NoError(t, err)

	err = r.Reply(context.Background(), "used-token", []messaging_api.MessageInterface{&messaging_api.TextMessage{Text: "x"}})
	require.Error(t, err)
	assert.True(t, isInvalidReplyToken(err))
}

func TestLineReplier_CanceledContext(t *testing.T) {
	t.Parallel()

	r, err := NewLineReplier("channel-token", "http://127.0.0.1:1", time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Reply(ctx, "tok", nil), context.Canceled)
}
