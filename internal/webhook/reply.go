package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Replier sends reply messages for a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error
}

const defaultEndpoint = "https://api.line.me"

// LineReplier sends replies through the LINE Messaging API.
type LineReplier struct {
	client *messaging_api.MessagingApiAPI
}

// NewLineReplier creates a reply client authenticated with the channel
// access token. Every call is bounded by timeout.
func NewLineReplier(channelToken, endpoint string, timeout time.Duration) (*LineReplier, error) {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	client, err := messaging_api.NewMessagingApiAPI(
		channelToken,
		messaging_api.WithEndpoint(endpoint),
		messaging_api.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return &LineReplier{client: client}, nil
}

// Reply posts messages to the reply endpoint. It does not retry: reply
// tokens are single use.
func (r *LineReplier) Reply(ctx context.Context, replyToken string, messages []messaging_api.MessageInterface) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("reply skipped: %w", err)
	}
	_, err := r.client.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// isInvalidReplyToken reports whether err is LINE rejecting a used or
// expired reply token.
func isInvalidReplyToken(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Invalid reply token")
}
