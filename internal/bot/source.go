package bot

import "github.com/line/line-bot-sdk-go/v8/linebot/webhook"

// Source identifies where an event came from and how to answer it.
type Source struct {
	ReplyToken string
	UserID     string
}

// Event is an inbound event the router understands. The set of
// implementations is closed: TextEvent and PostbackEvent.
type Event interface {
	// Kind names the event type for logs and metrics.
	Kind() string
	// Origin returns the reply token and user.
	Origin() Source

	sealed()
}

// TextEvent is a text message from a user.
type TextEvent struct {
	Source
	Text string
}

// PostbackEvent is a button press carrying app-defined data.
type PostbackEvent struct {
	Source
	Data string
}

func (TextEvent) Kind() string { return "text" }
func (e TextEvent) Origin() Source { return e.Source }
func (TextEvent) sealed() {}
func (PostbackEvent) Kind() string { return "postback" }
func (e PostbackEvent) Origin() Source { return e.Source }
func (PostbackEvent) sealed() {}

// FromWebhook converts a decoded LINE event into a router event. It reports
// false for event and message types the bot does not handle.
func FromWebhook(event webhook.EventInterface) (Event, bool) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			return nil, false
		}
		return TextEvent{
			Source: Source{ReplyToken: e.ReplyToken, UserID: GetUserID(e.Source)},
			Text:   msg.Text,
		}, true
	case webhook.PostbackEvent:
		if e.Postback == nil {
			return nil, false
		}
		return PostbackEvent{
			Source: Source{ReplyToken: e.ReplyToken, UserID: GetUserID(e.Source)},
			Data:   e.Postback.Data,
		}, true
	}
	return nil, false
}

// GetUserID extracts the user ID from a LINE source.
// Returns the user ID regardless of chat type (personal, group, or room).
// Returns empty string if source type is unknown or user ID is not available.
func GetUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}
