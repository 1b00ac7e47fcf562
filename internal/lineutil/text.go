package lineutil

import (
	"strings"
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const ellipsis = "..."

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// CollapseLineBreaks replaces every CR and LF with a space, keeping the rune count.
func CollapseLineBreaks(text string) string {
	return lineBreaks.Replace(text)
}

// TruncateLabel collapses line breaks and truncates text to limit runes.
// Longer text is cut so that the result, including the trailing "...",
// is exactly limit runes long.
func TruncateLabel(text string, limit int) string {
	return TruncateRunes(CollapseLineBreaks(text), limit)
}

// TruncateRunes truncates text by rune count (not byte count) to properly handle UTF-8.
// Returns truncated string with "..." if exceeds maxRunes.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	if maxRunes <= len(ellipsis) {
		return ellipsis[:maxRunes]
	}
	runes := []rune(text)
	return string(runes[:maxRunes-len(ellipsis)]) + ellipsis
}

// NewTextMessage creates a simple text message.
// LINE API limits: max 5000 characters per text message
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: TruncateRunes(text, MaxTextMessageLength),
	}
}

// NewPostbackActionWithDisplayText creates a postback action with custom display text.
// The label is displayed on the button, displayText is shown when clicked, data is sent as postback.
func NewPostbackActionWithDisplayText(label, displayText, data string) *messaging_api.PostbackAction {
	return &messaging_api.PostbackAction{
		Label:       TruncateRunes(label, MaxActionLabel),
		DisplayText: TruncateRunes(displayText, MaxDisplayText),
		Data:        data,
	}
}

// NewURIAction creates a URI action that opens a URL when clicked.
func NewURIAction(label, uri string) *messaging_api.UriAction {
	return &messaging_api.UriAction{
		Label: TruncateRunes(label, MaxActionLabel),
		Uri:   uri,
	}
}
