// Package cards turns beer records and reference data into LINE messages.
// Every builder is a pure function of its input: no I/O, no failure modes.
// Missing fields render as empty and empty components are omitted.
package cards

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/titansbeer/titans-linebot-go/internal/data"
	"github.com/titansbeer/titans-linebot-go/internal/lineutil"
)

// Alt texts.
const (
	AltBeerMenu   = "🍺 Drink like a Titan! Ciao"
	AltSizeChart  = "How thirsty are you today?"
	AltStaff      = "We are Titans!"
	AltHagehige   = "Hage & Hige!"
	AltSavedBeers = "⭐ Your Saved Beers"
)

// Reply texts.
const (
	TextNoSavedBeers    = "You haven't saved any beers yet!\n\nType 'beer' to see the menu and save your favorites."
	TextSavedLoadFailed = "Sorry, couldn't load your saved beers. Try again later."
	TextSaveFailed      = "Sorry, couldn't save the beer. Try again later."
)

// Carousel caps.
const (
	MaxBeerBubbles  = lineutil.MaxFlexCarouselBubbleCount
	MaxSavedBubbles = 10
)

const (
	defaultCheckInURL = "https://untappd.com"
	displayNameLimit  = 20
)

// Builder builds card messages. It is safe for concurrent use.
type Builder struct {
	ref        *data.Reference
	labelLimit int
}

// NewBuilder creates a Builder using ref for static cards and labelLimit as
// the character budget of free-text labels.
func NewBuilder(ref *data.Reference, labelLimit int) *Builder {
	if labelLimit <= 0 {
		labelLimit = lineutil.DefaultLabelLimit
	}
	return &Builder{ref: ref, labelLimit: labelLimit}
}

// label truncates free text for a fixed-width element.
func (b *Builder) label(text string) string {
	return lineutil.TruncateLabel(text, b.labelLimit)
}

// SaveSucceeded is the acknowledgment for a saved beer.
func (b *Builder) SaveSucceeded(name string) *messaging_api.TextMessage {
	return lineutil.NewTextMessage(fmt.Sprintf("⭐ Saved '%s' to your list!\n\nType 'my beers' to see your saved beers.", b.label(name)))
}

// Text wraps a fixed reply text.
func Text(text string) *messaging_api.TextMessage {
	return lineutil.NewTextMessage(text)
}

// carousel wraps bubbles into a flex message, or returns nil for none.
func carousel(altText string, bubbles []messaging_api.FlexBubble) messaging_api.MessageInterface {
	c := lineutil.NewFlexCarousel(bubbles)
	if c == nil {
		return nil
	}
	return lineutil.NewFlexMessage(altText, c)
}

// footerNote is the small grey line closing the static cards.
func footerNote(text, align string) *lineutil.FlexBox {
	note := lineutil.NewFlexText(text).WithSize("xs").WithColor(lineutil.ColorTimestamp)
	if align != "" {
		note.WithAlign(align)
	} else {
		note.WithFlex(0)
	}
	return lineutil.NewFlexBox("horizontal", note.FlexText).WithMargin("md")
}
