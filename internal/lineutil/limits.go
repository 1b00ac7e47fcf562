package lineutil

// LINE API limits (rune count unless noted).
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength = 5000 // Text message max content length
	MaxAltTextLength     = 400  // Flex message alt text length
	MaxPostbackData      = 300  // Postback action data length (bytes)
	MaxActionLabel       = 20   // Action label length
	MaxDisplayText       = 300  // Postback display text length

	// MaxFlexCarouselBubbleCount is the max bubbles in a Flex carousel.
	MaxFlexCarouselBubbleCount = 12
)

// DefaultLabelLimit is the character budget for free text placed in
// fixed-width card elements.
const DefaultLabelLimit = 40
