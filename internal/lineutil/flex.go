package lineutil

import (
	"math"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// FlexBubble wrapper
type FlexBubble struct {
	*messaging_api.FlexBubble
}

// NewFlexBubble creates a new Flex Bubble container
// Note: header, body, footer must be FlexBox or nil
func NewFlexBubble(header *FlexBox, hero messaging_api.FlexComponentInterface, body *FlexBox, footer *FlexBox) *FlexBubble {
	bubble := &messaging_api.FlexBubble{}
	if header != nil {
		bubble.Header = header.FlexBox
	}
	if hero != nil {
		bubble.Hero = hero
	}
	if body != nil {
		bubble.Body = body.FlexBox
	}
	if footer != nil {
		bubble.Footer = footer.FlexBox
	}
	return &FlexBubble{bubble}
}

// WithSize sets the bubble size (nano/micro/deca/hecto/kilo/mega/giga).
func (b *FlexBubble) WithSize(size string) *FlexBubble {
	b.Size = messaging_api.FlexBubbleSIZE(size)
	return b
}

// WithBlockBackgrounds sets background colors of the header, hero, body and
// footer blocks. Empty colors leave a block unstyled.
func (b *FlexBubble) WithBlockBackgrounds(header, hero, body, footer string) *FlexBubble {
	style := func(color string) *messaging_api.FlexBlockStyle {
		if color == "" {
			return nil
		}
		return &messaging_api.FlexBlockStyle{BackgroundColor: color}
	}
	b.Styles = &messaging_api.FlexBubbleStyles{
		Header: style(header),
		Hero:   style(hero),
		Body:   style(body),
		Footer: style(footer),
	}
	return b
}

// NewFlexCarousel creates a Flex Carousel from bubbles, keeping at most
// MaxFlexCarouselBubbleCount of them. It returns nil for no bubbles.
func NewFlexCarousel(bubbles []messaging_api.FlexBubble) *messaging_api.FlexCarousel {
	if len(bubbles) == 0 {
		return nil
	}
	if len(bubbles) > MaxFlexCarouselBubbleCount {
		bubbles = bubbles[:MaxFlexCarouselBubbleCount]
	}
	return &messaging_api.FlexCarousel{
		Contents: bubbles,
	}
}

// NewFlexMessage creates a flex message with the given alt text and flex container.
func NewFlexMessage(altText string, contents messaging_api.FlexContainerInterface) *messaging_api.FlexMessage {
	return &messaging_api.FlexMessage{
		AltText:  TruncateRunes(altText, MaxAltTextLength),
		Contents: contents,
	}
}

// FlexBox wrapper for messaging_api.FlexBox with fluent API.
type FlexBox struct {
	*messaging_api.FlexBox
}

// NewFlexBox creates a new FlexBox with the specified layout and contents.
// Nil components are skipped so optional parts can be passed inline.
func NewFlexBox(layout string, contents ...messaging_api.FlexComponentInterface) *FlexBox {
	kept := make([]messaging_api.FlexComponentInterface, 0, len(contents))
	for _, c := range contents {
		if !isNilComponent(c) {
			kept = append(kept, c)
		}
	}
	return &FlexBox{&messaging_api.FlexBox{
		Layout:   messaging_api.FlexBoxLAYOUT(layout),
		Contents: kept,
	}}
}

func isNilComponent(c messaging_api.FlexComponentInterface) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *messaging_api.FlexText:
		return v == nil
	case *messaging_api.FlexImage:
		return v == nil
	case *messaging_api.FlexBox:
		return v == nil
	case *messaging_api.FlexButton:
		return v == nil
	case *messaging_api.FlexSeparator:
		return v == nil
	}
	return false
}

// WithSpacing sets the spacing between components.
func (b *FlexBox) WithSpacing(spacing string) *FlexBox {
	b.Spacing = spacing
	return b
}

// WithMargin sets the margin of the box.
func (b *FlexBox) WithMargin(margin string) *FlexBox {
	b.Margin = margin
	return b
}

// WithPaddingAll sets the padding for all sides of the box.
func (b *FlexBox) WithPaddingAll(padding string) *FlexBox {
	b.PaddingAll = padding
	return b
}

// WithBackgroundColor sets the background color of the box.
func (b *FlexBox) WithBackgroundColor(color string) *FlexBox {
	b.BackgroundColor = color
	return b
}

// WithCornerRadius sets the corner radius of the box.
func (b *FlexBox) WithCornerRadius(radius string) *FlexBox {
	b.CornerRadius = radius
	return b
}

// WithAction makes the whole box tappable.
func (b *FlexBox) WithAction(action messaging_api.ActionInterface) *FlexBox {
	b.Action = action
	return b
}

// FlexText wrapper for messaging_api.FlexText with fluent API.
type FlexText struct {
	*messaging_api.FlexText
}

// NewFlexText creates a new FlexText with the specified text.
func NewFlexText(text string) *FlexText {
	return &FlexText{&messaging_api.FlexText{
		Text: text,
	}}
}

// Component returns the underlying component, or nil when the text is
// empty (LINE rejects empty text components).
func (t *FlexText) Component() messaging_api.FlexComponentInterface {
	if t == nil || t.Text == "" {
		return nil
	}
	return t.FlexText
}

// WithWeight sets the font weight (regular/bold).
func (t *FlexText) WithWeight(weight string) *FlexText {
	t.Weight = messaging_api.FlexTextWEIGHT(weight)
	return t
}

// WithSize sets the font size.
func (t *FlexText) WithSize(size string) *FlexText {
	t.Size = size
	return t
}

// WithColor sets the text color.
func (t *FlexText) WithColor(color string) *FlexText {
	t.Color = color
	return t
}

// WithWrap enables or disables text wrapping.
func (t *FlexText) WithWrap(wrap bool) *FlexText {
	t.Wrap = wrap
	return t
}

// WithFlex sets the flex factor for the text component.
func (t *FlexText) WithFlex(flex int) *FlexText {
	if flex < 0 {
		flex = 0
	}
	// Clamp to int32 range to prevent overflow
	if flex > math.MaxInt32 {
		flex = math.MaxInt32
	}
	t.Flex = int32(flex)
	return t
}

// WithAlign sets the text alignment (start/end/center).
func (t *FlexText) WithAlign(align string) *FlexText {
	t.Align = messaging_api.FlexTextALIGN(align)
	return t
}

// WithMargin sets the margin of the text component.
func (t *FlexText) WithMargin(margin string) *FlexText {
	t.Margin = margin
	return t
}

// WithAction makes the text tappable.
func (t *FlexText) WithAction(action messaging_api.ActionInterface) *FlexText {
	t.Action = action
	return t
}

// FlexImage wrapper for messaging_api.FlexImage with fluent API.
type FlexImage struct {
	*messaging_api.FlexImage
}

// NewFlexImage creates a new FlexImage for url.
func NewFlexImage(url string) *FlexImage {
	return &FlexImage{&messaging_api.FlexImage{
		Url: url,
	}}
}

// Component returns the underlying component, or nil when the URL is empty.
func (i *FlexImage) Component() messaging_api.FlexComponentInterface {
	if i == nil || i.Url == "" {
		return nil
	}
	return i.FlexImage
}

// WithSize sets the image width (keyword or px/% value).
func (i *FlexImage) WithSize(size string) *FlexImage {
	i.Size = size
	return i
}

// WithAspectMode sets cover or fit.
func (i *FlexImage) WithAspectMode(mode string) *FlexImage {
	i.AspectMode = messaging_api.FlexImageASPECT_MODE(mode)
	return i
}

// WithAspectRatio sets the width:height ratio, e.g. "1:1".
func (i *FlexImage) WithAspectRatio(ratio string) *FlexImage {
	i.AspectRatio = ratio
	return i
}

// WithMargin sets the margin of the image.
func (i *FlexImage) WithMargin(margin string) *FlexImage {
	i.Margin = margin
	return i
}

// WithBackgroundColor sets the image background.
func (i *FlexImage) WithBackgroundColor(color string) *FlexImage {
	i.BackgroundColor = color
	return i
}

// FlexButton wrapper for messaging_api.FlexButton with fluent API.
type FlexButton struct {
	*messaging_api.FlexButton
}

// NewFlexButton creates a new FlexButton with the specified action.
func NewFlexButton(action messaging_api.ActionInterface) *FlexButton {
	return &FlexButton{&messaging_api.FlexButton{
		Action: action,
	}}
}

// WithStyle sets the button style (link/primary/secondary).
func (b *FlexButton) WithStyle(style string) *FlexButton {
	b.Style = messaging_api.FlexButtonSTYLE(style)
	return b
}

// WithColor sets the button color.
func (b *FlexButton) WithColor(color string) *FlexButton {
	b.Color = color
	return b
}

// WithHeight sets the button height (sm/md).
func (b *FlexButton) WithHeight(height string) *FlexButton {
	b.Height = messaging_api.FlexButtonHEIGHT(height)
	return b
}

// WithMargin sets the margin of the button.
func (b *FlexButton) WithMargin(margin string) *FlexButton {
	b.Margin = margin
	return b
}

// FlexSeparator wrapper for messaging_api.FlexSeparator with fluent API.
type FlexSeparator struct {
	*messaging_api.FlexSeparator
}

// NewFlexSeparator creates a new FlexSeparator.
func NewFlexSeparator() *FlexSeparator {
	return &FlexSeparator{&messaging_api.FlexSeparator{}}
}

// WithMargin sets the margin of the separator.
func (s *FlexSeparator) WithMargin(margin string) *FlexSeparator {
	s.Margin = margin
	return s
}
