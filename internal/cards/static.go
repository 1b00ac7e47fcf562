package cards

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/titansbeer/titans-linebot-go/internal/data"
	"github.com/titansbeer/titans-linebot-go/internal/lineutil"
)

const thanksNote = "Thanks for using me! Happy Friday"

// SizeChart builds the glass size chart bubble.
//
// Layout:
//
//	┌──────────────────────────────┐
//	│            [logo]            │
//	│  How thirsty are you today?  │
//	├──────────────────────────────┤
//	│  Small    Goblet    Titan    │
//	│  [img]  │ [img]  │  [img]    │
//	│  200ml    340ml     710ml    │
//	├──────────────────────────────┤
//	│ Thanks for using me! ...     │
//	└──────────────────────────────┘
func (b *Builder) SizeChart() messaging_api.MessageInterface {
	sizes := b.ref.Sizes()

	centered := func(text string) messaging_api.FlexComponentInterface {
		return lineutil.NewFlexText(text).WithAlign("center").FlexText
	}
	glass := func(url string) messaging_api.FlexComponentInterface {
		return lineutil.NewFlexImage(url).Component()
	}

	chart := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexBox("horizontal",
			centered("Small"),
			centered("Goblet"),
			centered("Titan"),
		).FlexBox,
		lineutil.NewFlexBox("horizontal",
			glass(sizes.Small),
			lineutil.NewFlexSeparator().WithMargin("sm").FlexSeparator,
			glass(sizes.Goblet),
			lineutil.NewFlexSeparator().WithMargin("sm").FlexSeparator,
			glass(sizes.Titan),
		).FlexBox,
		lineutil.NewFlexBox("horizontal",
			centered("200ml"),
			centered("340ml"),
			centered("710ml"),
		).FlexBox,
	).WithMargin("xxl").WithSpacing("sm")

	body := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexImage(data.TitansLogoURL).WithSize("xs").FlexImage,
		lineutil.NewFlexText(AltSizeChart).WithWeight("bold").WithSize("md").WithMargin("md").WithAlign("center").FlexText,
		lineutil.NewFlexSeparator().WithMargin("xxl").FlexSeparator,
		chart.FlexBox,
		lineutil.NewFlexSeparator().WithMargin("xxl").FlexSeparator,
		footerNote(thanksNote, "").FlexBox,
	)

	bubble := lineutil.NewFlexBubble(nil, nil, body, nil)
	return lineutil.NewFlexMessage(AltSizeChart, bubble.FlexBubble)
}

// StaffCarousel builds one bubble per staff member.
func (b *Builder) StaffCarousel() messaging_api.MessageInterface {
	staff := b.ref.Staff()
	bubbles := make([]messaging_api.FlexBubble, 0, len(staff))
	for _, s := range staff {
		bubbles = append(bubbles, *portraitBubble(s.Name, s.Image, "xxl", "20px", thanksNote, "").FlexBubble)
	}
	return carousel(AltStaff, bubbles)
}

// Profile builds the personal profile bubble for name. Unknown names get
// the default profile.
func (b *Builder) Profile(name string) messaging_api.MessageInterface {
	p := b.ref.Profile(name)
	bubble := portraitBubble(p.Name+p.Emoji, p.Image, "full", "400px", "Happy Friday", "center")
	return lineutil.NewFlexMessage(p.Name+"!", bubble.FlexBubble)
}

// portraitBubble is the logo, name, photo and footer note card shared by
// the staff roster and personal profiles.
func portraitBubble(title, image, imageSize, cornerRadius, note, noteAlign string) *lineutil.FlexBubble {
	photo := lineutil.NewFlexImage(image).WithSize(imageSize).WithAspectMode("cover").Component()

	body := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexImage(data.TitansLogoURL).WithSize("xs").FlexImage,
		lineutil.NewFlexText(title).WithWeight("bold").WithSize("md").WithMargin("md").WithAlign("center").Component(),
		photoBox(photo, cornerRadius),
		lineutil.NewFlexSeparator().WithMargin("xxl").FlexSeparator,
		footerNote(note, noteAlign).FlexBox,
	)
	return lineutil.NewFlexBubble(nil, nil, body, nil).WithSize("kilo")
}

func photoBox(photo messaging_api.FlexComponentInterface, cornerRadius string) messaging_api.FlexComponentInterface {
	if photo == nil {
		return nil
	}
	return lineutil.NewFlexBox("vertical", photo).
		WithMargin("xxl").
		WithSpacing("sm").
		WithCornerRadius(cornerRadius).
		FlexBox
}

// HagehigeCarousel builds the black-themed Hage & Hige lineup.
//
// Layout:
//
//	┌──────────────────────────┐
//	│      [brewery logo]      │  <- black header
//	│       [beer image]       │  <- black hero
//	│        Beer Name         │  <- white, bold
//	│         Untappd          │  <- red link
//	└──────────────────────────┘
func (b *Builder) HagehigeCarousel() messaging_api.MessageInterface {
	beers := b.ref.Hagehige()
	bubbles := make([]messaging_api.FlexBubble, 0, len(beers))
	for _, beer := range beers {
		bubbles = append(bubbles, *b.hagehigeBubble(beer).FlexBubble)
	}
	return carousel(AltHagehige, bubbles)
}

func (b *Builder) hagehigeBubble(beer data.HagehigeBeer) *lineutil.FlexBubble {
	header := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexImage(data.HagehigeLogoURL).WithSize("xs").WithBackgroundColor(lineutil.ColorBlack).FlexImage,
	)

	hero := lineutil.NewFlexImage(beer.Image).
		WithSize("4xl").
		WithAspectMode("fit").
		WithBackgroundColor(lineutil.ColorBlack).
		Component()

	body := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexText(b.label(beer.Name)).
			WithWeight("bold").
			WithSize("xl").
			WithWrap(true).
			WithColor(lineutil.ColorWhite).
			WithAlign("center").
			Component(),
	).WithBackgroundColor(lineutil.ColorBlack)

	link := lineutil.NewFlexText("Untappd").
		WithWeight("bold").
		WithColor(lineutil.ColorAlert).
		WithAlign("center").
		WithAction(lineutil.NewURIAction("Untappd", checkInURL(beer.UntappdURL)))

	footer := lineutil.NewFlexBox("vertical", link.FlexText).
		WithSpacing("sm").
		WithBackgroundColor(lineutil.ColorBlack)

	return lineutil.NewFlexBubble(header, hero, body, footer).
		WithBlockBackgrounds(lineutil.ColorBlack, lineutil.ColorBlack, "", "")
}
