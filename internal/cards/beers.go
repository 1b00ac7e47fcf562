package cards

import (
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/lineutil"
)

// BeerCarousel builds the menu carousel, one kilo bubble per beer (at most
// MaxBeerBubbles). It returns nil for an empty menu so no empty carousel is
// ever sent.
func (b *Builder) BeerCarousel(records []beer.Record) messaging_api.MessageInterface {
	bubbles := make([]messaging_api.FlexBubble, 0, min(len(records), MaxBeerBubbles))
	for _, r := range records {
		if len(bubbles) == MaxBeerBubbles {
			break
		}
		bubbles = append(bubbles, *b.beerBubble(r).FlexBubble)
	}
	return carousel(AltBeerMenu, bubbles)
}

// beerBubble creates the card for one menu beer.
//
// Layout:
//
//	┌──────────────────────────┐
//	│       [label image]      │  <- hero, omitted without a label
//	├──────────────────────────┤
//	│ Beer Name                │
//	│ Brewery                  │  <- grey
//	│ Style                    │
//	│ ABV: 6.5%                │
//	│ Rating: 3.88             │
//	│  [Check-in on Untappd]   │
//	├──────────────────────────┤
//	│  [⭐ Save to My List]    │  <- postback carrying the beer
//	└──────────────────────────┘
func (b *Builder) beerBubble(r beer.Record) *lineutil.FlexBubble {
	name := r.Name
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}

	hero := lineutil.NewFlexImage(httpsOnly(r.Label)).
		WithSize("full").
		WithAspectMode("cover").
		Component()

	body := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexText(b.label(name)).WithWeight("bold").WithSize("lg").WithWrap(true).Component(),
		lineutil.NewFlexText(b.label(r.Brewery)).WithWrap(true).WithColor(lineutil.ColorBrewery).WithSize("md").Component(),
		lineutil.NewFlexText(b.label(r.Style)).WithSize("md").WithWrap(true).Component(),
		lineutil.NewFlexText("ABV: "+b.label(r.ABV.String())).WithSize("xs").FlexText,
		lineutil.NewFlexText("Rating: "+b.label(r.Rating.String())).WithSize("xs").WithColor(lineutil.ColorBrewery).FlexText,
		lineutil.NewFlexButton(lineutil.NewURIAction("Check-in on Untappd", checkInURL(r.CheckIn))).
			WithHeight("sm").
			FlexButton,
	).WithSpacing("sm").WithPaddingAll("13px")

	save := lineutil.NewFlexButton(
		lineutil.NewPostbackActionWithDisplayText(
			"⭐ Save to My List",
			"Saving "+lineutil.TruncateLabel(name, displayNameLimit)+"...",
			EncodeSavePayload(beer.PayloadFor(r)),
		),
	).WithStyle("primary").WithColor(lineutil.ColorGold).WithHeight("sm")

	footer := lineutil.NewFlexBox("vertical", save.FlexButton)

	return lineutil.NewFlexBubble(nil, hero, body, footer).WithSize("kilo")
}

// SavedCarousel builds the saved-beers carousel (at most MaxSavedBubbles).
// It returns nil for an empty list.
func (b *Builder) SavedCarousel(saved []beer.Saved) messaging_api.MessageInterface {
	bubbles := make([]messaging_api.FlexBubble, 0, min(len(saved), MaxSavedBubbles))
	for _, s := range saved {
		if len(bubbles) == MaxSavedBubbles {
			break
		}
		bubbles = append(bubbles, *b.savedBubble(s).FlexBubble)
	}
	return carousel(AltSavedBeers, bubbles)
}

func (b *Builder) savedBubble(s beer.Saved) *lineutil.FlexBubble {
	name := s.BeerName
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}

	var stats []string
	if abv := s.ABV.String(); abv != "" {
		stats = append(stats, "ABV: "+abv)
	}
	if rating := s.Rating.String(); rating != "" {
		stats = append(stats, "Rating: "+rating)
	}

	var savedAt string
	if s.SavedAt != "" {
		savedAt = "Saved: " + firstRunes(s.SavedAt, 10)
	}

	body := lineutil.NewFlexBox("vertical",
		lineutil.NewFlexText(b.label(name)).WithWeight("bold").WithSize("lg").WithWrap(true).Component(),
		lineutil.NewFlexText(b.label(s.Brewery)).WithWrap(true).WithColor(lineutil.ColorBrewery).WithSize("md").Component(),
		lineutil.NewFlexText(b.label(s.Style)).WithSize("sm").WithColor(lineutil.ColorSubtext).WithWrap(true).Component(),
		lineutil.NewFlexText(b.label(strings.Join(stats, " | "))).WithSize("xs").Component(),
		lineutil.NewFlexText(savedAt).WithSize("xxs").WithColor(lineutil.ColorTimestamp).WithMargin("md").Component(),
	).WithSpacing("sm").WithPaddingAll("13px")

	return lineutil.NewFlexBubble(nil, nil, body, nil).WithSize("kilo")
}

func checkInURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://") {
		return raw
	}
	return defaultCheckInURL
}

// httpsOnly drops image URLs LINE would reject.
func httpsOnly(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "https://") {
		return raw
	}
	return ""
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
