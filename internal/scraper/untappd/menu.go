// Package untappd parses the public venue menu page.
package untappd

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
)

const (
	// Marker is the class every menu page carries around its beer list.
	Marker = "menu-section-list"

	baseURL = "https://untappd.com"
)

var (
	ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
	abvPattern    = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*%\s*ABV`)
)

// ParseMenu parses a raw menu page. Items without a name are dropped; any
// other missing element leaves its field empty.
func ParseMenu(page []byte) ([]beer.Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return ParseDocument(doc), nil
}

// ParseDocument extracts beer records from a parsed menu page.
func ParseDocument(doc *goquery.Document) []beer.Record {
	records := make([]beer.Record, 0)
	doc.Find(".menu-section-list li").Each(func(_ int, item *goquery.Selection) {
		if rec, ok := parseItem(item); ok {
			records = append(records, rec)
		}
	})
	return records
}

func parseItem(item *goquery.Selection) (beer.Record, bool) {
	link := item.Find(".track-click").First()
	if link.Length() == 0 {
		return beer.Record{}, false
	}

	name := ordinalPrefix.ReplaceAllString(strings.TrimSpace(link.Text()), "")
	if name == "" {
		return beer.Record{}, false
	}

	rec := beer.Record{
		Name:    name,
		CheckIn: checkInURL(link.AttrOr("href", "")),
		Brewery: strings.TrimSpace(item.Find("h6 a").First().Text()),
		Style:   strings.TrimSpace(item.Find("h5 em").First().Text()),
		ABV:     beer.Text(parseABV(item.Find("h6 span").First().Text())),
		Label:   strings.TrimSpace(item.Find("div.beer-label img").First().AttrOr("src", "")),
		Rating:  beer.Text(parseRating(item.Find("div.caps.small").First().AttrOr("data-rating", ""))),
	}
	return rec, true
}

func checkInURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	default:
		return baseURL + href
	}
}

// parseABV prefers an "N% ABV" match and falls back to the first line.
func parseABV(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := abvPattern.FindString(raw); m != "" {
		return m
	}
	first, _, _ := strings.Cut(raw, "\n")
	return strings.TrimSpace(first)
}

// parseRating rounds numeric ratings to two decimals and keeps anything else verbatim.
func parseRating(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return raw
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
