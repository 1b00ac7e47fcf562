package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
	"github.com/titansbeer/titans-linebot-go/internal/scraper/untappd"
)

// PageStrategy fetches the venue page directly or through a relay and parses it.
type PageStrategy struct {
	name    string
	url     string
	headers func() http.Header
	marker  string
	client  *scraper.Client
}

// NewPageStrategy creates a page strategy. headers is called once per attempt.
func NewPageStrategy(name, pageURL string, headers func() http.Header, marker string, client *scraper.Client) *PageStrategy {
	return &PageStrategy{
		name:    name,
		url:     pageURL,
		headers: headers,
		marker:  marker,
		client:  client,
	}
}

// Name implements MenuStrategy.
func (p *PageStrategy) Name() string { return p.name }

// FetchMenu implements MenuStrategy.
func (p *PageStrategy) FetchMenu(ctx context.Context) ([]beer.Record, error) {
	var header http.Header
	if p.headers != nil {
		header = p.headers()
	}

	page, err := p.client.Get(ctx, p.url, header)
	if err != nil {
		return nil, tagStrategy(p.name, err)
	}
	if !bytes.Contains(page, []byte(p.marker)) {
		return nil, apperrors.NewFetchError(p.name, p.url, 0, apperrors.ErrMarkerNotFound)
	}

	records, err := untappd.ParseMenu(page)
	if err != nil {
		return nil, apperrors.NewFetchError(p.name, p.url, 0, err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrEmptyResult
	}
	return records, nil
}

// RelayURL builds the URL fetching target through a relay prefix.
func RelayURL(prefix, target string) string {
	return prefix + url.QueryEscape(target)
}

// PageStrategies returns the direct strategies followed by one per relay prefix.
func PageStrategies(venueURL, marker string, relays []string, client *scraper.Client) []MenuStrategy {
	strategies := []MenuStrategy{
		NewPageStrategy("direct-desktop", venueURL, scraper.DesktopHeaders, marker, client),
		NewPageStrategy("direct-rotating", venueURL, scraper.RotatingHeaders, marker, client),
	}
	for i, prefix := range relays {
		name := fmt.Sprintf("relay-%d", i+1)
		strategies = append(strategies, NewPageStrategy(name, RelayURL(prefix, venueURL), scraper.RotatingHeaders, marker, client))
	}
	return strategies
}
