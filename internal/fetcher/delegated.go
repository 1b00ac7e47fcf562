package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
)

// DelegatedName is the strategy name of the delegated beer service.
const DelegatedName = "delegated"

// DelegatedClient talks to the delegated scrape/storage service:
//
//	GET  /                 menu records
//	GET  /mybeers/{userId} saved beers
//	POST /save             save one beer
type DelegatedClient struct {
	baseURL string
	client  *scraper.Client
}

// NewDelegatedClient creates a client for the service at baseURL.
func NewDelegatedClient(baseURL string, client *scraper.Client) *DelegatedClient {
	return &DelegatedClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Name implements MenuStrategy.
func (d *DelegatedClient) Name() string { return DelegatedName }

// FetchMenu implements MenuStrategy.
func (d *DelegatedClient) FetchMenu(ctx context.Context) ([]beer.Record, error) {
	var records []beer.Record
	if err := d.client.GetJSON(ctx, d.baseURL+"/", &records); err != nil {
		return nil, tagStrategy(DelegatedName, err)
	}

	named := records[:0]
	for _, r := range records {
		if r.HasName() {
			named = append(named, r)
		}
	}
	if len(named) == 0 {
		return nil, apperrors.ErrEmptyResult
	}
	return named, nil
}

// FetchSaved returns the user's saved beers.
func (d *DelegatedClient) FetchSaved(ctx context.Context, userID string) Result[beer.Saved] {
	if userID == "" {
		return Failed[beer.Saved](DelegatedName, apperrors.NewValidationError("user_id", "required"))
	}

	var saved []beer.Saved
	endpoint := d.baseURL + "/mybeers/" + url.PathEscape(userID)
	if err := d.client.GetJSON(ctx, endpoint, &saved); err != nil {
		return Failed[beer.Saved](DelegatedName, tagStrategy(DelegatedName, err))
	}
	return OK(DelegatedName, saved)
}

// Save stores one beer in the user's list. Any 2xx response is success.
func (d *DelegatedClient) Save(ctx context.Context, userID string, payload beer.SavePayload) error {
	if userID == "" {
		return apperrors.NewValidationError("user_id", "required")
	}
	if strings.TrimSpace(payload.Name) == "" {
		return apperrors.NewValidationError("name", "required")
	}
	if err := d.client.PostJSON(ctx, d.baseURL+"/save", payload.SaveRequest(userID)); err != nil {
		return tagStrategy(DelegatedName, err)
	}
	return nil
}

// tagStrategy records which strategy issued a failed request.
func tagStrategy(name string, err error) error {
	var fe *apperrors.FetchError
	if errors.As(err, &fe) && fe.Strategy == "" {
		fe.Strategy = name
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}
