package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/config"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
)

// MenuStrategy is one way of obtaining the venue menu.
type MenuStrategy interface {
	Name() string
	// FetchMenu returns a non-empty record list or an error.
	// apperrors.ErrEmptyResult means the source answered with no beers.
	FetchMenu(ctx context.Context) ([]beer.Record, error)
}

// Fetcher tries menu strategies in order until one yields records.
// There is no retry, backoff or caching.
type Fetcher struct {
	strategies []MenuStrategy
	timeout    time.Duration
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

// New creates a Fetcher. Each strategy attempt is bounded by timeout.
// m may be nil.
func New(strategies []MenuStrategy, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Fetcher {
	return &Fetcher{
		strategies: strategies,
		timeout:    timeout,
		logger:     log.WithModule("fetcher"),
		metrics:    m,
	}
}

// Strategies returns the strategy names in the order they are tried.
func (f *Fetcher) Strategies() []string {
	names := make([]string, len(f.strategies))
	for i, s := range f.strategies {
		names[i] = s.Name()
	}
	return names
}

// FetchMenu returns the first non-empty menu. When every strategy fails the
// result is StatusError; when at least one answered with no beers it is
// StatusEmpty.
func (f *Fetcher) FetchMenu(ctx context.Context) Result[beer.Record] {
	result := f.fetchMenu(ctx)
	if f.metrics != nil {
		f.metrics.RecordMenuResult(result.Status.String())
	}
	return result
}

func (f *Fetcher) fetchMenu(ctx context.Context) Result[beer.Record] {
	if len(f.strategies) == 0 {
		return Failed[beer.Record]("", fmt.Errorf("no menu strategies configured: %w", apperrors.ErrNotConfigured))
	}

	var errs []error
	answeredEmpty := ""

	for _, s := range f.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		records, err := f.attempt(ctx, s)
		switch {
		case err == nil:
			f.logger.WithField("strategy", s.Name()).
				WithField("count", len(records)).
				InfoContext(ctx, "Menu fetched")
			return OK(s.Name(), records)
		case errors.Is(err, apperrors.ErrEmptyResult):
			if answeredEmpty == "" {
				answeredEmpty = s.Name()
			}
			f.logger.WithField("strategy", s.Name()).DebugContext(ctx, "Strategy returned no beers")
		default:
			errs = append(errs, err)
			f.logger.WithField("strategy", s.Name()).WithError(err).WarnContext(ctx, "Strategy failed")
		}
	}

	if answeredEmpty != "" {
		return Empty[beer.Record](answeredEmpty)
	}
	return Failed[beer.Record]("", errors.Join(errs...))
}

func (f *Fetcher) attempt(ctx context.Context, s MenuStrategy) ([]beer.Record, error) {
	sctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	records, err := s.FetchMenu(sctx)
	if err == nil && len(records) == 0 {
		err = apperrors.ErrEmptyResult
	}

	if f.metrics != nil {
		status := StatusOK
		switch {
		case errors.Is(err, apperrors.ErrEmptyResult):
			status = StatusEmpty
		case err != nil:
			status = StatusError
		}
		f.metrics.RecordFetch(s.Name(), status.String(), time.Since(start).Seconds())
	}
	return records, err
}

// DefaultStrategies builds the configured strategy chain: the delegated
// service first when configured, then the direct page fetches and relays.
func DefaultStrategies(cfg *config.Config, client *scraper.Client) []MenuStrategy {
	var strategies []MenuStrategy
	if cfg.ScraperServiceURL != "" {
		strategies = append(strategies, NewDelegatedClient(cfg.ScraperServiceURL, client))
	}
	return append(strategies, PageStrategies(cfg.VenueURL, cfg.MenuMarker, cfg.MenuRelayURLs, client)...)
}
