// Package main probes every configured menu strategy once and reports which
// ones currently work. Useful when the venue page starts blocking requests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/titansbeer/titans-linebot-go/internal/config"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
)

// CLI flags
var (
	onlyFlag    = flag.String("only", "", "Comma-separated strategy names to probe (default: all)")
	workersFlag = flag.Int("workers", 4, "Strategies probed in parallel")
)

// probeResult is the outcome of one strategy.
type probeResult struct {
	strategy string
	count    int
	status   fetcher.Status
	err      error
	duration time.Duration
}

func main() {
	flag.Parse()

	// The probe never replies to LINE, so store-mode validation is enough.
	cfg, err := config.LoadForMode(config.StoreMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	strategies := selectStrategies(fetcher.DefaultStrategies(cfg, scraper.NewClient(cfg.FetchTimeout)), parseNames(*onlyFlag))
	if len(strategies) == 0 {
		fmt.Println("⏭️  No matching strategies, skipping")
		return
	}
	log.WithField("strategies", len(strategies)).Info("Probing menu strategies")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(len(strategies))*cfg.FetchTimeout)
	defer cancel()

	results := probe(ctx, strategies, cfg.FetchTimeout, *workersFlag)
	if !report(os.Stdout, results) {
		os.Exit(1)
	}
}

// probe runs every strategy once with a bounded worker pool. Results keep
// the strategy order.
func probe(ctx context.Context, strategies []fetcher.MenuStrategy, timeout time.Duration, workers int) []probeResult {
	results := make([]probeResult, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, s := range strategies {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			start := time.Now()
			records, err := s.FetchMenu(sctx)
			r := probeResult{strategy: s.Name(), count: len(records), err: err, duration: time.Since(start)}
			switch {
			case err == nil && len(records) > 0:
				r.status = fetcher.StatusOK
			case err == nil || errors.Is(err, apperrors.ErrEmptyResult):
				r.status = fetcher.StatusEmpty
			default:
				r.status = fetcher.StatusError
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// report prints one line per strategy and reports whether any produced beers.
func report(w io.Writer, results []probeResult) bool {
	working := 0
	for _, r := range results {
		status := "❌"
		switch r.status {
		case fetcher.StatusOK:
			status = "✅"
			working++
		case fetcher.StatusEmpty:
			status = "⚪"
		}
		line := fmt.Sprintf("%s %-16s %3d beers  %v", status, r.strategy, r.count, r.duration.Round(time.Millisecond))
		if r.err != nil && r.status == fetcher.StatusError {
			line += "  " + r.err.Error()
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintf(w, "\n📈 Summary: %d/%d strategies returned beers\n", working, len(results))
	return working > 0
}

// parseNames parses a comma-separated strategy list.
func parseNames(names string) []string {
	parts := strings.Split(names, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(strings.ToLower(part)); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// selectStrategies keeps the strategies named in only, or all when only is empty.
func selectStrategies(all []fetcher.MenuStrategy, only []string) []fetcher.MenuStrategy {
	if len(only) == 0 {
		return all
	}
	var out []fetcher.MenuStrategy
	for _, s := range all {
		for _, name := range only {
			if s.Name() == name {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
