// Package main provides the LINE bot server entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/titansbeer/titans-linebot-go/internal/app"
	"github.com/titansbeer/titans-linebot-go/internal/buildinfo"
	"github.com/titansbeer/titans-linebot-go/internal/config"
	"github.com/titansbeer/titans-linebot-go/internal/sentry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		// Error tracking is optional; keep serving without it.
		_, _ = fmt.Fprintf(os.Stderr, "Sentry disabled: %v\n", err)
	}
	defer sentry.Flush(2 * time.Second)

	application, err := app.Initialize(context.Background(), cfg)
	if err != nil {
		sentry.CaptureException(err)
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		sentry.CaptureException(err)
		_, _ = fmt.Fprintf(os.Stderr, "Server stopped with error: %v\n", err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}
