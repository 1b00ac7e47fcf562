// Package main runs the beer store service: the menu scraper and saved beer
// storage the bot delegates to.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/titansbeer/titans-linebot-go/internal/beerstore"
	"github.com/titansbeer/titans-linebot-go/internal/config"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
	"github.com/titansbeer/titans-linebot-go/internal/storage"
)

func main() {
	cfg, err := config.LoadForMode(config.StoreMode)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	}).WithField("service", "titans-beerstore")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Beer store stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(ctx, cfg.StoreDBPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", db.Path()).Info("Database connected")

	// The store is the delegated source itself, so only page strategies apply.
	client := scraper.NewClient(cfg.FetchTimeout)
	menu := fetcher.New(
		fetcher.PageStrategies(cfg.VenueURL, cfg.MenuMarker, cfg.MenuRelayURLs, client),
		cfg.FetchTimeout, log, nil)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	beerstore.New(db, menu, log).Register(router)
	router.GET("/livez", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})

	server := &http.Server{
		Addr:              ":" + cfg.StorePort,
		Handler:           router,
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.StorePort).Info("Starting beer store")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down beer store...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Beer store stopped")
	return nil
}
