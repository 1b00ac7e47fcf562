// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	"github.com/titansbeer/titans-linebot-go/internal/bot"
	"github.com/titansbeer/titans-linebot-go/internal/cards"
	"github.com/titansbeer/titans-linebot-go/internal/config"
	"github.com/titansbeer/titans-linebot-go/internal/data"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
	"github.com/titansbeer/titans-linebot-go/internal/logger"
	"github.com/titansbeer/titans-linebot-go/internal/metrics"
	"github.com/titansbeer/titans-linebot-go/internal/ratelimit"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
	"github.com/titansbeer/titans-linebot-go/internal/sentry"
	"github.com/titansbeer/titans-linebot-go/internal/webhook"
)

// scrapePreview is how many beers /test-scrape echoes back.
const scrapePreview = 3

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	menu           bot.MenuFetcher
	userLimiter    *ratelimit.UserLimiter
	webhookHandler *webhook.Handler
	server         *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "titans-linebot-go")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog calls then carry user, event and request IDs too.
	slog.SetDefault(log.Logger)

	log.InfoContext(ctx, "Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	menu, deps := newBotDeps(cfg, log, m)
	log.WithField("strategies", menu.Strategies()).
		WithField("event_budget", cfg.EventBudget().String()).
		Info("Menu fetcher ready")

	router, err := bot.NewRouter(bot.DefaultTriggers(), deps)
	if err != nil {
		return nil, fmt.Errorf("bot router: %w", err)
	}

	replier, err := webhook.NewLineReplier(cfg.LineChannelToken, cfg.LineAPIEndpoint, cfg.ReplyTimeout)
	if err != nil {
		return nil, fmt.Errorf("line client: %w", err)
	}

	userLimiter := ratelimit.New(ratelimit.Config{
		Burst:      cfg.UserRateBurst,
		RefillRate: cfg.UserRateRefill,
	})

	webhookHandler, err := webhook.NewHandler(
		webhook.NewVerifier(cfg.LineChannelSecret),
		router,
		replier,
		webhook.WithEventTimeout(cfg.EventTimeout),
		webhook.WithConcurrency(cfg.EventConcurrency),
		webhook.WithMetrics(m),
		webhook.WithLogger(log),
		webhook.WithUserLimiter(userLimiter),
	)
	if err != nil {
		userLimiter.Stop()
		return nil, fmt.Errorf("webhook: %w", err)
	}

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		menu:           menu,
		userLimiter:    userLimiter,
		webhookHandler: webhookHandler,
	}

	gin.SetMode(gin.ReleaseMode)
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// newBotDeps builds the menu fetcher and the command handler dependencies.
// Without a delegated service the menu comes from the page strategies only
// and saved beers are disabled.
func newBotDeps(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*fetcher.Fetcher, bot.Deps) {
	scraperClient := scraper.NewClient(cfg.FetchTimeout)
	menu := fetcher.New(fetcher.DefaultStrategies(cfg, scraperClient), cfg.FetchTimeout, log, m)

	deps := bot.Deps{
		Menu:    menu,
		Cards:   cards.NewBuilder(data.Load(cfg.ReferenceDataDir, log), cfg.LabelLimit),
		Logger:  log,
		Metrics: m,
	}
	if cfg.ScraperServiceURL != "" {
		deps.Store = fetcher.NewDelegatedClient(cfg.ScraperServiceURL, scraperClient)
	} else {
		log.Warn("Delegated service not configured, saved beers disabled")
	}
	return menu, deps
}

// routes builds the HTTP surface.
func (a *Application) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(a.logger))

	auth := metricsAuthMiddleware(a.cfg.MetricsAuthEnabled(), a.cfg.MetricsUsername, a.cfg.MetricsPassword)

	router.GET("/", a.status)
	router.HEAD("/", a.status)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.POST("/webhook", a.webhookHandler.Handle)
	router.GET("/test-scrape", auth, a.testScrape)
	router.GET("/metrics", auth, gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	return router
}

func (a *Application) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Titans Beers Bot is running!",
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// testScrape runs the menu pipeline once and reports what it produced.
func (a *Application) testScrape(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.DiagnosticScrape)
	defer cancel()
	result := a.menu.FetchMenu(ctx)

	preview := result.Items
	if len(preview) > scrapePreview {
		preview = preview[:scrapePreview]
	}
	if preview == nil {
		preview = []beer.Record{}
	}

	body := gin.H{
		"count":  len(result.Items),
		"status": result.Status.String(),
		"source": result.Source,
		"beers":  preview,
	}
	if result.Err != nil {
		a.logger.WithError(result.Err).WarnContext(ctx, "Test scrape failed")
		body["error"] = result.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts
// down gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	a.startHTTPServer(errCh)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-errCh:
		a.logger.WithError(err).Error("HTTP server error")
		_ = a.shutdown()
		return err
	}
	return a.shutdown()
}

// startHTTPServer starts the HTTP server in a goroutine.
func (a *Application) startHTTPServer(errCh chan<- error) {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

// shutdown stops accepting requests, then waits for webhook batches that were
// acknowledged but not yet replied to.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Waiting for webhook events to complete...")
	if err := a.webhookHandler.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
	}
	a.userLimiter.Stop()

	sentry.Flush(2 * time.Second)
	a.logger.Info("Shutdown complete")
	return nil
}
