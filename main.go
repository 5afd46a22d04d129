package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"salesdash/analytics"
	"salesdash/config"
	"salesdash/database"
	"salesdash/eci"
	"salesdash/handlers"
	"salesdash/ingest"
	"salesdash/insights"
	"salesdash/logging"
	"salesdash/metrics"
	"salesdash/routes"
)

const serviceName = "salesdash"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; the environment is used directly.
	envErr := godotenv.Load()

	cfg := config.Load()

	logCfg := logging.DefaultConfig(serviceName)
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Environment = cfg.Environment
	logCfg.Version = version
	logger := logging.New(logCfg)
	logger.SetDefault()

	if envErr != nil {
		logger.Debug("No .env file loaded, using environment variables")
	}
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	m := metrics.NewRegistry()

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Error("Unable to connect to database")
		os.Exit(1)
	}
	defer store.Close()

	svc := analytics.NewService(store, logger,
		analytics.WithLocation(cfg.Location),
		analytics.WithMetrics(m),
		analytics.WithLowInventoryThreshold(cfg.LowInventoryThreshold),
	)

	vendor := eci.NewClient(eci.Config{
		Endpoint:  cfg.ECIEndpoint,
		APIKey:    cfg.ECIAPIKey,
		Namespace: cfg.ECINamespace,
		Branch:    cfg.Branch,
		Location:  cfg.Location,
	}, logger)

	collector := ingest.NewCollector(vendor, store, logger, m)

	var scheduler *ingest.Scheduler
	if cfg.ECIConfigured() {
		scheduler, err = ingest.NewScheduler(collector, cfg.CollectionSchedule, cfg.Location, logger)
		if err != nil {
			logger.WithError(err).Error("Unable to schedule data collection")
			os.Exit(1)
		}
		scheduler.Start()
	} else {
		logger.Warn("ECI_API_ENDPOINT or ECI_API_KEY not set, scheduled collection disabled")
	}

	deps := handlers.Deps{
		Analytics:             svc,
		Vendor:                vendor,
		Ingest:                collector,
		DB:                    store,
		Logger:                logger,
		LowInventoryThreshold: cfg.LowInventoryThreshold,
		Version:               version,
	}
	if cfg.GeminiAPIKey != "" {
		narrator, err := insights.NewNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.WithError(err).Warn("AI insights disabled")
		} else {
			defer narrator.Close()
			deps.Narrator = narrator
		}
	}
	if len(cfg.JWTSecret) == 0 {
		logger.Warn("JWT_SECRET not set, ingestion endpoints will reject every request")
	}

	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: handlers.ErrorHandler(logger),
	})
	routes.SetupRoutes(app, handlers.New(deps), routes.Options{
		JWTSecret:       []byte(cfg.JWTSecret),
		SummaryCacheTTL: cfg.SummaryCacheTTL,
		BrandCacheTTL:   cfg.BrandCacheTTL,
		Metrics:         m.Handler(),
		Logger:          logger,
	})

	go func() {
		logger.Info("Starting HTTP server", "addr", cfg.HTTPAddr)
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
