// Package main provides the entry point for the LinkHub backend: a link-in-bio
// page service with engagement tracking and analytics aggregation.
package main

import (
	"LinkHub-Backend/internal/config"
	"LinkHub-Backend/internal/database"
	httpHandler "LinkHub-Backend/internal/handler/http"
	"LinkHub-Backend/internal/repository/postgres"
	"LinkHub-Backend/internal/service"
	"LinkHub-Backend/pkg/logger"
	"LinkHub-Backend/pkg/useragent"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting LinkHub backend", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	// Initialize User-Agent parser; without a regexes file device detection
	// falls back to keyword matching
	var uaParser *useragent.Parser
	if cfg.Analytics.UARegexesPath != "" {
		uaParser, err = useragent.NewParser(cfg.Analytics.UARegexesPath, log)
		if err != nil {
			log.Warn("failed to initialize User-Agent parser, using fallback", zap.Error(err))
		}
	}

	// Initialize storage and services
	storage := postgres.New(db, log)
	linkService := service.NewLinkService(storage, log)
	profileService := service.NewProfileService(storage, log)
	engagementService := service.NewEngagementService(storage, uaParser, log)
	analyticsService := service.NewAnalyticsService(storage, log)

	healthHandler := httpHandler.NewHealthHandler(func() error {
		return database.HealthCheck(db)
	}, log)

	// Caller identity is resolved from a trusted gateway header; the
	// authentication protocol itself is owned by the gateway.
	identity := httpHandler.HeaderIdentity{Header: "X-User-ID"}

	server := httpHandler.NewServer(
		linkService,
		profileService,
		engagementService,
		analyticsService,
		identity,
		healthHandler,
		log,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      server.SetupRoutes(),
		ReadTimeout:  parseDurationOr(cfg.HTTPServer.ReadTimeout, 30*time.Second),
		WriteTimeout: parseDurationOr(cfg.HTTPServer.WriteTimeout, 30*time.Second),
		IdleTimeout:  parseDurationOr(cfg.HTTPServer.IdleTimeout, 60*time.Second),
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down LinkHub backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
