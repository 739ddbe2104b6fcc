package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/api"
	"github.com/andresuchdata/reorder-advisor/internal/app"
	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/repository/postgres"
	"github.com/andresuchdata/reorder-advisor/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	version, err := postgres.Migrate(rootCtx, db)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	logger.Log.Info().Uint("version", version).Msg("Database schema up to date")

	// Initialize services
	a, err := app.New(rootCtx, cfg, db)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	if cfg.Server.SyncOnStartup {
		go func() {
			report, err := a.Sync.SyncProducts(rootCtx)
			if err != nil {
				logger.Log.Error().Err(err).Msg("Initial catalog sync failed")
				return
			}
			logger.Log.Info().
				Int("fetched", report.Fetched).
				Int("synced", report.Synced).
				Int("failed", report.Failed).
				Msg("Initial catalog sync finished")
		}()
	}

	if cfg.Sessions.CleanupIntervalMinutes > 0 {
		go a.Chat.RunCleanup(rootCtx, time.Duration(cfg.Sessions.CleanupIntervalMinutes)*time.Minute)
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		Advice:    a.Advice,
		Products:  a.Catalog,
		Summaries: a.Summary,
		Chat:      a.Chat,
	}, cfg.Server.AllowedOrigins, a.Metrics)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// Background sync and session cleanup stop with the server
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
