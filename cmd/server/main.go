package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/config"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/database"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/gsquote"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/logger"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/repository"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/scheduler"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	entryRepo := repository.NewEntryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	settingsService := service.NewSettingsService(settingsRepo, model.Settings{
		ResourceURL:            cfg.Tracker.ResourceURL,
		RefreshIntervalSeconds: cfg.Tracker.RefreshIntervalSeconds,
	})

	client := gsquote.NewFundsClient()
	sched := scheduler.New(log)
	tracker := service.NewTrackerService(entryRepo, settingsService, client, sched, log)
	entryService := service.NewEntryService(entryRepo, settingsService, client, tracker, log)

	// Start the refresh cycles before serving requests so valuations start
	// filling in immediately.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tracker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start tracker")
	}

	// Create router
	router := api.NewRouter(systemService, entryService, settingsService, tracker, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	cancel()
	tracker.Stop()

	log.Info().Msg("Server exited")
}
