// Package main is the entry point for the rental site backend.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/villarosa-rentals/backend/internal/api"
	"github.com/villarosa-rentals/backend/internal/calendar"
	"github.com/villarosa-rentals/backend/internal/config"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Listen); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	log.Printf("Starting rental site backend (version: %s)...", version)

	db, err := storage.NewDB(filepath.Join(cfg.DataDir, "villarosa.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	hub := websocket.NewHub()
	go hub.Run()

	propertyRepo := storage.NewPropertyRepository(db)
	eventRepo := storage.NewEventRepository(db)
	bookingRepo := storage.NewBookingRepository(db, eventRepo)

	fetcher := calendar.NewFetcher(time.Duration(cfg.Sync.FetchTimeoutSeconds) * time.Second)
	syncService := calendar.NewSyncService(propertyRepo, eventRepo, fetcher)
	availability := calendar.NewAvailabilityService(eventRepo)

	scheduler := calendar.NewScheduler(syncService, hub, syncIntervalMinutes(db, cfg))
	if err := scheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start sync scheduler: %v", err)
	}

	router := api.NewRouter(api.Services{
		DB:           db,
		Properties:   propertyRepo,
		Events:       eventRepo,
		Bookings:     bookingRepo,
		Sync:         syncService,
		Availability: availability,
		Fetcher:      fetcher,
		Hub:          hub,
	}, cfg.StaticDir)

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// syncIntervalMinutes resolves the sync interval, letting the
// sync_interval_min site setting override the config file at boot.
func syncIntervalMinutes(db *storage.DB, cfg *config.Config) int {
	var value string
	err := db.QueryRow("SELECT value FROM site_settings WHERE key = 'sync_interval_min'").Scan(&value)
	if err == nil {
		if minutes, convErr := strconv.Atoi(value); convErr == nil && minutes > 0 {
			return minutes
		}
	}
	return cfg.Sync.IntervalMinutes
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
