// Package main runs the draft planner REST API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ramonehamilton/moba-draft/internal/api"
	"github.com/ramonehamilton/moba-draft/internal/api/websocket"
	"github.com/ramonehamilton/moba-draft/internal/config"
	"github.com/ramonehamilton/moba-draft/internal/metrics"
	"github.com/ramonehamilton/moba-draft/internal/roster"
	"github.com/ramonehamilton/moba-draft/internal/storage"
)

var (
	port       = flag.Int("port", 0, "API server port (default from config)")
	configPath = flag.String("config", "", "Config file (default: ~/.moba-draft/config.toml)")
	rosterPath = flag.String("roster", "", "Roster file, JSON or YAML (default from config)")
	dbPath     = flag.String("db", "", "Serve the roster stored in this SQLite database instead of a file")
)

func main() {
	flag.Parse()

	fmt.Println("MOBA Draft Planner - REST API Server")
	fmt.Println("====================================")
	fmt.Println()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *rosterPath != "" {
		cfg.Roster.File = *rosterPath
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recMetrics, err := metrics.NewRecommendMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	hub := websocket.NewHub(websocket.HubConfig{AllowedOrigins: cfg.API.AllowedOrigins, Logger: logger})

	provider, watch, err := openRoster(cfg, logger, func(r *roster.Roster) {
		recMetrics.IncrementRosterReloads()
		hub.Broadcast(websocket.EventRosterReloaded, map[string]int{"characters": r.Len()})
	})
	if err != nil {
		log.Fatalf("Failed to load roster: %v", err)
	}

	current := provider.Current()
	fmt.Printf("Roster: %d characters\n", current.Len())
	for _, ref := range current.DanglingReferences() {
		logger.Warn("dangling roster reference", "reference", ref)
	}

	if watch {
		go func() {
			if err := provider.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("roster watcher stopped", "error", err)
			}
		}()
	}

	server, err := api.NewServer(&api.Config{
		Port:           cfg.API.Port,
		RateLimit:      cfg.API.RateLimit,
		Burst:          cfg.API.Burst,
		AllowedOrigins: cfg.API.AllowedOrigins,
		RequestTimeout: 30 * time.Second,
		Logger:         logger,
	}, api.Dependencies{
		Roster:  provider,
		Engine:  cfg.EngineSettings(),
		Metrics: recMetrics,
		Hub:     hub,
	})
	if err != nil {
		log.Fatalf("Failed to create API server: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Println()
	fmt.Printf("API server running at http://localhost:%d\n", cfg.API.Port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	<-ctx.Done()

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}

// openRoster returns the roster provider and whether it should be watched.
// A configured database takes precedence over the roster file.
func openRoster(cfg *config.Config, logger *slog.Logger, onReload func(*roster.Roster)) (*roster.Provider, bool, error) {
	if cfg.Storage.Path != "" {
		dbConfig := storage.DefaultConfig(cfg.Storage.Path)
		dbConfig.AutoMigrate = cfg.Storage.AutoMigrate
		db, err := storage.Open(dbConfig)
		if err != nil {
			return nil, false, err
		}
		defer db.Close()

		r, err := storage.NewRosterRepository(db, logger).Load(context.Background())
		if err != nil {
			return nil, false, err
		}
		fmt.Printf("Database: %s\n", cfg.Storage.Path)
		return roster.StaticProvider(r), false, nil
	}

	provider, err := roster.NewProvider(roster.ProviderConfig{
		Path:     cfg.Roster.File,
		Logger:   logger,
		OnReload: onReload,
	})
	if err != nil {
		return nil, false, err
	}
	fmt.Printf("Roster file: %s\n", cfg.Roster.File)
	return provider, cfg.Roster.Watch, nil
}
