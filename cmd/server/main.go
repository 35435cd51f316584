// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package main is the entry point for the Mercantile server.
//
// Mercantile reconciles a polyglot product catalog behind one HTTP API:
// core records live in PostgreSQL, enrichment documents and interaction
// events in Badger, and distilled category rankings in DuckDB. An
// analytics orchestrator merges the stores on a schedule or on demand.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (env > config file > defaults)
//  2. Logging: zerolog with JSON or console output
//  3. Core store: pgx v5 pool wrapped in a gobreaker circuit breaker
//  4. Detail and interaction store: Badger v4
//  5. Rankings warehouse: DuckDB
//  6. Catalog domain: enricher, reconciliation engine, interaction recorder
//  7. Analytics: merge orchestrator and scheduler
//  8. Events (optional): NATS interaction pipeline (-tags nats)
//  9. HTTP API: Chi router with Swagger documentation
//  10. Supervisor tree: suture v4 manages everything long-running
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops the scheduler and the event pipeline
//   - Closes DuckDB, Badger, and the Postgres pool
//
// See doc.go for the configuration reference and usage examples.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dverne/mercantile/docs" // Import generated swagger docs
	"github.com/dverne/mercantile/internal/analytics"
	"github.com/dverne/mercantile/internal/api"
	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/database"
	"github.com/dverne/mercantile/internal/events"
	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/supervisor"
	"github.com/dverne/mercantile/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Mercantile with supervisor tree")
	logging.Info().
		Str("badger_path", cfg.Badger.Path).
		Str("duckdb_path", cfg.Analytics.DatabasePath).
		Bool("events_enabled", cfg.NATS.Enabled).
		Msg("Configuration loaded")

	// Stores open in dependency order: the core pool first, so a bad DSN
	// fails before any embedded store touches disk.
	pgCore, err := gateway.NewPostgresCore(context.Background(), cfg.Postgres)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize core store")
	}
	defer pgCore.Close()
	logging.Info().Int("max_conns", cfg.Postgres.MaxConns).Msg("Core store initialized")

	// All core reads go through the breaker so an ailing Postgres trips
	// fast and the engine serves its detail-store fallback instead.
	core := gateway.WrapCoreWithBreaker(pgCore, gateway.BreakerSettings{
		MinRequests:  cfg.Postgres.BreakerMinRequests,
		FailureRatio: cfg.Postgres.BreakerFailureRatio,
		Interval:     cfg.Postgres.BreakerInterval,
		Timeout:      cfg.Postgres.BreakerTimeout,
		MaxHalfOpen:  cfg.Postgres.BreakerMaxHalfOpen,
	})

	details, err := gateway.NewBadgerStore(cfg.Badger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize detail store")
	}
	defer func() {
		if err := details.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing detail store")
		}
	}()
	logging.Info().
		Str("path", cfg.Badger.Path).
		Bool("in_memory", cfg.Badger.InMemory).
		Msg("Detail store initialized")

	db, err := database.New(cfg.Analytics)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize rankings warehouse")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing rankings warehouse")
		}
	}()
	logging.Info().Str("path", cfg.Analytics.DatabasePath).Msg("Rankings warehouse initialized")

	catCfg := catalog.Config{
		ImageBaseURL:     cfg.Catalog.ImageBaseURL,
		FallbackImageURL: cfg.Catalog.FallbackImageURL,
		PlaceholderPrice: cfg.Catalog.PlaceholderPrice,
		PlaceholderStock: cfg.Catalog.PlaceholderStock,
		PlaceholderSKU:   cfg.Catalog.PlaceholderSKU,
		DefaultCategory:  cfg.Catalog.DefaultCategory,
		DefaultUserID:    cfg.Catalog.DefaultUserID,
	}

	enricher := catalog.NewEnricher(catCfg)
	engine := catalog.NewEngine(core, details, catCfg)

	orchestrator := analytics.NewOrchestrator(core, details, db, enricher, cfg.Analytics)
	scheduler := analytics.NewScheduler(orchestrator, cfg.Analytics)

	// The pipeline exists in every build; without -tags nats it is a stub
	// whose publisher is nil, which the recorder treats as fan-out disabled.
	pipeline := events.NewPipeline(cfg.NATS, scheduler)
	recorder := catalog.NewRecorder(details, pipeline.InteractionPublisher(), catCfg)

	// Seed demo data if enabled (for evaluation and screenshot setups)
	if cfg.Catalog.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		if err := seedDemoData(context.Background(), pgCore, details); err != nil {
			// Fatal skips defers; close the stores by hand first.
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing rankings warehouse")
			}
			if closeErr := details.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing detail store")
			}
			pgCore.Close()
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	handler := api.NewHandler(engine, recorder, orchestrator, details, api.StorePingers{
		Core:     core,
		Details:  details,
		Rankings: db,
	}, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.SetupChi(handler, cfg),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: Badger value-log GC
	tree.AddDataService(services.NewBadgerGCService(details, cfg.Badger.GCInterval))
	logging.Info().Dur("interval", cfg.Badger.GCInterval).Msg("Badger GC added to supervisor tree")

	// Messaging layer: merge scheduler, plus the event pipeline when enabled.
	// The scheduler always runs; with the schedule disabled it serves
	// triggered merges only.
	tree.AddMessagingService(services.NewSchedulerService(scheduler))
	logging.Info().
		Bool("schedule_enabled", cfg.Analytics.ScheduleEnabled).
		Dur("interval", cfg.Analytics.ScheduleInterval).
		Msg("Analytics scheduler added to supervisor tree")

	if cfg.NATS.Enabled {
		tree.AddMessagingService(services.NewPipelineService(pipeline))
		logging.Info().Str("url", cfg.NATS.URL).Msg("Event pipeline added to supervisor tree")
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
