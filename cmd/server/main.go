// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

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

	"github.com/tomtom215/crosssell/internal/api"
	"github.com/tomtom215/crosssell/internal/catalog"
	"github.com/tomtom215/crosssell/internal/config"
	"github.com/tomtom215/crosssell/internal/database"
	"github.com/tomtom215/crosssell/internal/logging"
	"github.com/tomtom215/crosssell/internal/metrics"
	"github.com/tomtom215/crosssell/internal/pipeline"
	"github.com/tomtom215/crosssell/internal/supervisor"
	"github.com/tomtom215/crosssell/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("orders", cfg.Sources.Orders).
		Str("lakehouse", cfg.Lakehouse.Root).
		Bool("warehouse", cfg.Database.Enabled).
		Msg("Starting crosssell with supervisor tree")

	store, err := catalog.Open(catalog.Options{Path: cfg.Catalog.Path, InMemory: cfg.Catalog.InMemory})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open product catalog")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing product catalog")
		}
	}()

	// Interfaces stay nil, not typed-nil, when the warehouse is disabled.
	var (
		warehouse pipeline.Warehouse
		gold      api.GoldReader
	)
	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize warehouse")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing warehouse")
			}
		}()
		warehouse, gold = db, database.NewGuardedReader(db, database.BreakerSettings{})
		logging.Info().Str("path", cfg.Database.Path).Msg("Warehouse initialized")
	}

	runnerCfg := pipeline.RunnerConfig{
		Options: pipeline.Options{
			Sources:       cfg.Sources,
			LakehouseRoot: cfg.Lakehouse.Root,
			Model:         cfg.Model,
			EvaluationK:   cfg.Pipeline.EvaluationK,
			Catalog:       store,
			Warehouse:     warehouse,
		},
		Timeout: cfg.Pipeline.Timeout,
	}
	if cfg.Catalog.SeedFromSource {
		runnerCfg.SeedCatalog = store
	}
	runner := pipeline.NewRunner(runnerCfg)

	handler := api.NewHandler(api.Dependencies{
		Models:    runner,
		Catalog:   store,
		Warehouse: gold,
		CacheSize: cfg.Server.CacheSize,
		CacheTTL:  cfg.Server.CacheTTL,
	})
	runner.OnPublish(func(*pipeline.Model) { handler.InvalidateCache() })

	middleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(cfg.Server))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, middleware),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDataService(services.NewPipelineService(runner, services.PipelineServiceConfig{
		RunOnStartup: cfg.Pipeline.RunOnStartup,
		Interval:     cfg.Pipeline.Interval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	// Triggered runs outlive their requests; let them finish writing.
	handler.Wait()

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
