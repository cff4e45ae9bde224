// Frontier Industry Server
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stillness-labs/frontier-industry-server/internal/industry/api"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/config"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/db"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/engine"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/importer"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/repo"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	upstream := flag.String("upstream", "", "World API base URL (overrides config)")
	importTypes := flag.String("import-types", "", "Import material types from JSON file")
	importFacilities := flag.String("import-facilities", "", "Import facilities from JSON file")
	importBlueprints := flag.String("import-blueprints", "", "Import blueprints from JSON file")
	sync := flag.Bool("sync", false, "Sync the full catalog from the upstream world API and exit")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *upstream != "" {
		cfg.UpstreamURL = *upstream
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	// Setup logging
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	// Open database
	database, err := db.OpenAndInit(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	// Handle import commands
	didImport := false
	if *importTypes != "" || *importFacilities != "" || *importBlueprints != "" {
		imp := importer.New(database, logger)
		didImport = true

		if *importTypes != "" {
			logger.Info("importing material types", "file", *importTypes)
			if err := imp.ImportTypesFromFile(ctx, *importTypes); err != nil {
				logger.Error("failed to import types", "error", err)
				os.Exit(1)
			}
		}

		if *importFacilities != "" {
			logger.Info("importing facilities", "file", *importFacilities)
			if err := imp.ImportFacilitiesFromFile(ctx, *importFacilities); err != nil {
				logger.Error("failed to import facilities", "error", err)
				os.Exit(1)
			}
		}

		if *importBlueprints != "" {
			logger.Info("importing blueprints", "file", *importBlueprints)
			if err := imp.ImportBlueprintsFromFile(ctx, *importBlueprints); err != nil {
				logger.Error("failed to import blueprints", "error", err)
				os.Exit(1)
			}
		}
		logger.Info("import complete")
	}

	if *sync {
		if cfg.UpstreamURL == "" {
			logger.Error("sync requires an upstream URL")
			os.Exit(1)
		}
		client := repo.NewUpstreamClient(cfg.UpstreamURL, cfg.UpstreamCacheTTL.Std())
		imp := importer.New(database, logger)
		logger.Info("syncing catalog from upstream", "upstream", cfg.UpstreamURL)
		if err := imp.SyncFromUpstream(ctx, client); err != nil {
			logger.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if didImport && flag.NArg() == 0 {
		return
	}

	// Pick the blueprint source: local database by default, live
	// upstream when configured without local data.
	var source engine.Repository = repo.NewSQLiteRepository(database)
	if cfg.UpstreamURL != "" {
		blueprints := db.NewBlueprintStore(database)
		count, err := blueprints.CountBlueprints(ctx)
		if err != nil {
			logger.Error("failed to count blueprints", "error", err)
			os.Exit(1)
		}
		if count == 0 {
			logger.Info("local database empty, using upstream world API", "upstream", cfg.UpstreamURL)
			source = repo.NewUpstreamClient(cfg.UpstreamURL, cfg.UpstreamCacheTTL.Std())
		}
	}

	cached, err := repo.NewCachedRepository(source, cfg.RepoCacheSize)
	if err != nil {
		logger.Error("failed to build repository cache", "error", err)
		os.Exit(1)
	}

	eng := engine.New(cached, logger)
	server := api.NewServer(eng, database, logger)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting industry server", "addr", cfg.Addr, "db", cfg.DBPath)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
