// Package main is the entry point for the palletbook API server.
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

	"palletbook/internal/app"
	"palletbook/internal/core/events"
	"palletbook/internal/domain/auth"
	v1 "palletbook/internal/infrastructure/http/v1"
	"palletbook/internal/infrastructure/http/v1/handlers"
	"palletbook/internal/infrastructure/storage/memory"
	"palletbook/internal/infrastructure/storage/postgres"
	"palletbook/pkg/config"
	"palletbook/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
		Fields:      map[string]string{"service": "palletbook", "storage": cfg.Storage.Driver},
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting palletbook server", "env", cfg.App.Env)

	loader, repos, pinger, closeStorage := openStorage(ctx, cfg, log)
	defer closeStorage()

	state, err := app.New(ctx, loader, repos, app.Options{
		EntryDeadline: cfg.Ledger.EntryDeadline,
		TransportRule: cfg.Reports.TransportRule,
		Subscribers: []events.Handler{
			func(ctx context.Context, e events.Event) {
				logger.Debug(ctx, "state changed", "kind", e.Kind, "entity_type", e.EntityType, "entity_key", e.EntityKey)
			},
		},
	})
	if err != nil {
		log.Fatalw("failed to load application state", "error", err)
	}

	// --- Router ---
	routerCfg := v1.RouterConfig{
		App:     state,
		Logger:  log,
		Storage: cfg.Storage.Driver,
		Pinger:  pinger,
	}
	if cfg.JWT.Secret != "" {
		routerCfg.JWTValidator = auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWT.Secret))
		log.Info("bearer authentication enabled")
	} else {
		log.Warn("JWT_SECRET not set; operator is taken from the X-User-ID header")
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// openStorage builds the persistence collaborator selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (app.Loader, app.Repositories, handlers.Pinger, func()) {
	if cfg.Storage.Driver != config.DriverPostgres {
		var snap app.Snapshot
		if cfg.Storage.SeedFile != "" {
			data, err := memory.LoadCatalogFile(cfg.Storage.SeedFile)
			if err != nil {
				log.Fatalw("failed to load seed catalog", "error", err)
			}
			snap.Catalog = data
			log.Infow("seed catalog loaded", "file", cfg.Storage.SeedFile, "contractors", len(data.Contractors))
		} else {
			log.Warn("memory storage without STORAGE_SEED_FILE; catalog is empty and reports have no rows")
		}
		store := memory.NewStore(snap)
		log.Warn("using in-memory storage; state is lost on restart")
		return store, store.Repositories(), nil, func() {}
	}

	if cfg.Storage.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Storage.DatabaseURL); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Storage.DatabaseURL, cfg.Storage.MaxConns))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	storage, err := postgres.NewStorage(pool)
	if err != nil {
		pool.Close()
		log.Fatalw("failed to initialize storage", "error", err)
	}
	return storage, storage.Repositories(), storage, pool.Close
}
