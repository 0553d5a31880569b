// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the FashionTechX lookbook server.
// It loads configuration, opens the collection store, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"fashiontechx/internal/ai"
	"fashiontechx/internal/cache"
	"fashiontechx/internal/collections"
	"fashiontechx/internal/config"
	"fashiontechx/internal/database"
	"fashiontechx/internal/generation"
	"fashiontechx/internal/handlers"
	"fashiontechx/internal/kv"
	"fashiontechx/internal/middleware"
	"fashiontechx/internal/mint"
	"fashiontechx/internal/render"
	"fashiontechx/internal/router"
	"fashiontechx/internal/session"
	"fashiontechx/internal/storage"
	"fashiontechx/internal/store"
	"fashiontechx/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
		"sessions", cfg.SessionStore,
	)

	var valkeyClient *redis.Client
	if cfg.UsesValkey() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
	}

	backend, closer, err := openBackend(cfg, valkeyClient)
	if err != nil {
		slog.Error("failed to open collection store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	collectionStore := store.NewCollectionStore(backend)
	collectionService := collections.NewService(collectionStore)
	slog.Info("collection store ready", "backend", collectionStore.Backend())

	aiRegistry := ai.NewRegistry(context.Background(), cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini": {APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, ModelImage: cfg.GeminiImageModel, BaseURL: cfg.GeminiBaseURL},
		"openai": {APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, ModelImage: cfg.OpenAIImageModel, BaseURL: cfg.OpenAIBaseURL},
	})
	if !aiRegistry.HasProvider(cfg.AIProvider) {
		slog.Warn("ai provider not available, falling back to synthetic assets",
			"provider", cfg.AIProvider)
		if err := aiRegistry.SetActive(ai.SyntheticName); err != nil {
			slog.Error("failed to activate synthetic provider", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	var backing session.Backing
	if cfg.SessionStore == "valkey" {
		backing = session.NewValkeyStore(valkeyClient, cfg.SessionTTL)
	}
	secureCookies := !cfg.IsDev()
	sessions := session.NewManager(backing, cfg.SessionTTL, secureCookies)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	generator := generation.NewClient(aiRegistry, generation.WithEvent(cfg.GenerationEvent))
	minter := mint.NewSimulatedMinter(cfg.MintDelay)

	limiter := middleware.NewRateLimiter(cfg.GenerateInterval, cfg.GenerateBurst)
	defer limiter.Stop()

	r := router.New(router.Deps{
		Sessions:    sessions,
		Workspace:   handlers.NewWorkspace(generator, collectionService, minter, cfg.BaseURL),
		Collections: handlers.NewCollections(collectionService, renderer, cfg.BaseURL),
		Providers:   handlers.NewProviders(aiRegistry),
		Limiter:     limiter,
		Static:      web.Static(),
	})

	// WriteTimeout must cover a full generation batch: five image and text
	// calls against the provider, each allowed up to two minutes.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully", "sessions", sessions.Count())
}

// openBackend opens the key-value backend selected by STORE_BACKEND. The
// returned closer, if any, must be closed on shutdown.
func openBackend(cfg *config.Config, valkeyClient *redis.Client) (kv.Backend, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		slog.Warn("memory store selected, collections are lost on restart")
		return kv.NewMemory(), nil, nil

	case config.StoreFile:
		b, err := kv.NewFile(cfg.DataDir)
		return b, nil, err

	case config.StoreSQLite:
		path := cfg.SQLiteFile()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		return openSQL(database.SQLite, database.SQLiteDSN(path))

	case config.StorePostgres:
		return openSQL(database.Postgres, cfg.DSN())

	case config.StoreValkey:
		return kv.NewValkey(valkeyClient), nil, nil

	case config.StoreS3:
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 store")
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
		return kv.NewObject(client, client.Bucket(), cfg.S3Prefix), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openSQL(dialect database.Dialect, dsn string) (kv.Backend, io.Closer, error) {
	db, err := database.Connect(dialect, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, dialect); err != nil {
		db.Close()
		return nil, nil, err
	}
	return kv.NewSQL(db, dialect), db, nil
}
