package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"celestial-server/internal/auth"
	"celestial-server/internal/catalog"
	"celestial-server/internal/middleware"
	"celestial-server/internal/server"
	"celestial-server/internal/shared/config"
	"celestial-server/internal/shared/database"
	"celestial-server/internal/shared/logger"
	"celestial-server/internal/shared/redis"
	"celestial-server/internal/system"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cache, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Error("Failed to close redis", "error", err)
		}
	}()

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize tokens: %w", err)
	}

	catalogRepo := catalog.NewRepository(db, slog.Default())
	catalogService := catalog.NewService(
		catalogRepo,
		catalog.NewSequenceAllocator(catalogRepo),
		catalog.NewRedisViewCache(cache, cfg.Redis.CacheTTL, slog.Default()),
		slog.Default(),
	)

	loaded, err := catalogService.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog after %d bodies: %w", loaded, err)
	}
	log.Info("Catalog loaded", "bodies", catalogService.Indexed())

	seed := cfg.Generator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	systemService := system.NewService(
		system.NewRepository(db, slog.Default()),
		catalogService,
		cfg.Generator,
		rand.New(rand.NewSource(seed)),
		slog.Default(),
	)

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics()
	}

	routes := server.NewRoutes(
		db,
		cache,
		catalogService,
		systemService,
		middleware.NewAuthenticator(tokens),
		metrics,
		cfg.Metrics.Path,
	)

	var handler http.Handler = routes.Setup()
	if metrics != nil {
		handler = metrics.Middleware(handler)
	}
	handler = middleware.NewRateLimiter(ctx, cfg.RateLimit).Middleware(handler)
	handler = middleware.NewCORS(cfg.Frontend).Middleware(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Celestial server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
