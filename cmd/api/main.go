// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the portal HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Run database migrations (idempotent).
//  5. Select the session store (PostgreSQL or Redis).
//  6. Register Prometheus collectors.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/portal/internal/api"
	"github.com/taibuivan/portal/internal/platform/config"
	"github.com/taibuivan/portal/internal/platform/constants"
	"github.com/taibuivan/portal/internal/platform/middleware"
	"github.com/taibuivan/portal/internal/platform/migration"
	pgstore "github.com/taibuivan/portal/internal/platform/postgres"
	redisstore "github.com/taibuivan/portal/internal/platform/redis"
	"github.com/taibuivan/portal/internal/users/auth"
	"github.com/taibuivan/portal/internal/users/password"
	"github.com/taibuivan/portal/internal/users/session"
	"github.com/taibuivan/portal/internal/users/user"
)

func main() {
	// # 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// # 2. Configuration
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("session_store", cfg.SessionStore),
	)

	// Root context for startup. A deadline catches misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// # 4. Migrations
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// # 5. Session Store
	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}

	var sessionRepository session.Repository
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		sessionRepository = session.NewRedisRepository(rdb)
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	default:
		sessionRepository = session.NewPostgresRepository(pool)
	}

	// # 6. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(pgstore.PoolCollectors(pgstore.PoolStatsOf(pool))...)

	// # 7. Domain Wiring
	hasher := password.NewHasher(cfg.BcryptCost)

	userService := user.NewService(user.NewPostgresRepository(pool), hasher, time.Now)
	sessionService := session.NewService(sessionRepository, cfg.SessionTTL, time.Now)

	secureCookies := cfg.IsProduction()
	binder := session.NewBinder(sessionService, secureCookies)

	authHandler := auth.NewHandler(
		auth.NewAuthenticator(userService, hasher),
		sessionService,
		userService,
		binder,
		secureCookies,
	)

	liveness, readiness := api.NewHealthHandlers(health, log)

	// # 8. HTTP Server
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		HTTPMetrics: middleware.NewHTTPMetrics(registry),
		Status:      api.NewStatusHandler(pgstore.NewInspector(pool, cfg.DatabaseName), time.Now),
		Migrations:  api.NewMigrationsHandler(migration.NewRunner(cfg.DatabaseURL, cfg.MigrationPath, log)),
		Users:       user.NewHandler(userService),
		Auth:        authHandler,
	}

	server := api.NewServer(cfg, log, handlers)

	// # Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Limited to startup wiring. After startup, all errors are returned and handled.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
