package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/govflux/govflux/internal/app"
	"github.com/govflux/govflux/internal/balance"
	"github.com/govflux/govflux/internal/dfc"
	dfchttp "github.com/govflux/govflux/internal/dfc/http"
	"github.com/govflux/govflux/internal/ledger"
	"github.com/govflux/govflux/internal/observability"
	"github.com/govflux/govflux/internal/qualifier"
	"github.com/govflux/govflux/internal/scenario"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	statementCache := dfc.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := statementCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	dfcService := dfc.NewService(
		qualifier.NewRepository(dbpool),
		ledger.NewRepository(dbpool),
		scenario.NewRepository(dbpool),
		balance.NewRepository(dbpool),
		statementCache,
	)

	metrics := observability.NewMetrics()
	dfcHandler := dfchttp.NewHandler(logger, dfcService, metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:     logger,
		Config:     cfg,
		DFCHandler: dfcHandler,
		Metrics:    metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
