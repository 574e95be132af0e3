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

	redisv9 "github.com/redis/go-redis/v9"

	"videotube_backend/internal/app/config"
	"videotube_backend/internal/app/di"
	"videotube_backend/internal/app/router"
	platformdb "videotube_backend/internal/platform/db"
	"videotube_backend/internal/platform/logger"
	"videotube_backend/internal/platform/media"
	platformredis "videotube_backend/internal/platform/redis"
	"videotube_backend/internal/platform/upload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(cfg.DB, di.Models()...)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	uploader, err := media.NewS3Uploader(ctx, cfg.Media)
	if err != nil {
		return err
	}
	stager, err := upload.NewStager(cfg.UploadDir, upload.DefaultMaxFileSize)
	if err != nil {
		return err
	}

	handlers := di.NewHandlers(cfg, di.Deps{DB: db, Redis: rdb, Uploader: uploader, Stager: stager})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(handlers, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
