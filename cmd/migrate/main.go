// Command migrate applies the schema once and exits, for deployments that run
// the server with RUN_MIGRATIONS unset. It needs only the DB_* variables.
package main

import (
	"log/slog"
	"os"

	"videotube_backend/internal/app/config"
	"videotube_backend/internal/app/di"
	platformdb "videotube_backend/internal/platform/db"
	"videotube_backend/internal/platform/logger"
)

func main() {
	slog.SetDefault(logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))

	cfg, err := loadDBConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := platformdb.OpenDB(cfg, di.Models()...)
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("migration ok", "models", len(di.Models()))
}

// loadDBConfig reads the database settings with migrations forced on.
func loadDBConfig(envFiles ...string) (platformdb.Config, error) {
	if err := config.LoadEnvFile(envFiles...); err != nil {
		return platformdb.Config{}, err
	}
	cfg := platformdb.LoadConfigFromEnv()
	cfg.RunMigrations = true
	return cfg, nil
}
