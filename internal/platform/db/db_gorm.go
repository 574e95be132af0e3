package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second

	pgUniqueViolation = "23505"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	User          string
	Password      string
	Name          string
	Host          string
	Port          string
	SSLMode       string
	InstanceName  string // Cloud SQL instance, connected through its unix socket when set
	RunMigrations bool
}

// LoadConfigFromEnv reads database settings from environment variables.
func LoadConfigFromEnv() Config {
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	return Config{
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          os.Getenv("DB_NAME"),
		Host:          os.Getenv("DB_HOST"),
		Port:          port,
		SSLMode:       sslMode,
		InstanceName:  os.Getenv("INSTANCE_CONNECTION_NAME"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
	}
}

// BuildDSN builds a libpq keyword/value DSN. InstanceName takes precedence over Host/Port.
func BuildDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	if cfg.InstanceName == "" {
		dsn += " port=" + cfg.Port
	}
	return dsn
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// OpenDB connects to PostgreSQL and, when RunMigrations is set, migrates models.
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), connectTimeout, openPostgres)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}

// Pinger reports database reachability for health checks.
type Pinger struct {
	db *gorm.DB
}

// NewPinger wraps db.
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Ping checks the underlying connection pool.
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// It recognises gorm's translated error and the raw PostgreSQL code.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
