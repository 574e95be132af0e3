// Package config assembles the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	authhandler "videotube_backend/internal/feature/auth/transport/handler"
	"videotube_backend/internal/platform/cache"
	platformdb "videotube_backend/internal/platform/db"
	jwtmw "videotube_backend/internal/platform/jwt"
	"videotube_backend/internal/platform/media"
	platformredis "videotube_backend/internal/platform/redis"
)

// Config is everything the server needs to start.
type Config struct {
	Port       string
	CORSOrigin []string
	UploadDir  string
	LogLevel   string
	LogFormat  string

	DB              platformdb.Config
	Redis           platformredis.Config
	JWT             jwtmw.Config
	Media           media.Config
	Cookies         authhandler.CookieConfig
	ChannelCacheTTL time.Duration
}

// LoadEnvFile copies an optional .env file (default ".env") into the process environment.
// A missing file is not an error; variables already set win over the file.
func LoadEnvFile(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file found, using process environment")
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := LoadEnvFile(envFiles...); err != nil {
		return nil, err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	jwtCfg := jwtmw.LoadConfigFromEnv()
	if err := jwtCfg.Validate(); err != nil {
		return nil, err
	}

	cookies := authhandler.LoadCookieConfigFromEnv()
	cookies.AccessMaxAge = jwtCfg.AccessTTL
	cookies.RefreshMaxAge = jwtCfg.RefreshTTL

	return &Config{
		Port:            port,
		CORSOrigin:      splitOrigins(os.Getenv("CORS_ORIGIN")),
		UploadDir:       os.Getenv("UPLOAD_DIR"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
		DB:              platformdb.LoadConfigFromEnv(),
		Redis:           platformredis.LoadConfigFromEnv(),
		JWT:             jwtCfg,
		Media:           media.LoadConfigFromEnv(),
		Cookies:         cookies,
		ChannelCacheTTL: cache.TTLFromEnv(),
	}, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func splitOrigins(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
