package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfigFromEnv()

	assert.True(t, cfg.Enabled())
	assert.Equal(t, "cache:6379", cfg.Addr())
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 2, cfg.DB)
}

func TestConfig_DisabledWithoutHost(t *testing.T) {
	t.Parallel()
	assert.False(t, Config{Port: "6379"}.Enabled())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	rdb, err := NewRedisClient(ctx, Config{Host: "127.0.0.1", Port: "1"})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}

func TestPinger_Ping(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	p := NewPinger(rdb)
	assert.NoError(t, p.Ping(context.Background()))
	assert.Error(t, p.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
