package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_WithinLimitDoesNotWait(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Minute)
	start := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_ReserveMovesToNextWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.windowStart = base
	rl.now = func() time.Time { return base.Add(10 * time.Second) }

	assert.Equal(t, -10*time.Second, rl.reserve())
	assert.Equal(t, -10*time.Second, rl.reserve())
	assert.Equal(t, 50*time.Second, rl.reserve(), "third call waits for the next window")
	assert.Equal(t, 50*time.Second, rl.reserve())
	assert.Equal(t, 110*time.Second, rl.reserve())
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	rl := NewRateLimiter(1, time.Minute)
	rl.windowStart = base
	rl.now = func() time.Time { return current }

	assert.LessOrEqual(t, rl.reserve(), time.Duration(0))
	current = base.Add(2 * time.Minute)
	assert.LessOrEqual(t, rl.reserve(), time.Duration(0))
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Hour)
	for i := 0; i < 10; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
}
