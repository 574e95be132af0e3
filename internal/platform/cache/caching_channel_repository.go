// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"videotube_backend/internal/feature/channel/domain/entity"
	"videotube_backend/internal/feature/channel/usecase"
)

// DefaultChannelTTL is used when CHANNEL_CACHE_TTL is unset or invalid.
const DefaultChannelTTL = 30 * time.Second

// TTLFromEnv reads CHANNEL_CACHE_TTL as a Go duration.
func TTLFromEnv() time.Duration {
	d, err := time.ParseDuration(os.Getenv("CHANNEL_CACHE_TTL"))
	if err != nil || d <= 0 {
		return DefaultChannelTTL
	}
	return d
}

// CachingChannelRepository decorates a ChannelRepository with Redis caching
// of channel profiles. Watch history is always read from the inner repository.
//
// Subscriptions are written outside this service, so a cached subscriberCount
// and isSubscribed may lag a new or removed edge by up to the TTL. Profile
// edits made here are visible immediately through InvalidateChannel.
type CachingChannelRepository struct {
	inner     usecase.ChannelRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ChannelRepository = (*CachingChannelRepository)(nil)

// NewCachingChannelRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to DefaultChannelTTL. If namespace is empty, it uses "channel".
// A nil rdb disables caching.
func NewCachingChannelRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ChannelRepository, namespace string) *CachingChannelRepository {
	if ttl <= 0 {
		ttl = DefaultChannelTTL
	}
	if namespace == "" {
		namespace = "channel"
	}
	return &CachingChannelRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ChannelProfile checks the cache first then falls back to the inner repository.
// Not-found results are never cached.
func (c *CachingChannelRepository) ChannelProfile(ctx context.Context, username, callerID string) (*entity.ChannelProfile, error) {
	if c.rdb == nil {
		return c.inner.ChannelProfile(ctx, username, callerID)
	}

	key := c.cacheKey(username, callerID)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.ChannelProfile
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.ChannelProfile(ctx, username, callerID)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// WatchHistory delegates to the inner repository.
func (c *CachingChannelRepository) WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
	return c.inner.WatchHistory(ctx, userID)
}

// InvalidateChannel drops every cached view of username regardless of caller.
func (c *CachingChannelRepository) InvalidateChannel(ctx context.Context, username string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(username)+"*")
}

// cacheKey is namespace:enc(username):enc(callerID). Distinct inputs always give distinct keys.
func (c *CachingChannelRepository) cacheKey(username, callerID string) string {
	return c.cacheKeyPrefix(username) + keyPart(callerID)
}

func (c *CachingChannelRepository) cacheKeyPrefix(username string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, keyPart(strings.ToLower(username)))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingChannelRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// keyPart encodes s with the URL-safe base64 alphabet, which holds neither
// the key separator nor any SCAN glob metacharacter.
func keyPart(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
