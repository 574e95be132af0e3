package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	channeladapters "videotube_backend/internal/feature/channel/adapters"
	"videotube_backend/internal/platform/cache"
)

// NewChannelRepository creates the channel read model.
// If Redis is available, channel profiles are cached; otherwise every read hits the database.
func NewChannelRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) *cache.CachingChannelRepository {
	return cache.NewCachingChannelRepository(rdb, ttl, channeladapters.NewChannelGorm(db), "channel")
}
