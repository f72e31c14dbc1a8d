package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/verification-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ImageURLCache maps image IDs to their stored URL. Images never change after
// creation, so entries only expire by TTL.
type ImageURLCache interface {
	Get(ctx context.Context, imageID string) (string, bool)
	Set(ctx context.Context, imageID string, url string)
}

type redisImageURLCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisImageURLCache caches in Redis. Redis failures are logged and treated
// as misses so listing still works when the cache is down.
func NewRedisImageURLCache(rdb redis.Cmdable, ttl time.Duration) ImageURLCache {
	return &redisImageURLCache{rdb: rdb, ttl: ttl}
}

func imageKey(imageID string) string {
	return fmt.Sprintf("verification:image_url:%s", imageID)
}

func (c *redisImageURLCache) Get(ctx context.Context, imageID string) (string, bool) {
	url, err := c.rdb.Get(ctx, imageKey(imageID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContext(ctx).Warn("Image URL cache read failed", map[string]interface{}{
				"image_id": imageID,
				"error":    err.Error(),
			})
		}
		return "", false
	}
	return url, true
}

func (c *redisImageURLCache) Set(ctx context.Context, imageID string, url string) {
	if err := c.rdb.Set(ctx, imageKey(imageID), url, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn("Image URL cache write failed", map[string]interface{}{
			"image_id": imageID,
			"error":    err.Error(),
		})
	}
}

type noopImageURLCache struct{}

// NewNoopImageURLCache is used when Redis is not configured.
func NewNoopImageURLCache() ImageURLCache {
	return noopImageURLCache{}
}

func (noopImageURLCache) Get(context.Context, string) (string, bool) { return "", false }

func (noopImageURLCache) Set(context.Context, string, string) {}
