package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ted-mirror/domain/dto"
	"ted-mirror/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// CatalogCache is a short-TTL cache for catalog list pages. It is strictly
// best-effort: a nil client or any redis error behaves as a miss.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// PageKey builds the cache key for one catalog list query.
func PageKey(channel, sortBy string, page, pageSize int) string {
	return fmt.Sprintf("catalog:%s:%s:%d:%d", channel, sortBy, page, pageSize)
}

// GetPage returns a cached page and whether it was found.
func (c *CatalogCache) GetPage(ctx context.Context, key string) (*dto.VideoListResponse, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.GetLogger().WithField("error", err).Warn("Catalog cache read failed")
		}
		return nil, false
	}
	var page dto.VideoListResponse
	if err := json.Unmarshal(raw, &page); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Catalog cache entry corrupt")
		return nil, false
	}
	return &page, true
}

// SetPage stores a page with the configured TTL.
func (c *CatalogCache) SetPage(ctx context.Context, key string, page *dto.VideoListResponse) {
	if c == nil || c.client == nil || page == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Catalog cache write failed")
	}
}
