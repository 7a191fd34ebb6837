package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache shares one snapshot across instances so a fleet does not
// multiply the Sheets read quota. The snapshot is stored as one JSON blob
// with a server-side TTL.
//
// Best-effort: redis failures degrade to a cache miss, never to a load
// failure.
type redisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache builds a shared snapshot cache keyed per worksheet.
func NewRedisCache(client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) SnapshotCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisCache{client: client, key: key, ttl: ttl, logger: logger}
}

func (c *redisCache) Get(ctx context.Context) (*Snapshot, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "snapshot cache read failed", "error", err.Error())
		}
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache entry corrupt, dropping", "error", err.Error())
		_ = c.client.Del(ctx, c.key).Err()
		return nil, false
	}
	return &snap, true
}

func (c *redisCache) Set(ctx context.Context, snap *Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.WarnContext(ctx, "snapshot cache encode failed", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache write failed", "error", err.Error())
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache invalidation failed", "error", err.Error())
	}
}
