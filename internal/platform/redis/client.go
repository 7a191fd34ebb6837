// Package redis owns the optional redis connection shared by the snapshot
// cache and the readiness probe.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pauloqxm/adatualiza/internal/platform/config"
)

// Client wraps the go-redis client behind the readiness probe. Redis backs
// the shared snapshot cache when a fleet of instances must not multiply the
// Sheets read quota; a single instance runs without it.
type Client struct {
	*redis.Client
}

// New connects using the ADATUALIZA_REDIS_* configuration. A nil client with
// a nil error means redis is not configured and the in-process snapshot
// cache should be used instead.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports connection liveness for the /readyz probe.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
