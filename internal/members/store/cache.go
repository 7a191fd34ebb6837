package store

import (
	"context"
	"sync"
	"time"
)

// SnapshotCache bounds how often Load hits the remote backend. Any mutation
// invalidates synchronously with the write's success, never eventually.
type SnapshotCache interface {
	Get(ctx context.Context) (*Snapshot, bool)
	Set(ctx context.Context, snap *Snapshot)
	Invalidate(ctx context.Context)
}

// memoryCache is the default in-process cache. TTL expiry uses the injected
// clock so tests run against a fake one.
type memoryCache struct {
	mu       sync.RWMutex
	snap     *Snapshot
	deadline time.Time

	ttl time.Duration
	now func() time.Time
}

// NewMemoryCache builds an in-process snapshot cache.
func NewMemoryCache(ttl time.Duration, now func() time.Time) SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &memoryCache{ttl: ttl, now: now}
}

func (c *memoryCache) Get(_ context.Context) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().After(c.deadline) {
		return nil, false
	}
	return c.snap, true
}

func (c *memoryCache) Set(_ context.Context, snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.deadline = c.now().Add(c.ttl)
}

func (c *memoryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
