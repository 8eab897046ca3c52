// Package cache provides the read-side cache for the public job listing.
// Redis backs it in production; an in-process map backs it when no Redis is
// configured. Cache failures are soft: callers fall through to the store.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a string cache with per-key TTL.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Store for single-instance deployments and tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory creates an in-process cache.
func NewMemory() *Memory {
	return &Memory{items: map[string]entry{}}
}

func (c *Memory) Get(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (c *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

func (c *Memory) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]entry{}
}
