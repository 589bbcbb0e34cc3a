package pipeline

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	output []byte
	usedAt time.Time
}

// OutputCache is a thread-safe in-memory store of rendered output with TTL
// eviction. An entry's TTL restarts every time it is read.
type OutputCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewOutputCache(ttl time.Duration) *OutputCache {
	return &OutputCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// CacheKey identifies one rendering of one input.
func CacheKey(hash, format string) string {
	return format + ":" + hash
}

func (c *OutputCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.usedAt = c.now()
	return e.output, true
}

func (c *OutputCache) Put(key string, output []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{output: output, usedAt: c.now()}
}

func (c *OutputCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *OutputCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.usedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

// Run calls Cleanup every interval until ctx is done.
func (c *OutputCache) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}
