package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often [MemoryCache] purges expired entries.
const DefaultCleanupInterval = 10 * time.Minute

// MemoryCache keeps entries in process memory.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache returns an in-memory cache. Entries stored with a zero TTL
// use defaultTTL; a non-positive defaultTTL keeps them forever.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.([]byte), true, nil
	}
	return nil, false, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (c *MemoryCache) Len() int { return c.cache.ItemCount() }

// Close does nothing.
func (c *MemoryCache) Close() error { return nil }

var (
	_ Cache   = (*MemoryCache)(nil)
	_ Clearer = (*MemoryCache)(nil)
)
