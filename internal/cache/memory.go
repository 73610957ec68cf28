package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps page bodies in process memory, so repeated source
// citations within one run never refetch the page
type MemoryCache struct {
	pages *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		pages: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached body for key, if present and fresh
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.pages.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a body under key. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.pages.Set(key, value, ttl)
	return nil
}

// Clear drops every cached body
func (c *MemoryCache) Clear() error {
	c.pages.Flush()
	return nil
}
