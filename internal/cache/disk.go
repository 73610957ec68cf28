package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache persists page bodies across runs, so re-researching the same
// profile soon after does not hammer the cited sites
type DiskCache struct {
	dir        string
	defaultTTL time.Duration
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, defaultTTL time.Duration) *DiskCache {
	return &DiskCache{
		dir:        dir,
		defaultTTL: defaultTTL,
	}
}

type storedPage struct {
	Body    []byte    `json:"body"`
	Expires time.Time `json:"expires"`
}

// Get returns the cached body for key. Expired entries are removed on read.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.filePath(key))
	if err != nil {
		return nil, false
	}

	var page storedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}

	if time.Now().After(page.Expires) {
		_ = os.Remove(c.filePath(key))
		return nil, false
	}

	return page.Body, true
}

// Set stores a body under key. A zero ttl uses the cache default.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(storedPage{
		Body:    value,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(c.filePath(key), data, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// Clear removes the cache directory and everything under it
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache) filePath(key string) string {
	return filepath.Join(c.dir, key+".cache")
}
