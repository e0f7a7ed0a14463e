package engine

import (
	"sync"
	"time"
)

// docCache is a TTL cache of parsed documents, keyed by source path.
// Adapted from the teacher's generic internal/cache.Cache[T] down to the
// one entry type and the two operations Context actually calls: Get and
// Set never needed eviction-by-capacity, Delete, Clear, DeleteByPrefix, or
// a Stop method, since a Context lives for exactly one process and its
// cache is just bounding how long a watch session keeps re-parsed
// Documents around between debounce cycles.
type docCache struct {
	mu      sync.RWMutex
	entries map[string]docCacheEntry
	ttl     time.Duration
}

type docCacheEntry struct {
	value     cachedDoc
	expiresAt time.Time
}

func newDocCache(ttl time.Duration) *docCache {
	c := &docCache{entries: make(map[string]docCacheEntry), ttl: ttl}
	go c.evictExpired()
	return c
}

func (c *docCache) Get(path string) (cachedDoc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[path]
	if !ok || time.Now().After(e.expiresAt) {
		return cachedDoc{}, false
	}
	return e.value, true
}

func (c *docCache) Set(path string, doc cachedDoc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = docCacheEntry{value: doc, expiresAt: time.Now().Add(c.ttl)}
}

// evictExpired sweeps stale entries on a timer matching the TTL, so a
// long-running watch session doesn't hold parsed Documents for sources
// that dropped out of the watch list forever.
func (c *docCache) evictExpired() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for path, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, path)
			}
		}
		c.mu.Unlock()
	}
}
