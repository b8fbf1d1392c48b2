// Package memcache implements the in-process menu cache tier.
package memcache

import (
	"sync"

	"go.trai.ch/menucache/internal/core/domain"
)

// Cache implements ports.MemoryCache with a mutex-guarded map.
// Every key remembers the highest sequence number it has accepted, including
// after invalidation. Invalidate can raise that floor further, so a slow fetch
// issued before a clear cannot repopulate the cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
	floor   map[string]uint64
	base    uint64
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]domain.CacheEntry),
		floor:   make(map[string]uint64),
	}
}

// Get returns a copy of the entry held for key.
func (c *Cache) Get(key string) (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return domain.CacheEntry{}, false
	}
	entry.Items = domain.CloneItems(entry.Items)
	return entry, true
}

// Set stores entry unless a higher sequence number was already accepted for its key.
func (c *Cache) Set(entry domain.CacheEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Seq < max(c.base, c.floor[entry.Key]) {
		return false
	}
	entry.Items = domain.CloneItems(entry.Items)
	c.entries[entry.Key] = entry
	c.floor[entry.Key] = entry.Seq
	return true
}

// Invalidate drops the entry for key, or every entry when key is empty.
// Later writes with a sequence number below below are rejected for the
// invalidated keys, including keys never written before.
func (c *Cache) Invalidate(key string, below uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		clear(c.entries)
		c.base = max(c.base, below)
		return
	}
	delete(c.entries, key)
	c.floor[key] = max(c.floor[key], below)
}

// Keys returns the cache-keys currently held.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
