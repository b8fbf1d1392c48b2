package ports

import "go.trai.ch/menucache/internal/core/domain"

// MemoryCache is the process-lifetime tier keyed by cache-key.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type MemoryCache interface {
	// Get returns the entry held for key.
	Get(key string) (domain.CacheEntry, bool)

	// Set replaces the entry for entry.Key. It returns false and keeps the held
	// entry when that entry has a higher sequence number.
	Set(entry domain.CacheEntry) bool

	// Invalidate drops the entry for key, or every entry when key is empty.
	// Afterwards, Set rejects entries for the dropped keys whose sequence number
	// is below below.
	Invalidate(key string, below uint64)
}
