package memcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/core/ports"
)

// NodeID is the unique identifier for the memory cache Graft node.
const NodeID graft.ID = "adapter.memory_cache"

func init() {
	graft.Register(graft.Node[ports.MemoryCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MemoryCache, error) {
			return New(), nil
		},
	})
}
