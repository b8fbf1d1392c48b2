package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config"
	"go.trai.ch/menucache/internal/adapters/logger"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
)

// NodeID is the unique identifier for the store watcher Graft node.
const NodeID graft.ID = "adapter.store_watcher"

func init() {
	graft.Register(graft.Node[ports.StoreWatcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.StoreWatcher, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.CacheDir, DefaultWindow, log), nil
		},
	})
}
