package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config"
	"go.trai.ch/menucache/internal/adapters/logger"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
)

// NodeID is the unique identifier for the menu store Graft node.
const NodeID graft.ID = "adapter.menu_store"

func init() {
	graft.Register(graft.Node[ports.MenuStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.MenuStore, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.CacheDir, log), nil
		},
	})
}
