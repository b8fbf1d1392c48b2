package feed

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config"
	"go.trai.ch/menucache/internal/adapters/logger"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
)

// NodeID is the unique identifier for the change feed Graft node.
const NodeID graft.ID = "adapter.change_feed"

func init() {
	graft.Register(graft.Node[ports.ChangeFeed]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ChangeFeed, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg.FeedAddress, cfg.FeedTable, log), nil
		},
	})
}
