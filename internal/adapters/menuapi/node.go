package menuapi

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config"
	"go.trai.ch/menucache/internal/adapters/logger"
	"go.trai.ch/menucache/internal/adapters/telemetry"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
)

// NodeID is the unique identifier for the menu fetcher Graft node.
const NodeID graft.ID = "adapter.menu_fetcher"

func init() {
	graft.Register(graft.Node[ports.MenuFetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, telemetry.TracerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.MenuFetcher, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg.MenuURL(), tracer, log, WithTimeout(cfg.Timeout)), nil
		},
	})
}
