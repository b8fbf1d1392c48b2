package reconciler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/feed"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/menucache/internal/engine/orchestrator"
)

// NodeID is the unique identifier for the syncer Graft node.
const NodeID graft.ID = "engine.syncer"

func init() {
	graft.Register(graft.Node[*Syncer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			feed.NodeID,
			orchestrator.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Syncer, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			changes, err := graft.Dep[ports.ChangeFeed](ctx)
			if err != nil {
				return nil, err
			}

			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewSyncer(changes, orch, log, WithPollInterval(cfg.PollInterval)), nil
		},
	})
}
