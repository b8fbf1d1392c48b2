package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/memcache"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/menuapi"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			memcache.NodeID,
			store.NodeID,
			menuapi.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			mem, err := graft.Dep[ports.MemoryCache](ctx)
			if err != nil {
				return nil, err
			}

			menuStore, err := graft.Dep[ports.MenuStore](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.MenuFetcher](ctx)
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

			return New(mem, menuStore, fetcher, tracer, log, WithWindow(cfg.Freshness)), nil
		},
	})
}
