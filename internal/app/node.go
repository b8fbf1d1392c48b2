package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/menucache/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/menucache/internal/adapters/store"   //nolint:depguard // Wired in app layer
	"go.trai.ch/menucache/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/menucache/internal/engine/orchestrator"
	"go.trai.ch/menucache/internal/engine/reconciler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			orchestrator.NodeID,
			reconciler.NodeID,
			watcher.NodeID,
			store.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	syncer, err := graft.Dep[*reconciler.Syncer](ctx)
	if err != nil {
		return nil, err
	}

	storeWatcher, err := graft.Dep[ports.StoreWatcher](ctx)
	if err != nil {
		return nil, err
	}

	menuStore, err := graft.Dep[ports.MenuStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, orch, syncer, storeWatcher, menuStore, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{App: a, Logger: log}, nil
}
