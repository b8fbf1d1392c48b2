// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/menucache/internal/adapters/config"
	_ "go.trai.ch/menucache/internal/adapters/feed"
	_ "go.trai.ch/menucache/internal/adapters/logger"
	_ "go.trai.ch/menucache/internal/adapters/memcache"
	_ "go.trai.ch/menucache/internal/adapters/menuapi"
	_ "go.trai.ch/menucache/internal/adapters/store"
	_ "go.trai.ch/menucache/internal/adapters/telemetry"
	_ "go.trai.ch/menucache/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/menucache/internal/app"
	_ "go.trai.ch/menucache/internal/engine/orchestrator"
	_ "go.trai.ch/menucache/internal/engine/reconciler"
)
