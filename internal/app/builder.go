package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/menucache/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewApp resolves the dependency graph and returns the application components.
func NewApp(ctx context.Context) (*Components, error) {
	c, _, err := graft.ExecuteFor[*Components](ctx)
	return c, err
}
