package ports

import (
	"context"
	"time"

	"go.trai.ch/menucache/internal/core/domain"
)

// MenuStore is the persistent tier. It holds the full catalog across sessions.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type MenuStore interface {
	// Init opens or creates the store. It is idempotent.
	// It returns domain.ErrStorageUnavailable when the platform denies access.
	Init(ctx context.Context) error

	// Save atomically replaces the stored collection, stamping every record with the write time.
	Save(ctx context.Context, items []domain.MenuItem) error

	// Query returns the stored items, narrowed to category when it is not empty.
	// A store that was never written returns an empty collection and no error.
	Query(ctx context.Context, category string) ([]domain.MenuItem, error)

	// Age returns the time since the oldest record was written.
	// The boolean is false when the store is empty.
	Age(ctx context.Context) (time.Duration, bool, error)

	// Clear deletes every record.
	Clear(ctx context.Context) error
}
