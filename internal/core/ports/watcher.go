package ports

import "context"

// StoreWatcher reports writes to the persistent store made by other processes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type StoreWatcher interface {
	// Watch blocks until ctx is done, calling onChange after each settled burst
	// of writes to the store directory.
	Watch(ctx context.Context, onChange func()) error
}
