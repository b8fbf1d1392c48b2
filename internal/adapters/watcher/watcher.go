package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultWindow is how long the store must be quiet before a change is reported.
const DefaultWindow = 150 * time.Millisecond

var _ ports.StoreWatcher = (*Watcher)(nil)

// Watcher implements ports.StoreWatcher with fsnotify on the store directory.
type Watcher struct {
	dir    string
	window time.Duration
	logger ports.Logger
}

// New creates a Watcher for the store at dir.
func New(dir string, window time.Duration, logger ports.Logger) *Watcher {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Watcher{dir: dir, window: window, logger: logger}
}

// Watch blocks until ctx is done. onChange runs after every quiet period that
// followed a write, rename or removal of the snapshot file.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	if err := os.MkdirAll(w.dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrWatcherStartFailed, err), "dir", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(domain.ErrWatcherStartFailed, err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return zerr.With(errors.Join(domain.ErrWatcherStartFailed, err), "dir", w.dir)
	}

	debouncer := NewDebouncer(w.window, func(_ []string) { onChange() })
	defer debouncer.Stop()

	snapshot := domain.SnapshotFileName
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != snapshot {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			debouncer.Add(event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("store watcher: " + err.Error())
		}
	}
}
