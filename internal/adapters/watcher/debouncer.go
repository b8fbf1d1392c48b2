// Package watcher notices snapshot writes made by other menucache processes.
package watcher

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collapses a burst of file events into one callback carrying the
// distinct paths touched during the burst.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	stopped  bool
	callback func(paths []string)
}

// NewDebouncer creates a Debouncer that waits window after the last event.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the quiet window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// takeLocked empties the pending set and returns it sorted.
func (d *Debouncer) takeLocked() []string {
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := d.takeLocked()
	d.mu.Unlock()

	if d.callback != nil {
		d.callback(paths)
	}
}

// Flush runs the callback now for anything pending and waits for it.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Already firing; that run owns the pending set.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := d.takeLocked()
	d.mu.Unlock()

	if d.callback != nil {
		d.callback(paths)
	}
}

// Stop drops pending paths and ignores later events.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}
