package orchestrator

import (
	"context"
	"sync"

	"go.trai.ch/menucache/internal/core/domain"
)

// View is the state of one query shape as seen by a renderer.
type View struct {
	orch   *Orchestrator
	filter domain.Filter
	key    string
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   domain.MenuState
	attempt uint64
	shown   bool
	pending int
	subs    map[int]chan domain.MenuState
	nextSub int
}

func newView(o *Orchestrator, f domain.Filter) *View {
	return &View{
		orch:   o,
		filter: f,
		key:    f.Key(),
		state:  domain.MenuState{Key: f.Key(), Loading: true},
		subs:   make(map[int]chan domain.MenuState),
	}
}

// Filter returns the query shape of the view.
func (v *View) Filter() domain.Filter {
	return v.filter
}

// State returns a copy of the current state.
func (v *View) State() domain.MenuState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Clone()
}

// Revalidate repeats the read: a fresh memory cache entry is served as is,
// anything else triggers a background fetch.
func (v *View) Revalidate(ctx context.Context) {
	v.read(ctx, false)
}

// Refetch forces a network fetch regardless of freshness.
func (v *View) Refetch(ctx context.Context) {
	v.refresh(ctx, true)
}

// ClearCache empties every cache tier and reads again. The current items stay
// displayed until the new read settles.
func (v *View) ClearCache(ctx context.Context) error {
	err := v.orch.Clear(ctx)
	v.read(ctx, false)
	return err
}

// Wait blocks until every background fetch started by the view has settled.
func (v *View) Wait() {
	v.wg.Wait()
}

// Updates returns a channel receiving the state after every change, starting
// with the current one. Slow receivers only see the latest state.
// The returned function unsubscribes and closes the channel.
func (v *View) Updates() (<-chan domain.MenuState, func()) {
	ch := make(chan domain.MenuState, 1)

	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch
	ch <- v.state.Clone()
	v.mu.Unlock()

	return ch, sync.OnceFunc(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(ch)
		}
	})
}

// Close detaches the view from the orchestrator and closes its update channels.
func (v *View) Close() {
	v.orch.close(v)

	v.mu.Lock()
	defer v.mu.Unlock()
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
}

func (v *View) read(ctx context.Context, forced bool) {
	o := v.orch

	if entry, ok := o.mem.Get(v.key); ok {
		v.show(entry)
		if !forced && domain.Classify(entry.FetchedAt, o.window, o.now()) == domain.Fresh {
			return
		}
		v.refresh(ctx, forced)
		return
	}

	if entry, ok := o.loadStore(ctx, v.filter); ok {
		o.mem.Set(entry)
		v.show(entry)
	}
	v.refresh(ctx, forced)
}

// show displays a cached entry.
func (v *View) show(entry domain.CacheEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if entry.Seq < v.state.Seq {
		return
	}
	v.displayLocked(entry)
	v.notifyLocked()
}

func (v *View) displayLocked(entry domain.CacheEntry) {
	v.state.Items = domain.CloneItems(entry.Items)
	if v.state.Items == nil {
		v.state.Items = []domain.MenuItem{}
	}
	v.state.FetchedAt = entry.FetchedAt
	v.state.Seq = entry.Seq
	v.state.Loading = false
	v.state.Error = ""
	v.shown = true
	v.state.IsValidating = v.pending > 0
}

func (v *View) refresh(ctx context.Context, forced bool) {
	v.mu.Lock()
	v.pending++
	v.state.IsValidating = v.shown
	v.notifyLocked()
	v.mu.Unlock()

	v.wg.Go(func() {
		out := v.orch.revalidate(ctx, v.filter, forced)
		v.orch.deliver(v, out)
	})
}

// settle applies a network outcome. own is true for the view that issued it.
func (v *View) settle(out outcome, own bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if own {
		v.pending--
	}

	// attempt is the newest network attempt settled so far, failed or not.
	// Only an outcome at least that new decides connectivity.
	switch {
	case out.err == nil && out.seq >= v.state.Seq:
		v.displayLocked(domain.CacheEntry{Items: out.items, FetchedAt: out.fetchedAt, Seq: out.seq})
		if out.seq >= v.attempt {
			v.state.IsOffline = false
		}
	case out.err != nil && out.seq > v.state.Seq:
		v.state.IsOffline = true
		v.state.Loading = false
		if !v.shown {
			v.state.Error = domain.UserMessage(out.err)
			v.state.Items = []domain.MenuItem{}
		}
	}
	v.attempt = max(v.attempt, out.seq)

	v.state.IsValidating = v.shown && v.pending > 0
	v.notifyLocked()
}

func (v *View) markOnline() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.state.IsOffline {
		return
	}
	v.state.IsOffline = false
	v.notifyLocked()
}

func (v *View) notifyLocked() {
	st := v.state.Clone()
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
