// Package orchestrator ties the memory cache, the persistent store and the
// menu API together behind stale-while-revalidate views.
package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWindow sets the freshness window for memory cache entries.
func WithWindow(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator owns the cache tiers for one application session.
type Orchestrator struct {
	mem     ports.MemoryCache
	store   ports.MenuStore
	fetcher ports.MenuFetcher
	tracer  ports.Tracer
	logger  ports.Logger
	window  time.Duration
	now     func() time.Time

	seq   atomic.Uint64
	group singleflight.Group

	storeOnce sync.Once
	storeOK   atomic.Bool

	mu       sync.Mutex
	views    map[*View]struct{}
	known    map[string]domain.Filter
	storeSeq uint64
}

// New creates an Orchestrator.
func New(
	mem ports.MemoryCache,
	store ports.MenuStore,
	fetcher ports.MenuFetcher,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		mem:     mem,
		store:   store,
		fetcher: fetcher,
		tracer:  tracer,
		logger:  logger,
		window:  domain.AvailabilityWindow,
		now:     time.Now,
		views:   make(map[*View]struct{}),
		known:   make(map[string]domain.Filter),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Window returns the freshness window in use.
func (o *Orchestrator) Window() time.Duration {
	return o.window
}

// storeReady initialises the persistent tier once. An unavailable store is
// disabled for the life of the orchestrator.
func (o *Orchestrator) storeReady(ctx context.Context) bool {
	o.storeOnce.Do(func() {
		if o.store == nil {
			return
		}
		if err := o.store.Init(ctx); err != nil {
			o.logger.Warn("persistent cache disabled: " + err.Error())
			return
		}
		o.storeOK.Store(true)
	})
	return o.storeOK.Load()
}

// remember records a cache-key written to the memory tier so that catalog
// replacements can refresh category subsets.
func (o *Orchestrator) remember(f domain.Filter) {
	o.mu.Lock()
	o.known[f.Key()] = f
	o.mu.Unlock()
}

// loadStore reads the persisted snapshot for a filter the store can answer.
func (o *Orchestrator) loadStore(ctx context.Context, f domain.Filter) (domain.CacheEntry, bool) {
	if !(f.IsAll() || f.CategoryOnly()) || !o.storeReady(ctx) {
		return domain.CacheEntry{}, false
	}

	items, err := o.store.Query(ctx, f.Category)
	if err != nil {
		o.logger.Warn("persistent cache read failed: " + err.Error())
		return domain.CacheEntry{}, false
	}
	if len(items) == 0 {
		return domain.CacheEntry{}, false
	}

	fetchedAt := o.now()
	if age, ok, err := o.store.Age(ctx); err == nil && ok {
		fetchedAt = fetchedAt.Add(-age)
	}

	domain.SortItems(items)
	return domain.CacheEntry{Key: f.Key(), Items: items, FetchedAt: fetchedAt}, true
}

// persist writes the full catalog unless a newer result was already persisted.
func (o *Orchestrator) persist(ctx context.Context, items []domain.MenuItem, seq uint64) {
	if !o.storeReady(ctx) {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if seq <= o.storeSeq {
		o.logger.Debug("discarding superseded store write " + strconv.FormatUint(seq, 10))
		return
	}
	if err := o.store.Save(ctx, items); err != nil {
		o.logger.Warn("persistent cache write failed: " + err.Error())
		return
	}
	o.storeSeq = seq
}

// outcome is the settled result of one network attempt.
type outcome struct {
	items     []domain.MenuItem
	fetchedAt time.Time
	seq       uint64
	err       error
}

// revalidate runs one network attempt for f. Unforced attempts for the same
// cache-key share one request.
func (o *Orchestrator) revalidate(ctx context.Context, f domain.Filter, forced bool) outcome {
	if forced {
		return o.fetch(ctx, f, true)
	}
	v, _, _ := o.group.Do(f.Key(), func() (any, error) {
		return o.fetch(ctx, f, false), nil
	})
	out := v.(outcome)
	out.items = domain.CloneItems(out.items)
	return out
}

func (o *Orchestrator) fetch(ctx context.Context, f domain.Filter, forced bool) outcome {
	seq := o.seq.Add(1)
	key := f.Key()

	ctx, span := o.tracer.Start(ctx, "orchestrator.fetch",
		ports.WithAttribute("key", key),
		ports.WithAttribute("seq", seq),
		ports.WithAttribute("forced", forced),
	)
	defer span.End()

	res, err := o.fetcher.Fetch(ctx, f, ports.FetchOptions{NoCache: forced})
	if err != nil {
		span.RecordError(err)
		o.logger.Debug("menu fetch failed: " + err.Error())
		return outcome{seq: seq, err: err}
	}
	if res.Dropped > 0 {
		o.logger.Warn(strconv.Itoa(res.Dropped) + " invalid menu items dropped")
	}

	items := domain.DedupeItems(res.Items)
	domain.SortItems(items)
	now := o.now()
	span.SetAttribute("items", len(items))

	o.remember(f)
	if !o.mem.Set(domain.CacheEntry{Key: key, Items: items, FetchedAt: now, Seq: seq}) {
		span.SetAttribute("superseded", true)
	}
	if f.IsAll() {
		o.persist(ctx, items, seq)
	}
	return outcome{items: items, fetchedAt: now, seq: seq}
}

// Open starts a read for f and returns a view of its state. The cached tiers
// are consulted before Open returns; the network attempt runs in the background.
func (o *Orchestrator) Open(ctx context.Context, f domain.Filter) *View {
	return o.open(ctx, f, false)
}

// OpenForced is Open with a forced network attempt: cached data is still shown
// first, but freshness is ignored and intermediate HTTP caches are bypassed.
func (o *Orchestrator) OpenForced(ctx context.Context, f domain.Filter) *View {
	return o.open(ctx, f, true)
}

func (o *Orchestrator) open(ctx context.Context, f domain.Filter, forced bool) *View {
	v := newView(o, f)

	o.mu.Lock()
	o.views[v] = struct{}{}
	o.known[v.key] = f
	o.mu.Unlock()

	v.read(ctx, forced)
	return v
}

func (o *Orchestrator) close(v *View) {
	o.mu.Lock()
	delete(o.views, v)
	o.mu.Unlock()
}

func (o *Orchestrator) openViews() []*View {
	o.mu.Lock()
	defer o.mu.Unlock()
	views := make([]*View, 0, len(o.views))
	for v := range o.views {
		views = append(views, v)
	}
	return views
}

// deliver hands an outcome to every open view of key.
func (o *Orchestrator) deliver(origin *View, out outcome) {
	for _, v := range o.openViews() {
		if v == origin || v.key == origin.key {
			v.settle(out, v == origin)
		}
	}
}

// ReplaceAll installs items as the full catalog. Category subsets held in the
// memory cache and open views are refreshed from it.
func (o *Orchestrator) ReplaceAll(ctx context.Context, items []domain.MenuItem) {
	seq := o.seq.Add(1)
	items = domain.CloneItems(items)
	domain.SortItems(items)

	o.persist(ctx, items, seq)
	o.distribute(ctx, items, o.now(), seq)
}

// SyncFromStore adopts a snapshot another process wrote to the persistent store.
func (o *Orchestrator) SyncFromStore(ctx context.Context) {
	if !o.storeReady(ctx) {
		return
	}
	items, err := o.store.Query(ctx, "")
	if err != nil {
		o.logger.Warn("persistent cache read failed: " + err.Error())
		return
	}
	domain.SortItems(items)

	if held, ok := o.mem.Get(domain.AllItemsKey); ok && domain.ItemsEqual(held.Items, items) {
		return
	}

	seq := o.seq.Add(1)
	o.mu.Lock()
	o.storeSeq = max(o.storeSeq, seq)
	o.mu.Unlock()

	o.logger.Debug("adopting menu snapshot written by another process")
	o.distribute(ctx, items, o.now(), seq)
}

// distribute writes a full catalog result to the memory cache and open views.
// Views narrowed to a field subset cannot be derived from the catalog and are
// revalidated instead.
func (o *Orchestrator) distribute(ctx context.Context, items []domain.MenuItem, fetchedAt time.Time, seq uint64) {
	all := domain.Filter{}
	o.remember(all)
	o.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: items, FetchedAt: fetchedAt, Seq: seq})

	o.mu.Lock()
	subsets := make(map[string][]domain.MenuItem)
	for key, f := range o.known {
		if f.CategoryOnly() {
			subsets[key] = domain.FilterByCategory(items, f.Category)
		}
	}
	o.mu.Unlock()

	for key, subset := range subsets {
		o.mem.Set(domain.CacheEntry{Key: key, Items: subset, FetchedAt: fetchedAt, Seq: seq})
	}

	for _, v := range o.openViews() {
		switch {
		case v.filter.IsAll():
			v.settle(outcome{items: items, fetchedAt: fetchedAt, seq: seq}, false)
		case v.filter.CategoryOnly():
			v.settle(outcome{items: domain.FilterByCategory(items, v.filter.Category), fetchedAt: fetchedAt, seq: seq}, false)
		default:
			v.refresh(ctx, false)
		}
	}
}

// Poll refetches the full catalog. Failures mark every open view offline.
func (o *Orchestrator) Poll(ctx context.Context) error {
	out := o.revalidate(ctx, domain.Filter{}, false)
	if out.err != nil {
		for _, v := range o.openViews() {
			v.settle(out, false)
		}
		return out.err
	}
	o.distribute(ctx, out.items, out.fetchedAt, out.seq)
	return nil
}

// MarkOnline clears the offline flag of every open view.
func (o *Orchestrator) MarkOnline() {
	for _, v := range o.openViews() {
		v.markOnline()
	}
}

// Collection returns the full catalog from the fastest tier holding it.
// ok is false when neither tier holds it; category or field subsets do not count.
func (o *Orchestrator) Collection(ctx context.Context) ([]domain.MenuItem, bool) {
	if entry, ok := o.mem.Get(domain.AllItemsKey); ok {
		return entry.Items, true
	}
	if entry, ok := o.loadStore(ctx, domain.Filter{}); ok {
		return entry.Items, true
	}
	return nil, false
}

// Clear drops every memory cache entry and the persisted snapshot. Fetches
// already in flight settle their views but no longer write to either tier.
func (o *Orchestrator) Clear(ctx context.Context) error {
	issued := o.seq.Load()
	o.mem.Invalidate("", issued+1)
	if !o.storeReady(ctx) {
		return nil
	}

	o.mu.Lock()
	o.storeSeq = max(o.storeSeq, issued)
	o.mu.Unlock()

	if err := o.store.Clear(ctx); err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			o.logger.Warn("persistent cache unavailable: " + err.Error())
			return nil
		}
		return err
	}
	return nil
}
