package reconciler_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/menucache/internal/adapters/memcache"
	"go.trai.ch/menucache/internal/adapters/telemetry"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/menucache/internal/core/ports/mocks"
	"go.trai.ch/menucache/internal/engine/orchestrator"
	"go.trai.ch/menucache/internal/engine/reconciler"
	"go.uber.org/mock/gomock"
)

type subscription struct {
	ch  chan domain.ChangeEvent
	err error
}

// scriptedFeed answers Subscribe calls in order and blocks once the script runs out.
type scriptedFeed struct {
	mu     sync.Mutex
	script []subscription
	calls  int
}

func (f *scriptedFeed) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	if i >= len(f.script) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s := f.script[i]
	if s.err != nil {
		return nil, s.err
	}
	return s.ch, nil
}

func (f *scriptedFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeTarget struct {
	mu       sync.Mutex
	items    []domain.MenuItem
	held     bool
	replaced int
	polls    int
	online   int
	pollErr  error
}

func (f *fakeTarget) Collection(context.Context) ([]domain.MenuItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneItems(f.items), f.held
}

func (f *fakeTarget) ReplaceAll(_ context.Context, items []domain.MenuItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = domain.CloneItems(items)
	f.held = true
	f.replaced++
}

func (f *fakeTarget) Poll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	return f.pollErr
}

func (f *fakeTarget) MarkOnline() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online++
}

func (f *fakeTarget) snapshot() (items []domain.MenuItem, replaced, polls, online int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneItems(f.items), f.replaced, f.polls, f.online
}

type transitions struct {
	mu  sync.Mutex
	log []string
}

func (r *transitions) observe(from, to reconciler.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, from.String()+"→"+to.String())
}

func (r *transitions) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func TestSyncer_SubscribedAppliesEventsThenPollsAfterDrop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan domain.ChangeEvent, 4)
		feed := &scriptedFeed{script: []subscription{{ch: events}}}
		target := &fakeTarget{held: true}
		rec := &transitions{}

		s := reconciler.NewSyncer(feed, target, quietLogger(ctrl),
			reconciler.WithPollInterval(30*time.Second),
			reconciler.WithObserver(rec.observe),
		)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		synctest.Wait()
		assert.Equal(t, reconciler.Subscribed, s.State())
		_, _, _, online := target.snapshot()
		assert.Equal(t, 1, online)

		events <- insert(item("1", "Bagsilog", "Rice Toppings", 170, at(10)))
		events <- insert(item("1", "Bagsilog", "Rice Toppings", 170, at(10)))
		events <- update(item("1", "Bagsilog", "Rice Toppings", 150, at(1)))
		synctest.Wait()

		items, replaced, _, _ := target.snapshot()
		require.Len(t, items, 1)
		assert.Equal(t, 1, replaced)

		close(events)
		synctest.Wait()
		assert.Equal(t, reconciler.Polling, s.State())
		_, _, polls, _ := target.snapshot()
		assert.Equal(t, 0, polls)

		time.Sleep(30 * time.Second)
		synctest.Wait()

		_, _, polls, _ = target.snapshot()
		assert.Equal(t, 1, polls)
		assert.Equal(t, reconciler.Subscribing, s.State())
		assert.Equal(t, 2, feed.Calls())

		cancel()
		synctest.Wait()
		require.NoError(t, <-done)
		assert.Equal(t, reconciler.Disconnected, s.State())

		assert.Equal(t, []string{
			"disconnected→subscribing",
			"subscribing→subscribed",
			"subscribed→polling",
			"polling→subscribing",
			"subscribing→disconnected",
		}, rec.get())
	})
}

func TestSyncer_ResubscribesAfterFailedSubscribe(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan domain.ChangeEvent)
		feed := &scriptedFeed{script: []subscription{
			{err: domain.ErrFeedUnavailable},
			{ch: events},
		}}
		target := &fakeTarget{pollErr: domain.ErrNetwork}

		s := reconciler.NewSyncer(feed, target, quietLogger(ctrl), reconciler.WithPollInterval(10*time.Second))

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go func() { _ = s.Run(ctx) }()

		synctest.Wait()
		assert.Equal(t, reconciler.Polling, s.State())

		time.Sleep(10 * time.Second)
		synctest.Wait()

		assert.Equal(t, reconciler.Subscribed, s.State())
		_, _, polls, online := target.snapshot()
		assert.Equal(t, 1, polls)
		assert.Equal(t, 1, online)
	})
}

func TestSyncer_PollsOnlyWhenFeedNotConfigured(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		feed := &scriptedFeed{script: []subscription{{err: domain.ErrFeedNotConfigured}}}
		target := &fakeTarget{}

		s := reconciler.NewSyncer(feed, target, quietLogger(ctrl), reconciler.WithPollInterval(30*time.Second))

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		time.Sleep(95 * time.Second)
		synctest.Wait()

		_, _, polls, online := target.snapshot()
		assert.Equal(t, 3, polls)
		assert.Equal(t, 0, online)
		assert.Equal(t, 1, feed.Calls())
		assert.Equal(t, reconciler.Polling, s.State())

		cancel()
		synctest.Wait()
		require.NoError(t, <-done)
	})
}

func TestSyncer_IgnoresInvalidEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan domain.ChangeEvent, 2)
		feed := &scriptedFeed{script: []subscription{{ch: events}}}
		target := &fakeTarget{held: true}

		s := reconciler.NewSyncer(feed, target, quietLogger(ctrl))

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go func() { _ = s.Run(ctx) }()

		events <- domain.ChangeEvent{Type: domain.ChangeDelete}
		events <- remove("404")
		synctest.Wait()

		_, replaced, _, _ := target.snapshot()
		assert.Equal(t, 0, replaced)
		assert.Equal(t, reconciler.Subscribed, s.State())
	})
}

func TestSyncer_RefetchesWhenCatalogNotHeld(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := make(chan domain.ChangeEvent, 1)
		feed := &scriptedFeed{script: []subscription{{ch: events}}}
		target := &fakeTarget{}

		s := reconciler.NewSyncer(feed, target, quietLogger(ctrl))

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go func() { _ = s.Run(ctx) }()

		events <- insert(item("3", "Adobo", "Mains", 210, at(5)))
		synctest.Wait()

		items, replaced, polls, _ := target.snapshot()
		assert.Empty(t, items)
		assert.Equal(t, 0, replaced)
		assert.Equal(t, 1, polls)
		assert.Equal(t, reconciler.Subscribed, s.State())
	})
}

func TestSyncer_EventWithOnlyCategoryCachedKeepsCatalog(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := quietLogger(ctrl)

		bagsilog := item("1", "Bagsilog", "Rice Toppings", 170, at(1))
		halo := item("2", "Halo-Halo", "Desserts", 120, at(1))
		adobo := item("3", "Adobo", "Mains", 210, at(5))

		store := mocks.NewMockMenuStore(ctrl)
		store.EXPECT().Init(gomock.Any()).Return(nil).AnyTimes()
		store.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		store.EXPECT().Save(gomock.Any(), gomock.Len(3)).Return(nil)

		fetcher := mocks.NewMockMenuFetcher(ctrl)
		fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{Category: "Desserts"}, gomock.Any()).
			Return(ports.FetchResult{Items: []domain.MenuItem{halo}}, nil)
		fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, gomock.Any()).
			Return(ports.FetchResult{Items: []domain.MenuItem{bagsilog, halo, adobo}}, nil)

		orch := orchestrator.New(memcache.New(), store, fetcher, telemetry.NewNoOpTracer(), log)
		desserts := orch.Open(t.Context(), domain.Filter{Category: "Desserts"})
		defer desserts.Close()
		desserts.Wait()

		_, held := orch.Collection(t.Context())
		require.False(t, held)

		events := make(chan domain.ChangeEvent, 1)
		feed := &scriptedFeed{script: []subscription{{ch: events}}}
		s := reconciler.NewSyncer(feed, orch, log)

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go func() { _ = s.Run(ctx) }()

		events <- insert(adobo)
		synctest.Wait()

		catalog, held := orch.Collection(t.Context())
		require.True(t, held)
		assert.ElementsMatch(t, []domain.ItemID{"1", "2", "3"}, ids(catalog))
		assert.Equal(t, []domain.ItemID{"2"}, ids(desserts.State().Items))
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", reconciler.Disconnected.String())
	assert.Equal(t, "subscribing", reconciler.Subscribing.String())
	assert.Equal(t, "subscribed", reconciler.Subscribed.String())
	assert.Equal(t, "polling", reconciler.Polling.String())
}
