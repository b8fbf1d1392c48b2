package orchestrator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/menucache/internal/adapters/memcache"
	"go.trai.ch/menucache/internal/adapters/telemetry"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/menucache/internal/core/ports/mocks"
	"go.trai.ch/menucache/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	bagsilog = domain.MenuItem{ID: "1", Name: "Bagsilog", Category: "Rice Toppings", Price: 170, Stock: domain.StockIn}
	halo     = domain.MenuItem{ID: "2", Name: "Halo-Halo", Category: "Desserts", Price: 120, Stock: domain.StockLow}
	adobo    = domain.MenuItem{ID: "3", Name: "Adobo", Category: "Mains", Price: 210, Stock: domain.StockIn}
)

type harness struct {
	mem     *memcache.Cache
	store   *mocks.MockMenuStore
	fetcher *mocks.MockMenuFetcher
	orch    *orchestrator.Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	h := &harness{
		mem:     memcache.New(),
		store:   mocks.NewMockMenuStore(ctrl),
		fetcher: mocks.NewMockMenuFetcher(ctrl),
	}
	h.orch = orchestrator.New(h.mem, h.store, h.fetcher, telemetry.NewNoOpTracer(), log,
		orchestrator.WithWindow(30*time.Second),
		orchestrator.WithClock(func() time.Time { return now }),
	)
	return h
}

func (h *harness) emptyStore() {
	h.store.EXPECT().Init(gomock.Any()).Return(nil).AnyTimes()
	h.store.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func fetchOK(items ...domain.MenuItem) func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
	return func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
		return ports.FetchResult{Items: items}, nil
	}
}

func TestOpen_FirstLoadFromNetwork(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{bagsilog}).Return(nil)

	release := make(chan struct{})
	h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, ports.FetchOptions{}).
		DoAndReturn(func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
			<-release
			return ports.FetchResult{Items: []domain.MenuItem{bagsilog}}, nil
		})

	view := h.orch.Open(t.Context(), domain.Filter{})
	st := view.State()
	assert.True(t, st.Loading)
	assert.False(t, st.IsValidating)

	close(release)
	view.Wait()

	st = view.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Bagsilog", st.Items[0].Name)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.False(t, st.IsOffline)
	assert.False(t, st.IsValidating)
	assert.Equal(t, now, st.FetchedAt)
	assert.Equal(t, domain.Nominal, st.Connectivity())

	entry, ok := h.mem.Get(domain.AllItemsKey)
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{bagsilog}, entry.Items)
}

func TestOpen_TimeoutWithoutCache(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ports.FetchResult{}, errors.Join(domain.ErrNetworkTimeout, context.DeadlineExceeded))

	view := h.orch.Open(t.Context(), domain.Filter{})
	view.Wait()

	st := view.State()
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.NotEmpty(t, st.Error)
	assert.True(t, st.IsOffline)
	assert.False(t, st.Loading)
	assert.Equal(t, domain.Offline, st.Connectivity())
}

func TestOpen_StoreDataSuppressesNetworkError(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().Init(gomock.Any()).Return(nil)
	h.store.EXPECT().Query(gomock.Any(), "").Return([]domain.MenuItem{bagsilog, halo}, nil)
	h.store.EXPECT().Age(gomock.Any()).Return(10*time.Minute, true, nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ports.FetchResult{}, domain.ErrNetwork)

	view := h.orch.Open(t.Context(), domain.Filter{})

	st := view.State()
	assert.False(t, st.Loading)
	assert.Len(t, st.Items, 2)
	assert.Equal(t, now.Add(-10*time.Minute), st.FetchedAt)

	view.Wait()

	st = view.State()
	assert.Empty(t, st.Error)
	assert.True(t, st.IsOffline)
	assert.Equal(t, []domain.MenuItem{halo, bagsilog}, st.Items)
}

func TestOpen_MemoryPreferredOverStore(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now.Add(-time.Minute), Seq: 0})
	h.store.EXPECT().Init(gomock.Any()).Return(nil).AnyTimes()
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ports.FetchResult{}, domain.ErrNetwork)

	view := h.orch.Open(t.Context(), domain.Filter{})
	view.Wait()

	st := view.State()
	assert.Equal(t, []domain.MenuItem{adobo}, st.Items)
	assert.Empty(t, st.Error)
	assert.True(t, st.IsOffline)
}

func TestOpen_FreshMemorySkipsNetwork(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now.Add(-5 * time.Second)})

	view := h.orch.Open(t.Context(), domain.Filter{})
	view.Wait()

	st := view.State()
	assert.Equal(t, []domain.MenuItem{adobo}, st.Items)
	assert.False(t, st.IsValidating)
	assert.False(t, st.Loading)
}

func TestOpen_StaleMemoryRevalidates(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now.Add(-30 * time.Second)})
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	release := make(chan struct{})
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), ports.FetchOptions{}).
		DoAndReturn(func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
			<-release
			return ports.FetchResult{Items: []domain.MenuItem{adobo, halo}}, nil
		})

	view := h.orch.Open(t.Context(), domain.Filter{})
	st := view.State()
	assert.True(t, st.IsValidating)
	assert.False(t, st.Loading)
	assert.Equal(t, domain.Validating, st.Connectivity())

	close(release)
	view.Wait()

	st = view.State()
	assert.False(t, st.IsValidating)
	assert.False(t, st.Loading)
	assert.Equal(t, []domain.MenuItem{halo, adobo}, st.Items)
}

func TestRefetch_BypassesFreshness(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now.Add(-5 * time.Second)})
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{halo}).Return(nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, ports.FetchOptions{NoCache: true}).
		DoAndReturn(fetchOK(halo))

	view := h.orch.Open(t.Context(), domain.Filter{})
	view.Wait()
	view.Refetch(t.Context())
	view.Wait()

	entry, ok := h.mem.Get(domain.AllItemsKey)
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{halo}, entry.Items)
	assert.Equal(t, []domain.MenuItem{halo}, view.State().Items)
}

func TestRefetch_SlowEarlierFetchIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{halo}).Return(nil).Times(1)

	started := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), ports.FetchOptions{}).
			DoAndReturn(func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
				close(started)
				<-release
				return ports.FetchResult{Items: []domain.MenuItem{adobo}}, nil
			}),
		h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), ports.FetchOptions{NoCache: true}).
			DoAndReturn(fetchOK(halo)),
	)

	view := h.orch.Open(t.Context(), domain.Filter{})
	<-started

	view.Refetch(t.Context())
	require.Eventually(t, func() bool {
		return len(view.State().Items) == 1 && view.State().Items[0].ID == halo.ID
	}, time.Second, time.Millisecond)

	close(release)
	view.Wait()

	assert.Equal(t, []domain.MenuItem{halo}, view.State().Items)
	entry, ok := h.mem.Get(domain.AllItemsKey)
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{halo}, entry.Items)
}

func TestOpen_CategoryViewReadsStoreSubset(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().Init(gomock.Any()).Return(nil)
	h.store.EXPECT().Query(gomock.Any(), "Desserts").Return([]domain.MenuItem{halo}, nil)
	h.store.EXPECT().Age(gomock.Any()).Return(time.Minute, true, nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{Category: "Desserts"}, gomock.Any()).
		DoAndReturn(fetchOK(halo))

	view := h.orch.Open(t.Context(), domain.Filter{Category: "Desserts"})
	assert.Equal(t, []domain.MenuItem{halo}, view.State().Items)
	view.Wait()

	entry, ok := h.mem.Get("category=Desserts")
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{halo}, entry.Items)
}

func TestOpen_FieldViewIsNotPersisted(t *testing.T) {
	h := newHarness(t)
	f := domain.Filter{Fields: []string{"dish_name", "price"}}
	h.fetcher.EXPECT().Fetch(gomock.Any(), f, gomock.Any()).DoAndReturn(fetchOK(bagsilog))

	view := h.orch.Open(t.Context(), f)
	view.Wait()

	assert.Len(t, view.State().Items, 1)
	_, ok := h.mem.Get(f.Key())
	assert.True(t, ok)
}

func TestOpen_StorageUnavailableIsNotAnError(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().Init(gomock.Any()).Return(domain.ErrStorageUnavailable).Times(1)
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(fetchOK(bagsilog)).Times(2)

	view := h.orch.Open(t.Context(), domain.Filter{})
	view.Wait()
	view.Refetch(t.Context())
	view.Wait()

	st := view.State()
	assert.Empty(t, st.Error)
	assert.False(t, st.IsOffline)
	assert.Len(t, st.Items, 1)
}

func TestClearCache_KeepsItemsWhileReloading(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now})
	h.emptyStore()
	h.store.EXPECT().Clear(gomock.Any()).Return(nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ports.FetchResult{}, domain.ErrNetwork)

	view := h.orch.Open(t.Context(), domain.Filter{})
	require.NoError(t, view.ClearCache(t.Context()))
	view.Wait()

	_, ok := h.mem.Get(domain.AllItemsKey)
	assert.False(t, ok)

	st := view.State()
	assert.Equal(t, []domain.MenuItem{adobo}, st.Items)
	assert.Empty(t, st.Error)
	assert.True(t, st.IsOffline)
}

func TestReplaceAll_UpdatesViewsAndTiers(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(ports.FetchResult{}, domain.ErrNetwork).Times(2)
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{halo, adobo, bagsilog}).Return(nil)

	all := h.orch.Open(t.Context(), domain.Filter{})
	desserts := h.orch.Open(t.Context(), domain.Filter{Category: "Desserts"})
	all.Wait()
	desserts.Wait()

	h.orch.ReplaceAll(t.Context(), []domain.MenuItem{bagsilog, adobo, halo})

	assert.Equal(t, []domain.MenuItem{halo, adobo, bagsilog}, all.State().Items)
	assert.Equal(t, []domain.MenuItem{halo}, desserts.State().Items)
	assert.Empty(t, all.State().Error)

	entry, ok := h.mem.Get("category=Desserts")
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{halo}, entry.Items)
	held, ok := h.orch.Collection(t.Context())
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{halo, adobo, bagsilog}, held)
}

func TestSyncFromStore(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now})
	h.store.EXPECT().Init(gomock.Any()).Return(nil)
	gomock.InOrder(
		h.store.EXPECT().Query(gomock.Any(), "").Return([]domain.MenuItem{adobo}, nil),
		h.store.EXPECT().Query(gomock.Any(), "").Return([]domain.MenuItem{halo, adobo}, nil),
	)

	view := h.orch.Open(t.Context(), domain.Filter{})
	updates, cancel := view.Updates()
	defer cancel()
	<-updates

	h.orch.SyncFromStore(t.Context())
	select {
	case <-updates:
		t.Fatal("unchanged snapshot must not notify")
	default:
	}

	h.orch.SyncFromStore(t.Context())
	st := <-updates
	assert.Equal(t, []domain.MenuItem{halo, adobo}, st.Items)
}

func TestPollAndMarkOnline(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now})
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{halo}).Return(nil)
	gomock.InOrder(
		h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, gomock.Any()).Return(ports.FetchResult{}, domain.ErrNetwork),
		h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, gomock.Any()).DoAndReturn(fetchOK(halo)),
	)

	view := h.orch.Open(t.Context(), domain.Filter{})

	require.ErrorIs(t, h.orch.Poll(t.Context()), domain.ErrNetwork)
	assert.True(t, view.State().IsOffline)

	h.orch.MarkOnline()
	assert.False(t, view.State().IsOffline)

	require.NoError(t, h.orch.Poll(t.Context()))
	assert.Equal(t, []domain.MenuItem{halo}, view.State().Items)
}

func TestUpdates_LatestStateAndCancel(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	h.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(fetchOK(bagsilog))

	view := h.orch.Open(t.Context(), domain.Filter{})
	updates, cancel := view.Updates()
	view.Wait()

	st := <-updates
	assert.Len(t, st.Items, 1)
	assert.False(t, st.Loading)

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)

	view.Close()
}

func TestOpenForced_ShowsCacheAndBypassesFreshness(t *testing.T) {
	h := newHarness(t)
	h.mem.Set(domain.CacheEntry{Key: domain.AllItemsKey, Items: []domain.MenuItem{adobo}, FetchedAt: now})
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{halo}).Return(nil)

	release := make(chan struct{})
	h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, ports.FetchOptions{NoCache: true}).
		DoAndReturn(func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
			<-release
			return ports.FetchResult{Items: []domain.MenuItem{halo}}, nil
		})

	view := h.orch.OpenForced(t.Context(), domain.Filter{})
	assert.Equal(t, []domain.MenuItem{adobo}, view.State().Items)
	assert.True(t, view.State().IsValidating)

	close(release)
	view.Wait()
	assert.Equal(t, []domain.MenuItem{halo}, view.State().Items)
}

func TestReplaceAll_RevalidatesFieldViews(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{adobo, bagsilog}).Return(nil)

	f := domain.Filter{Fields: []string{"dish_name", "price"}}
	gomock.InOrder(
		h.fetcher.EXPECT().Fetch(gomock.Any(), f, ports.FetchOptions{}).DoAndReturn(fetchOK(bagsilog)),
		h.fetcher.EXPECT().Fetch(gomock.Any(), f, ports.FetchOptions{}).DoAndReturn(fetchOK(bagsilog, adobo)),
	)

	view := h.orch.Open(t.Context(), f)
	view.Wait()
	require.Equal(t, []domain.MenuItem{bagsilog}, view.State().Items)

	h.orch.ReplaceAll(t.Context(), []domain.MenuItem{bagsilog, adobo})
	view.Wait()

	assert.Equal(t, []domain.MenuItem{adobo, bagsilog}, view.State().Items)
	entry, ok := h.mem.Get(f.Key())
	require.True(t, ok)
	assert.Equal(t, []domain.MenuItem{adobo, bagsilog}, entry.Items)
}

func TestSettle_OlderSuccessKeepsViewOffline(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.store.EXPECT().Save(gomock.Any(), []domain.MenuItem{adobo}).Return(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, ports.FetchOptions{}).
			DoAndReturn(func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
				close(started)
				<-release
				return ports.FetchResult{Items: []domain.MenuItem{adobo}}, nil
			}),
		h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, ports.FetchOptions{NoCache: true}).
			Return(ports.FetchResult{}, domain.ErrNetwork),
	)

	view := h.orch.Open(t.Context(), domain.Filter{})
	<-started

	view.Refetch(t.Context())
	require.Eventually(t, func() bool { return view.State().IsOffline }, time.Second, time.Millisecond)

	close(release)
	view.Wait()

	st := view.State()
	assert.Equal(t, []domain.MenuItem{adobo}, st.Items)
	assert.Empty(t, st.Error)
	assert.True(t, st.IsOffline)
	assert.Equal(t, domain.Offline, st.Connectivity())
}

func TestClear_InFlightFetchDoesNotRepopulateTiers(t *testing.T) {
	h := newHarness(t)
	h.emptyStore()
	h.store.EXPECT().Clear(gomock.Any()).Return(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	h.fetcher.EXPECT().Fetch(gomock.Any(), domain.Filter{}, gomock.Any()).
		DoAndReturn(func(context.Context, domain.Filter, ports.FetchOptions) (ports.FetchResult, error) {
			close(started)
			<-release
			return ports.FetchResult{Items: []domain.MenuItem{adobo}}, nil
		})

	view := h.orch.Open(t.Context(), domain.Filter{})
	<-started

	require.NoError(t, h.orch.Clear(t.Context()))
	close(release)
	view.Wait()

	_, ok := h.mem.Get(domain.AllItemsKey)
	assert.False(t, ok)
	assert.Equal(t, []domain.MenuItem{adobo}, view.State().Items)
}
