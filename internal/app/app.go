// Package app implements the application layer for menucache.
package app

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/menucache/internal/adapters/feed"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/menucache/internal/engine/orchestrator"
	"go.trai.ch/menucache/internal/engine/reconciler"
	"go.trai.ch/menucache/internal/ui/menuview"
	"go.trai.ch/menucache/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	cfg     domain.Config
	orch    *orchestrator.Orchestrator
	syncer  *reconciler.Syncer
	watcher ports.StoreWatcher
	store   ports.MenuStore
	logger  ports.Logger
	profile func() termenv.Profile
	now     func() time.Time
}

// New creates a new App instance.
func New(
	cfg domain.Config,
	orch *orchestrator.Orchestrator,
	syncer *reconciler.Syncer,
	watcher ports.StoreWatcher,
	store ports.MenuStore,
	log ports.Logger,
) *App {
	return &App{
		cfg:     cfg,
		orch:    orch,
		syncer:  syncer,
		watcher: watcher,
		store:   store,
		logger:  log,
		profile: output.ColorProfile,
		now:     time.Now,
	}
}

// WithColorProfile fixes the color profile used for terminal output.
// This is primarily used for testing.
func (a *App) WithColorProfile(p termenv.Profile) *App {
	a.profile = func() termenv.Profile { return p }
	return a
}

// WithClock replaces time.Now for age reporting.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// ListOptions selects and formats a menu read.
type ListOptions struct {
	Category string
	Fields   []string
	JSON     bool
}

func (o ListOptions) filter() domain.Filter {
	return domain.Filter{Category: strings.TrimSpace(o.Category), Fields: o.Fields}
}

func (a *App) renderer(w io.Writer) *menuview.Renderer {
	return menuview.New(w, a.profile(), menuview.WithClock(a.now))
}

// List prints the menu, serving cached data and revalidating it as needed.
func (a *App) List(ctx context.Context, w io.Writer, opts ListOptions) error {
	view := a.orch.Open(ctx, opts.filter())
	defer view.Close()

	view.Wait()
	return a.render(w, view.State(), opts)
}

// Refresh fetches the menu from the network regardless of cache freshness.
func (a *App) Refresh(ctx context.Context, w io.Writer, opts ListOptions) error {
	view := a.orch.OpenForced(ctx, opts.filter())
	defer view.Close()

	view.Wait()
	st := view.State()
	if st.IsOffline && st.Error == "" {
		a.logger.Warn("menu API unreachable, showing cached menu")
	}
	return a.render(w, st, opts)
}

func (a *App) render(w io.Writer, st domain.MenuState, opts ListOptions) error {
	var err error
	if opts.JSON {
		err = menuview.JSON(w, st)
	} else {
		err = a.renderer(w).Menu(st, opts.Fields)
	}
	if err != nil {
		return zerr.Wrap(err, "failed to write menu")
	}
	if st.Error != "" {
		return zerr.With(zerr.Wrap(domain.ErrMenuUnavailable, st.Error), "key", st.Key)
	}
	return nil
}

// Clear empties the memory cache and the persisted snapshot.
func (a *App) Clear(ctx context.Context) error {
	if err := a.orch.Clear(ctx); err != nil {
		return zerr.Wrap(err, "failed to clear menu cache")
	}
	a.logger.Info("menu cache cleared")
	return nil
}

// Status reports what the persistent tier holds.
func (a *App) Status(ctx context.Context, w io.Writer, asJSON bool) error {
	cs := domain.CacheStatus{
		CacheDir:  a.cfg.CacheDir,
		APIURL:    a.cfg.MenuURL(),
		Window:    a.orch.Window(),
		Freshness: domain.Absent,
	}
	if a.cfg.FeedEnabled() {
		cs.FeedAddress = a.cfg.FeedAddress
		cs.FeedTable = a.cfg.FeedTable
	}

	if err := a.store.Init(ctx); err != nil {
		a.logger.Debug(err.Error())
	} else {
		cs.StoreAvailable = true
		a.describeSnapshot(ctx, &cs)
	}

	if asJSON {
		return menuview.JSON(w, cs)
	}
	return a.renderer(w).Status(cs)
}

func (a *App) describeSnapshot(ctx context.Context, cs *domain.CacheStatus) {
	items, err := a.store.Query(ctx, "")
	if err != nil {
		a.logger.Warn("persistent cache read failed: " + err.Error())
		return
	}
	age, ok, err := a.store.Age(ctx)
	if err != nil || !ok || len(items) == 0 {
		return
	}

	categories := make(map[string]struct{})
	for _, it := range items {
		categories[it.Category] = struct{}{}
	}

	now := a.now()
	cs.HasSnapshot = true
	cs.Items = len(items)
	cs.Categories = len(categories)
	cs.Age = age
	cs.Freshness = domain.Classify(now.Add(-age), cs.Window, now)
}

// Watch prints the menu and keeps printing it as it changes, until ctx is done.
// Changes arrive from the realtime feed (or polling while it is down) and from
// snapshots written by other processes.
func (a *App) Watch(ctx context.Context, w io.Writer, opts ListOptions) error {
	view := a.orch.Open(ctx, opts.filter())
	defer view.Close()

	updates, cancel := view.Updates()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.syncer.Run(ctx)
	})

	g.Go(func() error {
		err := a.watcher.Watch(ctx, func() { a.orch.SyncFromStore(ctx) })
		if errors.Is(err, domain.ErrWatcherStartFailed) {
			a.logger.Warn("not watching the persistent cache: " + err.Error())
			return nil
		}
		return err
	})

	g.Go(func() error {
		return a.follow(ctx, w, updates, opts)
	})

	return g.Wait()
}

func (a *App) follow(ctx context.Context, w io.Writer, updates <-chan domain.MenuState, opts ListOptions) error {
	var last *domain.MenuState
	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-updates:
			if !ok {
				return nil
			}
			if st.Loading || (last != nil && !visiblyChanged(*last, st)) {
				continue
			}
			last = &st

			var err error
			if opts.JSON {
				err = json.NewEncoder(w).Encode(st)
			} else {
				r := a.renderer(w)
				if err = r.Line(strings.Repeat("─", 40)); err == nil {
					err = r.Menu(st, opts.Fields)
				}
			}
			if err != nil {
				return zerr.Wrap(err, "failed to write menu")
			}
		}
	}
}

func visiblyChanged(prev, next domain.MenuState) bool {
	return prev.Connectivity() != next.Connectivity() ||
		prev.Error != next.Error ||
		!domain.ItemsEqual(prev.Items, next.Items)
}

// ServeFeed runs a change feed server on lis. Change messages are read from in
// as JSON lines and published to every subscriber. The server keeps running
// after in is exhausted, until ctx is done.
func (a *App) ServeFeed(ctx context.Context, lis net.Listener, in io.Reader, table string) error {
	table = cmp.Or(table, a.cfg.FeedTable, domain.DefaultFeedTable)
	srv := feed.NewServer(table, a.logger)
	a.logger.Info("serving change feed for " + table + " on " + lis.Addr().String())

	// The reader may block on stdin past shutdown, so it is not awaited.
	go a.publish(ctx, in, srv)

	if err := srv.Serve(ctx, lis); err != nil {
		return errors.Join(domain.ErrFeedServeFailed, err)
	}
	return nil
}

func (a *App) publish(ctx context.Context, in io.Reader, srv *feed.Server) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg feed.ChangeMessage
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			a.logger.Warn("skipping malformed change message: " + err.Error())
			continue
		}
		ev, err := msg.ToEvent()
		if err != nil {
			a.logger.Warn("skipping change message: " + err.Error())
			continue
		}
		if err := srv.Publish(ev); err != nil {
			a.logger.Warn("publish failed: " + err.Error())
			continue
		}
		a.logger.Debug("published " + ev.Type.String() + " " + string(ev.TargetID()))
	}
	if err := scanner.Err(); err != nil {
		a.logger.Warn("reading change messages: " + err.Error())
	}
}
