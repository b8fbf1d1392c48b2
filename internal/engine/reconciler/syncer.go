package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the position of a Syncer in its subscription lifecycle.
type State uint8

const (
	// Disconnected means no update source is active.
	Disconnected State = iota
	// Subscribing means a feed subscription is being established.
	Subscribing
	// Subscribed means change events are being applied as they arrive.
	Subscribed
	// Polling means the feed is down and the full menu is refetched periodically.
	Polling
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Subscribing:
		return "subscribing"
	case Subscribed:
		return "subscribed"
	case Polling:
		return "polling"
	default:
		return "disconnected"
	}
}

// DefaultPollInterval is how often the full menu is refetched while the feed is down.
const DefaultPollInterval = domain.DefaultPollInterval

// Target is the collection the Syncer keeps current.
type Target interface {
	// Collection returns the current full catalog. ok is false when no cache
	// tier holds it.
	Collection(ctx context.Context) (items []domain.MenuItem, ok bool)
	// ReplaceAll installs a new full catalog in every cache tier and open view.
	ReplaceAll(ctx context.Context, items []domain.MenuItem)
	// Poll refetches the full catalog from the network.
	Poll(ctx context.Context) error
	// MarkOnline clears the offline flag of every open view.
	MarkOnline()
}

// Observer is notified of every state transition.
type Observer func(from, to State)

// Option configures a Syncer.
type Option func(*Syncer)

// WithPollInterval sets the polling period used while the feed is down.
func WithPollInterval(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithObserver registers fn to be called on each transition.
func WithObserver(fn Observer) Option {
	return func(s *Syncer) {
		s.observer = fn
	}
}

// Syncer drives the subscription state machine
//
//	Disconnected → Subscribing → Subscribed ⇄ Polling
//
// Exactly one update source is active at a time: while Subscribed only feed
// events change the collection, while Polling only the periodic refetch does.
type Syncer struct {
	feed     ports.ChangeFeed
	target   Target
	logger   ports.Logger
	interval time.Duration
	observer Observer

	mu    sync.Mutex
	state State
}

// NewSyncer creates a Syncer applying feed events to target.
func NewSyncer(feed ports.ChangeFeed, target Target, logger ports.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		feed:     feed,
		target:   target,
		logger:   logger,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) transition(to State) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()

	if from == to {
		return
	}
	s.logger.Debug("sync: " + from.String() + " → " + to.String())
	if s.observer != nil {
		s.observer(from, to)
	}
}

// Run keeps the target current until ctx is done. It returns nil on cancellation.
func (s *Syncer) Run(ctx context.Context) error {
	defer s.transition(Disconnected)

	for {
		s.transition(Subscribing)
		events, err := s.feed.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, domain.ErrFeedNotConfigured) {
				s.logger.Info("realtime feed not configured, polling every " + s.interval.String())
				return s.pollForever(ctx)
			}
			s.logger.Warn("realtime feed unavailable, falling back to polling")
			s.logger.Debug(err.Error())
		} else {
			s.transition(Subscribed)
			s.target.MarkOnline()
			s.consume(ctx, events)
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("realtime feed dropped, falling back to polling")
		}

		s.transition(Polling)
		if !s.pollOnce(ctx) {
			return nil
		}
	}
}

// consume applies events until the channel closes or ctx is done.
func (s *Syncer) consume(ctx context.Context, events <-chan domain.ChangeEvent) {
	for {
		var ev domain.ChangeEvent
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			ev = e
		}

		if err := ev.Validate(); err != nil {
			s.logger.Warn("ignoring change event: " + err.Error())
			continue
		}
		current, ok := s.target.Collection(ctx)
		if !ok {
			// Without a catalog to patch, refetch it whole; the result already
			// includes this change.
			if err := s.target.Poll(ctx); err != nil && ctx.Err() == nil {
				s.logger.Debug(zerr.Wrap(err, "refetch after "+ev.Type.String()+" failed").Error())
			}
			continue
		}
		next, changed := Apply(current, ev)
		if !changed {
			continue
		}
		s.target.ReplaceAll(ctx, next)
		s.logger.Debug("applied " + ev.Type.String() + " " + string(ev.TargetID()))
	}
}

// pollOnce waits one interval and refetches. It returns false when ctx is done.
func (s *Syncer) pollOnce(ctx context.Context) bool {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}

	if err := s.target.Poll(ctx); err != nil && ctx.Err() == nil {
		s.logger.Debug(zerr.Wrap(err, "poll failed").Error())
	}
	return ctx.Err() == nil
}

func (s *Syncer) pollForever(ctx context.Context) error {
	s.transition(Polling)
	for {
		if !s.pollOnce(ctx) {
			return nil
		}
	}
}
