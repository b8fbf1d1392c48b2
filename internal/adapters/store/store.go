// Package store implements the persistent menu tier as a single JSON snapshot file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
)

const snapshotVersion = 1

// record is one persisted item plus the time it was written.
type record struct {
	Item     domain.MenuItem `json:"item"`
	CachedAt time.Time       `json:"cached_at"`
}

// envelope is the on-disk layout. Checksum covers the raw Records bytes.
type envelope struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Records  json.RawMessage `json:"records"`
}

// snapshot is a decoded file together with its indexes.
type snapshot struct {
	records    []record
	byCategory map[string][]int
	modTime    time.Time
	size       int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store implements ports.MenuStore on a directory holding one snapshot file.
// Writes go to a temporary file that is renamed into place, so readers in this
// or another process never observe a partial snapshot.
type Store struct {
	dir    string
	logger ports.Logger
	now    func() time.Time

	mu          sync.Mutex
	initialized bool
	cached      *snapshot
}

// New creates a Store rooted at dir. Nothing touches the disk until Init.
func New(dir string, logger ports.Logger, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the snapshot.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the directory and checks that it is writable.
func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked()
}

func (s *Store) initLocked() error {
	if s.initialized {
		return nil
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrStorageUnavailable, err), "dir", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, ".writable-*")
	if err != nil {
		return zerr.With(errors.Join(domain.ErrStorageUnavailable, err), "dir", s.dir)
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)

	s.initialized = true
	return nil
}

// Save replaces the stored collection. Items sharing an identifier collapse to
// the most recently updated one.
func (s *Store) Save(ctx context.Context, items []domain.MenuItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return err
	}

	stamp := s.now().UTC()
	deduped := domain.DedupeItems(items)
	records := make([]record, len(deduped))
	for i, item := range deduped {
		records[i] = record{Item: item, CachedAt: stamp}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	data, err := json.Marshal(envelope{
		Version:  snapshotVersion,
		Checksum: checksum(raw),
		Records:  raw,
	})
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	if err := writeAtomic(s.path(), data); err != nil {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path())
	}

	s.cached = nil
	return nil
}

// Query returns the stored items, narrowed to category when it is not empty.
func (s *Store) Query(ctx context.Context, category string) ([]domain.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	if category == "" {
		items := make([]domain.MenuItem, len(snap.records))
		for i, r := range snap.records {
			items[i] = r.Item
		}
		return items, nil
	}

	idx := snap.byCategory[category]
	items := make([]domain.MenuItem, len(idx))
	for i, j := range idx {
		items[i] = snap.records[j].Item
	}
	return items, nil
}

// Age returns the time since the oldest record was written.
func (s *Store) Age(ctx context.Context) (time.Duration, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadLocked()
	if err != nil {
		return 0, false, err
	}
	if len(snap.records) == 0 {
		return 0, false, nil
	}

	oldest := snap.records[0].CachedAt
	for _, r := range snap.records[1:] {
		if r.CachedAt.Before(oldest) {
			oldest = r.CachedAt
		}
	}
	return s.now().Sub(oldest), true, nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return err
	}

	s.cached = nil
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(errors.Join(domain.ErrStoreWriteFailed, err), "path", s.path())
	}
	return nil
}

func (s *Store) path() string {
	return domain.SnapshotPath(s.dir)
}

// loadLocked returns the current snapshot, re-reading the file only when it
// changed on disk. A corrupt file is removed and reported as empty.
func (s *Store) loadLocked() (*snapshot, error) {
	if err := s.initLocked(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		s.cached = nil
		return &snapshot{}, nil
	}
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "path", s.path())
	}

	if s.cached != nil && s.cached.modTime.Equal(info.ModTime()) && s.cached.size == info.Size() {
		return s.cached, nil
	}

	//nolint:gosec // path is built from the configured cache directory
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrStoreReadFailed, err), "path", s.path())
	}

	snap, err := decode(data)
	if err != nil {
		s.logger.Warn("dropping corrupt menu snapshot " + s.path())
		s.logger.Error(err)
		_ = os.Remove(s.path())
		s.cached = nil
		return &snapshot{}, nil
	}

	snap.modTime = info.ModTime()
	snap.size = info.Size()
	s.cached = snap
	return snap, nil
}

func decode(data []byte) (*snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Join(domain.ErrCacheCorrupt, err)
	}
	if env.Version != snapshotVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheCorrupt, "unsupported snapshot version"), "version", env.Version)
	}
	if got := checksum(env.Records); got != env.Checksum {
		err := zerr.With(zerr.Wrap(domain.ErrCacheCorrupt, "checksum mismatch"), "want", env.Checksum)
		return nil, zerr.With(err, "got", got)
	}

	var records []record
	if err := json.Unmarshal(env.Records, &records); err != nil {
		return nil, errors.Join(domain.ErrCacheCorrupt, err)
	}

	snap := &snapshot{
		records:    records,
		byCategory: make(map[string][]int),
	}
	for i, r := range records {
		snap.byCategory[r.Item.Category] = append(snap.byCategory[r.Item.Category], i)
	}
	return snap, nil
}

func checksum(raw []byte) string {
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".menu-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
