// Package memstore is an in-process ViewStateStore for single-instance deployments and tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/target/jobboard-ui/internal/core"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
)

const (
	defaultTTL        = 2 * time.Hour
	defaultMaxEntries = 10000
)

var _ core.ViewStateStore = (*Store)(nil)

// Options configures a Store.
type Options struct {
	TTL time.Duration
	// MaxEntries caps the number of views kept; the least recently used view is evicted first.
	MaxEntries int
	Now        func() time.Time
	Logger     *slog.Logger
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store keeps encoded view states in a bounded LRU cache. States are stored encoded so
// callers never share memory with the store. The mutex makes read-modify-write in Update atomic.
type Store struct {
	mu      sync.Mutex
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// New creates an empty store.
func New(opts Options) *Store {
	size := opts.MaxEntries
	if size <= 0 {
		size = defaultMaxEntries
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New(size)

	s := &Store{
		entries: cache,
		ttl:     opts.TTL,
		now:     opts.Now,
		logger:  opts.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Get returns the state stored under id.
func (s *Store) Get(_ context.Context, id string) (*model.ViewState, error) {
	s.mu.Lock()
	e, ok := s.lookup(id)
	s.mu.Unlock()

	if !ok {
		return nil, apperrors.NotFound("view state not found")
	}
	return decode(e.data)
}

// Update applies fn to the state under id while holding the store lock. fn must not block.
func (s *Store) Update(_ context.Context, id string, fn core.UpdateFunc) (*model.ViewState, error) {
	if id == "" {
		return nil, apperrors.Validation("view state id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state := model.NewViewState(id, s.now())
	if e, ok := s.lookup(id); ok {
		var err error
		if state, err = decode(e.data); err != nil {
			return nil, err
		}
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.put(state); err != nil {
		return nil, err
	}
	return state, nil
}

// lookup returns the live entry for id, dropping it when expired. Callers hold s.mu.
func (s *Store) lookup(id string) (entry, bool) {
	v, ok := s.entries.Get(id)
	if !ok {
		return entry{}, false
	}
	e := v.(entry)
	if !s.now().Before(e.expiresAt) {
		s.entries.Remove(id)
		return entry{}, false
	}
	return e, true
}

// put encodes and stores state. Callers hold s.mu.
func (s *Store) put(state *model.ViewState) error {
	now := s.now()
	state.UpdatedAt = now
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}
	if s.entries.Add(state.ID, entry{data: data, expiresAt: now.Add(s.ttl)}) {
		s.logger.Debug("evicted least recently used view state")
	}
	return nil
}

// Delete removes id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	s.entries.Remove(id)
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored states, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

// Sweep evicts expired states and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, key := range s.entries.Keys() {
		v, ok := s.entries.Peek(key)
		if !ok {
			continue
		}
		if !now.Before(v.(entry).expiresAt) {
			s.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// RunSweeper evicts expired states every interval until ctx is canceled.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.DebugContext(ctx, "evicted idle view states", "count", n)
			}
		}
	}
}

func decode(data []byte) (*model.ViewState, error) {
	var state model.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorruptViewState, err)
	}
	return &state, nil
}
