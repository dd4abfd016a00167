// Package redis provides Redis-backed adapters for the job board.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard-ui/internal/core"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
)

const (
	defaultPrefix     = "jobboard:view:"
	defaultTTL        = 2 * time.Hour
	maxUpdateAttempts = 8
)

var _ core.ViewStateStore = (*ViewStateStore)(nil)

// ViewStateStoreOptions configures a ViewStateStore.
type ViewStateStoreOptions struct {
	Prefix string
	TTL    time.Duration
	Now    func() time.Time
}

// ViewStateStore keeps view states as JSON strings with a sliding TTL. Updates are optimistic
// transactions: the key is WATCHed, mutated in Go and written back in MULTI/EXEC, retrying
// when another writer got there first.
type ViewStateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewViewStateStore creates a Redis-backed view state store.
func NewViewStateStore(client redis.UniversalClient, opts ViewStateStoreOptions) *ViewStateStore {
	s := &ViewStateStore{client: client, prefix: opts.Prefix, ttl: opts.TTL, now: opts.Now}
	if s.prefix == "" {
		s.prefix = defaultPrefix
	}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *ViewStateStore) key(id string) string { return s.prefix + id }

// Get returns the stored state for id.
func (s *ViewStateStore) Get(ctx context.Context, id string) (*model.ViewState, error) {
	if id == "" {
		return nil, apperrors.NotFound("view state not found")
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("view state not found")
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeState(data)
}

// Update applies fn to the stored state inside an optimistic transaction.
func (s *ViewStateStore) Update(ctx context.Context, id string, fn core.UpdateFunc) (*model.ViewState, error) {
	if id == "" {
		return nil, apperrors.Validation("view state id cannot be empty")
	}
	key := s.key(id)

	var result *model.ViewState
	txf := func(tx *redis.Tx) error {
		state, err := s.loadForUpdate(ctx, tx, key, id)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
		state.UpdatedAt = s.now()
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal view state: %w", err)
		}
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		}); err != nil {
			return err
		}
		result = state
		return nil
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update view state %s: too many concurrent writers", id)
}

func (s *ViewStateStore) loadForUpdate(ctx context.Context, tx *redis.Tx, key, id string) (*model.ViewState, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.NewViewState(id, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeState(data)
}

// Delete removes the state for id.
func (s *ViewStateStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

func decodeState(data []byte) (*model.ViewState, error) {
	var state model.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCorruptViewState, err)
	}
	return &state, nil
}
