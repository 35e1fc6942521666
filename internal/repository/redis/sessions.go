package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kirinyoku/fringe/internal/booking"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	"github.com/redis/go-redis/v9"
)

// DraftStore keeps one booking draft per session.
type DraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftStore(rdb *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{rdb: rdb, ttl: ttl}
}

var _ booking.DraftRepository = (*DraftStore)(nil)

func (s *DraftStore) Save(ctx context.Context, sessionID string, d *booking.Draft) error {
	const op = "redisrepo.DraftStore.Save"

	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, redisx.KeyDraft(sessionID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *DraftStore) Load(ctx context.Context, sessionID string) (*booking.Draft, error) {
	const op = "redisrepo.DraftStore.Load"

	b, err := s.rdb.Get(ctx, redisx.KeyDraft(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%s: %w", op, booking.ErrNoDraft)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var d booking.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

func (s *DraftStore) Clear(ctx context.Context, sessionID string) error {
	const op = "redisrepo.DraftStore.Clear"

	if err := s.rdb.Del(ctx, redisx.KeyDraft(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SelectionStore keeps the in-progress ticket and seat choice per session.
type SelectionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSelectionStore(rdb *redis.Client, ttl time.Duration) *SelectionStore {
	return &SelectionStore{rdb: rdb, ttl: ttl}
}

// Load returns ok=false when the session has no selection.
func (s *SelectionStore) Load(ctx context.Context, sessionID string) (booking.SelectionState, bool, error) {
	const op = "redisrepo.SelectionStore.Load"

	var st booking.SelectionState

	b, err := s.rdb.Get(ctx, redisx.KeySelection(sessionID)).Bytes()
	if err == redis.Nil {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(b, &st); err != nil {
		return st, false, fmt.Errorf("%s: %w", op, err)
	}

	return st, true, nil
}

func (s *SelectionStore) Save(ctx context.Context, sessionID string, st booking.SelectionState) error {
	const op = "redisrepo.SelectionStore.Save"

	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, redisx.KeySelection(sessionID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SelectionStore) Clear(ctx context.Context, sessionID string) error {
	const op = "redisrepo.SelectionStore.Clear"

	if err := s.rdb.Del(ctx, redisx.KeySelection(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
