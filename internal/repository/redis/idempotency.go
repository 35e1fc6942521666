package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemLock      = "LOCK"
	idemResPrefix = "RES:"
)

// releaseLock deletes the key only while it still holds the lock marker, so a
// stored response is never dropped by a late release.
var releaseLock = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// IdempotencyStore remembers the response of a booking submitted with an
// Idempotency-Key. A key holds either "LOCK" while the submission runs or
// "RES:<payload>" once it succeeded.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	const op = "redisrepo.IdempotencyStore.AcquireLock"

	ok, err := s.rdb.SetNX(ctx, key, idemLock, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, jsonPayload string) error {
	const op = "redisrepo.IdempotencyStore.SaveResult"

	if err := s.rdb.Set(ctx, key, idemResPrefix+jsonPayload, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetResult returns the stored response; a key still holding the lock
// reports false.
func (s *IdempotencyStore) GetResult(ctx context.Context, key string) (string, bool, error) {
	const op = "redisrepo.IdempotencyStore.GetResult"

	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	payload, ok := strings.CutPrefix(v, idemResPrefix)
	return payload, ok, nil
}

// Release gives the key back after a failed submission so the visitor can
// retry with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	const op = "redisrepo.IdempotencyStore.Release"

	if err := releaseLock.Run(ctx, s.rdb, []string{key}, idemLock).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
