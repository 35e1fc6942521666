package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	redisx "github.com/kirinyoku/fringe/internal/redis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON cache in front of the festival backend. A nil *Cache is
// valid and caches nothing.
type Cache struct {
	rdb    *redis.Client
	sf     singleflight.Group
	logger *slog.Logger
}

func New(client *redis.Client, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{rdb: client, logger: logger}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}

	s, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func (c *Cache) SetString(
	ctx context.Context,
	key string,
	val string,
	ttl time.Duration,
) error {
	if c == nil {
		return nil
	}

	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

// DelPattern removes every key matching pattern.
func (c *Cache) DelPattern(ctx context.Context, pattern string) error {
	if c == nil {
		return nil
	}

	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	return c.Del(ctx, keys...)
}

func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	s, ok, err := c.GetString(ctx, key)
	if err != nil || !ok {
		return zero, ok, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, err
	}

	return out, true, nil
}

func SetJSON(
	ctx context.Context,
	c *Cache,
	key string,
	val any,
	ttl time.Duration,
) error {
	if c == nil {
		return nil
	}

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.SetString(ctx, key, string(b), ttl)
}

// GetOrSetJSON returns the cached value under key or loads, stores and
// returns it. Concurrent misses for the same key share one load. A failing
// cache is logged and bypassed.
//
// The shared load is detached from the caller that started it, so one
// cancelled request does not fail the others waiting on the same key. Each
// caller still stops waiting when its own ctx ends.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	if c == nil {
		return loader(ctx)
	}

	v, ok, err := GetJSON[T](ctx, c, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		return v, nil
	}

	res := c.sf.DoChan(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)

		if v2, ok2, err2 := GetJSON[T](lctx, c, key); err2 == nil && ok2 {
			return v2, nil
		}

		v3, err3 := loader(lctx)
		if err3 != nil {
			return nil, err3
		}

		if err := SetJSON(lctx, c, key, v3, ttl); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}

		return v3, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-res:
		if r.Err != nil {
			return zero, r.Err
		}
		v, ok := r.Val.(T)
		if !ok {
			return zero, errors.New("type assertion failed")
		}
		return v, nil
	}
}

// InvalidateCatalog drops the cached entries a catalog change affects.
func (c *Cache) InvalidateCatalog(ctx context.Context, ch redisx.CatalogChange) error {
	if c == nil {
		return nil
	}

	switch ch.Entity {
	case redisx.EntityShow:
		return c.Del(ctx,
			redisx.KeyShows(),
			redisx.KeyShow(ch.ID),
			redisx.KeyShowPerformances(ch.ID),
		)
	case redisx.EntityPerformance, redisx.EntityBooking:
		if err := c.Del(ctx, redisx.KeyPerformance(ch.ID)); err != nil {
			return err
		}
		if ch.ShowID != 0 {
			return c.Del(ctx, redisx.KeyShowPerformances(ch.ShowID))
		}
		return c.DelPattern(ctx, redisx.PatternShowPerformances())
	case redisx.EntityVenue:
		return c.Del(ctx, redisx.KeyVenues(), redisx.KeyShows())
	case redisx.EntityLocation:
		return c.Del(ctx, redisx.KeyLocations(), redisx.KeyVenues())
	case redisx.EntityTicketType:
		return c.Del(ctx, redisx.KeyTicketTypes())
	default:
		return nil
	}
}
