package admin

import (
	"context"
	"encoding/json"
)

// cachedList returns the list stored under key, loading and storing it on a
// miss. Cache failures fall through to the backend.
func cachedList[T any](
	ctx context.Context,
	s *Service,
	key string,
	load func(ctx context.Context) ([]T, error),
) ([]T, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.GetString(ctx, key)
		if err != nil {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		if ok {
			var items []T
			if err := json.Unmarshal([]byte(raw), &items); err == nil {
				return items, nil
			}
		}
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	storeList(ctx, s, key, items)

	return items, nil
}

func storeList[T any](ctx context.Context, s *Service, key string, items []T) {
	if s.cache == nil {
		return
	}

	b, err := json.Marshal(items)
	if err != nil {
		return
	}

	if err := s.cache.SetString(ctx, key, string(b), s.cfg.ListTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
