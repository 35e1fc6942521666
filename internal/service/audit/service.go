package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirinyoku/fringe/internal/domain"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	postgresrepo "github.com/kirinyoku/fringe/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/fringe/internal/repository/redis"
	"github.com/kirinyoku/fringe/internal/uow"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.CatalogPubSub
	uow    *uow.UoW
	logger *slog.Logger
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.CatalogPubSub,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		logger: logger,
	}
}

// Record stores an audit entry. Once the entry is committed, the catalog
// change (if any) is applied to the local cache and broadcast to the other
// instances.
//
// Parameters:
//   - ctx: request-scoped context.
//   - e: the mutation that was forwarded to the backend.
//   - change: cached data made stale by the mutation, or nil.
//
// Returns:
//   - error: the storage error, wrapped with the operation name.
func (s *Service) Record(ctx context.Context, e domain.AuditEntry, change *redisx.CatalogChange) error {
	const op = "service.audit.Record"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.store.Audit().With(tx).Insert(ctx, e); err != nil {
			return err
		}

		if change != nil {
			after(func(ctx context.Context) {
				s.Broadcast(ctx, *change)
			})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Broadcast invalidates the local cache for change and publishes it.
func (s *Service) Broadcast(ctx context.Context, change redisx.CatalogChange) {
	if err := s.cache.InvalidateCatalog(ctx, change); err != nil {
		s.logger.Warn("cache invalidation failed", "entity", change.Entity, "id", change.ID, "error", err)
	}

	if s.pubsub == nil {
		return
	}

	if err := s.pubsub.PublishCatalogChanged(ctx, change); err != nil {
		s.logger.Warn("catalog change publish failed", "entity", change.Entity, "id", change.ID, "error", err)
	}
}

// List returns one page of audit entries and the total number of matches.
func (s *Service) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, int, error) {
	const op = "service.audit.List"

	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	entries, total, err := s.store.Audit().List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return entries, total, nil
}
