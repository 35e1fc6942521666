package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/domain"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	redisrepo "github.com/kirinyoku/fringe/internal/repository/redis"
)

// Backend is the part of the festival API the public catalog reads.
type Backend interface {
	ListShows(ctx context.Context) ([]domain.Show, error)
	GetShow(ctx context.Context, id int64) (*domain.Show, error)
	ListPerformancesByShow(ctx context.Context, showID int64) ([]domain.Performance, error)
	GetPerformance(ctx context.Context, id int64) (*domain.Performance, error)
}

type Config struct {
	ShowsTTL       time.Duration
	PerformanceTTL time.Duration
	HomeLimit      int
}

type Service struct {
	backend Backend
	cache   *redisrepo.Cache
	cfg     Config
}

func New(b Backend, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.ShowsTTL <= 0 {
		cfg.ShowsTTL = 60 * time.Second
	}

	if cfg.PerformanceTTL <= 0 {
		cfg.PerformanceTTL = 15 * time.Second
	}

	if cfg.HomeLimit <= 0 {
		cfg.HomeLimit = 8
	}

	return &Service{
		backend: b,
		cache:   cache,
		cfg:     cfg,
	}
}

// ListShows returns every show whose name contains query, ignoring case.
// An empty query returns all shows.
//
// Parameters:
//   - ctx: request-scoped context.
//   - query: name fragment to search for.
//
// Returns:
//   - []domain.Show: matching shows in backend order.
//   - error: backend.ErrUnavailable or *backend.APIError on backend failure.
func (s *Service) ListShows(ctx context.Context, query string) ([]domain.Show, error) {
	const op = "service.catalog.ListShows"

	shows, err := s.shows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return shows, nil
	}

	out := make([]domain.Show, 0, len(shows))
	for _, show := range shows {
		if strings.Contains(strings.ToLower(show.ShowName), needle) {
			out = append(out, show)
		}
	}

	return out, nil
}

// Home returns the shows featured on the landing page: the first HomeLimit
// shows, or all of them when all is set.
func (s *Service) Home(ctx context.Context, all bool) ([]domain.Show, error) {
	const op = "service.catalog.Home"

	shows, err := s.shows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !all && len(shows) > s.cfg.HomeLimit {
		shows = shows[:s.cfg.HomeLimit]
	}

	return shows, nil
}

// GetShow retrieves one show.
//
// Returns:
//   - *domain.Show: the show.
//   - error: catalog.ErrShowNotFound if the backend does not know the id.
func (s *Service) GetShow(ctx context.Context, id int64) (*domain.Show, error) {
	const op = "service.catalog.GetShow"

	show, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyShow(id),
		s.cfg.ShowsTTL,
		func(ctx context.Context) (domain.Show, error) {
			sh, err := s.backend.GetShow(ctx, id)
			if err != nil {
				return domain.Show{}, notFound(err, ErrShowNotFound)
			}
			return *sh, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &show, nil
}

// Performances returns every performance of a show, bookable or not.
func (s *Service) Performances(ctx context.Context, showID int64) ([]domain.Performance, error) {
	const op = "service.catalog.Performances"

	perfs, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyShowPerformances(showID),
		s.cfg.PerformanceTTL,
		func(ctx context.Context) ([]domain.Performance, error) {
			ps, err := s.backend.ListPerformancesByShow(ctx, showID)
			if err != nil {
				return nil, notFound(err, ErrShowNotFound)
			}
			return ps, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return perfs, nil
}

// SelectablePerformances returns the performances of a show that are active
// and neither cancelled nor sold out.
//
// Parameters:
//   - ctx: request-scoped context.
//   - showID: ID of the show.
//
// Returns:
//   - []domain.Performance: bookable performances in backend order.
//   - error: catalog.ErrShowNotFound if the show does not exist.
func (s *Service) SelectablePerformances(ctx context.Context, showID int64) ([]domain.Performance, error) {
	const op = "service.catalog.SelectablePerformances"

	perfs, err := s.Performances(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]domain.Performance, 0, len(perfs))
	for _, p := range perfs {
		if p.Bookable() {
			out = append(out, p)
		}
	}

	return out, nil
}

// Performance retrieves a performance with its prices, seating plan and
// reserved seats.
func (s *Service) Performance(ctx context.Context, id int64) (*domain.Performance, error) {
	const op = "service.catalog.Performance"

	perf, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyPerformance(id),
		s.cfg.PerformanceTTL,
		func(ctx context.Context) (domain.Performance, error) {
			p, err := s.backend.GetPerformance(ctx, id)
			if err != nil {
				return domain.Performance{}, notFound(err, ErrPerformanceNotFound)
			}
			return *p, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &perf, nil
}

// BookablePerformance is Performance restricted to performances that may
// still be selected.
//
// Returns:
//   - error: catalog.ErrPerformanceUnavailable if the performance is
//     inactive, cancelled or sold out.
func (s *Service) BookablePerformance(ctx context.Context, id int64) (*domain.Performance, error) {
	const op = "service.catalog.BookablePerformance"

	p, err := s.Performance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !p.Bookable() {
		return nil, fmt.Errorf("%s: %w", op, ErrPerformanceUnavailable)
	}

	return p, nil
}

func (s *Service) shows(ctx context.Context) ([]domain.Show, error) {
	return redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyShows(),
		s.cfg.ShowsTTL,
		s.backend.ListShows,
	)
}

func notFound(err, sentinel error) error {
	if backend.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
