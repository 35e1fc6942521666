package admin

import (
	"context"
	"fmt"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

var showTable = listing.Table[domain.Show]{
	Text: func(s domain.Show) []string {
		return []string{s.ShowName, s.VenueName, s.ShowType}
	},
	Status: listing.ActiveStatus(func(s domain.Show) bool { return s.Active }),
	Sorts: map[string]func(a, b domain.Show) int{
		"name":      listing.ByFold(func(s domain.Show) string { return s.ShowName }),
		"venue":     listing.ByFold(func(s domain.Show) string { return s.VenueName }),
		"type":      listing.ByFold(func(s domain.Show) string { return s.ShowType }),
		"startDate": listing.By(func(s domain.Show) string { return s.StartDate }),
	},
	DefaultSort: "name",
}

func (s *Service) ListShows(ctx context.Context, q listing.Query) (listing.Page[domain.Show], error) {
	const op = "service.admin.ListShows"

	shows, err := s.backend.ListShows(ctx)
	if err != nil {
		return listing.Page[domain.Show]{}, fmt.Errorf("%s: %w", op, err)
	}

	return showTable.Apply(shows, q), nil
}

func (s *Service) GetShow(ctx context.Context, id int64) (*domain.Show, error) {
	const op = "service.admin.GetShow"

	show, err := s.backend.GetShow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return show, nil
}

// CreateShow validates and creates a show.
//
// Parameters:
//   - ctx: request-scoped context carrying the acting admin.
//   - form: show fields.
//
// Returns:
//   - *domain.Show: the created show.
//   - error: validation.FieldErrors if the form is invalid.
//   - error: *backend.APIError with the backend's message on rejection.
func (s *Service) CreateShow(ctx context.Context, form ShowForm) (*domain.Show, error) {
	const op = "service.admin.CreateShow"

	if fe := form.validate(s.cfg.Location); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	show, err := s.backend.CreateShow(ctx, form.show())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditCreate, redisx.EntityShow, show.ShowID,
		"created show "+show.ShowName, catalogChange(redisx.EntityShow, show.ShowID, 0))

	return show, nil
}

func (s *Service) UpdateShow(ctx context.Context, id int64, form ShowForm) error {
	const op = "service.admin.UpdateShow"

	if fe := form.validate(s.cfg.Location); fe != nil {
		return fmt.Errorf("%s: %w", op, fe)
	}

	show := form.show()
	show.ShowID = id

	if err := s.backend.UpdateShow(ctx, id, show); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditUpdate, redisx.EntityShow, id,
		"updated show "+show.ShowName, catalogChange(redisx.EntityShow, id, 0))

	return nil
}

func (s *Service) DeleteShow(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteShow"

	if err := s.backend.DeleteShow(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditDelete, redisx.EntityShow, id,
		"deleted show", catalogChange(redisx.EntityShow, id, 0))

	return nil
}

func (s *Service) AgeRestrictions(ctx context.Context) ([]domain.AgeRestriction, error) {
	const op = "service.admin.AgeRestrictions"

	out, err := s.backend.ListAgeRestrictions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ShowTypes(ctx context.Context) ([]domain.ShowType, error) {
	const op = "service.admin.ShowTypes"

	out, err := s.backend.ListShowTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
