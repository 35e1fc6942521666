package admin

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

// Performance status buckets of the admin table.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSoldOut   = "soldOut"
	StatusCancelled = "cancelled"
)

func performanceTable(loc *time.Location) listing.Table[domain.Performance] {
	return listing.Table[domain.Performance]{
		Text: func(p domain.Performance) []string {
			fields := []string{p.ShowName, p.VenueName, p.PerformanceDate}
			if d, err := domain.ParseDate(p.PerformanceDate, loc); err == nil {
				fields = append(fields, d.Format("02 Jan 2006"), d.Format("02/01/2006"))
			}
			return fields
		},
		Status: performanceStatus,
		Sorts: map[string]func(a, b domain.Performance) int{
			"date": func(a, b domain.Performance) int {
				if c := cmp.Compare(dateKey(a.PerformanceDate, loc), dateKey(b.PerformanceDate, loc)); c != 0 {
					return c
				}
				return cmp.Compare(a.StartTime.Duration(), b.StartTime.Duration())
			},
			"show":  listing.ByFold(func(p domain.Performance) string { return p.ShowName }),
			"venue": listing.ByFold(func(p domain.Performance) string { return p.VenueName }),
		},
		DefaultSort: "date",
	}
}

func performanceStatus(p domain.Performance, status string) bool {
	switch strings.ToLower(status) {
	case strings.ToLower(StatusActive):
		return p.Active && !p.Cancel && !p.SoldOut
	case strings.ToLower(StatusInactive):
		return !p.Active
	case strings.ToLower(StatusSoldOut):
		return p.SoldOut
	case strings.ToLower(StatusCancelled):
		return p.Cancel
	default:
		return true
	}
}

func dateKey(s string, loc *time.Location) int64 {
	d, err := domain.ParseDate(s, loc)
	if err != nil {
		return 0
	}
	return d.Unix()
}

// ListPerformances lists the performances of one show, or of every show when
// showID is zero.
func (s *Service) ListPerformances(ctx context.Context, showID int64, q listing.Query) (listing.Page[domain.Performance], error) {
	const op = "service.admin.ListPerformances"

	var (
		perfs []domain.Performance
		err   error
	)
	if showID > 0 {
		perfs, err = s.backend.ListPerformancesByShow(ctx, showID)
	} else {
		perfs, err = s.backend.ListPerformances(ctx)
	}
	if err != nil {
		return listing.Page[domain.Performance]{}, fmt.Errorf("%s: %w", op, err)
	}

	return performanceTable(s.cfg.Location).Apply(perfs, q), nil
}

func (s *Service) GetPerformance(ctx context.Context, id int64) (*domain.Performance, error) {
	const op = "service.admin.GetPerformance"

	p, err := s.backend.GetPerformance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// CreatePerformance validates the form and creates a performance. Every price
// row is sent as a new ticket price.
//
// Returns:
//   - *domain.Performance: the created performance.
//   - error: validation.FieldErrors if the form is invalid.
func (s *Service) CreatePerformance(ctx context.Context, form PerformanceForm) (*domain.Performance, error) {
	const op = "service.admin.CreatePerformance"

	if fe := form.validate(modeCreate, s.cfg.Location); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	p, err := s.backend.CreatePerformance(ctx, domain.CreatePerformance{
		PerformanceFields: form.fields(modeCreate),
		ShowID:            form.ShowID,
		SeatingType:       form.SeatingType,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditCreate, redisx.EntityPerformance, p.PerformanceID,
		fmt.Sprintf("created performance on %s for show %d", form.PerformanceDate, form.ShowID),
		catalogChange(redisx.EntityPerformance, p.PerformanceID, form.ShowID))

	return p, nil
}

// UpdatePerformance validates the form and updates a performance. Price rows
// with an id update that price; rows without one add a new price.
func (s *Service) UpdatePerformance(ctx context.Context, id int64, form PerformanceForm) error {
	const op = "service.admin.UpdatePerformance"

	if fe := form.validate(modeUpdate, s.cfg.Location); fe != nil {
		return fmt.Errorf("%s: %w", op, fe)
	}

	err := s.backend.UpdatePerformance(ctx, id, domain.UpdatePerformance{
		PerformanceFields: form.fields(modeUpdate),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditUpdate, redisx.EntityPerformance, id,
		"updated performance on "+form.PerformanceDate,
		catalogChange(redisx.EntityPerformance, id, form.ShowID))

	return nil
}

func (s *Service) DeletePerformance(ctx context.Context, id int64) error {
	const op = "service.admin.DeletePerformance"

	if err := s.backend.DeletePerformance(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditDelete, redisx.EntityPerformance, id,
		"deleted performance", catalogChange(redisx.EntityPerformance, id, 0))

	return nil
}

// BatchCreatePerformances creates one performance per distinct date with
// shared times and seating.
func (s *Service) BatchCreatePerformances(ctx context.Context, form BatchPerformanceForm) ([]domain.Performance, error) {
	const op = "service.admin.BatchCreatePerformances"

	if fe := form.validate(s.cfg.Location); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	perfs, err := s.backend.BatchCreatePerformances(ctx, domain.BatchCreatePerformances{
		ShowID:           form.ShowID,
		PerformanceDates: form.PerformanceDates,
		StartTime:        form.StartTime,
		EndTime:          form.EndTime,
		SeatingType:      form.SeatingType,
		Active:           form.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditBatchCreate, redisx.EntityPerformance, form.ShowID,
		fmt.Sprintf("created %d performances for show %d", len(form.PerformanceDates), form.ShowID),
		catalogChange(redisx.EntityShow, form.ShowID, 0))

	return perfs, nil
}
