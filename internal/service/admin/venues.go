package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

var venueTable = listing.Table[domain.Venue]{
	Text: func(v domain.Venue) []string {
		return []string{v.VenueName, v.LocationName, v.Description}
	},
	Status: listing.ActiveStatus(func(v domain.Venue) bool { return v.Active }),
	Sorts: map[string]func(a, b domain.Venue) int{
		"name":     listing.ByFold(func(v domain.Venue) string { return v.VenueName }),
		"location": listing.ByFold(func(v domain.Venue) string { return v.LocationName }),
		"capacity": listing.By(func(v domain.Venue) int { return v.MaxCapacity }),
	},
	DefaultSort: "name",
}

var locationTable = listing.Table[domain.Location]{
	Text: func(l domain.Location) []string {
		return []string{l.LocationName, l.Suburb, l.State}
	},
	Status: listing.ActiveStatus(func(l domain.Location) bool { return l.Active }),
	Sorts: map[string]func(a, b domain.Location) int{
		"name":   listing.ByFold(func(l domain.Location) string { return l.LocationName }),
		"suburb": listing.ByFold(func(l domain.Location) string { return l.Suburb }),
		"state":  listing.ByFold(func(l domain.Location) string { return l.State }),
	},
	DefaultSort: "name",
}

func (s *Service) venues(ctx context.Context) ([]domain.Venue, error) {
	return cachedList(ctx, s, redisx.KeyVenues(), s.backend.ListVenues)
}

func (s *Service) locations(ctx context.Context) ([]domain.Location, error) {
	return cachedList(ctx, s, redisx.KeyLocations(), s.backend.ListLocations)
}

func (s *Service) ListVenues(ctx context.Context, q listing.Query) (listing.Page[domain.Venue], error) {
	const op = "service.admin.ListVenues"

	venues, err := s.venues(ctx)
	if err != nil {
		return listing.Page[domain.Venue]{}, fmt.Errorf("%s: %w", op, err)
	}

	return venueTable.Apply(venues, q), nil
}

func (s *Service) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "service.admin.GetVenue"

	v, err := s.backend.GetVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *Service) CreateVenue(ctx context.Context, form VenueForm) (*domain.Venue, error) {
	const op = "service.admin.CreateVenue"

	if fe := form.validate(); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	v, err := s.backend.CreateVenue(ctx, form.venue())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditCreate, redisx.EntityVenue, v.VenueID,
		"created venue "+v.VenueName, catalogChange(redisx.EntityVenue, v.VenueID, 0))

	return v, nil
}

func (s *Service) UpdateVenue(ctx context.Context, id int64, form VenueForm) error {
	const op = "service.admin.UpdateVenue"

	if fe := form.validate(); fe != nil {
		return fmt.Errorf("%s: %w", op, fe)
	}

	v := form.venue()
	v.VenueID = id

	if err := s.backend.UpdateVenue(ctx, id, v); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditUpdate, redisx.EntityVenue, id,
		"updated venue "+v.VenueName, catalogChange(redisx.EntityVenue, id, 0))

	return nil
}

func (s *Service) DeleteVenue(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteVenue"

	if err := s.backend.DeleteVenue(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditDelete, redisx.EntityVenue, id,
		"deleted venue", catalogChange(redisx.EntityVenue, id, 0))

	return nil
}

func (s *Service) VenueTypes(ctx context.Context) ([]domain.VenueType, error) {
	const op = "service.admin.VenueTypes"

	out, err := s.backend.ListVenueTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListLocations(ctx context.Context, q listing.Query) (listing.Page[domain.Location], error) {
	const op = "service.admin.ListLocations"

	locs, err := s.locations(ctx)
	if err != nil {
		return listing.Page[domain.Location]{}, fmt.Errorf("%s: %w", op, err)
	}

	return locationTable.Apply(locs, q), nil
}

func (s *Service) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	const op = "service.admin.GetLocation"

	l, err := s.backend.GetLocation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return l, nil
}

// CreateLocation validates the form and rejects names that already exist,
// compared trimmed and case-insensitively, before calling the backend.
//
// Returns:
//   - *domain.Location: the created location.
//   - error: validation.FieldErrors if the form is invalid.
//   - error: admin.ErrDuplicateLocation if the name is taken.
func (s *Service) CreateLocation(ctx context.Context, form LocationForm) (*domain.Location, error) {
	const op = "service.admin.CreateLocation"

	if fe := form.validate(); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	existing, err := s.locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name := normalizeName(form.LocationName)
	for _, l := range existing {
		if normalizeName(l.LocationName) == name {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateLocation)
		}
	}

	l, err := s.backend.CreateLocation(ctx, form.location())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditCreate, redisx.EntityLocation, l.LocationID,
		"created location "+l.LocationName, catalogChange(redisx.EntityLocation, l.LocationID, 0))

	return l, nil
}

func (s *Service) UpdateLocation(ctx context.Context, id int64, form LocationForm) error {
	const op = "service.admin.UpdateLocation"

	if fe := form.validate(); fe != nil {
		return fmt.Errorf("%s: %w", op, fe)
	}

	l := form.location()
	l.LocationID = id

	if err := s.backend.UpdateLocation(ctx, id, l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditUpdate, redisx.EntityLocation, id,
		"updated location "+l.LocationName, catalogChange(redisx.EntityLocation, id, 0))

	return nil
}

func (s *Service) DeleteLocation(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteLocation"

	if err := s.backend.DeleteLocation(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditDelete, redisx.EntityLocation, id,
		"deleted location", catalogChange(redisx.EntityLocation, id, 0))

	return nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
