package admin

import (
	"context"
	"fmt"
	"slices"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

const titleDeleteFailed = "Delete Failed"

var ticketTypeTable = listing.Table[domain.TicketType]{
	Text: func(t domain.TicketType) []string {
		return []string{t.TypeName, t.Description}
	},
	Sorts: map[string]func(a, b domain.TicketType) int{
		"name": listing.ByFold(func(t domain.TicketType) string { return t.TypeName }),
		"id":   listing.By(func(t domain.TicketType) int64 { return t.TicketTypeID }),
	},
	DefaultSort: "name",
}

func (s *Service) ticketTypes(ctx context.Context) ([]domain.TicketType, error) {
	return cachedList(ctx, s, redisx.KeyTicketTypes(), s.backend.ListTicketTypes)
}

func (s *Service) ListTicketTypes(ctx context.Context, q listing.Query) (listing.Page[domain.TicketType], error) {
	const op = "service.admin.ListTicketTypes"

	types, err := s.ticketTypes(ctx)
	if err != nil {
		return listing.Page[domain.TicketType]{}, fmt.Errorf("%s: %w", op, err)
	}

	return ticketTypeTable.Apply(types, q), nil
}

func (s *Service) CreateTicketType(ctx context.Context, form TicketTypeForm) (*domain.TicketType, error) {
	const op = "service.admin.CreateTicketType"

	if fe := form.validate(); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	t, err := s.backend.CreateTicketType(ctx, domain.TicketType{
		TypeName:    form.TypeName,
		Description: form.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditCreate, redisx.EntityTicketType, t.TicketTypeID,
		"created ticket type "+t.TypeName, catalogChange(redisx.EntityTicketType, t.TicketTypeID, 0))

	return t, nil
}

func (s *Service) UpdateTicketType(ctx context.Context, id int64, form TicketTypeForm) error {
	const op = "service.admin.UpdateTicketType"

	if fe := form.validate(); fe != nil {
		return fmt.Errorf("%s: %w", op, fe)
	}

	err := s.backend.UpdateTicketType(ctx, id, domain.TicketType{
		TicketTypeID: id,
		TypeName:     form.TypeName,
		Description:  form.Description,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.record(ctx, domain.AuditUpdate, redisx.EntityTicketType, id,
		"updated ticket type "+form.TypeName, catalogChange(redisx.EntityTicketType, id, 0))

	return nil
}

// DeleteTicketType removes the ticket type from the shared cached list before
// the backend call and restores the previous list if the call fails.
//
// Parameters:
//   - ctx: request-scoped context carrying the acting admin.
//   - id: ticket type to delete.
//
// Returns:
//   - error: *admin.ActionError titled "Delete Failed" wrapping the backend
//     error; the cached list is rolled back.
func (s *Service) DeleteTicketType(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteTicketType"

	previous, err := s.ticketTypes(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, &ActionError{Title: titleDeleteFailed, Err: err})
	}

	remaining := slices.DeleteFunc(slices.Clone(previous), func(t domain.TicketType) bool {
		return t.TicketTypeID == id
	})
	storeList(ctx, s, redisx.KeyTicketTypes(), remaining)

	if err := s.backend.DeleteTicketType(ctx, id); err != nil {
		storeList(ctx, s, redisx.KeyTicketTypes(), previous)
		return fmt.Errorf("%s: %w", op, &ActionError{Title: titleDeleteFailed, Err: err})
	}

	s.record(ctx, domain.AuditDelete, redisx.EntityTicketType, id,
		"deleted ticket type", catalogChange(redisx.EntityTicketType, id, 0))

	return nil
}
