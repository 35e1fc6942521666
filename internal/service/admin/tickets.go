package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

const entityTicket = "ticket"

var ticketTable = listing.Table[domain.Ticket]{
	Text: func(t domain.Ticket) []string {
		return []string{t.QRInCode, t.ShowName, t.VenueName, t.UserName}
	},
	Status: func(t domain.Ticket, status string) bool {
		switch strings.ToLower(status) {
		case "checkedin":
			return t.IsCheckedIn
		case "cancelled":
			return t.Cancelled
		case "open":
			return !t.IsCheckedIn && !t.Cancelled
		default:
			return true
		}
	},
	Sorts: map[string]func(a, b domain.Ticket) int{
		"reference": listing.By(func(t domain.Ticket) string { return t.QRInCode }),
		"show":      listing.ByFold(func(t domain.Ticket) string { return t.ShowName }),
		"date":      listing.By(func(t domain.Ticket) string { return t.PerformanceDate }),
	},
	DefaultSort: "date",
}

// TicketPage is a page of grouped bookings plus counts over all of them.
type TicketPage struct {
	listing.Page[domain.Ticket]
	CheckedIn int `json:"checkedIn"`
	Cancelled int `json:"cancelled"`
}

// ListTickets lists bookings, one row per booking reference.
func (s *Service) ListTickets(ctx context.Context, q listing.Query) (TicketPage, error) {
	const op = "service.admin.ListTickets"

	tickets, err := s.backend.ListGroupedTickets(ctx)
	if err != nil {
		return TicketPage{}, fmt.Errorf("%s: %w", op, err)
	}

	page := TicketPage{Page: ticketTable.Apply(tickets, q)}
	for _, t := range tickets {
		if t.IsCheckedIn {
			page.CheckedIn++
		}
		if t.Cancelled {
			page.Cancelled++
		}
	}

	return page, nil
}

func (s *Service) BookingTickets(ctx context.Context, ref string) ([]domain.Ticket, error) {
	const op = "service.admin.BookingTickets"

	tickets, err := s.backend.ListTicketsByBooking(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tickets, nil
}

// UpdateTicketStatus applies one status to every ticket of a booking.
//
// Parameters:
//   - ctx: request-scoped context carrying the acting admin.
//   - ref: booking reference.
//   - form: the requested status.
//
// Returns:
//   - []domain.Ticket: the updated tickets.
//   - error: admin.ErrConflictingStatus if both flags are set.
//   - error: admin.ErrNoChanges if the booking already has that status.
//   - error: admin.ErrBookingNotFound if the booking has no tickets.
func (s *Service) UpdateTicketStatus(ctx context.Context, ref string, form TicketStatusForm) ([]domain.Ticket, error) {
	const op = "service.admin.UpdateTicketStatus"

	if form.IsCheckedIn && form.Cancelled {
		return nil, fmt.Errorf("%s: %w", op, ErrConflictingStatus)
	}

	current, err := s.backend.ListTicketsByBooking(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
	}

	if current[0].IsCheckedIn == form.IsCheckedIn && current[0].Cancelled == form.Cancelled {
		return nil, fmt.Errorf("%s: %w", op, ErrNoChanges)
	}

	updated, err := s.backend.UpdateBookingTickets(ctx, ref, domain.TicketStatus{
		IsCheckedIn: form.IsCheckedIn,
		Cancelled:   form.Cancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := fmt.Sprintf("set checkedIn=%t cancelled=%t", form.IsCheckedIn, form.Cancelled)
	var ch *redisx.CatalogChange
	if form.Cancelled != current[0].Cancelled {
		ch = catalogChange(redisx.EntityBooking, current[0].PerformanceID, 0)
	}
	s.record(ctx, domain.AuditStatusUpdate, entityTicket, ref, summary, ch)

	return updated, nil
}

// DeleteBookingTickets removes every ticket of a booking and frees its seats.
func (s *Service) DeleteBookingTickets(ctx context.Context, ref string) error {
	const op = "service.admin.DeleteBookingTickets"

	current, err := s.backend.ListTicketsByBooking(ctx, ref)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.backend.DeleteBookingTickets(ctx, ref); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var ch *redisx.CatalogChange
	if len(current) > 0 {
		ch = catalogChange(redisx.EntityBooking, current[0].PerformanceID, 0)
	}
	s.record(ctx, domain.AuditDelete, entityTicket, ref,
		fmt.Sprintf("deleted %d tickets", len(current)), ch)

	return nil
}
