package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kirinyoku/fringe/internal/domain"
)

func (c *Client) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	const op = "backend.Client.ListTicketTypes"

	var out []domain.TicketType
	if err := c.do(ctx, http.MethodGet, "/api/tickettypes", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) CreateTicketType(ctx context.Context, t domain.TicketType) (*domain.TicketType, error) {
	const op = "backend.Client.CreateTicketType"

	var out domain.TicketType
	if err := c.do(ctx, http.MethodPost, "/api/tickettypes", nil, t, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) UpdateTicketType(ctx context.Context, id int64, t domain.TicketType) error {
	const op = "backend.Client.UpdateTicketType"

	if err := c.do(ctx, http.MethodPut, idPath("/api/tickettypes", id), nil, t, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) DeleteTicketType(ctx context.Context, id int64) error {
	const op = "backend.Client.DeleteTicketType"

	if err := c.do(ctx, http.MethodDelete, idPath("/api/tickettypes", id), nil, nil, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ListGroupedTickets returns one representative ticket per booking.
func (c *Client) ListGroupedTickets(ctx context.Context) ([]domain.Ticket, error) {
	const op = "backend.Client.ListGroupedTickets"

	var out []domain.Ticket
	if err := c.do(ctx, http.MethodGet, "/api/tickets/group-by-booking", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) ListTicketsByBooking(ctx context.Context, ref string) ([]domain.Ticket, error) {
	const op = "backend.Client.ListTicketsByBooking"

	var out []domain.Ticket
	path := "/api/tickets/by-booking/" + url.PathEscape(ref)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) UpdateBookingTickets(
	ctx context.Context,
	ref string,
	status domain.TicketStatus,
) ([]domain.Ticket, error) {
	const op = "backend.Client.UpdateBookingTickets"

	var out []domain.Ticket
	path := "/api/tickets/booking/" + url.PathEscape(ref)
	if err := c.do(ctx, http.MethodPut, path, nil, status, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) DeleteBookingTickets(ctx context.Context, ref string) error {
	const op = "backend.Client.DeleteBookingTickets"

	path := "/api/tickets/booking/" + url.PathEscape(ref)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}
