package backend

import (
	"context"
	"net/http"

	"github.com/kirinyoku/fringe/internal/domain"
)

func (c *Client) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	const op = "backend.Client.ListVenues"

	var out []domain.Venue
	if err := c.do(ctx, http.MethodGet, "/api/venues", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) GetVenue(ctx context.Context, id int64) (*domain.Venue, error) {
	const op = "backend.Client.GetVenue"

	var out domain.Venue
	if err := c.do(ctx, http.MethodGet, idPath("/api/venues", id), nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) CreateVenue(ctx context.Context, v domain.Venue) (*domain.Venue, error) {
	const op = "backend.Client.CreateVenue"

	var out domain.Venue
	if err := c.do(ctx, http.MethodPost, "/api/venues", nil, v, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) UpdateVenue(ctx context.Context, id int64, v domain.Venue) error {
	const op = "backend.Client.UpdateVenue"

	if err := c.do(ctx, http.MethodPut, idPath("/api/venues", id), nil, v, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) DeleteVenue(ctx context.Context, id int64) error {
	const op = "backend.Client.DeleteVenue"

	if err := c.do(ctx, http.MethodDelete, idPath("/api/venues", id), nil, nil, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) ListVenueTypes(ctx context.Context) ([]domain.VenueType, error) {
	const op = "backend.Client.ListVenueTypes"

	var out []domain.VenueType
	if err := c.do(ctx, http.MethodGet, "/api/venues/venue-types", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) ListLocations(ctx context.Context) ([]domain.Location, error) {
	const op = "backend.Client.ListLocations"

	var out []domain.Location
	if err := c.do(ctx, http.MethodGet, "/api/locations", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	const op = "backend.Client.GetLocation"

	var out domain.Location
	if err := c.do(ctx, http.MethodGet, idPath("/api/locations", id), nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) CreateLocation(ctx context.Context, l domain.Location) (*domain.Location, error) {
	const op = "backend.Client.CreateLocation"

	var out domain.Location
	if err := c.do(ctx, http.MethodPost, "/api/locations", nil, l, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) UpdateLocation(ctx context.Context, id int64, l domain.Location) error {
	const op = "backend.Client.UpdateLocation"

	if err := c.do(ctx, http.MethodPut, idPath("/api/locations", id), nil, l, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) DeleteLocation(ctx context.Context, id int64) error {
	const op = "backend.Client.DeleteLocation"

	if err := c.do(ctx, http.MethodDelete, idPath("/api/locations", id), nil, nil, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}
