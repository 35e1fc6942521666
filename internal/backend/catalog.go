package backend

import (
	"context"
	"net/http"

	"github.com/kirinyoku/fringe/internal/domain"
)

func (c *Client) ListShows(ctx context.Context) ([]domain.Show, error) {
	const op = "backend.Client.ListShows"

	var out []domain.Show
	if err := c.do(ctx, http.MethodGet, "/api/shows", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) GetShow(ctx context.Context, id int64) (*domain.Show, error) {
	const op = "backend.Client.GetShow"

	var out domain.Show
	if err := c.do(ctx, http.MethodGet, idPath("/api/shows", id), nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) CreateShow(ctx context.Context, s domain.Show) (*domain.Show, error) {
	const op = "backend.Client.CreateShow"

	var out domain.Show
	if err := c.do(ctx, http.MethodPost, "/api/shows", nil, s, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) UpdateShow(ctx context.Context, id int64, s domain.Show) error {
	const op = "backend.Client.UpdateShow"

	if err := c.do(ctx, http.MethodPut, idPath("/api/shows", id), nil, s, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) DeleteShow(ctx context.Context, id int64) error {
	const op = "backend.Client.DeleteShow"

	if err := c.do(ctx, http.MethodDelete, idPath("/api/shows", id), nil, nil, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) ListAgeRestrictions(ctx context.Context) ([]domain.AgeRestriction, error) {
	const op = "backend.Client.ListAgeRestrictions"

	var out []domain.AgeRestriction
	if err := c.do(ctx, http.MethodGet, "/api/shows/age-restrictions", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) ListShowTypes(ctx context.Context) ([]domain.ShowType, error) {
	const op = "backend.Client.ListShowTypes"

	var out []domain.ShowType
	if err := c.do(ctx, http.MethodGet, "/api/shows/show-types", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}
