package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kirinyoku/fringe/internal/domain"
)

func (c *Client) ListPerformances(ctx context.Context) ([]domain.Performance, error) {
	const op = "backend.Client.ListPerformances"

	var out []domain.Performance
	if err := c.do(ctx, http.MethodGet, "/api/Performances", nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) ListPerformancesByShow(ctx context.Context, showID int64) ([]domain.Performance, error) {
	const op = "backend.Client.ListPerformancesByShow"

	var out []domain.Performance
	path := fmt.Sprintf("/api/Performances/show/%d", showID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) GetPerformance(ctx context.Context, id int64) (*domain.Performance, error) {
	const op = "backend.Client.GetPerformance"

	var out domain.Performance
	if err := c.do(ctx, http.MethodGet, idPath("/api/Performances", id), nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) CreatePerformance(ctx context.Context, in domain.CreatePerformance) (*domain.Performance, error) {
	const op = "backend.Client.CreatePerformance"

	var out domain.Performance
	if err := c.do(ctx, http.MethodPost, "/api/Performances", nil, in, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) BatchCreatePerformances(
	ctx context.Context,
	in domain.BatchCreatePerformances,
) ([]domain.Performance, error) {
	const op = "backend.Client.BatchCreatePerformances"

	var out []domain.Performance
	if err := c.do(ctx, http.MethodPost, "/api/Performances/batch", nil, in, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (c *Client) UpdatePerformance(ctx context.Context, id int64, in domain.UpdatePerformance) error {
	const op = "backend.Client.UpdatePerformance"

	if err := c.do(ctx, http.MethodPut, idPath("/api/Performances", id), nil, in, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

func (c *Client) DeletePerformance(ctx context.Context, id int64) error {
	const op = "backend.Client.DeletePerformance"

	if err := c.do(ctx, http.MethodDelete, idPath("/api/Performances", id), nil, nil, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}
