package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kirinyoku/fringe/internal/domain"
)

func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingResult, error) {
	const op = "backend.Client.CreateBooking"

	var out domain.BookingResult
	if err := c.do(ctx, http.MethodPost, "/api/Booking", nil, req, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) GetBookingConfirmation(ctx context.Context, ref string) (*domain.BookingConfirmation, error) {
	const op = "backend.Client.GetBookingConfirmation"

	var out domain.BookingConfirmation
	path := "/api/Booking/confirmation/" + url.PathEscape(ref)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}

func (c *Client) SubmitUserQuery(ctx context.Context, q domain.UserQuery) error {
	const op = "backend.Client.SubmitUserQuery"

	if err := c.do(ctx, http.MethodPost, "/api/userquery", nil, q, nil); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ShowSalesReport returns per-show sales between two dates (YYYY-MM-DD).
func (c *Client) ShowSalesReport(ctx context.Context, startDate, endDate string) ([]domain.ShowSales, error) {
	const op = "backend.Client.ShowSalesReport"

	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}

	var out []domain.ShowSales
	if err := c.do(ctx, http.MethodGet, "/api/Report/show-sales", q, nil, &out); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}
