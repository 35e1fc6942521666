package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost"})
	assert.Error(t, err)
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMsg     string
	}{
		{name: "plain text", status: 400, contentType: "text/plain; charset=utf-8", body: "Venue name taken", wantMsg: "Venue name taken"},
		{name: "json string", status: 400, contentType: "application/json", body: `"Seat already reserved"`, wantMsg: "Seat already reserved"},
		{name: "json message", status: 409, contentType: "application/json", body: `{"message":"Duplicate","title":"ignored"}`, wantMsg: "Duplicate"},
		{name: "json title", status: 400, contentType: "application/json", body: `{"title":"One or more validation errors occurred."}`, wantMsg: "One or more validation errors occurred."},
		{name: "problem detail", status: 404, contentType: "application/problem+json", body: `{"detail":"Show 7 not found"}`, wantMsg: "Show 7 not found"},
		{name: "json without known fields", status: 400, contentType: "application/json", body: `{"errors":{"name":["required"]}}`, wantMsg: `{"errors":{"name":["required"]}}`},
		{name: "html body", status: 502, contentType: "text/html", body: "Bad gateway", wantMsg: "Bad gateway"},
		{name: "empty body", status: 500, contentType: "", body: "", wantMsg: "Request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ListShows(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListShows(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, StatusOf(err))
}

func TestBearerTokenForwarded(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := WithToken(context.Background(), "abc.def.ghi")
	require.NoError(t, c.DeleteVenue(ctx, 3))

	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
}

func TestGetPerformanceDecodesTimeSpans(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Performances/12", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"performanceId": 12,
			"showId": 4,
			"performanceDate": "2025-02-20T00:00:00",
			"startTime": {"hours": 19, "minutes": 30, "seconds": 0},
			"endTime": "21:00:00",
			"seatingType": 1,
			"active": true,
			"seatingPlan": {"seatingPlanId": 1, "venueId": 2, "rows": 5, "seatsPerRow": 8},
			"reservedSeats": [{"reservedSeatId": 1, "rowNumber": 1, "seatNumber": 1}],
			"ticketPrices": [{"ticketPriceId": 7, "ticketTypeName": "Adult", "price": 50}]
		}`)
	})

	p, err := c.GetPerformance(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, domain.CustomisedSeating, p.SeatingType)
	assert.Equal(t, "19:30:00", p.StartTime.String())
	assert.Equal(t, "21:00:00", p.EndTime.String())
	require.NotNil(t, p.SeatingPlan)
	assert.Equal(t, 5, p.SeatingPlan.Rows)
	assert.Len(t, p.ReservedSeats, 1)
	assert.Equal(t, 50.0, p.TicketPrices[0].Price)
}

func TestCreatePerformancePayloadCarriesPriceVariants(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"performanceId": 99}`)
	})

	in := domain.UpdatePerformance{PerformanceFields: domain.PerformanceFields{
		PerformanceDate: "2025-02-20",
		StartTime:       "19:30:00",
		EndTime:         "21:00:00",
		TicketPrices: []domain.TicketPriceInput{
			domain.ExistingTicketPrice{TicketPriceID: 5, TicketTypeID: 1, Price: 40},
			domain.NewTicketPrice{TicketTypeID: 2, Price: 25},
		},
	}}
	require.NoError(t, c.UpdatePerformance(context.Background(), 99, in))

	prices := got["ticketPrices"].([]any)
	require.Len(t, prices, 2)
	assert.Equal(t, map[string]any{"ticketPriceId": 5.0, "ticketTypeId": 1.0, "price": 40.0}, prices[0])
	assert.Equal(t, map[string]any{"ticketTypeId": 2.0, "price": 25.0}, prices[1])
}

func TestShowSalesReportQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Report/show-sales", r.URL.Path)
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2025-01-31", r.URL.Query().Get("endDate"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"showId":1,"showName":"Circus","totalTicketsSold":10,"totalRevenue":250.5}]`)
	})

	rows, err := c.ShowSalesReport(context.Background(), "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 250.5, rows[0].TotalRevenue)
}

func TestUploadImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/FileUpload/show", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "poster.png", hdr.Filename)
		assert.Equal(t, []byte("png-bytes"), b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"path":"/uploads/show/poster.png"}`)
	})

	path, err := c.UploadImage(context.Background(), UploadShow, "poster.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/show/poster.png", path)
	assert.Equal(t, c.BaseURL()+"/uploads/show/poster.png", c.FileURL(path))
}

func TestFileURL(t *testing.T) {
	c, err := New(Config{BaseURL: "http://api.test/"})
	require.NoError(t, err)

	assert.Equal(t, "", c.FileURL(""))
	assert.Equal(t, "https://cdn.test/a.png", c.FileURL("https://cdn.test/a.png"))
	assert.Equal(t, "http://api.test/img/a.png", c.FileURL("/img/a.png"))
	assert.Equal(t, "http://api.test/img/a.png", c.FileURL("img/a.png"))
}
