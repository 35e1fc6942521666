package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/listing"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	"github.com/kirinyoku/fringe/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend implements only what a test sets; anything else panics through
// the nil embedded interface.
type fakeBackend struct {
	Backend

	ticketTypes      []domain.TicketType
	deleteTicketType func(id int64) error

	locations      []domain.Location
	createdLocs    []domain.Location
	createdPerf    *domain.CreatePerformance
	updatedPerf    *domain.UpdatePerformance
	tickets        map[string][]domain.Ticket
	statusUpdates  []domain.TicketStatus
	shows          []domain.Show
	venues         []domain.Venue
	performances   []domain.Performance
	sales          []domain.ShowSales
	salesErr       error
	salesRange     [2]string
	uploads        []string
	uploadedBytes  []byte
	listTypesCalls int
}

func (f *fakeBackend) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	f.listTypesCalls++
	return f.ticketTypes, nil
}

func (f *fakeBackend) DeleteTicketType(ctx context.Context, id int64) error {
	return f.deleteTicketType(id)
}

func (f *fakeBackend) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return f.locations, nil
}

func (f *fakeBackend) CreateLocation(ctx context.Context, l domain.Location) (*domain.Location, error) {
	l.LocationID = int64(len(f.locations) + len(f.createdLocs) + 1)
	f.createdLocs = append(f.createdLocs, l)
	return &l, nil
}

func (f *fakeBackend) CreatePerformance(ctx context.Context, in domain.CreatePerformance) (*domain.Performance, error) {
	f.createdPerf = &in
	return &domain.Performance{PerformanceID: 99, ShowID: in.ShowID}, nil
}

func (f *fakeBackend) UpdatePerformance(ctx context.Context, id int64, in domain.UpdatePerformance) error {
	f.updatedPerf = &in
	return nil
}

func (f *fakeBackend) ListTicketsByBooking(ctx context.Context, ref string) ([]domain.Ticket, error) {
	return f.tickets[ref], nil
}

func (f *fakeBackend) UpdateBookingTickets(ctx context.Context, ref string, st domain.TicketStatus) ([]domain.Ticket, error) {
	f.statusUpdates = append(f.statusUpdates, st)
	out := make([]domain.Ticket, 0, len(f.tickets[ref]))
	for _, t := range f.tickets[ref] {
		t.IsCheckedIn, t.Cancelled = st.IsCheckedIn, st.Cancelled
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeBackend) ListShows(ctx context.Context) ([]domain.Show, error) {
	return f.shows, nil
}

func (f *fakeBackend) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	return f.venues, nil
}

func (f *fakeBackend) ListPerformances(ctx context.Context) ([]domain.Performance, error) {
	return f.performances, nil
}

func (f *fakeBackend) ShowSalesReport(ctx context.Context, start, end string) ([]domain.ShowSales, error) {
	f.salesRange = [2]string{start, end}
	return f.sales, f.salesErr
}

func (f *fakeBackend) UploadImage(
	ctx context.Context,
	kind backend.UploadKind,
	filename, contentType string,
	data []byte,
) (string, error) {
	f.uploads = append(f.uploads, string(kind)+"/"+filename+" "+contentType)
	f.uploadedBytes = data
	return "/uploads/" + string(kind) + "/" + filename, nil
}

func (f *fakeBackend) FileURL(path string) string {
	return "http://backend.test" + path
}

type memCache struct {
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (c *memCache) GetString(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) SetString(ctx context.Context, key, val string, ttl time.Duration) error {
	c.data[key] = val
	return nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeAuditor struct {
	err        error
	entries    []domain.AuditEntry
	changes    []*redisx.CatalogChange
	broadcasts []redisx.CatalogChange
}

func (a *fakeAuditor) Record(ctx context.Context, e domain.AuditEntry, ch *redisx.CatalogChange) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, e)
	a.changes = append(a.changes, ch)
	return nil
}

func (a *fakeAuditor) Broadcast(ctx context.Context, ch redisx.CatalogChange) {
	a.broadcasts = append(a.broadcasts, ch)
}

func newTestService(fb *fakeBackend, cache Cache, aud *fakeAuditor) *Service {
	svc := New(Deps{
		Backend: fb,
		Auditor: aud,
		Cache:   cache,
		Config:  Config{Location: time.UTC},
	})
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func cachedTicketTypes(t *testing.T, c *memCache) []domain.TicketType {
	t.Helper()

	raw, ok := c.data[redisx.KeyTicketTypes()]
	require.True(t, ok)

	var out []domain.TicketType
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestDeleteTicketTypeRollsBackOnFailure(t *testing.T) {
	fb := &fakeBackend{
		ticketTypes: []domain.TicketType{
			{TicketTypeID: 1, TypeName: "Adult"},
			{TicketTypeID: 2, TypeName: "Child"},
		},
	}
	cache := newMemCache()
	aud := &fakeAuditor{}
	svc := newTestService(fb, cache, aud)

	var seenDuringCall []domain.TicketType
	fb.deleteTicketType = func(id int64) error {
		seenDuringCall = cachedTicketTypes(t, cache)
		return &backend.APIError{Status: http.StatusConflict, Message: "Ticket type is in use"}
	}

	err := svc.DeleteTicketType(context.Background(), 2)
	require.Error(t, err)

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "Delete Failed", actionErr.Title)
	assert.Equal(t, http.StatusConflict, backend.StatusOf(err))

	require.Len(t, seenDuringCall, 1)
	assert.Equal(t, int64(1), seenDuringCall[0].TicketTypeID)

	restored := cachedTicketTypes(t, cache)
	require.Len(t, restored, 2)
	assert.Equal(t, int64(2), restored[1].TicketTypeID)
	assert.Empty(t, aud.entries)
}

func TestDeleteTicketTypeRecordsAudit(t *testing.T) {
	fb := &fakeBackend{
		ticketTypes: []domain.TicketType{
			{TicketTypeID: 1, TypeName: "Adult"},
			{TicketTypeID: 2, TypeName: "Child"},
		},
		deleteTicketType: func(id int64) error { return nil },
	}
	cache := newMemCache()
	aud := &fakeAuditor{}
	svc := newTestService(fb, cache, aud)

	ctx := WithActor(context.Background(), "admin@fringe.test")
	require.NoError(t, svc.DeleteTicketType(ctx, 2))

	remaining := cachedTicketTypes(t, cache)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(1), remaining[0].TicketTypeID)

	require.Len(t, aud.entries, 1)
	assert.Equal(t, "admin@fringe.test", aud.entries[0].Actor)
	assert.Equal(t, domain.AuditDelete, aud.entries[0].Action)
	assert.Equal(t, "2", aud.entries[0].EntityID)
	require.NotNil(t, aud.changes[0])
	assert.Equal(t, redisx.EntityTicketType, aud.changes[0].Entity)
}

func TestListTicketTypesUsesCache(t *testing.T) {
	fb := &fakeBackend{ticketTypes: []domain.TicketType{
		{TicketTypeID: 1, TypeName: "Adult", Description: "Full price"},
		{TicketTypeID: 2, TypeName: "Concession", Description: "Students and seniors"},
	}}
	svc := newTestService(fb, newMemCache(), &fakeAuditor{})

	page, err := svc.ListTicketTypes(context.Background(), listing.Query{Search: "students"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Concession", page.Items[0].TypeName)

	_, err = svc.ListTicketTypes(context.Background(), listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, fb.listTypesCalls)
}

func TestCreateLocationRejectsDuplicate(t *testing.T) {
	fb := &fakeBackend{locations: []domain.Location{
		{LocationID: 1, LocationName: "Adelaide Oval"},
	}}
	svc := newTestService(fb, nil, &fakeAuditor{})

	form := LocationForm{
		LocationName: "  adelaide OVAL ",
		Address:      "War Memorial Dr",
		Suburb:       "North Adelaide",
		State:        "SA",
		PostalCode:   "5006",
		Country:      "Australia",
	}

	_, err := svc.CreateLocation(context.Background(), form)
	require.ErrorIs(t, err, ErrDuplicateLocation)
	assert.Equal(t, "Duplicate Location", ErrDuplicateLocation.Error())
	assert.Empty(t, fb.createdLocs)

	form.LocationName = "Garden of Unearthly Delights"
	l, err := svc.CreateLocation(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Garden of Unearthly Delights", l.LocationName)
	assert.Len(t, fb.createdLocs, 1)
}

func TestCreateLocationValidation(t *testing.T) {
	svc := newTestService(&fakeBackend{}, nil, &fakeAuditor{})

	_, err := svc.CreateLocation(context.Background(), LocationForm{
		LocationName: "Venue 7",
		Address:      "1 King William St",
		Suburb:       "Adelaide",
		State:        "SA",
		PostalCode:   "50A0",
		Country:      "Australia",
	})

	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Location name must not contain numbers", fe["locationName"])
	assert.Equal(t, "Postal code must contain only digits", fe["postalCode"])
}

func TestPerformancePriceVariants(t *testing.T) {
	fb := &fakeBackend{}
	svc := newTestService(fb, nil, &fakeAuditor{})

	form := PerformanceForm{
		ShowID:          10,
		PerformanceDate: "2025-03-14T00:00:00",
		StartTime:       "19:30:00",
		EndTime:         "21:00:00",
		SeatingType:     domain.GeneralAdmission,
		Active:          true,
		TicketPrices: []TicketPriceForm{
			{TicketPriceID: 5, TicketTypeID: 1, Price: 30},
			{TicketTypeID: 2, Price: 18.5},
		},
	}

	_, err := svc.CreatePerformance(context.Background(), form)
	require.NoError(t, err)
	require.NotNil(t, fb.createdPerf)
	assert.Equal(t, "2025-03-14", fb.createdPerf.PerformanceDate)
	assert.Equal(t, []domain.TicketPriceInput{
		domain.NewTicketPrice{TicketTypeID: 1, Price: 30},
		domain.NewTicketPrice{TicketTypeID: 2, Price: 18.5},
	}, fb.createdPerf.TicketPrices)

	require.NoError(t, svc.UpdatePerformance(context.Background(), 99, form))
	require.NotNil(t, fb.updatedPerf)
	assert.Equal(t, []domain.TicketPriceInput{
		domain.ExistingTicketPrice{TicketPriceID: 5, TicketTypeID: 1, Price: 30},
		domain.NewTicketPrice{TicketTypeID: 2, Price: 18.5},
	}, fb.updatedPerf.TicketPrices)
}

func TestPerformanceFormRejectsBadPrices(t *testing.T) {
	svc := newTestService(&fakeBackend{}, nil, &fakeAuditor{})

	_, err := svc.CreatePerformance(context.Background(), PerformanceForm{
		ShowID:          10,
		PerformanceDate: "2025-03-14",
		StartTime:       "7pm",
		EndTime:         "21:00:00",
		TicketPrices:    []TicketPriceForm{{TicketTypeID: 1, Price: 0}},
	})

	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Format HH:MM:SS", fe["startTime"])
	assert.Equal(t, "Ticket prices must be positive and greater than zero.", fe["ticketPrices[0].price"])

	_, err = svc.CreatePerformance(context.Background(), PerformanceForm{
		ShowID:          10,
		PerformanceDate: "2025-03-14",
		StartTime:       "19:00:00",
		EndTime:         "21:00:00",
	})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Please configure prices for the available ticket types.", fe["ticketPrices"])
}

func TestUpdateTicketStatus(t *testing.T) {
	open := []domain.Ticket{
		{TicketID: 1, PerformanceID: 3, QRInCode: "BK-1"},
		{TicketID: 2, PerformanceID: 3, QRInCode: "BK-1"},
	}

	tests := []struct {
		name    string
		form    TicketStatusForm
		wantErr error
	}{
		{name: "both flags", form: TicketStatusForm{IsCheckedIn: true, Cancelled: true}, wantErr: ErrConflictingStatus},
		{name: "unchanged", form: TicketStatusForm{}, wantErr: ErrNoChanges},
		{name: "check in", form: TicketStatusForm{IsCheckedIn: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{tickets: map[string][]domain.Ticket{"BK-1": open}}
			aud := &fakeAuditor{}
			svc := newTestService(fb, nil, aud)

			got, err := svc.UpdateTicketStatus(context.Background(), "BK-1", tt.form)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, fb.statusUpdates)
				assert.Empty(t, aud.entries)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.True(t, got[0].IsCheckedIn)
			require.Len(t, aud.entries, 1)
			assert.Equal(t, domain.AuditStatusUpdate, aud.entries[0].Action)
			assert.Equal(t, "BK-1", aud.entries[0].EntityID)
			assert.Nil(t, aud.changes[0])
		})
	}
}

func TestUpdateTicketStatusCancelInvalidatesPerformance(t *testing.T) {
	fb := &fakeBackend{tickets: map[string][]domain.Ticket{
		"BK-2": {{TicketID: 7, PerformanceID: 4, QRInCode: "BK-2"}},
	}}
	aud := &fakeAuditor{}
	svc := newTestService(fb, nil, aud)

	_, err := svc.UpdateTicketStatus(context.Background(), "BK-2", TicketStatusForm{Cancelled: true})
	require.NoError(t, err)

	require.Len(t, aud.changes, 1)
	require.NotNil(t, aud.changes[0])
	assert.Equal(t, redisx.EntityBooking, aud.changes[0].Entity)
	assert.Equal(t, int64(4), aud.changes[0].ID)

	_, err = svc.UpdateTicketStatus(context.Background(), "missing", TicketStatusForm{Cancelled: true})
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestAuditFailureStillBroadcasts(t *testing.T) {
	fb := &fakeBackend{tickets: map[string][]domain.Ticket{
		"BK-3": {{TicketID: 9, PerformanceID: 5, QRInCode: "BK-3"}},
	}}
	aud := &fakeAuditor{err: errors.New("pg down")}
	svc := newTestService(fb, nil, aud)

	_, err := svc.UpdateTicketStatus(context.Background(), "BK-3", TicketStatusForm{Cancelled: true})
	require.NoError(t, err)

	require.Len(t, aud.broadcasts, 1)
	assert.Equal(t, int64(5), aud.broadcasts[0].ID)
}

func TestSalesReport(t *testing.T) {
	fb := &fakeBackend{sales: []domain.ShowSales{{ShowName: "Gala", TotalTicketsSold: 3, TotalRevenue: 90}}}
	svc := newTestService(fb, nil, &fakeAuditor{})

	_, err := svc.SalesReport(context.Background(), "2025-03-20", "2025-03-01")
	require.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.SalesReport(context.Background(), "soon", "")
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "startDate")

	rows, err := svc.SalesReport(context.Background(), "2025-03-01T00:00:00", "2025-03-20")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, [2]string{"2025-03-01", "2025-03-20"}, fb.salesRange)
}

func TestWriteSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSalesCSV(&buf, []domain.ShowSales{
		{ShowName: "Comedy, Live", TotalTicketsSold: 12, TotalRevenue: 240},
		{ShowName: "Circus", TotalTicketsSold: 3, TotalRevenue: 37.5},
	})
	require.NoError(t, err)

	want := "Show Name,Total Tickets Sold,Total Revenue\n" +
		"\"Comedy, Live\",12,240.00\n" +
		"Circus,3,37.50\n"
	assert.Equal(t, want, buf.String())
}

func TestDashboard(t *testing.T) {
	fb := &fakeBackend{
		shows: []domain.Show{{ShowID: 1}, {ShowID: 2}, {ShowID: 3}},
		venues: []domain.Venue{
			{VenueID: 1, Active: true},
			{VenueID: 2, Active: false},
			{VenueID: 3, Active: true},
		},
		performances: []domain.Performance{
			{PerformanceID: 1, PerformanceDate: "2025-03-10T00:00:00", StartTime: domain.TimeSpan{Hours: 10}, Active: true},
			{PerformanceID: 2, PerformanceDate: "2025-03-10", StartTime: domain.TimeSpan{Hours: 19}, Active: true},
			{PerformanceID: 3, PerformanceDate: "2025-03-09", StartTime: domain.TimeSpan{Hours: 19}, Active: true},
			{PerformanceID: 4, PerformanceDate: "2025-03-15", StartTime: domain.TimeSpan{Hours: 19}, Active: false},
			{PerformanceID: 5, PerformanceDate: "2025-03-12", StartTime: domain.TimeSpan{Hours: 20}, Active: true},
			{PerformanceID: 6, PerformanceDate: "2025-03-11", StartTime: domain.TimeSpan{Hours: 18}, Active: true},
			{PerformanceID: 7, PerformanceDate: "2025-03-13", StartTime: domain.TimeSpan{Hours: 18}, Active: true},
			{PerformanceID: 8, PerformanceDate: "2025-03-14", StartTime: domain.TimeSpan{Hours: 18}, Active: true},
			{PerformanceID: 9, PerformanceDate: "2025-03-16", StartTime: domain.TimeSpan{Hours: 18}, Active: true},
		},
		sales: []domain.ShowSales{
			{ShowName: "A", TotalRevenue: 10},
			{ShowName: "B", TotalRevenue: 500},
			{ShowName: "C", TotalRevenue: 60},
			{ShowName: "D", TotalRevenue: 75},
			{ShowName: "E", TotalRevenue: 5},
			{ShowName: "F", TotalRevenue: 300},
		},
	}
	svc := newTestService(fb, nil, &fakeAuditor{})

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, d.PerformancesToday)
	assert.Equal(t, 3, d.ActiveShows)
	assert.Equal(t, 2, d.ActiveVenues)

	var upcoming []int64
	for _, p := range d.Upcoming {
		upcoming = append(upcoming, p.PerformanceID)
	}
	assert.Equal(t, []int64{2, 6, 5, 7, 8}, upcoming)

	var top []string
	for _, s := range d.TopShows {
		top = append(top, s.ShowName)
	}
	assert.Equal(t, []string{"B", "F", "D", "C", "A"}, top)
}

func TestDashboardFailsWhenAFetchFails(t *testing.T) {
	fb := &fakeBackend{salesErr: backend.ErrUnavailable}
	svc := newTestService(fb, nil, &fakeAuditor{})

	_, err := svc.Dashboard(context.Background())
	require.ErrorIs(t, err, backend.ErrUnavailable)
}

func TestUploadImage(t *testing.T) {
	fb := &fakeBackend{}
	aud := &fakeAuditor{}
	svc := newTestService(fb, nil, aud)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))

	_, err := svc.UploadImage(context.Background(), "poster", "a.png", buf.Bytes())
	require.ErrorIs(t, err, ErrUnknownUploadKind)

	up, err := svc.UploadImage(context.Background(), "venue", "stage.png", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "/uploads/venue/stage.png", up.Path)
	assert.Equal(t, "http://backend.test/uploads/venue/stage.png", up.URL)
	assert.Equal(t, 40, up.Width)
	assert.Equal(t, []string{"venue/stage.png image/png"}, fb.uploads)
	require.Len(t, aud.entries, 1)
	assert.Equal(t, domain.AuditUpload, aud.entries[0].Action)
}
