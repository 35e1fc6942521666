package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/kirinyoku/fringe/internal/booking"
	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/messaging"
	redisx "github.com/kirinyoku/fringe/internal/redis"
)

// Catalog resolves the performance a selection is made for.
type Catalog interface {
	BookablePerformance(ctx context.Context, id int64) (*domain.Performance, error)
}

type Backend interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingResult, error)
	GetBookingConfirmation(ctx context.Context, ref string) (*domain.BookingConfirmation, error)
	SubmitUserQuery(ctx context.Context, q domain.UserQuery) error
}

// SelectionRepository keeps one in-progress selection per session.
type SelectionRepository interface {
	Load(ctx context.Context, sessionID string) (booking.SelectionState, bool, error)
	Save(ctx context.Context, sessionID string, st booking.SelectionState) error
	Clear(ctx context.Context, sessionID string) error
}

type Limiter interface {
	Allow(ctx context.Context, suffix string) (bool, int64, time.Duration, error)
}

type Notifier interface {
	PublishBookingConfirmed(ctx context.Context, ev messaging.BookingConfirmed) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, change redisx.CatalogChange)
}

// Deps wires the checkout service. Limiter, Notifier and Broadcaster are
// optional.
type Deps struct {
	Catalog     Catalog
	Backend     Backend
	Selections  SelectionRepository
	Drafts      booking.DraftRepository
	Limiter     Limiter
	Notifier    Notifier
	Broadcaster Broadcaster
	Logger      *slog.Logger
}

type Service struct {
	catalog     Catalog
	backend     Backend
	selections  SelectionRepository
	drafts      booking.DraftRepository
	limiter     Limiter
	notifier    Notifier
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		catalog:     d.Catalog,
		backend:     d.Backend,
		selections:  d.Selections,
		drafts:      d.Drafts,
		limiter:     d.Limiter,
		notifier:    d.Notifier,
		broadcaster: d.Broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

// SelectionView is the selection as presented to the booking page.
type SelectionView struct {
	PerformanceID   int64                            `json:"performanceId"`
	ShowID          int64                            `json:"showId"`
	ShowName        string                           `json:"showName"`
	PerformanceDate string                           `json:"performanceDate"`
	StartTime       domain.TimeSpan                  `json:"startTime"`
	SeatingType     domain.SeatingType               `json:"seatingType"`
	TicketPrices    []domain.TicketPrice             `json:"ticketPrices"`
	Tickets         map[int64]booking.SelectedTicket `json:"tickets"`
	TotalTickets    int                              `json:"totalTickets"`
	TotalAmount     string                           `json:"totalAmount"`
	SeatingPlan     *domain.SeatingPlan              `json:"seatingPlan,omitempty"`
	ReservedSeats   []domain.ReservedSeat            `json:"reservedSeats,omitempty"`
	SelectedSeats   []booking.Seat                   `json:"selectedSeats,omitempty"`
	SeatState       string                           `json:"seatState,omitempty"`
	Ready           bool                             `json:"ready"`
}

func newSelectionView(sel *booking.Selection) *SelectionView {
	p := sel.Performance
	v := &SelectionView{
		PerformanceID:   p.PerformanceID,
		ShowID:          p.ShowID,
		ShowName:        p.ShowName,
		PerformanceDate: p.PerformanceDate,
		StartTime:       p.StartTime,
		SeatingType:     p.SeatingType,
		TicketPrices:    p.TicketPrices,
		Tickets:         sel.Tickets.Entries(),
		TotalTickets:    sel.Tickets.TotalCount(),
		TotalAmount:     sel.Tickets.TotalAmount(),
		Ready:           sel.Ready(),
	}

	if sel.Seats != nil {
		v.SeatingPlan = p.SeatingPlan
		v.ReservedSeats = p.ReservedSeats
		v.SelectedSeats = sel.Seats.Selected()
		v.SeatState = sel.Seats.State().String()
	}

	return v
}

// StartSelection begins a new selection for a performance, replacing any
// selection the session already had.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sessionID: visitor session.
//   - performanceID: performance to book.
//
// Returns:
//   - *SelectionView: the empty selection.
//   - error: catalog.ErrPerformanceUnavailable if the performance cannot be
//     booked.
func (s *Service) StartSelection(ctx context.Context, sessionID string, performanceID int64) (*SelectionView, error) {
	const op = "service.checkout.StartSelection"

	p, err := s.catalog.BookablePerformance(ctx, performanceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sel := booking.NewSelection(*p)
	if err := s.selections.Save(ctx, sessionID, sel.State()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newSelectionView(sel), nil
}

// Selection returns the session's current selection, replayed against fresh
// performance data.
func (s *Service) Selection(ctx context.Context, sessionID string) (*SelectionView, error) {
	const op = "service.checkout.Selection"

	sel, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newSelectionView(sel), nil
}

// SetQuantity sets the quantity of one ticket price, clamped to
// [0, booking.MaxQuantity].
//
// Returns:
//   - error: booking.ErrUnknownTicketPrice if the price is not offered.
//   - error: checkout.ErrNoSelection if no selection was started.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, ticketPriceID int64, quantity int) (*SelectionView, error) {
	const op = "service.checkout.SetQuantity"

	sel, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := sel.SetQuantity(ticketPriceID, quantity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.selections.Save(ctx, sessionID, sel.State()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newSelectionView(sel), nil
}

// ToggleSeat adds or removes one seat. Reserved seats, seats outside the plan
// and additions beyond the ticket count leave the selection unchanged; the
// returned result says which case applied.
func (s *Service) ToggleSeat(ctx context.Context, sessionID string, seat booking.Seat) (*SelectionView, booking.ToggleResult, error) {
	const op = "service.checkout.ToggleSeat"

	sel, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := sel.ToggleSeat(seat)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if res.Changed() {
		if err := s.selections.Save(ctx, sessionID, sel.State()); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return newSelectionView(sel), res, nil
}

// Confirm turns the selection into the session's booking draft.
//
// Returns:
//   - *booking.Draft: the stored draft.
//   - error: booking.ErrNoTickets or booking.ErrSeatSelectionIncomplete if
//     the selection is not ready.
func (s *Service) Confirm(ctx context.Context, sessionID string) (*booking.Draft, error) {
	const op = "service.checkout.Confirm"

	sel, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d, err := booking.BuildDraft(sel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.drafts.Save(ctx, sessionID, d); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// Draft returns the session's booking draft.
//
// Returns:
//   - error: booking.ErrNoDraft if the session has none.
func (s *Service) Draft(ctx context.Context, sessionID string) (*booking.Draft, error) {
	const op = "service.checkout.Draft"

	d, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// Submit validates the checkout form and sends the booking. On success the
// draft and selection are cleared; on failure both are kept so the visitor
// can retry.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sessionID: visitor session.
//   - form: customer details.
//
// Returns:
//   - *domain.BookingResult: the booking reference.
//   - error: booking.ErrNoDraft if there is nothing to submit.
//   - error: validation.FieldErrors if the form is invalid.
//   - error: *checkout.RateLimitError if the session submits too often.
//   - error: backend.ErrUnavailable or *backend.APIError from the backend.
func (s *Service) Submit(ctx context.Context, sessionID string, form booking.CheckoutForm) (*domain.BookingResult, error) {
	const op = "service.checkout.Submit"

	d, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form.Normalize()
	if fe := form.Validate(); fe != nil {
		return nil, fmt.Errorf("%s: %w", op, fe)
	}

	if s.limiter != nil {
		ok, _, retry, err := s.limiter.Allow(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, &RateLimitError{RetryAfter: retry})
		}
	}

	res, err := s.backend.CreateBooking(ctx, booking.NewBookingRequest(d, form))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.drafts.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("draft clear failed", "session", sessionID, "error", err)
	}
	if err := s.selections.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("selection clear failed", "session", sessionID, "error", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(ctx, redisx.CatalogChange{
			Entity: redisx.EntityBooking,
			ID:     d.PerformanceID,
			ShowID: d.ShowID,
		})
	}

	if s.notifier != nil {
		ev := messaging.BookingConfirmed{
			BookingReference: res.BookingReference,
			PerformanceID:    d.PerformanceID,
			ShowID:           d.ShowID,
			ShowName:         d.ShowName,
			PerformanceDate:  d.PerformanceDate,
			Email:            form.Email,
			FirstName:        form.FirstName,
			LastName:         form.LastName,
			TotalTickets:     d.TotalTickets,
			TotalAmount:      d.TotalAmount,
			Newsletter:       form.Newsletter,
			ConfirmedAt:      s.now().UTC(),
		}
		if err := s.notifier.PublishBookingConfirmed(ctx, ev); err != nil {
			s.logger.Warn("booking event publish failed", "reference", res.BookingReference, "error", err)
		}
	}

	return res, nil
}

// Abandon discards the session's draft and selection.
func (s *Service) Abandon(ctx context.Context, sessionID string) error {
	const op = "service.checkout.Abandon"

	if err := s.drafts.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.selections.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Confirmation is a completed booking with its total.
type Confirmation struct {
	BookingReference string          `json:"bookingReference"`
	Tickets          []domain.Ticket `json:"tickets"`
	TotalTickets     int             `json:"totalTickets"`
	TotalAmount      string          `json:"totalAmount"`
}

// Confirmation fetches the tickets issued for a booking reference.
func (s *Service) Confirmation(ctx context.Context, ref string) (*Confirmation, error) {
	const op = "service.checkout.Confirmation"

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyBooking)
	}

	bc, err := s.backend.GetBookingConfirmation(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cents int64
	for _, t := range bc.Tickets {
		cents += int64(math.Round(t.Price * 100))
	}

	reference := bc.BookingReference
	if reference == "" {
		reference = ref
	}

	return &Confirmation{
		BookingReference: reference,
		Tickets:          bc.Tickets,
		TotalTickets:     len(bc.Tickets),
		TotalAmount:      booking.FormatCents(cents),
	}, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*booking.Selection, error) {
	st, ok, err := s.selections.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSelection
	}

	p, err := s.catalog.BookablePerformance(ctx, st.PerformanceID)
	if err != nil {
		return nil, err
	}

	return booking.RestoreSelection(*p, st), nil
}
