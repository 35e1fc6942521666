package booking

import (
	"errors"

	"github.com/kirinyoku/fringe/internal/domain"
)

var ErrGeneralAdmission = errors.New("performance has no assigned seating")

// Selection is the in-progress ticket and seat choice for one performance.
// Seats is nil for general admission performances.
type Selection struct {
	Performance domain.Performance
	Tickets     *TicketSelection
	Seats       *SeatSelection
}

func NewSelection(p domain.Performance) *Selection {
	s := &Selection{
		Performance: p,
		Tickets:     NewTicketSelection(p.TicketPrices),
	}

	if p.SeatingType == domain.CustomisedSeating {
		var plan domain.SeatingPlan
		if p.SeatingPlan != nil {
			plan = *p.SeatingPlan
		}
		s.Seats = NewSeatSelection(plan, p.ReservedSeats, 0)
	}

	return s
}

// SetQuantity updates a ticket line and keeps the seat target equal to the
// ticket count.
func (s *Selection) SetQuantity(ticketPriceID int64, quantity int) error {
	if err := s.Tickets.SetQuantity(ticketPriceID, quantity); err != nil {
		return err
	}

	if s.Seats != nil {
		s.Seats.SetTarget(s.Tickets.TotalCount())
	}

	return nil
}

func (s *Selection) ToggleSeat(seat Seat) (ToggleResult, error) {
	if s.Seats == nil {
		return 0, ErrGeneralAdmission
	}
	return s.Seats.Toggle(seat), nil
}

// Ready reports whether the selection can be turned into a draft.
func (s *Selection) Ready() bool {
	if s.Tickets.TotalCount() == 0 {
		return false
	}
	return s.Seats == nil || s.Seats.Complete()
}

// SelectionState is the storable form of a Selection.
type SelectionState struct {
	PerformanceID int64         `json:"performanceId"`
	Quantities    map[int64]int `json:"quantities"`
	Seats         []Seat        `json:"seats,omitempty"`
}

func (s *Selection) State() SelectionState {
	st := SelectionState{
		PerformanceID: s.Performance.PerformanceID,
		Quantities:    make(map[int64]int),
	}

	for id, e := range s.Tickets.entries {
		st.Quantities[id] = e.Quantity
	}

	if s.Seats != nil {
		st.Seats = s.Seats.Selected()
	}

	return st
}

// RestoreSelection replays st against a fresh copy of the performance.
// Ticket prices no longer offered and seats reserved since are dropped.
func RestoreSelection(p domain.Performance, st SelectionState) *Selection {
	s := NewSelection(p)

	for id, q := range st.Quantities {
		_ = s.SetQuantity(id, q)
	}

	if s.Seats != nil {
		for _, seat := range st.Seats {
			s.Seats.Toggle(seat)
		}
	}

	return s
}
