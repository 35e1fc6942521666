package booking

import "github.com/kirinyoku/fringe/internal/domain"

// Seat is a (row, seat) pair, both 1-based.
type Seat struct {
	Row    int `json:"rowNumber"`
	Number int `json:"seatNumber"`
}

type SeatState int

const (
	SeatsNone SeatState = iota
	SeatsPartial
	SeatsComplete
)

func (s SeatState) String() string {
	switch s {
	case SeatsNone:
		return "none"
	case SeatsPartial:
		return "partial"
	case SeatsComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ToggleResult says what a Toggle call did.
type ToggleResult int

const (
	ToggleAdded ToggleResult = iota
	ToggleRemoved
	ToggleReserved
	ToggleFull
	ToggleOutOfPlan
)

func (r ToggleResult) String() string {
	switch r {
	case ToggleAdded:
		return "added"
	case ToggleRemoved:
		return "removed"
	case ToggleReserved:
		return "reserved"
	case ToggleFull:
		return "full"
	case ToggleOutOfPlan:
		return "out_of_plan"
	default:
		return "unknown"
	}
}

// Changed reports whether the selection was modified.
func (r ToggleResult) Changed() bool {
	return r == ToggleAdded || r == ToggleRemoved
}

// SeatSelection holds the seats chosen for a reserved-seating performance.
// It never holds more seats than the target, never holds a reserved seat and
// keeps seats in the order they were picked.
type SeatSelection struct {
	rows        int
	seatsPerRow int
	reserved    map[Seat]struct{}
	selected    map[Seat]struct{}
	order       []Seat
	target      int
}

func NewSeatSelection(plan domain.SeatingPlan, reserved []domain.ReservedSeat, target int) *SeatSelection {
	rs := make(map[Seat]struct{}, len(reserved))
	for _, r := range reserved {
		rs[Seat{Row: r.RowNumber, Number: r.SeatNumber}] = struct{}{}
	}

	return &SeatSelection{
		rows:        plan.Rows,
		seatsPerRow: plan.SeatsPerRow,
		reserved:    rs,
		selected:    make(map[Seat]struct{}),
		target:      max(target, 0),
	}
}

func (s *SeatSelection) inPlan(seat Seat) bool {
	return seat.Row >= 1 && seat.Row <= s.rows &&
		seat.Number >= 1 && seat.Number <= s.seatsPerRow
}

// Toggle adds or removes seat. Reserved seats and new seats beyond the target
// leave the selection unchanged.
func (s *SeatSelection) Toggle(seat Seat) ToggleResult {
	if !s.inPlan(seat) {
		return ToggleOutOfPlan
	}

	if s.IsReserved(seat) {
		return ToggleReserved
	}

	if s.IsSelected(seat) {
		s.remove(seat)
		return ToggleRemoved
	}

	if len(s.order) >= s.target {
		return ToggleFull
	}

	s.selected[seat] = struct{}{}
	s.order = append(s.order, seat)

	return ToggleAdded
}

func (s *SeatSelection) remove(seat Seat) {
	delete(s.selected, seat)
	for i, v := range s.order {
		if v == seat {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// SetTarget changes the number of seats required. Seats picked last are
// released when the selection exceeds the new target.
func (s *SeatSelection) SetTarget(n int) {
	s.target = max(n, 0)
	for len(s.order) > s.target {
		last := s.order[len(s.order)-1]
		delete(s.selected, last)
		s.order = s.order[:len(s.order)-1]
	}
}

func (s *SeatSelection) Target() int {
	return s.target
}

func (s *SeatSelection) IsReserved(seat Seat) bool {
	_, ok := s.reserved[seat]
	return ok
}

func (s *SeatSelection) IsSelected(seat Seat) bool {
	_, ok := s.selected[seat]
	return ok
}

func (s *SeatSelection) Len() int {
	return len(s.order)
}

// Selected returns the chosen seats in selection order.
func (s *SeatSelection) Selected() []Seat {
	out := make([]Seat, len(s.order))
	copy(out, s.order)
	return out
}

func (s *SeatSelection) State() SeatState {
	switch {
	case len(s.order) == 0:
		return SeatsNone
	case len(s.order) < s.target:
		return SeatsPartial
	default:
		return SeatsComplete
	}
}

// Complete reports whether exactly target seats are chosen.
func (s *SeatSelection) Complete() bool {
	return s.target > 0 && len(s.order) == s.target
}
