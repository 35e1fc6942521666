package booking

import (
	"context"

	"github.com/kirinyoku/fringe/internal/domain"
)

// Draft is the confirmed selection handed to checkout.
type Draft struct {
	PerformanceID   int64                    `json:"performanceId"`
	ShowID          int64                    `json:"showId"`
	ShowName        string                   `json:"showName"`
	PerformanceDate string                   `json:"performanceDate"`
	StartTime       domain.TimeSpan          `json:"startTime"`
	Tickets         map[int64]SelectedTicket `json:"tickets"`
	TotalAmount     string                   `json:"totalAmount"`
	TotalTickets    int                      `json:"totalTickets"`
	SeatingType     domain.SeatingType       `json:"seatingType"`
	SelectedSeats   []Seat                   `json:"selectedSeats"`
}

// DraftRepository keeps at most one draft per session. Load returns
// ErrNoDraft when the session has none.
type DraftRepository interface {
	Save(ctx context.Context, sessionID string, d *Draft) error
	Load(ctx context.Context, sessionID string) (*Draft, error)
	Clear(ctx context.Context, sessionID string) error
}

// BuildDraft turns a ready selection into a draft. General admission drafts
// carry no seats; reserved seating drafts require a complete seat selection.
func BuildDraft(sel *Selection) (*Draft, error) {
	if sel == nil {
		return nil, ErrNoPerformance
	}

	if sel.Tickets.TotalCount() == 0 {
		return nil, ErrNoTickets
	}

	p := sel.Performance
	d := &Draft{
		PerformanceID:   p.PerformanceID,
		ShowID:          p.ShowID,
		ShowName:        p.ShowName,
		PerformanceDate: p.PerformanceDate,
		StartTime:       p.StartTime,
		Tickets:         sel.Tickets.Entries(),
		TotalAmount:     sel.Tickets.TotalAmount(),
		TotalTickets:    sel.Tickets.TotalCount(),
		SeatingType:     p.SeatingType,
	}

	if sel.Seats != nil {
		if !sel.Seats.Complete() {
			return nil, ErrSeatSelectionIncomplete
		}
		d.SelectedSeats = sel.Seats.Selected()
	}

	return d, nil
}
