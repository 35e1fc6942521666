package booking

import (
	"encoding/json"
	"testing"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaPerformance() domain.Performance {
	return domain.Performance{
		PerformanceID:   10,
		ShowID:          3,
		ShowName:        "Late Night Cabaret",
		PerformanceDate: "2025-03-01T00:00:00",
		StartTime:       domain.TimeSpan{Hours: 21},
		SeatingType:     domain.GeneralAdmission,
		Active:          true,
		TicketPrices:    testPrices,
	}
}

func reservedPerformance() domain.Performance {
	p := gaPerformance()
	p.PerformanceID = 11
	p.SeatingType = domain.CustomisedSeating
	p.SeatingPlan = &testPlan
	p.ReservedSeats = testReserved
	return p
}

func TestBuildDraftGeneralAdmission(t *testing.T) {
	sel := NewSelection(gaPerformance())
	require.NoError(t, sel.SetQuantity(1, 2))
	require.NoError(t, sel.SetQuantity(2, 1))

	d, err := BuildDraft(sel)
	require.NoError(t, err)

	assert.Equal(t, "130.00", d.TotalAmount)
	assert.Equal(t, 3, d.TotalTickets)
	assert.Nil(t, d.SelectedSeats)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"selectedSeats":null`)
}

func TestBuildDraftRequiresPerformanceAndTickets(t *testing.T) {
	_, err := BuildDraft(nil)
	assert.ErrorIs(t, err, ErrNoPerformance)

	_, err = BuildDraft(NewSelection(gaPerformance()))
	assert.ErrorIs(t, err, ErrNoTickets)
}

func TestBuildDraftReservedSeating(t *testing.T) {
	sel := NewSelection(reservedPerformance())
	require.NoError(t, sel.SetQuantity(1, 2))

	res, err := sel.ToggleSeat(Seat{Row: 1, Number: 1})
	require.NoError(t, err)
	assert.Equal(t, ToggleReserved, res)

	sel.ToggleSeat(Seat{Row: 2, Number: 3})
	_, err = BuildDraft(sel)
	assert.ErrorIs(t, err, ErrSeatSelectionIncomplete)
	assert.False(t, sel.Ready())

	sel.ToggleSeat(Seat{Row: 2, Number: 4})
	assert.True(t, sel.Ready())

	d, err := BuildDraft(sel)
	require.NoError(t, err)
	assert.Equal(t, []Seat{{Row: 2, Number: 3}, {Row: 2, Number: 4}}, d.SelectedSeats)
	assert.Equal(t, domain.CustomisedSeating, d.SeatingType)
}

func TestDraftRoundTripKeepsSeatOrder(t *testing.T) {
	sel := NewSelection(reservedPerformance())
	require.NoError(t, sel.SetQuantity(1, 2))
	require.NoError(t, sel.SetQuantity(3, 1))
	for _, s := range []Seat{{Row: 5, Number: 8}, {Row: 1, Number: 3}, {Row: 3, Number: 2}} {
		sel.ToggleSeat(s)
	}

	d, err := BuildDraft(sel)
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)

	var back Draft
	require.NoError(t, json.Unmarshal(b, &back))

	assert.Equal(t, d.Tickets, back.Tickets)
	assert.Equal(t, d.SelectedSeats, back.SelectedSeats)
	assert.Equal(t, *d, back)
}

func TestToggleSeatGeneralAdmission(t *testing.T) {
	sel := NewSelection(gaPerformance())

	_, err := sel.ToggleSeat(Seat{Row: 1, Number: 1})

	assert.ErrorIs(t, err, ErrGeneralAdmission)
}

func TestRestoreSelection(t *testing.T) {
	p := reservedPerformance()
	sel := NewSelection(p)
	require.NoError(t, sel.SetQuantity(1, 2))
	sel.ToggleSeat(Seat{Row: 4, Number: 4})
	sel.ToggleSeat(Seat{Row: 4, Number: 5})

	st := sel.State()

	// Another customer took 4-5 in the meantime.
	p.ReservedSeats = append(p.ReservedSeats, domain.ReservedSeat{RowNumber: 4, SeatNumber: 5})
	back := RestoreSelection(p, st)

	assert.Equal(t, 2, back.Tickets.TotalCount())
	assert.Equal(t, []Seat{{Row: 4, Number: 4}}, back.Seats.Selected())
	assert.Equal(t, SeatsPartial, back.Seats.State())
}

func TestSelectionQuantityDropShrinksSeats(t *testing.T) {
	sel := NewSelection(reservedPerformance())
	require.NoError(t, sel.SetQuantity(1, 2))
	sel.ToggleSeat(Seat{Row: 2, Number: 1})
	sel.ToggleSeat(Seat{Row: 2, Number: 2})

	require.NoError(t, sel.SetQuantity(1, 1))

	assert.Equal(t, []Seat{{Row: 2, Number: 1}}, sel.Seats.Selected())
	assert.True(t, sel.Ready())
}
