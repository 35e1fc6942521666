package booking

import (
	"testing"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrices = []domain.TicketPrice{
	{TicketPriceID: 1, TicketTypeName: "Adult", Price: 50},
	{TicketPriceID: 2, TicketTypeName: "Concession", Price: 30},
	{TicketPriceID: 3, TicketTypeName: "Child", Price: 12.35},
}

func TestSetQuantityClamps(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "in range", in: 4, want: 4},
		{name: "upper bound", in: 10, want: 10},
		{name: "above max", in: 25, want: 10},
		{name: "negative", in: -3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTicketSelection(testPrices)
			require.NoError(t, s.SetQuantity(1, tt.in))

			assert.Equal(t, tt.want, s.Quantity(1))
			_, present := s.Entries()[1]
			assert.Equal(t, tt.want > 0, present)
		})
	}
}

func TestSetQuantityZeroRemovesEntry(t *testing.T) {
	s := NewTicketSelection(testPrices)
	require.NoError(t, s.SetQuantity(2, 3))
	require.NoError(t, s.SetQuantity(2, 0))

	assert.Empty(t, s.Entries())
	assert.Zero(t, s.TotalCount())
	assert.Equal(t, "0.00", s.TotalAmount())
}

func TestSetQuantityUnknownPrice(t *testing.T) {
	s := NewTicketSelection(testPrices)

	err := s.SetQuantity(42, 1)

	assert.ErrorIs(t, err, ErrUnknownTicketPrice)
	assert.Empty(t, s.Entries())
}

// General admission with two ticket types.
func TestTotalsGeneralAdmission(t *testing.T) {
	s := NewTicketSelection(testPrices)
	require.NoError(t, s.SetQuantity(1, 2))
	require.NoError(t, s.SetQuantity(2, 1))

	assert.Equal(t, "130.00", s.TotalAmount())
	assert.Equal(t, 3, s.TotalCount())
	assert.Equal(t, SelectedTicket{TicketTypeName: "Adult", Price: 50, Quantity: 2}, s.Entries()[1])
}

func TestTotalsUseCents(t *testing.T) {
	s := NewTicketSelection(testPrices)
	require.NoError(t, s.SetQuantity(3, 3))

	assert.Equal(t, int64(3705), s.TotalCents())
	assert.Equal(t, "37.05", s.TotalAmount())
}

func TestTotalsMatchEntries(t *testing.T) {
	s := NewTicketSelection(testPrices)
	updates := [][2]int{{1, 3}, {2, 11}, {3, 1}, {1, 0}, {3, -1}, {2, 4}, {1, 7}}

	for _, u := range updates {
		require.NoError(t, s.SetQuantity(int64(u[0]), u[1]))

		var count int
		var cents int64
		for _, e := range s.Entries() {
			assert.True(t, e.Quantity > 0 && e.Quantity <= MaxQuantity)
			count += e.Quantity
			cents += toCents(e.Price) * int64(e.Quantity)
		}
		assert.Equal(t, count, s.TotalCount())
		assert.Equal(t, FormatCents(cents), s.TotalAmount())
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "1234.50", FormatCents(123450))
	assert.Equal(t, "-3.10", FormatCents(-310))
}
