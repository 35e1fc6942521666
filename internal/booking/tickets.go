package booking

import (
	"fmt"
	"math"

	"github.com/kirinyoku/fringe/internal/domain"
)

// MaxQuantity is the most tickets of one type a single booking may hold.
const MaxQuantity = 10

// SelectedTicket is one line of a ticket selection.
type SelectedTicket struct {
	TicketTypeName string  `json:"ticketTypeName"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
}

// TicketSelection maps ticket price ids of one performance to the chosen
// quantities. Entries with quantity zero are never stored.
type TicketSelection struct {
	offered map[int64]domain.TicketPrice
	entries map[int64]SelectedTicket
}

func NewTicketSelection(prices []domain.TicketPrice) *TicketSelection {
	offered := make(map[int64]domain.TicketPrice, len(prices))
	for _, p := range prices {
		offered[p.TicketPriceID] = p
	}

	return &TicketSelection{
		offered: offered,
		entries: make(map[int64]SelectedTicket),
	}
}

// SetQuantity clamps quantity to [0, MaxQuantity]. Zero removes the entry.
func (s *TicketSelection) SetQuantity(ticketPriceID int64, quantity int) error {
	price, ok := s.offered[ticketPriceID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTicketPrice, ticketPriceID)
	}

	quantity = max(0, min(quantity, MaxQuantity))
	if quantity == 0 {
		delete(s.entries, ticketPriceID)
		return nil
	}

	s.entries[ticketPriceID] = SelectedTicket{
		TicketTypeName: price.TicketTypeName,
		Price:          price.Price,
		Quantity:       quantity,
	}

	return nil
}

func (s *TicketSelection) Quantity(ticketPriceID int64) int {
	return s.entries[ticketPriceID].Quantity
}

// Entries returns a copy of the current selection.
func (s *TicketSelection) Entries() map[int64]SelectedTicket {
	out := make(map[int64]SelectedTicket, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *TicketSelection) TotalCount() int {
	n := 0
	for _, e := range s.entries {
		n += e.Quantity
	}
	return n
}

// TotalCents sums price x quantity in whole cents.
func (s *TicketSelection) TotalCents() int64 {
	var cents int64
	for _, e := range s.entries {
		cents += toCents(e.Price) * int64(e.Quantity)
	}
	return cents
}

// TotalAmount is TotalCents formatted with two decimals.
func (s *TicketSelection) TotalAmount() string {
	return FormatCents(s.TotalCents())
}

func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
