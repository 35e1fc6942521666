package domain

type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type BookingTicket struct {
	TicketPriceID int64   `json:"ticketPriceId"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

type SeatRef struct {
	RowNumber  int `json:"rowNumber"`
	SeatNumber int `json:"seatNumber"`
}

// BookingRequest is the payload of POST /api/Booking.
type BookingRequest struct {
	PerformanceID   int64           `json:"performanceId"`
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	Tickets         []BookingTicket `json:"tickets"`
	SeatingType     SeatingType     `json:"seatingType"`
	SelectedSeats   []SeatRef       `json:"selectedSeats"`
	SpecialRequests string          `json:"specialRequests"`
	Newsletter      bool            `json:"newsletter"`
	TotalAmount     string          `json:"totalAmount"`
}

type BookingResult struct {
	BookingReference string `json:"bookingReference"`
}

type BookingConfirmation struct {
	BookingReference string   `json:"bookingReference"`
	Tickets          []Ticket `json:"tickets"`
}

type UserQuery struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
