package domain

// TicketPriceInput is a ticket price line of a performance write. It is either
// a NewTicketPrice or an ExistingTicketPrice.
type TicketPriceInput interface {
	isTicketPriceInput()
}

// NewTicketPrice adds a price for a ticket type.
type NewTicketPrice struct {
	TicketTypeID int64   `json:"ticketTypeId"`
	Price        float64 `json:"price"`
}

// ExistingTicketPrice changes a price the backend already knows about.
type ExistingTicketPrice struct {
	TicketPriceID int64   `json:"ticketPriceId"`
	TicketTypeID  int64   `json:"ticketTypeId"`
	Price         float64 `json:"price"`
}

func (NewTicketPrice) isTicketPriceInput()      {}
func (ExistingTicketPrice) isTicketPriceInput() {}

// PerformanceFields are shared by create and update writes.
type PerformanceFields struct {
	PerformanceDate string             `json:"performanceDate"`
	StartTime       string             `json:"startTime"`
	EndTime         string             `json:"endTime"`
	SoldOut         bool               `json:"soldOut"`
	Cancel          bool               `json:"cancel"`
	Active          bool               `json:"active"`
	TicketPrices    []TicketPriceInput `json:"ticketPrices"`
}

type CreatePerformance struct {
	PerformanceFields
	ShowID      int64       `json:"showId"`
	SeatingType SeatingType `json:"seatingType"`
}

type UpdatePerformance struct {
	PerformanceFields
}

type BatchCreatePerformances struct {
	ShowID           int64       `json:"showId"`
	PerformanceDates []string    `json:"performanceDates"`
	StartTime        string      `json:"startTime"`
	EndTime          string      `json:"endTime"`
	SeatingType      SeatingType `json:"seatingType"`
	Active           bool        `json:"active"`
}
