package booking

import "errors"

var (
	ErrUnknownTicketPrice      = errors.New("ticket price is not offered for this performance")
	ErrNoPerformance           = errors.New("no performance selected")
	ErrNoTickets               = errors.New("no tickets selected")
	ErrSeatSelectionIncomplete = errors.New("seat selection does not match ticket count")
	ErrNoDraft                 = errors.New("no booking draft")
)
