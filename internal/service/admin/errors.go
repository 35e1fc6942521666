package admin

import (
	"errors"
)

var (
	ErrDuplicateLocation  = errors.New("Duplicate Location")
	ErrNoChanges          = errors.New("No Changes Detected")
	ErrConflictingStatus  = errors.New("You can only select one status: Checked-In or Cancelled.")
	ErrBookingNotFound    = errors.New("booking has no tickets")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrUnknownUploadKind  = errors.New("unknown upload kind")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
)

// ActionError carries the title the admin portal shows for a failed action
// together with the underlying error.
type ActionError struct {
	Title string
	Err   error
}

func (e *ActionError) Error() string {
	return e.Title + ": " + e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
