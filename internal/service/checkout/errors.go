package checkout

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoSelection  = errors.New("no ticket selection in progress")
	ErrRateLimited  = errors.New("too many booking attempts")
	ErrEmptyBooking = errors.New("booking reference is required")
)

// RateLimitError is returned when a session submits bookings too quickly.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
