package catalog

import "errors"

var (
	ErrShowNotFound           = errors.New("show not found")
	ErrPerformanceNotFound    = errors.New("performance not found")
	ErrPerformanceUnavailable = errors.New("performance is not available for booking")
)
