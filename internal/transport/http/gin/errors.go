package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/booking"
	"github.com/kirinyoku/fringe/internal/media"
	"github.com/kirinyoku/fringe/internal/service/admin"
	"github.com/kirinyoku/fringe/internal/service/catalog"
	"github.com/kirinyoku/fringe/internal/service/checkout"
	"github.com/kirinyoku/fringe/internal/validation"
)

// sentinelStatus maps service errors to a status; the error text is shown
// as-is.
var sentinelStatus = []struct {
	err    error
	status int
}{
	// catalog service
	{catalog.ErrShowNotFound, http.StatusNotFound},
	{catalog.ErrPerformanceNotFound, http.StatusNotFound},
	{catalog.ErrPerformanceUnavailable, http.StatusConflict},
	// checkout service
	{checkout.ErrNoSelection, http.StatusConflict},
	{checkout.ErrEmptyBooking, http.StatusBadRequest},
	{booking.ErrNoDraft, http.StatusNotFound},
	{booking.ErrNoPerformance, http.StatusConflict},
	{booking.ErrGeneralAdmission, http.StatusConflict},
	{booking.ErrUnknownTicketPrice, http.StatusUnprocessableEntity},
	{booking.ErrNoTickets, http.StatusUnprocessableEntity},
	{booking.ErrSeatSelectionIncomplete, http.StatusUnprocessableEntity},
	// admin service
	{admin.ErrDuplicateLocation, http.StatusConflict},
	{admin.ErrNoChanges, http.StatusConflict},
	{admin.ErrConflictingStatus, http.StatusUnprocessableEntity},
	{admin.ErrInvalidDateRange, http.StatusUnprocessableEntity},
	{admin.ErrBookingNotFound, http.StatusNotFound},
	{admin.ErrUnknownUploadKind, http.StatusBadRequest},
	{admin.ErrTicketTypeNotFound, http.StatusNotFound},
	// uploads
	{media.ErrEmpty, http.StatusBadRequest},
	{media.ErrTooLarge, http.StatusRequestEntityTooLarge},
	{media.ErrUnsupportedType, http.StatusUnsupportedMediaType},
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var rl *checkout.RateLimitError
	if errors.As(err, &rl) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
	}

	c.JSON(status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var title string
	var actionErr *admin.ActionError
	if errors.As(err, &actionErr) {
		title = actionErr.Title
	}

	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "Please correct the highlighted fields",
			Title:  title,
			Fields: fe,
		}
	}

	var rl *checkout.RateLimitError
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests, ErrorResponse{Error: rl.Error(), Title: title}
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status, ErrorResponse{Error: s.err.Error(), Title: title}
		}
	}

	// backend errors keep the backend's own message
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return status, ErrorResponse{Error: apiErr.Message, Title: title}
	}

	if errors.Is(err, backend.ErrUnavailable) {
		return http.StatusServiceUnavailable, ErrorResponse{Error: backend.UnavailableMessage, Title: title}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: "internal error", Title: title}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
