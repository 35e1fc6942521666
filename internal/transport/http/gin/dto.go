package httpgin

import (
	"github.com/kirinyoku/fringe/internal/booking"
	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/service/checkout"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Title  string            `json:"title,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

type StartSelectionRequest struct {
	PerformanceID int64 `json:"performanceId" binding:"required,gt=0"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ToggleSeatRequest struct {
	RowNumber  int `json:"rowNumber" binding:"required,gt=0"`
	SeatNumber int `json:"seatNumber" binding:"required,gt=0"`
}

type ToggleSeatResponse struct {
	Result    string                  `json:"result"`
	Selection *checkout.SelectionView `json:"selection"`
}

type SubmitBookingResponse struct {
	BookingReference string `json:"bookingReference"`
	RedirectTo       string `json:"redirectTo"`
}

type HomeResponse struct {
	Shows []domain.Show `json:"shows"`
	All   bool          `json:"all"`
}

type ShowDetailResponse struct {
	Show         *domain.Show         `json:"show"`
	Performances []domain.Performance `json:"performances"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LoginResponse struct {
	RefreshToken string `json:"refreshToken"`
}

type AuditListResponse struct {
	Items []domain.AuditEntry `json:"items"`
	Total int                 `json:"total"`
}

// draftResponse is the checkout page payload.
type draftResponse struct {
	Draft       *booking.Draft       `json:"draft"`
	DefaultForm booking.CheckoutForm `json:"defaultForm"`
}
