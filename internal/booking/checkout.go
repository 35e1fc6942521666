package booking

import (
	"sort"
	"strings"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/validation"
)

const DefaultCountry = "Australia"

// CheckoutForm is the customer input collected at checkout.
type CheckoutForm struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email"`
	ConfirmEmail    string `json:"confirmEmail"`
	Phone           string `json:"phone" validate:"required,phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zipCode"`
	Country         string `json:"country"`
	SpecialRequests string `json:"specialRequests"`
	Newsletter      bool   `json:"newsletter"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

var checkoutMessages = validation.Messages{
	"firstName.required": "First name is required",
	"lastName.required":  "Last name is required",
	"phone.required":     "Phone number is required",
	"phone.phone":        "Invalid phone number",
}

// Normalize trims text fields and applies the default country.
func (f *CheckoutForm) Normalize() {
	for _, p := range []*string{
		&f.FirstName, &f.LastName, &f.Email, &f.ConfirmEmail, &f.Phone,
		&f.Address, &f.City, &f.State, &f.ZipCode, &f.Country,
	} {
		*p = strings.TrimSpace(*p)
	}

	if f.Country == "" {
		f.Country = DefaultCountry
	}
}

func (f CheckoutForm) Validate() validation.FieldErrors {
	fe := validation.Struct(f, checkoutMessages)
	if fe == nil {
		fe = validation.FieldErrors{}
	}

	if msg := EmailProblem(f.Email); msg != "" {
		fe.Add("email", msg)
	}
	if f.ConfirmEmail != f.Email {
		fe.Add("confirmEmail", "Emails do not match")
	}
	if !f.AgreeToTerms {
		fe.Add("agreeToTerms", "You must agree to the terms and conditions")
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// NewBookingRequest combines a draft with the checkout form.
func NewBookingRequest(d *Draft, f CheckoutForm) domain.BookingRequest {
	ids := make([]int64, 0, len(d.Tickets))
	for id := range d.Tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tickets := make([]domain.BookingTicket, 0, len(ids))
	for _, id := range ids {
		t := d.Tickets[id]
		tickets = append(tickets, domain.BookingTicket{
			TicketPriceID: id,
			Quantity:      t.Quantity,
			Price:         t.Price,
		})
	}

	seats := make([]domain.SeatRef, 0, len(d.SelectedSeats))
	for _, s := range d.SelectedSeats {
		seats = append(seats, domain.SeatRef{RowNumber: s.Row, SeatNumber: s.Number})
	}

	return domain.BookingRequest{
		PerformanceID: d.PerformanceID,
		CustomerInfo: domain.CustomerInfo{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
			Phone:     f.Phone,
			Address:   f.Address,
			City:      f.City,
			State:     f.State,
			ZipCode:   f.ZipCode,
			Country:   f.Country,
		},
		Tickets:         tickets,
		SeatingType:     d.SeatingType,
		SelectedSeats:   seats,
		SpecialRequests: f.SpecialRequests,
		Newsletter:      f.Newsletter,
		TotalAmount:     d.TotalAmount,
	}
}
