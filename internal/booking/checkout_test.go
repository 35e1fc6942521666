package booking

import (
	"strings"
	"testing"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() CheckoutForm {
	return CheckoutForm{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		ConfirmEmail: "ada@example.com",
		Phone:        "+61 400 123 456",
		AgreeToTerms: true,
	}
}

func TestEmailProblem(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ada@example.com", ""},
		{"first.last+tag@sub.example.com.au", ""},
		{"", "Email is required"},
		{"ada.example.com", "Email must contain @ symbol"},
		{"a@b@example.com", "Email must contain exactly one @ symbol"},
		{"@example.com", "Email must have a username before @"},
		{strings.Repeat("a", 65) + "@example.com", "Username part is too long (max 64 characters)"},
		{"ada@", "Email must have a domain after @"},
		{"ada@localhost", "Please enter a complete email address (e.g., user@gmail.com)"},
		{"ada@.example.com", "Domain cannot start or end with a dot"},
		{"ada@example..com", "Domain cannot contain consecutive dots"},
		{"ada@exa_mple.com", "Domain contains invalid characters"},
		{"ada@-example.com", "Domain parts cannot start or end with hyphen"},
		{"ada@example.c", "Please enter a valid domain extension (e.g., .com, .org)"},
		{"ada@example.c0m", "Domain extension should only contain letters"},
		{"a(d)a@example.com", "Please enter a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailProblem(tt.email))
		})
	}
}

func TestCheckoutFormValidate(t *testing.T) {
	f := validForm()
	assert.Nil(t, f.Validate())

	bad := CheckoutForm{
		Email:        "ada@example.com",
		ConfirmEmail: "ada@example.org",
		Phone:        "call me",
	}
	fe := bad.Validate()

	assert.Equal(t, "First name is required", fe["firstName"])
	assert.Equal(t, "Last name is required", fe["lastName"])
	assert.Equal(t, "Emails do not match", fe["confirmEmail"])
	assert.Equal(t, "Invalid phone number", fe["phone"])
	assert.Equal(t, "You must agree to the terms and conditions", fe["agreeToTerms"])
	assert.NotContains(t, fe, "email")
}

func TestCheckoutFormNormalize(t *testing.T) {
	f := CheckoutForm{FirstName: "  Ada ", Email: " ada@example.com "}
	f.Normalize()

	assert.Equal(t, "Ada", f.FirstName)
	assert.Equal(t, "ada@example.com", f.Email)
	assert.Equal(t, DefaultCountry, f.Country)
}

func TestNewBookingRequest(t *testing.T) {
	sel := NewSelection(reservedPerformance())
	require.NoError(t, sel.SetQuantity(2, 1))
	require.NoError(t, sel.SetQuantity(1, 1))
	sel.ToggleSeat(Seat{Row: 3, Number: 7})
	sel.ToggleSeat(Seat{Row: 3, Number: 6})

	d, err := BuildDraft(sel)
	require.NoError(t, err)

	f := validForm()
	f.Newsletter = true
	f.SpecialRequests = "aisle please"
	f.Normalize()

	req := NewBookingRequest(d, f)

	assert.Equal(t, int64(11), req.PerformanceID)
	assert.Equal(t, []domain.BookingTicket{
		{TicketPriceID: 1, Quantity: 1, Price: 50},
		{TicketPriceID: 2, Quantity: 1, Price: 30},
	}, req.Tickets)
	assert.Equal(t, []domain.SeatRef{{RowNumber: 3, SeatNumber: 7}, {RowNumber: 3, SeatNumber: 6}}, req.SelectedSeats)
	assert.Equal(t, "80.00", req.TotalAmount)
	assert.Equal(t, "Australia", req.CustomerInfo.Country)
	assert.True(t, req.Newsletter)
	assert.Equal(t, "aisle please", req.SpecialRequests)
}

func TestNewBookingRequestGeneralAdmissionSendsEmptySeats(t *testing.T) {
	sel := NewSelection(gaPerformance())
	require.NoError(t, sel.SetQuantity(1, 1))
	d, err := BuildDraft(sel)
	require.NoError(t, err)

	req := NewBookingRequest(d, validForm())

	assert.NotNil(t, req.SelectedSeats)
	assert.Empty(t, req.SelectedSeats)
}
