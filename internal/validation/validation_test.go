package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	Name       string  `json:"name" validate:"required,min=2,letters_spaces"`
	Suburb     string  `json:"suburb" validate:"no_digits"`
	PostalCode string  `json:"postalCode" validate:"required,digits"`
	Phone      string  `json:"phone" validate:"required,phone"`
	Start      string  `json:"startTime" validate:"clock"`
	Prices     []price `json:"ticketPrices" validate:"dive"`
}

type price struct {
	Price float64 `json:"price" validate:"gte=1"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		form sampleForm
		msgs Messages
		want FieldErrors
	}{
		{
			name: "valid",
			form: sampleForm{
				Name: "Adult", Suburb: "Glenelg", PostalCode: "5045",
				Phone: "+61 (8) 555-1234", Start: "19:30:00",
				Prices: []price{{Price: 25}},
			},
			want: nil,
		},
		{
			name: "every rule broken",
			form: sampleForm{
				Name: "A1", Suburb: "Area 51", PostalCode: "50a5",
				Phone: "call me", Start: "7pm",
				Prices: []price{{Price: 10}, {Price: 0.5}},
			},
			want: FieldErrors{
				"name":                  "only letters and spaces are allowed",
				"suburb":                "must not contain numbers",
				"postalCode":            "must contain only digits",
				"phone":                 "invalid phone number",
				"startTime":             "must be in HH:MM:SS format",
				"ticketPrices[1].price": "must be at least 1",
			},
		},
		{
			name: "custom messages",
			form: sampleForm{PostalCode: "1", Phone: "1", Start: "00:00:00", Name: "Bob9"},
			msgs: Messages{"name.letters_spaces": "Name must contain only letters"},
			want: FieldErrors{"name": "Name must contain only letters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Struct(tt.form, tt.msgs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("email", "first")
	fe.Add("email", "second")
	fe.Add("city", "bad")

	assert.Equal(t, "first", fe["email"])
	assert.EqualError(t, fe.Err(), "validation failed: city: bad; email: first")
}
