package admin

import (
	"strings"
	"time"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/validation"
)

type ShowForm struct {
	ShowName         string `json:"showName" validate:"required,min=2"`
	VenueID          int64  `json:"venueId" validate:"required"`
	ShowTypeID       int64  `json:"showTypeId" validate:"required"`
	Description      string `json:"description"`
	AgeRestrictionID int64  `json:"ageRestrictionId" validate:"required"`
	StartDate        string `json:"startDate" validate:"required"`
	EndDate          string `json:"endDate" validate:"required"`
	TicketTypeID     int64  `json:"ticketTypeId"`
	ImagesURL        string `json:"imagesUrl"`
	VideosURL        string `json:"videosUrl"`
	Active           bool   `json:"active"`
}

var showMessages = validation.Messages{
	"showName.required":         "Show name is required",
	"showName.min":              "Show name must be at least 2 characters",
	"venueId.required":          "Venue is required",
	"showTypeId.required":       "Show type is required",
	"ageRestrictionId.required": "Age restriction is required",
	"startDate.required":        "Start date is required",
	"endDate.required":          "End date is required",
}

func (f *ShowForm) validate(loc *time.Location) validation.FieldErrors {
	f.ShowName = strings.TrimSpace(f.ShowName)
	f.Description = strings.TrimSpace(f.Description)

	fe := validation.Struct(f, showMessages)
	if fe == nil {
		fe = validation.FieldErrors{}
	}

	start, startErr := normalizeDate(&f.StartDate, loc)
	if startErr != nil && f.StartDate != "" {
		fe.Add("startDate", "Start date is invalid")
	}
	end, endErr := normalizeDate(&f.EndDate, loc)
	if endErr != nil && f.EndDate != "" {
		fe.Add("endDate", "End date is invalid")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		fe.Add("endDate", "End date must be on or after the start date")
	}

	return nonEmpty(fe)
}

func (f ShowForm) show() domain.Show {
	return domain.Show{
		ShowName:         f.ShowName,
		VenueID:          f.VenueID,
		ShowTypeID:       f.ShowTypeID,
		Description:      f.Description,
		AgeRestrictionID: f.AgeRestrictionID,
		StartDate:        f.StartDate,
		EndDate:          f.EndDate,
		TicketTypeID:     f.TicketTypeID,
		ImagesURL:        f.ImagesURL,
		VideosURL:        f.VideosURL,
		Active:           f.Active,
	}
}

type VenueForm struct {
	VenueName    string `json:"venueName" validate:"required"`
	TypeID       int64  `json:"typeId" validate:"required"`
	MaxCapacity  int    `json:"maxCapacity" validate:"gt=0"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail" validate:"required,loose_email"`
	ContactPhone string `json:"contactPhone"`
	Active       bool   `json:"active"`
	VenueURL     string `json:"venueUrl"`
	LocationID   int64  `json:"locationId" validate:"required"`
	ImagesURL    string `json:"imagesUrl"`
	Rows         int    `json:"rows" validate:"gt=0"`
	SeatsPerRow  int    `json:"seatsPerRow" validate:"gt=0"`
}

var venueMessages = validation.Messages{
	"venueName.required":       "Venue name is required",
	"typeId.required":          "Venue type is required",
	"maxCapacity.gt":           "Capacity must be greater than 0",
	"locationId.required":      "Location is required",
	"contactEmail.required":    "Email is required",
	"contactEmail.loose_email": "Invalid email address",
	"rows.gt":                  "Rows must be greater than 0",
	"seatsPerRow.gt":           "Seats per row must be greater than 0",
}

func (f *VenueForm) validate() validation.FieldErrors {
	f.VenueName = strings.TrimSpace(f.VenueName)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)
	return validation.Struct(f, venueMessages)
}

func (f VenueForm) venue() domain.Venue {
	return domain.Venue{
		VenueName:    f.VenueName,
		TypeID:       f.TypeID,
		MaxCapacity:  f.MaxCapacity,
		Description:  f.Description,
		ContactEmail: f.ContactEmail,
		ContactPhone: f.ContactPhone,
		Active:       f.Active,
		VenueURL:     f.VenueURL,
		LocationID:   f.LocationID,
		ImagesURL:    f.ImagesURL,
		Rows:         f.Rows,
		SeatsPerRow:  f.SeatsPerRow,
	}
}

type LocationForm struct {
	LocationName     string  `json:"locationName" validate:"required,no_digits"`
	Address          string  `json:"address" validate:"required"`
	Suburb           string  `json:"suburb" validate:"required,no_digits"`
	State            string  `json:"state" validate:"required,no_digits"`
	PostalCode       string  `json:"postalCode" validate:"required,digits"`
	Country          string  `json:"country" validate:"required,no_digits"`
	Latitude         float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64 `json:"longitude" validate:"gte=-180,lte=180"`
	ParkingAvailable bool    `json:"parkingAvailable"`
	Active           bool    `json:"active"`
}

var locationMessages = validation.Messages{
	"locationName.required": "Location name is required",
	"locationName":          "Location name must not contain numbers",
	"address.required":      "Address is required",
	"suburb.required":       "Suburb is required",
	"suburb":                "Suburb must not contain numbers",
	"state.required":        "State is required",
	"state":                 "State must not contain numbers",
	"postalCode.required":   "Postal code is required",
	"postalCode":            "Postal code must contain only digits",
	"country.required":      "Country is required",
	"country":               "Country must not contain numbers",
}

func (f *LocationForm) validate() validation.FieldErrors {
	for _, p := range []*string{&f.LocationName, &f.Address, &f.Suburb, &f.State, &f.PostalCode, &f.Country} {
		*p = strings.TrimSpace(*p)
	}
	return validation.Struct(f, locationMessages)
}

func (f LocationForm) location() domain.Location {
	return domain.Location{
		LocationName:     f.LocationName,
		Address:          f.Address,
		Suburb:           f.Suburb,
		State:            f.State,
		PostalCode:       f.PostalCode,
		Country:          f.Country,
		Latitude:         f.Latitude,
		Longitude:        f.Longitude,
		ParkingAvailable: f.ParkingAvailable,
		Active:           f.Active,
	}
}

type TicketTypeForm struct {
	TypeName    string `json:"typeName" validate:"min=2,letters_spaces"`
	Description string `json:"description" validate:"min=2,letters_spaces"`
}

var ticketTypeMessages = validation.Messages{
	"typeName.min":               "Type name must be at least 2 characters",
	"typeName.letters_spaces":    "Type name can only contain letters and spaces",
	"description.min":            "Description must be at least 2 characters",
	"description.letters_spaces": "Description can only contain letters and spaces",
}

func (f *TicketTypeForm) validate() validation.FieldErrors {
	f.TypeName = strings.TrimSpace(f.TypeName)
	f.Description = strings.TrimSpace(f.Description)
	return validation.Struct(f, ticketTypeMessages)
}

// TicketPriceForm is one price row of the performance form. TicketPriceID is
// set for rows loaded from an existing performance.
type TicketPriceForm struct {
	TicketPriceID int64   `json:"ticketPriceId,omitempty"`
	TicketTypeID  int64   `json:"ticketTypeId" validate:"required"`
	Price         float64 `json:"price" validate:"gte=1"`
}

type PerformanceForm struct {
	ShowID          int64              `json:"showId"`
	PerformanceDate string             `json:"performanceDate" validate:"required"`
	StartTime       string             `json:"startTime" validate:"required,clock"`
	EndTime         string             `json:"endTime" validate:"required,clock"`
	SeatingType     domain.SeatingType `json:"seatingType" validate:"oneof=0 1"`
	SoldOut         bool               `json:"soldOut"`
	Cancel          bool               `json:"cancel"`
	Active          bool               `json:"active"`
	TicketPrices    []TicketPriceForm  `json:"ticketPrices" validate:"min=1,dive"`
}

var performanceMessages = validation.Messages{
	"performanceDate.required": "Performance date is required",
	"startTime.required":       "Start time is required",
	"startTime.clock":          "Format HH:MM:SS",
	"endTime.required":         "End time is required",
	"endTime.clock":            "Format HH:MM:SS",
	"seatingType.oneof":        "Seating type must be general admission or reserved seating",
	"ticketPrices.min":         "Please configure prices for the available ticket types.",
	"ticketTypeId.required":    "Ticket type is required",
	"price.gte":                "Ticket prices must be positive and greater than zero.",
}

type formMode int

const (
	modeCreate formMode = iota
	modeUpdate
)

func (f *PerformanceForm) validate(mode formMode, loc *time.Location) validation.FieldErrors {
	f.StartTime = strings.TrimSpace(f.StartTime)
	f.EndTime = strings.TrimSpace(f.EndTime)

	fe := validation.Struct(f, performanceMessages)
	if fe == nil {
		fe = validation.FieldErrors{}
	}

	if mode == modeCreate && f.ShowID <= 0 {
		fe.Add("showId", "Show is required")
	}

	if _, err := normalizeDate(&f.PerformanceDate, loc); err != nil && f.PerformanceDate != "" {
		fe.Add("performanceDate", "Performance date is invalid.")
	}

	return nonEmpty(fe)
}

// ticketPrices resolves the form rows into write variants. Creates only carry
// new prices; updates keep the id of rows that already exist.
func (f PerformanceForm) ticketPrices(mode formMode) []domain.TicketPriceInput {
	out := make([]domain.TicketPriceInput, 0, len(f.TicketPrices))
	for _, tp := range f.TicketPrices {
		if mode == modeUpdate && tp.TicketPriceID > 0 {
			out = append(out, domain.ExistingTicketPrice{
				TicketPriceID: tp.TicketPriceID,
				TicketTypeID:  tp.TicketTypeID,
				Price:         tp.Price,
			})
			continue
		}
		out = append(out, domain.NewTicketPrice{
			TicketTypeID: tp.TicketTypeID,
			Price:        tp.Price,
		})
	}
	return out
}

func (f PerformanceForm) fields(mode formMode) domain.PerformanceFields {
	return domain.PerformanceFields{
		PerformanceDate: f.PerformanceDate,
		StartTime:       f.StartTime,
		EndTime:         f.EndTime,
		SoldOut:         f.SoldOut,
		Cancel:          f.Cancel,
		Active:          f.Active,
		TicketPrices:    f.ticketPrices(mode),
	}
}

type BatchPerformanceForm struct {
	ShowID           int64              `json:"showId" validate:"required"`
	PerformanceDates []string           `json:"performanceDates" validate:"min=1"`
	StartTime        string             `json:"startTime" validate:"required,clock"`
	EndTime          string             `json:"endTime" validate:"required,clock"`
	SeatingType      domain.SeatingType `json:"seatingType" validate:"oneof=0 1"`
	Active           bool               `json:"active"`
}

var batchMessages = validation.Messages{
	"showId.required":      "Show is required",
	"performanceDates.min": "Select at least one performance date",
	"startTime.required":   "Start time is required",
	"startTime.clock":      "Format HH:MM:SS",
	"endTime.required":     "End time is required",
	"endTime.clock":        "Format HH:MM:SS",
	"seatingType.oneof":    "Seating type must be general admission or reserved seating",
}

func (f *BatchPerformanceForm) validate(loc *time.Location) validation.FieldErrors {
	fe := validation.Struct(f, batchMessages)
	if fe == nil {
		fe = validation.FieldErrors{}
	}

	seen := make(map[string]bool, len(f.PerformanceDates))
	dates := make([]string, 0, len(f.PerformanceDates))
	for i := range f.PerformanceDates {
		if _, err := normalizeDate(&f.PerformanceDates[i], loc); err != nil {
			fe.Add("performanceDates", "Performance date is invalid: "+f.PerformanceDates[i])
			continue
		}
		if seen[f.PerformanceDates[i]] {
			continue
		}
		seen[f.PerformanceDates[i]] = true
		dates = append(dates, f.PerformanceDates[i])
	}
	f.PerformanceDates = dates

	return nonEmpty(fe)
}

// TicketStatusForm is the bulk status applied to a booking's tickets.
type TicketStatusForm struct {
	IsCheckedIn bool `json:"isCheckedIn"`
	Cancelled   bool `json:"cancelled"`
}

// normalizeDate rewrites *s as YYYY-MM-DD.
func normalizeDate(s *string, loc *time.Location) (time.Time, error) {
	*s = strings.TrimSpace(*s)

	t, err := domain.ParseDate(*s, loc)
	if err != nil {
		return time.Time{}, err
	}

	*s = t.Format(time.DateOnly)
	return t, nil
}

func nonEmpty(fe validation.FieldErrors) validation.FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
