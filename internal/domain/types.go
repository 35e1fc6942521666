package domain

// SeatingType is the seating mode of a performance.
type SeatingType int

const (
	GeneralAdmission  SeatingType = 0
	CustomisedSeating SeatingType = 1
)

func (t SeatingType) Valid() bool {
	return t == GeneralAdmission || t == CustomisedSeating
}

func (t SeatingType) String() string {
	switch t {
	case GeneralAdmission:
		return "GeneralAdmission"
	case CustomisedSeating:
		return "CustomisedSeating"
	default:
		return "Unknown"
	}
}

type Show struct {
	ShowID             int64  `json:"showId"`
	ShowName           string `json:"showName"`
	VenueID            int64  `json:"venueId"`
	VenueName          string `json:"venueName,omitempty"`
	ShowTypeID         int64  `json:"showTypeId"`
	ShowType           string `json:"showType,omitempty"`
	Description        string `json:"description"`
	AgeRestrictionID   int64  `json:"ageRestrictionId"`
	AgeRestrictionCode string `json:"ageRestrictionCode,omitempty"`
	WarningDescription string `json:"warningDescription,omitempty"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	TicketTypeID       int64  `json:"ticketTypeId,omitempty"`
	TicketTypeName     string `json:"ticketTypeName,omitempty"`
	ImagesURL          string `json:"imagesUrl,omitempty"`
	VideosURL          string `json:"videosUrl,omitempty"`
	Active             bool   `json:"active"`
}

type ShowType struct {
	TypeID   int64  `json:"typeId"`
	ShowType string `json:"showType"`
}

type AgeRestriction struct {
	AgeRestrictionID int64  `json:"ageRestrictionId"`
	Code             string `json:"code"`
	Description      string `json:"description"`
}

type SeatingPlan struct {
	SeatingPlanID int64 `json:"seatingPlanId"`
	VenueID       int64 `json:"venueId"`
	Rows          int   `json:"rows"`
	SeatsPerRow   int   `json:"seatsPerRow"`
}

type ReservedSeat struct {
	ReservedSeatID int64 `json:"reservedSeatId"`
	RowNumber      int   `json:"rowNumber"`
	SeatNumber     int   `json:"seatNumber"`
	TicketID       int64 `json:"ticketId,omitempty"`
	SeatingPlanID  int64 `json:"seatingPlanId,omitempty"`
}

// TicketPrice is a (ticket type, unit price) pairing scoped to one performance.
type TicketPrice struct {
	TicketPriceID  int64   `json:"ticketPriceId"`
	TicketTypeID   int64   `json:"ticketTypeId,omitempty"`
	TicketTypeName string  `json:"ticketTypeName"`
	Price          float64 `json:"price"`
}

type Performance struct {
	PerformanceID   int64          `json:"performanceId"`
	ShowID          int64          `json:"showId"`
	ShowName        string         `json:"showName"`
	VenueID         int64          `json:"venueId,omitempty"`
	VenueName       string         `json:"venueName,omitempty"`
	PerformanceDate string         `json:"performanceDate"`
	StartTime       TimeSpan       `json:"startTime"`
	EndTime         TimeSpan       `json:"endTime"`
	SoldOut         bool           `json:"soldOut"`
	Cancel          bool           `json:"cancel"`
	Active          bool           `json:"active"`
	SeatingType     SeatingType    `json:"seatingType"`
	SeatingPlan     *SeatingPlan   `json:"seatingPlan,omitempty"`
	RemainingSeats  int            `json:"remainingSeats,omitempty"`
	ReservedSeats   []ReservedSeat `json:"reservedSeats,omitempty"`
	TicketPrices    []TicketPrice  `json:"ticketPrices,omitempty"`
}

// Bookable reports whether the performance may be offered for selection.
// Only the cancelled and sold out flags gate it; Active is an admin listing
// status.
func (p Performance) Bookable() bool {
	return !p.Cancel && !p.SoldOut
}

type Venue struct {
	VenueID      int64  `json:"venueId"`
	VenueName    string `json:"venueName"`
	TypeID       int64  `json:"typeId"`
	MaxCapacity  int    `json:"maxCapacity"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Active       bool   `json:"active"`
	VenueURL     string `json:"venueUrl"`
	LocationID   int64  `json:"locationId"`
	LocationName string `json:"locationName,omitempty"`
	ImagesURL    string `json:"imagesUrl"`
	Rows         int    `json:"rows"`
	SeatsPerRow  int    `json:"seatsPerRow"`
}

type VenueType struct {
	TypeID    int64  `json:"typeId"`
	VenueType string `json:"venueType"`
}

type Location struct {
	LocationID       int64   `json:"locationId"`
	LocationName     string  `json:"locationName"`
	Address          string  `json:"address"`
	Suburb           string  `json:"suburb"`
	State            string  `json:"state"`
	PostalCode       string  `json:"postalCode"`
	Country          string  `json:"country"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	ParkingAvailable bool    `json:"parkingAvailable"`
	Active           bool    `json:"active"`
}

type TicketType struct {
	TicketTypeID int64  `json:"ticketTypeId"`
	TypeName     string `json:"typeName"`
	Description  string `json:"description"`
}

type Ticket struct {
	TicketID        int64          `json:"ticketId"`
	PerformanceID   int64          `json:"performanceId"`
	UserID          string         `json:"userId"`
	UserEmail       string         `json:"userEmail,omitempty"`
	UserName        string         `json:"userName,omitempty"`
	ShowName        string         `json:"showName,omitempty"`
	VenueName       string         `json:"venueName,omitempty"`
	QRImageURL      string         `json:"qrImageUrl"`
	QRInCode        string         `json:"qrInCode"`
	StartTime       TimeSpan       `json:"startTime"`
	EndTime         TimeSpan       `json:"endTime"`
	PerformanceDate string         `json:"performanceDate"`
	IsCheckedIn     bool           `json:"isCheckedIn"`
	Cancelled       bool           `json:"cancelled"`
	ReservedSeats   []ReservedSeat `json:"reservedSeats,omitempty"`
	Price           float64        `json:"price,omitempty"`
	TicketTypeName  string         `json:"ticketTypeName,omitempty"`
}

// TicketStatus is the bulk status applied to every ticket of a booking.
type TicketStatus struct {
	IsCheckedIn bool `json:"isCheckedIn"`
	Cancelled   bool `json:"cancelled"`
}

type ShowSales struct {
	ShowID           int64   `json:"showId"`
	ShowName         string  `json:"showName"`
	TotalTicketsSold int     `json:"totalTicketsSold"`
	TotalRevenue     float64 `json:"totalRevenue"`
	StartDate        string  `json:"startDate,omitempty"`
	EndDate          string  `json:"endDate,omitempty"`
}
