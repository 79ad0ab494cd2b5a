// Package session keeps a caller's in-progress booking between requests.
package session

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

const (
	LegOutbound = "outbound"
	LegReturn   = "return"
	LegExisting = "existing"

	TripOneWay    = "one_way"
	TripRoundTrip = "round_trip"
)

// ErrNoSessionID is returned by stores when asked for an empty key.
var ErrNoSessionID = errors.New("session: missing session id")

// Leg is one selected flight. Price is the display price at selection time.
type Leg struct {
	FlightID   uint            `json:"flight_id"`
	FlightType string          `json:"flight_type"`
	Price      decimal.Decimal `json:"price"`
	RouteID    uint            `json:"route_id"`
	ScheduleID uint            `json:"schedule_id"`
}

// SearchData echoes the criteria the caller searched with.
type SearchData struct {
	TripType       string `json:"trip_type"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	DepartureDate  string `json:"departure_date"`
	ReturnDate     string `json:"return_date,omitempty"`
	PassengerCount int    `json:"passenger_count"`
}

// Editing is set when the session was loaded from an existing booking.
type Editing struct {
	BookingID    uint `json:"booking_id"`
	PassengerID  uint `json:"passenger_id"`
	BaggageCount int  `json:"baggage_count"`
	HasInsurance bool `json:"has_insurance"`
}

type BookingSession struct {
	Flights    []Leg       `json:"flights"`
	SearchData *SearchData `json:"search_data,omitempty"`
	Editing    *Editing    `json:"editing,omitempty"`
}

func (s *BookingSession) IsEmpty() bool {
	return s == nil || len(s.Flights) == 0
}

// FlightsCost sums the price of every leg.
func (s *BookingSession) FlightsCost() decimal.Decimal {
	total := decimal.Zero
	if s == nil {
		return total
	}
	for _, leg := range s.Flights {
		total = total.Add(leg.Price)
	}
	return total
}

// Discard drops the selected legs and any edit context; search criteria stay.
func (s *BookingSession) Discard() {
	s.Flights = []Leg{}
	s.Editing = nil
}

// Store is the per-caller key/value substrate for booking sessions.
// Load returns an empty session when nothing is stored under id.
type Store interface {
	Load(ctx context.Context, id string) (*BookingSession, error)
	Save(ctx context.Context, id string, s *BookingSession) error
	Clear(ctx context.Context, id string) error
	// Update applies fn to the stored session and saves the result. Updates
	// for the same id do not interleave. If fn returns an error nothing is saved.
	Update(ctx context.Context, id string, fn func(*BookingSession) error) (*BookingSession, error)
}

func newSession() *BookingSession {
	return &BookingSession{Flights: []Leg{}}
}
