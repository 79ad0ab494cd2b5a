package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"airline-backoffice/models"
	"airline-backoffice/session"
)

// BookingSessionService edits a caller's in-progress booking. Every change
// goes through Store.Update so concurrent requests from one caller do not
// lose legs.
type BookingSessionService struct {
	DB      *gorm.DB
	Store   session.Store
	Pricing *PricingService
}

func NewBookingSessionService(db *gorm.DB, store session.Store, pricing *PricingService) *BookingSessionService {
	return &BookingSessionService{DB: db, Store: store, Pricing: pricing}
}

type AddLegInput struct {
	FlightID   uint
	FlightType string
	Search     *session.SearchData
}

func validLegType(t string) bool {
	switch t {
	case session.LegOutbound, session.LegReturn, session.LegExisting:
		return true
	}
	return false
}

func (s *BookingSessionService) Get(ctx context.Context, sid string) (*session.BookingSession, error) {
	return s.Store.Load(ctx, sid)
}

// AddLeg appends one flight to the session at its current display price.
// The same flight added twice gives two legs.
func (s *BookingSessionService) AddLeg(ctx context.Context, sid string, in AddLegInput) (*session.BookingSession, error) {
	legType := strings.ToLower(strings.TrimSpace(in.FlightType))
	if !validLegType(legType) {
		return nil, malformed("unknown flight_type %q", in.FlightType)
	}
	if in.FlightID == 0 {
		return nil, malformed("flight_id is required")
	}

	db := s.DB.WithContext(ctx)
	var flight models.Flight
	if err := db.First(&flight, "flight_no = ?", in.FlightID).Error; err != nil {
		return nil, dbError(err, "flight", in.FlightID)
	}
	price, _, err := LatestItineraryCost(db, flight.FlightNo)
	if err != nil {
		return nil, err
	}

	leg := session.Leg{
		FlightID:   flight.FlightNo,
		FlightType: legType,
		Price:      price,
		RouteID:    flight.RouteID,
		ScheduleID: flight.ScheduleID,
	}
	return s.Store.Update(ctx, sid, func(bs *session.BookingSession) error {
		bs.Flights = append(bs.Flights, leg)
		if in.Search != nil {
			sd := *in.Search
			bs.SearchData = &sd
		}
		return nil
	})
}

// Discard drops the selected legs; the last search criteria stay.
func (s *BookingSessionService) Discard(ctx context.Context, sid string) (*session.BookingSession, error) {
	return s.Store.Update(ctx, sid, func(bs *session.BookingSession) error {
		bs.Discard()
		return nil
	})
}

// LoadForEdit replaces whatever the session holds with the legs of an
// existing booking, each at the price that booking was charged.
func (s *BookingSessionService) LoadForEdit(ctx context.Context, sid string, bookingID uint) (*session.BookingSession, error) {
	db := s.DB.WithContext(ctx)
	var b models.Booking
	err := db.
		Preload("ItineraryItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("itinerary_item_id ASC")
		}).
		Preload("BookingItems").
		First(&b, bookingID).Error
	if err != nil {
		return nil, dbError(err, "booking", bookingID)
	}
	one := []models.Booking{b}
	if err := attachItineraryFlights(db, one); err != nil {
		return nil, err
	}
	b = one[0]
	if err := attachItems(db, b.BookingItems); err != nil {
		return nil, err
	}

	legs := make([]session.Leg, 0, len(b.ItineraryItems))
	for _, it := range b.ItineraryItems {
		legs = append(legs, session.Leg{
			FlightID:   it.FlightNo,
			FlightType: session.LegExisting,
			Price:      it.Cost,
			RouteID:    it.Flight.RouteID,
			ScheduleID: it.Flight.ScheduleID,
		})
	}

	editing := &session.Editing{BookingID: b.ID, PassengerID: b.PassengerID}
	for _, bi := range b.BookingItems {
		switch bi.Item.Description {
		case BaggageItemDescription:
			editing.BaggageCount += bi.Quantity
		case InsuranceItemDescription:
			editing.HasInsurance = true
		}
	}

	return s.Store.Update(ctx, sid, func(bs *session.BookingSession) error {
		*bs = session.BookingSession{Flights: legs, Editing: editing}
		return nil
	})
}

// Quote prices the session. Nil add-on choices mean none.
func (s *BookingSessionService) Quote(ctx context.Context, bs *session.BookingSession, baggageCount *int, hasInsurance *bool) (Quote, error) {
	if baggageCount != nil && *baggageCount < 0 {
		return Quote{}, malformed("baggage_count must not be negative")
	}
	q, err := s.Pricing.Quote(ctx, bs, baggageCount, hasInsurance)
	if err != nil {
		return Quote{}, fmt.Errorf("quote session: %w", err)
	}
	return q, nil
}
