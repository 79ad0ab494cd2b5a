package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"airline-backoffice/events"
	"airline-backoffice/models"
	"airline-backoffice/session"
	"airline-backoffice/utils"
)

const msgSelectPassenger = "Please select a passenger before confirming the booking."

// PublishTimeout bounds the booking.committed publish that follows a commit.
var PublishTimeout = 3 * time.Second

type BookingService struct {
	DB        *gorm.DB
	Store     session.Store
	Publisher events.Publisher
	Log       logrus.FieldLogger
	Now       func() time.Time
}

func NewBookingService(db *gorm.DB, store session.Store, pub events.Publisher, log logrus.FieldLogger) *BookingService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BookingService{
		DB:        db,
		Store:     store,
		Publisher: pub,
		Log:       log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// CommitInput carries the caller's choices. PassengerID is nil when the
// caller did not pick one.
type CommitInput struct {
	PassengerID  *uint
	BaggageCount int
	HasInsurance bool
}

// BookingListEntry is one row of the bookings list. Flights holds one
// "Origin ➝ Destination | date @ hh:mm AM" line per leg.
type BookingListEntry struct {
	BookingID     uint            `json:"booking_id"`
	DateBooked    string          `json:"date_booked"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	PassengerID   uint            `json:"passenger_id"`
	PassengerName string          `json:"passenger_name"`
	Flights       []string        `json:"flights"`
}

// LegSummary renders a flight as shown in the bookings list.
func LegSummary(f models.Flight) string {
	return fmt.Sprintf("%s ➝ %s | %s @ %s",
		f.Route.OriginCity.CityName,
		f.Route.DestinationCity.CityName,
		utils.FormatDate(f.Schedule.Date),
		f.DepartureTime.Format("03:04 PM"),
	)
}

// Commit turns the caller's session into a booking. When the session was
// loaded for edit the existing booking is rewritten: its itinerary and
// add-on rows are replaced and date_booked is kept.
func (s *BookingService) Commit(ctx context.Context, sid string, in CommitInput) (*models.Booking, error) {
	bs, err := s.Store.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if bs.IsEmpty() {
		return nil, ErrEmptySession
	}
	if in.PassengerID == nil || *in.PassengerID == 0 {
		return nil, fieldError("passenger_id", msgSelectPassenger)
	}
	if in.BaggageCount < 0 {
		return nil, malformed("baggage_count must not be negative")
	}

	db := s.DB.WithContext(ctx)

	var passenger models.Passenger
	if err := db.First(&passenger, *in.PassengerID).Error; err != nil {
		return nil, dbError(err, "passenger", *in.PassengerID)
	}

	// every leg must still resolve before anything is written
	flightNos := make([]uint, 0, len(bs.Flights))
	for _, leg := range bs.Flights {
		flightNos = append(flightNos, leg.FlightID)
	}
	var known []uint
	if err := db.Model(&models.Flight{}).Where("flight_no IN ?", flightNos).Pluck("flight_no", &known).Error; err != nil {
		return nil, fmt.Errorf("check session flights: %w", err)
	}
	have := make(map[uint]bool, len(known))
	for _, no := range known {
		have[no] = true
	}
	for _, no := range flightNos {
		if !have[no] {
			return nil, notFound("flight", no)
		}
	}

	var editingID uint
	if bs.Editing != nil {
		editingID = bs.Editing.BookingID
	}

	var booking models.Booking
	var quote Quote
	err = db.Transaction(func(tx *gorm.DB) error {
		rates, err := loadRates(tx)
		if err != nil {
			return err
		}
		quote = ComputeQuote(bs.FlightsCost(), in.BaggageCount, in.HasInsurance, rates)

		if editingID != 0 {
			if err := tx.First(&booking, editingID).Error; err != nil {
				return dbError(err, "booking", editingID)
			}
			if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.ItineraryItem{}).Error; err != nil {
				return fmt.Errorf("delete itinerary of booking %d: %w", booking.ID, err)
			}
			if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.BookingItem{}).Error; err != nil {
				return fmt.Errorf("delete add-ons of booking %d: %w", booking.ID, err)
			}
			err = tx.Model(&booking).Updates(map[string]any{
				"total_cost":   quote.TotalCost,
				"passenger_id": passenger.ID,
			}).Error
			if err != nil {
				return fmt.Errorf("update booking %d: %w", booking.ID, err)
			}
			booking.TotalCost = quote.TotalCost
			booking.PassengerID = passenger.ID
		} else {
			booking = models.Booking{
				DateBooked:  utils.DateOnly(s.Now()),
				TotalCost:   quote.TotalCost,
				PassengerID: passenger.ID,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return fmt.Errorf("create booking: %w", err)
			}
		}

		items := make([]models.ItineraryItem, 0, len(bs.Flights))
		for _, leg := range bs.Flights {
			items = append(items, models.ItineraryItem{
				BookingID: booking.ID,
				FlightNo:  leg.FlightID,
				Cost:      leg.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create itinerary items: %w", err)
		}

		var addOns []models.BookingItem
		if in.BaggageCount > 0 {
			addOns = append(addOns, models.BookingItem{
				BookingID:    booking.ID,
				ItemID:       rates.Baggage.ID,
				Quantity:     in.BaggageCount,
				SubtotalCost: quote.BaggageCost,
			})
		}
		if in.HasInsurance {
			addOns = append(addOns, models.BookingItem{
				BookingID:    booking.ID,
				ItemID:       rates.Insurance.ID,
				Quantity:     1,
				SubtotalCost: quote.InsuranceCost,
			})
		}
		if len(addOns) > 0 {
			if err := tx.Create(&addOns).Error; err != nil {
				return fmt.Errorf("create booking items: %w", err)
			}
		}

		booking.Passenger = passenger
		booking.ItineraryItems = items
		booking.BookingItems = addOns
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := s.Log.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"passenger_id": passenger.ID,
		"legs":         len(bs.Flights),
		"total_cost":   booking.TotalCost.StringFixed(2),
		"edited":       editingID != 0,
	})
	log.Info("booking committed")

	if err := s.Store.Clear(ctx, sid); err != nil {
		log.WithError(err).Warn("clear booking session")
	}

	ev := events.BookingCommittedEvent{
		BookingID:    booking.ID,
		PassengerID:  passenger.ID,
		FlightNos:    flightNos,
		BaggageCount: in.BaggageCount,
		HasInsurance: in.HasInsurance,
		TotalCost:    booking.TotalCost.StringFixed(2),
		Edited:       editingID != 0,
		DateBooked:   utils.FormatDate(booking.DateBooked),
		CommittedAt:  s.Now().Format(time.RFC3339),
	}
	if in.BaggageCount > 0 {
		ev.AddOns = append(ev.AddOns, BaggageItemDescription)
	}
	if in.HasInsurance {
		ev.AddOns = append(ev.AddOns, InsuranceItemDescription)
	}
	pubCtx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()
	if err := s.Publisher.PublishBookingCommitted(pubCtx, ev); err != nil {
		log.WithError(err).Warn("publish booking.committed")
	}

	full, err := s.Get(ctx, booking.ID)
	if err != nil {
		// committed already; hand back what the transaction wrote
		log.WithError(err).Warn("reload committed booking")
		return &booking, nil
	}
	return &full, nil
}

// List returns bookings oldest date first, newest booking first within a day.
func (s *BookingService) List(ctx context.Context) ([]BookingListEntry, error) {
	var bookings []models.Booking
	db := s.DB.WithContext(ctx)
	err := db.
		Preload("ItineraryItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("itinerary_item_id ASC")
		}).
		Order("date_booked ASC").
		Order("booking_id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if err := attachPassengers(db, bookings); err != nil {
		return nil, err
	}
	if err := attachItineraryFlights(db, bookings); err != nil {
		return nil, err
	}

	out := make([]BookingListEntry, 0, len(bookings))
	for _, b := range bookings {
		row := BookingListEntry{
			BookingID:     b.ID,
			DateBooked:    utils.FormatDate(b.DateBooked),
			TotalCost:     b.TotalCost,
			PassengerID:   b.PassengerID,
			PassengerName: b.Passenger.FullName(),
			Flights:       make([]string, 0, len(b.ItineraryItems)),
		}
		for _, it := range b.ItineraryItems {
			row.Flights = append(row.Flights, LegSummary(it.Flight))
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *BookingService) Get(ctx context.Context, id uint) (models.Booking, error) {
	db := s.DB.WithContext(ctx)
	var b models.Booking
	err := db.
		Preload("ItineraryItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("itinerary_item_id ASC")
		}).
		Preload("BookingItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("booking_item_id ASC")
		}).
		First(&b, id).Error
	if err != nil {
		return b, dbError(err, "booking", id)
	}
	one := []models.Booking{b}
	if err := attachPassengers(db, one); err != nil {
		return b, err
	}
	if err := attachItineraryFlights(db, one); err != nil {
		return b, err
	}
	b = one[0]
	if err := attachItems(db, b.BookingItems); err != nil {
		return b, err
	}
	return b, nil
}

// Delete removes a booking with its itinerary and add-on rows.
func (s *BookingService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.First(&b, id).Error; err != nil {
			return dbError(err, "booking", id)
		}
		if err := tx.Where("booking_id = ?", id).Delete(&models.ItineraryItem{}).Error; err != nil {
			return fmt.Errorf("delete itinerary of booking %d: %w", id, err)
		}
		if err := tx.Where("booking_id = ?", id).Delete(&models.BookingItem{}).Error; err != nil {
			return fmt.Errorf("delete add-ons of booking %d: %w", id, err)
		}
		if err := tx.Delete(&b).Error; err != nil {
			return fmt.Errorf("delete booking %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Log.WithField("booking_id", id).Info("booking deleted")
	return nil
}
