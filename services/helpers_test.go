package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"airline-backoffice/events"
	"airline-backoffice/models"
	"airline-backoffice/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordingPublisher struct {
	events []events.BookingCommittedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingCommitted(_ context.Context, ev events.BookingCommittedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

// world is a small network: Bangkok <-> Chiang Mai with one flight each way
// on 2025-03-01 and 2025-03-05, plus one passenger.
type world struct {
	db        *gorm.DB
	store     *session.DBStore
	pub       *recordingPublisher
	routes    *RouteService
	flights   *FlightService
	pricing   *PricingService
	sessions  *BookingSessionService
	bookings  *BookingService
	outbound  models.Flight
	inbound   models.Flight
	passenger models.Passenger
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)

	w := &world{
		db:      db,
		store:   session.NewDBStore(db, time.Hour),
		pub:     &recordingPublisher{},
		routes:  NewRouteService(db),
		flights: NewFlightService(db),
		pricing: NewPricingService(db),
	}
	w.sessions = NewBookingSessionService(db, w.store, w.pricing)
	w.bookings = NewBookingService(db, w.store, w.pub, quietLogger())
	w.bookings.Now = func() time.Time { return time.Date(2025, 2, 10, 15, 0, 0, 0, time.UTC) }

	there, err := w.routes.CreateRoute(ctx, CreateRouteInput{
		OriginCityName: "Bangkok", DestinationCityName: "Chiang Mai", Duration: 75,
	})
	require.NoError(t, err)
	back, err := w.routes.CreateRoute(ctx, CreateRouteInput{
		OriginCityName: "Chiang Mai", DestinationCityName: "Bangkok", Duration: 80,
	})
	require.NoError(t, err)

	w.outbound, err = w.flights.CreateFlight(ctx, CreateFlightInput{
		RouteID: there.ID, ScheduleDate: "2025-03-01", DepartureTime: "09:30",
	})
	require.NoError(t, err)
	w.inbound, err = w.flights.CreateFlight(ctx, CreateFlightInput{
		RouteID: back.ID, ScheduleDate: "2025-03-05", DepartureTime: "18:15",
	})
	require.NoError(t, err)

	w.passenger, err = NewPassengerService(db).Create(ctx, CreatePassengerInput{
		FirstName: "Somchai", LastName: "Dee", Birthdate: "1990-04-12", Gender: models.GenderMale,
	})
	require.NoError(t, err)
	return w
}

// putLegs stores a session holding the given legs.
func (w *world) putLegs(t *testing.T, sid string, legs ...session.Leg) {
	t.Helper()
	require.NoError(t, w.store.Save(context.Background(), sid, &session.BookingSession{Flights: legs}))
}

func (w *world) leg(f models.Flight, legType, price string) session.Leg {
	return session.Leg{
		FlightID:   f.FlightNo,
		FlightType: legType,
		Price:      dec(price),
		RouteID:    f.RouteID,
		ScheduleID: f.ScheduleID,
	}
}

// itemize records a past booking of f at cost so f has a display price.
func (w *world) itemize(t *testing.T, f models.Flight, cost string) {
	t.Helper()
	b := models.Booking{
		DateBooked:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalCost:   dec(cost),
		PassengerID: w.passenger.ID,
	}
	require.NoError(t, w.db.Create(&b).Error)
	require.NoError(t, w.db.Create(&models.ItineraryItem{BookingID: b.ID, FlightNo: f.FlightNo, Cost: dec(cost)}).Error)
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func uintPtr(v uint) *uint { return &v }
