package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"airline-backoffice/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestDBStore_RoundTrip(t *testing.T) {
	store := NewDBStore(newTestDB(t), time.Hour)
	ctx := context.Background()

	bs, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, bs.IsEmpty())
	assert.NotNil(t, bs.Flights)

	in := &BookingSession{
		Flights:    []Leg{{FlightID: 7, FlightType: LegOutbound, Price: decimal.RequireFromString("123.45"), RouteID: 2, ScheduleID: 3}},
		SearchData: &SearchData{TripType: TripOneWay, Origin: "Bangkok", Destination: "Phuket", DepartureDate: "2025-03-01", PassengerCount: 1},
	}
	require.NoError(t, store.Save(ctx, "abc", in))
	// second save goes through the upsert path
	require.NoError(t, store.Save(ctx, "abc", in))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, got.Flights, 1)
	assert.Equal(t, uint(7), got.Flights[0].FlightID)
	assert.Equal(t, "123.45", got.Flights[0].Price.StringFixed(2))
	assert.Equal(t, "Phuket", got.SearchData.Destination)

	other, err := store.Load(ctx, "someone-else")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())

	require.NoError(t, store.Clear(ctx, "abc"))
	got, err = store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestDBStore_RequiresID(t *testing.T) {
	store := NewDBStore(newTestDB(t), time.Hour)
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrNoSessionID)
	assert.ErrorIs(t, store.Save(ctx, "", &BookingSession{}), ErrNoSessionID)
	assert.ErrorIs(t, store.Clear(ctx, ""), ErrNoSessionID)
}

func TestDBStore_UpdateAppliesSequentially(t *testing.T) {
	store := NewDBStore(newTestDB(t), time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(no uint) {
			defer wg.Done()
			_, err := store.Update(ctx, "s", func(bs *BookingSession) error {
				bs.Flights = append(bs.Flights, Leg{FlightID: no, FlightType: LegOutbound})
				return nil
			})
			assert.NoError(t, err)
		}(uint(i))
	}
	wg.Wait()

	bs, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, bs.Flights, 8)
}

func TestDBStore_UpdateErrorSavesNothing(t *testing.T) {
	store := NewDBStore(newTestDB(t), time.Hour)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s", &BookingSession{Flights: []Leg{{FlightID: 1}}}))

	boom := errors.New("boom")
	_, err := store.Update(ctx, "s", func(bs *BookingSession) error {
		bs.Flights = nil
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bs, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, bs.Flights, 1)
}

func TestDBStore_ExpiredSessionsLookEmptyAndPurge(t *testing.T) {
	db := newTestDB(t)
	store := NewDBStore(db, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "old", &BookingSession{Flights: []Leg{{FlightID: 1}}}))
	require.NoError(t, store.Save(ctx, "new", &BookingSession{Flights: []Leg{{FlightID: 2}}}))

	require.NoError(t, db.Model(&models.BookingSessionRecord{}).
		Where("session_id = ?", "old").
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	bs, err := store.Load(ctx, "old")
	require.NoError(t, err)
	assert.True(t, bs.IsEmpty())

	n, err := store.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	bs, err = store.Load(ctx, "new")
	require.NoError(t, err)
	assert.Len(t, bs.Flights, 1)
}
