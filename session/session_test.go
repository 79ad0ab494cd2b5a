package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBookingSession_CostAndDiscard(t *testing.T) {
	bs := &BookingSession{
		Flights: []Leg{
			{FlightID: 1, FlightType: LegOutbound, Price: decimal.RequireFromString("1500.00")},
			{FlightID: 2, FlightType: LegReturn, Price: decimal.RequireFromString("1600.50")},
		},
		SearchData: &SearchData{TripType: TripRoundTrip, Origin: "Bangkok", Destination: "Krabi"},
		Editing:    &Editing{BookingID: 9},
	}
	assert.False(t, bs.IsEmpty())
	assert.Equal(t, "3100.50", bs.FlightsCost().StringFixed(2))

	bs.Discard()
	assert.True(t, bs.IsEmpty())
	assert.Nil(t, bs.Editing)
	assert.NotNil(t, bs.SearchData)
	assert.True(t, bs.FlightsCost().IsZero())

	var none *BookingSession
	assert.True(t, none.IsEmpty())
}
