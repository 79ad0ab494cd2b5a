package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID          uint            `gorm:"primaryKey;column:booking_id" json:"booking_id"`
	DateBooked  time.Time       `gorm:"column:date_booked;type:date;index;not null" json:"date_booked"`
	TotalCost   decimal.Decimal `gorm:"column:total_cost;type:decimal(10,2);not null" json:"total_cost"`
	PassengerID uint            `gorm:"column:passenger_id;index;not null" json:"passenger_id"`

	// Passenger, Item, Flight and Crew references are filled in by the
	// services from the id columns; gorm does not manage them.
	Passenger      Passenger       `gorm:"-" json:"passenger"`
	ItineraryItems []ItineraryItem `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"itinerary_items"`
	BookingItems   []BookingItem   `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"booking_items"`
}

// ItineraryItem is one leg of a committed booking. Cost is the price charged
// when the booking was made.
type ItineraryItem struct {
	ID        uint            `gorm:"primaryKey;column:itinerary_item_id" json:"itinerary_item_id"`
	BookingID uint            `gorm:"column:booking_id;index;not null" json:"booking_id"`
	FlightNo  uint            `gorm:"column:flight_no;index;not null" json:"flight_no"`
	Cost      decimal.Decimal `gorm:"column:cost;type:decimal(10,2);not null" json:"cost"`

	Flight Flight `gorm:"-" json:"flight"`
}

type BookingItem struct {
	ID           uint            `gorm:"primaryKey;column:booking_item_id" json:"booking_item_id"`
	BookingID    uint            `gorm:"column:booking_id;index;not null" json:"booking_id"`
	ItemID       uint            `gorm:"column:item_id;index;not null" json:"item_id"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"`
	SubtotalCost decimal.Decimal `gorm:"column:subtotal_cost;type:decimal(10,2);not null" json:"subtotal_cost"`

	Item AdditionalItem `gorm:"-" json:"item"`
}
