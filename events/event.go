// Package events defines the messages published when bookings change.
package events

// BookingCommittedQueue receives one message per committed booking.
const BookingCommittedQueue = "booking.committed"

// BookingCommittedEvent is published after a booking and its children are
// persisted. Edited is true when an existing booking was rewritten.
type BookingCommittedEvent struct {
	BookingID    uint     `json:"booking_id"`
	PassengerID  uint     `json:"passenger_id"`
	FlightNos    []uint   `json:"flight_nos"`
	BaggageCount int      `json:"baggage_count"`
	HasInsurance bool     `json:"has_insurance"`
	TotalCost    string   `json:"total_cost"`
	Edited       bool     `json:"edited"`
	DateBooked   string   `json:"date_booked"`
	CommittedAt  string   `json:"committed_at"`
	AddOns       []string `json:"add_ons,omitempty"`
}
