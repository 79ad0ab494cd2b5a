package services

import (
	"fmt"

	"gorm.io/gorm"

	"airline-backoffice/models"
)

// The passenger, add-on item, flight and crew member a row points at are
// fetched by id here rather than through gorm preloads.

// loadFlights returns the flights numbered nos with route cities and schedule.
func loadFlights(db *gorm.DB, nos []uint) (map[uint]models.Flight, error) {
	byNo := make(map[uint]models.Flight, len(nos))
	if len(nos) == 0 {
		return byNo, nil
	}
	var flights []models.Flight
	err := db.
		Preload("Route.OriginCity").
		Preload("Route.DestinationCity").
		Preload("Schedule").
		Where("flight_no IN ?", nos).
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("load flights: %w", err)
	}
	for _, f := range flights {
		byNo[f.FlightNo] = f
	}
	return byNo, nil
}

func attachItineraryFlights(db *gorm.DB, bookings []models.Booking) error {
	var nos []uint
	for _, b := range bookings {
		for _, it := range b.ItineraryItems {
			nos = append(nos, it.FlightNo)
		}
	}
	byNo, err := loadFlights(db, nos)
	if err != nil {
		return err
	}
	for i := range bookings {
		for j := range bookings[i].ItineraryItems {
			it := &bookings[i].ItineraryItems[j]
			it.Flight = byNo[it.FlightNo]
		}
	}
	return nil
}

func attachPassengers(db *gorm.DB, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.PassengerID)
	}
	var passengers []models.Passenger
	if err := db.Where("passenger_id IN ?", ids).Find(&passengers).Error; err != nil {
		return fmt.Errorf("load booking passengers: %w", err)
	}
	byID := make(map[uint]models.Passenger, len(passengers))
	for _, p := range passengers {
		byID[p.ID] = p
	}
	for i := range bookings {
		bookings[i].Passenger = byID[bookings[i].PassengerID]
	}
	return nil
}

func attachItems(db *gorm.DB, lines []models.BookingItem) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(lines))
	for _, bi := range lines {
		ids = append(ids, bi.ItemID)
	}
	var items []models.AdditionalItem
	if err := db.Where("item_id IN ?", ids).Find(&items).Error; err != nil {
		return fmt.Errorf("load add-on items: %w", err)
	}
	byID := make(map[uint]models.AdditionalItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for i := range lines {
		lines[i].Item = byID[lines[i].ItemID]
	}
	return nil
}

// attachCrew fills in both the crew member and the flight of each assignment.
func attachCrew(db *gorm.DB, assignments []models.CrewAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.CrewID)
	}
	var crew []models.CrewMember
	if err := db.Where("crew_id IN ?", ids).Find(&crew).Error; err != nil {
		return fmt.Errorf("load assigned crew: %w", err)
	}
	byID := make(map[uint]models.CrewMember, len(crew))
	for _, c := range crew {
		byID[c.ID] = c
	}

	nos := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		nos = append(nos, a.FlightNo)
	}
	byNo, err := loadFlights(db, nos)
	if err != nil {
		return err
	}

	for i := range assignments {
		assignments[i].Crew = byID[assignments[i].CrewID]
		assignments[i].Flight = byNo[assignments[i].FlightNo]
	}
	return nil
}
