package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"airline-backoffice/models"
	"airline-backoffice/session"
	"airline-backoffice/utils"
)

type FlightService struct {
	DB *gorm.DB
}

func NewFlightService(db *gorm.DB) *FlightService {
	return &FlightService{DB: db}
}

// FlightCandidate is one searchable flight with its current display price.
type FlightCandidate struct {
	FlightNo      uint            `json:"flight_no"`
	LegType       string          `json:"leg_type"`
	RouteID       uint            `json:"route_id"`
	ScheduleID    uint            `json:"schedule_id"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	Date          string          `json:"date"`
	DepartureTime time.Time       `json:"departure_time"`
	ArrivalTime   time.Time       `json:"arrival_time"`
	Duration      int             `json:"duration"`
	Price         decimal.Decimal `json:"price"`
}

type SearchResult struct {
	Criteria session.SearchData `json:"criteria"`
	Outbound []FlightCandidate  `json:"outbound"`
	Return   []FlightCandidate  `json:"return"`
}

type CreateFlightInput struct {
	RouteID       uint
	ScheduleDate  string
	DepartureTime string
}

type ArrivalTimeInput struct {
	RouteID       uint
	DepartureTime string
	Date          string // optional, defaults to today
}

type ArrivalTime struct {
	RouteID     uint      `json:"route_id"`
	Duration    int       `json:"duration"`
	DepartureAt time.Time `json:"departure_at"`
	ArrivalAt   time.Time `json:"arrival_at"`
	ArrivalTime string    `json:"arrival_time"`
	DayOffset   int       `json:"day_offset"`
}

// NormalizeSearch trims and checks search criteria and fills defaults.
func NormalizeSearch(in session.SearchData) (session.SearchData, error) {
	out := in
	out.TripType = strings.ToLower(strings.TrimSpace(in.TripType))
	out.Origin = strings.TrimSpace(in.Origin)
	out.Destination = strings.TrimSpace(in.Destination)
	out.DepartureDate = strings.TrimSpace(in.DepartureDate)
	out.ReturnDate = strings.TrimSpace(in.ReturnDate)

	switch out.TripType {
	case "":
		out.TripType = session.TripOneWay
	case session.TripOneWay, session.TripRoundTrip:
	default:
		return out, malformed("unknown trip_type %q", in.TripType)
	}
	if out.PassengerCount == 0 {
		out.PassengerCount = 1
	}
	if out.PassengerCount < 1 {
		return out, fieldError("passenger_count", "At least one passenger is required.")
	}
	if out.Origin == "" {
		return out, fieldError("origin", "Origin is required.")
	}
	if out.Destination == "" {
		return out, fieldError("destination", "Destination is required.")
	}
	if strings.EqualFold(out.Origin, out.Destination) {
		return out, fieldError("destination", "Origin and destination must be different cities.")
	}

	dep, err := utils.ParseDate(out.DepartureDate)
	if err != nil {
		return out, malformed("departure_date: %v", err)
	}
	if out.TripType == session.TripOneWay {
		out.ReturnDate = ""
		return out, nil
	}
	if out.ReturnDate == "" {
		return out, fieldError("return_date", "Return date is required for a round trip.")
	}
	ret, err := utils.ParseDate(out.ReturnDate)
	if err != nil {
		return out, malformed("return_date: %v", err)
	}
	if ret.Before(dep) {
		return out, fieldError("return_date", "Return date cannot be before the departure date.")
	}
	return out, nil
}

func (s *FlightService) GetFlight(ctx context.Context, flightNo uint) (models.Flight, error) {
	var f models.Flight
	err := s.DB.WithContext(ctx).
		Preload("Route.OriginCity").
		Preload("Route.DestinationCity").
		Preload("Schedule").
		First(&f, "flight_no = ?", flightNo).Error
	return f, dbError(err, "flight", flightNo)
}

// ListSchedules returns every flight ordered by date then departure time.
func (s *FlightService) ListSchedules(ctx context.Context) ([]models.Flight, error) {
	var flights []models.Flight
	err := s.DB.WithContext(ctx).
		Joins("JOIN flight_schedules ON flight_schedules.schedule_id = flights.schedule_id").
		Preload("Route.OriginCity").
		Preload("Route.DestinationCity").
		Preload("Schedule").
		Order("flight_schedules.date ASC").
		Order("flights.departure_time ASC").
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return flights, nil
}

// getOrCreateSchedule reuses the schedule row for day or creates it.
func getOrCreateSchedule(tx *gorm.DB, day time.Time) (models.FlightSchedule, error) {
	day = utils.DateOnly(day)
	var sched models.FlightSchedule
	err := tx.Where("date = ?", day).First(&sched).Error
	if err == nil {
		return sched, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return sched, fmt.Errorf("find schedule %s: %w", utils.FormatDate(day), err)
	}
	sched = models.FlightSchedule{Date: day}
	err = createOrFind(tx, "create_schedule", &sched, func() error {
		sched = models.FlightSchedule{}
		return tx.Where("date = ?", day).First(&sched).Error
	})
	if err != nil {
		return sched, fmt.Errorf("create schedule %s: %w", utils.FormatDate(day), err)
	}
	return sched, nil
}

// CreateFlight schedules a flight on a route. Arrival is departure plus the
// route duration.
func (s *FlightService) CreateFlight(ctx context.Context, in CreateFlightInput) (models.Flight, error) {
	if in.RouteID == 0 {
		return models.Flight{}, fieldError("route_id", "Route is required.")
	}
	day, err := utils.ParseDate(in.ScheduleDate)
	if err != nil {
		return models.Flight{}, malformed("schedule_date: %v", err)
	}
	hh, mm, err := utils.ParseClock(in.DepartureTime)
	if err != nil {
		return models.Flight{}, malformed("departure_time: %v", err)
	}

	var flight models.Flight
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var route models.FlightRoute
		if err := tx.First(&route, in.RouteID).Error; err != nil {
			return dbError(err, "route", in.RouteID)
		}

		dep := utils.At(day, hh, mm)
		arr := dep.Add(time.Duration(route.Duration) * time.Minute)
		if !arr.After(dep) {
			return fieldError("departure_time", "Arrival time must be after departure time.")
		}

		sched, err := getOrCreateSchedule(tx, day)
		if err != nil {
			return err
		}

		flight = models.Flight{
			RouteID:       route.ID,
			ScheduleID:    sched.ID,
			DepartureTime: dep,
			ArrivalTime:   arr,
		}
		if err := tx.Create(&flight).Error; err != nil {
			return fmt.Errorf("create flight: %w", err)
		}
		flight.Route = route
		flight.Schedule = sched
		return nil
	})
	if err != nil {
		return models.Flight{}, err
	}
	return flight, nil
}

// ArrivalTime derives arrival from a route's duration.
func (s *FlightService) ArrivalTime(ctx context.Context, in ArrivalTimeInput) (ArrivalTime, error) {
	if in.RouteID == 0 {
		return ArrivalTime{}, malformed("route is required")
	}
	hh, mm, err := utils.ParseClock(in.DepartureTime)
	if err != nil {
		return ArrivalTime{}, malformed("departure_time: %v", err)
	}
	day := utils.DateOnly(time.Now().UTC())
	if strings.TrimSpace(in.Date) != "" {
		if day, err = utils.ParseDate(in.Date); err != nil {
			return ArrivalTime{}, malformed("date: %v", err)
		}
	}

	var route models.FlightRoute
	if err := s.DB.WithContext(ctx).First(&route, in.RouteID).Error; err != nil {
		return ArrivalTime{}, dbError(err, "route", in.RouteID)
	}

	dep := utils.At(day, hh, mm)
	arr := dep.Add(time.Duration(route.Duration) * time.Minute)
	return ArrivalTime{
		RouteID:     route.ID,
		Duration:    route.Duration,
		DepartureAt: dep,
		ArrivalAt:   arr,
		ArrivalTime: arr.Format("15:04"),
		DayOffset:   int(utils.DateOnly(arr).Sub(day).Hours() / 24),
	}, nil
}

// Search lists outbound flights for the criteria and, for round trips, the
// flights back on the return date.
func (s *FlightService) Search(ctx context.Context, criteria session.SearchData) (SearchResult, error) {
	c, err := NormalizeSearch(criteria)
	if err != nil {
		return SearchResult{}, err
	}
	db := s.DB.WithContext(ctx)

	dep, _ := utils.ParseDate(c.DepartureDate)
	out, err := s.findLegs(db, c.Origin, c.Destination, dep, session.LegOutbound)
	if err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{Criteria: c, Outbound: out, Return: []FlightCandidate{}}
	if c.TripType == session.TripRoundTrip {
		ret, _ := utils.ParseDate(c.ReturnDate)
		back, err := s.findLegs(db, c.Destination, c.Origin, ret, session.LegReturn)
		if err != nil {
			return SearchResult{}, err
		}
		res.Return = back
	}
	return res, nil
}

func (s *FlightService) findLegs(db *gorm.DB, origin, dest string, day time.Time, legType string) ([]FlightCandidate, error) {
	var flights []models.Flight
	err := db.
		Joins("JOIN flight_routes ON flight_routes.route_id = flights.route_id").
		Joins("JOIN cities oc ON oc.city_id = flight_routes.origin_city_id").
		Joins("JOIN cities dc ON dc.city_id = flight_routes.destination_city_id").
		Joins("JOIN flight_schedules ON flight_schedules.schedule_id = flights.schedule_id").
		Where("LOWER(oc.city_name) = LOWER(?)", origin).
		Where("LOWER(dc.city_name) = LOWER(?)", dest).
		Where("flight_schedules.date = ?", utils.DateOnly(day)).
		Preload("Route.OriginCity").
		Preload("Route.DestinationCity").
		Preload("Schedule").
		Order("flights.departure_time ASC").
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("search flights %s -> %s: %w", origin, dest, err)
	}

	out := make([]FlightCandidate, 0, len(flights))
	for _, f := range flights {
		price, _, err := LatestItineraryCost(db, f.FlightNo)
		if err != nil {
			return nil, err
		}
		out = append(out, FlightCandidate{
			FlightNo:      f.FlightNo,
			LegType:       legType,
			RouteID:       f.RouteID,
			ScheduleID:    f.ScheduleID,
			Origin:        f.Route.OriginCity.CityName,
			Destination:   f.Route.DestinationCity.CityName,
			Date:          utils.FormatDate(f.Schedule.Date),
			DepartureTime: f.DepartureTime,
			ArrivalTime:   f.ArrivalTime,
			Duration:      f.Route.Duration,
			Price:         price,
		})
	}
	return out, nil
}
