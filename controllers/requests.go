package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"airline-backoffice/models"
	"airline-backoffice/session"
)

// OptionalID accepts a JSON number, a numeric string, "" or null. The empty
// forms leave it unset.
type OptionalID struct {
	Value uint
	Set   bool
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = OptionalID{}
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*o = OptionalID{}
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("invalid id %q", s)
	}
	*o = OptionalID{Value: uint(n), Set: true}
	return nil
}

// Ptr returns nil when unset.
func (o OptionalID) Ptr() *uint {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type AddLegRequest struct {
	FlightID   OptionalID          `json:"flight_id"`
	FlightType string              `json:"flight_type" binding:"required,legtype"`
	Search     *session.SearchData `json:"search"`
}

type CommitRequest struct {
	PassengerID  OptionalID `json:"passenger_id"`
	BaggageCount *int       `json:"baggage_count" binding:"omitempty,min=0"`
	HasInsurance bool       `json:"has_insurance"`
}

type SearchQuery struct {
	TripType       string `form:"trip_type"`
	Origin         string `form:"origin"`
	Destination    string `form:"destination"`
	DepartureDate  string `form:"departure_date"`
	ReturnDate     string `form:"return_date"`
	PassengerCount int    `form:"passenger_count"`
}

func (q SearchQuery) criteria() session.SearchData {
	return session.SearchData{
		TripType:       q.TripType,
		Origin:         q.Origin,
		Destination:    q.Destination,
		DepartureDate:  q.DepartureDate,
		ReturnDate:     q.ReturnDate,
		PassengerCount: q.PassengerCount,
	}
}

type FlightPriceRequest struct {
	FlightNo OptionalID `json:"flight_no"`
}

type ArrivalTimeRequest struct {
	Route         OptionalID `json:"route"`
	DepartureTime string     `json:"departure_time" binding:"required"`
	Date          string     `json:"date"`
}

type CreateScheduleRequest struct {
	RouteID       uint   `json:"route_id" binding:"required"`
	ScheduleDate  string `json:"schedule_date" binding:"required"`
	DepartureTime string `json:"departure_time" binding:"required"`
}

type CreateRouteRequest struct {
	OriginCityName      string `json:"origin_city_name" binding:"required"`
	DestinationCityName string `json:"destination_city_name" binding:"required"`
	Duration            int    `json:"duration" binding:"min=0"`
}

type CreateCityRequest struct {
	CityName string `json:"city_name" binding:"required"`
}

type CreatePassengerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Birthdate string `json:"birthdate" binding:"required"`
	Gender    string `json:"gender" binding:"required,gender"`
}

type AssignCrewRequest struct {
	CrewID         uint   `json:"crew_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           string `json:"role"`
	FlightNo       uint   `json:"flight_no" binding:"required"`
	AssignmentDate string `json:"assignment_date"`
}

// RegisterValidators installs the custom binding tags on gin's validator and
// reports field names by their json tag.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
			return true
		}
		return false
	}); err != nil {
		return err
	}
	return v.RegisterValidation("legtype", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
		case session.LegOutbound, session.LegReturn, session.LegExisting:
			return true
		}
		return false
	})
}
