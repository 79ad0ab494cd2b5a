package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/services"
	"airline-backoffice/utils"
)

type FlightController struct {
	Flights *services.FlightService
	Pricing *services.PricingService
	Log     logrus.FieldLogger
}

func NewFlightController(flights *services.FlightService, pricing *services.PricingService, log logrus.FieldLogger) *FlightController {
	return &FlightController{Flights: flights, Pricing: pricing, Log: log}
}

func (ctrl *FlightController) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := ctrl.Flights.Search(c.Request.Context(), q.criteria())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// Price reports the latest charged price of a flight.
func (ctrl *FlightController) Price(c *gin.Context) {
	var req FlightPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !req.FlightNo.Set {
		utils.JSONError(c, http.StatusBadRequest, "Missing flight number")
		return
	}
	price, err := ctrl.Pricing.PriceOf(c.Request.Context(), req.FlightNo.Value)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"flight_no": req.FlightNo.Value,
		"price":     price.StringFixed(2),
	})
}

func (ctrl *FlightController) ArrivalTime(c *gin.Context) {
	var req ArrivalTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	at, err := ctrl.Flights.ArrivalTime(c.Request.Context(), services.ArrivalTimeInput{
		RouteID:       req.Route.Value,
		DepartureTime: req.DepartureTime,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, at)
}

func (ctrl *FlightController) ListSchedules(c *gin.Context) {
	flights, err := ctrl.Flights.ListSchedules(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, flights)
}

func (ctrl *FlightController) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	f, err := ctrl.Flights.CreateFlight(c.Request.Context(), services.CreateFlightInput{
		RouteID:       req.RouteID,
		ScheduleDate:  req.ScheduleDate,
		DepartureTime: req.DepartureTime,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, f)
}
