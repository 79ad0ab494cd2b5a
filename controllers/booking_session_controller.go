package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/middleware"
	"airline-backoffice/services"
	"airline-backoffice/utils"
)

// FlightSearchPath is where an empty-session commit sends the caller.
const FlightSearchPath = "/api/flights/search"

type BookingSessionController struct {
	Sessions *services.BookingSessionService
	Bookings *services.BookingService
	Log      logrus.FieldLogger
}

func NewBookingSessionController(sessions *services.BookingSessionService, bookings *services.BookingService, log logrus.FieldLogger) *BookingSessionController {
	return &BookingSessionController{Sessions: sessions, Bookings: bookings, Log: log}
}

// Get returns the caller's session with a price quote. baggage_count and
// has_insurance query params preview add-ons; omitted ones count as none,
// the same defaults commit applies.
func (ctrl *BookingSessionController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	bs, err := ctrl.Sessions.Get(ctx, middleware.CurrentSessionID(c))
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}

	var bags *int
	if raw := strings.TrimSpace(c.Query("baggage_count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONFieldError(c, http.StatusBadRequest, "baggage_count", "baggage_count must be a whole number")
			return
		}
		bags = &n
	}
	var ins *bool
	if raw := strings.TrimSpace(c.Query("has_insurance")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONFieldError(c, http.StatusBadRequest, "has_insurance", "has_insurance must be true or false")
			return
		}
		ins = &b
	}

	quote, err := ctrl.Sessions.Quote(ctx, bs, bags, ins)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"session": bs, "quote": quote})
}

func (ctrl *BookingSessionController) AddLeg(c *gin.Context) {
	var req AddLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	bs, err := ctrl.Sessions.AddLeg(c.Request.Context(), middleware.CurrentSessionID(c), services.AddLegInput{
		FlightID:   req.FlightID.Value,
		FlightType: req.FlightType,
		Search:     req.Search,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bs)
}

func (ctrl *BookingSessionController) Discard(c *gin.Context) {
	bs, err := ctrl.Sessions.Discard(c.Request.Context(), middleware.CurrentSessionID(c))
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bs)
}

func (ctrl *BookingSessionController) Commit(c *gin.Context) {
	var req CommitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	in := services.CommitInput{
		PassengerID:  req.PassengerID.Ptr(),
		HasInsurance: req.HasInsurance,
	}
	if req.BaggageCount != nil {
		in.BaggageCount = *req.BaggageCount
	}

	booking, err := ctrl.Bookings.Commit(c.Request.Context(), middleware.CurrentSessionID(c), in)
	if errors.Is(err, services.ErrEmptySession) {
		c.Redirect(http.StatusSeeOther, FlightSearchPath)
		return
	}
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}
