package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/middleware"
	"airline-backoffice/services"
	"airline-backoffice/utils"
)

type BookingController struct {
	Bookings *services.BookingService
	Sessions *services.BookingSessionService
	Log      logrus.FieldLogger
}

func NewBookingController(bookings *services.BookingService, sessions *services.BookingSessionService, log logrus.FieldLogger) *BookingController {
	return &BookingController{Bookings: bookings, Sessions: sessions, Log: log}
}

// parseIDParam reads a positive integer path parameter. It answers the
// request itself when the value is unusable.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}

func (ctrl *BookingController) List(c *gin.Context) {
	rows, err := ctrl.Bookings.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

func (ctrl *BookingController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// LoadForEdit puts the booking's legs into the caller's session so the
// normal commit rewrites it.
func (ctrl *BookingController) LoadForEdit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bs, err := ctrl.Sessions.LoadForEdit(c.Request.Context(), middleware.CurrentSessionID(c), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bs)
}

func (ctrl *BookingController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Bookings.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"booking_id": id, "deleted": true})
}
