package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/services"
	"airline-backoffice/utils"
)

type PassengerController struct {
	Passengers *services.PassengerService
	Log        logrus.FieldLogger
}

func NewPassengerController(passengers *services.PassengerService, log logrus.FieldLogger) *PassengerController {
	return &PassengerController{Passengers: passengers, Log: log}
}

func (ctrl *PassengerController) List(c *gin.Context) {
	out, err := ctrl.Passengers.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *PassengerController) Create(c *gin.Context) {
	var req CreatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := ctrl.Passengers.Create(c.Request.Context(), services.CreatePassengerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthdate: req.Birthdate,
		Gender:    req.Gender,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (ctrl *PassengerController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Passengers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"passenger_id": id, "deleted": true})
}
