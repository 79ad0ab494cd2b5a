package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/services"
	"airline-backoffice/utils"
)

type CrewController struct {
	Crew *services.CrewService
	Log  logrus.FieldLogger
}

func NewCrewController(crew *services.CrewService, log logrus.FieldLogger) *CrewController {
	return &CrewController{Crew: crew, Log: log}
}

func (ctrl *CrewController) ListCrew(c *gin.Context) {
	out, err := ctrl.Crew.ListCrew(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *CrewController) ListAssignments(c *gin.Context) {
	out, err := ctrl.Crew.ListAssignments(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *CrewController) Assign(c *gin.Context) {
	var req AssignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	a, err := ctrl.Crew.Assign(c.Request.Context(), services.AssignCrewInput{
		CrewID:         req.CrewID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		FlightNo:       req.FlightNo,
		AssignmentDate: req.AssignmentDate,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, a)
}
