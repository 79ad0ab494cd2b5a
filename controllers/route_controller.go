package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airline-backoffice/services"
	"airline-backoffice/utils"
)

type RouteController struct {
	Routes *services.RouteService
	Log    logrus.FieldLogger
}

func NewRouteController(routes *services.RouteService, log logrus.FieldLogger) *RouteController {
	return &RouteController{Routes: routes, Log: log}
}

func (ctrl *RouteController) ListRoutes(c *gin.Context) {
	routes, err := ctrl.Routes.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, routes)
}

func (ctrl *RouteController) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	route, err := ctrl.Routes.CreateRoute(c.Request.Context(), services.CreateRouteInput{
		OriginCityName:      req.OriginCityName,
		DestinationCityName: req.DestinationCityName,
		Duration:            req.Duration,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, route)
}

func (ctrl *RouteController) ListCities(c *gin.Context) {
	cities, err := ctrl.Routes.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cities)
}

func (ctrl *RouteController) CreateCity(c *gin.Context) {
	var req CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	city, err := ctrl.Routes.CreateCity(c.Request.Context(), req.CityName)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, city)
}
