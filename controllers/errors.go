package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"airline-backoffice/services"
	"airline-backoffice/utils"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var fe *services.FieldError
	switch {
	case errors.As(err, &fe):
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, fe.Field, fe.Message)
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrMalformedInput):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}

// respondBindError answers a request whose body or query did not bind.
// Missing required fields are a validation failure, anything else is
// malformed input.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := jsonFieldName(fe)
		switch fe.Tag() {
		case "required", "gender":
			utils.JSONFieldError(c, http.StatusUnprocessableEntity, field, validationMessage(fe))
		default:
			utils.JSONFieldError(c, http.StatusBadRequest, field, validationMessage(fe))
		}
		return
	}

	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		utils.JSONError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	utils.JSONError(c, http.StatusBadRequest, err.Error())
}

func jsonFieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gender":
		return "gender must be Male, Female or Other"
	case "legtype":
		return "flight_type must be outbound, return or existing"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	}
	return fe.Field() + " is invalid"
}
