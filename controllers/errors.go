package controllers

import (
	"errors"
	"net/http"

	"fueltrack-api/services"
	"fueltrack-api/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var (
		chainErr *services.ChainViolationError
		tripErr  *services.InvalidTripError
	)

	switch {
	case errors.As(err, &chainErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Chain violation",
			"message": chainErr.Reason,
			"code":    http.StatusConflict,
			"log_id":  chainErr.LogID,
		})
	case errors.As(err, &tripErr):
		utils.SendErrorMessage(c, http.StatusBadRequest, "Invalid trip", tripErr.Reason)
	case errors.Is(err, services.ErrInvalidRequest):
		utils.SendValidationError(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.SendErrorMessage(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		utils.SendError(c, http.StatusForbidden, "Permission denied")
	case errors.Is(err, services.ErrVehicleHasTrips):
		utils.SendErrorMessage(c, http.StatusConflict, "Vehicle has trips", err.Error())
	default:
		log.WithFields(log.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("Unhandled service error")
		utils.SendError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID reads a numeric :name parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		utils.SendValidationError(c, "invalid "+name)
	}
	return id, ok
}
