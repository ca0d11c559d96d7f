// File: /controllers/trip_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/services"
	"fueltrack-api/utils"

	"github.com/gin-gonic/gin"
)

type TripController struct {
	recalc *services.RecalculationService
}

func NewTripController(recalc *services.RecalculationService) *TripController {
	return &TripController{recalc: recalc}
}

// AppendTrip handles POST /vehicles/:id/trips
func (tc *TripController) AppendTrip(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AppendTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		utils.SendValidationError(c, "date must be YYYY-MM-DD")
		return
	}

	if !ratesValid(req.ConsumptionDriving, req.ConsumptionIdle) {
		utils.SendValidationError(c, "consumption rates must be between 0 and 100")
		return
	}

	in := services.AppendTripInput{
		Date:        date,
		EndMileage:  req.EndMileage,
		Refueled:    req.Refueled,
		IdleHours:   req.IdleHours,
		DrivingRate: req.ConsumptionDriving,
		IdleRate:    req.ConsumptionIdle,
	}

	result, err := tc.recalc.AppendTrip(c.Request.Context(), c.GetString("user_id"), vehicleID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// EditTrip handles PUT /trips/:id
func (tc *TripController) EditTrip(c *gin.Context) {
	logID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.EditTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		utils.SendValidationError(c, "date must be YYYY-MM-DD")
		return
	}

	result, err := tc.recalc.EditTrip(c.Request.Context(), c.GetString("user_id"), logID, services.EditTripInput{
		Date:       date,
		EndMileage: req.EndMileage,
		Refueled:   req.Refueled,
		IdleHours:  req.IdleHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentTrips handles GET /vehicles/:id/trips?limit=
func (tc *TripController) GetRecentTrips(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit := utils.ParseLimit(c.Query("limit"))

	entries, err := tc.recalc.GetRecentEntries(c.Request.Context(), c.GetString("user_id"), vehicleID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendList(c, entries, len(entries))
}

// GetTripsInRange handles GET /vehicles/:id/trips/range?from=&to=
func (tc *TripController) GetTripsInRange(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	from, err := models.ParseDate(c.Query("from"))
	if err != nil {
		utils.SendValidationError(c, "from must be YYYY-MM-DD")
		return
	}
	to, err := models.ParseDate(c.Query("to"))
	if err != nil {
		utils.SendValidationError(c, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		utils.SendValidationError(c, "to must not be before from")
		return
	}

	entries, err := tc.recalc.GetEntriesInRange(c.Request.Context(), c.GetString("user_id"), vehicleID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendList(c, entries, len(entries))
}

// AuditChain handles GET /vehicles/:id/audit
func (tc *TripController) AuditChain(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	issues, err := tc.recalc.AuditChain(c.Request.Context(), c.GetString("user_id"), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicle_id": vehicleID,
		"consistent": len(issues) == 0,
		"issues":     issues,
	})
}
