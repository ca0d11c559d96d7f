// File: /controllers/vehicle_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/models"
	"fueltrack-api/services"
	"fueltrack-api/utils"

	"github.com/gin-gonic/gin"
)

type VehicleController struct {
	vehicleService *services.VehicleService
}

func NewVehicleController(vehicleService *services.VehicleService) *VehicleController {
	return &VehicleController{vehicleService: vehicleService}
}

func (vc *VehicleController) GetInitData(c *gin.Context) {
	data, err := vc.vehicleService.GetInitData(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (vc *VehicleController) GetVehicles(c *gin.Context) {
	vehicles, err := vc.vehicleService.ListVehicles(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	var req models.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ratesValid(req.ConsumptionDriving, req.ConsumptionIdle) {
		utils.SendValidationError(c, "consumption rates must be between 0 and 100")
		return
	}

	vehicle, err := vc.vehicleService.CreateVehicle(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (vc *VehicleController) GetVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := vc.vehicleService.GetVehicle(c.Request.Context(), c.GetString("user_id"), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (vc *VehicleController) GetActiveVehicle(c *gin.Context) {
	vehicle, err := vc.vehicleService.GetActiveVehicle(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (vc *VehicleController) ActivateVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := vc.vehicleService.SetActiveVehicle(c.Request.Context(), c.GetString("user_id"), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (vc *VehicleController) UpdateVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ratesValid(req.ConsumptionDriving, req.ConsumptionIdle) {
		utils.SendValidationError(c, "consumption rates must be between 0 and 100")
		return
	}

	vehicle, err := vc.vehicleService.UpdateSettings(c.Request.Context(), c.GetString("user_id"), vehicleID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (vc *VehicleController) DeleteVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := vc.vehicleService.DeleteVehicle(c.Request.Context(), c.GetString("user_id"), vehicleID); err != nil {
		respondError(c, err)
		return
	}

	utils.SendSuccess(c, "Vehicle deleted successfully", nil)
}

func ratesValid(rates ...*float64) bool {
	for _, r := range rates {
		if r != nil && !utils.IsValidConsumptionRate(*r) {
			return false
		}
	}
	return true
}
