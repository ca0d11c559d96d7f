// File: /controllers/report_controller.go
package controllers

import (
	"net/http"

	"fueltrack-api/services"
	"fueltrack-api/utils"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reportService *services.ReportService
}

func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GetMonthlyReport handles GET /reports/monthly?vehicle_id=&month=YYYY-MM
func (rc *ReportController) GetMonthlyReport(c *gin.Context) {
	vehicleID, ok := utils.ParseID(c.Query("vehicle_id"))
	if !ok {
		utils.SendValidationError(c, "vehicle_id is required")
		return
	}
	month := c.Query("month")
	if !utils.IsValidMonth(month) {
		utils.SendValidationError(c, "month must be YYYY-MM")
		return
	}

	report, err := rc.reportService.MonthlyReport(c.Request.Context(), c.GetString("user_id"), vehicleID, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
