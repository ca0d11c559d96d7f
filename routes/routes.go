// File: /routes/routes.go
package routes

import (
	"net/http"
	"time"

	"fueltrack-api/config"
	"fueltrack-api/controllers"
	"fueltrack-api/middleware"
	"fueltrack-api/repositories"
	"fueltrack-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// initDataMaxAge bounds how old a Telegram init data payload may be
const initDataMaxAge = 24 * time.Hour

// Services bundles what the HTTP layer and the background jobs share
type Services struct {
	Recalc   *services.RecalculationService
	Vehicles *services.VehicleService
	Reports  *services.ReportService
	Telegram *services.TelegramAuth
}

// NewServices wires repositories and services over db
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	locks := services.NewVehicleLocks()
	recalc := services.NewRecalculationService(repositories.NewTripLogRepository(db), locks)

	return &Services{
		Recalc:   recalc,
		Vehicles: services.NewVehicleService(repositories.NewVehicleRepository(db), locks, cfg.WebAppURL),
		Reports:  services.NewReportService(recalc),
		Telegram: services.NewTelegramAuth(cfg.BotToken, initDataMaxAge),
	}
}

func SetupRoutes(r *gin.Engine, svc *Services, cfg *config.Config) {
	// Controllers
	authController := controllers.NewAuthController(svc.Telegram, cfg.JWTSecret)
	vehicleController := controllers.NewVehicleController(svc.Vehicles)
	tripController := controllers.NewTripController(svc.Recalc)
	reportController := controllers.NewReportController(svc.Reports)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.ValidateJSON())

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/session", authController.CreateSession)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	{
		protected.GET("/init", vehicleController.GetInitData)

		// Vehicle routes
		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vehicleController.GetVehicles)
			vehicles.POST("", vehicleController.CreateVehicle)
			vehicles.GET("/active", vehicleController.GetActiveVehicle)
			vehicles.GET("/:id", vehicleController.GetVehicle)
			vehicles.PUT("/:id", vehicleController.UpdateVehicle)
			vehicles.DELETE("/:id", vehicleController.DeleteVehicle)
			vehicles.POST("/:id/activate", vehicleController.ActivateVehicle)

			// Trip chain
			vehicles.POST("/:id/trips", tripController.AppendTrip)
			vehicles.GET("/:id/trips", tripController.GetRecentTrips)
			vehicles.GET("/:id/trips/range", tripController.GetTripsInRange)
			vehicles.GET("/:id/audit", tripController.AuditChain)
		}

		// Trip routes
		trips := protected.Group("/trips")
		{
			trips.PUT("/:id", tripController.EditTrip)
		}

		// Report routes
		reports := protected.Group("/reports")
		{
			reports.GET("/monthly", reportController.GetMonthlyReport)
		}
	}
}

// SetupCORS allows the Web App origin, or any origin when none is configured
func SetupCORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := "*"
		if allowedOrigin != "" {
			origin = allowedOrigin
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Remaining, X-RateLimit-Reset")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
