// File: /main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fueltrack-api/config"
	"fueltrack-api/database"
	"fueltrack-api/jobs"
	"fueltrack-api/middleware"
	"fueltrack-api/routes"
	"fueltrack-api/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.GinMode == gin.ReleaseMode {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Initialize database
	db, err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL, level >= log.DebugLevel)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		log.WithField("gin_mode", cfg.GinMode).Warn("Unknown gin mode, using debug")
		cfg.GinMode = gin.DebugMode
	}
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(routes.SetupCORS(cfg.WebAppURL))
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ErrorHandler())

	svc := routes.NewServices(db, cfg)
	routes.SetupRoutes(router, svc, cfg)

	if cfg.SeedDemoUser != "" {
		if err := services.SeedDemoData(context.Background(), svc.Vehicles, svc.Recalc, cfg.SeedDemoUser); err != nil {
			log.WithError(err).Warn("Failed to seed database")
		}
	}

	var auditJob *jobs.ChainAuditJob
	if cfg.ChainAuditInterval > 0 {
		auditJob = jobs.NewChainAuditJob(svc.Recalc, cfg.ChainAuditInterval)
		auditJob.Start()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "db_driver": cfg.DBDriver}).Info("Starting FuelTrack API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	if auditJob != nil {
		auditJob.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}
