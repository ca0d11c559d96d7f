package services

import (
	"context"
	"fmt"
	"testing"

	"fueltrack-api/database"
	"fueltrack-api/models"
	"fueltrack-api/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory sqlite DB and migrates the schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Initialize("sqlite", dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type testEnv struct {
	db       *gorm.DB
	recalc   *RecalculationService
	vehicles *VehicleService
	reports  *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	locks := NewVehicleLocks()
	recalc := NewRecalculationService(repositories.NewTripLogRepository(db), locks)
	return &testEnv{
		db:       db,
		recalc:   recalc,
		vehicles: NewVehicleService(repositories.NewVehicleRepository(db), locks, "https://example.org/app"),
		reports:  NewReportService(recalc),
	}
}

// createVehicle stores a vehicle at the given mileage and fuel with rates 8 l/100km and 1 l/h
func (e *testEnv) createVehicle(t *testing.T, userID string, mileage, fuel float64) *models.Vehicle {
	t.Helper()
	vehicle, err := e.vehicles.CreateVehicle(context.Background(), userID, models.CreateVehicleRequest{
		Name:           "Test car",
		CurrentMileage: mileage,
		CurrentFuel:    fuel,
	})
	require.NoError(t, err)
	return vehicle
}

func (e *testEnv) reloadVehicle(t *testing.T, id uint) *models.Vehicle {
	t.Helper()
	var vehicle models.Vehicle
	require.NoError(t, e.db.First(&vehicle, id).Error)
	return &vehicle
}

func (e *testEnv) chain(t *testing.T, vehicleID uint) []models.TripLog {
	t.Helper()
	var entries []models.TripLog
	require.NoError(t, e.db.Where("vehicle_id = ?", vehicleID).Order("date ASC").Order("id ASC").Find(&entries).Error)
	return entries
}
