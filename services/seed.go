package services

import (
	"context"
	"fmt"
	"time"

	"fueltrack-api/models"

	log "github.com/sirupsen/logrus"
)

// demoTrips are the distances of the seeded chain, one per day.
var demoTrips = []float64{100, 50, 200}

// SeedDemoData gives userID a demo vehicle with a short trip chain for local
// development. It does nothing when the user already has vehicles.
func SeedDemoData(ctx context.Context, vehicles *VehicleService, recalc *RecalculationService, userID string) error {
	existing, err := vehicles.ListVehicles(ctx, userID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.WithField("user_id", userID).Info("Demo data already present, skipping seed")
		return nil
	}

	vehicle, err := vehicles.CreateVehicle(ctx, userID, models.CreateVehicleRequest{
		Name:           "Demo car",
		CurrentMileage: 10000,
		CurrentFuel:    50,
	})
	if err != nil {
		return fmt.Errorf("could not create demo vehicle: %w", err)
	}

	start := models.TruncateDate(time.Now()).AddDate(0, 0, -len(demoTrips))
	mileage := vehicle.CurrentMileage
	for i, distance := range demoTrips {
		mileage += distance
		_, err := recalc.AppendTrip(ctx, userID, vehicle.ID, AppendTripInput{
			Date:       start.AddDate(0, 0, i),
			EndMileage: mileage,
		})
		if err != nil {
			return fmt.Errorf("could not create demo trip: %w", err)
		}
	}

	log.WithFields(log.Fields{"user_id": userID, "vehicle_id": vehicle.ID}).Info("Database seeded with demo vehicle")
	return nil
}
