package services

import (
	"context"
	"testing"

	"fueltrack-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVehicleSetsBaselineAndDefaults(t *testing.T) {
	env := newTestEnv(t)

	vehicle, err := env.vehicles.CreateVehicle(context.Background(), testUser, models.CreateVehicleRequest{
		Name:           "  Golf  ",
		CurrentMileage: 120000,
		CurrentFuel:    35,
	})
	require.NoError(t, err)

	assert.Equal(t, "Golf", vehicle.Name)
	assert.Equal(t, 120000.0, vehicle.BaselineMileage)
	assert.Equal(t, 35.0, vehicle.BaselineFuel)
	assert.Equal(t, vehicle.BaselineMileage, vehicle.CurrentMileage)
	assert.Equal(t, models.DefaultConsumptionDriving, vehicle.ConsumptionDriving)
	assert.Equal(t, models.DefaultConsumptionIdle, vehicle.ConsumptionIdle)
	assert.True(t, vehicle.IsActive)
}

func TestActiveVehicleSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.createVehicle(t, testUser, 0, 10)
	second := env.createVehicle(t, testUser, 0, 10)
	assert.True(t, first.IsActive)
	assert.False(t, second.IsActive)

	active, err := env.vehicles.GetActiveVehicle(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	_, err = env.vehicles.SetActiveVehicle(ctx, testUser, second.ID)
	require.NoError(t, err)

	active, err = env.vehicles.GetActiveVehicle(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.False(t, env.reloadVehicle(t, first.ID).IsActive)

	// deleting the active vehicle promotes the lowest remaining id
	require.NoError(t, env.vehicles.DeleteVehicle(ctx, testUser, second.ID))
	active, err = env.vehicles.GetActiveVehicle(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
	assert.True(t, active.IsActive)

	_, err = env.vehicles.GetActiveVehicle(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetActiveVehicleOfAnotherUser(t *testing.T) {
	env := newTestEnv(t)
	vehicle := env.createVehicle(t, "other", 0, 10)

	_, err := env.vehicles.SetActiveVehicle(context.Background(), testUser, vehicle.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestGetInitData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	data, err := env.vehicles.GetInitData(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, data.Vehicles)
	assert.Nil(t, data.ActiveVehicleID)
	assert.Equal(t, "https://example.org/app", data.WebAppURL)

	vehicle := env.createVehicle(t, testUser, 0, 10)
	env.createVehicle(t, testUser, 0, 10)

	data, err = env.vehicles.GetInitData(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, data.Vehicles, 2)
	require.NotNil(t, data.ActiveVehicleID)
	assert.Equal(t, vehicle.ID, *data.ActiveVehicleID)
}

func TestUpdateSettingsBaseline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vehicle := env.createVehicle(t, testUser, 1000, 20)

	mileage, fuel, name := 1500.0, 45.0, "Renamed"
	updated, err := env.vehicles.UpdateSettings(ctx, testUser, vehicle.ID, models.UpdateVehicleRequest{
		Name:           &name,
		CurrentMileage: &mileage,
		CurrentFuel:    &fuel,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 1500.0, updated.BaselineMileage)
	assert.Equal(t, 1500.0, updated.CurrentMileage)
	assert.Equal(t, 45.0, updated.BaselineFuel)
	assert.Equal(t, 45.0, updated.CurrentFuel)

	appendTrip(t, env, vehicle.ID, day(1), 1600, 0, 0)

	_, err = env.vehicles.UpdateSettings(ctx, testUser, vehicle.ID, models.UpdateVehicleRequest{CurrentFuel: &fuel})
	assert.ErrorIs(t, err, ErrVehicleHasTrips)

	reloaded := env.reloadVehicle(t, vehicle.ID)
	assert.Equal(t, 1500.0, reloaded.BaselineMileage)
	assert.Equal(t, 1600.0, reloaded.CurrentMileage)

	// rates may change at any time
	rate := 6.5
	updated, err = env.vehicles.UpdateSettings(ctx, testUser, vehicle.ID, models.UpdateVehicleRequest{ConsumptionDriving: &rate})
	require.NoError(t, err)
	assert.Equal(t, 6.5, updated.ConsumptionDriving)
	assert.Equal(t, 1600.0, updated.CurrentMileage)
}

func TestDeleteVehicleRemovesChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vehicle, _ := seedRoundTrip(t, env)

	require.ErrorIs(t, env.vehicles.DeleteVehicle(ctx, "intruder", vehicle.ID), ErrPermissionDenied)
	require.NoError(t, env.vehicles.DeleteVehicle(ctx, testUser, vehicle.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.TripLog{}).Where("vehicle_id = ?", vehicle.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err := env.vehicles.GetVehicle(ctx, testUser, vehicle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
