// File: /services/vehicle_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"fueltrack-api/models"
	"fueltrack-api/repositories"

	log "github.com/sirupsen/logrus"
)

type VehicleService struct {
	vehicleRepo *repositories.VehicleRepository
	locks       *VehicleLocks
	webAppURL   string
}

func NewVehicleService(vehicleRepo *repositories.VehicleRepository, locks *VehicleLocks, webAppURL string) *VehicleService {
	if locks == nil {
		locks = NewVehicleLocks()
	}
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		locks:       locks,
		webAppURL:   webAppURL,
	}
}

// CreateVehicle stores a vehicle whose baseline is its initial mileage/fuel.
func (s *VehicleService) CreateVehicle(ctx context.Context, userID string, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		UserID:             userID,
		Name:               strings.TrimSpace(req.Name),
		Plate:              req.Plate,
		BaselineMileage:    req.CurrentMileage,
		BaselineFuel:       req.CurrentFuel,
		CurrentMileage:     req.CurrentMileage,
		CurrentFuel:        req.CurrentFuel,
		ConsumptionDriving: models.DefaultConsumptionDriving,
		ConsumptionIdle:    models.DefaultConsumptionIdle,
	}
	if req.ConsumptionDriving != nil {
		vehicle.ConsumptionDriving = *req.ConsumptionDriving
	}
	if req.ConsumptionIdle != nil {
		vehicle.ConsumptionIdle = *req.ConsumptionIdle
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"vehicle_id": vehicle.ID, "user_id": userID, "active": vehicle.IsActive}).Info("Vehicle created")
	return vehicle, nil
}

func (s *VehicleService) ListVehicles(ctx context.Context, userID string) ([]models.Vehicle, error) {
	return s.vehicleRepo.ListByUser(ctx, userID)
}

// GetVehicle returns the vehicle if it belongs to userID.
func (s *VehicleService) GetVehicle(ctx context.Context, userID string, vehicleID uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return vehicle, nil
}

// GetActiveVehicle returns the user's active vehicle; ties resolve to the lowest id.
func (s *VehicleService) GetActiveVehicle(ctx context.Context, userID string) (*models.Vehicle, error) {
	return s.vehicleRepo.GetActive(ctx, userID)
}

func (s *VehicleService) SetActiveVehicle(ctx context.Context, userID string, vehicleID uint) (*models.Vehicle, error) {
	if _, err := s.GetVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	if err := s.vehicleRepo.SetActive(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

// GetInitData returns everything the web app needs on start-up.
func (s *VehicleService) GetInitData(ctx context.Context, userID string) (*models.InitDataResponse, error) {
	vehicles, err := s.vehicleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &models.InitDataResponse{Vehicles: vehicles, WebAppURL: s.webAppURL}
	if len(vehicles) == 0 {
		return resp, nil
	}

	active, err := s.vehicleRepo.GetActive(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if active != nil {
		resp.ActiveVehicleID = &active.ID
	}
	return resp, nil
}

// UpdateSettings changes name, plate and rates at any time. Mileage and fuel
// rewrite the baseline and are refused once the vehicle has trip logs.
// New rates only affect trips appended afterwards.
func (s *VehicleService) UpdateSettings(ctx context.Context, userID string, vehicleID uint, req models.UpdateVehicleRequest) (*models.Vehicle, error) {
	current, err := s.GetVehicle(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Plate != nil {
		updates["plate"] = *req.Plate
	}
	if req.ConsumptionDriving != nil {
		updates["consumption_driving"] = *req.ConsumptionDriving
	}
	if req.ConsumptionIdle != nil {
		updates["consumption_idle"] = *req.ConsumptionIdle
	}

	resetBaseline := req.CurrentMileage != nil || req.CurrentFuel != nil
	if resetBaseline {
		mileage, fuel := current.BaselineMileage, current.BaselineFuel
		if req.CurrentMileage != nil {
			mileage = *req.CurrentMileage
		}
		if req.CurrentFuel != nil {
			fuel = *req.CurrentFuel
		}
		updates["baseline_mileage"] = mileage
		updates["baseline_fuel"] = fuel
		updates["current_mileage"] = mileage
		updates["current_fuel"] = fuel
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	vehicle, err := s.vehicleRepo.UpdateSettings(ctx, vehicleID, updates, resetBaseline)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"vehicle_id": vehicleID, "baseline_reset": resetBaseline}).Info("Vehicle settings updated")
	return vehicle, nil
}

// DeleteVehicle removes the vehicle together with its trip chain.
func (s *VehicleService) DeleteVehicle(ctx context.Context, userID string, vehicleID uint) error {
	if _, err := s.GetVehicle(ctx, userID, vehicleID); err != nil {
		return err
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	if err := s.vehicleRepo.Delete(ctx, vehicleID); err != nil {
		return err
	}

	log.WithFields(log.Fields{"vehicle_id": vehicleID, "user_id": userID}).Info("Vehicle deleted")
	return nil
}
