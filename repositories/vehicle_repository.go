package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fueltrack-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVehicleHasTrips is returned when a baseline change is attempted on a
// vehicle that already has a trip chain.
var ErrVehicleHasTrips = errors.New("vehicle already has trip logs")

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create stores a new vehicle. The user's first vehicle becomes active.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activeCount int64
		if err := tx.Model(&models.Vehicle{}).
			Where("user_id = ? AND is_active = ?", vehicle.UserID, true).
			Count(&activeCount).Error; err != nil {
			return fmt.Errorf("count active vehicles: %w", err)
		}
		vehicle.IsActive = activeCount == 0

		if err := tx.Create(vehicle).Error; err != nil {
			return fmt.Errorf("create vehicle: %w", err)
		}
		return nil
	})
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get vehicle")
	}
	return &vehicle, nil
}

// ListByUser returns the user's vehicles ordered by id.
func (r *VehicleRepository) ListByUser(ctx context.Context, userID string) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// GetActive returns the vehicle flagged active, falling back to the user's
// lowest id when none is flagged.
func (r *VehicleRepository) GetActive(ctx context.Context, userID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_active DESC").Order("id ASC").
		First(&vehicle).Error
	if err != nil {
		return nil, translate(err, "get active vehicle")
	}
	return &vehicle, nil
}

// SetActive flags vehicleID as the user's only active vehicle.
func (r *VehicleRepository) SetActive(ctx context.Context, userID string, vehicleID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).
			Where("user_id = ? AND id <> ?", userID, vehicleID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("clear active vehicle: %w", err)
		}

		res := tx.Model(&models.Vehicle{}).
			Where("user_id = ? AND id = ?", userID, vehicleID).
			Update("is_active", true)
		if res.Error != nil {
			return fmt.Errorf("set active vehicle: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpdateSettings applies column updates to a vehicle. When resetBaseline is
// set, baseline and current mileage/fuel are rewritten together, which is
// only allowed while the vehicle has no trip logs.
func (r *VehicleRepository) UpdateSettings(ctx context.Context, vehicleID uint, updates map[string]interface{}, resetBaseline bool) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, "id = ?", vehicleID).Error; err != nil {
			return translate(err, "lock vehicle")
		}

		if resetBaseline {
			var logCount int64
			if err := tx.Model(&models.TripLog{}).Where("vehicle_id = ?", vehicleID).Count(&logCount).Error; err != nil {
				return fmt.Errorf("count trip logs: %w", err)
			}
			if logCount > 0 {
				return ErrVehicleHasTrips
			}
		}

		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = time.Now()
		if err := tx.Model(&vehicle).Updates(updates).Error; err != nil {
			return fmt.Errorf("update vehicle: %w", err)
		}
		return tx.First(&vehicle, "id = ?", vehicleID).Error
	})
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// Delete removes a vehicle and its trip logs. If it was active, the user's
// lowest remaining id is promoted. The active flag is read under the row lock.
func (r *VehicleRepository) Delete(ctx context.Context, vehicleID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, "id = ?", vehicleID).Error; err != nil {
			return translate(err, "lock vehicle")
		}

		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&models.TripLog{}).Error; err != nil {
			return fmt.Errorf("delete trip logs: %w", err)
		}
		if err := tx.Delete(&models.Vehicle{}, vehicle.ID).Error; err != nil {
			return fmt.Errorf("delete vehicle: %w", err)
		}
		if !vehicle.IsActive {
			return nil
		}

		var next models.Vehicle
		res := tx.Where("user_id = ?", vehicle.UserID).Order("id ASC").Limit(1).Find(&next)
		if res.Error != nil {
			return fmt.Errorf("find next active vehicle: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&next).Update("is_active", true).Error
	})
}
