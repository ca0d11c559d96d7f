// File: /models/vehicle.go
package models

import (
	"time"
)

const (
	DefaultConsumptionDriving = 8.0 // l/100km
	DefaultConsumptionIdle    = 1.0 // l/h
)

// Vehicle holds the fuel state of one car. BaselineMileage/BaselineFuel are the
// anchor of the first trip log and only change while the vehicle has no logs.
type Vehicle struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UserID             string    `json:"user_id" gorm:"not null;size:64;index"`
	Name               string    `json:"name" gorm:"not null;size:100"`
	Plate              *string   `json:"plate" gorm:"size:32"`
	BaselineMileage    float64   `json:"baseline_mileage" gorm:"not null;default:0"`
	BaselineFuel       float64   `json:"baseline_fuel" gorm:"not null;default:0"`
	CurrentMileage     float64   `json:"current_mileage" gorm:"not null;default:0"`
	CurrentFuel        float64   `json:"current_fuel" gorm:"not null;default:0"`
	ConsumptionDriving float64   `json:"consumption_driving" gorm:"not null"`
	ConsumptionIdle    float64   `json:"consumption_idle" gorm:"not null"`
	IsActive           bool      `json:"is_active" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	TripLogs []TripLog `json:"-" gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// CreateVehicleRequest for POST /vehicles
type CreateVehicleRequest struct {
	Name               string   `json:"name" binding:"required,max=100"`
	Plate              *string  `json:"plate" binding:"omitempty,max=32"`
	CurrentMileage     float64  `json:"current_mileage" binding:"gte=0"`
	CurrentFuel        float64  `json:"current_fuel" binding:"gte=0"`
	ConsumptionDriving *float64 `json:"consumption_driving" binding:"omitempty,gte=0"`
	ConsumptionIdle    *float64 `json:"consumption_idle" binding:"omitempty,gte=0"`
}

// UpdateVehicleRequest for PUT /vehicles/:id. Mileage and fuel reset the
// baseline and are refused once trip logs exist.
type UpdateVehicleRequest struct {
	Name               *string  `json:"name" binding:"omitempty,max=100"`
	Plate              *string  `json:"plate" binding:"omitempty,max=32"`
	CurrentMileage     *float64 `json:"current_mileage" binding:"omitempty,gte=0"`
	CurrentFuel        *float64 `json:"current_fuel" binding:"omitempty,gte=0"`
	ConsumptionDriving *float64 `json:"consumption_driving" binding:"omitempty,gte=0"`
	ConsumptionIdle    *float64 `json:"consumption_idle" binding:"omitempty,gte=0"`
}

// InitDataResponse for GET /init
type InitDataResponse struct {
	Vehicles        []Vehicle `json:"vehicles"`
	ActiveVehicleID *uint     `json:"active_vehicle_id"`
	WebAppURL       string    `json:"webapp_url,omitempty"`
}
