// File: /models/trip_log.go
package models

import (
	"time"
)

// DateLayout is the calendar-day format used on the wire.
const DateLayout = "2006-01-02"

// TripLog is one link of a vehicle's fuel chain. Start* fields and every
// derived field are owned by the recalculation engine.
type TripLog struct {
	ID                  uint      `json:"id" gorm:"primaryKey;index:idx_trip_logs_chain,priority:3"`
	VehicleID           uint      `json:"vehicle_id" gorm:"not null;index:idx_trip_logs_chain,priority:1"`
	UserID              string    `json:"user_id" gorm:"not null;size:64"`
	Date                time.Time `json:"date" gorm:"not null;index:idx_trip_logs_chain,priority:2"`
	StartMileage        float64   `json:"start_mileage" gorm:"not null"`
	EndMileage          float64   `json:"end_mileage" gorm:"not null"`
	TripDistance        float64   `json:"trip_distance" gorm:"not null"`
	Refueled            float64   `json:"refueled" gorm:"not null;default:0"`
	IdleHours           float64   `json:"idle_hours" gorm:"not null;default:0"`
	ConsumptionDriving  float64   `json:"consumption_driving" gorm:"not null"` // rate at calculation time
	ConsumptionIdle     float64   `json:"consumption_idle" gorm:"not null"`
	StartFuel           float64   `json:"start_fuel" gorm:"not null"`
	FuelConsumedDriving float64   `json:"fuel_consumed_driving" gorm:"not null"`
	FuelConsumedIdle    float64   `json:"fuel_consumed_idle" gorm:"not null"`
	FuelConsumedTotal   float64   `json:"fuel_consumed_total" gorm:"not null"`
	FuelAfterTrip       float64   `json:"fuel_after_trip" gorm:"not null"`
	FinalFuelLevel      float64   `json:"final_fuel_level" gorm:"not null"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (TripLog) TableName() string {
	return "trip_logs"
}

// ChainBefore reports whether log a sorts before b in (date, id) order.
func ChainBefore(aDate time.Time, aID uint, bDate time.Time, bID uint) bool {
	if !aDate.Equal(bDate) {
		return aDate.Before(bDate)
	}
	return aID < bID
}

// TruncateDate drops the time of day and normalises to UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDate(t), nil
}

// AppendTripRequest for POST /vehicles/:id/trips
type AppendTripRequest struct {
	Date               string   `json:"date" binding:"required,datetime=2006-01-02"`
	EndMileage         float64  `json:"end_mileage" binding:"gte=0"`
	Refueled           float64  `json:"refueled" binding:"gte=0"`
	IdleHours          float64  `json:"idle_hours" binding:"gte=0"`
	ConsumptionDriving *float64 `json:"consumption_driving" binding:"omitempty,gte=0"`
	ConsumptionIdle    *float64 `json:"consumption_idle" binding:"omitempty,gte=0"`
}

// EditTripRequest for PUT /trips/:id
type EditTripRequest struct {
	Date       string  `json:"date" binding:"required,datetime=2006-01-02"`
	EndMileage float64 `json:"end_mileage" binding:"gte=0"`
	Refueled   float64 `json:"refueled" binding:"gte=0"`
	IdleHours  float64 `json:"idle_hours" binding:"gte=0"`
}

// CalculationResult is returned after a trip is appended.
type CalculationResult struct {
	NewMileage   float64  `json:"new_mileage"`
	NewFuelLevel float64  `json:"new_fuel_level"`
	Entry        *TripLog `json:"entry,omitempty"`
}

// EditResult is returned after a trip edit has been replayed through the chain.
type EditResult struct {
	Message        string  `json:"message"`
	UpdatedEntries int     `json:"updated_entries"`
	NewMileage     float64 `json:"new_mileage"`
	NewFuelLevel   float64 `json:"new_fuel_level"`
}

// ChainIssue describes one drift found by the chain audit.
type ChainIssue struct {
	LogID    uint    `json:"log_id,omitempty"`
	Date     string  `json:"date,omitempty"`
	Field    string  `json:"field"`
	Stored   float64 `json:"stored"`
	Expected float64 `json:"expected"`
}

// MonthlyReport for GET /reports/monthly
type MonthlyReport struct {
	VehicleID     uint      `json:"vehicle_id"`
	Month         string    `json:"month"`
	Entries       []TripLog `json:"entries"`
	TotalDistance float64   `json:"total_distance"`
	TotalRefueled float64   `json:"total_refueled"`
	TotalConsumed float64   `json:"total_consumed"`
	TotalIdle     float64   `json:"total_idle_hours"`
	StartFuel     float64   `json:"start_fuel"`
	EndFuel       float64   `json:"end_fuel"`
}
