// File: /services/recalculation_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"fueltrack-api/models"
	"fueltrack-api/repositories"

	log "github.com/sirupsen/logrus"
)

// auditTolerance is the drift the chain audit ignores.
const auditTolerance = 1e-6

// LedgerStore is the trip log storage the recalculation engine runs against.
type LedgerStore interface {
	WithVehicleTx(ctx context.Context, vehicleID uint, fn func(tx repositories.LedgerTx, vehicle *models.Vehicle) error) error
	GetVehicle(ctx context.Context, vehicleID uint) (*models.Vehicle, error)
	GetEntry(ctx context.Context, id uint) (*models.TripLog, error)
	GetRecentEntries(ctx context.Context, vehicleID uint, limit int) ([]models.TripLog, error)
	GetEntriesInRange(ctx context.Context, vehicleID uint, from, to time.Time) ([]models.TripLog, error)
	ListVehicleIDs(ctx context.Context) ([]uint, error)
}

type RecalculationService struct {
	store LedgerStore
	locks *VehicleLocks
}

func NewRecalculationService(store LedgerStore, locks *VehicleLocks) *RecalculationService {
	if locks == nil {
		locks = NewVehicleLocks()
	}
	return &RecalculationService{
		store: store,
		locks: locks,
	}
}

// AppendTripInput describes a new trip at the tail of the chain. Each rate
// defaults to the vehicle's configured consumption when nil.
type AppendTripInput struct {
	Date        time.Time
	EndMileage  float64
	Refueled    float64
	IdleHours   float64
	DrivingRate *float64
	IdleRate    *float64
}

// EditTripInput replaces the raw inputs of an existing trip.
type EditTripInput struct {
	Date       time.Time
	EndMileage float64
	Refueled   float64
	IdleHours  float64
}

// anchor is the (mileage, fuel) state a trip starts from.
type anchor struct {
	Mileage float64
	Fuel    float64
}

// AppendTrip computes a trip from the vehicle's current state and stores it,
// moving the vehicle to the trip's terminal state.
func (s *RecalculationService) AppendTrip(ctx context.Context, userID string, vehicleID uint, in AppendTripInput) (*models.CalculationResult, error) {
	if err := validateRawInputs(in.EndMileage, in.Refueled, in.IdleHours); err != nil {
		return nil, err
	}
	if (in.DrivingRate != nil && *in.DrivingRate < 0) || (in.IdleRate != nil && *in.IdleRate < 0) {
		return nil, invalidTrip("consumption rates cannot be negative")
	}
	if _, err := s.ownedVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	var result *models.CalculationResult
	err := s.store.WithVehicleTx(ctx, vehicleID, func(tx repositories.LedgerTx, vehicle *models.Vehicle) error {
		rates := Rates{Driving: vehicle.ConsumptionDriving, Idle: vehicle.ConsumptionIdle}
		if in.DrivingRate != nil {
			rates.Driving = *in.DrivingRate
		}
		if in.IdleRate != nil {
			rates.Idle = *in.IdleRate
		}

		date := models.TruncateDate(in.Date)
		last, err := tx.GetLastEntry()
		if err != nil {
			return err
		}
		if last != nil && date.Before(last.Date) {
			return invalidTrip("date %s is before the last trip on %s", date.Format(models.DateLayout), last.Date.Format(models.DateLayout))
		}

		entry := models.TripLog{
			UserID:             vehicle.UserID,
			Date:               date,
			EndMileage:         in.EndMileage,
			Refueled:           in.Refueled,
			IdleHours:          in.IdleHours,
			ConsumptionDriving: rates.Driving,
			ConsumptionIdle:    rates.Idle,
		}
		if reason := replayEntry(&entry, anchor{Mileage: vehicle.CurrentMileage, Fuel: vehicle.CurrentFuel}); reason != "" {
			return invalidTrip("%s", reason)
		}

		if err := tx.InsertEntry(&entry); err != nil {
			return err
		}
		if err := tx.UpdateVehicleState(entry.EndMileage, entry.FinalFuelLevel); err != nil {
			return err
		}

		result = &models.CalculationResult{
			NewMileage:   entry.EndMileage,
			NewFuelLevel: entry.FinalFuelLevel,
			Entry:        &entry,
		}
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{"vehicle_id": vehicleID, "user_id": userID}).WithError(err).Warn("Trip append rejected")
		return nil, err
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"trip_id":    result.Entry.ID,
		"mileage":    result.NewMileage,
		"fuel":       result.NewFuelLevel,
	}).Info("Trip appended")
	return result, nil
}

// EditTrip rewrites one trip and replays every later trip of the same vehicle
// from it. Either the whole suffix and the vehicle state are written, or
// nothing is.
func (s *RecalculationService) EditTrip(ctx context.Context, userID string, logID uint, in EditTripInput) (*models.EditResult, error) {
	if err := validateRawInputs(in.EndMileage, in.Refueled, in.IdleHours); err != nil {
		return nil, err
	}

	entry, err := s.store.GetEntry(ctx, logID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedVehicle(ctx, userID, entry.VehicleID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(entry.VehicleID)
	defer unlock()

	var result *models.EditResult
	err = s.store.WithVehicleTx(ctx, entry.VehicleID, func(tx repositories.LedgerTx, vehicle *models.Vehicle) error {
		target, err := tx.GetEntry(logID)
		if err != nil {
			return err
		}
		prev, err := tx.GetPrecedingEntry(target)
		if err != nil {
			return err
		}
		suffix, err := tx.GetSuffixFrom(target)
		if err != nil {
			return err
		}
		if len(suffix) == 0 || suffix[0].ID != target.ID {
			return fmt.Errorf("trip %d missing from its own suffix", target.ID)
		}

		date := models.TruncateDate(in.Date)
		if prev != nil && !models.ChainBefore(prev.Date, prev.ID, date, target.ID) {
			return invalidTrip("date %s would move the trip before the previous trip on %s",
				date.Format(models.DateLayout), prev.Date.Format(models.DateLayout))
		}
		if len(suffix) > 1 && !models.ChainBefore(date, target.ID, suffix[1].Date, suffix[1].ID) {
			return invalidTrip("date %s would move the trip after the next trip on %s",
				date.Format(models.DateLayout), suffix[1].Date.Format(models.DateLayout))
		}

		from := anchor{Mileage: vehicle.BaselineMileage, Fuel: vehicle.BaselineFuel}
		if prev != nil {
			from = anchor{Mileage: prev.EndMileage, Fuel: prev.FinalFuelLevel}
		}

		suffix[0].Date = date
		suffix[0].EndMileage = in.EndMileage
		suffix[0].Refueled = in.Refueled
		suffix[0].IdleHours = in.IdleHours

		for i := range suffix {
			if reason := replayEntry(&suffix[i], from); reason != "" {
				return &ChainViolationError{LogID: suffix[i].ID, Date: suffix[i].Date, Reason: reason}
			}
			from = anchor{Mileage: suffix[i].EndMileage, Fuel: suffix[i].FinalFuelLevel}
		}

		if err := tx.UpsertEntries(suffix); err != nil {
			return err
		}
		if err := tx.UpdateVehicleState(from.Mileage, from.Fuel); err != nil {
			return err
		}

		result = &models.EditResult{
			Message:        fmt.Sprintf("Trip updated, %d entries recalculated", len(suffix)),
			UpdatedEntries: len(suffix),
			NewMileage:     from.Mileage,
			NewFuelLevel:   from.Fuel,
		}
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{"trip_id": logID, "user_id": userID}).WithError(err).Warn("Trip edit rejected")
		return nil, err
	}

	log.WithFields(log.Fields{
		"trip_id":    logID,
		"vehicle_id": entry.VehicleID,
		"replayed":   result.UpdatedEntries,
		"mileage":    result.NewMileage,
		"fuel":       result.NewFuelLevel,
	}).Info("Trip chain recalculated")
	return result, nil
}

// GetRecentEntries returns up to limit trips of the vehicle, most recent first.
func (s *RecalculationService) GetRecentEntries(ctx context.Context, userID string, vehicleID uint, limit int) ([]models.TripLog, error) {
	if _, err := s.ownedVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.store.GetRecentEntries(ctx, vehicleID, limit)
}

// GetEntriesInRange returns the vehicle's trips dated within [from, to] in chain order.
func (s *RecalculationService) GetEntriesInRange(ctx context.Context, userID string, vehicleID uint, from, to time.Time) ([]models.TripLog, error) {
	if _, err := s.ownedVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.store.GetEntriesInRange(ctx, vehicleID, models.TruncateDate(from), models.TruncateDate(to))
}

// AuditChain runs VerifyChain on a vehicle owned by userID.
func (s *RecalculationService) AuditChain(ctx context.Context, userID string, vehicleID uint) ([]models.ChainIssue, error) {
	if _, err := s.ownedVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.VerifyChain(ctx, vehicleID)
}

// VerifyChain replays the stored chain from the baseline without writing and
// reports every stored value that drifted from the replay. The vehicle and its
// chain are read under the vehicle's lock in one transaction.
func (s *RecalculationService) VerifyChain(ctx context.Context, vehicleID uint) ([]models.ChainIssue, error) {
	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	var vehicle *models.Vehicle
	var chain []models.TripLog
	err := s.store.WithVehicleTx(ctx, vehicleID, func(tx repositories.LedgerTx, locked *models.Vehicle) error {
		entries, err := tx.GetChain()
		if err != nil {
			return err
		}
		vehicle, chain = locked, entries
		return nil
	})
	if err != nil {
		return nil, err
	}

	issues := []models.ChainIssue{}
	check := func(entry *models.TripLog, field string, stored, expected float64) {
		if math.Abs(stored-expected) > auditTolerance {
			issue := models.ChainIssue{Field: field, Stored: stored, Expected: expected}
			if entry != nil {
				issue.LogID = entry.ID
				issue.Date = entry.Date.Format(models.DateLayout)
			}
			issues = append(issues, issue)
		}
	}

	from := anchor{Mileage: vehicle.BaselineMileage, Fuel: vehicle.BaselineFuel}
	for i := range chain {
		stored := chain[i]
		replayed := chain[i]
		replayEntry(&replayed, from)

		check(&stored, "start_mileage", stored.StartMileage, replayed.StartMileage)
		check(&stored, "start_fuel", stored.StartFuel, replayed.StartFuel)
		check(&stored, "trip_distance", stored.TripDistance, replayed.TripDistance)
		check(&stored, "fuel_consumed_total", stored.FuelConsumedTotal, replayed.FuelConsumedTotal)
		check(&stored, "final_fuel_level", stored.FinalFuelLevel, replayed.FinalFuelLevel)

		from = anchor{Mileage: replayed.EndMileage, Fuel: replayed.FinalFuelLevel}
	}
	check(nil, "current_mileage", vehicle.CurrentMileage, from.Mileage)
	check(nil, "current_fuel", vehicle.CurrentFuel, from.Fuel)

	return issues, nil
}

// AuditAll verifies every vehicle's chain and returns the vehicles with drift.
func (s *RecalculationService) AuditAll(ctx context.Context) (map[uint][]models.ChainIssue, error) {
	ids, err := s.store.ListVehicleIDs(ctx)
	if err != nil {
		return nil, err
	}

	drifted := make(map[uint][]models.ChainIssue)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return drifted, err
		}
		issues, err := s.VerifyChain(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue // deleted meanwhile
		}
		if err != nil {
			return drifted, err
		}
		if len(issues) > 0 {
			drifted[id] = issues
		}
	}
	return drifted, nil
}

func (s *RecalculationService) ownedVehicle(ctx context.Context, userID string, vehicleID uint) (*models.Vehicle, error) {
	vehicle, err := s.store.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return vehicle, nil
}

// replayEntry recomputes entry's start state and derived fields from the
// anchor. It returns a non-empty reason when the result breaks the chain.
func replayEntry(entry *models.TripLog, from anchor) string {
	entry.StartMileage = from.Mileage
	entry.StartFuel = from.Fuel
	entry.TripDistance = entry.EndMileage - entry.StartMileage

	consumption := CalculateConsumption(entry.TripDistance, entry.IdleHours, Rates{
		Driving: entry.ConsumptionDriving,
		Idle:    entry.ConsumptionIdle,
	})
	entry.FuelConsumedDriving = consumption.Driving
	entry.FuelConsumedIdle = consumption.Idle
	entry.FuelConsumedTotal = consumption.Total
	entry.FuelAfterTrip, entry.FinalFuelLevel = consumption.Apply(entry.StartFuel, entry.Refueled)

	if entry.TripDistance < 0 {
		return fmt.Sprintf("end mileage %.1f is below start mileage %.1f", entry.EndMileage, entry.StartMileage)
	}
	if entry.FinalFuelLevel < 0 {
		return fmt.Sprintf("fuel level would drop to %.2f l", entry.FinalFuelLevel)
	}
	return ""
}

func validateRawInputs(endMileage, refueled, idleHours float64) error {
	switch {
	case endMileage < 0:
		return invalidTrip("end mileage cannot be negative")
	case refueled < 0:
		return invalidTrip("refueled amount cannot be negative")
	case idleHours < 0:
		return invalidTrip("idle hours cannot be negative")
	}
	return nil
}
