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

// ErrNotFound is returned when a vehicle or trip log does not exist.
var ErrNotFound = errors.New("not found")

// LedgerTx is the view of one vehicle's chain inside a locked transaction.
type LedgerTx interface {
	GetEntry(id uint) (*models.TripLog, error)
	GetPrecedingEntry(entry *models.TripLog) (*models.TripLog, error)
	GetSuffixFrom(entry *models.TripLog) ([]models.TripLog, error)
	GetLastEntry() (*models.TripLog, error)
	GetChain() ([]models.TripLog, error)
	InsertEntry(entry *models.TripLog) error
	UpsertEntries(entries []models.TripLog) error
	UpdateVehicleState(mileage, fuel float64) error
}

type TripLogRepository struct {
	db *gorm.DB
}

func NewTripLogRepository(db *gorm.DB) *TripLogRepository {
	return &TripLogRepository{db: db}
}

// WithVehicleTx runs fn in a transaction holding a row lock on the vehicle.
// The transaction is rolled back when fn returns an error or panics.
func (r *TripLogRepository) WithVehicleTx(ctx context.Context, vehicleID uint, fn func(tx LedgerTx, vehicle *models.Vehicle) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, "id = ?", vehicleID).Error
		if err != nil {
			return translate(err, "lock vehicle")
		}
		return fn(&ledgerTx{db: tx, vehicleID: vehicleID}, &vehicle)
	})
}

// GetVehicle reads a vehicle without locking it.
func (r *TripLogRepository) GetVehicle(ctx context.Context, vehicleID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, translate(err, "get vehicle")
	}
	return &vehicle, nil
}

func (r *TripLogRepository) GetEntry(ctx context.Context, id uint) (*models.TripLog, error) {
	var entry models.TripLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get trip log")
	}
	return &entry, nil
}

// GetRecentEntries returns up to limit logs, most recent first.
func (r *TripLogRepository) GetRecentEntries(ctx context.Context, vehicleID uint, limit int) ([]models.TripLog, error) {
	var entries []models.TripLog
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date DESC").Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("get recent trip logs: %w", err)
	}
	return entries, nil
}

// GetEntriesInRange returns logs dated within [from, to], in chain order.
func (r *TripLogRepository) GetEntriesInRange(ctx context.Context, vehicleID uint, from, to time.Time) ([]models.TripLog, error) {
	var entries []models.TripLog
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND date >= ? AND date <= ?", vehicleID, from, to).
		Order("date ASC").Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("get trip logs in range: %w", err)
	}
	return entries, nil
}

// GetChain returns the whole chain of a vehicle in order.
func (r *TripLogRepository) GetChain(ctx context.Context, vehicleID uint) ([]models.TripLog, error) {
	var entries []models.TripLog
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date ASC").Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("get trip log chain: %w", err)
	}
	return entries, nil
}

// ListVehicleIDs returns every vehicle id, used by the chain audit.
func (r *TripLogRepository) ListVehicleIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list vehicle ids: %w", err)
	}
	return ids, nil
}

type ledgerTx struct {
	db        *gorm.DB
	vehicleID uint
}

func (t *ledgerTx) GetEntry(id uint) (*models.TripLog, error) {
	var entry models.TripLog
	if err := t.db.First(&entry, "id = ? AND vehicle_id = ?", id, t.vehicleID).Error; err != nil {
		return nil, translate(err, "get trip log")
	}
	return &entry, nil
}

// GetPrecedingEntry returns nil when entry is the first of the chain.
func (t *ledgerTx) GetPrecedingEntry(entry *models.TripLog) (*models.TripLog, error) {
	var prev models.TripLog
	res := t.db.
		Where("vehicle_id = ? AND (date < ? OR (date = ? AND id < ?))", t.vehicleID, entry.Date, entry.Date, entry.ID).
		Order("date DESC").Order("id DESC").
		Limit(1).
		Find(&prev)
	if res.Error != nil {
		return nil, fmt.Errorf("get preceding trip log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &prev, nil
}

// GetSuffixFrom returns entry and every later log, in chain order.
func (t *ledgerTx) GetSuffixFrom(entry *models.TripLog) ([]models.TripLog, error) {
	var suffix []models.TripLog
	err := t.db.
		Where("vehicle_id = ? AND (date > ? OR (date = ? AND id >= ?))", t.vehicleID, entry.Date, entry.Date, entry.ID).
		Order("date ASC").Order("id ASC").
		Find(&suffix).Error
	if err != nil {
		return nil, fmt.Errorf("get trip log suffix: %w", err)
	}
	return suffix, nil
}

// GetLastEntry returns nil when the chain is empty.
func (t *ledgerTx) GetLastEntry() (*models.TripLog, error) {
	var last models.TripLog
	res := t.db.
		Where("vehicle_id = ?", t.vehicleID).
		Order("date DESC").Order("id DESC").
		Limit(1).
		Find(&last)
	if res.Error != nil {
		return nil, fmt.Errorf("get last trip log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &last, nil
}

func (t *ledgerTx) GetChain() ([]models.TripLog, error) {
	var entries []models.TripLog
	err := t.db.
		Where("vehicle_id = ?", t.vehicleID).
		Order("date ASC").Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("get trip log chain: %w", err)
	}
	return entries, nil
}

func (t *ledgerTx) InsertEntry(entry *models.TripLog) error {
	entry.VehicleID = t.vehicleID
	if err := t.db.Create(entry).Error; err != nil {
		return fmt.Errorf("insert trip log: %w", err)
	}
	return nil
}

func (t *ledgerTx) UpsertEntries(entries []models.TripLog) error {
	for i := range entries {
		entries[i].VehicleID = t.vehicleID
		if err := t.db.Save(&entries[i]).Error; err != nil {
			return fmt.Errorf("save trip log %d: %w", entries[i].ID, err)
		}
	}
	return nil
}

func (t *ledgerTx) UpdateVehicleState(mileage, fuel float64) error {
	err := t.db.Model(&models.Vehicle{}).
		Where("id = ?", t.vehicleID).
		Updates(map[string]interface{}{
			"current_mileage": mileage,
			"current_fuel":    fuel,
			"updated_at":      time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("update vehicle state: %w", err)
	}
	return nil
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
