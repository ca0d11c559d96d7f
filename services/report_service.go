// File: /services/report_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"fueltrack-api/models"
)

// ErrNoReportData is returned when a month has no trips.
var ErrNoReportData = fmt.Errorf("no trips for the requested period: %w", ErrNotFound)

type ReportService struct {
	recalc *RecalculationService
}

func NewReportService(recalc *RecalculationService) *ReportService {
	return &ReportService{recalc: recalc}
}

// MonthRange returns the first and last calendar day of a YYYY-MM month.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %q, expected YYYY-MM", ErrInvalidRequest, month)
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// MonthlyReport collects the stored trips of one month with their totals.
func (s *ReportService) MonthlyReport(ctx context.Context, userID string, vehicleID uint, month string) (*models.MonthlyReport, error) {
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	entries, err := s.recalc.GetEntriesInRange(ctx, userID, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoReportData
	}

	report := &models.MonthlyReport{
		VehicleID: vehicleID,
		Month:     month,
		Entries:   entries,
		StartFuel: entries[0].StartFuel,
		EndFuel:   entries[len(entries)-1].FinalFuelLevel,
	}
	for _, e := range entries {
		report.TotalDistance += e.TripDistance
		report.TotalRefueled += e.Refueled
		report.TotalConsumed += e.FuelConsumedTotal
		report.TotalIdle += e.IdleHours
	}
	return report, nil
}
