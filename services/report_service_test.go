package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), end)

	_, _, err = MonthRange("2024-13")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMonthlyReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vehicle := env.createVehicle(t, testUser, 10000, 50)

	appendTrip(t, env, vehicle.ID, time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC), 10100, 0, 0)
	appendTrip(t, env, vehicle.ID, day(1), 10150, 10, 1)
	appendTrip(t, env, vehicle.ID, day(31), 10350, 0, 0)

	report, err := env.reports.MonthlyReport(ctx, testUser, vehicle.ID, "2024-03")
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, 250.0, report.TotalDistance)
	assert.Equal(t, 10.0, report.TotalRefueled)
	assert.InDelta(t, 4+1+16.0, report.TotalConsumed, 1e-9)
	assert.Equal(t, 1.0, report.TotalIdle)
	assert.InDelta(t, 42.0, report.StartFuel, 1e-9)
	assert.InDelta(t, 31.0, report.EndFuel, 1e-9)

	_, err = env.reports.MonthlyReport(ctx, testUser, vehicle.ID, "2024-04")
	assert.ErrorIs(t, err, ErrNoReportData)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.reports.MonthlyReport(ctx, "intruder", vehicle.ID, "2024-03")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
