// File: /services/errors.go
package services

import (
	"errors"
	"fmt"
	"time"

	"fueltrack-api/models"
	"fueltrack-api/repositories"
)

var (
	ErrInvalidTrip      = errors.New("invalid trip")
	ErrChainViolation   = errors.New("chain violation")
	ErrNotFound         = repositories.ErrNotFound
	ErrPermissionDenied = errors.New("permission denied")
	ErrVehicleHasTrips  = repositories.ErrVehicleHasTrips
	ErrInvalidRequest   = errors.New("invalid request")
)

// InvalidTripError is returned when a single append or edit input is rejected.
type InvalidTripError struct {
	Reason string
}

func (e *InvalidTripError) Error() string {
	return fmt.Sprintf("invalid trip: %s", e.Reason)
}

func (e *InvalidTripError) Unwrap() error {
	return ErrInvalidTrip
}

func invalidTrip(format string, args ...interface{}) error {
	return &InvalidTripError{Reason: fmt.Sprintf(format, args...)}
}

// ChainViolationError names the first log that could not be replayed.
type ChainViolationError struct {
	LogID  uint
	Date   time.Time
	Reason string
}

func (e *ChainViolationError) Error() string {
	return fmt.Sprintf("chain violation at trip %d (%s): %s", e.LogID, e.Date.Format(models.DateLayout), e.Reason)
}

func (e *ChainViolationError) Unwrap() error {
	return ErrChainViolation
}
