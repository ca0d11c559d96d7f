package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fueltrack-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid trip", &services.InvalidTripError{Reason: "end mileage is below start mileage"}, http.StatusBadRequest},
		{"chain violation", &services.ChainViolationError{LogID: 3, Date: time.Now(), Reason: "fuel"}, http.StatusConflict},
		{"wrapped not found", fmt.Errorf("load: %w", services.ErrNotFound), http.StatusNotFound},
		{"report without data", services.ErrNoReportData, http.StatusNotFound},
		{"permission", services.ErrPermissionDenied, http.StatusForbidden},
		{"vehicle has trips", services.ErrVehicleHasTrips, http.StatusConflict},
		{"bad request", fmt.Errorf("%w: month", services.ErrInvalidRequest), http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestChainViolationBodyNamesLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, fmt.Errorf("edit: %w", &services.ChainViolationError{LogID: 9, Reason: "fuel level would drop to -1.00 l"}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"log_id":9`)
	assert.Contains(t, w.Body.String(), "fuel level would drop")
}
