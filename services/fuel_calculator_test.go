package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateConsumption(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		idleHours float64
		rates     Rates
		want      Consumption
	}{
		{
			name:     "driving only",
			distance: 100,
			rates:    Rates{Driving: 8, Idle: 1},
			want:     Consumption{Driving: 8, Idle: 0, Total: 8},
		},
		{
			name:      "driving and idle",
			distance:  250,
			idleHours: 1.5,
			rates:     Rates{Driving: 6, Idle: 0.8},
			want:      Consumption{Driving: 15, Idle: 1.2, Total: 16.2},
		},
		{
			name:      "idle only",
			idleHours: 3,
			rates:     Rates{Driving: 8, Idle: 1},
			want:      Consumption{Driving: 0, Idle: 3, Total: 3},
		},
		{
			name:  "nothing",
			rates: Rates{Driving: 8, Idle: 1},
			want:  Consumption{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateConsumption(tt.distance, tt.idleHours, tt.rates)
			assert.InDelta(t, tt.want.Driving, got.Driving, 1e-9)
			assert.InDelta(t, tt.want.Idle, got.Idle, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
		})
	}
}

func TestConsumptionApply(t *testing.T) {
	c := CalculateConsumption(100, 2, Rates{Driving: 8, Idle: 1})

	after, final := c.Apply(50, 0)
	assert.InDelta(t, 40.0, after, 1e-9)
	assert.InDelta(t, 40.0, final, 1e-9)

	after, final = c.Apply(5, 20)
	assert.InDelta(t, -5.0, after, 1e-9)
	assert.InDelta(t, 15.0, final, 1e-9)
}

func TestConsumptionApplySnapsNoiseToZero(t *testing.T) {
	c := Consumption{Total: 0.3}

	_, final := c.Apply(0.1+0.2-1e-12, 0)
	assert.Equal(t, 0.0, final)

	_, final = c.Apply(0.2, 0)
	assert.Less(t, final, 0.0)
}
