// File: /services/fuel_calculator.go
package services

// fuelEpsilon absorbs floating-point noise around an empty tank.
const fuelEpsilon = 1e-9

// Rates are the consumption rates used for one trip.
type Rates struct {
	Driving float64 // l/100km
	Idle    float64 // l/h
}

// Consumption is the fuel burnt during one trip.
type Consumption struct {
	Driving float64
	Idle    float64
	Total   float64
}

// CalculateConsumption applies the consumption formula. Callers guarantee
// non-negative inputs.
func CalculateConsumption(distance, idleHours float64, rates Rates) Consumption {
	driving := distance / 100 * rates.Driving
	idle := idleHours * rates.Idle
	return Consumption{
		Driving: driving,
		Idle:    idle,
		Total:   driving + idle,
	}
}

// Apply returns the fuel left after the trip and after refuelling.
func (c Consumption) Apply(startFuel, refueled float64) (fuelAfterTrip, finalFuel float64) {
	fuelAfterTrip = startFuel - c.Total
	finalFuel = fuelAfterTrip + refueled
	if finalFuel < 0 && finalFuel > -fuelEpsilon {
		finalFuel = 0
	}
	return fuelAfterTrip, finalFuel
}
