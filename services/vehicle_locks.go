package services

import "sync"

// VehicleLocks serialises chain writes per vehicle inside this process.
// The row lock taken by the ledger store covers other instances.
type VehicleLocks struct {
	mutex sync.Mutex
	locks map[uint]*vehicleLock
}

type vehicleLock struct {
	mu   sync.Mutex
	refs int
}

func NewVehicleLocks() *VehicleLocks {
	return &VehicleLocks{locks: make(map[uint]*vehicleLock)}
}

// Lock blocks until the vehicle is free and returns its unlock func.
func (l *VehicleLocks) Lock(vehicleID uint) func() {
	l.mutex.Lock()
	lock, ok := l.locks[vehicleID]
	if !ok {
		lock = &vehicleLock{}
		l.locks[vehicleID] = lock
	}
	lock.refs++
	l.mutex.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mutex.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, vehicleID)
		}
		l.mutex.Unlock()
	}
}

// held reports how many callers hold or wait for vehicleID.
func (l *VehicleLocks) held(vehicleID uint) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if lock, ok := l.locks[vehicleID]; ok {
		return lock.refs
	}
	return 0
}
