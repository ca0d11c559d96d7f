// File: /utils/validators.go
package utils

import (
	"regexp"
	"strconv"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func IsValidMonth(month string) bool {
	return monthRegex.MatchString(month)
}

// IsValidConsumptionRate accepts l/100km or l/h rates a road vehicle can plausibly have
func IsValidConsumptionRate(rate float64) bool {
	return rate >= 0 && rate <= 100
}

// ParseLimit parses a ?limit= value, falling back to the default and capping at MaxRecentLimit
func ParseLimit(raw string) int {
	if raw == "" {
		return DefaultRecentLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}

// ParseID parses a positive numeric path id
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
