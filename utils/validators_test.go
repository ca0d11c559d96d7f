package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMonth(t *testing.T) {
	assert.True(t, IsValidMonth("2024-03"))
	assert.True(t, IsValidMonth("1999-12"))
	assert.False(t, IsValidMonth("2024-13"))
	assert.False(t, IsValidMonth("2024-3"))
	assert.False(t, IsValidMonth("March"))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, DefaultRecentLimit, ParseLimit(""))
	assert.Equal(t, DefaultRecentLimit, ParseLimit("zero"))
	assert.Equal(t, DefaultRecentLimit, ParseLimit("-1"))
	assert.Equal(t, 5, ParseLimit("5"))
	assert.Equal(t, MaxRecentLimit, ParseLimit("100000"))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("17")
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)

	_, ok = ParseID("0")
	assert.False(t, ok)
	_, ok = ParseID("x")
	assert.False(t, ok)
}

func TestIsValidConsumptionRate(t *testing.T) {
	assert.True(t, IsValidConsumptionRate(0))
	assert.True(t, IsValidConsumptionRate(7.5))
	assert.False(t, IsValidConsumptionRate(-1))
	assert.False(t, IsValidConsumptionRate(150))
}
