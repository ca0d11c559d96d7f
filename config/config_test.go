package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("CHAIN_AUDIT_INTERVAL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 6*time.Hour, cfg.ChainAuditInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "fueltrack.db")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("RATE_LIMIT_BURST", "-4")
	t.Setenv("CHAIN_AUDIT_INTERVAL", "0s")
	t.Setenv("SEED_DEMO_USER", "demo")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "fueltrack.db", cfg.DatabaseURL)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Zero(t, cfg.ChainAuditInterval)
	assert.Equal(t, "demo", cfg.SeedDemoUser)
}

func TestGetEnvDurationInvalid(t *testing.T) {
	t.Setenv("SOME_INTERVAL", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_INTERVAL", time.Minute))

	t.Setenv("SOME_INTERVAL", "-5m")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_INTERVAL", time.Minute))
}
