// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        string
	GinMode     string
	DBDriver    string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string

	// Telegram Web App
	BotToken  string
	WebAppURL string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	ChainAuditInterval time.Duration

	// Seeds a demo vehicle for this user on startup when set
	SeedDemoUser string
}

func Load() *Config {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("No .env file loaded")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/fueltrack?charset=utf8mb4&parseTime=True&loc=UTC"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		BotToken:  getEnv("BOT_TOKEN", ""),
		WebAppURL: getEnv("WEBAPP_URL", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		ChainAuditInterval: getEnvDuration("CHAIN_AUDIT_INTERVAL", 6*time.Hour),

		SeedDemoUser: getEnv("SEED_DEMO_USER", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go duration strings ("30m", "6h"). Zero disables the value's consumer.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.WithFields(log.Fields{"key": key, "value": raw}).Warn("Invalid duration, using default")
		return defaultValue
	}
	return d
}
