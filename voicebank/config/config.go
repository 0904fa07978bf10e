// Package config loads application configuration from environment variables,
// applying typed defaults and validating the result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config aggregates application configuration values.
type Config struct {
	// Port the HTTP server listens on.
	Port string `validate:"required,numeric"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `validate:"oneof=debug info warn error"`

	// RedisAddr enables the Redis ledger store when non-empty; empty keeps
	// the in-memory store.
	RedisAddr string

	// PerTransactionLimit is the hard ceiling for a single transfer.
	PerTransactionLimit decimal.Decimal
	// LargeAmountAdvisory is the warning threshold for large transfers.
	LargeAmountAdvisory decimal.Decimal

	// VerifyThreshold is the confidence a verification score must reach.
	VerifyThreshold float64 `validate:"gt=0,lte=1"`
	// VerifyDelay is the simulated verification pause.
	VerifyDelay time.Duration
	// VerifyTimeout bounds one verification attempt.
	VerifyTimeout time.Duration `validate:"gt=0"`
	// DemoUserID names the identity the simulator favors.
	DemoUserID string
}

const (
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultVerifyThreshold = 0.82
	defaultVerifyDelay     = 1500 * time.Millisecond
	defaultVerifyTimeout   = 5 * time.Second
	defaultDemoUser        = "demo_user"
)

// Load reads configuration from the environment, after loading a .env file
// when one exists. Missing values fall back to demo defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                valueOrDefault("PORT", defaultPort),
		LogLevel:            valueOrDefault("LOG_LEVEL", defaultLogLevel),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		PerTransactionLimit: decimalOrDefault("PER_TRANSACTION_LIMIT", decimal.NewFromInt(50000)),
		LargeAmountAdvisory: decimalOrDefault("LARGE_AMOUNT_ADVISORY", decimal.NewFromInt(10000)),
		VerifyThreshold:     floatOrDefault("VERIFY_THRESHOLD", defaultVerifyThreshold),
		VerifyDelay:         durationOrDefault("VERIFY_DELAY", defaultVerifyDelay),
		VerifyTimeout:       durationOrDefault("VERIFY_TIMEOUT", defaultVerifyTimeout),
		DemoUserID:          valueOrDefault("DEMO_USER_ID", defaultDemoUser),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func decimalOrDefault(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}

	return value
}

func floatOrDefault(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}

	return value
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return value
}
