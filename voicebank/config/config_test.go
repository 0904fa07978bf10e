package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Env-var tests set process state, so no t.Parallel here.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.True(t, cfg.PerTransactionLimit.Equal(decimal.NewFromInt(50000)))
	assert.True(t, cfg.LargeAmountAdvisory.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 0.82, cfg.VerifyThreshold)
	assert.Equal(t, 5*time.Second, cfg.VerifyTimeout)
	assert.Equal(t, "demo_user", cfg.DemoUserID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PER_TRANSACTION_LIMIT", "1000")
	t.Setenv("VERIFY_THRESHOLD", "0.9")
	t.Setenv("VERIFY_TIMEOUT", "2s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.PerTransactionLimit.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 0.9, cfg.VerifyThreshold)
	assert.Equal(t, 2*time.Second, cfg.VerifyTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PER_TRANSACTION_LIMIT", "not-a-number")
	t.Setenv("VERIFY_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.PerTransactionLimit.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 5*time.Second, cfg.VerifyTimeout)
}

func TestLoad_InvalidLogLevelRejected(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
}
