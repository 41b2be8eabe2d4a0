package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, uint64(1), cfg.StartID)
	assert.Equal(t, uint64(10000), cfg.EndID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchDelay)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay)
	assert.Equal(t, 2.0, cfg.RetryGrowth)
	assert.Equal(t, 8*time.Second, cfg.RetryMaxDelay)
	assert.Equal(t, "owners.csv", cfg.OutputPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SNAPSHOT_RPC_URL", "https://rpc.example.com")
	t.Setenv("SNAPSHOT_CONTRACT", "0x0123456789abcdef0123456789abcdef01234567")
	t.Setenv("SNAPSHOT_START_ID", "100")
	t.Setenv("SNAPSHOT_END_ID", "200")
	t.Setenv("SNAPSHOT_BATCH_SIZE", "25")
	t.Setenv("SNAPSHOT_BATCH_DELAY", "250")
	t.Setenv("SNAPSHOT_MAX_ATTEMPTS", "7")
	t.Setenv("SNAPSHOT_RETRY_BASE_DELAY", "500")
	t.Setenv("SNAPSHOT_RETRY_GROWTH", "1.5")
	t.Setenv("SNAPSHOT_RETRY_MAX_DELAY", "4000")
	t.Setenv("SNAPSHOT_RPS", "12.5")
	t.Setenv("SNAPSHOT_ABSENCE_TOKENS", "no such token, gone ")
	t.Setenv("SNAPSHOT_OUTPUT", "out/owners.csv")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	assert.Equal(t, "https://rpc.example.com", cfg.RPCURL)
	assert.Equal(t, "0x0123456789abcdef0123456789abcdef01234567", cfg.ContractAddress)
	assert.Equal(t, uint64(100), cfg.StartID)
	assert.Equal(t, uint64(200), cfg.EndID)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.BatchDelay)
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, 1.5, cfg.RetryGrowth)
	assert.Equal(t, 4*time.Second, cfg.RetryMaxDelay)
	assert.Equal(t, 12.5, cfg.RequestsPerSecond)
	assert.Equal(t, []string{"no such token", "gone"}, cfg.AbsenceTokens)
	assert.Equal(t, "out/owners.csv", cfg.OutputPath)
}

func TestLoadFromEnvironmentIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("SNAPSHOT_BATCH_SIZE", "not-a-number")
	t.Setenv("SNAPSHOT_START_ID", "-3")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, uint64(1), cfg.StartID)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewConfig()
		cfg.ContractAddress = "0x0123456789abcdef0123456789abcdef01234567"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing contract", func(c *Config) { c.ContractAddress = "" }},
		{"inverted range", func(c *Config) { c.StartID = 10; c.EndID = 1 }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"negative batch delay", func(c *Config) { c.BatchDelay = -time.Second }},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"shrinking backoff", func(c *Config) { c.RetryGrowth = 0.5 }},
		{"missing output", func(c *Config) { c.OutputPath = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
