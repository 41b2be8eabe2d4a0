package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Remote endpoint settings
	RPCURL          string
	ContractAddress string
	ABISource       string

	// Range settings
	StartID uint64
	EndID   uint64

	// Pacing settings
	BatchSize         int
	BatchDelay        time.Duration
	RequestsPerSecond float64

	// Retry settings
	MaxAttempts    int
	RetryBaseDelay time.Duration
	RetryGrowth    float64
	RetryMaxDelay  time.Duration
	CallTimeout    time.Duration

	// Classification settings
	AbsenceTokens []string

	// Output settings
	OutputPath   string
	ErrorLogPath string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		RPCURL:         "http://localhost:8545",
		StartID:        1,
		EndID:          10000,
		BatchSize:      50,
		BatchDelay:     time.Second,
		MaxAttempts:    5,
		RetryBaseDelay: time.Second,
		RetryGrowth:    2.0,
		RetryMaxDelay:  8 * time.Second,
		CallTimeout:    30 * time.Second,
		OutputPath:     "owners.csv",
		ErrorLogPath:   "owners_errors.log",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if url := os.Getenv("SNAPSHOT_RPC_URL"); url != "" {
		c.RPCURL = url
	}

	if contract := os.Getenv("SNAPSHOT_CONTRACT"); contract != "" {
		c.ContractAddress = contract
	}

	if abi := os.Getenv("SNAPSHOT_ABI"); abi != "" {
		c.ABISource = abi
	}

	if start := os.Getenv("SNAPSHOT_START_ID"); start != "" {
		if s, err := strconv.ParseUint(start, 10, 64); err == nil {
			c.StartID = s
		}
	}

	if end := os.Getenv("SNAPSHOT_END_ID"); end != "" {
		if e, err := strconv.ParseUint(end, 10, 64); err == nil {
			c.EndID = e
		}
	}

	if size := os.Getenv("SNAPSHOT_BATCH_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			c.BatchSize = s
		}
	}

	if delay := os.Getenv("SNAPSHOT_BATCH_DELAY"); delay != "" {
		if d, err := strconv.Atoi(delay); err == nil {
			c.BatchDelay = time.Duration(d) * time.Millisecond
		}
	}

	if rps := os.Getenv("SNAPSHOT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			c.RequestsPerSecond = r
		}
	}

	if attempts := os.Getenv("SNAPSHOT_MAX_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			c.MaxAttempts = a
		}
	}

	if base := os.Getenv("SNAPSHOT_RETRY_BASE_DELAY"); base != "" {
		if b, err := strconv.Atoi(base); err == nil {
			c.RetryBaseDelay = time.Duration(b) * time.Millisecond
		}
	}

	if growth := os.Getenv("SNAPSHOT_RETRY_GROWTH"); growth != "" {
		if g, err := strconv.ParseFloat(growth, 64); err == nil {
			c.RetryGrowth = g
		}
	}

	if maxDelay := os.Getenv("SNAPSHOT_RETRY_MAX_DELAY"); maxDelay != "" {
		if m, err := strconv.Atoi(maxDelay); err == nil {
			c.RetryMaxDelay = time.Duration(m) * time.Millisecond
		}
	}

	if timeout := os.Getenv("SNAPSHOT_CALL_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.CallTimeout = time.Duration(t) * time.Millisecond
		}
	}

	if tokens := os.Getenv("SNAPSHOT_ABSENCE_TOKENS"); tokens != "" {
		c.AbsenceTokens = splitTokens(tokens)
	}

	if output := os.Getenv("SNAPSHOT_OUTPUT"); output != "" {
		c.OutputPath = output
	}

	if errorLog := os.Getenv("SNAPSHOT_ERROR_LOG"); errorLog != "" {
		c.ErrorLogPath = errorLog
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContractAddress == "" {
		return fmt.Errorf("contract address cannot be empty")
	}

	if c.StartID > c.EndID {
		return fmt.Errorf("start id must not exceed end id, got: [%d, %d]", c.StartID, c.EndID)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got: %d", c.BatchSize)
	}

	if c.BatchDelay < 0 {
		return fmt.Errorf("batch delay must be non-negative, got: %v", c.BatchDelay)
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got: %d", c.MaxAttempts)
	}

	if c.RetryGrowth < 1 {
		return fmt.Errorf("retry growth factor must be at least 1, got: %f", c.RetryGrowth)
	}

	if c.OutputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	return nil
}

func splitTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}
