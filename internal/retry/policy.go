package retry

import (
	"math"
	"time"
)

// Policy computes backoff delays for repeated attempts against a single
// token id. Both methods are pure functions of the attempt index so callers
// can own their own sleeping and tests stay deterministic.
type Policy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	GrowthFactor float64
	MaxDelay     time.Duration
}

// NextDelay returns the delay to wait after the given 1-indexed attempt:
// min(BaseDelay * GrowthFactor^(attempt-1), MaxDelay).
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	growth := p.GrowthFactor
	if growth < 1 {
		growth = 1
	}

	delay := float64(p.BaseDelay) * math.Pow(growth, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// Exhausted reports whether the given 1-indexed attempt exceeds the budget.
func (p Policy) Exhausted(attempt int) bool {
	return attempt > p.MaxAttempts
}
