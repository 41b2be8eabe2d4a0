package census

import (
	"fmt"
	"sort"
	"sync"
)

// ResultSet accumulates terminal outcomes across a run. Appends are safe
// from concurrent fetchers; each token id may be recorded exactly once.
type ResultSet struct {
	mu       sync.Mutex
	outcomes map[uint64]Outcome
}

func NewResultSet() *ResultSet {
	return &ResultSet{
		outcomes: make(map[uint64]Outcome),
	}
}

// Record appends one terminal outcome. Recording the same token id twice
// is a programming error and is rejected.
func (r *ResultSet) Record(o Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.outcomes[o.TokenID]; exists {
		return fmt.Errorf("duplicate outcome for token id %d", o.TokenID)
	}
	r.outcomes[o.TokenID] = o
	return nil
}

// Len returns the number of recorded outcomes.
func (r *ResultSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

// Sorted returns all outcomes ordered by token id ascending, regardless of
// the order fetchers completed in.
func (r *ResultSet) Sorted() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := make([]Outcome, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		sorted = append(sorted, o)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TokenID < sorted[j].TokenID
	})
	return sorted
}

// Failures returns the failed outcomes ordered by token id ascending.
func (r *ResultSet) Failures() []Outcome {
	failures := make([]Outcome, 0)
	for _, o := range r.Sorted() {
		if o.Status == StatusFailed {
			failures = append(failures, o)
		}
	}
	return failures
}

// Counts tallies outcomes per terminal status.
func (r *ResultSet) Counts() (owned, absent, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.outcomes {
		switch o.Status {
		case StatusOwned:
			owned++
		case StatusAbsent:
			absent++
		case StatusFailed:
			failed++
		}
	}
	return owned, absent, failed
}
