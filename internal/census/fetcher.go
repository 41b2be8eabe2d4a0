package census

import (
	"context"
	"time"

	"github.com/kelsos/nft-snapshot/internal/retry"
)

// Fetcher resolves single token ids to terminal outcomes, retrying
// transient failures under the configured policy. Each id's loop owns its
// attempt counter exclusively; nothing is shared between items.
type Fetcher struct {
	caller      Caller
	policy      retry.Policy
	classifier  retry.Classifier
	callTimeout time.Duration

	// sleep is injectable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewFetcher(caller Caller, policy retry.Policy, classifier retry.Classifier, callTimeout time.Duration) *Fetcher {
	return &Fetcher{
		caller:      caller,
		policy:      policy,
		classifier:  classifier,
		callTimeout: callTimeout,
		sleep:       sleepContext,
	}
}

// Fetch drives one token id to a terminal outcome. Attempts are 1-indexed;
// after a transient failure on attempt k the loop retries only while
// k+1 stays within the budget, so an always-failing id is attempted exactly
// MaxAttempts times. No attempt is made after a terminal state is reached.
func (f *Fetcher) Fetch(ctx context.Context, tokenID uint64) Outcome {
	for attempt := 1; ; attempt++ {
		owner, err := f.attempt(ctx, tokenID)
		if err == nil {
			return Outcome{TokenID: tokenID, Status: StatusOwned, Owner: owner}
		}

		switch f.classifier.Classify(err).Class {
		case retry.ClassAbsent:
			return Outcome{TokenID: tokenID, Status: StatusAbsent}
		case retry.ClassFatal:
			return Outcome{TokenID: tokenID, Status: StatusFailed, Reason: err.Error()}
		}

		if f.policy.Exhausted(attempt + 1) {
			return Outcome{TokenID: tokenID, Status: StatusFailed, Reason: err.Error()}
		}

		if serr := f.sleep(ctx, f.policy.NextDelay(attempt)); serr != nil {
			return Outcome{TokenID: tokenID, Status: StatusFailed, Reason: serr.Error()}
		}
	}
}

// attempt bounds a single call so one hung request cannot stall its whole
// batch; a timeout classifies as transient and is retried.
func (f *Fetcher) attempt(ctx context.Context, tokenID uint64) (string, error) {
	if f.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.callTimeout)
		defer cancel()
	}
	return f.caller.OwnerOf(ctx, tokenID)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
