package census

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Progress describes one terminal outcome as the run advances.
type Progress struct {
	Completed uint64
	Total     uint64
	Batch     uint64
	Batches   uint64
	Outcome   Outcome
}

// Scheduler partitions a token id range into fixed-size batches, runs all
// items of a batch concurrently, waits for the whole batch to settle, then
// pauses before the next one. Batch boundaries only bound concurrency and
// pace the upstream; the final result is independent of batch size.
type Scheduler struct {
	fetcher    *Fetcher
	batchSize  int
	pacing     time.Duration
	limiter    *rate.Limiter
	onProgress func(Progress)

	sleep func(ctx context.Context, d time.Duration) error
}

func NewScheduler(fetcher *Fetcher, batchSize int, pacing time.Duration) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Scheduler{
		fetcher:   fetcher,
		batchSize: batchSize,
		pacing:    pacing,
		sleep:     sleepContext,
	}
}

// SetLimiter installs an optional request-level token bucket applied before
// every call, on top of batch pacing.
func (s *Scheduler) SetLimiter(l *rate.Limiter) {
	s.limiter = l
}

// OnProgress registers a callback invoked once per terminal outcome. The
// callback may be called from concurrent fetcher goroutines.
func (s *Scheduler) OnProgress(fn func(Progress)) {
	s.onProgress = fn
}

// Run fetches every id in [start, end] and returns the accumulated results.
// A non-nil error means the run was aborted and the results are incomplete;
// callers must not persist them.
func (s *Scheduler) Run(ctx context.Context, start, end uint64) (*ResultSet, error) {
	if start > end {
		return nil, fmt.Errorf("invalid token id range [%d, %d]", start, end)
	}

	sink := NewResultSet()
	total := end - start + 1
	span := uint64(s.batchSize)
	batches := (total + span - 1) / span

	var completed atomic.Uint64
	var batch uint64

	for lo := start; ; {
		hi := end
		if end-lo >= span {
			hi = lo + span - 1
		}
		batch++

		g, gctx := errgroup.WithContext(ctx)
		for id := lo; ; id++ {
			tokenID := id
			g.Go(func() error {
				if s.limiter != nil {
					if err := s.limiter.Wait(gctx); err != nil {
						return err
					}
				}

				outcome := s.fetcher.Fetch(gctx, tokenID)
				if err := sink.Record(outcome); err != nil {
					return err
				}

				if s.onProgress != nil {
					s.onProgress(Progress{
						Completed: completed.Add(1),
						Total:     total,
						Batch:     batch,
						Batches:   batches,
						Outcome:   outcome,
					})
				}
				return nil
			})
			if id == hi {
				break
			}
		}

		// Barrier: the next batch must not start until every item of this
		// one reached a terminal state.
		if err := g.Wait(); err != nil {
			return sink, err
		}
		if err := ctx.Err(); err != nil {
			return sink, err
		}

		if hi == end {
			break
		}
		lo = hi + 1

		if err := s.sleep(ctx, s.pacing); err != nil {
			return sink, err
		}
	}

	return sink, nil
}
