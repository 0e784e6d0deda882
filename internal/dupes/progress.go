package dupes

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Tier names a stage of the refinement pipeline.
type Tier string

const (
	// TierSize groups candidates by file size.
	TierSize Tier = "size"
	// TierPartial groups by the digest of the first chunk.
	TierPartial Tier = "partial"
	// TierFull groups by the digest of the whole file.
	TierFull Tier = "full"
)

// Progress is a snapshot of the tier currently being processed.
type Progress struct {
	// Tier is the running tier.
	Tier Tier
	// Done is the number of files of this tier already processed.
	Done int64
	// Total is the number of files this tier has to process.
	Total int64
}

// tracker holds the live progress counters shared with hashing workers.
type tracker struct {
	tier  atomic.Value // Tier
	done  atomic.Int64
	total atomic.Int64
}

func newTracker() *tracker {
	t := &tracker{}
	t.tier.Store(TierSize)

	return t
}

// begin resets the counters for a new tier.
func (t *tracker) begin(tier Tier, total int) {
	t.tier.Store(tier)
	t.done.Store(0)
	t.total.Store(int64(total))
}

func (t *tracker) step() { t.done.Add(1) }

func (t *tracker) snapshot() Progress {
	tier, _ := t.tier.Load().(Tier)

	return Progress{Tier: tier, Done: t.done.Load(), Total: t.total.Load()}
}

// startProgressReporter invokes hook with a snapshot on each tick until ctx is done.
// The returned function blocks until the reporter has stopped.
func startProgressReporter(ctx context.Context, t *tracker, hook func(Progress), interval time.Duration) func() {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(t.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { <-stopped }
}
