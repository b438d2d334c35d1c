package engine

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/lct-labs/jiraseed/pkg/telemetry"
)

// Options tunes orchestrator execution.
type Options struct {
	// Parallelism bounds the worker pool within one topological
	// level. Levels themselves are strictly sequenced.
	Parallelism int

	// MaxAttempts is the total attempt budget per tracker call for
	// retryable failures.
	MaxAttempts int

	// BaseBackoff is the first retry delay; doubled per attempt,
	// capped at 30s, with jitter. Rate-limit responses start from a
	// longer base.
	BaseBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.Parallelism <= 0 {
		o.Parallelism = 4
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 4
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 500 * time.Millisecond
	}
	return o
}

// Orchestrator drives creation and deletion through the tracker
// client, maintains the resolution cache, and aggregates the report.
// Construct with New; all collaborators are injected, nothing is read
// from ambient process state.
type Orchestrator struct {
	tracker Tracker
	cache   *ResolutionCache
	report  *Report
	log     *telemetry.Logger
	opts    Options
}

// New creates an orchestrator writing results into report.
func New(tracker Tracker, report *Report, log *telemetry.Logger, opts Options) *Orchestrator {
	if log == nil {
		log = telemetry.Nop()
	}
	return &Orchestrator{
		tracker: tracker,
		cache:   NewResolutionCache(),
		report:  report,
		log:     log.NewComponentLogger("engine"),
		opts:    opts.withDefaults(),
	}
}

// Report returns the run report the orchestrator writes into.
func (o *Orchestrator) Report() *Report { return o.report }

// Cache exposes the resolution cache.
func (o *Orchestrator) Cache() *ResolutionCache { return o.cache }

// withRetry runs fn with exponential backoff for retryable errors,
// up to the attempt budget. Non-retryable errors return immediately.
func (o *Orchestrator) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < o.opts.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsRetryable(err) || attempt == o.opts.MaxAttempts-1 {
			return err
		}

		delay := o.backoff(attempt, err)
		o.log.WithError(err).Warnf("retrying after %s (attempt %d/%d)",
			delay, attempt+1, o.opts.MaxAttempts)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// backoff computes the delay before the next attempt: exponential from
// the base, longer for rate limiting, capped, with +/-25% jitter.
func (o *Orchestrator) backoff(attempt int, err error) time.Duration {
	base := o.opts.BaseBackoff
	if IsThrottled(err) {
		base *= 5
	}
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2+1)) - delay/4
	return delay + jitter
}

func (o *Orchestrator) workerCount(n int) int {
	w := o.opts.Parallelism
	if n < w {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}
