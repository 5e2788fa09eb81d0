// Package runner implements the rate-limited session loop shared by
// traffic generation and any other bounded background activity.
//
// The loop repeatedly invokes a unit of work, pacing invocations to a
// configured units-per-second rate, until the duration elapses or the
// context is cancelled.  A failed unit is absorbed: it is logged,
// counted, and penalised with a fixed pause, but never ends the run.
package runner

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"acdbot/config"
	"acdbot/internal/metrics"
	"acdbot/util"
)

// Unit is one iteration's core action.  It must respect ctx and return
// within a bounded time (its own connect/write timeouts).
type Unit func(ctx context.Context) error

// Runner drives a Unit at a fixed rate for a bounded duration.
type Runner struct {
	Rate     int           // units per second, ≥ 1
	Duration time.Duration // ≤ 0 means no time bound (cancel only)
	Penalty  time.Duration // pause after a failed unit (default 1s)
	Logger   *util.Logger
	Metrics  *metrics.Collector
}

// Run executes the loop and returns the number of successfully
// completed units.  It returns when the duration elapses or ctx is
// cancelled; the worst-case stop latency is one unit of work plus one
// pacing interval.
func (r *Runner) Run(ctx context.Context, unit Unit) int64 {
	rps := r.Rate
	if rps < 1 {
		rps = 1
	}
	penalty := r.Penalty
	if penalty <= 0 {
		penalty = config.DefaultPenalty
	}
	if r.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Duration)
		defer cancel()
	}

	// Burst of 1: the first unit fires immediately, the rest are
	// spaced 1/rate apart regardless of unit success or failure.
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	var count int64
	for {
		if err := limiter.Wait(ctx); err != nil {
			return count
		}

		if err := unit(ctx); err != nil {
			if ctx.Err() != nil {
				// The failure was the stop request itself, not a
				// condition worth a penalty or an error line.
				return count
			}
			r.Logger.Activity("Error generating traffic: %v", err)
			r.Metrics.TransientError(err.Error())
			select {
			case <-ctx.Done():
				return count
			case <-time.After(penalty):
			}
			continue
		}
		count++
	}
}
