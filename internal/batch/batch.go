// Package batch runs the collector across all configured hosts and keeps
// the results in configuration order. Hosts are independent: one failure
// never aborts the batch, it just becomes an error result.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/fleetreport/internal/collector"
	"github.com/rileyhilliard/fleetreport/internal/config"
	"github.com/rileyhilliard/fleetreport/internal/logger"
)

// CollectFunc gathers one sample for one host profile.
type CollectFunc func(ctx context.Context, profile config.HostProfile) (*collector.Sample, error)

// Result is the outcome for one host: either a sample or an error.
// Timestamp records when the collection attempt started, so error rows
// in the report still carry a time.
type Result struct {
	Profile   config.HostProfile
	Timestamp time.Time
	Sample    *collector.Sample
	Err       error
}

// Runner executes a collection run over a list of host profiles.
type Runner struct {
	collect CollectFunc
	timeout time.Duration
	workers int
	log     logger.Logger
}

// NewRunner creates a Runner. timeout bounds each host's collection;
// workers is the number of hosts collected concurrently (1 = sequential).
func NewRunner(collect CollectFunc, timeout time.Duration, workers int, log logger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Runner{
		collect: collect,
		timeout: timeout,
		workers: workers,
		log:     log,
	}
}

// Run collects from every profile and returns one Result per profile, in
// input order regardless of completion order.
func (r *Runner) Run(ctx context.Context, profiles []config.HostProfile) []Result {
	results := make([]Result, len(profiles))

	if r.workers == 1 {
		for i, p := range profiles {
			results[i] = r.runOne(ctx, p)
		}
		return results
	}

	// Bounded worker pool; each worker writes to its own index so no
	// result ordering work is needed afterwards.
	type job struct {
		idx     int
		profile config.HostProfile
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = r.runOne(ctx, j.profile)
			}
		}()
	}

	for i, p := range profiles {
		jobs <- job{idx: i, profile: p}
	}
	close(jobs)
	wg.Wait()

	return results
}

// runOne collects a single host under its own timeout.
func (r *Runner) runOne(ctx context.Context, p config.HostProfile) Result {
	hostCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		hostCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	r.log.Info("collecting metrics from %s", p.Host)
	sample, err := r.collect(hostCtx, p)
	if err != nil {
		r.log.Warn("collection failed for %s: %v", p.Host, err)
		return Result{Profile: p, Timestamp: started, Err: err}
	}

	return Result{Profile: p, Timestamp: started, Sample: sample}
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
