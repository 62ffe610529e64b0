// Package ensemble runs independent replicates of one scenario.
// Replicates are embarrassingly parallel: each owns its engine, variate
// source, and trajectory, so the only shared state is the read-only
// scenario. Results are deterministic given the master seed, regardless
// of scheduling.
package ensemble

import (
	"context"
	"fmt"
	"sync"

	"github.com/nvandessel/epiwalk/internal/config"
	"github.com/nvandessel/epiwalk/internal/sim"
	"github.com/nvandessel/epiwalk/internal/stats"
	"github.com/nvandessel/epiwalk/internal/variate"
)

// Result holds one replicate's trajectory and its summary.
type Result struct {
	Replicate  int
	Trajectory *sim.Trajectory
	Summary    stats.Summary
}

// Run executes replicates of the scenario in parallel, deriving one
// independent variate stream per replicate from masterSeed. Results are
// ordered by replicate index. The first engine error (including context
// cancellation) is returned; remaining replicates still drain.
func Run(ctx context.Context, scenario *config.Scenario, replicates int, masterSeed uint64) ([]Result, error) {
	if replicates <= 0 {
		return nil, fmt.Errorf("replicates must be positive, got %d", replicates)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	results := make([]Result, replicates)
	errs := make([]error, replicates)

	var wg sync.WaitGroup
	for i := 0; i < replicates; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			engine, err := sim.New(scenario, variate.NewPCG(masterSeed, uint64(idx)))
			if err != nil {
				errs[idx] = fmt.Errorf("replicate %d: %w", idx, err)
				return
			}

			trajectory, err := engine.Run(ctx)
			if err != nil {
				errs[idx] = fmt.Errorf("replicate %d: %w", idx, err)
				return
			}

			results[idx] = Result{
				Replicate:  idx,
				Trajectory: trajectory,
				Summary:    stats.Summarize(trajectory.Samples(), trajectory.Reason()),
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Summaries extracts the per-replicate summaries, in replicate order.
func Summaries(results []Result) []stats.Summary {
	summaries := make([]stats.Summary, len(results))
	for i, r := range results {
		summaries[i] = r.Summary
	}
	return summaries
}
