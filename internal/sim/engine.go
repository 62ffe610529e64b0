// Package sim implements the exact stochastic simulation algorithm
// (Gillespie's direct method) over the behavioral epidemic network.
// Waiting times are sampled from the exponential distribution
// parameterized by total propensity; the firing channel is selected by
// a cumulative-sum scan proportional to each channel's propensity share.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/nvandessel/epiwalk/internal/config"
	"github.com/nvandessel/epiwalk/internal/model"
	"github.com/nvandessel/epiwalk/internal/variate"
)

// Engine runs one simulation to termination. An Engine owns its state
// and trajectory exclusively; independent runs need independent engines
// and variate sources.
type Engine struct {
	scenario *config.Scenario
	network  *model.Network
	source   variate.Source
}

// New creates an engine for the given scenario and variate source.
// The scenario is validated here; a validation error names the violated
// field and the engine is not constructed.
func New(scenario *config.Scenario, source variate.Source) (*Engine, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("variate source cannot be nil")
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &Engine{
		scenario: scenario,
		network:  model.NewNetwork(scenario.Rates),
		source:   source,
	}, nil
}

// Run executes the simulation to one of the three termination reasons
// and returns the recorded trajectory. On a valid scenario Run never
// fails mid-simulation; the only error path is context cancellation,
// checked between iterations.
func (e *Engine) Run(ctx context.Context) (*Trajectory, error) {
	state := e.scenario.InitialCounts.Species()
	t := 0.0

	trajectory := newTrajectory(e.scenario.MaxIterations)
	if err := trajectory.append(t, state); err != nil {
		return nil, err
	}

	for it := 0; ; it++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run interrupted after %d firings: %w", it, err)
		}

		// Terminal checks, in fixed precedence order.
		if state[model.Infectious] == 0 {
			trajectory.reason = ReasonExtinction
			return trajectory, nil
		}
		if t >= e.scenario.HorizonTime {
			trajectory.reason = ReasonHorizon
			return trajectory, nil
		}
		if it >= e.scenario.MaxIterations {
			trajectory.reason = ReasonIterationCap
			return trajectory, nil
		}

		propensities := e.network.Propensities(state)
		var wTot float64
		for _, p := range propensities {
			wTot += p
		}

		r1 := e.source.Next()
		if wTot <= 0 {
			// No channel can fire even though I > 0. Treated as a
			// forced extinction, not a crash.
			trajectory.reason = ReasonExtinction
			trajectory.degenerate = true
			return trajectory, nil
		}
		t += -math.Log(r1) / wTot

		r2 := e.source.Next()
		ch := selectChannel(propensities, wTot, r2)

		next, err := e.network.Apply(state, ch)
		if err != nil {
			return nil, fmt.Errorf("firing %d: %w", it, err)
		}
		state = next

		if err := trajectory.append(t, state); err != nil {
			return nil, err
		}
	}
}

// selectChannel picks the firing channel by inverse-CDF over the
// propensity shares: the first channel whose cumulative propensity
// reaches r2*wTot wins. Boundaries are closed on the upper side, so a
// draw landing exactly on a cumulative boundary selects the
// lower-indexed channel.
func selectChannel(propensities [model.NumChannels]float64, wTot, r2 float64) model.Channel {
	target := r2 * wTot
	cum := 0.0
	last := model.Channel(0)
	for j, p := range propensities {
		if p == 0 {
			continue
		}
		cum += p
		last = model.Channel(j)
		if cum >= target {
			return last
		}
	}
	// Floating-point shortfall: cum summed to slightly less than wTot.
	// The last fireable channel is the correct pick.
	return last
}
