package sim

import (
	"fmt"

	"github.com/nvandessel/epiwalk/internal/model"
)

// Reason is the terminal state of a run. Every run ends in exactly one.
type Reason string

const (
	// ReasonExtinction: no infectious individuals remain (or no channel
	// can fire), so the process is absorbed.
	ReasonExtinction Reason = "extinction"

	// ReasonHorizon: simulated time reached the configured horizon.
	ReasonHorizon Reason = "horizon"

	// ReasonIterationCap: the firing cap was reached before extinction
	// or the horizon; the trajectory is complete up to the cap but may
	// be truncated relative to the requested horizon.
	ReasonIterationCap Reason = "iteration-cap"
)

// Sample is one recorded (time, state) snapshot.
type Sample struct {
	Time  float64       `json:"time"`
	State model.Species `json:"state"`
}

// Trajectory is the append-only record of one run: the initial sample at
// t=0 plus one sample per firing, in strictly increasing time order.
// The engine owns it during a run; callers treat it as read-only.
type Trajectory struct {
	samples []Sample
	reason  Reason

	// degenerate marks a forced extinction: total propensity hit zero
	// while infectious individuals remained.
	degenerate bool
}

// newTrajectory creates an empty trajectory with capacity for the
// initial sample plus maxIterations firings.
func newTrajectory(maxIterations int) *Trajectory {
	return &Trajectory{
		samples: make([]Sample, 0, maxIterations+1),
	}
}

// append records a sample. It fails if the capacity (maxIterations+1)
// would be exceeded; the engine's iteration-cap check fires first, so an
// error here indicates an engine bug, never a silent drop.
func (tr *Trajectory) append(t float64, state model.Species) error {
	if len(tr.samples) == cap(tr.samples) {
		return fmt.Errorf("trajectory: capacity %d exceeded", cap(tr.samples))
	}
	tr.samples = append(tr.samples, Sample{Time: t, State: state})
	return nil
}

// full reports whether the trajectory has reached its capacity.
func (tr *Trajectory) full() bool {
	return len(tr.samples) == cap(tr.samples)
}

// Samples returns the recorded samples in time order.
// The returned slice is shared; callers must not modify it.
func (tr *Trajectory) Samples() []Sample {
	return tr.samples
}

// Len returns the number of recorded samples (1 + firings).
func (tr *Trajectory) Len() int {
	return len(tr.samples)
}

// Final returns the last recorded sample.
func (tr *Trajectory) Final() Sample {
	return tr.samples[len(tr.samples)-1]
}

// Reason returns the termination reason, valid once the run has ended.
func (tr *Trajectory) Reason() Reason {
	return tr.reason
}

// Degenerate reports whether extinction was forced by a zero total
// propensity while infectious individuals remained.
func (tr *Trajectory) Degenerate() bool {
	return tr.degenerate
}
