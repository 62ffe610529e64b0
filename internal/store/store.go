// Package store defines the RunStore interface for persisting and
// querying recorded simulation runs. The simulation core never imports
// this package; the CLI hands finished trajectories to a store.
package store

import (
	"context"
	"time"

	"github.com/nvandessel/epiwalk/internal/sim"
)

// RunRecord describes one persisted run: the scenario it was produced
// from and how it terminated. Samples are stored separately.
type RunRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ScenarioYAML string    `json:"scenario_yaml"` // scenario as given, for exact replay
	Seed         uint64    `json:"seed"`
	Reason       string    `json:"reason"`
	Firings      int       `json:"firings"`
	FinalTime    float64   `json:"final_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// RunStore persists runs and their trajectories.
type RunStore interface {
	// SaveRun stores a run record with its full sample sequence.
	SaveRun(ctx context.Context, rec RunRecord, samples []sim.Sample) error

	// GetRun returns the record for id, or nil if absent.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns all run records, newest first.
	ListRuns(ctx context.Context) ([]RunRecord, error)

	// Samples returns the recorded trajectory for a run, in time order.
	Samples(ctx context.Context, id string) ([]sim.Sample, error)

	// DeleteRun removes a run and its samples.
	DeleteRun(ctx context.Context, id string) error

	Close() error
}
