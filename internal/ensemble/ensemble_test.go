package ensemble

import (
	"context"
	"testing"

	"github.com/nvandessel/epiwalk/internal/config"
)

func TestRun(t *testing.T) {
	scenario := config.DefaultScenario()
	ctx := context.Background()

	results, err := Run(ctx, scenario, 8, 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("Run() returned %d results, want 8", len(results))
	}

	for i, r := range results {
		if r.Replicate != i {
			t.Errorf("results[%d].Replicate = %d, want %d (results must keep replicate order)", i, r.Replicate, i)
		}
		if r.Trajectory == nil {
			t.Fatalf("results[%d].Trajectory is nil", i)
		}
		if r.Summary.Firings != r.Trajectory.Len()-1 {
			t.Errorf("results[%d] summary firings = %d, trajectory has %d", i, r.Summary.Firings, r.Trajectory.Len()-1)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario := config.DefaultScenario()
	ctx := context.Background()

	a, err := Run(ctx, scenario, 6, 99)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	b, err := Run(ctx, scenario, 6, 99)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := range a {
		if a[i].Summary != b[i].Summary {
			t.Errorf("replicate %d summary differs across runs with equal master seed:\n%+v\nvs\n%+v",
				i, a[i].Summary, b[i].Summary)
		}
		if a[i].Trajectory.Len() != b[i].Trajectory.Len() {
			t.Errorf("replicate %d trajectory length differs: %d vs %d",
				i, a[i].Trajectory.Len(), b[i].Trajectory.Len())
		}
	}
}

func TestRun_ReplicatesIndependent(t *testing.T) {
	scenario := config.DefaultScenario()

	results, err := Run(context.Background(), scenario, 4, 7)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// With independent streams, replicates should not all be identical.
	allSame := true
	for _, r := range results[1:] {
		if r.Summary != results[0].Summary {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("all replicates produced identical summaries, streams are not independent")
	}
}

func TestRun_Errors(t *testing.T) {
	scenario := config.DefaultScenario()

	if _, err := Run(context.Background(), scenario, 0, 1); err == nil {
		t.Error("Run() with zero replicates expected error, got nil")
	}
	if _, err := Run(context.Background(), scenario, -3, 1); err == nil {
		t.Error("Run() with negative replicates expected error, got nil")
	}

	bad := config.DefaultScenario()
	bad.MaxIterations = 0
	if _, err := Run(context.Background(), bad, 2, 1); err == nil {
		t.Error("Run() with invalid scenario expected error, got nil")
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, config.DefaultScenario(), 4, 1); err == nil {
		t.Error("Run() with cancelled context expected error, got nil")
	}
}

func TestSummaries(t *testing.T) {
	results, err := Run(context.Background(), config.DefaultScenario(), 3, 5)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summaries := Summaries(results)
	if len(summaries) != 3 {
		t.Fatalf("Summaries() returned %d entries, want 3", len(summaries))
	}
	for i := range results {
		if summaries[i] != results[i].Summary {
			t.Errorf("Summaries()[%d] does not match results[%d].Summary", i, i)
		}
	}
}
