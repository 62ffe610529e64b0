package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nvandessel/epiwalk/internal/sim"
)

// MemoryRunStore is an in-memory RunStore for tests and dry runs.
type MemoryRunStore struct {
	mu      sync.RWMutex
	runs    map[string]RunRecord
	samples map[string][]sim.Sample
}

// NewMemoryRunStore creates an empty in-memory store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs:    make(map[string]RunRecord),
		samples: make(map[string][]sim.Sample),
	}
}

// SaveRun stores a run record with its sample sequence.
func (s *MemoryRunStore) SaveRun(ctx context.Context, rec RunRecord, samples []sim.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", rec.ID)
	}
	if _, exists := s.runs[rec.ID]; exists {
		return fmt.Errorf("run already exists: %s", rec.ID)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.runs[rec.ID] = rec
	s.samples[rec.ID] = append([]sim.Sample(nil), samples...)
	return nil
}

// GetRun returns the record for id, or nil if absent.
func (s *MemoryRunStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListRuns returns all run records, newest first.
func (s *MemoryRunStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

// Samples returns the recorded trajectory for a run.
func (s *MemoryRunStore) Samples(ctx context.Context, id string) ([]sim.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	samples, ok := s.samples[id]
	if !ok {
		return nil, nil
	}
	return append([]sim.Sample(nil), samples...), nil
}

// DeleteRun removes a run and its samples.
func (s *MemoryRunStore) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("run not found: %s", id)
	}
	delete(s.runs, id)
	delete(s.samples, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryRunStore) Close() error { return nil }
