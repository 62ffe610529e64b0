package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvandessel/epiwalk/internal/model"
	"github.com/nvandessel/epiwalk/internal/sim"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteRunStore implements RunStore using SQLite for persistence.
type SQLiteRunStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteRunStore opens (or creates) the run database at dbPath,
// creating parent directories as needed.
func NewSQLiteRunStore(dbPath string) (*SQLiteRunStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{db: db, dbPath: dbPath}, nil
}

// SaveRun stores a run record with its full sample sequence in one
// transaction.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, rec RunRecord, samples []sim.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", rec.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, scenario_yaml, seed, reason, firings, final_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.ScenarioYAML, rec.Seed, rec.Reason,
		rec.Firings, rec.FinalTime, createdAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (run_id, idx, t, w, r, i, s, d)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for idx, sample := range samples {
		if _, err := stmt.ExecContext(ctx, rec.ID, idx, sample.Time,
			sample.State[model.Wise], sample.State[model.Risky],
			sample.State[model.Infectious], sample.State[model.Recovered],
			sample.State[model.Dead],
		); err != nil {
			return fmt.Errorf("failed to insert sample %d of run %s: %w", idx, rec.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun returns the record for id, or nil if absent.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, scenario_yaml, seed, reason, firings, final_time, created_at
		FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return rec, nil
}

// ListRuns returns all run records, newest first.
func (s *SQLiteRunStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, scenario_yaml, seed, reason, firings, final_time, created_at
		FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return records, nil
}

// Samples returns the recorded trajectory for a run, in time order.
func (s *SQLiteRunStore) Samples(ctx context.Context, id string) ([]sim.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT t, w, r, i, s, d FROM samples WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples for %s: %w", id, err)
	}
	defer rows.Close()

	var samples []sim.Sample
	for rows.Next() {
		var sample sim.Sample
		if err := rows.Scan(&sample.Time,
			&sample.State[model.Wise], &sample.State[model.Risky],
			&sample.State[model.Infectious], &sample.State[model.Recovered],
			&sample.State[model.Dead],
		); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}

	return samples, nil
}

// DeleteRun removes a run and its samples.
func (s *SQLiteRunStore) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

// rowScanner abstracts sql.Row and sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.ScenarioYAML, &rec.Seed,
		&rec.Reason, &rec.Firings, &rec.FinalTime, &createdAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
