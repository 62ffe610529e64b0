package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSQLiteRunStore_CreatesParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "runs.db")

	store, err := NewSQLiteRunStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestSQLiteRunStore_Reopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "runs.db")
	ctx := context.Background()

	store, err := NewSQLiteRunStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() error = %v", err)
	}
	if err := store.SaveRun(ctx, testRecord("run-1"), testSamples()); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening runs InitSchema against the existing database and must
	// preserve the saved run.
	reopened, err := NewSQLiteRunStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRunStore() on existing db error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() after reopen error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRun() after reopen returned nil, run was lost")
	}

	samples, err := reopened.Samples(ctx, "run-1")
	if err != nil {
		t.Fatalf("Samples() after reopen error = %v", err)
	}
	if len(samples) != len(testSamples()) {
		t.Errorf("Samples() after reopen returned %d samples, want %d", len(samples), len(testSamples()))
	}
}
