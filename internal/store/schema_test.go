package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitSchema(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("getSchemaVersion() error = %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("schema version = %d, want %d", version, SchemaVersion)
	}

	// Idempotent on an already-initialized database.
	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() second call error = %v", err)
	}
}

func TestValidateIntegrity(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if err := ValidateIntegrity(ctx, db); err != nil {
		t.Errorf("ValidateIntegrity() error = %v on a fresh database", err)
	}
}

func TestResetSchema(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, name, scenario_yaml, seed, reason, firings, final_time, created_at)
		VALUES ('run-1', 'test', '', 1, 'extinction', 0, 0, '2026-08-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert error = %v", err)
	}

	if err := ResetSchema(ctx, db); err != nil {
		t.Fatalf("ResetSchema() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("runs table has %d rows after reset, want 0", count)
	}
}

func TestCascadeDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO runs (id, name, scenario_yaml, seed, reason, firings, final_time, created_at)
		VALUES ('run-1', 'test', '', 1, 'extinction', 1, 0.5, '2026-08-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert run error = %v", err)
	}
	if _, err := db.ExecContext(ctx, `
		INSERT INTO samples (run_id, idx, t, w, r, i, s, d)
		VALUES ('run-1', 0, 0, 9, 0, 1, 0, 0), ('run-1', 1, 0.5, 9, 0, 0, 1, 0)`); err != nil {
		t.Fatalf("insert samples error = %v", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM runs WHERE id = 'run-1'`); err != nil {
		t.Fatalf("delete error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE run_id = 'run-1'`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("samples survived run deletion: %d rows, want 0 (cascade)", count)
	}
}
