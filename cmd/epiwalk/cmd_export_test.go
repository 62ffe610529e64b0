package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nvandessel/epiwalk/internal/model"
	"github.com/nvandessel/epiwalk/internal/sim"
)

func TestWriteCSV(t *testing.T) {
	samples := []sim.Sample{
		{Time: 0, State: model.Species{model.Wise: 149, model.Risky: 50, model.Infectious: 1}},
		{Time: 0.125, State: model.Species{model.Wise: 148, model.Risky: 50, model.Infectious: 2}},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, samples); err != nil {
		t.Fatalf("writeCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("writeCSV() produced %d lines, want header + 2 rows", len(lines))
	}
	if lines[0] != "t,w,r,i,s,d" {
		t.Errorf("header = %q, want t,w,r,i,s,d", lines[0])
	}
	if lines[1] != "0,149,50,1,0,0" {
		t.Errorf("row 1 = %q, want 0,149,50,1,0,0", lines[1])
	}
	if lines[2] != "0.125,148,50,2,0,0" {
		t.Errorf("row 2 = %q, want 0.125,148,50,2,0,0", lines[2])
	}
}

func TestExportCmd_NotFound(t *testing.T) {
	isolateHome(t)
	dbPath := t.TempDir() + "/runs.db"

	_, err := execute(t, newExportCmd(), "export", "run-missing", "--db", dbPath)
	if err == nil {
		t.Fatal("export of unknown run expected error, got nil")
	}
	if !strings.Contains(err.Error(), "run not found") {
		t.Errorf("export error = %q, want run-not-found", err)
	}
}

func TestExportCmd_BadFormat(t *testing.T) {
	isolateHome(t)
	dbPath := t.TempDir() + "/runs.db"

	_, err := execute(t, newExportCmd(), "export", "run-1", "--db", dbPath, "--format", "xml")
	if err == nil {
		t.Fatal("export with unknown format expected error, got nil")
	}
}
