package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pinggolf/cryoplanner/internal/planner"
)

func TestStore_RecordAndGetRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	rec := planner.SolveRecord{
		RunID:        "run-1",
		ScenarioName: "week-1",
		Status:       "optimal",
		Objective:    1234.567,
		SolveTimeMS:  4200,
		Gap:          0.008,
		StartedAt:    time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
	}

	ctx := context.Background()
	if err := store.RecordSolve(ctx, rec); err != nil {
		t.Fatalf("RecordSolve: %v", err)
	}

	run, found, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected run-1 to be found")
	}

	if run.ScenarioName != rec.ScenarioName {
		t.Errorf("ScenarioName = %q, want %q", run.ScenarioName, rec.ScenarioName)
	}
	if run.Status != rec.Status {
		t.Errorf("Status = %q, want %q", run.Status, rec.Status)
	}
	if got := run.Objective.InexactFloat64(); got < 1234.56 || got > 1234.58 {
		t.Errorf("Objective = %v, want ~1234.57", got)
	}
	if !run.StartedAt.Equal(rec.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, rec.StartedAt)
	}
}

func TestStore_GetMissingRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, found, err := store.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected no run to be found")
	}
}
