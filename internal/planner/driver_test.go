package planner

import (
	"context"
	"testing"
	"time"

	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/diagnostics"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// fakeSolver returns a fixed Result without doing any real solving, so
// Driver.Solve's wiring can be exercised independently of the reference
// backend.
type fakeSolver struct {
	result solver.Result
}

func (f fakeSolver) Solve(ctx context.Context, p solver.Problem, params solver.Params) solver.Result {
	return f.result
}

type recordingAuditStore struct {
	records []SolveRecord
	err     error
}

func (r *recordingAuditStore) RecordSolve(ctx context.Context, rec SolveRecord) error {
	r.records = append(r.records, rec)
	return r.err
}

type collectingSink struct {
	diagnostics []diagnostics.Diagnostic
}

func (c *collectingSink) Publish(d diagnostics.Diagnostic) error {
	c.diagnostics = append(c.diagnostics, d)
	return nil
}

func emptyScenario() entities.Scenario {
	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	return entities.Scenario{
		Name:    "empty",
		Horizon: entities.Horizon{Start: start, End: start},
	}
}

func TestDriver_Solve_RecordsAuditOnSuccess(t *testing.T) {
	backend := fakeSolver{result: solver.Result{
		Status:    solver.Optimal,
		Objective: 42,
		SolveTime: 10 * time.Millisecond,
		Gap:       0,
		Values:    []float64{},
	}}

	driver := NewDriver(backend)
	audit := &recordingAuditStore{}
	driver.Audit = audit

	result, err := driver.Solve(context.Background(), emptyScenario(), constraints.Config{}, solver.Params{})
	if err != nil {
		t.Fatalf("Solve returned unexpected error: %v", err)
	}
	if result.Status != solver.Optimal {
		t.Errorf("Status = %v, want Optimal", result.Status)
	}

	if len(audit.records) != 1 {
		t.Fatalf("expected exactly one audit record, got %d", len(audit.records))
	}
	rec := audit.records[0]
	if rec.ScenarioName != "empty" {
		t.Errorf("ScenarioName = %q, want %q", rec.ScenarioName, "empty")
	}
	if rec.Objective != 42 {
		t.Errorf("Objective = %v, want 42", rec.Objective)
	}
	if rec.RunID == "" {
		t.Error("expected a non-empty run id")
	}
}

func TestDriver_Solve_WarnsOnOutOfRangeWarmStart(t *testing.T) {
	backend := fakeSolver{result: solver.Result{Status: solver.Optimal, Values: []float64{}}}
	driver := NewDriver(backend)
	sink := &collectingSink{}
	driver.Diagnostics.Register(sink)

	params := solver.Params{WarmStart: map[int]float64{999: 1}}
	_, err := driver.Solve(context.Background(), emptyScenario(), constraints.Config{}, params)
	if err != nil {
		t.Fatalf("Solve returned unexpected error: %v", err)
	}

	var sawWarmstartWarning bool
	for _, d := range sink.diagnostics {
		if d.Severity == diagnostics.Warning {
			sawWarmstartWarning = true
		}
	}
	if !sawWarmstartWarning {
		t.Error("expected a warning diagnostic for the out-of-range warmstart hint")
	}
}

func TestDriver_Solve_ConfigurationErrorPropagatesDirectly(t *testing.T) {
	backend := fakeSolver{result: solver.Result{Status: solver.Optimal}}
	driver := NewDriver(backend)

	badScenario := entities.Scenario{
		Name: "bad",
		Horizon: entities.Horizon{
			Start: time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), // end before start
		},
	}

	_, err := driver.Solve(context.Background(), badScenario, constraints.Config{}, solver.Params{})
	if err == nil {
		t.Fatal("expected an error for an invalid scenario")
	}
	if !entities.IsConfigurationError(err) {
		t.Errorf("expected a ConfigurationError, got %T: %v", err, err)
	}
}
