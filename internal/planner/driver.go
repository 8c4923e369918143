// Package planner implements the objective-and-solver driver (C4, §4.3.4):
// it ties the network model (C1), sparse indices (C2), assembled constraints
// (C3), and the solution extractor (C5) into the single solve(...) entry
// point an external orchestrator calls, plus the metrics and audit-trail
// side effects documented in SPEC_FULL §4.4.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/diagnostics"
	"github.com/pinggolf/cryoplanner/internal/extract"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/objective"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// AuditStore persists one row per solve attempt. internal/audit's SQLite
// implementation is the one shipped in this repository; Driver depends only
// on this interface so the solve path never imports database/sql directly.
type AuditStore interface {
	RecordSolve(ctx context.Context, rec SolveRecord) error
}

// SolveRecord is one audited solve attempt.
type SolveRecord struct {
	RunID        string
	ScenarioName string
	Status       string
	Objective    float64
	SolveTimeMS  int64
	Gap          float64
	StartedAt    time.Time
}

// Driver orchestrates a single solve end to end. A Driver owns no solver
// model state of its own between calls — it is safe to reuse across
// scenarios sharing the same backend, audit store, and diagnostics bus.
type Driver struct {
	Solver      solver.Solver
	Audit       AuditStore // nil disables audit persistence
	Diagnostics *diagnostics.Bus
	Logger      zerolog.Logger
}

// NewDriver returns a Driver around the given solver backend with an empty
// diagnostics bus and the global zerolog logger. Callers register audit
// stores and additional diagnostic sinks directly on the returned value.
func NewDriver(backend solver.Solver) *Driver {
	return &Driver{
		Solver:      backend,
		Diagnostics: diagnostics.NewBus(),
		Logger:      log.Logger,
	}
}

func strategyFor(mode index.Mode) index.ShelfLifeStrategy {
	switch mode {
	case index.SlidingWindow:
		return index.SlidingWindowStrategy{}
	default:
		return index.AgeCohortStrategy{}
	}
}

// Solve runs one complete solve: C1 validation, C2 index construction, C3
// assembly, the objective, the configured backend, and C5 extraction.
//
// A ConfigurationError from network.Build is returned directly, never
// wrapped in a Result, per §7's propagation policy ("ConfigurationError is
// surfaced to the caller ... never during solve"). Everything past that
// point — Infeasible, TimeLimit, Unbounded, solver Error — comes back as
// data inside the returned *extract.Result, never as an error.
func (d *Driver) Solve(ctx context.Context, scenario entities.Scenario, cfg constraints.Config, params solver.Params) (*extract.Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	m, err := network.Build(scenario)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(ctx, m, strategyFor(cfg.Mode))
	if err != nil {
		return nil, fmt.Errorf("building sparse indices: %w", err)
	}

	problem, vars, buildDiag := constraints.Assemble(m, idx, cfg)
	problem.Objective = objective.Build(m, idx, vars)

	for _, msg := range buildDiag {
		d.emit(diagnostics.Warning, msg, map[string]any{"run_id": runID})
	}

	d.checkWarmStart(problem, params, runID)

	res := d.Solver.Solve(ctx, problem, params)

	solvesTotal.WithLabelValues(res.Status.String()).Inc()
	solveDuration.Observe(res.SolveTime.Seconds())
	solveMIPGap.Set(res.Gap)
	solveObjective.Set(res.Objective)

	result := extract.Extract(m, idx, vars, res, buildDiag)

	d.Logger.Info().
		Str("run_id", runID).
		Str("scenario", scenario.Name).
		Str("status", res.Status.String()).
		Float64("objective", res.Objective).
		Dur("solve_time", res.SolveTime).
		Float64("gap", res.Gap).
		Msg("solve completed")

	d.emitShortageWarnings(result, runID)

	if d.Audit != nil {
		rec := SolveRecord{
			RunID: runID, ScenarioName: scenario.Name, Status: res.Status.String(),
			Objective: res.Objective, SolveTimeMS: res.SolveTime.Milliseconds(),
			Gap: res.Gap, StartedAt: started,
		}
		if err := d.Audit.RecordSolve(ctx, rec); err != nil {
			d.emit(diagnostics.Warning, "audit write failed: "+err.Error(), map[string]any{"run_id": runID})
		}
	}

	return result, nil
}

// checkWarmStart logs (but never rejects) warmstart hints referencing an
// out-of-range variable index, per the "log warning, continue" propagation
// rule for this condition (§7 / Design Notes "Warmstart is solver-
// dependent"). Hints are still passed to the solver unconditionally
// afterward — the solver itself may ignore them.
func (d *Driver) checkWarmStart(p solver.Problem, params solver.Params, runID string) {
	for varIdx := range params.WarmStart {
		if varIdx < 0 || varIdx >= len(p.Vars) {
			d.emit(diagnostics.Warning,
				fmt.Sprintf("warmstart hint references unknown variable index %d", varIdx),
				map[string]any{"run_id": runID})
		}
	}
}

func (d *Driver) emitShortageWarnings(result *extract.Result, runID string) {
	var shortageCells int
	for _, o := range result.DemandOutcomes {
		if o.Shortage > 0 {
			shortageCells++
		}
	}
	if shortageCells > 0 {
		d.emit(diagnostics.Warning,
			fmt.Sprintf("shortage penalty triggered at %d demand cells", shortageCells),
			map[string]any{"run_id": runID})
	}
}

func (d *Driver) emit(sev diagnostics.Severity, msg string, fields map[string]any) {
	if d.Diagnostics == nil {
		return
	}
	_ = d.Diagnostics.Emit(diagnostics.NewDiagnostic(sev, msg, fields))
}
