// Package audit persists one row per solve attempt to a local SQLite
// database, giving an external orchestrator a durable history it can query
// across solves — supplementing §4.3.5's in-memory diagnostics list with
// the kind of query surface the distilled spec's non-goals (sensitivity
// analysis, rolling-horizon orchestration) don't exclude. Grounded on
// stadam23-Eve-flipper's internal/db (database/sql + modernc.org/sqlite,
// WAL mode, schema-version migration) and corroborated by NikeGunn-tutu's
// use of the same driver for its own run history.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/pinggolf/cryoplanner/internal/planner"
)

// Store is a SQLite-backed planner.AuditStore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and runs the
// schema migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

		CREATE TABLE IF NOT EXISTS solve_runs (
			run_id        TEXT PRIMARY KEY,
			scenario_name TEXT NOT NULL,
			status        TEXT NOT NULL,
			objective     TEXT NOT NULL,
			solve_time_ms INTEGER NOT NULL,
			mip_gap       REAL NOT NULL,
			started_at    TEXT NOT NULL
		);
	`)
	return err
}

// RecordSolve implements planner.AuditStore. The objective is the solver's
// raw float64, which can carry simplex-arithmetic noise past the cent; it
// is rounded through decimal.Decimal before persisting so the audited
// figure is the exact money value a human (or a downstream ledger) would
// expect, the same role decimal.Decimal plays for quantity math in the
// teacher's engine.
func (s *Store) RecordSolve(ctx context.Context, rec planner.SolveRecord) error {
	objective := decimal.NewFromFloat(rec.Objective).Round(2)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solve_runs (run_id, scenario_name, status, objective, solve_time_ms, mip_gap, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.ScenarioName, rec.Status, objective.String(), rec.SolveTimeMS, rec.Gap, rec.StartedAt.Format(time.RFC3339))
	return err
}

// Run is one audited solve attempt as read back from the store. Objective
// is kept as decimal.Decimal rather than converted back to float64 so a
// caller rendering it to a user never reintroduces binary float error.
type Run struct {
	RunID        string
	ScenarioName string
	Status       string
	Objective    decimal.Decimal
	SolveTimeMS  int64
	Gap          float64
	StartedAt    time.Time
}

// Get looks up a single run by id, for the GET /v1/runs/{id} audit lookup.
func (s *Store) Get(ctx context.Context, runID string) (Run, bool, error) {
	var r Run
	var startedAt, objective string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, scenario_name, status, objective, solve_time_ms, mip_gap, started_at
		FROM solve_runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.ScenarioName, &r.Status, &objective, &r.SolveTimeMS, &r.Gap, &startedAt)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	r.Objective, err = decimal.NewFromString(objective)
	if err != nil {
		return Run{}, false, fmt.Errorf("parsing stored objective: %w", err)
	}
	return r, true, nil
}
