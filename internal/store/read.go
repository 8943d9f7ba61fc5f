package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

const runColumns = "id, table_hash, start_state, final_state, halted, reason, steps, initial_tape, final_tape, created_at"

// ListRuns returns all recorded runs in insertion order.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run by ID. Returns ErrNotFound if it doesn't exist.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// GetTrace returns a run's stored trace entries in step order.
// An empty slice means the run was recorded without a trace.
func (s *Store) GetTrace(ctx context.Context, runID string) ([]TraceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, step, state, head, read_symbol, write_symbol, move, next_state
		FROM trace_entries WHERE run_id = ? ORDER BY step ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("get trace for run %s: %w", runID, err)
	}
	defer rows.Close()

	var trace []TraceRow
	for rows.Next() {
		var tr TraceRow
		if err := rows.Scan(&tr.RunID, &tr.Step, &tr.State, &tr.Head, &tr.Read, &tr.Write, &tr.Move, &tr.Next); err != nil {
			return nil, fmt.Errorf("scan trace entry: %w", err)
		}
		trace = append(trace, tr)
	}
	return trace, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var run RunRecord
	var halted int
	err := s.Scan(&run.ID, &run.TableHash, &run.StartState, &run.FinalState,
		&halted, &run.Reason, &run.Steps, &run.InitialTape, &run.FinalTape, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	run.Halted = halted != 0
	return run, nil
}
