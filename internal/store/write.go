package store

import (
	"context"
	"fmt"

	"github.com/roach88/tapir/internal/engine"
)

// RecordRun writes a run and its trace entries in a single transaction.
// Either the run and its whole trace land, or nothing does.
//
// The trace may be nil or empty for runs executed without a sink.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, trace []engine.TraceEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, table_hash, start_state, final_state, halted, reason, steps, initial_tape, final_tape)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TableHash, run.StartState, run.FinalState,
		boolToInt(run.Halted), run.Reason, run.Steps, run.InitialTape, run.FinalTape,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, entry := range trace {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trace_entries (run_id, step, state, head, read_symbol, write_symbol, move, next_state)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, entry.Step, string(entry.State), entry.Head,
			entry.Read.String(), entry.Transition.Write.String(),
			entry.Transition.Move.String(), string(entry.Transition.Next),
		)
		if err != nil {
			return fmt.Errorf("insert trace entry %d for run %s: %w", entry.Step, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
