// Package store provides SQLite-backed storage for run history.
//
// Two tables:
//   - runs: one row per completed run (uuid id, table hash, start and
//     final state, stop reason, step count, initial and final tape)
//   - trace_entries: the optional per-step trace of a run, keyed by
//     (run_id, step)
//
// A run and its trace are written in a single transaction, so the
// history never contains a trace without its run or a half-written
// trace. Reads order by rowid (runs) and step (trace entries), never by
// wall-clock time.
//
// The store records the results of runs, not resumable machine state:
// nothing here is ever fed back into an engine.
package store
