// Package machine defines the shared data model for the interpreter:
// states, symbols, head movements, transitions, the immutable transition
// table, and the tape.
//
// The tape is logically infinite in both directions. It is stored as a
// finite cell slice plus an origin offset that maps logical head positions
// to storage indices. Reads past either edge return the blank symbol
// without growing the storage; only writes extend it. This keeps read-only
// probing from causing unbounded growth.
//
// The package also provides canonical JSON serialization (used for trace
// snapshots and content hashing) and domain-separated table hashing.
// Ordering and identity never depend on wall-clock time.
package machine
