// Package engine executes a transition table against a tape.
//
// One Engine holds the immutable run configuration: the table, the
// halting predicate, the optional step limit, the optional trace sink,
// and whether loop detection is enabled. Run creates the tape, walks the
// machine, and returns the terminal Result.
//
// Execution is single-threaded and fully synchronous with no suspension
// points. A run owns its tape exclusively; the table is never mutated, so
// one Engine may serve concurrent Run calls on separate tapes without
// locking. Each step applies its write, state change, and head move as
// one indivisible unit - the tape is never left mid-step.
//
// A run ends in exactly one of four ways:
//   - the halting predicate accepted the current state (Halted)
//   - no transition matched the (state, symbol) pair (Halted - a normal
//     terminal condition of the model, not an error)
//   - the configured step limit was reached (not Halted)
//   - loop detection proved the machine can never halt (not Halted)
//
// The general halting problem is undecidable; the step limit is the
// safety valve that keeps a test or interactive run from looping forever.
package engine
