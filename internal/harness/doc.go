// Package harness runs conformance scenarios: YAML files that name a
// transition table, an initial tape, and the run parameters, plus
// expectations on the terminal result.
//
// Scenarios execute fully in-process with a trace collector attached, so
// a scenario's trace can also be golden-compared (see golden.go) to pin
// down the exact step-by-step behavior, not just the final tape.
//
// Scenario runs are deterministic: the same scenario always produces the
// same trace, which is what makes golden comparison sound.
package harness
