package engine

import "github.com/roach88/tapir/internal/machine"

// LoopDetector tracks every machine configuration a run has visited.
//
// A configuration is (state, head position, materialized tape). The
// machine is deterministic, so revisiting a configuration exactly means
// the run has entered a cycle it can never leave - a proof of
// non-termination, unlike the step limit, which is only a budget.
//
// Detection is conservative: only exact repeats are reported. A machine
// that marches right over blank tape forever never repeats a
// configuration (the head position keeps growing) and is caught by the
// step limit instead.
//
// One detector serves one run; runs never share detectors.
type LoopDetector struct {
	seen map[string]bool
}

// NewLoopDetector creates an empty detector.
func NewLoopDetector() *LoopDetector {
	return &LoopDetector{seen: make(map[string]bool)}
}

// Visit records the configuration and reports whether it was already
// seen in this run.
func (d *LoopDetector) Visit(state machine.State, head int, tape *machine.Tape) (bool, error) {
	h, err := machine.ConfigHash(state, head, tape)
	if err != nil {
		return false, err
	}
	if d.seen[h] {
		return true, nil
	}
	d.seen[h] = true
	return false, nil
}

// Visited returns the number of distinct configurations seen.
func (d *LoopDetector) Visited() int {
	return len(d.seen)
}
