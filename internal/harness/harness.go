package harness

import (
	"fmt"
	"os"

	"github.com/roach88/tapir/internal/engine"
	"github.com/roach88/tapir/internal/machine"
	"github.com/roach88/tapir/internal/parser"
)

// Result is the outcome of executing one scenario.
type Result struct {
	Scenario *Scenario
	Run      *engine.Result
	Trace    []engine.TraceEntry
}

// Run executes a scenario and returns its result. The error covers
// infrastructure failures (unreadable table, malformed text, bad start
// state); expectation mismatches are reported by Verify, not here.
func Run(scenario *Scenario) (*Result, error) {
	text, err := os.ReadFile(scenario.Table)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: read table: %w", scenario.Name, err)
	}
	table, err := parser.Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: parse table: %w", scenario.Name, err)
	}

	start := machine.State(scenario.StartState)
	if start == "" {
		start = table.Start()
	}

	halting := make([]machine.State, 0, len(scenario.HaltingStates))
	for _, h := range scenario.HaltingStates {
		halting = append(halting, machine.State(h))
	}

	collector := &engine.Collector{}
	opts := []engine.Option{
		engine.WithHaltingStates(halting...),
		engine.WithTraceSink(collector),
	}
	if scenario.MaxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(scenario.MaxSteps))
	}
	if scenario.DetectLoops {
		opts = append(opts, engine.WithLoopDetection())
	}

	eng := engine.New(table, opts...)
	res, err := eng.Run(machine.ParseTape(scenario.Tape), start)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Result{
		Scenario: scenario,
		Run:      res,
		Trace:    collector.Entries(),
	}, nil
}

// Verify checks the scenario's expectations against the result and
// returns one message per failed expectation. An empty slice means the
// scenario passed.
func Verify(result *Result) []string {
	var failures []string
	expect := result.Scenario.Expect
	run := result.Run

	finalTape := machine.SymbolsString(run.Tape)
	if expect.Tape != "" && finalTape != expect.Tape {
		failures = append(failures, fmt.Sprintf("final tape = %q, want %q", finalTape, expect.Tape))
	}

	trimmed := machine.SymbolsString(machine.TrimBlanks(run.Tape))
	if expect.Trimmed != "" && trimmed != expect.Trimmed {
		failures = append(failures, fmt.Sprintf("trimmed tape = %q, want %q", trimmed, expect.Trimmed))
	}

	if expect.State != "" && string(run.FinalState) != expect.State {
		failures = append(failures, fmt.Sprintf("final state = %q, want %q", run.FinalState, expect.State))
	}

	if expect.Reason != "" && string(run.Reason) != expect.Reason {
		failures = append(failures, fmt.Sprintf("stop reason = %q, want %q", run.Reason, expect.Reason))
	}

	if expect.Halted != nil && run.Halted != *expect.Halted {
		failures = append(failures, fmt.Sprintf("halted = %t, want %t", run.Halted, *expect.Halted))
	}

	if expect.Steps != nil && run.Steps != *expect.Steps {
		failures = append(failures, fmt.Sprintf("steps = %d, want %d", run.Steps, *expect.Steps))
	}

	return failures
}
