package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tapir/internal/engine"
	"github.com/roach88/tapir/internal/machine"
)

// TraceSnapshot captures the complete trace of a scenario execution.
// Serialized with canonical JSON so golden comparison is byte-exact.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []engine.TraceEntry
}

// toCanonicalMap converts the snapshot to the plain maps and slices that
// machine.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		traceList[i] = map[string]any{
			"step":       e.Step,
			"state":      string(e.State),
			"head":       e.Head,
			"read":       e.Read.String(),
			"tape":       e.Tape,
			"write":      e.Transition.Write.String(),
			"move":       e.Transition.Move.String(),
			"next_state": string(e.Transition.Next),
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails; expectation and golden
// mismatches fail the test through t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, failure := range Verify(result) {
		t.Errorf("scenario %s: %s", scenario.Name, failure)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result's trace against the
// golden file for scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}
	traceJSON, err := machine.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
