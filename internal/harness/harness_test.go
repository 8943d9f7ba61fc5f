package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tapir/internal/machine"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return s
}

func TestLoadScenario(t *testing.T) {
	s := loadTestScenario(t, "unary-addition.yaml")

	assert.Equal(t, "unary-addition", s.Name)
	assert.Equal(t, filepath.Join("testdata", "tables", "unary_add.tur"), s.Table)
	assert.Equal(t, "I#IIII", s.Tape)
	assert.Equal(t, []string{"QE"}, s.HaltingStates)
	assert.Equal(t, 1000, s.MaxSteps)
	assert.Equal(t, "IIIIIbb", s.Expect.Tape)
	require.NotNil(t, s.Expect.Steps)
	assert.Equal(t, 8, *s.Expect.Steps)
}

func TestLoadScenarioMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table: x.tur\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenarioMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table is required")
}

func TestRunScenarioUnaryAddition(t *testing.T) {
	s := loadTestScenario(t, "unary-addition.yaml")

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, Verify(result))
	assert.Len(t, result.Trace, 8)
}

func TestRunScenarioStepLimit(t *testing.T) {
	s := loadTestScenario(t, "step-limit-spin.yaml")

	result, err := Run(s)
	require.NoError(t, err)
	assert.Empty(t, Verify(result))
	assert.False(t, result.Run.Halted)
}

func TestVerifyReportsMismatches(t *testing.T) {
	s := loadTestScenario(t, "two-step-halt.yaml")

	result, err := Run(s)
	require.NoError(t, err)
	require.Empty(t, Verify(result))

	// A doctored expectation fails with one message per wrong field.
	s.Expect.Tape = "zz"
	s.Expect.State = "QX"
	failures := Verify(result)
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], `final tape = "xy", want "zz"`)
	assert.Contains(t, failures[1], `final state = "QE", want "QX"`)
}

func TestRunScenarioMissingTableFile(t *testing.T) {
	s := &Scenario{Name: "broken", Table: filepath.Join(t.TempDir(), "nope.tur")}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read table")
}

func TestGoldenTwoStepHalt(t *testing.T) {
	s := loadTestScenario(t, "two-step-halt.yaml")
	require.NoError(t, RunWithGolden(t, s))
}

func TestTraceSnapshotCanonical(t *testing.T) {
	s := loadTestScenario(t, "two-step-halt.yaml")

	result, err := Run(s)
	require.NoError(t, err)

	snapshot := TraceSnapshot{ScenarioName: s.Name, Trace: result.Trace}
	first, err := machine.MarshalCanonical(snapshot.toCanonicalMap())
	require.NoError(t, err)
	again, err := machine.MarshalCanonical(snapshot.toCanonicalMap())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again))
}
