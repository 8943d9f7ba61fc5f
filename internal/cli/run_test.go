package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tapir/internal/store"
)

func TestRunCommandUnaryAddition(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "add.tur", unaryAddTable)

	out, err := execute(t, NewRunCommand(textOpts()), path,
		"--tape", "I#IIII", "--halt", "QE")
	require.NoError(t, err)

	assert.Contains(t, out, "Final tape:  IIIIIbb")
	assert.Contains(t, out, "Trimmed:     IIIII")
	assert.Contains(t, out, "Final state: QE")
	assert.Contains(t, out, "Halted:      true")
	assert.Contains(t, out, "Steps:       8")
}

func TestRunCommandJSONOutput(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "add.tur", unaryAddTable)

	out, err := execute(t, NewRunCommand(jsonOpts()), path,
		"--tape", "I#IIII", "--halt", "QE")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "IIIIIbb", data["final_tape"])
	assert.Equal(t, "IIIII", data["trimmed_tape"])
	assert.Equal(t, "QE", data["final_state"])
	assert.Equal(t, true, data["halted"])
	assert.Equal(t, float64(8), data["steps"])
}

func TestRunCommandStepLimit(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "spin.tur", "Q0 b Q0 b R\n")

	out, err := execute(t, NewRunCommand(textOpts()), path, "--max-steps", "10")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "step-limit")
	// The partial result is still printed.
	assert.Contains(t, out, "Halted:      false")
	assert.Contains(t, out, "Steps:       10")
}

func TestRunCommandLoopDetection(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "still.tur", "Q0 b Q0 b S\n")

	out, err := execute(t, NewRunCommand(textOpts()), path,
		"--tape", "b", "--detect-loops")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "loop-detected")
}

func TestRunCommandInvalidStartState(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "add.tur", unaryAddTable)

	_, err := execute(t, NewRunCommand(textOpts()), path, "--start", "QX")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeStartState)
}

func TestRunCommandMissingTable(t *testing.T) {
	_, err := execute(t, NewRunCommand(textOpts()))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandDefaultStartState(t *testing.T) {
	// Without --start the first rule's current state is used.
	path := writeTempFile(t, t.TempDir(), "two.tur", "Q0 b Q1 x R\nQ1 b QE y S\n")

	out, err := execute(t, NewRunCommand(textOpts()), path, "--halt", "QE")
	require.NoError(t, err)
	assert.Contains(t, out, "Final tape:  xy")
	assert.Contains(t, out, "Steps:       2")
}

func TestRunCommandManifest(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "add.tur", unaryAddTable)
	manifest := writeTempFile(t, dir, "run.yaml", strings.Join([]string{
		"table: add.tur",
		"tape: 'I#IIII'",
		"halting_states: [QE]",
	}, "\n"))

	out, err := execute(t, NewRunCommand(textOpts()), "--manifest", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Final tape:  IIIIIbb")
	assert.Contains(t, out, "Steps:       8")
}

func TestRunCommandRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	tablePath := writeTempFile(t, dir, "add.tur", unaryAddTable)
	dbPath := filepath.Join(dir, "history.db")

	out, err := execute(t, NewRunCommand(textOpts()), tablePath,
		"--tape", "I#IIII", "--halt", "QE", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run ID:")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "Q0", run.StartState)
	assert.Equal(t, "QE", run.FinalState)
	assert.Equal(t, "I#IIII", run.InitialTape)
	assert.Equal(t, "IIIIIbb", run.FinalTape)
	assert.Equal(t, 8, run.Steps)
	assert.True(t, run.Halted)

	// Recording a run always captures its trace.
	trace, err := st.GetTrace(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Len(t, trace, 8)
}
