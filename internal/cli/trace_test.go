package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCommandStreamsSteps(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "two.tur", "Q0 b Q1 x R\nQ1 b QE y S\n")

	out, err := execute(t, NewTraceCommand(textOpts()), path,
		"--tape", "b", "--halt", "QE")
	require.NoError(t, err)

	// Step 0: head on the first cell.
	assert.Contains(t, out, "b\n^Q0   Q0 b Q1 x R\n")
	// Step 1: head one past the materialized tape.
	assert.Contains(t, out, "x\n ^Q1   Q1 b QE y S\n")
	assert.Contains(t, out, "Final tape:  xy")
	assert.Contains(t, out, "Steps:       2")
}

func TestTraceCommandJSONLines(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "two.tur", "Q0 b Q1 x R\nQ1 b QE y S\n")

	out, err := execute(t, NewTraceCommand(jsonOpts()), path,
		"--tape", "b", "--halt", "QE")
	require.NoError(t, err)

	assert.Contains(t, out, `{"step":0,"state":"Q0","head":0,"read":"b","rule":"Q0 b Q1 x R"}`)
	assert.Contains(t, out, `{"step":1,"state":"Q1","head":1,"read":"b","rule":"Q1 b QE y S"}`)
	assert.Contains(t, out, `"status":"ok"`)
}

func TestTraceCommandStepLimitExitCode(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "spin.tur", "Q0 b Q0 b R\n")

	out, err := execute(t, NewTraceCommand(textOpts()), path, "--max-steps", "3")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "step-limit")
}
