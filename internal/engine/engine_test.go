package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tapir/internal/machine"
	"github.com/roach88/tapir/internal/parser"
)

const unaryAddTable = `Q0 I Q0 I R
Q0 # Q1 I R
Q1 I Q1 I R
Q1 b Q2 b L
Q2 I QE b S
`

func mustParse(t *testing.T, text string) *machine.Table {
	t.Helper()
	table, err := parser.Parse(text)
	require.NoError(t, err)
	return table
}

// Unary addition of 1 and 4: the machine replaces the separator with a
// mark, runs to the end, and erases the last mark. The written blank at
// the right edge materializes, so the full tape keeps its trailing
// blanks; trimming yields the five-mark sum.
func TestRunUnaryAddition(t *testing.T) {
	eng := New(mustParse(t, unaryAddTable), WithHaltingStates("QE"))

	res, err := eng.Run(machine.ParseTape("I#IIII"), "Q0")
	require.NoError(t, err)

	assert.Equal(t, "IIIIIbb", machine.SymbolsString(res.Tape))
	assert.Equal(t, "IIIII", machine.SymbolsString(machine.TrimBlanks(res.Tape)))
	assert.Equal(t, machine.State("QE"), res.FinalState)
	assert.True(t, res.Halted)
	assert.Equal(t, ReasonHaltingState, res.Reason)
	assert.Equal(t, 8, res.Steps)
}

func TestRunStepLimit(t *testing.T) {
	eng := New(mustParse(t, "Q0 b Q0 b R\n"), WithMaxSteps(100))

	res, err := eng.Run(nil, "Q0")
	require.NoError(t, err)

	assert.False(t, res.Halted)
	assert.Equal(t, ReasonStepLimit, res.Reason)
	assert.Equal(t, 100, res.Steps)
	assert.Equal(t, machine.State("Q0"), res.FinalState)
}

// No rule for the symbol under the head stops the run normally, even at
// step 0, as long as the table knows the state.
func TestRunNoTransitionAtStepZero(t *testing.T) {
	// Q0 appears only as a next state; no rule reads blank in Q0.
	eng := New(mustParse(t, "Q1 I Q0 I R\n"))

	res, err := eng.Run(machine.ParseTape("bbb"), "Q0")
	require.NoError(t, err)

	assert.True(t, res.Halted)
	assert.Equal(t, ReasonNoTransition, res.Reason)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, "bbb", machine.SymbolsString(res.Tape))
}

func TestRunInvalidStartState(t *testing.T) {
	eng := New(mustParse(t, "Q1 I Q2 I R\n"))

	res, err := eng.Run(machine.ParseTape("I"), "QX")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsInvalidStartState(err))

	var ise *InvalidStartStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, machine.State("QX"), ise.State)
	assert.Contains(t, err.Error(), `"QX"`)
}

func TestRunHaltingStartState(t *testing.T) {
	eng := New(mustParse(t, "Q0 I Q1 I R\n"), WithHaltingStates("Q0"))

	res, err := eng.Run(machine.ParseTape("I"), "Q0")
	require.NoError(t, err)

	assert.True(t, res.Halted)
	assert.Equal(t, ReasonHaltingState, res.Reason)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, "I", machine.SymbolsString(res.Tape))
}

// A halting state not known to the table is still a valid start: the
// halting predicate is consulted before the table is.
func TestRunHaltingStartStateOutsideTable(t *testing.T) {
	eng := New(mustParse(t, "Q0 I Q1 I R\n"), WithHaltingStates("DONE"))

	res, err := eng.Run(nil, "DONE")
	require.NoError(t, err)
	assert.True(t, res.Halted)
	assert.Equal(t, 0, res.Steps)
}

func TestRunTraceCollector(t *testing.T) {
	collector := &Collector{}
	eng := New(mustParse(t, "Q0 b Q1 x R\nQ1 b QE y S\n"),
		WithHaltingStates("QE"),
		WithTraceSink(collector),
	)

	res, err := eng.Run(machine.ParseTape("b"), "Q0")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, "xy", machine.SymbolsString(res.Tape))

	entries := collector.Entries()
	require.Equal(t, 2, collector.Len())

	first := entries[0]
	assert.Equal(t, 0, first.Step)
	assert.Equal(t, machine.State("Q0"), first.State)
	assert.Equal(t, 0, first.Head)
	assert.Equal(t, machine.Blank, first.Read)
	assert.Equal(t, "b", first.Tape)
	assert.Equal(t, 0, first.Column)
	assert.Equal(t, machine.State("Q1"), first.Transition.Next)

	second := entries[1]
	assert.Equal(t, 1, second.Step)
	assert.Equal(t, machine.State("Q1"), second.State)
	assert.Equal(t, 1, second.Head)
	// The head sits past the write from step 0, so it reads blank off a
	// one-cell tape.
	assert.Equal(t, machine.Blank, second.Read)
	assert.Equal(t, "x", second.Tape)
	assert.Equal(t, 1, second.Column)
	assert.Equal(t, machine.Symbol('y'), second.Transition.Write)
}

func TestRunSinkFunc(t *testing.T) {
	var steps []int
	eng := New(mustParse(t, "Q0 b Q0 b R\n"),
		WithMaxSteps(3),
		WithTraceSink(SinkFunc(func(e TraceEntry) { steps = append(steps, e.Step) })),
	)

	_, err := eng.Run(nil, "Q0")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, steps)
}

func TestRunLoopDetection(t *testing.T) {
	eng := New(mustParse(t, "Q0 b Q0 b S\n"), WithLoopDetection())

	res, err := eng.Run(machine.ParseTape("b"), "Q0")
	require.NoError(t, err)

	// Writing blank in place repeats the configuration after one step.
	assert.False(t, res.Halted)
	assert.Equal(t, ReasonLoopDetected, res.Reason)
	assert.Equal(t, 1, res.Steps)
}

// The right-marching machine never repeats a configuration, so loop
// detection stays silent and the step limit fires instead.
func TestRunLoopDetectionDoesNotFireOnProgress(t *testing.T) {
	eng := New(mustParse(t, "Q0 b Q0 b R\n"), WithLoopDetection(), WithMaxSteps(20))

	res, err := eng.Run(nil, "Q0")
	require.NoError(t, err)
	assert.Equal(t, ReasonStepLimit, res.Reason)
	assert.Equal(t, 20, res.Steps)
}

func TestRunDeterministic(t *testing.T) {
	table := mustParse(t, unaryAddTable)

	run := func() (*Result, []TraceEntry) {
		collector := &Collector{}
		eng := New(table, WithHaltingStates("QE"), WithTraceSink(collector))
		res, err := eng.Run(machine.ParseTape("I#IIII"), "Q0")
		require.NoError(t, err)
		return res, collector.Entries()
	}

	res1, trace1 := run()
	res2, trace2 := run()

	assert.Equal(t, res1, res2)
	assert.Equal(t, trace1, trace2)
}

func TestRunHaltedPredicatePostTransition(t *testing.T) {
	// Q1 is halting; the run must stop the moment the transition lands
	// there, not one lookup later.
	eng := New(mustParse(t, "Q0 b Q1 x R\nQ1 b Q0 y R\n"), WithHaltingStates("Q1"))

	res, err := eng.Run(nil, "Q0")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, machine.State("Q1"), res.FinalState)
	assert.Equal(t, "x", machine.SymbolsString(res.Tape))
}

func TestLoopDetectorVisit(t *testing.T) {
	d := NewLoopDetector()
	tape := machine.NewTape(machine.ParseTape("Ib"))

	repeated, err := d.Visit("Q0", 0, tape)
	require.NoError(t, err)
	assert.False(t, repeated)

	repeated, err = d.Visit("Q0", 1, tape)
	require.NoError(t, err)
	assert.False(t, repeated)

	repeated, err = d.Visit("Q0", 0, tape)
	require.NoError(t, err)
	assert.True(t, repeated)

	assert.Equal(t, 2, d.Visited())
}
