package engine

import (
	"log/slog"

	"github.com/roach88/tapir/internal/machine"
)

// StopReason says why a run ended.
type StopReason string

const (
	// ReasonHaltingState: the halting predicate accepted the current state.
	ReasonHaltingState StopReason = "halting-state"

	// ReasonNoTransition: no rule matched the (state, symbol) pair. A
	// normal terminal condition for this computational model.
	ReasonNoTransition StopReason = "no-transition"

	// ReasonStepLimit: the configured step ceiling was reached.
	ReasonStepLimit StopReason = "step-limit"

	// ReasonLoopDetected: an exact machine configuration repeated, proving
	// the run can never halt. Only reported with WithLoopDetection.
	ReasonLoopDetected StopReason = "loop-detected"
)

// Result is the terminal outcome of one run. All stop reasons return the
// tape accumulated so far; only the caller distinguishes "logically
// complete" from "cut off".
type Result struct {
	// Tape is the materialized final tape.
	Tape []machine.Symbol

	// FinalState is the machine state when the run stopped.
	FinalState machine.State

	// Halted is true for halting-state and no-transition stops, false
	// when the run was cut off by the step limit or loop detection.
	Halted bool

	// Reason says which terminal condition ended the run.
	Reason StopReason

	// Steps is the number of transitions applied.
	Steps int
}

// Engine executes one transition table. The configuration is immutable
// after New, so a single Engine may back concurrent runs on separate
// tapes.
type Engine struct {
	table       *machine.Table
	halting     func(machine.State) bool
	maxSteps    int
	sink        TraceSink
	detectLoops bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps sets the non-termination guard: the run stops with
// Halted=false once this many steps have been applied. Zero (the default)
// means no ceiling.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// WithHaltingStates configures the halting predicate as exact membership
// in the given label set.
func WithHaltingStates(states ...machine.State) Option {
	set := make(map[machine.State]bool, len(states))
	for _, s := range states {
		set[s] = true
	}
	return func(e *Engine) {
		e.halting = func(s machine.State) bool { return set[s] }
	}
}

// WithHaltingPredicate configures an arbitrary halting predicate. It is
// consulted once per step, on the post-transition state.
func WithHaltingPredicate(pred func(machine.State) bool) Option {
	return func(e *Engine) {
		e.halting = pred
	}
}

// WithTraceSink installs a per-step trace sink. The sink is invoked once
// per applied transition with the pre-transition configuration; runs
// without a sink pay no trace overhead.
func WithTraceSink(sink TraceSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithLoopDetection records a hash of every machine configuration and
// stops the run with ReasonLoopDetected when one repeats exactly. An
// exact repeat is a proof of non-termination; the detector never stops a
// run that could still halt.
func WithLoopDetection() Option {
	return func(e *Engine) {
		e.detectLoops = true
	}
}

// New creates an Engine for the given table. With no options the engine
// has no halting states, no step limit, no trace sink, and no loop
// detection: it runs until no transition matches.
func New(table *machine.Table, opts ...Option) *Engine {
	e := &Engine{
		table:   table,
		halting: func(machine.State) bool { return false },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSteps returns the configured step ceiling (0 = none).
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Run executes the table against the initial tape from the given start
// state, head at position 0.
//
// A start state the table does not know (appears on neither side of any
// rule) and the halting predicate does not accept is a misconfiguration
// and fails with *InvalidStartStateError. A known state with no rule for
// the symbol under the head halts normally at step 0.
func (e *Engine) Run(initial []machine.Symbol, start machine.State) (*Result, error) {
	tape := machine.NewTape(initial)
	state := start
	head := 0
	steps := 0

	slog.Debug("run starting",
		"start_state", start,
		"tape", tape.String(),
		"rules", e.table.Len(),
		"max_steps", e.maxSteps,
	)

	if e.halting(state) {
		// The start state itself may be halting; no step is taken.
		return e.finish(tape, state, true, ReasonHaltingState, 0), nil
	}
	if _, ok := e.table.Lookup(state, tape.Read(head)); !ok && !e.table.Contains(state) {
		return nil, &InvalidStartStateError{State: start}
	}

	var loops *LoopDetector
	if e.detectLoops {
		loops = NewLoopDetector()
	}

	for {
		if e.maxSteps > 0 && steps >= e.maxSteps {
			return e.finish(tape, state, false, ReasonStepLimit, steps), nil
		}

		if loops != nil {
			repeated, err := loops.Visit(state, head, tape)
			if err != nil {
				return nil, err
			}
			if repeated {
				return e.finish(tape, state, false, ReasonLoopDetected, steps), nil
			}
		}

		read := tape.Read(head)
		tr, ok := e.table.Lookup(state, read)
		if !ok {
			return e.finish(tape, state, true, ReasonNoTransition, steps), nil
		}

		if e.sink != nil {
			e.sink.Record(TraceEntry{
				Step:       steps,
				State:      state,
				Head:       head,
				Read:       read,
				Tape:       tape.String(),
				Column:     tape.Column(head),
				Transition: tr,
			})
		}

		// One indivisible step: write, state change, head move.
		tape.Write(head, tr.Write)
		state = tr.Next
		head += int(tr.Move)
		steps++

		if e.halting(state) {
			return e.finish(tape, state, true, ReasonHaltingState, steps), nil
		}
	}
}

func (e *Engine) finish(tape *machine.Tape, state machine.State, halted bool, reason StopReason, steps int) *Result {
	slog.Info("run finished",
		"reason", reason,
		"halted", halted,
		"final_state", state,
		"steps", steps,
		"tape", tape.String(),
	)
	return &Result{
		Tape:       tape.Symbols(),
		FinalState: state,
		Halted:     halted,
		Reason:     reason,
		Steps:      steps,
	}
}
