package engine

import "github.com/roach88/tapir/internal/machine"

// TraceEntry records one step, captured before the transition is applied
// so a trace reads causally: this is what the machine saw, and this is
// the rule it fired.
type TraceEntry struct {
	// Step is the 0-based step index.
	Step int

	// State is the machine state before the transition.
	State machine.State

	// Head is the logical head position before the move.
	Head int

	// Read is the symbol under the head (Blank past the materialized
	// cells).
	Read machine.Symbol

	// Tape is the materialized tape before the write.
	Tape string

	// Column is the head's column within Tape (negative or past the end
	// when the head sits on an unmaterialized cell).
	Column int

	// Transition is the rule that fired.
	Transition machine.Transition
}

// TraceSink consumes trace entries, one per applied transition. Sinks are
// purely observational: the engine never consults them. A streaming
// consumer (a debugger UI, the trace command) implements TraceSink
// directly; callers that want the whole trace in memory use a Collector.
type TraceSink interface {
	Record(TraceEntry)
}

// SinkFunc adapts a function to the TraceSink interface.
type SinkFunc func(TraceEntry)

// Record implements TraceSink.
func (f SinkFunc) Record(entry TraceEntry) {
	f(entry)
}

// Collector is a TraceSink that accumulates entries in memory.
type Collector struct {
	entries []TraceEntry
}

// Record implements TraceSink.
func (c *Collector) Record(entry TraceEntry) {
	c.entries = append(c.entries, entry)
}

// Entries returns the collected trace in step order.
func (c *Collector) Entries() []TraceEntry {
	return c.entries
}

// Len returns the number of collected entries.
func (c *Collector) Len() int {
	return len(c.entries)
}
