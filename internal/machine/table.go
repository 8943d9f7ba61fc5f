package machine

import (
	"fmt"
	"sort"
)

// Table is the complete transition mapping built from a parsed program.
//
// A Table is immutable after construction and never mutated during
// execution, so one Table may safely back multiple concurrent runs on
// separate tapes.
//
// For a deterministic machine each (state, symbol) key maps to at most one
// transition; NewTable rejects duplicates.
type Table struct {
	rules map[Key]Transition
	order []Transition // declaration order, for Start() and States()
}

// NewTable builds a Table from transitions in declaration order.
// Returns an error on a duplicate (state, symbol) key.
func NewTable(transitions []Transition) (*Table, error) {
	rules := make(map[Key]Transition, len(transitions))
	order := make([]Transition, len(transitions))
	copy(order, transitions)

	for _, tr := range transitions {
		k := tr.Key()
		if prev, ok := rules[k]; ok {
			return nil, fmt.Errorf("duplicate transition for (%s, %s): %q and %q",
				k.State, k.Symbol, prev, tr)
		}
		rules[k] = tr
	}

	return &Table{rules: rules, order: order}, nil
}

// Lookup returns the transition for (state, symbol), if any.
func (t *Table) Lookup(state State, sym Symbol) (Transition, bool) {
	tr, ok := t.rules[Key{State: state, Symbol: sym}]
	return tr, ok
}

// Len returns the number of transitions.
func (t *Table) Len() int {
	return len(t.rules)
}

// Start returns the conventional start state: the current state of the
// first declared transition. Returns "" for an empty table.
func (t *Table) Start() State {
	if len(t.order) == 0 {
		return ""
	}
	return t.order[0].Current
}

// Contains reports whether the label appears anywhere in the table, as
// either the current or the next state of some transition. Used to
// distinguish a misconfigured start state from one that legitimately
// halts with no matching transition.
func (t *Table) Contains(state State) bool {
	for _, tr := range t.order {
		if tr.Current == state || tr.Next == state {
			return true
		}
	}
	return false
}

// States returns every state label encountered in the table (current and
// next sides), sorted for deterministic output.
func (t *Table) States() []State {
	seen := make(map[State]bool, len(t.order)*2)
	for _, tr := range t.order {
		seen[tr.Current] = true
		seen[tr.Next] = true
	}
	states := make([]State, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// Transitions returns the transitions in declaration order.
// The returned slice is a copy; the table itself stays immutable.
func (t *Table) Transitions() []Transition {
	out := make([]Transition, len(t.order))
	copy(out, t.order)
	return out
}
