package machine

import "strings"

// Tape is the machine's symbol storage with a logically infinite extent.
//
// Logical positions are integers; position 0 is the first cell of the
// initial contents. Internally the tape is a finite cell slice plus an
// origin offset (the storage index of logical position 0). Writes past
// either edge extend the storage; reads past it return Blank unchanged.
//
// A Tape is owned exclusively by one run for its duration.
type Tape struct {
	cells  []Symbol
	origin int
}

// NewTape creates a tape from the caller-supplied initial symbols.
// The slice is copied; an empty or nil slice yields an empty tape whose
// every position reads Blank.
func NewTape(initial []Symbol) *Tape {
	cells := make([]Symbol, len(initial))
	copy(cells, initial)
	return &Tape{cells: cells}
}

// ParseTape converts a string into its symbol sequence, one symbol per rune.
func ParseTape(s string) []Symbol {
	syms := make([]Symbol, 0, len(s))
	for _, r := range s {
		syms = append(syms, Symbol(r))
	}
	return syms
}

// Read returns the symbol at the logical position. Positions outside the
// materialized cells read as Blank and never grow the tape.
func (t *Tape) Read(pos int) Symbol {
	idx := pos + t.origin
	if idx < 0 || idx >= len(t.cells) {
		return Blank
	}
	return t.cells[idx]
}

// Write stores a symbol at the logical position, extending the
// materialized cells with blanks at whichever end the position falls
// beyond.
func (t *Tape) Write(pos int, sym Symbol) {
	idx := pos + t.origin
	if idx < 0 {
		grow := -idx
		ext := make([]Symbol, grow, grow+len(t.cells))
		for i := range ext {
			ext[i] = Blank
		}
		t.cells = append(ext, t.cells...)
		t.origin += grow
		idx = 0
	} else if idx >= len(t.cells) {
		for len(t.cells) <= idx {
			t.cells = append(t.cells, Blank)
		}
	}
	t.cells[idx] = sym
}

// Column maps a logical position to its column in the materialized
// String rendering. Positions left of the first cell map to negative
// columns; positions past the last cell map to columns >= Len.
func (t *Tape) Column(pos int) int {
	return pos + t.origin
}

// Len returns the number of materialized cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Symbols returns a copy of the materialized cells in order.
func (t *Tape) Symbols() []Symbol {
	out := make([]Symbol, len(t.cells))
	copy(out, t.cells)
	return out
}

// String renders the materialized cells as a plain string.
func (t *Tape) String() string {
	var b strings.Builder
	b.Grow(len(t.cells))
	for _, s := range t.cells {
		b.WriteRune(rune(s))
	}
	return b.String()
}

// Render draws the tape with a caret under the head position, labeled
// with the current state:
//
//	IIbII
//	  ^Q1
//
// Heads left of the materialized cells clamp to column zero.
func (t *Tape) Render(head int, state State) string {
	col := head + t.origin
	if col < 0 {
		col = 0
	}
	return t.String() + "\n" + strings.Repeat(" ", col) + "^" + string(state)
}

// TrimBlanks strips leading and trailing blank symbols, the human-facing
// view of a finished tape. The materialized tape is the canonical result.
func TrimBlanks(syms []Symbol) []Symbol {
	lo, hi := 0, len(syms)
	for lo < hi && syms[lo] == Blank {
		lo++
	}
	for hi > lo && syms[hi-1] == Blank {
		hi--
	}
	return syms[lo:hi]
}

// SymbolsString renders a symbol sequence as a plain string.
func SymbolsString(syms []Symbol) string {
	var b strings.Builder
	b.Grow(len(syms))
	for _, s := range syms {
		b.WriteRune(rune(s))
	}
	return b.String()
}
