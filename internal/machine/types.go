package machine

import (
	"fmt"
	"unicode/utf8"
)

// State is an opaque control-unit label, e.g. "Q0".
// States are compared by exact value equality.
type State string

// Symbol is exactly one character from the tape alphabet.
type Symbol rune

// Blank is the reserved symbol for unwritten tape cells.
// Every logical position not yet written reads as Blank.
const Blank Symbol = 'b'

// String returns the symbol as a one-character string.
func (s Symbol) String() string {
	return string(rune(s))
}

// ParseSymbol validates that tok is exactly one character and returns it.
func ParseSymbol(tok string) (Symbol, error) {
	if utf8.RuneCountInString(tok) != 1 {
		return 0, fmt.Errorf("symbol must be exactly one character, got %q", tok)
	}
	r, _ := utf8.DecodeRuneInString(tok)
	return Symbol(r), nil
}

// Move is a head movement. The numeric values are the head deltas applied
// after a write, so a Move can be added to a head position directly.
type Move int

const (
	Left  Move = -1
	Stay  Move = 0
	Right Move = 1
)

// ParseMove maps the single-letter movement codes to a Move.
func ParseMove(tok string) (Move, error) {
	switch tok {
	case "L":
		return Left, nil
	case "R":
		return Right, nil
	case "S":
		return Stay, nil
	default:
		return 0, fmt.Errorf("movement must be one of L, R, S, got %q", tok)
	}
}

// String returns the movement letter ("L", "R", or "S").
func (m Move) String() string {
	switch m {
	case Left:
		return "L"
	case Right:
		return "R"
	case Stay:
		return "S"
	default:
		return fmt.Sprintf("Move(%d)", int(m))
	}
}

// Transition is one rule of the machine:
// (Current, Read) -> (Next, Write, Move).
type Transition struct {
	Current State
	Read    Symbol
	Next    State
	Write   Symbol
	Move    Move
}

// Key identifies the (state, symbol) configuration a transition fires on.
type Key struct {
	State  State
	Symbol Symbol
}

// Key returns the lookup key for this transition.
func (t Transition) Key() Key {
	return Key{State: t.Current, Symbol: t.Read}
}

// String renders the transition in table-text form.
func (t Transition) String() string {
	return fmt.Sprintf("%s %s %s %s %s", t.Current, t.Read, t.Next, t.Write, t.Move)
}
