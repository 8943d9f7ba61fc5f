// Package parser converts textual transition-table descriptions into
// machine.Tables.
//
// The format is line-oriented: each non-blank line carries exactly five
// whitespace-separated fields,
//
//	current_state read_symbol next_state write_symbol movement
//
// with movement one of L, R, S. Blank lines are permitted for visual
// grouping. Duplicate (state, symbol) keys are rejected: a deterministic
// machine cannot carry two rules for one configuration.
package parser

import (
	"fmt"
	"strings"

	"github.com/roach88/tapir/internal/machine"
)

// fieldsPerLine is the fixed shape of a transition line.
const fieldsPerLine = 5

// ParseError describes malformed table text. It always carries the
// 1-based line number of the offending line; Field names the part of the
// line that failed, when one field in particular is at fault.
type ParseError struct {
	Line    int    // 1-based line number
	Field   string // offending field name, "" for whole-line errors
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parse builds a transition table from its textual description.
// Parsing is deterministic: the same text always yields an equal table.
// Malformed input fails with a *ParseError; no line is ever silently
// dropped.
func Parse(text string) (*machine.Table, error) {
	var transitions []machine.Transition

	// Maps each seen key to the 1-based line that declared it, so a
	// duplicate can name both lines.
	declared := make(map[machine.Key]int)

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != fieldsPerLine {
			return nil, &ParseError{
				Line:    lineNo,
				Message: fmt.Sprintf("expected %d fields, got %d", fieldsPerLine, len(fields)),
			}
		}

		tr, perr := parseTransition(fields)
		if perr != nil {
			perr.Line = lineNo
			return nil, perr
		}

		if prev, ok := declared[tr.Key()]; ok {
			return nil, &ParseError{
				Line: lineNo,
				Message: fmt.Sprintf("duplicate transition for (%s, %s), first declared on line %d",
					tr.Current, tr.Read, prev),
			}
		}
		declared[tr.Key()] = lineNo
		transitions = append(transitions, tr)
	}

	table, err := machine.NewTable(transitions)
	if err != nil {
		// Unreachable: duplicates are caught above with line context.
		return nil, err
	}
	return table, nil
}

// parseTransition validates the five fields of one line. The returned
// ParseError has no line number; the caller fills it in.
func parseTransition(fields []string) (machine.Transition, *ParseError) {
	current, perr := parseState(fields[0], "current_state")
	if perr != nil {
		return machine.Transition{}, perr
	}
	read, perr := parseSymbol(fields[1], "read_symbol")
	if perr != nil {
		return machine.Transition{}, perr
	}
	next, perr := parseState(fields[2], "next_state")
	if perr != nil {
		return machine.Transition{}, perr
	}
	write, perr := parseSymbol(fields[3], "write_symbol")
	if perr != nil {
		return machine.Transition{}, perr
	}
	move, err := machine.ParseMove(fields[4])
	if err != nil {
		return machine.Transition{}, &ParseError{Field: "movement", Message: err.Error()}
	}

	return machine.Transition{
		Current: current,
		Read:    read,
		Next:    next,
		Write:   write,
		Move:    move,
	}, nil
}

func parseState(tok, field string) (machine.State, *ParseError) {
	// strings.Fields guarantees non-empty tokens with no internal
	// whitespace, so only emptiness can slip through here.
	if tok == "" {
		return "", &ParseError{Field: field, Message: "state label must be non-empty"}
	}
	return machine.State(tok), nil
}

func parseSymbol(tok, field string) (machine.Symbol, *ParseError) {
	sym, err := machine.ParseSymbol(tok)
	if err != nil {
		return 0, &ParseError{Field: field, Message: err.Error()}
	}
	return sym, nil
}
