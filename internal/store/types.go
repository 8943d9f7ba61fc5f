package store

// RunRecord is one row of run history.
type RunRecord struct {
	ID          string // uuid, assigned by the caller's IDGenerator
	TableHash   string // machine.TableHash of the program that ran
	StartState  string
	FinalState  string
	Halted      bool
	Reason      string // engine.StopReason
	Steps       int
	InitialTape string
	FinalTape   string
	CreatedAt   string // set by the database, RFC 3339 UTC
}

// TraceRow is one stored trace entry. Symbols and moves are stored as
// their one-character text forms.
type TraceRow struct {
	RunID string
	Step  int
	State string
	Head  int
	Read  string
	Write string
	Move  string
	Next  string
}
