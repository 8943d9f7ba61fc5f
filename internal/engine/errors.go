package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/tapir/internal/machine"
)

// InvalidStartStateError reports a start state the table does not know:
// the label appears on neither side of any rule and the halting predicate
// does not accept it. Surfaced immediately so callers can tell a
// misconfigured run from one that halts at step 0 by design.
type InvalidStartStateError struct {
	State machine.State
}

// Error implements the error interface.
func (e *InvalidStartStateError) Error() string {
	return fmt.Sprintf("start state %q does not appear in the transition table", e.State)
}

// IsInvalidStartState returns true if the error is an
// InvalidStartStateError. Uses errors.As to handle wrapped errors.
func IsInvalidStartState(err error) bool {
	var ise *InvalidStartStateError
	return errors.As(err, &ise)
}
