package holdem

import (
	"fmt"

	"github.com/pkg/errors"

	"holdem-hu/card"
)

// Recoverable errors. The hand is untouched when one of these is returned
// and the caller may submit a different action.
var (
	ErrInvalidAction       = errors.New("invalid action")
	ErrInsufficientStack   = errors.New("insufficient stack")
	ErrBelowMinimumRaise   = errors.New("below minimum raise")
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrHandInProgress      = errors.New("hand in progress")
	ErrInvalidConfig       = errors.New("invalid config")
	ErrNotEnoughCards      = errors.New("need at least five cards to evaluate")
)

// Fatal errors. They mean the engine is broken; the hand stops.
var (
	ErrConservation  = errors.New("chip conservation violated")
	ErrDeckExhausted = card.ErrDeckExhausted

	errBadTransition = errors.New("bad street transition")
)

// ActionError describes a rejected action.
type ActionError struct {
	Err    error
	Seat   int
	Street Street
	Action Action
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("seat %d %s on %s: %v: %s", e.Seat, e.Action, e.Street, e.Err, e.Reason)
}

func (e *ActionError) Unwrap() error { return e.Err }

func reject(kind error, seat int, street Street, a Action, format string, args ...interface{}) error {
	return &ActionError{
		Err:    kind,
		Seat:   seat,
		Street: street,
		Action: a,
		Reason: fmt.Sprintf(format, args...),
	}
}

// InvariantError wraps a violated engine invariant. It carries the stack
// of the point where the violation was detected.
type InvariantError struct {
	HandID string
	err    error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("hand %s: invariant violated: %v", e.HandID, e.err)
}

func (e *InvariantError) Unwrap() error { return e.err }

// Format prints the captured stack with %+v.
func (e *InvariantError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "hand %s: invariant violated: %+v", e.HandID, e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

func invariant(handID string, err error, format string, args ...interface{}) error {
	return &InvariantError{HandID: handID, err: errors.Wrapf(err, format, args...)}
}

// IsFatal reports whether err is an internal invariant violation.
func IsFatal(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
