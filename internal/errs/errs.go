// Package errs defines the recoverable, user-facing error kinds every game
// operation reports. Probabilistic gameplay failures are not errors; they
// come back as outcome values from the operation itself.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for rendering and tests.
type Kind int

const (
	// KindPrecondition means the command is invalid in the current context
	// (no active mission, target not adjacent, insufficient funds).
	KindPrecondition Kind = iota + 1
	// KindValidation means malformed user input.
	KindValidation
	// KindPersistence means save/load I/O failed.
	KindPersistence
	// KindIntegrity means stale or missing ids in saved data.
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// Error carries a Kind, a user-facing message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Precondition(format string, args ...any) error {
	return &Error{Kind: KindPrecondition, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Persistence(err error, format string, args ...any) error {
	return &Error{Kind: KindPersistence, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Integrity(format string, args ...any) error {
	return &Error{Kind: KindIntegrity, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
