package squote

import (
	"errors"
	"fmt"
)

// Render and bind failures. Compare with errors.Is.
var (
	ErrMissingParameter      = errors.New("squote: missing parameter")
	ErrUnresolvedPlaceholder = errors.New("squote: unresolved placeholder")
	ErrUnsupportedValue      = errors.New("squote: unsupported value")
	ErrNullValue             = errors.New("squote: null value")
	ErrBadPosition           = errors.New("squote: bad placeholder position")
	ErrUnsafeCharset         = errors.New("squote: charset unsafe for client side escaping")
)

// Error describes a failure tied to a specific statement.
// Position is the zero-based placeholder (or argument) index involved.
type Error struct {
	Err      error
	SQL      string
	Position int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at position %d\nSQL: %s", e.Err, e.Position, e.SQL)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error, sql string, pos int) *Error {
	return &Error{Err: err, SQL: sql, Position: pos}
}
