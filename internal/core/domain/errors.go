package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown parser or content type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Import error taxonomy. The first three are non-fatal: they are
	// accumulated in the result's error list and the batch continues.

	// ErrUnrecognizedFormat indicates the top-level shape of an item
	// matched no known export format (no title/date-like column, JSON
	// matching no known shape).
	ErrUnrecognizedFormat = errors.New("unrecognized format")

	// ErrInvalidField indicates a single field inside an otherwise
	// recognised record failed validation. The record is dropped,
	// siblings continue.
	ErrInvalidField = errors.New("invalid field")

	// ErrTooLarge indicates an item exceeds a configured byte or
	// character ceiling. The item is rejected before parsing.
	ErrTooLarge = errors.New("item too large")

	// ErrCorruptInput indicates an internal invariant was violated and
	// partial output would be untrustworthy (e.g., a length-prefixed
	// segment claiming more bytes than remain). It is always propagated
	// to the caller, never swallowed.
	ErrCorruptInput = errors.New("corrupt input")
)

// IsFatal reports whether err must abort the batch rather than be
// accumulated as a per-item diagnostic.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCorruptInput)
}
