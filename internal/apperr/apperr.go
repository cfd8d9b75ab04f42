// Package apperr holds the failure kinds shared by the storage, catalog and
// access packages. Callers branch on them with errors.Is or KindOf instead of
// matching log output.
package apperr

import "errors"

var (
	// ErrConnection is returned when the store cannot be reached or rejects the session.
	ErrConnection = errors.New("store unavailable")
	// ErrConstraint is returned when a write violates a table constraint, e.g. a duplicate isbn.
	ErrConstraint = errors.New("constraint violation")
	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDenied is returned when an identifier is not authorized.
	ErrDenied = errors.New("access denied")
)

// Kind classifies an error into one of the failure kinds above.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindConstraint
	KindNotFound
	KindDenied
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindConstraint:
		return "constraint"
	case KindNotFound:
		return "not_found"
	case KindDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// KindOf reports the kind of err. Denial wins over its cause so that a
// denied lookup caused by a lost connection still reads as a denial.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrDenied):
		return KindDenied
	case errors.Is(err, ErrConstraint):
		return KindConstraint
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConnection):
		return KindConnection
	default:
		return KindUnknown
	}
}

// Wrap joins a sentinel with its cause. A nil cause returns the sentinel alone.
func Wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}
