package store

import (
	"errors"
	"fmt"
)

// Sentinel errors, for use with errors.Is. Storage-engine failures are not
// sentinels; they are wrapped with context and propagate as-is.
var (
	// ErrNotFound is returned by updates that require an existing row.
	// Reads return a nil row instead; deletes are idempotent and never
	// return it.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned by creates with a colliding id.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrParse is returned by import when the payload is not a valid
	// snapshot. No table is touched when it is returned.
	ErrParse = errors.New("malformed snapshot")
)

// ValidationError reports invalid input rejected before any table mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey reports whether err wraps ErrDuplicateKey.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
