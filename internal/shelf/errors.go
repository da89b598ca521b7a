package shelf

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an operation references an unknown record ID.
	ErrNotFound = errors.New("record not found")

	// ErrDataCorruption is returned when a persisted collection cannot be decoded.
	ErrDataCorruption = errors.New("stored data is corrupt")

	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists every rule a record broke.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
