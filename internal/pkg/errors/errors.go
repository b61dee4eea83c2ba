package errors

import "errors"

// Shared application errors. Handlers translate these into HTTP status codes.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned for invalid input data.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for state conflicts (e.g. duplicate unique values).
	ErrConflict = errors.New("resource state conflict")
)
