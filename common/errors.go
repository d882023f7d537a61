// Package common provides shared constants, types, and utilities
// used across the System Settings application.
package common

import "errors"

// Sentinel errors forming the page-visible failure taxonomy.
// Adapters classify backend failures into one of these; pages branch
// with errors.Is() and never see raw exec or D-Bus errors.
var (
	// ErrNotFound indicates the underlying entity disappeared.
	ErrNotFound = errors.New("entity not found")
	// ErrPermissionDenied indicates the command requires elevation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict indicates a duplicate name/id or an entity that
	// changed underneath the page snapshot.
	ErrConflict = errors.New("conflicting entity")
	// ErrInvalidInput indicates an empty or malformed form field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBackend indicates an unexpected adapter failure.
	ErrBackend = errors.New("backend failure")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
