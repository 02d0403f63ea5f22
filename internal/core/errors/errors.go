// Package errors provides structured error handling compatible with standard library.
//
// Overview:
//   - Responsibility: Classify generator failures as input, I/O or internal errors
//   - Key Types: Code type for error classification, E struct for structured errors
//   - Concurrency Model: All functions are safe for concurrent use
//   - Error Semantics: Compatible with standard library error wrapping
//   - Performance Notes: Minimal allocations, one error per failed run
//
// Usage:
//
//	err := errors.New(errors.CodeInvalidInput, "missing required name")
//	wrapped := errors.Wrap(errors.CodeIO, "write src/app.js", originalErr)
//	code := errors.CodeOf(err)
package errors

import (
	"errors"
	"fmt"
)

// Code represents an error classification code.
type Code string

// Error codes used by the generator.
const (
	// CodeInvalidInput reports a missing or malformed caller input.
	// Raised before any filesystem mutation.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeIO reports a directory creation or file write failure.
	CodeIO Code = "IO"
	// CodeInternal reports a malformed embedded catalog or template.
	CodeInternal Code = "INTERNAL"
)

// E represents a structured error with code, operation, message, and underlying cause.
type E struct {
	Code Code   // Error classification code
	Op   string // Operation that failed
	Err  error  // Underlying error (may be nil)
	Msg  string // Human-readable message
}

// Error implements the error interface.
func (e *E) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Op
	} else if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *E) Unwrap() error {
	return e.Err
}

// New creates a new structured error with the given code and message.
func New(code Code, msg string) error {
	return &E{
		Code: code,
		Msg:  msg,
	}
}

// Wrap creates a new structured error wrapping an existing error.
// The operation name helps identify where the error occurred.
func Wrap(code Code, op string, err error) error {
	return &E{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// Wrapf creates a new structured error wrapping an existing error with formatted message.
func Wrapf(code Code, op string, err error, format string, args ...any) error {
	return &E{
		Code: code,
		Op:   op,
		Err:  err,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the error code from an error.
// Returns empty string if the error doesn't have a code.
func CodeOf(err error) Code {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// As is a convenience wrapper around the standard library's errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is a convenience wrapper around the standard library's errors.Is.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}
