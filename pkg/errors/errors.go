// Package errors provides structured error types for the mccabe application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (rejected at construction)
//   - NON_*: Numerical sub-calculations that produced no usable answer
//   - NOT_FOUND: Missing stored designs
//   - INTERNAL: Unexpected internal errors
//
// A design that needs more stages than the stepping cap allows is not an
// error; it is reported as an infeasible stepping result. The API returns
// [ErrCodeInfeasible] only when a strict solve is requested.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidComposition, "x_B must be below x_D")
//	if errors.Is(err, errors.ErrCodeInvalidComposition) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNonConvergent, origErr, "minimum reflux")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidComposition Code = "INVALID_COMPOSITION"
	ErrCodeInvalidEquilibrium Code = "INVALID_EQUILIBRIUM"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Numerical errors
	ErrCodeNonConvergent      Code = "NON_CONVERGENT"
	ErrCodeNonIdealVolatility Code = "NON_IDEAL_VOLATILITY"
	ErrCodeInfeasible         Code = "INFEASIBLE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Offending input, in wire naming (e.g. "x_b"); optional
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// WithField attaches the name of the offending input to err. Errors that are
// not an *Error are returned unchanged. The original error is not modified.
func WithField(err error, field string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	tagged := *e
	tagged.Field = field
	return &tagged
}

// FieldOf returns the input named by [WithField], or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// IsInput reports whether err was caused by invalid caller input, as opposed
// to a numerical or internal failure. The API uses it to pick 4xx over 5xx.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidComposition, ErrCodeInvalidEquilibrium,
		ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return true
	}
	return false
}
