// Package errors provides structured error types for Quaver.
//
// This package defines error codes and types that enable:
//   - Consistent diagnostic classification across the compiler, CLI, and API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// Compilation itself never fails (the compiler degrades token by token), so
// these codes mostly classify diagnostics and HTTP error payloads rather
// than returned errors.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedToken, "bad token %q", tok)
//	if errors.Is(err, errors.ErrCodeMalformedToken) {
//	    // handle
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pattern grammar errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeUnbalancedBrackets Code = "UNBALANCED_BRACKETS"
	ErrCodeMalformedToken     Code = "MALFORMED_TOKEN"
	ErrCodeUnknownTransform   Code = "UNKNOWN_TRANSFORM"
	ErrCodeMissingParameter   Code = "MISSING_PARAMETER"
	ErrCodeRecursionLimit     Code = "RECURSION_LIMIT"

	// Request validation errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidOption Code = "INVALID_OPTION"

	// Infrastructure errors
	ErrCodeCache    Code = "CACHE_ERROR"
	ErrCodeRender   Code = "RENDER_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
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
