// Package apperrors provides structured error types shared by the API and CLI.
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: resource not found
//   - *_ERROR: infrastructure failures
//
// Usage:
//
//	err := apperrors.New(apperrors.CodeInvalidInput, "empty keyword at index %d", i)
//	if apperrors.Is(err, apperrors.CodeInvalidInput) {
//	    // handle validation error
//	}
//
//	// Wrap existing errors
//	err := apperrors.Wrap(apperrors.CodeStorage, origErr, "upload snapshot %s", key)
package apperrors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Input validation errors.
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidCursor Code = "INVALID_CURSOR"
	CodeNotCompiled   Code = "SEARCHER_NOT_COMPILED"
	CodeCompiled      Code = "SEARCHER_ALREADY_COMPILED"

	// Resource not found errors.
	CodeNotFound           Code = "NOT_FOUND"
	CodeSearcherNotFound   Code = "SEARCHER_NOT_FOUND"
	CodeDictionaryNotFound Code = "DICTIONARY_NOT_FOUND"
	CodeSnapshotNotFound   Code = "SNAPSHOT_NOT_FOUND"

	// Lifecycle errors.
	CodeSearcherExpired Code = "SEARCHER_EXPIRED"
	CodeConflict        Code = "CONFLICT"

	// Infrastructure errors.
	CodeDatabase Code = "DATABASE_ERROR"
	CodeStorage  Code = "STORAGE_ERROR"
	CodeRegistry Code = "REGISTRY_ERROR"
	CodeTimeout  Code = "TIMEOUT"
	CodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // machine-readable error code
	Message string // human-readable message
	Cause   error  // underlying error (optional)
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

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns CodeInternal if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
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

// IsNotFound reports whether the error carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case CodeNotFound, CodeSearcherNotFound, CodeDictionaryNotFound, CodeSnapshotNotFound:
		return true
	}
	return false
}
