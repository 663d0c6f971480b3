// Package errors provides structured error types for bintree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the terminal view and the API
//   - Machine-readable error codes for programmatic handling
//   - User-presentable titles and messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Tree input validation produces exactly two codes:
//   - INVALID_TOKEN: a token is neither a null marker nor an integer literal
//   - OUT_OF_RANGE: an integer literal does not fit in 32 signed bits
//
// The remaining codes cover capacity limits, option validation, lookups and
// internal failures.
//
// # Usage
//
//	err := errors.Validation(errors.ErrCodeInvalidToken, "Invalid Input", "Only integer values ...")
//	if errors.Is(err, errors.ErrCodeInvalidToken) {
//	    fmt.Println(errors.UserTitle(err), errors.UserMessage(err))
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Tree input validation errors
	ErrCodeInvalidToken Code = "INVALID_TOKEN"
	ErrCodeOutOfRange   Code = "OUT_OF_RANGE"

	// Capacity errors
	ErrCodeTreeTooDeep   Code = "TREE_TOO_DEEP"
	ErrCodeInputTooLarge Code = "INPUT_TOO_LARGE"

	// Option validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// TitleInvalidInput is the title shared by both tree validation codes.
const TitleInvalidInput = "Invalid Input"

// Error is a structured error with a code, a title and an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Title   string // Short heading for presentation (optional)
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

// Validation creates a user-presentable Error with a title and a fixed message.
func Validation(code Code, title, message string) *Error {
	return &Error{
		Code:    code,
		Title:   title,
		Message: message,
	}
}

// WithCause returns a copy of e with cause attached.
func (e *Error) WithCause(cause error) *Error {
	out := *e
	out.Cause = cause
	return &out
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

// UserTitle returns the presentation title for the error.
// Errors without a title fall back to "Error".
func UserTitle(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Title != "" {
		return e.Title
	}
	return "Error"
}

// IsValidation reports whether err is a tree input validation failure.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidToken, ErrCodeOutOfRange:
		return true
	}
	return false
}

// IsUserError reports whether err should be shown to the user as-is
// rather than logged as an internal failure.
func IsUserError(err error) bool {
	switch GetCode(err) {
	case "", ErrCodeInternal:
		return false
	}
	return true
}
