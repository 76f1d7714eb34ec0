// Package errors provides structured error types for rigport.
//
// Codes are shared by the CLI, the HTTP API and the assembly job so that a
// failure surfaced to a user always carries a machine-readable category.
//
// # Error Codes
//
// The assembly job distinguishes four failure classes:
//   - LOOKUP_MISS: an unmapped parameter name or meta key. Always absorbed.
//   - MISSING_SOCKET: an attachment directive could not be emitted.
//   - PART_LOAD_FAILURE: one part's mesh or image failed to load. The part is
//     skipped and the job continues.
//   - UNION_FAILURE: the host could not union skeletons or meshes. The merge
//     step aborts and the job reports failure.
//
// The remaining codes cover input validation and plumbing.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPayload, "group %q has no parts", name)
//	if errors.Is(err, errors.ErrCodeInvalidPayload) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodePartLoadFailure, cause, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Assembly failures
	ErrCodeLookupMiss      Code = "LOOKUP_MISS"
	ErrCodeMissingSocket   Code = "MISSING_SOCKET"
	ErrCodePartLoadFailure Code = "PART_LOAD_FAILURE"
	ErrCodeUnionFailure    Code = "UNION_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPayload Code = "INVALID_PAYLOAD"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeDecode       Code = "DECODE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Fatal reports whether an error with this code should fail an assembly job.
// Lookup misses, missing sockets and part load failures are absorbed by the
// job; everything else propagates to the caller.
func (c Code) Fatal() bool {
	switch c {
	case ErrCodeLookupMiss, ErrCodeMissingSocket, ErrCodePartLoadFailure:
		return false
	}
	return true
}
