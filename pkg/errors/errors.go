// Package errors provides structured error types for streamgrid.
//
// Every failure of the grid engine and of the surrounding pipeline carries a
// machine-readable [Code] so callers can decide whether to abort a run or
// skip a single metric:
//
//	shape, err := grid.Resolve(n)
//	if errors.Is(err, errors.ErrCodeShapeResolution) {
//	    // degenerate node count
//	}
//
// Errors are created with [New] or wrap an underlying cause with [Wrap]:
//
//	err := errors.New(errors.ErrCodeTooManyRecords, "record %d does not fit %s", i, shape)
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "parse %s", path)
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
	ErrCodeInvalidMetricValue Code = "INVALID_METRIC_VALUE"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// Grid construction errors
	ErrCodeShapeResolution Code = "SHAPE_RESOLUTION"
	ErrCodeTooManyRecords  Code = "TOO_MANY_RECORDS"
	ErrCodeEmptyDataset    Code = "EMPTY_DATASET"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// Terminal reports whether err aborts a whole run rather than a single metric.
// Shape and record-count failures invalidate every grid of the dataset;
// an empty metric can be skipped by the caller.
func Terminal(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyDataset:
		return false
	default:
		return err != nil
	}
}
