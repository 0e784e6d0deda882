// Package errs provides the coded error type shared by viddup's packages.
//
// Every failure that callers need to tell apart carries a Code. Codes are
// string based so they read well in logs and serialize naturally to JSON.
// Matching works through the standard library: errors.Is(err, errs.ErrNotImplemented)
// and errs.Is(err, errs.CodeUnavailable) both inspect the code of the first
// *Error found in the chain.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// CodeInvalidConfig indicates invalid options or an unusable root directory.
	// Fatal, surfaced before any work is done.
	CodeInvalidConfig Code = "INVALID_CONFIGURATION"

	// CodeUnavailable indicates a file or tool that could not be accessed:
	// deleted, moved, permission revoked or no longer a regular file.
	CodeUnavailable Code = "CANDIDATE_UNAVAILABLE"

	// CodeHashFailed indicates an I/O error while reading file content.
	CodeHashFailed Code = "HASH_FAILED"

	// CodeNotImplemented indicates the requested functionality is not implemented.
	CodeNotImplemented Code = "NOT_IMPLEMENTED"

	// CodeCanceled indicates the run was stopped by its context.
	CodeCanceled Code = "CANCELED"

	// CodeExecutionFailed indicates an external command failed.
	CodeExecutionFailed Code = "EXECUTION_FAILED"

	// CodeUnknown is reported for errors without a code.
	CodeUnknown Code = "UNKNOWN"
)

// ErrNotImplemented is returned by operations that are part of the public
// contract but have no implementation yet.
var ErrNotImplemented = &Error{Code: CodeNotImplemented}

// Error is a failure annotated with a code and, where relevant, the operation
// and path it concerns.
type Error struct {
	// Code classifies the failure.
	Code Code
	// Op is the operation that failed (e.g. "open", "stat").
	Op string
	// Path is the file the failure concerns, if any.
	Path string
	// Msg is an optional human readable detail.
	Msg string
	// Err is the underlying cause.
	Err error
}

// New creates an error with the given code and message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code, operation and path. It returns nil if err is nil.
func Wrap(err error, code Code, op, path string) error {
	if err == nil {
		return nil
	}

	return &Error{Code: code, Op: op, Path: path, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)

	if e.Op != "" {
		msg += ": " + e.Op
	}

	if e.Path != "" {
		msg += fmt.Sprintf(" %q", e.Path)
	}

	if e.Msg != "" {
		msg += ": " + e.Msg
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code.
// A target that carries its own cause only matches if it is the same value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Err != nil || t.Op != "" || t.Path != "" {
		return e == t
	}

	return e.Code == t.Code
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Skippable reports whether err only affects a single candidate, meaning the
// candidate should be dropped and the run continued.
func Skippable(err error) bool {
	switch CodeOf(err) {
	case CodeUnavailable, CodeHashFailed:
		return true
	default:
		return false
	}
}
