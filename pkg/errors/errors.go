// Package errors gives nodecanvas failures a machine-readable Code.
//
// pkg/canvas has no error returns: its inputs are checked here first (see
// validation.go) and gestures that fail the checks are dropped. Codes show up
// where the module meets the outside world, such as theme and graph files,
// snapshot backends and command-line arguments.
//
// Callers branch on the code, not the text:
//
//	if errors.Is(err, errors.ErrCodeSnapshotNotFound) {
//	    return nil // nothing saved yet
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an Error.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"  // bad numbers or arguments
	ErrCodeInvalidTheme  Code = "INVALID_THEME"  // theme file rejected
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"  // graph document rejected
	ErrCodeInvalidFormat Code = "INVALID_FORMAT" // undecodable or unknown encoding

	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeSnapshotNotFound Code = "SNAPSHOT_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR" // cache or snapshot backend failed
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a Code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a Sprintf-formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause attached; the cause stays reachable through the
// standard errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is the text worth showing on a terminal: the message of the
// outermost *Error without its code and cause, or err.Error() otherwise.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
