// Package errors provides the structured error types shared by the mrcvol
// packages.
//
// Every failure that a caller may want to branch on carries a Code:
//   - FORMAT: the binary stream is malformed or ambiguous
//   - VALIDATION: caller input is incomplete or inconsistent
//   - PRECONDITION: an operation was asked to do something its input cannot support
//   - IO: a file could not be opened, read or written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFormat, "mode %d is not supported", mode)
//	if errors.Is(err, errors.ErrCodeFormat) {
//	    // reject the file
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeFormat       Code = "FORMAT"
	ErrCodeValidation   Code = "VALIDATION"
	ErrCodePrecondition Code = "PRECONDITION"
	ErrCodeIO           Code = "IO"
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

// Validation builds a single VALIDATION error naming every problem found
// while checking subject. It returns nil when problems is empty so callers
// can collect first and decide once.
func Validation(subject string, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return New(ErrCodeValidation, "%s: %s", subject, strings.Join(problems, "; "))
}

// File wraps an I/O failure on path. The cause is kept so errors.Is works
// against fs.ErrNotExist and friends.
func File(path string, cause error) *Error {
	return Wrap(ErrCodeIO, cause, "%s", path)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an IO error wrapping a FORMAT error matches both codes.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
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
