// Package errors provides the structured error type shared by the cortex
// engines, the CLI and the HTTP API.
//
// Every failure a user can act on carries a [Code]. Codes fall into a
// [Class] that tells the surface how to report it: the CLI prints the
// message, the HTTP API maps the class to a status code.
//
//   - INVALID_*: bad selections or flags (ClassInput)
//   - CONFIGURATION_ERROR: catalog defects such as an unknown vertical or a
//     negative share (ClassCatalog)
//   - *NOT_FOUND: missing plan state or catalog entry (ClassMissing)
//   - UNSUPPORTED: no plan store configured and similar (ClassUnsupported)
//
// Configuration errors are never recovered locally; they propagate to the
// caller.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "unknown vertical %q", name)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // fix the catalog
//	}
//
//	err = errors.Wrap(errors.ErrCodeConfiguration, origErr, "decode catalog %s", path)
//
// [Is] matches a code anywhere in the wrap chain; [GetCode] and
// [UserMessage] look at the outermost *Error.
package errors

import (
	"errors"
	"fmt"
	"iter"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Catalog errors
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodePlanNotFound Code = "PLAN_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by who has to act on them.
type Class int

const (
	// ClassInternal errors are bugs or environment failures.
	ClassInternal Class = iota
	// ClassInput errors are fixed by changing the request or flags.
	ClassInput
	// ClassCatalog errors are fixed by changing the catalog.
	ClassCatalog
	// ClassMissing errors name something that does not exist.
	ClassMissing
	// ClassUnsupported errors name a feature the running setup lacks.
	ClassUnsupported
)

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidName:
		return ClassInput
	case ErrCodeConfiguration:
		return ClassCatalog
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodePlanNotFound:
		return ClassMissing
	case ErrCodeUnsupported:
		return ClassUnsupported
	}
	return ClassInternal
}

// Error carries a code, a message safe to show to users and an optional
// cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an error with code whose cause is err.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: msg, Cause: cause}
}

// Configuration is shorthand for New(ErrCodeConfiguration, ...).
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// Is reports whether any *Error in err's chain has code.
func Is(err error, code Code) bool {
	for e := range chain(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// IsConfiguration reports whether err is a catalog configuration defect.
func IsConfiguration(err error) bool {
	return Is(err, ErrCodeConfiguration)
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	for e := range chain(err) {
		return e.Code
	}
	return ""
}

// ClassOf returns the class of err's code.
func ClassOf(err error) Class {
	return GetCode(err).Class()
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for foreign errors.
func UserMessage(err error) string {
	for e := range chain(err) {
		return e.Message
	}
	return err.Error()
}

// chain yields every *Error in err's wrap chain, outermost first.
func chain(err error) iter.Seq[*Error] {
	return func(yield func(*Error) bool) {
		for err != nil {
			var e *Error
			if !errors.As(err, &e) {
				return
			}
			if !yield(e) {
				return
			}
			err = e.Cause
		}
	}
}
