// Package apperr carries the error taxonomy shared by the services and the
// HTTP layer. Errors have codes so that transport code can pick a status
// without string matching, human-readable messages, and an optional wrapped
// cause.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

const (
	EInvalid      = "invalid"      // validation failed
	ENotFound     = "not found"    // missing id, or masked non-owner lookup
	EForbidden    = "forbidden"    // authenticated but not allowed
	EUnauthorized = "unauthorized" // no session
	EConflict     = "conflict"     // uniqueness or referential guard tripped
	EInternal     = "internal error"
)

// Error is the error struct used across the application.
type Error struct {
	Code string
	Msg  string
	Err  error
}

// Error implements the error interface by joining Msg and the wrapped cause.
func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the root error, if available; otherwise
// EInternal. A nil error has no code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*Error)
	if !ok {
		var ae *Error
		if errors.As(err, &ae) {
			e = ae
		}
	}
	if e == nil {
		return EInternal
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Err != nil {
		return ErrorCode(e.Err)
	}
	return EInternal
}

// ErrorMessage returns the message of the first error in the chain that has
// one, falling back to a generic internal-error message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		if e.Err != nil {
			return ErrorMessage(e.Err)
		}
	}
	return "an internal error has occurred"
}

// New builds an Error with a code and a formatted message.
func New(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code, msg string) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}
