// Package domainerrors provides the application-wide error taxonomy. Services
// return coded errors so transport and callers can branch on the code without
// string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and for HTTP mapping.
type Code string

const (
	// CodeValidation marks recoverable field-level failures. Always surfaced
	// to the caller, never fatal for the session.
	CodeValidation Code = "validation"

	// CodeBadRequest marks malformed requests (undecodable body, bad params).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a missing resource (spreadsheet, worksheet, row).
	CodeNotFound Code = "not_found"

	// CodeConflict marks a uniqueness or state conflict.
	CodeConflict Code = "conflict"

	// CodeUnauthenticated marks missing or rejected backend credentials.
	// Fatal for the session: no retry, operations must halt.
	CodeUnauthenticated Code = "unauthenticated"

	// CodeUnavailable marks a transient backend failure that survived the
	// retry budget.
	CodeUnavailable Code = "unavailable"

	// CodeSchemaMismatch marks a backend whose header row cannot be read or
	// reconciled with the expected schema.
	CodeSchemaMismatch Code = "schema_mismatch"

	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err yields
// nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HasCode is an alias of Is kept for call-site readability in services.
func HasCode(err error, code Code) bool {
	return Is(err, code)
}

// CodeOf extracts the code from err, walking the wrap chain. Uncoded errors
// report CodeInternal; nil reports "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost coded message, or err.Error() for uncoded
// errors. Used by the HTTP layer to avoid leaking wrapped internals.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return err.Error()
}
