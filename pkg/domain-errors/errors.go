// Package domainerrors provides coded errors for expected business
// conditions. Every recoverable failure a caller can react to carries a Code;
// handlers translate codes to transport responses without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and the transport layer.
type Code string

const (
	// CodeBadRequest covers malformed requests (unparseable body, missing id).
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput covers values that fail trust-boundary parsing.
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation covers well-formed input that violates a domain rule
	// (bad CNIC format, attempt to change an immutable field).
	CodeValidation Code = "validation"
	// CodeUnauthorized covers authentication failures: bad credentials,
	// expired or invalid tokens.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden covers authenticated callers lacking privilege.
	CodeForbidden Code = "forbidden"
	// CodeNotFound covers references to entities that do not exist.
	CodeNotFound Code = "not_found"
	// CodeDuplicate covers unique-key collisions on creation. Kept distinct
	// from CodeConflict so clients can tell a collision from a lost race.
	CodeDuplicate Code = "duplicate"
	// CodeConflict covers concurrent state changes that raced the caller's
	// assumption (e.g. a request that is no longer pending).
	CodeConflict Code = "conflict"
	// CodeInvariantViolation covers detected logic violations. These have no
	// recovery contract and surface as internal errors.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal covers infrastructure failures (store unavailable).
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Construct via New or Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports equality by code and message so tests can assert with
// errors.Is(err, New(code, msg)).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not a coded error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
