// Package domainerrors carries typed, code-bearing errors across service and
// transport boundaries. Services return these; handlers translate the code
// into a response without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for the transport layer.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeValidation         Code = "validation_error"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeExternalService    Code = "external_service_error"
	CodeTimeout            Code = "timeout"
	CodeRateLimited        Code = "rate_limited"
	CodeInternal           Code = "internal_error"
)

// Error is a domain error with a stable code and a caller-safe message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any error in the chain carries the code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is an alias of HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, or an empty string.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
