// Package errors provides standardized domain errors with codes for the MeetLog API.
//
// Usage:
//
//	// In services - return typed errors
//	if exists {
//	    return errors.Duplicate("contact already recorded for this event")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrDuplicateRecord) {
//	    // 409
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeDuplicateRecord:
//	        ...
//	    case errors.CodeNetworkFailure:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound        Code = "NOT_FOUND"
	CodeDuplicateRecord Code = "DUPLICATE_RECORD"
	CodeNetworkFailure  Code = "NETWORK_FAILURE"
	CodeServiceFailure  Code = "SERVICE_FAILURE"
	CodeDecodeFailure   Code = "DECODE_FAILURE"
	CodeValidation      Code = "VALIDATION"
	CodeInternal        Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateRecord:
		return http.StatusConflict
	case CodeNetworkFailure, CodeServiceFailure, CodeDecodeFailure:
		return http.StatusBadGateway
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrDuplicateRecord = &Error{Code: CodeDuplicateRecord, Message: "duplicate record"}
	ErrNetworkFailure  = &Error{Code: CodeNetworkFailure, Message: "network failure"}
	ErrServiceFailure  = &Error{Code: CodeServiceFailure, Message: "service failure"}
	ErrDecodeFailure   = &Error{Code: CodeDecodeFailure, Message: "decode failure"}
	ErrValidation      = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal        = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Duplicate creates a duplicate record error.
func Duplicate(msg string) *Error {
	return &Error{Code: CodeDuplicateRecord, Message: msg}
}

// Duplicatef creates a duplicate record error with formatted message.
func Duplicatef(format string, args ...any) *Error {
	return &Error{Code: CodeDuplicateRecord, Message: fmt.Sprintf(format, args...)}
}

// Network creates a network failure error.
func Network(msg string) *Error {
	return &Error{Code: CodeNetworkFailure, Message: msg}
}

// Service creates a service failure error carrying the upstream status code.
func Service(msg string, status int) *Error {
	return &Error{Code: CodeServiceFailure, Message: msg, Details: map[string]int{"status": status}}
}

// Decode creates a decode failure error.
func Decode(msg string) *Error {
	return &Error{Code: CodeDecodeFailure, Message: msg}
}

// Decodef creates a decode failure error with formatted message.
func Decodef(format string, args ...any) *Error {
	return &Error{Code: CodeDecodeFailure, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// IsRecoverable reports whether a fetch failure is eligible for cache
// fallback. Network, service, and decode failures all qualify; everything
// else (duplicates, validation) is surfaced as-is.
func IsRecoverable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case CodeNetworkFailure, CodeServiceFailure, CodeDecodeFailure:
		return true
	default:
		return false
	}
}
