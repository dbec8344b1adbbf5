// Package domainerrors provides coded errors shared by services and handlers.
//
// Services return these so transport layers can translate to HTTP statuses
// without string matching. Infrastructure layers return pkg/platform/sentinel
// errors instead; services wrap them into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport translation.
type Code string

const (
	// CodeValidation marks request payloads that fail field-level checks.
	// Carries the full violation list; maps to 422.
	CodeValidation Code = "validation_error"

	// CodeInvalidInput marks malformed primitives (bad uuid, unknown enum).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks structurally broken requests (missing body).
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized marks missing or invalid caller identity.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks authenticated callers lacking permission.
	CodeForbidden Code = "forbidden"

	// CodeNotFound marks absent entities. Cross-tenant reads return this
	// code too, indistinguishable from genuine absence.
	CodeNotFound Code = "not_found"

	// CodeConflict marks operations that lost to a prior terminal effect,
	// such as sealing an already sealed draft.
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks domain state transitions that the
	// aggregate itself refuses.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks infrastructure failures. Details are logged with
	// the correlation id, never returned to the caller.
	CodeInternal Code = "internal_error"
)

// Violation is one field-level validation failure. Violations are reported
// in full: validation never stops at the first failing field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

// Error is a coded domain error, optionally wrapping a cause and carrying
// field violations for CodeValidation.
type Error struct {
	Code       Code
	Message    string
	Violations []Violation
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(cause error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: cause}
}

// NewValidation builds a CodeValidation error carrying the ordered
// violation list.
func NewValidation(violations []Violation) error {
	return &Error{
		Code:       CodeValidation,
		Message:    "request failed validation",
		Violations: violations,
	}
}

// HasCode reports whether err (or anything it wraps) carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// Is reports whether err is a domain error at all.
func Is(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// Load extracts the outermost domain error, if any.
func Load(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}
