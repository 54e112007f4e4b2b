// Package apperrors defines the typed error kinds components return instead
// of logging. The HTTP error handler is the only place these are translated
// into status codes and log lines.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDependencyMissing
	KindAuthorization
	KindNotFound
	KindConflict
	KindStore
)

// FieldError names one violated field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a machine-readable kind, the originating operation name and
// an optional field-level breakdown.
type Error struct {
	Kind   Kind
	Op     string
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with the originating operation name, preserving an existing
// kind. Every caught error on the repository and lookup paths goes through
// here so nothing is swallowed silently.
func E(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return &Error{Kind: ae.Kind, Op: op, Msg: ae.Msg, Fields: ae.Fields, Err: err}
	}
	return &Error{Kind: KindStore, Op: op, Msg: "store operation failed", Err: err}
}

// Validation builds a field-level validation error.
func Validation(op string, fields []FieldError) error {
	return &Error{Kind: KindValidation, Op: op, Msg: "validation failed", Fields: fields}
}

// DependencyMissing signals that a referenced entity does not exist.
func DependencyMissing(op, entity, id string) error {
	return &Error{
		Kind: KindDependencyMissing,
		Op:   op,
		Msg:  fmt.Sprintf("%s %s does not exist", entity, id),
	}
}

// Authorization signals a trust-flag-driven check failure.
func Authorization(op, msg string) error {
	return &Error{Kind: KindAuthorization, Op: op, Msg: msg}
}

// NotFound signals that an operation's target is absent where existence was
// semantically required.
func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

// Conflict signals a uniqueness violation.
func Conflict(op, msg string) error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg}
}

// KindOf extracts the kind from an error chain, defaulting to KindUnknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// FieldsOf extracts the field breakdown from an error chain, if any.
func FieldsOf(err error) []FieldError {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
