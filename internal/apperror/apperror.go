// Package apperror defines the application error taxonomy and its
// mapping to HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an application error.
type Kind int

const (
	Internal Kind = iota
	Database
	Auth
	Forbidden
	NotFound
	Validation
	Conflict
)

// Error is the application error type. Validation errors carry a
// field -> message map so a response can enumerate every broken field.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
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

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Kind: Conflict, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: Forbidden, Message: message}
}

func NewAuth(message string, err error) *Error {
	return &Error{Kind: Auth, Message: message, Err: err}
}

// NewValidation builds a validation error from a field -> message map.
func NewValidation(fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: "validation failed", Fields: fields}
}

func NewDatabase(message string, err error) *Error {
	return &Error{Kind: Database, Message: message, Err: err}
}

func NewInternal(message string, err error) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}

func is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func IsNotFound(err error) bool   { return is(err, NotFound) }
func IsConflict(err error) bool   { return is(err, Conflict) }
func IsForbidden(err error) bool  { return is(err, Forbidden) }
func IsValidation(err error) bool { return is(err, Validation) }
