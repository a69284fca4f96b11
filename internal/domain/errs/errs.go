// Package errs defines the error kinds surfaced to API callers.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation     Kind = "validation_error"
	KindConflict       Kind = "conflict"
	KindAuthentication Kind = "authentication_failed"
	KindAuthorization  Kind = "forbidden"
	KindNotFound       Kind = "not_found"
	KindExpired        Kind = "expired"
	KindMedia          Kind = "media_error"
	KindDelivery       Kind = "delivery_failed"
	KindInternal       Kind = "internal_error"
)

// Error carries a machine readable kind and a message safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf returns the kind of the outermost *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// MessageOf returns the caller facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}

	return "internal server error"
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindAuthorization, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return New(KindAuthentication, format, args...)
}
