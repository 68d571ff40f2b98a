package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a service error so adapters can branch on the failure
// class instead of matching message strings.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindDuplicate         Kind = "DUPLICATE"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindStore             Kind = "STORE"
)

// Error is the error type returned by every service operation. Cause, if
// set, is the underlying driver error and is reachable via errors.As.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error of the given kind around an underlying cause.
func WrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether err (or anything it wraps) is an Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

const uniqueViolation = "23505"

// storeErr wraps a driver error as a store failure, except for unique
// index violations, which surface as duplicates.
func storeErr(cause error, format string, args ...any) *Error {
	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) && pgErr.Code == uniqueViolation {
		return WrapError(KindDuplicate, cause, format, args...)
	}
	return WrapError(KindStore, cause, format, args...)
}
