// Package apperrors defines the error taxonomy shared by services and the
// HTTP layer. Every failure path carries a Kind so the transport can map it
// to a status code without inspecting message text.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindBusiness
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Is lets two errors of the same kind and message match under errors.Is,
// which makes the sentinel values below usable as comparison targets.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind && t.msg == e.msg
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

func Business(format string, args ...any) *Error {
	return newf(KindBusiness, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

func Internal(msg string, err error) *Error {
	return &Error{kind: KindInternal, msg: msg, err: err}
}

// KindOf returns the taxonomy kind of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// Sentinels for the business rules the callers branch on.
var (
	ErrEmptyCart          = Validation("cart is empty")
	ErrItemsUnavailable   = Business("some menu items are unavailable")
	ErrInsufficientPoints = Business("not enough bonus points")
	ErrSlotFull           = Business("all tables are booked for this time")
	ErrPastBookingTime    = Validation("cannot book a table in the past")
	ErrOrderNumberTaken   = Conflict("order number already taken")
	ErrEmailTaken         = Validation("user with this email already exists")
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrAccountDisabled    = Forbidden("account is deactivated")
	ErrAccessDenied       = Forbidden("access denied")
)

// InvalidStatusTransition reports a state-machine violation.
func InvalidStatusTransition(from, to string) error {
	return Business("cannot change status from %s to %s", from, to)
}
