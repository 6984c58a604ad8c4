package apperror

import (
	"errors"
	"fmt"
)

// Kind groups errors by how the caller should react to them.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindInternal        Kind = "INTERNAL"
)

// Error is an application error with a stable code and a message safe to show to clients.
type Error struct {
	parent  error
	kind    Kind
	code    string
	msg     string
	details any
}

// New initializes an Error.
//
// code example: DUPLICATE_EMAIL
func New(kind Kind, code, msg string) *Error {
	return &Error{kind: kind, code: code, msg: msg}
}

func (e *Error) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("Code=%s, Msg=%s, Parent=(%v)", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("Code=%s, Msg=%s", e.code, e.msg)
}

// Wrap returns a copy of e that carries parent as its underlying error.
func (e *Error) Wrap(parent error) *Error {
	if parent == nil {
		return e
	}
	cp := *e
	cp.parent = parent
	return &cp
}

func (e *Error) Unwrap() error { return e.parent }

// WithDetails returns a copy of e carrying client-facing details, such as field errors.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.details = details
	return &cp
}

// Is matches on code so that wrapped copies still compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code && e.kind == t.kind
}

func (e *Error) Kind() Kind { return e.kind }
func (e *Error) Code() string { return e.code }
func (e *Error) Msg() string { return e.msg }
func (e *Error) Parent() error { return e.parent }
func (e *Error) Details() any { return e.details }

func Validation(code, msg string) *Error { return New(KindValidation, code, msg) }
func Conflict(code, msg string) *Error { return New(KindConflict, code, msg) }
func NotFound(code, msg string) *Error { return New(KindNotFound, code, msg) }
func Unauthenticated(code, msg string) *Error { return New(KindUnauthenticated, code, msg) }

// Internal wraps a storage or transport failure. The parent is kept for logs only.
func Internal(parent error) *Error {
	return New(KindInternal, "INTERNAL_ERROR", "an unknown error occurred").Wrap(parent)
}

// KindOf reports the kind of err, treating anything that is not an *Error as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}
