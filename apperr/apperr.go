// Package apperr holds the error kinds shared by the store, the user registry
// and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can decide how to surface it.
type Kind int

const (
	KindUnknown Kind = iota

	KindValidation
	KindNotFound
	KindPersistence
	KindDuplicate
	KindUnauthorized
	KindForbidden

	kindIllegal
)

func (k Kind) String() string {
	names := [...]string{"unknown", "validation", "not found", "persistence", "duplicate", "unauthorized", "forbidden"}
	if k < KindUnknown || k >= kindIllegal {
		return "unknown"
	}
	return names[k]
}

// Error is a classified error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, apperr.ErrNotFound) works
// regardless of Op and Msg.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrPersistence  = &Error{Kind: KindPersistence}
	ErrDuplicate    = &Error{Kind: KindDuplicate}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
)

func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(op, what, id string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf("%s %q not found", what, id)}
}

// Persistence wraps a failed durable write or read.
func Persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Msg: "persistence failed", Err: err}
}

func Duplicate(op, format string, args ...any) error {
	return &Error{Kind: KindDuplicate, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(op, msg string) error {
	return &Error{Kind: KindUnauthorized, Op: op, Msg: msg}
}

func Forbidden(op, msg string) error {
	return &Error{Kind: KindForbidden, Op: op, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
