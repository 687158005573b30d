// Package apperr classifies service errors into the kinds the HTTP layer maps to status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindUpstream   Kind = "upstream"
	KindInternal   Kind = "internal"
)

// Sentinels for errors.Is; every *Error matches the sentinel of its kind.
var (
	ErrValidation = &Error{Kind: KindValidation, Msg: "validation error"}
	ErrAuth       = &Error{Kind: KindAuth, Msg: "unauthenticated"}
	ErrForbidden  = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrNotFound   = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrUpstream   = &Error{Kind: KindUpstream, Msg: "upstream error"}
	ErrInternal   = &Error{Kind: KindInternal, Msg: "internal error"}
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == e.Msg || t == sentinel(e.Kind))
}

func sentinel(k Kind) *Error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAuth:
		return ErrAuth
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindUpstream:
		return ErrUpstream
	default:
		return ErrInternal
	}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Auth(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Upstream(err error, msg string) error { return &Error{Kind: KindUpstream, Msg: msg, Err: err} }

func Internal(err error, msg string) error { return &Error{Kind: KindInternal, Msg: msg, Err: err} }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
