// Package errs carries the coded errors services return and handlers map to HTTP statuses.
package errs

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrInvalidInput ErrCode = "INVALID_INPUT"
	ErrUnauthorized ErrCode = "UNAUTHORIZED"
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrConflict     ErrCode = "CONFLICT"
)

type codedError struct {
	code ErrCode
	msg  string
	err  error
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return e.msg
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.err }

func New(code ErrCode, format string, args ...any) error {
	return codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code ErrCode, err error, msg string) error {
	return codedError{code: code, msg: msg, err: err}
}

func Invalid(format string, args ...any) error  { return New(ErrInvalidInput, format, args...) }
func NotFound(format string, args ...any) error { return New(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error { return New(ErrConflict, format, args...) }
func Forbidden(format string, args ...any) error {
	return New(ErrForbidden, format, args...)
}
func Unauthorized(format string, args ...any) error {
	return New(ErrUnauthorized, format, args...)
}

// Code extracts error code; "" means internal.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message returns the client-facing text of a coded error.
func Message(err error) string {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return ""
}
