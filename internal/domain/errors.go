package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing component boundaries.
type ErrorKind string

const (
	KindRejectedWriteQuery ErrorKind = "rejected_write_query"
	KindQueryFailed        ErrorKind = "query_failed"
	KindProbeFailed        ErrorKind = "probe_failed"
	KindBackendCallFailed  ErrorKind = "backend_call_failed"
	KindEmptyInput         ErrorKind = "empty_input"
)

// Sentinels for errors.Is comparisons by kind.
var (
	ErrRejectedWriteQuery = &Error{Kind: KindRejectedWriteQuery}
	ErrQueryFailed        = &Error{Kind: KindQueryFailed}
	ErrProbeFailed        = &Error{Kind: KindProbeFailed}
	ErrBackendCallFailed  = &Error{Kind: KindBackendCallFailed}
	ErrEmptyInput         = &Error{Kind: KindEmptyInput}
)

// Error is the typed error returned by the gateway, selector and backends.
type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
	Err    error
}

// NewError builds an Error, taking Detail from err when detail is empty.
func NewError(kind ErrorKind, op string, detail string, err error) *Error {
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// KindOf extracts the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

// PanicError converts a recovered panic value into a BackendCallFailed error.
func PanicError(op string, recovered interface{}) *Error {
	return NewError(KindBackendCallFailed, op, fmt.Sprintf("panic: %v", recovered), nil)
}
