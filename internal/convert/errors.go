// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a per-job conversion failure.
type ErrorKind string

const (
	// NoTableFound means Markdown table extraction yielded zero rows.
	NoTableFound ErrorKind = "no_table_found"
	// EmptyInput means a CSV or JSON source had no data rows or elements.
	EmptyInput ErrorKind = "empty_input"
	// DecodeFailure means a binary document or JSON payload could not be decoded.
	DecodeFailure ErrorKind = "decode_failure"
	// ReadFailure means the job's input bytes could not be read.
	ReadFailure ErrorKind = "read_failure"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrNoTableFound  = &Error{Kind: NoTableFound, Message: "no table found"}
	ErrEmptyInput    = &Error{Kind: EmptyInput, Message: "empty input"}
	ErrDecodeFailure = &Error{Kind: DecodeFailure, Message: "decode failure"}
	ErrReadFailure   = &Error{Kind: ReadFailure, Message: "read failure"}
)

// Error is the failure recorded against a job.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
