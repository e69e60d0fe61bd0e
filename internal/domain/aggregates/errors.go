package aggregates

import (
	"errors"
	"fmt"
)

// Code tells the caller what to do about a failed write: retry it, report a clash, or give up.
type Code string

const (
	CodeNotFound  Code = "not_found"
	CodeConflict  Code = "conflict"
	CodeInvariant Code = "invariant"
	CodeRetryable Code = "retryable"
	CodeInternal  Code = "internal"
)

// Error is a failed per-user write, tagged with the operation that ran it
// (scan.complete, plan.replace, session.complete, catalog.seed).
type Error struct {
	Code  Code
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %v [%s]", e.Op, e.Cause, e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap tags err with code. A nil err stays nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Cause: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Retryable reports whether the same write may succeed if run again, such as
// after a lock timeout or a serialization failure.
func Retryable(err error) bool {
	return CodeOf(err) == CodeRetryable
}
