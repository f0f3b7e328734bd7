// Package errors defines the coded errors shared by the navigator, its data
// sources and the command line.
//
// A failure that crosses a package boundary is an [*Error] carrying a
// [Code]. Codes are stable strings: they are the "kind" of error
// notifications, the "kind" field of HTTP API error bodies and they pick
// the exit status of the radiant binary.
//
//	err := errors.New(errors.ErrCodeNotFound, "unknown node %q", id)
//	errors.Is(fmt.Errorf("select: %w", err), errors.ErrCodeNotFound) // true
//
// Four codes name navigator failures. DATA_FETCH_ERROR and
// CONFIG_VALIDATION_ERROR are fatal to initialization; CONTENT_FETCH_ERROR
// and PRELOAD_ERROR are recovered where they happen. See [Code.Fatal] and
// [Code.Input].
package errors

import (
	"errors"
	"fmt"
	"slices"
)

// Code is a machine-readable error kind.
type Code string

// Navigator failures, reported on the controller's error notifications.
const (
	ErrCodeDataFetch        Code = "DATA_FETCH_ERROR"
	ErrCodeContentFetch     Code = "CONTENT_FETCH_ERROR"
	ErrCodePreload          Code = "PRELOAD_ERROR"
	ErrCodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
)

// Input, lookup, transport and lifecycle failures.
const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidHierarchy Code = "INVALID_HIERARCHY"
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeNetwork          Code = "NETWORK_ERROR"
	ErrCodeTimeout          Code = "TIMEOUT"
	ErrCodeDestroyed        Code = "DESTROYED"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
)

type class uint8

const (
	classFatal class = 1 << iota
	classInput
)

var classes = map[Code]class{
	ErrCodeDataFetch:        classFatal,
	ErrCodeContentFetch:     0,
	ErrCodePreload:          0,
	ErrCodeConfigValidation: classFatal | classInput,
	ErrCodeInvalidInput:     classInput,
	ErrCodeInvalidHierarchy: classInput,
	ErrCodeNotFound:         0,
	ErrCodeNetwork:          0,
	ErrCodeTimeout:          0,
	ErrCodeDestroyed:        0,
	ErrCodeInternal:         0,
}

// Codes returns every known code in lexical order.
func Codes() []Code {
	out := make([]Code, 0, len(classes))
	for c := range classes {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Fatal reports whether a failure of this kind halts initialization.
func (c Code) Fatal() bool { return classes[c]&classFatal != 0 }

// Input reports whether the failure was caused by what the caller passed
// in, as opposed to a failing dependency.
func (c Code) Input() bool { return classes[c]&classInput != 0 }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e := asError(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for anything else.
func UserMessage(err error) string {
	if e := asError(err); e != nil {
		return e.Message
	}
	return err.Error()
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
