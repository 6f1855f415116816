// Package errors implements module scoped errors identified by a numeric
// code, so callers can classify failures without matching on messages.
package errors

import (
	"errors"
	"fmt"
	"sync"
)

const (
	// UnknownModule is the module name reported for errors that were not
	// created through this package.
	UnknownModule = "unknown"

	// CodeNoError is the reserved "no error" code.
	CodeNoError = 0
)

var errUnknownError = New(UnknownModule, 1, "unknown error")

// Re-exports so this package can be used as a replacement for errors.
var (
	As     = errors.As
	Is     = errors.Is
	Unwrap = errors.Unwrap
)

var registeredErrors sync.Map

type codedError struct {
	module string
	code   uint32
	msg    string
}

func (e *codedError) Error() string {
	return e.msg
}

type codedErrorWithContext struct {
	err     error
	context string
}

func (e *codedErrorWithContext) Error() string {
	return fmt.Sprintf("%v: %s", e.err, e.context)
}

func (e *codedErrorWithContext) Unwrap() error {
	return e.err
}

// WithContext wraps err with a human readable context string. The result
// still matches err under Is, and reports the same module and code.
func WithContext(err error, context string) error {
	if context == "" {
		return err
	}

	return &codedErrorWithContext{
		err:     err,
		context: context,
	}
}

// Context returns the context attached by WithContext, if any.
func Context(err error) string {
	var cec *codedErrorWithContext
	if err != nil && As(err, &cec) {
		return cec.context
	}
	return ""
}

// New creates and registers a new error.
//
// The module and code pair must be unique and the code must not be the
// reserved CodeNoError, otherwise New panics. Errors are meant to be
// created once, in package level variable declarations.
func New(module string, code uint32, msg string) error {
	if code == CodeNoError {
		panic(fmt.Errorf("errors: code is the reserved 'no error' code: %d", CodeNoError))
	}

	e := &codedError{
		module: module,
		code:   code,
		msg:    msg,
	}

	key := errorKey(module, code)
	if prev, loaded := registeredErrors.LoadOrStore(key, e); loaded {
		panic(fmt.Errorf("errors: already registered: %s (existing: %s)", key, prev))
	}

	return e
}

// Code returns the module and code for the given error.
//
// Errors not created by New report the unknown error's module and code,
// a nil error reports an empty module and CodeNoError.
func Code(err error) (string, uint32) {
	if err == nil {
		return "", CodeNoError
	}

	var ce *codedError
	if !As(err, &ce) {
		ce = errUnknownError.(*codedError)
	}

	return ce.module, ce.code
}

func errorKey(module string, code uint32) string {
	return fmt.Sprintf("%s-%d", module, code)
}
