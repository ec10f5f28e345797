// Package qerrors provides structured error handling for Quasar with
// error categorization, key-value context and cause preservation. It
// keeps error handling consistent across the bridge, frame and engine
// packages and plays well with errors.Is / errors.As.
//
// # Basic Usage
//
//	// Create a new error
//	err := qerrors.New(qerrors.ErrorTypeSchema, "column has no numeric mapping")
//
//	// Add context
//	err = err.WithDetail("column", "payload").WithDetail("type", "binary")
//
//	// Wrap existing errors
//	if err := seg.Seal(); err != nil {
//	    return qerrors.Wrap(err, qerrors.ErrorTypeData, "sealing segment failed").
//	        WithDetail("partition", part)
//	}
//
// Error types categorize failures for handling strategies: a schema
// error is always fatal to the whole materialization call, while a data
// error surfaced from a host engine simply propagates.
package qerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeSchema represents schema mapping errors; these fail a
	// materialization call before any task is dispatched
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeData represents data processing errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeNotFound represents resource not found errors
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict represents conflict errors (e.g. duplicate frame key)
	ErrorTypeConflict ErrorType = "conflict"
)

// Error is a structured error carrying a category, free-form message,
// optional cause, key-value details and the call stack captured at
// creation time.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is a single frame of the call stack captured when the
// error was created.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As
// over the whole chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key-value pair to the error and returns the
// same error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, 4)
	}
	e.Details[key] = value
	return e
}

// New creates a structured error of the given type.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a structured error with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with a type and message. A nil cause
// yields nil so call sites can wrap unconditionally.
func Wrap(cause error, errType ErrorType, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Stack:   captureStack(2),
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(cause error, errType ErrorType, format string, args ...interface{}) *Error {
	if cause == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Stack:   captureStack(2),
	}
}

// IsType reports whether err (or any error in its chain) is a
// structured error of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Type == errType {
			return true
		}
		if e.Cause == nil {
			break
		}
		err = e.Cause
	}
	return false
}

// TypeOf returns the type of the outermost structured error in the
// chain, or ErrorTypeInternal when err carries no category.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

const maxStackDepth = 16

func captureStack(skip int) []StackFrame {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)
	for {
		fr, more := frames.Next()
		stack = append(stack, StackFrame{
			Function: fr.Function,
			File:     fr.File,
			Line:     fr.Line,
		})
		if !more {
			break
		}
	}
	return stack
}
