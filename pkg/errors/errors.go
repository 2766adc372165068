// Package errors provides structured error handling for columna
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/columna/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNullInput reports a required pointer/reference argument that was absent
	ErrorTypeNullInput ErrorType = "null_input"
	// ErrorTypeIllegalInput reports a numeric argument violating a precondition
	ErrorTypeIllegalInput ErrorType = "illegal_input"
	// ErrorTypeAccessOutOfRange reports an index or segment outside the legal bounds
	ErrorTypeAccessOutOfRange ErrorType = "access_out_of_range"
	// ErrorTypeTypeMismatch reports a kind that does not match the column's actual kind
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeInvalidType reports a kind fundamentally unsupported for the operation
	ErrorTypeInvalidType ErrorType = "invalid_type"
	// ErrorTypeIncompatibleInput reports two columns that are not comparable
	ErrorTypeIncompatibleInput ErrorType = "incompatible_input"
	// ErrorTypeDataNotFound reports a reduction over a column with no valid elements
	ErrorTypeDataNotFound ErrorType = "data_not_found"
	// ErrorTypeDivisionByZero reports a scalar division by an exact zero constant
	ErrorTypeDivisionByZero ErrorType = "division_by_zero"
	// ErrorTypeUnspecified reports an internal invariant violation with no dedicated kind
	ErrorTypeUnspecified ErrorType = "unspecified"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
