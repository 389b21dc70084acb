// Package errors provides domain-specific error types and error handling utilities
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode int

const (
	ErrUnknown ErrorCode = iota

	// ErrValidation is malformed input to a parser or a command builder
	ErrValidation
	// ErrExecution means the racadm process could not be launched or reached
	ErrExecution
	// ErrCommandRejected means racadm ran but reported failure
	ErrCommandRejected

	// Job outcomes
	ErrJobFailed
	ErrJobTimedOut
	ErrJobInvalidState
	ErrCancelled

	ErrConfiguration
	ErrConnection
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:         "unknown",
	ErrValidation:      "validation",
	ErrExecution:       "execution",
	ErrCommandRejected: "command rejected",
	ErrJobFailed:       "job failed",
	ErrJobTimedOut:     "job timed out",
	ErrJobInvalidState: "job invalid state",
	ErrCancelled:       "cancelled",
	ErrConfiguration:   "configuration",
	ErrConnection:      "connection",
}

// String returns a short human readable name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error represents a domain-specific error with context
type Error struct {
	// Code identifies the error type
	Code ErrorCode

	// Message provides human-readable error details
	Message string

	// Op describes the operation that failed
	Op string

	// Cause is the underlying error that triggered this one
	Cause error

	// Context holds additional error context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements the errors.Is interface
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithOp adds an operation name to the error
func WithOp(err error, op string) error {
	if err == nil {
		return nil
	}

	e, ok := err.(*Error)
	if !ok {
		return &Error{
			Code:    ErrUnknown,
			Message: err.Error(),
			Op:      op,
			Cause:   err,
		}
	}

	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Op:      op,
		Cause:   e.Cause,
		Context: e.Context,
	}
}

// WithContext adds context to the error
func WithContext(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}

	e, ok := err.(*Error)
	if !ok {
		return &Error{
			Code:    ErrUnknown,
			Message: err.Error(),
			Cause:   err,
			Context: context,
		}
	}

	// Merge contexts if error already has context
	newContext := make(map[string]interface{}, len(e.Context)+len(context))
	for k, v := range e.Context {
		newContext[k] = v
	}
	for k, v := range context {
		newContext[k] = v
	}

	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Op:      e.Op,
		Cause:   e.Cause,
		Context: newContext,
	}
}

// New creates a new Error
func New(code ErrorCode, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ErrUnknown
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetContext returns the error context
func GetContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Context
	}
	return nil
}

// IsValidation returns true if the error is a validation error
func IsValidation(err error) bool {
	return GetCode(err) == ErrValidation
}

// IsExecution returns true if racadm could not be launched
func IsExecution(err error) bool {
	return GetCode(err) == ErrExecution
}

// IsCommandRejected returns true if racadm reported failure on stderr
func IsCommandRejected(err error) bool {
	return GetCode(err) == ErrCommandRejected
}

// IsCancelled returns true if the error is a cancelled error
func IsCancelled(err error) bool {
	return GetCode(err) == ErrCancelled
}

// IsJobError returns true for any terminal job outcome other than success
func IsJobError(err error) bool {
	switch GetCode(err) {
	case ErrJobFailed, ErrJobTimedOut, ErrJobInvalidState:
		return true
	}
	return false
}
