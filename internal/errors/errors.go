// Package errors provides consistent error types for the tracker.
// It defines two main categories: UserError (fixable by the user, shown
// verbatim) and SystemError (store or filesystem failures).
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrLogNotFound      = errors.New("log not found")
	ErrBlankName        = errors.New("task name cannot be blank")
	ErrInvalidStep      = errors.New("step must be greater than 0")
	ErrInvalidTarget    = errors.New("target must be greater than 0")
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidBackup    = errors.New("invalid backup file")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrDatabaseLocked   = errors.New("database locked by another process")
	ErrPermissionDenied = errors.New("permission denied")
)

// UserError represents an error that the user can fix.
// Examples: blank task name, invalid step, malformed backup file.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
	Cause      error  // Sentinel or underlying error (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// Invalid wraps a sentinel as a UserError so errors.Is keeps matching it.
func Invalid(sentinel error, field, value string) *UserError {
	return &UserError{
		Message: sentinel.Error(),
		Field:   field,
		Value:   value,
		Cause:   sentinel,
	}
}

// SystemError represents a system-level error that the user cannot directly fix.
// Examples: database failure, unwritable backup path.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
	Stack   []Frame
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Stack:   callers(1),
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
		Stack:   callers(1),
	}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Is is re-exported from the standard errors package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is re-exported from the standard errors package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is re-exported from the standard errors package.
func New(text string) error {
	return errors.New(text)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
