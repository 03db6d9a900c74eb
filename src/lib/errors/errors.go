package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an error
type ErrorType string

const (
	// ErrorTypeValidation represents invalid or missing input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuthentication represents failed integrity or freshness checks
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeConfiguration represents an invalid process configuration
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeInternal represents internal server errors
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Context map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}

	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}

	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
		Context: make(map[string]any),
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, errType ErrorType, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
		Context: make(map[string]any),
	}
}

// Is checks if any error in the chain is an AppError of the given type.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		var appErr *AppError

		if !errors.As(err, &appErr) {
			return false
		}

		if appErr.Type == errType {
			return true
		}

		err = appErr.Err
	}

	return false
}

// GetContext retrieves context information from an error
func GetContext(err error, key string) (any, bool) {
	var appErr *AppError

	if errors.As(err, &appErr) {
		val, ok := appErr.Context[key]
		return val, ok
	}

	return nil, false
}

// Common validation errors
var (
	ErrMissingRequired = New(ErrorTypeValidation, "missing required field")
	ErrInvalidFormat   = New(ErrorTypeValidation, "invalid format")
)
