package shttperr

import (
	"errors"
)

// Error is an error that knows how it should be reported over http.
type Error struct {
	error

	// status is the response status.
	status int

	// code is a stable, machine readable error code.
	code string

	OriginalError error
}

// New creates a new error instance.
func New(status int, msg, code string) *Error {
	return &Error{
		error:  errors.New(msg),
		status: status,
		code:   code,
	}
}

// Status returns the status code.
func (e Error) Status() int {
	return e.status
}

// Code returns the error code.
func (e Error) Code() string {
	return e.code
}

// SetOriginal sets the original error.
func (e *Error) SetOriginal(err error) *Error {
	e.OriginalError = err
	return e
}

// Unwrap exposes the original error to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.OriginalError
}
