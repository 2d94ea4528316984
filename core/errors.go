package core

import "github.com/pkg/errors"

// FieldError attaches a message to a single input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries input-level failures: an underlying cause, a set of
// per-field messages, or both. The HTTP layer flattens Fields into the
// response body.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdownError asks the server loop for a graceful stop instead of letting
// an unrecoverable condition crash the request path.
type shutdownError struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdownError{message: msg}
}

func (s shutdownError) Error() string { return s.message }

// IsShutdown reports whether err, at its cause, requests a graceful stop.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdownError)
	return ok
}
