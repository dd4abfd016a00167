// Package errors defines the error taxonomy of the job board. Every failure that reaches the
// HTTP layer carries an ErrorCode which decides its status and whether its text may be shown.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	// ErrCodeNotFound: unknown route or view.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation: bad browser input (filter form, pager direction, foreign cursor).
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeTransport: the jobs API was unreachable or answered with a non-2xx status.
	ErrCodeTransport ErrorCode = "transport"
	// ErrCodeDecode: the jobs API answered with a body that could not be decoded.
	ErrCodeDecode ErrorCode = "decode"
	// ErrCodeTimeout: a remote call ran past its deadline.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled: the browser went away mid-request.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeInternal: anything else.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError is a coded error. Message is safe to show for validation errors only.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending form field of a validation error.
	Field string
	// Status is the remote HTTP status of a transport error, 0 when there was no answer.
	Status int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// NotFound returns a not_found error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Validation returns a validation error not tied to a field.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField returns a validation error for one form field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// RemoteStatus returns a transport error for a non-2xx answer.
func RemoteStatus(status int, message string) *AppError {
	return &AppError{Code: ErrCodeTransport, Message: message, Status: status}
}

// Internal returns an internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap attaches code and message to err. It returns nil for a nil err.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether the outermost AppError in err's chain has the given code.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsNotFound reports a not_found error.
func IsNotFound(err error) bool { return Is(err, ErrCodeNotFound) }

// IsValidation reports a validation error.
func IsValidation(err error) bool { return Is(err, ErrCodeValidation) }

// IsTransport reports a transport error.
func IsTransport(err error) bool { return Is(err, ErrCodeTransport) }

// IsDecode reports a decode error.
func IsDecode(err error) bool { return Is(err, ErrCodeDecode) }

// IsTimeout reports a timeout error.
func IsTimeout(err error) bool { return Is(err, ErrCodeTimeout) }

// IsRemote reports a failure of the jobs API itself: transport, decode or timeout.
func IsRemote(err error) bool {
	switch GetCode(err) {
	case ErrCodeTransport, ErrCodeDecode, ErrCodeTimeout:
		return true
	default:
		return false
	}
}

// GetCode returns the code of err, or "" when err carries no AppError.
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the offending field of a validation error, or "".
func GetField(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Field
	}
	return ""
}

// GetStatus returns the remote HTTP status carried by err, or 0.
func GetStatus(err error) int {
	if appErr, ok := asAppError(err); ok {
		return appErr.Status
	}
	return 0
}
