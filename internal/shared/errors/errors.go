package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError. The HTTP layer maps each type to a
// status code and a log level.
type ErrorType string

const (
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeUnauthorized     ErrorType = "unauthorized"
	ErrorTypeForbidden        ErrorType = "forbidden"
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	ErrorTypeRateLimited      ErrorType = "rate_limited"
	// ErrorTypeUnavailable marks a backing store that cannot be reached.
	ErrorTypeUnavailable ErrorType = "unavailable"
	ErrorTypeInternal    ErrorType = "internal"
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, message string, err error) error {
	return &AppError{Type: t, Message: message, Err: err}
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrorTypeNotFound, fmt.Sprintf(format, args...), nil)
}

func Validation(message string) error {
	return newError(ErrorTypeValidation, message, nil)
}

func Validationf(format string, args ...any) error {
	return newError(ErrorTypeValidation, fmt.Sprintf(format, args...), nil)
}

// WrapValidation keeps err as the cause, e.g. a malformed handle.
func WrapValidation(message string, err error) error {
	return newError(ErrorTypeValidation, message, err)
}

func Conflictf(format string, args ...any) error {
	return newError(ErrorTypeConflict, fmt.Sprintf(format, args...), nil)
}

func Unauthorized(message string) error {
	return newError(ErrorTypeUnauthorized, message, nil)
}

func Forbidden(message string) error {
	return newError(ErrorTypeForbidden, message, nil)
}

func MethodNotAllowed(method string) error {
	return newError(ErrorTypeMethodNotAllowed, fmt.Sprintf("method %s not allowed", method), nil)
}

func RateLimited(message string) error {
	return newError(ErrorTypeRateLimited, message, nil)
}

func Unavailable(message string, err error) error {
	return newError(ErrorTypeUnavailable, message, err)
}

func WrapInternal(message string, err error) error {
	return newError(ErrorTypeInternal, message, err)
}

// GetType returns the type of the outermost AppError in err's chain.
// Errors that carry none are internal.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

func Is(err error, errorType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errorType
}
