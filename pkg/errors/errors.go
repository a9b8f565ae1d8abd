package errors

import (
	"errors"
	"fmt"
)

// Standard error codes
const (
	CodeValidationError       = "VALIDATION_ERROR"
	CodeNotFound              = "RESOURCE_NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeInternalError         = "INTERNAL_ERROR"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
)

// AppError represents an application error with a machine-readable code
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return &AppError{
		Code:    CodeValidationError,
		Message: message,
	}
}

// ErrNotFound creates a not-found error for the named resource
func ErrNotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// ErrInsufficientInventory creates a business rejection for unfulfillable stock requests
func ErrInsufficientInventory(message string) *AppError {
	return &AppError{
		Code:    CodeInsufficientInventory,
		Message: message,
	}
}

// ErrInternal creates an internal error
func ErrInternal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
