package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers. Every business failure maps to one of
// these so clients can branch on machine-readable codes.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodeInvalidOrderState = "invalid_order_state"
	CodeBusinessLogic     = "business_logic_error"
	CodeDuplicate         = "duplicate_resource"
	CodeUnauthorized      = "unauthorized"
	CodeInternal          = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeInsufficientStock, fmt.Errorf(format, args...))
}

func InvalidOrderState(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeInvalidOrderState, fmt.Errorf(format, args...))
}

func BusinessLogic(format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, CodeBusinessLogic, fmt.Errorf(format, args...))
}

func Duplicate(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeDuplicate, fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Errorf(format, args...))
}

// From extracts an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// IsCode reports whether err carries the given API error code.
func IsCode(err error, code string) bool {
	ae := From(err)
	return ae != nil && ae.Code == code
}
