package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error carrying the HTTP status code the handler should return.
// Services build these for expected failures (not found, conflict, forbidden,
// validation); anything else surfaces as 500.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New returns an Error with the given status code and message
func New(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a 404 error
func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

// Forbidden returns a 403 error
func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

// Conflict returns a 409 error
func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, format, args...)
}

// Unprocessable returns a 422 error
func Unprocessable(format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, format, args...)
}

// StatusOf extracts the HTTP status from err, defaulting to 500 when the
// error carries no code (including wrapped errors).
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
