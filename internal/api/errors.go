package api

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents an HTTP-level error returned by the service.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 Unauthorized error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsForbidden returns true if the error is a 403 Forbidden error.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == 403
}

// IsRateLimited returns true if the error is a 429 Too Many Requests error.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsAPIError checks if an error is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// ResultError is returned when the service answers 200 with a non-zero
// result code in the response envelope.
type ResultError struct {
	ResultCode ResultCode
	Messages   []string
}

// Error implements the error interface.
func (e *ResultError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("request rejected (result code %d)", e.ResultCode)
	}
	return strings.Join(e.Messages, "; ")
}

// IsCaptchaRequired reports whether the login requires a captcha.
func (e *ResultError) IsCaptchaRequired() bool {
	return e.ResultCode == ResultCodeCaptcha
}

// IsResultError checks if an error is a ResultError and returns it.
func IsResultError(err error) (*ResultError, bool) {
	var resErr *ResultError
	ok := errors.As(err, &resErr)
	return resErr, ok
}

// UserMessage returns the message shown to the user for a failed request:
// the first server message when there is one, otherwise a generic text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if resErr, ok := IsResultError(err); ok && len(resErr.Messages) > 0 {
		return resErr.Messages[0]
	}
	if apiErr, ok := IsAPIError(err); ok {
		if apiErr.IsUnauthorized() || apiErr.IsForbidden() {
			return "You are not authorized"
		}
		if apiErr.IsRateLimited() {
			return "Too many requests, try again later"
		}
	}
	if errors.Is(err, ErrNotFound) {
		return err.Error()
	}
	return "Some error occurred"
}

// ErrNotFound is returned by the demo backend for unknown ids.
var ErrNotFound = errors.New("not found")
