package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Callers MUST use these instead of hardcoded strings.
const (
	// Validation (400)
	ErrCodeValidationInvalidQuery ErrorCode = "validation_invalid_query"

	// Internal/Upstream (500/502)
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"

	// ErrCodeUpstreamForecast marks a failed forecast fetch: network error,
	// timeout, non-success status or an undecodable body.
	ErrCodeUpstreamForecast ErrorCode = "upstream_forecast_unavailable"

	// ErrCodeUpstreamNotification marks a failed notification send.
	ErrCodeUpstreamNotification ErrorCode = "upstream_notification_failed"

	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized error codes.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case s == string(ErrCodeUpstreamRateLimited):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type. It carries a code for
// status mapping and wraps the underlying cause for errors.Is/errors.As.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface. The wrapped cause is included so that
// console diagnostics show why an upstream call failed.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewFetchError wraps a forecast retrieval failure.
func NewFetchError(message string, err error) *AppError {
	return NewAppError(ErrCodeUpstreamForecast, message, err)
}

// NewSendError wraps a notification delivery failure.
func NewSendError(message string, err error) *AppError {
	return NewAppError(ErrCodeUpstreamNotification, message, err)
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// IsFetchError reports whether err is (or wraps) a forecast fetch failure.
func IsFetchError(err error) bool {
	return HasCode(err, ErrCodeUpstreamForecast)
}

// IsSendError reports whether err is (or wraps) a notification send failure.
func IsSendError(err error) bool {
	return HasCode(err, ErrCodeUpstreamNotification)
}
