package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Handlers and services MUST use these constants
// instead of hardcoded strings.
const (
	// Validation (400)
	ErrCodeValidationEmptyRequest      ErrorCode = "validation_empty_request"
	ErrCodeValidationEmptyLocation     ErrorCode = "validation_empty_location"
	ErrCodeValidationAmbiguousLocation ErrorCode = "validation_ambiguous_location"
	ErrCodeValidationInvalidDate       ErrorCode = "validation_invalid_date"
	ErrCodeValidationDateRange         ErrorCode = "validation_date_range_invalid"
	ErrCodeValidationMissingField      ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidJSON       ErrorCode = "validation_invalid_json"

	// Upstream (502)
	ErrCodeUpstreamWeather     ErrorCode = "upstream_weather_unavailable"
	ErrCodeUpstreamGeolocation ErrorCode = "upstream_geolocation_unavailable"
	ErrCodeUpstreamGenerative  ErrorCode = "upstream_generative_unavailable"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	// Generative output (unified variant feeding the fallback planner)
	ErrCodeGenerativeInvalidOutput ErrorCode = "generative_invalid_output"

	// Internal (500)
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway // 502
	case c == ErrCodeGenerativeInvalidOutput:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the
// service. All domain and handler errors should be expressed as AppError to
// enable consistent formatting, HTTP status mapping, and error chain support.
//
// AppError is reserved for errors that cross the API boundary (rejected
// input, transport failures). Failures inside the planning pipeline never
// surface as AppError: they degrade to the PlanError branch of PlanOutcome.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
