package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/estate/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeExpired            = "expired"
	ErrorCodeTooManyAttempts    = "too_many_attempts"
	ErrorCodeRateLimitExceeded  = "rate_limit_exceeded"
	ErrorCodeServiceUnavailable = "service_unavailable"
	ErrorCodeServerError        = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is a non-2xx response. It is used both by the server (to write
// responses) and by the SDK client (to represent them).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable code (e.g., "invalid_request")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// Field is set on validation errors
	Field string `json:"field,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
		Field:            e.Field,
	})
}

// NewAPIError creates a new APIError with the given status code, error code, and description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the body is not a well-formed JSON object.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "request body must be a single valid JSON object",
	}

	// ErrInvalidToken is returned when the session token is missing, invalid or expired.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the session token is missing, invalid or expired",
	}

	// ErrServerError hides unexpected failures from the client.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrServiceUnavailable is returned when a backing store cannot be reached.
	// The request is safe to retry.
	ErrServiceUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeServiceUnavailable,
		Description: "a backing service is unavailable, retry later",
	}
)

// ============================================================================
// Lockout Error
// ============================================================================

// LockoutError is returned with 429 while an identifier is locked out after
// too many failed sign-ins, and also when the per-IP limiter trips.
type LockoutError struct {
	// Code is ErrorCodeTooManyAttempts for lockouts and
	// ErrorCodeRateLimitExceeded for the per-IP limiter
	Code string

	// Description is the server's human-readable message
	Description string

	// RetryAfter is how long until another attempt can succeed
	RetryAfter time.Duration

	// TimeLeft is RetryAfter as HH:MM:SS, as rendered by the server
	TimeLeft string
}

// Error implements the error interface.
func (e *LockoutError) Error() string {
	return fmt.Sprintf("%s: %s (retry after %s)", e.Code, e.Description, e.RetryAfter)
}

// WriteError writes the lockout as 429 with a Retry-After header.
func (e *LockoutError) WriteError(w http.ResponseWriter) {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	httpx.WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:             e.Code,
		ErrorDescription:  e.Description,
		RetryAfterSeconds: secs,
		TimeLeft:          e.TimeLeft,
	})
}

// IsLockout reports whether err is a *LockoutError.
func IsLockout(err error) (*LockoutError, bool) {
	var le *LockoutError
	ok := errors.As(err, &le)
	return le, ok
}

// StatusCode returns the HTTP status of an SDK error, or 0 for transport
// failures.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	if _, ok := IsLockout(err); ok {
		return http.StatusTooManyRequests
	}
	return 0
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse converts a non-2xx response into a typed error.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	parsed := json.Unmarshal(body, &errResp) == nil && errResp.Error != ""

	if resp.StatusCode == http.StatusTooManyRequests {
		le := &LockoutError{
			Code:        ErrorCodeTooManyAttempts,
			Description: "too many attempts",
		}
		if parsed {
			le.Code = errResp.Error
			le.Description = errResp.ErrorDescription
			le.RetryAfter = time.Duration(errResp.RetryAfterSeconds) * time.Second
			le.TimeLeft = errResp.TimeLeft
		}
		if le.RetryAfter == 0 {
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				le.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return le
	}

	if parsed {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Field:       errResp.Field,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
