package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// writeError is the single place where service errors become responses.
// Unexpected errors are logged here and nowhere else.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var locked *domain.LockedError
	if errors.As(err, &locked) {
		(&authsdk.LockoutError{
			Code:        authsdk.ErrorCodeTooManyAttempts,
			Description: "Too many failed attempts. Please try again later.",
			RetryAfter:  locked.Remaining,
			TimeLeft:    domain.FormatClock(locked.Remaining),
		}).WriteError(w)
		return
	}

	var field *domain.FieldError
	switch {
	case errors.Is(err, httpx.ErrBadBody):
		authsdk.ErrInvalidRequest.WriteError(w)

	case errors.As(err, &field):
		(&authsdk.APIError{
			StatusCode:  http.StatusBadRequest,
			Code:        authsdk.ErrorCodeValidation,
			Description: strings.ReplaceAll(err.Error(), "\n", "; "),
			Field:       field.Field,
		}).WriteError(w)

	case errors.Is(err, domain.ErrUnauthorized):
		writeKind(w, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized, err, domain.ErrUnauthorized)

	case errors.Is(err, domain.ErrForbidden):
		writeKind(w, http.StatusForbidden, authsdk.ErrorCodeForbidden, err, domain.ErrForbidden)

	case errors.Is(err, domain.ErrNotFound):
		writeKind(w, http.StatusNotFound, authsdk.ErrorCodeNotFound, err, domain.ErrNotFound)

	case errors.Is(err, domain.ErrConflict):
		writeKind(w, http.StatusConflict, authsdk.ErrorCodeConflict, err, domain.ErrConflict)

	case errors.Is(err, domain.ErrExpired):
		writeKind(w, http.StatusBadRequest, authsdk.ErrorCodeExpired, err, domain.ErrExpired)

	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Warn("upstream unavailable",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		w.Header().Set("Retry-After", "1")
		authsdk.ErrServiceUnavailable.WriteError(w)

	default:
		log.Error("unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		authsdk.ErrServerError.WriteError(w)
	}
}

// writeKind uses the service sentinel's message minus the kind prefix as
// the description. Service sentinels carry no internals.
func writeKind(w http.ResponseWriter, status int, code string, err, kind error) {
	desc := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	authsdk.NewAPIError(status, code, desc).WriteError(w)
}
