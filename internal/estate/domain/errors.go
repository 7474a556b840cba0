package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds. Every failure that crosses a service boundary wraps exactly
// one of these so the transport can map it without inspecting messages.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrTooManyAttempts     = errors.New("too many attempts")
	ErrExpired             = errors.New("expired")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// FieldError reports a single malformed or missing input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a *FieldError.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// LockedError is returned while an identifier is locked out.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %s", FormatClock(e.Remaining))
}

func (e *LockedError) Is(target error) bool { return target == ErrTooManyAttempts }

// FormatClock renders d as HH:MM:SS, rounding partial seconds up so a
// client never retries a moment too early.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
