package service

import (
	"fmt"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
)

// Every sentinel wraps one domain kind so the transport can map it.
var (
	ErrAccountNotFound    = fmt.Errorf("%w: account not found", domain.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	ErrInvalidResetToken  = fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)

	ErrOtpNotFound = fmt.Errorf("%w: no pending verification code for this email", domain.ErrNotFound)
	ErrOtpMismatch = fmt.Errorf("%w: invalid verification code", domain.ErrUnauthorized)
	ErrOtpExpired  = fmt.Errorf("%w: verification code has expired", domain.ErrExpired)

	ErrEmailTaken    = fmt.Errorf("%w: email already in use", domain.ErrConflict)
	ErrUsernameTaken = fmt.Errorf("%w: username already in use", domain.ErrConflict)
	ErrTitleTaken    = fmt.Errorf("%w: a listing with this title already exists", domain.ErrConflict)

	ErrPropertyNotFound = fmt.Errorf("%w: property not found", domain.ErrNotFound)
	ErrContactNotFound  = fmt.Errorf("%w: contact not found", domain.ErrNotFound)

	ErrNotPermitted   = fmt.Errorf("%w: not permitted", domain.ErrForbidden)
	ErrDispatchFailed = fmt.Errorf("%w: email could not be sent", domain.ErrUpstreamUnavailable)

	ErrBootstrapAlready      = fmt.Errorf("%w: system already bootstrapped", domain.ErrConflict)
	ErrBootstrapUnauthorized = fmt.Errorf("%w: unauthorized bootstrap attempt", domain.ErrUnauthorized)
)
