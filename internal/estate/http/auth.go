package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
)

// AuthHandler serves registration, sign-in and password reset.
type AuthHandler struct {
	Sessions     *service.SessionService
	Registration *service.RegistrationService
	Reset        *service.PasswordResetService
	CookieSecure bool
	Now          func() time.Time
}

func (h *AuthHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// HandleOtp handles POST /v1/auth/otp
//
//	@Summary		Request a registration code
//	@Description	Emails a 6-digit code valid for 10 minutes. A new request replaces any earlier code for the same email.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.OtpRequest		true	"username, email, role (User or Agent)"
//	@Success		202		{object}	authsdk.MessageResponse	"Code sent"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email or username already in use"
//	@Failure		503		{object}	authsdk.ErrorResponse	"Email could not be sent"
//	@Router			/v1/auth/otp [post].
func (h *AuthHandler) HandleOtp(w http.ResponseWriter, r *http.Request) {
	var req authsdk.OtpRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.Registration.IssueOtp(r.Context(), service.OtpRequest{
		Email:    req.Email,
		Username: req.Username,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, authsdk.MessageResponse{Message: "verification code sent"})
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register with a code
//	@Description	Verifies the emailed code, creates the account and signs it in. A code works once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Registration"
//	@Success		201		{object}	authsdk.SessionResponse		"Session for the new account"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Validation failed or code expired"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Wrong code"
//	@Failure		404		{object}	authsdk.ErrorResponse		"No pending code for this email"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Email or username already in use"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Registration.Register(ctx, service.Registration{
		Email:    req.Email,
		Code:     req.Otp,
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, expiresAt, err := h.Sessions.Tokens.Issue(account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSession(w, http.StatusCreated, service.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account.Profile(),
	}, h.now(), h.CookieSecure)
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Sign in
//	@Description	Signs in with a username or email address. Three failed attempts lock the identifier for three hours.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"identifier and password"
//	@Success		200		{object}	authsdk.SessionResponse	"Session token, also set as the access_token cookie"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Wrong password"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Unknown identifier"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Locked out, see retry_after_seconds and time_left"
//	@Failure		503		{object}	authsdk.ErrorResponse	"Lockout store unavailable"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.Sessions.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSession(w, http.StatusOK, s, h.now(), h.CookieSecure)
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Sign out
//	@Description	Clears the session cookie. Tokens are stateless and stay valid until they expire.
//	@Tags			Auth
//	@Success		204
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w, h.CookieSecure)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleForgot handles POST /v1/auth/password/forgot
//
//	@Summary		Request a password reset
//	@Description	Emails a single-use reset link valid for one hour. A new request replaces the previous link.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ForgotPasswordRequest	true	"identifier"
//	@Success		202		{object}	authsdk.MessageResponse			"Link sent"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Unknown identifier"
//	@Failure		503		{object}	authsdk.ErrorResponse			"Email could not be sent"
//	@Router			/v1/auth/password/forgot [post].
func (h *AuthHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Reset.RequestReset(r.Context(), req.Identifier); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, authsdk.MessageResponse{Message: "password reset link sent"})
}

// HandleReset handles POST /v1/auth/password/reset and
// PUT /v1/auth/password/reset/{resetToken}
//
//	@Summary		Reset the password
//	@Description	Redeems a reset token once. Unknown, expired and used tokens are all rejected alike.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResetPasswordRequest	true	"resetToken (unless in the path) and newPassword"
//	@Success		200		{object}	authsdk.MessageResponse			"Password changed"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or expired token"
//	@Router			/v1/auth/password/reset [post]
//	@Router			/v1/auth/password/reset/{resetToken} [put].
func (h *AuthHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token := req.ResetToken
	if v := r.PathValue("resetToken"); v != "" {
		token = v
	}

	if err := h.Reset.Redeem(r.Context(), token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "password has been reset"})
}
