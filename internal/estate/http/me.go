package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
)

// MeHandler serves the signed-in account.
type MeHandler struct {
	Accounts     *service.AccountService
	Sessions     *service.SessionService
	CookieSecure bool
	Now          func() time.Time
}

// HandleGet handles GET /v1/me
//
//	@Summary		Current account
//	@Tags			Me
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Account
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	p, err := h.Accounts.Get(r.Context(), a, a.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(p))
}

// HandleUpdate handles PUT /v1/me
//
//	@Summary		Update the current account
//	@Description	Changes the given fields and re-issues the session token, since the username claim may change.
//	@Tags			Me
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.UpdateAccountRequest	true	"Fields to change"
//	@Success		200		{object}	authsdk.SessionResponse			"New session for the updated account"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse			"Role changes need an administrator"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Email or username already in use"
//	@Router			/v1/me [put].
func (h *MeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.UpdateAccountRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.Accounts.Update(ctx, a, a.AccountID, fromUpdateRequest(req)); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.Sessions.Refresh(ctx, a.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	writeSession(w, http.StatusOK, s, now, h.CookieSecure)
}

// HandleDelete handles DELETE /v1/me
//
//	@Summary		Delete the current account
//	@Tags			Me
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Router			/v1/me [delete].
func (h *MeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.Accounts.Delete(r.Context(), a, a.AccountID); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.ClearSessionCookie(w, h.CookieSecure)
	w.WriteHeader(http.StatusNoContent)
}
