package http

import (
	"net/http"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
)

// AccountsHandler handles all account administration endpoints.
type AccountsHandler struct {
	Accounts *service.AccountService
}

// HandleList handles GET /v1/accounts
//
//	@Summary		List accounts
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		authsdk.Account
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	list, err := h.Accounts.List(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccounts(list))
}

// HandleAgents handles GET /v1/agents
//
//	@Summary		List agents
//	@Description	Public contact cards for every agent account.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{array}		authsdk.Agent
//	@Failure		503	{object}	authsdk.ErrorResponse	"Store unavailable"
//	@Router			/v1/agents [get].
func (h *AccountsHandler) HandleAgents(w http.ResponseWriter, r *http.Request) {
	list, err := h.Accounts.ListAgents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAgents(list))
}

// HandleCreate handles POST /v1/accounts
//
//	@Summary		Create an account
//	@Description	Adds an account directly, without a registration code.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CreateAccountRequest	true	"New account"
//	@Success		201		{object}	authsdk.Account
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email or username already in use"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.CreateAccountRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Accounts.Create(r.Context(), a, service.NewAccount{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAccount(p))
}

// HandleGet handles GET /v1/accounts/{id}
//
//	@Summary		Get an account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	authsdk.Account
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not permitted"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Account not found"
//	@Router			/v1/accounts/{id} [get].
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	p, err := h.Accounts.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(p))
}

// HandleUpdate handles PUT /v1/accounts/{id}
//
//	@Summary		Update an account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account ID"
//	@Param			request	body		authsdk.UpdateAccountRequest	true	"Fields to change"
//	@Success		200		{object}	authsdk.Account
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Not permitted"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Account not found"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email or username already in use"
//	@Router			/v1/accounts/{id} [put].
func (h *AccountsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	p, err := h.Accounts.Update(r.Context(), a, r.PathValue("id"), fromUpdateRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(p))
}

// HandleDelete handles DELETE /v1/accounts/{id}
//
//	@Summary		Delete an account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Account ID"
//	@Success		204
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not permitted"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Account not found"
//	@Router			/v1/accounts/{id} [delete].
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.Accounts.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
