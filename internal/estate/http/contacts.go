package http

import (
	"net/http"

	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
)

// ContactsHandler serves the contact form. Submitting is public.
type ContactsHandler struct {
	Contacts *service.ContactService
}

// HandleCreate handles POST /v1/contacts
//
//	@Summary		Submit an enquiry
//	@Tags			Contacts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ContactRequest	true	"Enquiry"
//	@Success		201		{object}	authsdk.Contact
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Router			/v1/contacts [post].
func (h *ContactsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ContactRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Contacts.Submit(r.Context(), fromContactRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toContact(c))
}

// HandleList handles GET /v1/contacts
//
//	@Summary		List enquiries
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		authsdk.Contact
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Agents and administrators only"
//	@Router			/v1/contacts [get].
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	list, err := h.Contacts.List(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toContacts(list))
}

// HandleGet handles GET /v1/contacts/{id}
//
//	@Summary		Get an enquiry
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Contact ID"
//	@Success		200	{object}	authsdk.Contact
//	@Failure		403	{object}	authsdk.ErrorResponse	"Agents and administrators only"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Contact not found"
//	@Router			/v1/contacts/{id} [get].
func (h *ContactsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	c, err := h.Contacts.Get(r.Context(), a, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toContact(c))
}

// HandleDelete handles DELETE /v1/contacts/{id}
//
//	@Summary		Delete an enquiry
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Contact ID"
//	@Success		204
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not an administrator"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Contact not found"
//	@Router			/v1/contacts/{id} [delete].
func (h *ContactsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.Contacts.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
