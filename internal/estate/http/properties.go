package http

import (
	"net/http"

	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/httpx"
)

// PropertiesHandler serves listings. Reads are public.
type PropertiesHandler struct {
	Properties *service.PropertyService
}

// HandleList handles GET /v1/properties
//
//	@Summary		List properties
//	@Tags			Properties
//	@Produce		json
//	@Success		200	{array}		authsdk.Property
//	@Failure		503	{object}	authsdk.ErrorResponse	"Store unavailable"
//	@Router			/v1/properties [get].
func (h *PropertiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Properties.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProperties(list))
}

// HandleSearch handles GET /v1/properties/search
//
//	@Summary		Search properties
//	@Description	Case-insensitive match on title and description, at most 20 results.
//	@Tags			Properties
//	@Produce		json
//	@Param			q	query		string	true	"Search text"
//	@Success		200	{array}		authsdk.Property
//	@Failure		400	{object}	authsdk.ErrorResponse	"Missing query"
//	@Router			/v1/properties/search [get].
func (h *PropertiesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	list, err := h.Properties.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProperties(list))
}

// HandleGet handles GET /v1/properties/{id}
//
//	@Summary		Get a property
//	@Tags			Properties
//	@Produce		json
//	@Param			id	path		string	true	"Property ID"
//	@Success		200	{object}	authsdk.Property
//	@Failure		404	{object}	authsdk.ErrorResponse	"Property not found"
//	@Router			/v1/properties/{id} [get].
func (h *PropertiesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Properties.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProperty(p))
}

// HandleCreate handles POST /v1/properties
//
//	@Summary		Create a property
//	@Tags			Properties
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PropertyRequest	true	"Listing"
//	@Success		201		{object}	authsdk.Property
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Only agents and administrators list properties"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Title already in use"
//	@Router			/v1/properties [post].
func (h *PropertiesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.PropertyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Properties.Create(r.Context(), a, fromPropertyRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProperty(p))
}

// HandleUpdate handles PUT /v1/properties/{id}
//
//	@Summary		Replace a property
//	@Description	Agents may only change their own listings.
//	@Tags			Properties
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Property ID"
//	@Param			request	body		authsdk.PropertyRequest	true	"Listing"
//	@Success		200		{object}	authsdk.Property
//	@Failure		400		{object}	authsdk.ErrorResponse	"Validation failed"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Not permitted"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Property not found"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Title already in use"
//	@Router			/v1/properties/{id} [put].
func (h *PropertiesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.PropertyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Properties.Update(r.Context(), a, r.PathValue("id"), fromPropertyRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProperty(p))
}

// HandleDelete handles DELETE /v1/properties/{id}
//
//	@Summary		Delete a property
//	@Tags			Properties
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Property ID"
//	@Success		204
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not permitted"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Property not found"
//	@Router			/v1/properties/{id} [delete].
func (h *PropertiesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(r)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.Properties.Delete(r.Context(), a, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
