package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListContacts requires an Agent or Admin.
func (s *Session) ListContacts(ctx context.Context) ([]Contact, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/contacts", nil)
	if err != nil {
		return nil, err
	}

	var out []Contact
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetContact(ctx context.Context, id string) (*Contact, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/contacts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var c Contact
	if err := decodeJSON(resp, &c, http.StatusOK); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteContact requires an Admin.
func (s *Session) DeleteContact(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/contacts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
