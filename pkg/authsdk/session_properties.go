package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CreateProperty requires an Agent or Admin.
func (s *Session) CreateProperty(ctx context.Context, req PropertyRequest) (*Property, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/properties", req)
	if err != nil {
		return nil, err
	}

	var p Property
	if err := decodeJSON(resp, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProperty replaces a listing. Agents may only update their own.
func (s *Session) UpdateProperty(ctx context.Context, id string, req PropertyRequest) (*Property, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/properties/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}

	var p Property
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) DeleteProperty(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/properties/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
