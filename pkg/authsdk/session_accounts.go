package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListAccounts requires an administrator.
func (s *Session) ListAccounts(ctx context.Context) ([]Account, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/accounts", nil)
	if err != nil {
		return nil, err
	}

	var out []Account
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetAccount(ctx context.Context, id string) (*Account, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var a Account
	if err := decodeJSON(resp, &a, http.StatusOK); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount adds an account without a registration code. Requires an
// administrator.
func (s *Session) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/accounts", req)
	if err != nil {
		return nil, err
	}

	var a Account
	if err := decodeJSON(resp, &a, http.StatusCreated); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Session) UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*Account, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/accounts/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}

	var a Account
	if err := decodeJSON(resp, &a, http.StatusOK); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Session) DeleteAccount(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/accounts/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
