package authsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrSessionExpired is returned before a request is sent on an expired
// session. Sessions cannot be refreshed; sign in again.
var ErrSessionExpired = errors.New("authsdk: session expired")

// Session represents a signed-in account.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
	account     Account
}

// newSession creates a new authenticated session from a session response.
func newSession(client *SDKClient, sr *SessionResponse) *Session {
	return &Session{
		client:      client,
		accessToken: sr.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(sr.ExpiresIn) * time.Second),
		account:     sr.Account,
	}
}

func (s *Session) update(sr *SessionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = sr.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(sr.ExpiresIn) * time.Second)
	s.account = sr.Account
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// Account returns the account as of sign-in or the last profile update.
func (s *Session) Account() Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// ExpiresAt is when the access token stops being accepted.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accessToken == "" || (!s.expiresAt.IsZero() && time.Now().After(s.expiresAt)) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

// doAuthRequest performs an authenticated HTTP request using the session's access token.
func (s *Session) doAuthRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.doRequest(ctx, method, path, token, payload, nil)
}

// Logout clears the session cookie server-side and forgets the token.
// Tokens are stateless, so a copy of the token stays valid until it
// expires.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
	return nil
}

// Me returns the signed-in account.
func (s *Session) Me(ctx context.Context) (*Account, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/me", nil)
	if err != nil {
		return nil, err
	}

	var a Account
	if err := decodeJSON(resp, &a, http.StatusOK); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateMe changes the signed-in account. The service re-issues the token
// and the session switches to it.
func (s *Session) UpdateMe(ctx context.Context, req UpdateAccountRequest) (*Account, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/v1/me", req)
	if err != nil {
		return nil, err
	}

	var sr SessionResponse
	if err := decodeJSON(resp, &sr, http.StatusOK); err != nil {
		return nil, err
	}
	s.update(&sr)
	return &sr.Account, nil
}

// DeleteMe deletes the signed-in account. The session is unusable afterwards.
func (s *Session) DeleteMe(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/me", nil)
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
	return nil
}
