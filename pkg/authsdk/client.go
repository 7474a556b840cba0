package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the estate service.
// It provides access to unauthenticated operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new estate service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login signs in and returns an authenticated session. While the
// identifier is locked out the error is a *LockoutError.
func (c *SDKClient) Login(ctx context.Context, identifier, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login", "", LoginRequest{
		Identifier: identifier,
		Password:   password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var sr SessionResponse
	if err := decodeJSON(resp, &sr, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &sr), nil
}

// NewSessionFromToken wraps an existing access token, e.g. one read back
// from the session cookie.
func (c *SDKClient) NewSessionFromToken(accessToken string, expiresIn int) *Session {
	return &Session{
		client:      c,
		accessToken: accessToken,
		expiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
}
