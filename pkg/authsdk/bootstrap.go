package authsdk

import (
	"context"
	"net/http"
)

// Bootstrap creates the first administrator. It only succeeds once, on a
// service with no accounts, with the configured bootstrap token.
func (c *SDKClient) Bootstrap(
	ctx context.Context,
	token string,
	req BootstrapRequest,
) (*Account, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", "", req, map[string]string{
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var account Account
	if err := decodeJSON(resp, &account, http.StatusCreated); err != nil {
		return nil, err
	}

	return &account, nil
}
