package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// RequestOtp asks the service to email a registration code.
func (c *SDKClient) RequestOtp(ctx context.Context, req OtpRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/otp", "", req, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusAccepted)
}

// Register completes a registration and signs the new account in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/register", "", req, nil)
	if err != nil {
		return nil, err
	}

	var sr SessionResponse
	if err := decodeJSON(resp, &sr, http.StatusCreated); err != nil {
		return nil, err
	}
	return newSession(c, &sr), nil
}

// ForgotPassword asks the service to email a reset link.
func (c *SDKClient) ForgotPassword(ctx context.Context, identifier string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/password/forgot", "", ForgotPasswordRequest{
		Identifier: identifier,
	}, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusAccepted)
}

// ResetPassword redeems a reset token from the emailed link.
func (c *SDKClient) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/auth/password/reset/"+url.PathEscape(resetToken), "",
		ResetPasswordRequest{NewPassword: newPassword}, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}
