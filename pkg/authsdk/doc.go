/*
Package authsdk provides a client SDK for the estate service.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: unauthenticated operations (registration, sign-in, password
    reset, public listings, health) and creation of Sessions
  - Session: operations on behalf of a signed-in account

	client := authsdk.NewSDKClient("https://estate.example.com")

	// Registration is gated by an emailed one-time code
	err := client.RequestOtp(ctx, authsdk.OtpRequest{Username: "jane", Email: "jane@example.com", Role: "User"})
	session, err := client.Register(ctx, authsdk.RegisterRequest{
		Email: "jane@example.com", Otp: code, Username: "jane",
		Password: "correct-horse-battery", Role: "User", Phone: "0412345678",
	})

	// Sign in with a username or an email address
	session, err := client.Login(ctx, "jane@example.com", "correct-horse-battery")

# Sessions

Session tokens are stateless JWTs with a fixed lifetime and no refresh.
Once a session expires every method returns ErrSessionExpired and the
caller signs in again. UpdateMe swaps in the token the service re-issues
after a profile change.

# Error Handling

Non-2xx responses come back as typed errors:

  - *APIError carries the status code, error code and description
  - *LockoutError is returned for 429 responses, either because the
    identifier is locked out after repeated failed sign-ins or because the
    per-IP limiter tripped; RetryAfter says when to try again

Example:

	session, err := client.Login(ctx, identifier, password)
	if le, ok := authsdk.IsLockout(err); ok {
		fmt.Println("locked, try again in", le.TimeLeft)
		return
	}

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
