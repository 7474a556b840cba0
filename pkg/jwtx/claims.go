package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the fixed validity window of a session token.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the session-token claims. The account id is carried both in
// "sub" and in "account_id" so clients do not need to know JWT conventions.
type Claims struct {
	jwt.RegisteredClaims

	// AccountID of the authenticated account
	AccountID string `json:"account_id"`

	// Username at the time the token was issued
	Username string `json:"username"`

	// Role is one of "User", "Agent" or "Admin"
	Role string `json:"role"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(accountID, username, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		AccountID: accountID,
		Username:  username,
		Role:      role,
	}
}

// NewJTI returns a random identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn’t expired (exp) and isn’t before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC())
}

// ValidateExpiryAt is ValidateExpiry against an explicit clock.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	// Check expired (exp)
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateIdentity ensures the custom claims are present and consistent.
func (c *Claims) ValidateIdentity() error {
	if c.AccountID == "" || c.Role == "" {
		return ErrInvalidClaim
	}
	if c.Subject != "" && c.Subject != c.AccountID {
		return ErrInvalidClaim
	}
	return nil
}
