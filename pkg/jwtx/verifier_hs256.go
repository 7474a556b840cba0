package jwtx

import (
	"github.com/golang-jwt/jwt/v5"
)

// HS256Verifier validates JWTs signed with a shared HMAC secret.
type HS256Verifier struct {
	kid    string
	secret []byte
	issuer string
}

// NewVerifierHS256 creates a verifier for a single shared secret.
func NewVerifierHS256(kid string, secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{kid: kid, secret: secret, issuer: issuer}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	return parse(tokenStr, jwt.SigningMethodHS256.Alg(), v.issuer, func(t *jwt.Token) (any, error) {
		if err := checkKID(t, v.kid); err != nil {
			return nil, err
		}
		return v.secret, nil
	})
}
