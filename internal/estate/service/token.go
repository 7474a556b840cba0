package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
)

// TokenService issues stateless session tokens. Verification happens in
// httpx.AuthnMiddleware against the matching jwtx.Verifier.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
	Clock  Clock
}

// Issue signs a session token for a.
func (s *TokenService) Issue(a domain.Account) (string, time.Time, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	now := s.Clock.now()
	claims := jwtx.NewSessionClaims(a.ID, a.Username, string(a.Role), s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// ActorFromClaims converts verified claims to an Actor.
func ActorFromClaims(c jwtx.Claims) domain.Actor {
	return domain.Actor{AccountID: c.AccountID, Username: c.Username, Role: domain.Role(c.Role)}
}
