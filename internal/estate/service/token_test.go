package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueVerify(t *testing.T) {
	h := newHarness(t)
	a := h.createAccount("alice", "alice@example.com", domain.RoleAgent)

	token, expiresAt, err := h.tokens.Issue(a)
	require.NoError(t, err)
	require.True(t, h.clock.Now().Add(jwtx.DefaultSessionTTL).Equal(expiresAt))

	actor, err := h.verify(token)
	require.NoError(t, err)
	require.Equal(t, actorOf(a), actor)
	require.True(t, actor.Can(domain.KindProperty, domain.CapWrite))
}

func TestTokenRejected(t *testing.T) {
	h := newHarness(t)
	a := h.createAccount("alice", "alice@example.com", domain.RoleUser)

	other, err := jwtx.NewSignerHS256("test-kid", []byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	forged := &TokenService{Signer: other, Issuer: testIssuer}
	token, _, err := forged.Issue(a)
	require.NoError(t, err)

	_, err = h.verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.verify("not.a.token")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// Expired tokens fail against the wall clock.
	old := &TokenService{Signer: h.tokens.Signer, Issuer: testIssuer, TTL: time.Minute, Clock: func() time.Time {
		return time.Now().Add(-time.Hour)
	}}
	token, _, err = old.Issue(a)
	require.NoError(t, err)
	_, err = h.verify(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestActorFromClaims(t *testing.T) {
	c := jwtx.NewSessionClaims("id-1", "bob", "Admin", testIssuer, time.Hour, time.Now())
	require.Equal(t, domain.Actor{AccountID: "id-1", Username: "bob", Role: domain.RoleAdmin}, ActorFromClaims(c))
}
