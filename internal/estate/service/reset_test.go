package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const newPassword = "a-brand-new-secret"

func TestResetRedeemsOnce(t *testing.T) {
	h := newHarness(t)
	a := h.createAccount("grace", "grace@example.com", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, h.reset.RequestReset(ctx, "grace"))
	msg, ok := h.outbox.Last("grace@example.com")
	require.True(t, ok)
	require.Equal(t, resetSubject, msg.Subject)
	token := h.lastResetToken("grace@example.com")

	// Only the fingerprint is stored.
	stored, err := h.store.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	ticket, ok := stored.ResetTicket()
	require.True(t, ok)
	require.Equal(t, cryptox.FingerprintToken(token), ticket.Hash)
	require.NotContains(t, ticket.Hash, token)
	require.True(t, h.clock.Now().Add(DefaultResetTTL).Equal(ticket.ExpiresAt))

	require.NoError(t, h.reset.Redeem(ctx, token, newPassword))

	err = h.reset.Redeem(ctx, token, "yet-another-secret")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = h.sessions.Login(ctx, "grace", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = h.sessions.Login(ctx, "grace", newPassword)
	require.NoError(t, err)

	stored, err = h.store.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	_, ok = stored.ResetTicket()
	require.False(t, ok)
}

func TestResetTicketExpires(t *testing.T) {
	h := newHarness(t)
	h.createAccount("grace", "grace@example.com", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, h.reset.RequestReset(ctx, "grace@example.com"))
	token := h.lastResetToken("grace@example.com")

	h.clock.Advance(DefaultResetTTL + time.Second)
	err := h.reset.Redeem(ctx, token, newPassword)
	require.ErrorIs(t, err, ErrInvalidResetToken)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.sessions.Login(ctx, "grace", testPassword)
	require.NoError(t, err)
}

func TestNewResetReplacesOld(t *testing.T) {
	h := newHarness(t)
	h.createAccount("grace", "grace@example.com", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, h.reset.RequestReset(ctx, "grace"))
	first := h.lastResetToken("grace@example.com")
	require.NoError(t, h.reset.RequestReset(ctx, "grace"))
	second := h.lastResetToken("grace@example.com")
	require.NotEqual(t, first, second)

	require.ErrorIs(t, h.reset.Redeem(ctx, first, newPassword), ErrInvalidResetToken)
	require.NoError(t, h.reset.Redeem(ctx, second, newPassword))
}

func TestResetUnknownIdentifier(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.reset.RequestReset(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
	require.Empty(t, h.outbox.Messages())

	require.ErrorIs(t, h.reset.Redeem(ctx, "not-a-real-token", newPassword), ErrInvalidResetToken)
}

func TestResetValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.ErrorIs(t, h.reset.RequestReset(ctx, " "), domain.ErrValidation)
	require.ErrorIs(t, h.reset.Redeem(ctx, "", newPassword), domain.ErrValidation)
	require.ErrorIs(t, h.reset.Redeem(ctx, "token", "short"), domain.ErrValidation)
}

func TestHousekeepingClearsExpiredSecrets(t *testing.T) {
	h := newHarness(t)
	a := h.createAccount("grace", "grace@example.com", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, h.reset.RequestReset(ctx, "grace"))
	require.NoError(t, h.registration.IssueOtp(ctx, OtpRequest{Email: "erin@example.com", Username: "erin", Role: domain.RoleUser}))

	hk := NewHousekeepingService(h.store, slogDiscard(), time.Hour)
	hk.Clock = Clock(h.clock.Now)

	// Nothing has expired yet.
	hk.Cleanup(ctx)
	_, err := h.store.OtpChallenges().GetOtpChallenge(ctx, "erin@example.com")
	require.NoError(t, err)

	h.clock.Advance(DefaultResetTTL + time.Second)
	hk.Cleanup(ctx)

	_, err = h.store.OtpChallenges().GetOtpChallenge(ctx, "erin@example.com")
	require.Error(t, err)
	stored, err := h.store.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	_, ok := stored.ResetTicket()
	require.False(t, ok)
}

func TestHousekeepingStartStop(t *testing.T) {
	h := newHarness(t)
	hk := NewHousekeepingService(h.store, slogDiscard(), time.Hour)
	hk.Start()
	hk.Stop()
}
