package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/mailx"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// PasswordResetService issues and redeems single-use reset tickets. Only
// the fingerprint of a ticket is stored; the plaintext exists in the email.
type PasswordResetService struct {
	Store    store.Store
	Hasher   cryptox.Hasher
	Mailer   mailx.Dispatcher
	Accounts *cache.Repository[domain.Profile]
	TTL      time.Duration
	ResetURL string // the token is appended as the last path segment
	Clock    Clock
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultResetTTL
	}
	return s.TTL
}

func (s *PasswordResetService) link(token string) string {
	return strings.TrimRight(s.ResetURL, "/") + "/" + token
}

// RequestReset replaces any outstanding ticket for the account and mails
// the new one.
func (s *PasswordResetService) RequestReset(ctx context.Context, identifier string) error {
	l := slogx.FromContext(ctx)

	identifier = normalizeIdentifier(identifier)
	if identifier == "" {
		return domain.Invalid("identifier", "is required")
	}

	account, err := resolveAccount(ctx, s.Store.Accounts(), identifier)
	if err != nil {
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	now := s.Clock.now()
	ttl := s.ttl()
	err = s.Accounts.Mutate(ctx, account.ID, func(ctx context.Context) error {
		return s.Store.Accounts().SetResetTicket(ctx, account.ID, cryptox.FingerprintToken(token), now.Add(ttl), now)
	})
	if err != nil {
		return err
	}

	body, err := renderResetEmail(account.Username, s.link(token), ttl)
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, account.Email, resetSubject, body); err != nil {
		l.ErrorContext(ctx, "reset dispatch failed", "account_id", account.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	l.InfoContext(ctx, "password reset requested", "account_id", account.ID)
	return nil
}

// Redeem sets a new password if token names an active ticket. Every
// failure, whether unknown, expired or already used, is reported as
// ErrInvalidResetToken.
func (s *PasswordResetService) Redeem(ctx context.Context, token, newPassword string) error {
	l := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invalid("resetToken", "is required")
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	fingerprint := cryptox.FingerprintToken(token)
	account, err := s.Store.Accounts().GetAccountByResetTokenHash(ctx, fingerprint)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	ticket, ok := account.ResetTicket()
	now := s.Clock.now()
	if !ok || ticket.State(now) != domain.TicketActive {
		return ErrInvalidResetToken
	}

	passwordHash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// The conditional update is what makes the ticket single-use.
	err = s.Accounts.Mutate(ctx, account.ID, func(ctx context.Context) error {
		err := s.Store.Accounts().ConsumeResetTicket(ctx, account.ID, fingerprint, passwordHash, now)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	})
	if err != nil {
		return err
	}

	l.InfoContext(ctx, "password reset completed", "account_id", account.ID)
	return nil
}
