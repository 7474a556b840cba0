package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   domain.Profile
}

// SessionService signs accounts in.
type SessionService struct {
	Store    store.Store
	Guard    *AbuseGuard
	Hasher   cryptox.Hasher
	Tokens   *TokenService
	Accounts *cache.Repository[domain.Profile]
	Clock    Clock
}

// Login verifies identifier and password. The steps run in a fixed order:
// resolve the account, check the lock, verify the password, record the
// outcome. A locked identifier is rejected before any hashing.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (Session, error) {
	l := slogx.FromContext(ctx)

	identifier = normalizeIdentifier(identifier)
	if identifier == "" {
		return Session{}, domain.Invalid("identifier", "is required")
	}
	if password == "" {
		return Session{}, domain.Invalid("password", "is required")
	}

	// 1. Resolve; an unknown identifier still counts as a failure
	account, err := resolveAccount(ctx, s.Store.Accounts(), identifier)
	if errors.Is(err, ErrAccountNotFound) {
		if err := s.Guard.RecordOutcome(ctx, identifier, false); err != nil {
			return Session{}, err
		}
		l.InfoContext(ctx, "login for unknown identifier", identifierAttr(identifier))
		return Session{}, err
	}
	if err != nil {
		return Session{}, err
	}

	// 2. Lock check
	if err := s.Guard.CheckLocked(ctx, identifier); err != nil {
		return Session{}, err
	}

	// 3. Password
	if err := s.Hasher.Verify(password, account.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.ErrorContext(ctx, "stored password hash unusable", "account_id", account.ID, "error", err)
		}
		if err := s.Guard.RecordOutcome(ctx, identifier, false); err != nil {
			return Session{}, err
		}
		return Session{}, ErrInvalidCredentials
	}

	// 4. Success resets the counter
	if err := s.Guard.RecordOutcome(ctx, identifier, true); err != nil {
		return Session{}, err
	}

	token, expiresAt, err := s.Tokens.Issue(account)
	if err != nil {
		return Session{}, err
	}

	now := s.Clock.now()
	err = s.Accounts.Mutate(ctx, account.ID, func(ctx context.Context) error {
		return s.Store.Accounts().TouchLastLogin(ctx, account.ID, now)
	})
	if err != nil {
		// The session is valid either way; only the timestamp is lost.
		l.WarnContext(ctx, "failed to record last login", "account_id", account.ID, "error", err)
	} else {
		account.LastLoginAt = &now
	}

	l.InfoContext(ctx, "login succeeded", "account_id", account.ID, "role", string(account.Role))
	return Session{Token: token, ExpiresAt: expiresAt, Account: account.Profile()}, nil
}

// Refresh issues a new token for an already authenticated account, used
// after a profile change alters the token's claims.
func (s *SessionService) Refresh(ctx context.Context, accountID string) (Session, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrAccountNotFound
	}
	if err != nil {
		return Session{}, err
	}
	token, expiresAt, err := s.Tokens.Issue(account)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, Account: account.Profile()}, nil
}
