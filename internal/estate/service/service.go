// Package service holds the credential flows and the cached aggregate
// services. Transport concerns live in internal/estate/http.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// Default validity windows.
const (
	DefaultOtpTTL   = 10 * time.Minute
	DefaultResetTTL = time.Hour

	DefaultLockoutThreshold = 3
	DefaultLockoutWindow    = 3 * time.Hour
)

// Clock returns the current time. Nil means time.Now in UTC.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// NewAccountCache builds the cached view of accounts. Only profiles are
// cached; credential material never leaves the authoritative store.
func NewAccountCache(s store.Store, r *cache.Reader, itemTTL, listTTL time.Duration) *cache.Repository[domain.Profile] {
	return &cache.Repository[domain.Profile]{
		Kind:   domain.KindAccount,
		Reader: r,
		Source: cache.SourceFuncs[domain.Profile]{
			GetFn: func(ctx context.Context, id string) (domain.Profile, error) {
				a, err := s.Accounts().GetAccountByID(ctx, id)
				if err != nil {
					return domain.Profile{}, err
				}
				return a.Profile(), nil
			},
			ListFn: func(ctx context.Context) ([]domain.Profile, error) {
				accounts, err := s.Accounts().ListAccounts(ctx)
				if err != nil {
					return nil, err
				}
				out := make([]domain.Profile, 0, len(accounts))
				for _, a := range accounts {
					out = append(out, a.Profile())
				}
				return out, nil
			},
		},
		ItemTTL: itemTTL,
		ListTTL: listTTL,
	}
}

// NewPropertyCache builds the cached view of listings.
func NewPropertyCache(s store.Store, r *cache.Reader, itemTTL, listTTL time.Duration) *cache.Repository[domain.Property] {
	return &cache.Repository[domain.Property]{
		Kind:   domain.KindProperty,
		Reader: r,
		Source: cache.SourceFuncs[domain.Property]{
			GetFn: func(ctx context.Context, id string) (domain.Property, error) {
				return s.Properties().GetProperty(ctx, id)
			},
			ListFn: func(ctx context.Context) ([]domain.Property, error) {
				return s.Properties().ListProperties(ctx)
			},
		},
		ItemTTL: itemTTL,
		ListTTL: listTTL,
	}
}

// NewContactCache builds the cached view of contact enquiries. Items and
// the list share one TTL.
func NewContactCache(s store.Store, r *cache.Reader, ttl time.Duration) *cache.Repository[domain.Contact] {
	return &cache.Repository[domain.Contact]{
		Kind:   domain.KindContact,
		Reader: r,
		Source: cache.SourceFuncs[domain.Contact]{
			GetFn: func(ctx context.Context, id string) (domain.Contact, error) {
				return s.Contacts().GetContact(ctx, id)
			},
			ListFn: func(ctx context.Context) ([]domain.Contact, error) {
				return s.Contacts().ListContacts(ctx)
			},
		},
		ItemTTL: ttl,
		ListTTL: ttl,
	}
}

// normalizeIdentifier lowercases email identifiers; usernames are
// case-sensitive and only trimmed.
func normalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if domain.IsEmailIdentifier(identifier) {
		return domain.NormalizeEmail(identifier)
	}
	return identifier
}

// resolveAccount looks an identifier up by email when it contains "@" and
// by username otherwise.
func resolveAccount(ctx context.Context, accounts store.Accounts, identifier string) (domain.Account, error) {
	var (
		a   domain.Account
		err error
	)
	if domain.IsEmailIdentifier(identifier) {
		a, err = accounts.GetAccountByEmail(ctx, identifier)
	} else {
		a, err = accounts.GetAccountByUsername(ctx, identifier)
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, err
}

// takenError converts an AccountTaken result into the matching conflict.
func takenError(emailTaken, usernameTaken bool) error {
	switch {
	case emailTaken:
		return ErrEmailTaken
	case usernameTaken:
		return ErrUsernameTaken
	}
	return nil
}

// identifierAttr logs an identifier with email addresses masked.
func identifierAttr(identifier string) slog.Attr {
	if domain.IsEmailIdentifier(identifier) {
		return slogx.Email("identifier", identifier)
	}
	return slog.String("identifier", identifier)
}
