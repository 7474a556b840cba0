package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/idx"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// BootstrapData describes the first administrator.
type BootstrapData struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// BootstrapService creates the first Admin while the system has no
// accounts. It is the only way to obtain an Admin without another Admin.
type BootstrapService struct {
	Store    store.Store
	Hasher   cryptox.Hasher
	Accounts *cache.Repository[domain.Profile]
	Token    string // pre-configured bootstrap token, empty disables bootstrap
	Clock    Clock
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	n, err := s.Store.Accounts().CountAccounts(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req BootstrapData) (domain.Profile, error) {
	l := slogx.FromContext(ctx)

	// 1. Token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.WarnContext(ctx, "unauthorized bootstrap attempt")
		return domain.Profile{}, ErrBootstrapUnauthorized
	}

	// 2. Input
	req.Email = domain.NormalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := errors.Join(
		domain.ValidateUsername(req.Username),
		domain.ValidateEmail(req.Email),
		domain.ValidatePassword(req.Password),
		domain.ValidatePhone("phone", req.Phone),
	); err != nil {
		return domain.Profile{}, err
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.now()
	admin := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Empty check and insert in one transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Accounts().CountAccounts(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrBootstrapAlready
		}
		return tx.Accounts().CreateAccount(ctx, admin)
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.WarnContext(ctx, "attempted bootstrap on already-bootstrapped system")
		}
		return domain.Profile{}, err
	}

	if err := s.Accounts.Invalidate(ctx, admin.ID); err != nil {
		return domain.Profile{}, err
	}

	l.InfoContext(ctx, "successfully bootstrapped system", "admin_account_id", admin.ID)
	return admin.Profile(), nil
}
