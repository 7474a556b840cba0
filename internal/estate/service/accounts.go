package service

import (
	"context"
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

// NewAccount is an account created by an administrator.
type NewAccount struct {
	Username string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}

// AccountUpdate carries optional changes. Nil fields are left alone.
type AccountUpdate struct {
	Username     *string
	Email        *string
	Password     *string
	Phone        *string
	ProfileImage *string
	Role         *domain.Role
}

// AccountService administers accounts. Every account may read, update and
// delete itself; anything else needs the account capabilities.
type AccountService struct {
	Store    store.Store
	Hasher   cryptox.Hasher
	Accounts *cache.Repository[domain.Profile]
	Clock    Clock
}

func (s *AccountService) allowed(actor domain.Actor, id string, want domain.Capability) bool {
	return actor.AccountID == id || actor.Can(domain.KindAccount, want)
}

func (s *AccountService) Get(ctx context.Context, actor domain.Actor, id string) (domain.Profile, error) {
	if !s.allowed(actor, id, domain.CapRead) {
		return domain.Profile{}, ErrNotPermitted
	}
	p, err := s.Accounts.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrAccountNotFound
	}
	return p, err
}

func (s *AccountService) List(ctx context.Context, actor domain.Actor) ([]domain.Profile, error) {
	if !actor.Can(domain.KindAccount, domain.CapRead) {
		return nil, ErrNotPermitted
	}
	return s.Accounts.List(ctx)
}

// ListAgents is the public directory of Agent accounts.
func (s *AccountService) ListAgents(ctx context.Context) ([]domain.Profile, error) {
	all, err := s.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	agents := make([]domain.Profile, 0)
	for _, p := range all {
		if p.Role == domain.RoleAgent {
			agents = append(agents, p)
		}
	}
	return agents, nil
}

// Create adds an account on behalf of an administrator. No OTP is needed.
func (s *AccountService) Create(ctx context.Context, actor domain.Actor, in NewAccount) (domain.Profile, error) {
	if !actor.Can(domain.KindAccount, domain.CapWrite) {
		return domain.Profile{}, ErrNotPermitted
	}

	in.Email = domain.NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	_, roleErr := domain.ParseRole(string(in.Role))
	if err := errors.Join(
		domain.ValidateUsername(in.Username),
		domain.ValidateEmail(in.Email),
		domain.ValidatePassword(in.Password),
		domain.ValidatePhone("phone", in.Phone),
		roleErr,
	); err != nil {
		return domain.Profile{}, err
	}

	emailTaken, usernameTaken, err := s.Store.Accounts().AccountTaken(ctx, in.Email, in.Username, "")
	if err != nil {
		return domain.Profile{}, err
	}
	if err := takenError(emailTaken, usernameTaken); err != nil {
		return domain.Profile{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Clock.now()
	account := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = s.Accounts.Mutate(ctx, account.ID, func(ctx context.Context) error {
		return s.Store.Accounts().CreateAccount(ctx, account)
	})
	if err != nil {
		return domain.Profile{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "account created",
		"account_id", account.ID,
		"role", string(account.Role),
		"by", actor.AccountID,
	)
	return account.Profile(), nil
}

// Update applies in to account id. Uniqueness is only checked for values
// that actually change, and a role change always needs the write
// capability even on one's own account.
func (s *AccountService) Update(ctx context.Context, actor domain.Actor, id string, in AccountUpdate) (domain.Profile, error) {
	if !s.allowed(actor, id, domain.CapWrite) {
		return domain.Profile{}, ErrNotPermitted
	}

	current, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}

	var patch domain.AccountPatch
	var checkEmail, checkUsername string

	if in.Username != nil {
		u := strings.TrimSpace(*in.Username)
		if err := domain.ValidateUsername(u); err != nil {
			return domain.Profile{}, err
		}
		if u != current.Username {
			patch.Username = &u
			checkUsername = u
		}
	}
	if in.Email != nil {
		e := domain.NormalizeEmail(*in.Email)
		if err := domain.ValidateEmail(e); err != nil {
			return domain.Profile{}, err
		}
		if e != current.Email {
			patch.Email = &e
			checkEmail = e
		}
	}
	if in.Phone != nil {
		patch.Phone = in.Phone
	}
	if in.ProfileImage != nil {
		patch.ProfileImage = in.ProfileImage
	}
	if in.Password != nil && *in.Password != "" {
		if err := domain.ValidatePassword(*in.Password); err != nil {
			return domain.Profile{}, err
		}
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if in.Role != nil && *in.Role != current.Role {
		if !actor.Can(domain.KindAccount, domain.CapWrite) {
			return domain.Profile{}, fmt.Errorf("%w: role changes need an administrator", ErrNotPermitted)
		}
		if _, err := domain.ParseRole(string(*in.Role)); err != nil {
			return domain.Profile{}, err
		}
		patch.Role = in.Role
	}

	if patch.Empty() {
		return current.Profile(), nil
	}

	if checkEmail != "" || checkUsername != "" {
		emailTaken, usernameTaken, err := s.Store.Accounts().AccountTaken(ctx, checkEmail, checkUsername, id)
		if err != nil {
			return domain.Profile{}, err
		}
		if err := takenError(emailTaken, usernameTaken); err != nil {
			return domain.Profile{}, err
		}
	}

	now := s.Clock.now()
	err = s.Accounts.Mutate(ctx, id, func(ctx context.Context) error {
		return s.Store.Accounts().UpdateAccount(ctx, id, patch, now)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}

	updated, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "account updated", "account_id", id, "by", actor.AccountID)
	return updated.Profile(), nil
}

func (s *AccountService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !s.allowed(actor, id, domain.CapDelete) {
		return ErrNotPermitted
	}
	err := s.Accounts.Mutate(ctx, id, func(ctx context.Context) error {
		return s.Store.Accounts().DeleteAccount(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "account deleted", "account_id", id, "by", actor.AccountID)
	return nil
}
