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
	"github.com/aussiebroadwan/estate/pkg/idx"
	"github.com/aussiebroadwan/estate/pkg/mailx"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// OtpRequest starts a registration.
type OtpRequest struct {
	Email    string
	Username string
	Role     domain.Role
}

// Registration completes one.
type Registration struct {
	Email    string
	Code     string
	Username string
	Password string
	Phone    string
	Role     domain.Role
}

// RegistrationService gates account creation behind an emailed one-time
// code. At most one challenge exists per email and a code verifies at
// most once.
type RegistrationService struct {
	Store      store.Store
	Hasher     cryptox.Hasher // passwords
	CodeHasher cryptox.Hasher // one-time codes
	Mailer     mailx.Dispatcher
	Accounts   *cache.Repository[domain.Profile]
	OtpTTL     time.Duration
	Clock      Clock
}

func (s *RegistrationService) otpTTL() time.Duration {
	if s.OtpTTL <= 0 {
		return DefaultOtpTTL
	}
	return s.OtpTTL
}

// selfServiceRole rejects roles that can only be granted by an admin.
func selfServiceRole(r domain.Role) error {
	if _, err := domain.ParseRole(string(r)); err != nil {
		return err
	}
	if r == domain.RoleAdmin {
		return domain.Invalid("role", "self-registration is limited to User and Agent")
	}
	return nil
}

// IssueOtp stores a fresh challenge for the email, replacing any earlier
// one, and mails the code. The challenge stays stored when dispatch fails.
func (s *RegistrationService) IssueOtp(ctx context.Context, req OtpRequest) error {
	l := slogx.FromContext(ctx)

	req.Email = domain.NormalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := errors.Join(
		domain.ValidateEmail(req.Email),
		domain.ValidateUsername(req.Username),
		selfServiceRole(req.Role),
	); err != nil {
		return err
	}

	emailTaken, usernameTaken, err := s.Store.Accounts().AccountTaken(ctx, req.Email, req.Username, "")
	if err != nil {
		return err
	}
	if err := takenError(emailTaken, usernameTaken); err != nil {
		return err
	}

	code, err := cryptox.GenerateNumericCode(cryptox.OTPDigits)
	if err != nil {
		return err
	}
	codeHash, err := s.CodeHasher.Hash(code)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	now := s.Clock.now()
	ttl := s.otpTTL()
	err = s.Store.OtpChallenges().UpsertOtpChallenge(ctx, domain.OtpChallenge{
		Email:     req.Email,
		Ticket:    domain.Ticket{Hash: codeHash, ExpiresAt: now.Add(ttl)},
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	body, err := renderOtpEmail(req.Username, code, ttl)
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, req.Email, otpSubject, body); err != nil {
		l.ErrorContext(ctx, "otp dispatch failed", slogx.Email("email", req.Email), "error", err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	l.InfoContext(ctx, "otp issued", slogx.Email("email", req.Email), "role", string(req.Role))
	return nil
}

// Register verifies the code and creates the account. Checks run in this
// order: challenge exists, code matches, challenge still active. The
// challenge is consumed in the same transaction that creates the account.
func (s *RegistrationService) Register(ctx context.Context, r Registration) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	r.Email = domain.NormalizeEmail(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	r.Code = strings.TrimSpace(r.Code)
	if err := errors.Join(
		domain.ValidateEmail(r.Email),
		domain.ValidateUsername(r.Username),
		domain.ValidatePassword(r.Password),
		domain.ValidatePhone("phone", r.Phone),
		selfServiceRole(r.Role),
	); err != nil {
		return domain.Account{}, err
	}
	if r.Code == "" {
		return domain.Account{}, domain.Invalid("otp", "is required")
	}

	challenge, err := s.Store.OtpChallenges().GetOtpChallenge(ctx, r.Email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrOtpNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}

	if err := s.CodeHasher.Verify(r.Code, challenge.Ticket.Hash); err != nil {
		return domain.Account{}, ErrOtpMismatch
	}

	now := s.Clock.now()
	if challenge.Ticket.State(now) != domain.TicketActive {
		if err := s.Store.OtpChallenges().DeleteOtpChallenge(ctx, r.Email); err != nil {
			l.WarnContext(ctx, "failed to delete expired otp", slogx.Email("email", r.Email), "error", err)
		}
		return domain.Account{}, ErrOtpExpired
	}

	passwordHash, err := s.Hasher.Hash(r.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     r.Username,
		Email:        r.Email,
		Phone:        r.Phone,
		PasswordHash: passwordHash,
		Role:         r.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OtpChallenges().ConsumeOtpChallenge(ctx, r.Email, challenge.Ticket.Hash); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOtpNotFound
			}
			return err
		}

		emailTaken, usernameTaken, err := tx.Accounts().AccountTaken(ctx, account.Email, account.Username, "")
		if err != nil {
			return err
		}
		if err := takenError(emailTaken, usernameTaken); err != nil {
			return err
		}
		return tx.Accounts().CreateAccount(ctx, account)
	})
	if err != nil {
		return domain.Account{}, err
	}

	if err := s.Accounts.Invalidate(ctx, account.ID); err != nil {
		return domain.Account{}, err
	}

	l.InfoContext(ctx, "account registered", "account_id", account.ID, "role", string(account.Role))
	return account, nil
}
