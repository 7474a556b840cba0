package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, classify(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row, err := r.q.GetAccountByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, classify(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row, err := r.q.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, classify(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByResetTokenHash(ctx context.Context, hash string) (domain.Account, error) {
	row, err := r.q.GetAccountByResetTokenHash(ctx, sql.NullString{String: hash, Valid: true})
	if err != nil {
		return domain.Account{}, classify(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) AccountTaken(ctx context.Context, email, username, excludeID string) (bool, bool, error) {
	var emailTaken, usernameTaken bool
	if email != "" {
		n, err := r.q.CountAccountsWithEmail(ctx, gen.CountAccountsWithEmailParams{Email: email, ID: excludeID})
		if err != nil {
			return false, false, classify(err)
		}
		emailTaken = n > 0
	}
	if username != "" {
		n, err := r.q.CountAccountsWithUsername(ctx, gen.CountAccountsWithUsernameParams{Username: username, ID: excludeID})
		if err != nil {
			return false, false, classify(err)
		}
		usernameTaken = n > 0
	}
	return emailTaken, usernameTaken, nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.ListAccounts(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out, nil
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int64, error) {
	n, err := r.q.CountAccounts(ctx)
	return n, classify(err)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	return classify(r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Phone:        a.Phone,
		ProfileImage: a.ProfileImage,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}))
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, id string, p domain.AccountPatch, now time.Time) error {
	var role *string
	if p.Role != nil {
		s := string(*p.Role)
		role = &s
	}
	return affected(r.q.UpdateAccount(ctx, gen.UpdateAccountParams{
		Username:     mapOptionalString(p.Username),
		Email:        mapOptionalString(p.Email),
		Phone:        mapOptionalString(p.Phone),
		ProfileImage: mapOptionalString(p.ProfileImage),
		PasswordHash: mapOptionalString(p.PasswordHash),
		Role:         mapOptionalString(role),
		UpdatedAt:    now.UTC(),
		ID:           id,
	}))
}

func (r *accountsRepo) SetResetTicket(ctx context.Context, id, hash string, expiresAt, now time.Time) error {
	return affected(r.q.SetResetTicket(ctx, gen.SetResetTicketParams{
		ResetTokenHash: sql.NullString{String: hash, Valid: true},
		ResetExpiresAt: sql.NullTime{Time: expiresAt.UTC(), Valid: true},
		UpdatedAt:      now.UTC(),
		ID:             id,
	}))
}

func (r *accountsRepo) ConsumeResetTicket(ctx context.Context, id, hash, passwordHash string, now time.Time) error {
	return affected(r.q.ConsumeResetTicket(ctx, gen.ConsumeResetTicketParams{
		PasswordHash:   passwordHash,
		UpdatedAt:      now.UTC(),
		ID:             id,
		ResetTokenHash: sql.NullString{String: hash, Valid: true},
	}))
}

func (r *accountsRepo) ClearExpiredResetTickets(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.q.ClearExpiredResetTickets(ctx, sql.NullTime{Time: now.UTC(), Valid: true})
	return n, classify(err)
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return affected(r.q.TouchLastLogin(ctx, gen.TouchLastLoginParams{
		LastLoginAt: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:          id,
	}))
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return affected(r.q.DeleteAccount(ctx, id))
}
