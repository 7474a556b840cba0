package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"gorm.io/gorm"
)

type accountsRepo struct {
	db *gorm.DB
}

func (r *accountsRepo) getBy(ctx context.Context, column string, value any) (domain.Account, error) {
	var row accountModel
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).Take(&row).Error; err != nil {
		return domain.Account{}, classify(err)
	}
	return toDomainAccount(row), nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.getBy(ctx, "username", username)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *accountsRepo) GetAccountByResetTokenHash(ctx context.Context, hash string) (domain.Account, error) {
	return r.getBy(ctx, "reset_token_hash", hash)
}

func (r *accountsRepo) AccountTaken(ctx context.Context, email, username, excludeID string) (bool, bool, error) {
	taken := func(column, value string) (bool, error) {
		if value == "" {
			return false, nil
		}
		var n int64
		err := r.db.WithContext(ctx).Model(&accountModel{}).
			Where(column+" = ? AND id <> ?", value, excludeID).
			Count(&n).Error
		return n > 0, classify(err)
	}
	emailTaken, err := taken("email", email)
	if err != nil {
		return false, false, err
	}
	usernameTaken, err := taken("username", username)
	if err != nil {
		return false, false, err
	}
	return emailTaken, usernameTaken, nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAccount(row))
	}
	return out, nil
}

func (r *accountsRepo) CountAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&accountModel{}).Count(&n).Error
	return n, classify(err)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	rec := fromDomainAccount(a)
	return classify(r.db.WithContext(ctx).Create(&rec).Error)
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, id string, p domain.AccountPatch, now time.Time) error {
	updates := map[string]any{"updated_at": now.UTC()}
	if p.Username != nil {
		updates["username"] = *p.Username
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.ProfileImage != nil {
		updates["profile_image"] = *p.ProfileImage
	}
	if p.PasswordHash != nil {
		updates["password_hash"] = *p.PasswordHash
	}
	if p.Role != nil {
		updates["role"] = string(*p.Role)
	}
	return affected(r.db.WithContext(ctx).Model(&accountModel{}).Where("id = ?", id).Updates(updates))
}

func (r *accountsRepo) SetResetTicket(ctx context.Context, id, hash string, expiresAt, now time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token_hash": hash,
			"reset_expires_at": expiresAt.UTC(),
			"updated_at":       now.UTC(),
		}))
}

func (r *accountsRepo) ConsumeResetTicket(ctx context.Context, id, hash, passwordHash string, now time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ? AND reset_token_hash = ?", id, hash).
		Updates(map[string]any{
			"password_hash":    passwordHash,
			"reset_token_hash": nil,
			"reset_expires_at": nil,
			"updated_at":       now.UTC(),
		}))
}

func (r *accountsRepo) ClearExpiredResetTickets(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("reset_expires_at IS NOT NULL AND reset_expires_at < ?", now.UTC()).
		Updates(map[string]any{
			"reset_token_hash": nil,
			"reset_expires_at": nil,
		})
	return res.RowsAffected, classify(res.Error)
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&accountModel{}).
		Where("id = ?", id).
		Update("last_login_at", at.UTC()))
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountModel{}))
}
