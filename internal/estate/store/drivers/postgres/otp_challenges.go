package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type otpChallengesRepo struct {
	db *gorm.DB
}

func (r *otpChallengesRepo) UpsertOtpChallenge(ctx context.Context, c domain.OtpChallenge) error {
	rec := otpChallengeModel{
		Email:     c.Email,
		CodeHash:  c.Ticket.Hash,
		ExpiresAt: c.Ticket.ExpiresAt.UTC(),
		CreatedAt: c.CreatedAt.UTC(),
	}
	return classify(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
	}).Create(&rec).Error)
}

func (r *otpChallengesRepo) GetOtpChallenge(ctx context.Context, email string) (domain.OtpChallenge, error) {
	var row otpChallengeModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error; err != nil {
		return domain.OtpChallenge{}, classify(err)
	}
	return toDomainOtpChallenge(row), nil
}

func (r *otpChallengesRepo) ConsumeOtpChallenge(ctx context.Context, email, codeHash string) error {
	return affected(r.db.WithContext(ctx).
		Where("email = ? AND code_hash = ?", email, codeHash).
		Delete(&otpChallengeModel{}))
}

func (r *otpChallengesRepo) DeleteOtpChallenge(ctx context.Context, email string) error {
	return classify(r.db.WithContext(ctx).Where("email = ?", email).Delete(&otpChallengeModel{}).Error)
}

func (r *otpChallengesRepo) DeleteExpiredOtpChallenges(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&otpChallengeModel{})
	return res.RowsAffected, classify(res.Error)
}
