package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite/gen"
)

type otpChallengesRepo struct {
	q *gen.Queries
}

func (r *otpChallengesRepo) UpsertOtpChallenge(ctx context.Context, c domain.OtpChallenge) error {
	return classify(r.q.UpsertOtpChallenge(ctx, gen.UpsertOtpChallengeParams{
		Email:     c.Email,
		CodeHash:  c.Ticket.Hash,
		ExpiresAt: c.Ticket.ExpiresAt.UTC(),
		CreatedAt: c.CreatedAt.UTC(),
	}))
}

func (r *otpChallengesRepo) GetOtpChallenge(ctx context.Context, email string) (domain.OtpChallenge, error) {
	row, err := r.q.GetOtpChallenge(ctx, email)
	if err != nil {
		return domain.OtpChallenge{}, classify(err)
	}
	return mapOtpChallenge(row), nil
}

func (r *otpChallengesRepo) ConsumeOtpChallenge(ctx context.Context, email, codeHash string) error {
	return affected(r.q.ConsumeOtpChallenge(ctx, gen.ConsumeOtpChallengeParams{
		Email:    email,
		CodeHash: codeHash,
	}))
}

func (r *otpChallengesRepo) DeleteOtpChallenge(ctx context.Context, email string) error {
	return classify(r.q.DeleteOtpChallenge(ctx, email))
}

func (r *otpChallengesRepo) DeleteExpiredOtpChallenges(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.q.DeleteExpiredOtpChallenges(ctx, now.UTC())
	return n, classify(err)
}
