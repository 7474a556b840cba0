package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// Counter layout in the ephemeral store.
const (
	failedAttemptsPrefix = "failedAttempts:"
	fieldCount           = "count"
	fieldLastAttempt     = "lastAttempt"
)

// AbuseGuard counts failed sign-ins per identifier and locks the identifier
// out once Threshold failures land inside Window. The lock clears itself
// when the counter key expires; there is no manual unlock.
type AbuseGuard struct {
	Store     ephemeral.Store
	Threshold int64
	Window    time.Duration
	Clock     Clock
}

// NewAbuseGuard applies the defaults for zero values.
func NewAbuseGuard(s ephemeral.Store, threshold int64, window time.Duration, clock Clock) *AbuseGuard {
	if threshold <= 0 {
		threshold = DefaultLockoutThreshold
	}
	if window <= 0 {
		window = DefaultLockoutWindow
	}
	return &AbuseGuard{Store: s, Threshold: threshold, Window: window, Clock: clock}
}

func counterKey(identifier string) string { return failedAttemptsPrefix + identifier }

// CheckLocked returns a *domain.LockedError while identifier is locked out.
// A store failure is returned as is so the caller fails closed.
func (g *AbuseGuard) CheckLocked(ctx context.Context, identifier string) error {
	fields, ttl, err := g.Store.Fields(ctx, counterKey(identifier))
	if errors.Is(err, ephemeral.ErrMiss) {
		return nil
	}
	if err != nil {
		return err
	}

	count, err := strconv.ParseInt(fields[fieldCount], 10, 64)
	if err != nil {
		// A corrupt counter can't prove a lockout.
		slogx.FromContext(ctx).WarnContext(ctx, "unreadable failed-attempt counter", identifierAttr(identifier))
		return nil
	}
	if count >= g.Threshold && ttl > 0 {
		return &domain.LockedError{Remaining: ttl}
	}
	return nil
}

// RecordOutcome resets the counter on success. On failure it bumps the
// counter atomically and restarts the window, unless the identifier is
// already locked, in which case the running lock clock is left alone.
func (g *AbuseGuard) RecordOutcome(ctx context.Context, identifier string, succeeded bool) error {
	key := counterKey(identifier)
	if succeeded {
		return g.Store.Delete(ctx, key)
	}

	now := g.Clock.now()
	n, err := g.Store.Incr(ctx, key, ephemeral.CounterUpdate{
		Field:  fieldCount,
		Set:    map[string]string{fieldLastAttempt: strconv.FormatInt(now.Unix(), 10)},
		TTL:    g.Window,
		HoldAt: g.Threshold,
	})
	if err != nil {
		return err
	}
	if n == g.Threshold {
		slogx.FromContext(ctx).WarnContext(ctx, "identifier locked out",
			identifierAttr(identifier),
			"failed_attempts", n,
			"window", g.Window.String(),
		)
	}
	return nil
}
