package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/stretchr/testify/require"
)

func TestLoginSucceeds(t *testing.T) {
	h := newHarness(t)
	a := h.createAccount("alice", "alice@example.com", domain.RoleUser)

	for _, identifier := range []string{"alice", "alice@example.com", "  ALICE@example.com "} {
		s, err := h.sessions.Login(context.Background(), identifier, testPassword)
		require.NoError(t, err, identifier)
		require.NotEmpty(t, s.Token)
		require.Equal(t, a.ID, s.Account.ID)
		require.NotNil(t, s.Account.LastLoginAt)
		require.True(t, s.ExpiresAt.After(h.clock.Now()))

		actor, err := h.verify(s.Token)
		require.NoError(t, err)
		require.Equal(t, actorOf(a), actor)
	}

	stored, err := h.store.Accounts().GetAccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
}

func TestLoginFailures(t *testing.T) {
	h := newHarness(t)
	h.createAccount("alice", "alice@example.com", domain.RoleUser)
	ctx := context.Background()

	_, err := h.sessions.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.sessions.Login(ctx, "nobody", testPassword)
	require.ErrorIs(t, err, ErrAccountNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.sessions.Login(ctx, "", testPassword)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.sessions.Login(ctx, "alice", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLockoutScenario(t *testing.T) {
	h := newHarness(t)
	h.createAccount("alice", "alice@example.com", domain.RoleUser)
	ctx := context.Background()

	// t=0, 1, 2: three wrong passwords
	for i := 0; i < 3; i++ {
		if i > 0 {
			h.clock.Advance(time.Second)
		}
		_, err := h.sessions.Login(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i)
	}

	// t=3: the correct password is refused without hashing
	h.clock.Advance(time.Second)
	before := h.hasher.verifies.Load()
	_, err := h.sessions.Login(ctx, "alice", testPassword)
	var locked *domain.LockedError
	require.ErrorAs(t, err, &locked)
	require.ErrorIs(t, err, domain.ErrTooManyAttempts)
	require.Equal(t, 10799*time.Second, locked.Remaining)
	require.Equal(t, before, h.hasher.verifies.Load())

	// t=10801: still locked, and locked attempts do not extend the lock
	h.clock.Advance(10798 * time.Second)
	_, err = h.sessions.Login(ctx, "alice", testPassword)
	require.ErrorAs(t, err, &locked)
	require.Equal(t, time.Second, locked.Remaining)

	// t=10802: the counter has expired
	h.clock.Advance(time.Second)
	s, err := h.sessions.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, s.Token)
}

func TestSuccessResetsCounter(t *testing.T) {
	h := newHarness(t)
	h.createAccount("alice", "alice@example.com", domain.RoleUser)
	ctx := context.Background()

	_, err := h.sessions.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = h.sessions.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.False(t, h.mr.Exists(counterKey("alice")))

	for i := 0; i < 2; i++ {
		_, err = h.sessions.Login(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = h.sessions.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
}

func TestUnknownIdentifierCountsAsFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.sessions.Login(ctx, "ghost@example.com", testPassword)
		require.ErrorIs(t, err, ErrAccountNotFound)
	}
	require.Equal(t, "3", h.mr.HGet(counterKey("ghost@example.com"), fieldCount))

	// The account appears but the identifier is still locked.
	h.createAccount("ghost", "ghost@example.com", domain.RoleUser)
	_, err := h.sessions.Login(ctx, "ghost@example.com", testPassword)
	require.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestLockoutIsPerIdentifier(t *testing.T) {
	h := newHarness(t)
	h.createAccount("alice", "alice@example.com", domain.RoleUser)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = h.sessions.Login(ctx, "alice", "wrong-password")
	}
	_, err := h.sessions.Login(ctx, "alice", testPassword)
	require.ErrorIs(t, err, domain.ErrTooManyAttempts)

	// The email is a different identifier with its own counter.
	_, err = h.sessions.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
}

func TestLoginFailsClosedWhenCounterStoreIsDown(t *testing.T) {
	h := newHarness(t)
	h.createAccount("alice", "alice@example.com", domain.RoleUser)

	h.mr.SetError("connection refused")
	_, err := h.sessions.Login(context.Background(), "alice", testPassword)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestConcurrentFailuresAreAllCounted(t *testing.T) {
	h := newHarness(t)
	g := NewAbuseGuard(h.guard.Store, 1000, time.Hour, Clock(h.clock.Now))
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.RecordOutcome(ctx, "bob", false); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	fields, ttl, err := g.Store.Fields(ctx, counterKey("bob"))
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(n), fields[fieldCount])
	require.Equal(t, strconv.FormatInt(h.clock.Now().Unix(), 10), fields[fieldLastAttempt])
	require.Equal(t, time.Hour, ttl)
}

func TestGuardRollingWindow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.guard

	require.NoError(t, g.RecordOutcome(ctx, "carol", false))
	require.NoError(t, g.RecordOutcome(ctx, "carol", false))
	require.NoError(t, g.CheckLocked(ctx, "carol"))

	// Failures older than the window age out.
	h.clock.Advance(g.Window + time.Second)
	require.NoError(t, g.RecordOutcome(ctx, "carol", false))
	require.NoError(t, g.CheckLocked(ctx, "carol"))
	require.Equal(t, "1", h.mr.HGet(counterKey("carol"), fieldCount))
}

func TestGuardIgnoresCorruptCounter(t *testing.T) {
	h := newHarness(t)
	h.mr.HSet(counterKey("dave"), fieldCount, "many")
	h.mr.SetTTL(counterKey("dave"), time.Hour)
	require.NoError(t, h.guard.CheckLocked(context.Background(), "dave"))
}

func TestGuardMissIsNotLocked(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.guard.CheckLocked(context.Background(), "nobody"))
	require.NoError(t, h.guard.RecordOutcome(context.Background(), "nobody", true))
}

func TestRefresh(t *testing.T) {
	h := newHarness(t)
	a := h.createAccount("alice", "alice@example.com", domain.RoleAgent)

	s, err := h.sessions.Refresh(context.Background(), a.ID)
	require.NoError(t, err)
	actor, err := h.verify(s.Token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAgent, actor.Role)

	_, err = h.sessions.Refresh(context.Background(), "missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
}
