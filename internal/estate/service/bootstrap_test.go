package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/stretchr/testify/require"
)

func bootstrapData() BootstrapData {
	return BootstrapData{
		Username: "admin",
		Email:    "admin@example.com",
		Password: testPassword,
		Phone:    testPhone,
	}
}

func TestBootstrap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	done, err := h.bootstrap.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)

	p, err := h.bootstrap.Bootstrap(ctx, "bootstrap-secret", bootstrapData())
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, p.Role)

	done, err = h.bootstrap.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, done)

	s, err := h.sessions.Login(ctx, "admin", testPassword)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, s.Account.Role)

	data := bootstrapData()
	data.Username = "admin2"
	data.Email = "admin2@example.com"
	_, err = h.bootstrap.Bootstrap(ctx, "bootstrap-secret", data)
	require.ErrorIs(t, err, ErrBootstrapAlready)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestBootstrapToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.bootstrap.Bootstrap(ctx, "wrong", bootstrapData())
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	h.bootstrap.Token = ""
	_, err = h.bootstrap.Bootstrap(ctx, "", bootstrapData())
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	done, err := h.bootstrap.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)
}

func TestBootstrapValidation(t *testing.T) {
	h := newHarness(t)
	data := bootstrapData()
	data.Phone = "12"
	_, err := h.bootstrap.Bootstrap(context.Background(), "bootstrap-secret", data)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestBootstrapRace(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := bootstrapData()
			data.Username = "admin" + string(rune('a'+i))
			data.Email = data.Username + "@example.com"
			if _, err := h.bootstrap.Bootstrap(ctx, "bootstrap-secret", data); err == nil {
				succeeded.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(1), succeeded.Load())
	n, err := h.store.Accounts().CountAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
