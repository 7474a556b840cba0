package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestStore starts a throwaway Postgres container.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "estate",
			"POSTGRES_PASSWORD": "estate",
			"POSTGRES_DB":       "estate",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://estate:estate@%s:%s/estate?sslmode=disable", host, port.Port())
	db, err := Connect(ctx, url, 4)
	require.NoError(t, err)

	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	// Re-running is harmless.
	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPostgresStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	a := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     "alice",
		Email:        "alice@example.com",
		Phone:        "0412345678",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	t.Run("unique violation is a conflict", func(t *testing.T) {
		dup := a
		dup.ID = idx.NewAt(now).String()
		dup.Email = "other@example.com"
		require.ErrorIs(t, s.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("missing is not found", func(t *testing.T) {
		_, err := s.Accounts().GetAccountByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("reset ticket is single use", func(t *testing.T) {
		require.NoError(t, s.Accounts().SetResetTicket(ctx, a.ID, "fp", now.Add(time.Hour), now))
		got, err := s.Accounts().GetAccountByResetTokenHash(ctx, "fp")
		require.NoError(t, err)
		require.Equal(t, a.ID, got.ID)

		require.NoError(t, s.Accounts().ConsumeResetTicket(ctx, a.ID, "fp", "new", now))
		require.ErrorIs(t, s.Accounts().ConsumeResetTicket(ctx, a.ID, "fp", "new", now), store.ErrNotFound)
	})

	t.Run("otp challenge consumed once", func(t *testing.T) {
		c := domain.OtpChallenge{
			Email:     "bob@example.com",
			Ticket:    domain.Ticket{Hash: "h", ExpiresAt: now.Add(10 * time.Minute)},
			CreatedAt: now,
		}
		require.NoError(t, s.OtpChallenges().UpsertOtpChallenge(ctx, c))
		require.NoError(t, s.OtpChallenges().UpsertOtpChallenge(ctx, c))
		require.NoError(t, s.OtpChallenges().ConsumeOtpChallenge(ctx, c.Email, "h"))
		require.ErrorIs(t, s.OtpChallenges().ConsumeOtpChallenge(ctx, c.Email, "h"), store.ErrNotFound)
	})

	t.Run("property round trip", func(t *testing.T) {
		p := domain.Property{
			ID:        idx.NewAt(now).String(),
			Title:     "Beach house",
			City:      "Perth",
			State:     "WA",
			Country:   "AU",
			ImageURLs: []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
			Owner:     domain.Owner{Name: "Eve", Email: "eve@example.com", Phone: "0400000000"},
			CreatedBy: a.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, s.Properties().CreateProperty(ctx, p))
		got, err := s.Properties().GetProperty(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p.ImageURLs, got.ImageURLs)
		require.True(t, got.CreatedAt.Equal(now))

		require.NoError(t, s.Properties().DeleteProperty(ctx, p.ID))
		require.ErrorIs(t, s.Properties().DeleteProperty(ctx, p.ID), store.ErrNotFound)
	})

	t.Run("contact round trip", func(t *testing.T) {
		c := domain.Contact{
			ID:        idx.NewAt(now).String(),
			Name:      "Dana",
			Email:     "dana@example.com",
			Phone:     "+61412345678",
			Message:   "Viewing on Saturday?",
			CreatedAt: now,
		}
		require.NoError(t, s.Contacts().CreateContact(ctx, c))
		list, err := s.Contacts().ListContacts(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, c.Message, list[0].Message)

		require.NoError(t, s.Contacts().DeleteContact(ctx, c.ID))
		_, err = s.Contacts().GetContact(ctx, c.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("migrations are versioned", func(t *testing.T) {
		var version int64
		var dirty bool
		row := s.db.WithContext(ctx).Raw("SELECT version, dirty FROM schema_migrations").Row()
		require.NoError(t, row.Scan(&version, &dirty))
		require.Equal(t, int64(2), version)
		require.False(t, dirty)
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Accounts().DeleteAccount(ctx, a.ID))
			return domain.ErrConflict
		})
		require.ErrorIs(t, err, domain.ErrConflict)
		_, err = s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
	})
}
