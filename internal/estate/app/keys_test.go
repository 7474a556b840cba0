package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/estate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestInitSessionKeys(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	for _, alg := range []string{"HS256", "EdDSA"} {
		t.Run(alg, func(t *testing.T) {
			dir := t.TempDir()
			cfg := defaultConfig()
			cfg.SessionAlgorithm = alg
			cfg.SessionSecretFile = filepath.Join(dir, "session.secret")
			cfg.SessionKeyFile = filepath.Join(dir, "session.pem")

			signer, verifier, err := InitSessionKeys(cfg, logger)
			require.NoError(t, err)
			require.Equal(t, alg, signer.Alg())
			require.NoError(t, signer.Validate())

			claims := jwtx.NewSessionClaims("acc-1", "jane", "User", cfg.Issuer, time.Hour, time.Now())
			token, err := signer.Sign(claims)
			require.NoError(t, err)

			// A restart loads the same key, so the token still verifies.
			_, reloaded, err := InitSessionKeys(cfg, logger)
			require.NoError(t, err)
			got, err := reloaded.Verify(token)
			require.NoError(t, err)
			require.Equal(t, "acc-1", got.AccountID)

			_, err = verifier.Verify(token)
			require.NoError(t, err)
		})
	}
}

func TestInfraSelection(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "estate.db")
	cfg.PasswordHasher = "bcrypt"
	cfg.BcryptCost = 4

	db, err := OpenStore(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping(ctx))

	eph, stop, err := OpenEphemeral(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(stop)
	require.NoError(t, eph.Ping(ctx))

	hasher, err := NewHasher(cfg)
	require.NoError(t, err)
	encoded, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, hasher.Verify("correct-horse-battery", encoded))

	mailer, err := NewMailer(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, mailer.Send(ctx, "jane@example.com", "hello", "<p>hi</p>"))
}
