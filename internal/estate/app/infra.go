package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/postgres"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/mailx"
)

// pepperSize is the argon2id pepper length in bytes.
const pepperSize = 32

// migrator is implemented by both store drivers.
type migrator interface {
	store.Store
	ApplyMigrations() error
}

// OpenStore connects the configured authoritative store and applies
// migrations.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var db migrator

	switch cfg.DatabaseDriver {
	case "postgres":
		gdb, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db = postgres.NewStore(gdb)

	default:
		host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", cfg.DatabaseFile)
		sdb, err := sqlite.NewStore(host)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db = sdb
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return db, nil
}

// OpenEphemeral connects the lockout counter and cache store. The returned
// stop function releases it.
func OpenEphemeral(ctx context.Context, cfg Config, logger *slog.Logger) (*ephemeral.Redis, func(), error) {
	if cfg.RedisURL == "" || cfg.RedisURL == "memory" {
		mr := miniredis.NewMiniRedis()
		if err := mr.Start(); err != nil {
			return nil, nil, fmt.Errorf("start in-process redis: %w", err)
		}
		r, err := ephemeral.Connect(ctx, mr.Addr())
		if err != nil {
			mr.Close()
			return nil, nil, err
		}
		logger.Warn("using in-process redis; lockout counters and cache are lost on restart")
		return r, func() { _ = r.Close(); mr.Close() }, nil
	}

	r, err := ephemeral.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	logger.Info("redis connected")
	return r, func() { _ = r.Close() }, nil
}

// NewHasher returns the configured password hasher.
func NewHasher(cfg Config) (cryptox.Hasher, error) {
	if cfg.PasswordHasher == "bcrypt" {
		return cryptox.NewBcryptHasher(cfg.BcryptCost), nil
	}

	pepper, err := cryptox.LoadOrGenerateSecret(cfg.PepperFile, pepperSize)
	if err != nil {
		return nil, fmt.Errorf("load pepper: %w", err)
	}
	return cryptox.NewArgon2idHasher(pepper), nil
}

// NewMailer returns an SMTP dispatcher when a relay is configured and a
// logging dispatcher otherwise.
func NewMailer(cfg Config, logger *slog.Logger) (mailx.Dispatcher, error) {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set; emails are logged, not sent")
		return mailx.LogDispatcher{Logger: logger}, nil
	}

	d, err := mailx.NewSMTPDispatcher(mailx.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("configure smtp: %w", err)
	}
	return d, nil
}
