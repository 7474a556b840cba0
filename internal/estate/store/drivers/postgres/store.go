package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/estate/internal/estate/store"
	"gorm.io/gorm"
)

// Store is the Postgres implementation of store.Store.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open connection, see Connect.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ApplyMigrations() error {
	return classify(runMigrations(s.db))
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return classify(sqlDB.PingContext(ctx))
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, classify(tx.Error)
	}
	return &txStore{db: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return classify(tx.Commit())
}

func (s *Store) Accounts() store.Accounts           { return &accountsRepo{db: s.db} }
func (s *Store) OtpChallenges() store.OtpChallenges { return &otpChallengesRepo{db: s.db} }
func (s *Store) Properties() store.Properties       { return &propertiesRepo{db: s.db} }
func (s *Store) Contacts() store.Contacts           { return &contactsRepo{db: s.db} }

type txStore struct {
	db *gorm.DB
}

func (t *txStore) Commit() error   { return t.db.Commit().Error }
func (t *txStore) Rollback() error { return t.db.Rollback().Error }

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, gorm.ErrInvalidTransaction
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return gorm.ErrInvalidTransaction
}

func (t *txStore) Accounts() store.Accounts           { return &accountsRepo{db: t.db} }
func (t *txStore) OtpChallenges() store.OtpChallenges { return &otpChallengesRepo{db: t.db} }
func (t *txStore) Properties() store.Properties       { return &propertiesRepo{db: t.db} }
func (t *txStore) Contacts() store.Contacts           { return &contactsRepo{db: t.db} }

// classify maps gorm's translated errors onto the store errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.Conflict(err)
	default:
		return store.Classify(err)
	}
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
