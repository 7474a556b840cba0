package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: gets its own empty database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return classify(s.db.PingContext(ctx))
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return classify(tx.Commit())
}

func (s *Store) Accounts() store.Accounts           { return &accountsRepo{q: s.q} }
func (s *Store) OtpChallenges() store.OtpChallenges { return &otpChallengesRepo{q: s.q} }
func (s *Store) Properties() store.Properties       { return &propertiesRepo{q: s.q} }
func (s *Store) Contacts() store.Contacts           { return &contactsRepo{q: s.q} }

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapAccount(row gen.Account) domain.Account {
	return domain.Account{
		ID:             row.ID,
		Username:       row.Username,
		Email:          row.Email,
		Phone:          row.Phone,
		ProfileImage:   row.ProfileImage,
		PasswordHash:   row.PasswordHash,
		Role:           domain.Role(row.Role),
		ResetTokenHash: mapNullStringPtr(row.ResetTokenHash),
		ResetExpiresAt: mapNullTimePtr(row.ResetExpiresAt),
		LastLoginAt:    mapNullTimePtr(row.LastLoginAt),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

func mapOtpChallenge(row gen.OtpChallenge) domain.OtpChallenge {
	return domain.OtpChallenge{
		Email: row.Email,
		Ticket: domain.Ticket{
			Hash:      row.CodeHash,
			ExpiresAt: row.ExpiresAt.UTC(),
		},
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func mapProperty(row gen.Property) domain.Property {
	var urls []string
	if row.ImageUrls != "" {
		// Written by encodeImageURLs; a decode failure leaves the list empty.
		_ = json.Unmarshal([]byte(row.ImageUrls), &urls)
	}
	return domain.Property{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		Type:          row.Type,
		ImageURLs:     urls,
		City:          row.City,
		State:         row.State,
		Country:       row.Country,
		Sqft:          int(row.Sqft),
		Bedrooms:      int(row.Bedrooms),
		Bathrooms:     int(row.Bathrooms),
		RegularPrice:  row.RegularPrice,
		DiscountPrice: row.DiscountPrice,
		Furnished:     row.Furnished,
		Parking:       row.Parking,
		Owner: domain.Owner{
			Name:  row.OwnerName,
			Email: row.OwnerEmail,
			Phone: row.OwnerPhone,
		},
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func encodeImageURLs(urls []string) string {
	if urls == nil {
		urls = []string{}
	}
	b, _ := json.Marshal(urls)
	return string(b)
}
