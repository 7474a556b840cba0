package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
)

// Store errors wrap the domain kinds so callers can test either.
var (
	ErrNotFound      = fmt.Errorf("store: %w", domain.ErrNotFound)
	ErrAlreadyExists = fmt.Errorf("store: %w", domain.ErrConflict)
	ErrUnavailable   = fmt.Errorf("store: %w", domain.ErrUpstreamUnavailable)
)

// Store is the root data access interface for the authoritative store.
// Concrete drivers (sqlite, postgres) implement it. Sub-repositories are
// reached through methods so a Tx-scoped Store can hand out the same repos
// bound to the transaction.
type Store interface {
	Accounts() Accounts
	OtpChallenges() OtpChallenges
	Properties() Properties
	Contacts() Contacts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByResetTokenHash finds the account holding an outstanding
	// reset ticket with this fingerprint, regardless of its expiry.
	GetAccountByResetTokenHash(ctx context.Context, hash string) (domain.Account, error)

	// AccountTaken reports which of the unique fields are already in use.
	// Empty arguments are not checked. excludeID skips one account so an
	// update can keep its own values.
	AccountTaken(ctx context.Context, email, username, excludeID string) (emailTaken, usernameTaken bool, err error)

	// ListAccounts returns all accounts, newest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// CountAccounts returns the number of accounts.
	CountAccounts(ctx context.Context) (int64, error)

	// CreateAccount inserts a new account (id is provided by the app).
	// A duplicate username or email yields ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccount applies the non-nil fields of p and bumps updated_at.
	UpdateAccount(ctx context.Context, id string, p domain.AccountPatch, now time.Time) error

	// SetResetTicket stores a reset-ticket fingerprint, replacing any
	// outstanding ticket.
	SetResetTicket(ctx context.Context, id, hash string, expiresAt, now time.Time) error

	// ConsumeResetTicket sets a new password hash and clears both ticket
	// fields in one statement, provided the account still holds hash. It
	// returns ErrNotFound when the ticket was already consumed or replaced.
	ConsumeResetTicket(ctx context.Context, id, hash, passwordHash string, now time.Time) error

	// ClearExpiredResetTickets wipes tickets whose expiry is before now.
	ClearExpiredResetTickets(ctx context.Context, now time.Time) (int64, error)

	// TouchLastLogin records a successful sign-in.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	DeleteAccount(ctx context.Context, id string) error
}

type OtpChallenges interface {
	// UpsertOtpChallenge stores the challenge for its email, replacing any
	// previous one.
	UpsertOtpChallenge(ctx context.Context, c domain.OtpChallenge) error

	GetOtpChallenge(ctx context.Context, email string) (domain.OtpChallenge, error)

	// ConsumeOtpChallenge deletes the challenge only if it still carries
	// codeHash. ErrNotFound means another caller consumed or replaced it.
	ConsumeOtpChallenge(ctx context.Context, email, codeHash string) error

	// DeleteOtpChallenge removes the challenge for email unconditionally.
	DeleteOtpChallenge(ctx context.Context, email string) error

	// DeleteExpiredOtpChallenges is housekeeping for challenges past expiry.
	DeleteExpiredOtpChallenges(ctx context.Context, now time.Time) (int64, error)
}

type Properties interface {
	GetProperty(ctx context.Context, id string) (domain.Property, error)

	// ListProperties returns all listings, newest first.
	ListProperties(ctx context.Context) ([]domain.Property, error)

	// CreateProperty inserts a listing. A duplicate title yields ErrAlreadyExists.
	CreateProperty(ctx context.Context, p domain.Property) error

	// UpdateProperty replaces every mutable field of an existing listing.
	UpdateProperty(ctx context.Context, p domain.Property) error

	DeleteProperty(ctx context.Context, id string) error
}

type Contacts interface {
	GetContact(ctx context.Context, id string) (domain.Contact, error)

	// ListContacts returns all enquiries, newest first.
	ListContacts(ctx context.Context) ([]domain.Contact, error)

	CreateContact(ctx context.Context, c domain.Contact) error
	DeleteContact(ctx context.Context, id string) error
}
