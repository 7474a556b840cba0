package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
	"github.com/aussiebroadwan/estate/pkg/mailx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testIssuer   = "estate-test"
	testPassword = "correct-horse-battery"
	testPhone    = "0412345678"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// testClock is a settable clock shared by the services and miniredis.
type testClock struct {
	mu sync.Mutex
	t  time.Time
	mr *miniredis.Miniredis
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the service clock and expires ephemeral keys to match.
func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
	c.mr.FastForward(d)
}

// countingHasher counts Verify calls.
type countingHasher struct {
	cryptox.Hasher
	verifies atomic.Int64
}

func (h *countingHasher) Verify(plain, encoded string) error {
	h.verifies.Add(1)
	return h.Hasher.Verify(plain, encoded)
}

type harness struct {
	t      *testing.T
	clock  *testClock
	mr     *miniredis.Miniredis
	store  *sqlite.Store
	outbox *mailx.Outbox
	hasher *countingHasher

	accountCache  *cache.Repository[domain.Profile]
	propertyCache *cache.Repository[domain.Property]
	contactCache  *cache.Repository[domain.Contact]

	guard        *AbuseGuard
	tokens       *TokenService
	verifier     jwtx.Verifier
	sessions     *SessionService
	registration *RegistrationService
	reset        *PasswordResetService
	accounts     *AccountService
	properties   *PropertyService
	contacts     *ContactService
	bootstrap    *BootstrapService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	eph := ephemeral.NewRedis(client)

	// Token verification reads the wall clock, so start from it.
	clock := &testClock{t: time.Now().UTC().Truncate(time.Second), mr: mr}
	now := Clock(clock.Now)

	signer, err := jwtx.NewSignerHS256("test-kid", testSecret)
	require.NoError(t, err)

	h := &harness{
		t:      t,
		clock:  clock,
		mr:     mr,
		store:  st,
		outbox: &mailx.Outbox{},
		hasher: &countingHasher{Hasher: cryptox.NewBcryptHasher(bcrypt.MinCost)},
	}

	reader := cache.NewReader(eph, false)
	h.accountCache = NewAccountCache(st, reader, 30*time.Minute, time.Hour)
	h.propertyCache = NewPropertyCache(st, reader, 30*time.Minute, time.Hour)
	h.contactCache = NewContactCache(st, reader, time.Hour)

	h.guard = NewAbuseGuard(eph, 3, 10800*time.Second, now)
	h.verifier = jwtx.NewVerifierHS256("test-kid", testSecret, testIssuer)
	h.tokens = &TokenService{
		Signer: signer,
		Issuer: testIssuer,
		Clock:  now,
	}
	h.sessions = &SessionService{
		Store:    st,
		Guard:    h.guard,
		Hasher:   h.hasher,
		Tokens:   h.tokens,
		Accounts: h.accountCache,
		Clock:    now,
	}
	h.registration = &RegistrationService{
		Store:      st,
		Hasher:     h.hasher,
		CodeHasher: h.hasher,
		Mailer:     h.outbox,
		Accounts:   h.accountCache,
		Clock:      now,
	}
	h.reset = &PasswordResetService{
		Store:    st,
		Hasher:   h.hasher,
		Mailer:   h.outbox,
		Accounts: h.accountCache,
		ResetURL: "https://estate.example.com/reset-password/",
		Clock:    now,
	}
	h.accounts = &AccountService{Store: st, Hasher: h.hasher, Accounts: h.accountCache, Clock: now}
	h.properties = &PropertyService{Store: st, Properties: h.propertyCache, Clock: now}
	h.contacts = &ContactService{Store: st, Contacts: h.contactCache, Clock: now}
	h.bootstrap = &BootstrapService{
		Store:    st,
		Hasher:   h.hasher,
		Accounts: h.accountCache,
		Token:    "bootstrap-secret",
		Clock:    now,
	}
	return h
}

// createAccount inserts an account directly, bypassing registration.
func (h *harness) createAccount(username, email string, role domain.Role) domain.Account {
	h.t.Helper()
	hash, err := h.hasher.Hash(testPassword)
	require.NoError(h.t, err)
	now := h.clock.Now()
	a := domain.Account{
		ID:           username + "-id",
		Username:     username,
		Email:        email,
		Phone:        testPhone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(h.t, h.store.Accounts().CreateAccount(context.Background(), a))
	return a
}

var codePattern = regexp.MustCompile(`>(\d{6})<`)

// lastCode extracts the one-time code from the last email to addr.
func (h *harness) lastCode(addr string) string {
	h.t.Helper()
	msg, ok := h.outbox.Last(addr)
	require.True(h.t, ok, "no email sent to %s", addr)
	m := codePattern.FindStringSubmatch(msg.HTML)
	require.Len(h.t, m, 2, "no code in email body")
	return m[1]
}

var tokenPattern = regexp.MustCompile(`reset-password/([A-Za-z0-9_-]+)"`)

// lastResetToken extracts the plaintext token from the last reset email.
func (h *harness) lastResetToken(addr string) string {
	h.t.Helper()
	msg, ok := h.outbox.Last(addr)
	require.True(h.t, ok, "no email sent to %s", addr)
	m := tokenPattern.FindStringSubmatch(msg.HTML)
	require.Len(h.t, m, 2, "no reset link in email body")
	return m[1]
}

// verify checks a session token the way httpx.AuthnMiddleware does and
// returns the caller it names.
func (h *harness) verify(token string) (domain.Actor, error) {
	claims, err := h.verifier.Verify(token)
	if err == nil {
		err = claims.ValidateExpiry()
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return ActorFromClaims(claims), nil
}

func actorOf(a domain.Account) domain.Actor {
	return domain.Actor{AccountID: a.ID, Username: a.Username, Role: a.Role}
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
