package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/internal/estate/store/drivers/sqlite"
	"github.com/aussiebroadwan/estate/pkg/authsdk"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/httpx"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
	"github.com/aussiebroadwan/estate/pkg/mailx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testIssuer    = "estate-test"
	testPassword  = "correct-horse-battery"
	testPhone     = "0412345678"
	testBootstrap = "bootstrap-secret"
)

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	sdk    *authsdk.SDKClient
	mr     *miniredis.Miniredis
	store  *sqlite.Store
	outbox *mailx.Outbox
	hasher cryptox.Hasher
}

func newTestServer(t *testing.T, bootstrapToken string) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	eph := ephemeral.NewRedis(client)

	secret := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jwtx.NewSignerHS256("test-kid", secret)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256("test-kid", secret, testIssuer)

	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)
	outbox := &mailx.Outbox{}
	reader := cache.NewReader(eph, false)
	accounts := service.NewAccountCache(st, reader, 30*time.Minute, time.Hour)
	properties := service.NewPropertyCache(st, reader, 30*time.Minute, time.Hour)
	tokens := &service.TokenService{Signer: signer, Issuer: testIssuer}

	r := NewRouter(signer, verifier, "test", st, eph, slog.New(slog.DiscardHandler))
	r.CookieSecure = false
	r.SessionService = &service.SessionService{
		Store:    st,
		Guard:    service.NewAbuseGuard(eph, 3, 10800*time.Second, nil),
		Hasher:   hasher,
		Tokens:   tokens,
		Accounts: accounts,
	}
	r.RegistrationService = &service.RegistrationService{
		Store:      st,
		Hasher:     hasher,
		CodeHasher: hasher,
		Mailer:     outbox,
		Accounts:   accounts,
	}
	r.ResetService = &service.PasswordResetService{
		Store:    st,
		Hasher:   hasher,
		Mailer:   outbox,
		Accounts: accounts,
		ResetURL: "https://estate.example.com/reset-password/",
	}
	r.AccountService = &service.AccountService{Store: st, Hasher: hasher, Accounts: accounts}
	r.PropertyService = &service.PropertyService{Store: st, Properties: properties}
	r.ContactService = &service.ContactService{
		Store:    st,
		Contacts: service.NewContactCache(st, reader, time.Hour),
	}
	r.BootstrapService = &service.BootstrapService{
		Store:    st,
		Hasher:   hasher,
		Accounts: accounts,
		Token:    bootstrapToken,
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		t:      t,
		srv:    srv,
		sdk:    authsdk.NewSDKClient(srv.URL),
		mr:     mr,
		store:  st,
		outbox: outbox,
		hasher: hasher,
	}
}

// seed inserts an account directly and returns a signed-in session for it.
func (s *testServer) seed(username string, role domain.Role) *authsdk.Session {
	s.t.Helper()
	hash, err := s.hasher.Hash(testPassword)
	require.NoError(s.t, err)
	now := time.Now().UTC()
	require.NoError(s.t, s.store.Accounts().CreateAccount(context.Background(), domain.Account{
		ID:           username + "-id",
		Username:     username,
		Email:        username + "@example.com",
		Phone:        testPhone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	sess, err := s.sdk.Login(context.Background(), username, testPassword)
	require.NoError(s.t, err)
	return sess
}

// do sends a raw JSON request and decodes the error body, if any.
func (s *testServer) do(method, path, body string) (*http.Response, authsdk.ErrorResponse) {
	s.t.Helper()
	req, err := http.NewRequest(method, s.srv.URL+path, strings.NewReader(body))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var er authsdk.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)
	return resp, er
}

func listing(title string) authsdk.PropertyRequest {
	return authsdk.PropertyRequest{
		Title:        title,
		Description:  "Three bedrooms close to the beach",
		Type:         "sale",
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
		City:         "Perth",
		State:        "WA",
		Country:      "Australia",
		Sqft:         1200,
		Bedrooms:     3,
		Bathrooms:    2,
		RegularPrice: 750000,
		Owner:        authsdk.Owner{Name: "Sam", Email: "sam@example.com", Phone: testPhone},
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t, "")
	s.seed("jane", domain.RoleUser)

	resp, _ := s.do(http.MethodPost, "/v1/auth/login",
		`{"identifier":"jane@example.com","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == httpx.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, strings.HasPrefix(cookie.Value, "Bearer "))
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Greater(t, cookie.MaxAge, 0)

	// The cookie alone authenticates.
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/v1/me", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	me, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)
}

func TestLoginLockoutResponse(t *testing.T) {
	s := newTestServer(t, "")
	s.seed("jane", domain.RoleUser)
	ctx := context.Background()

	for range 3 {
		_, err := s.sdk.Login(ctx, "jane", "wrong-password")
		require.Equal(t, http.StatusUnauthorized, authsdk.StatusCode(err))
	}

	resp, body := s.do(http.MethodPost, "/v1/auth/login",
		`{"identifier":"jane","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeTooManyAttempts, body.Error)
	require.InDelta(t, 10800, body.RetryAfterSeconds, 5)
	require.Regexp(t, regexp.MustCompile(`^0[23]:\d{2}:\d{2}$`), body.TimeLeft)
	require.Equal(t, strconv.Itoa(body.RetryAfterSeconds), resp.Header.Get("Retry-After"))

	// The SDK surfaces the same thing as a typed error.
	_, err := s.sdk.Login(ctx, "jane", testPassword)
	le, ok := authsdk.IsLockout(err)
	require.True(t, ok)
	require.Greater(t, le.RetryAfter, 2*time.Hour)
}

func TestLoginUnavailableCounterStore(t *testing.T) {
	s := newTestServer(t, "")
	s.seed("jane", domain.RoleUser)

	s.mr.SetError("LOADING")
	resp, body := s.do(http.MethodPost, "/v1/auth/login",
		`{"identifier":"jane","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "1", resp.Header.Get("Retry-After"))
	require.Equal(t, authsdk.ErrorCodeServiceUnavailable, body.Error)
}

func TestRegistrationOverHTTP(t *testing.T) {
	s := newTestServer(t, "")
	ctx := context.Background()

	require.NoError(t, s.sdk.RequestOtp(ctx, authsdk.OtpRequest{
		Username: "jane", Email: "Jane@Example.com", Role: "Agent",
	}))

	msg, ok := s.outbox.Last("jane@example.com")
	require.True(t, ok)
	code := regexp.MustCompile(`>(\d{6})<`).FindStringSubmatch(msg.HTML)
	require.Len(t, code, 2)

	sess, err := s.sdk.Register(ctx, authsdk.RegisterRequest{
		Email:    "jane@example.com",
		Otp:      code[1],
		Username: "jane",
		Password: testPassword,
		Role:     "Agent",
		Phone:    testPhone,
	})
	require.NoError(t, err)
	require.Equal(t, "Agent", sess.Account().Role)

	me, err := sess.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "jane", me.Username)

	// Codes are single use.
	_, err = s.sdk.Register(ctx, authsdk.RegisterRequest{
		Email: "jane@example.com", Otp: code[1], Username: "jane2",
		Password: testPassword, Role: "Agent", Phone: testPhone,
	})
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))
}

func TestValidationAndBadBodies(t *testing.T) {
	s := newTestServer(t, "")

	resp, body := s.do(http.MethodPost, "/v1/auth/otp", `{"username":"jane","email":"nope","role":"User"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeValidation, body.Error)
	require.Equal(t, "email", body.Field)

	resp, body = s.do(http.MethodPost, "/v1/auth/otp", `{"username":"jane","email":"jane@example.com","role":"Admin"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "role", body.Field)

	resp, body = s.do(http.MethodPost, "/v1/auth/login", `{"identifier":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, body.Error)

	resp, body = s.do(http.MethodPost, "/v1/auth/login", `{"identifier":"a","password":"b","extra":1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, body.Error)
}

func TestPasswordResetByPath(t *testing.T) {
	s := newTestServer(t, "")
	s.seed("jane", domain.RoleUser)
	ctx := context.Background()

	require.NoError(t, s.sdk.ForgotPassword(ctx, "jane"))
	msg, ok := s.outbox.Last("jane@example.com")
	require.True(t, ok)
	m := regexp.MustCompile(`reset-password/([A-Za-z0-9_-]+)"`).FindStringSubmatch(msg.HTML)
	require.Len(t, m, 2)

	require.NoError(t, s.sdk.ResetPassword(ctx, m[1], "a-brand-new-password"))

	err := s.sdk.ResetPassword(ctx, m[1], "another-new-password")
	require.Equal(t, http.StatusUnauthorized, authsdk.StatusCode(err))

	_, err = s.sdk.Login(ctx, "jane", "a-brand-new-password")
	require.NoError(t, err)

	err = s.sdk.ForgotPassword(ctx, "nobody")
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))
}

func TestMeEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	sess := s.seed("jane", domain.RoleUser)
	ctx := context.Background()
	oldToken := sess.AccessToken()

	name := "jane_doe"
	updated, err := sess.UpdateMe(ctx, authsdk.UpdateAccountRequest{Username: &name})
	require.NoError(t, err)
	require.Equal(t, "jane_doe", updated.Username)
	require.NotEqual(t, oldToken, sess.AccessToken())

	admin := "Admin"
	_, err = sess.UpdateMe(ctx, authsdk.UpdateAccountRequest{Role: &admin})
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))

	require.NoError(t, sess.DeleteMe(ctx))
	_, err = s.sdk.Login(ctx, "jane_doe", testPassword)
	require.Equal(t, http.StatusUnauthorized, authsdk.StatusCode(err))

	resp, body := s.do(http.MethodGet, "/v1/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, body.Error)
}

func TestAccountAdministration(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.seed("root", domain.RoleAdmin)
	user := s.seed("jane", domain.RoleUser)
	ctx := context.Background()

	_, err := user.ListAccounts(ctx)
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))

	created, err := admin.CreateAccount(ctx, authsdk.CreateAccountRequest{
		Username: "sam", Email: "sam@example.com", Password: testPassword, Phone: testPhone, Role: "Agent",
	})
	require.NoError(t, err)
	require.Equal(t, "Agent", created.Role)

	_, err = admin.CreateAccount(ctx, authsdk.CreateAccountRequest{
		Username: "sam2", Email: "sam@example.com", Password: testPassword, Phone: testPhone, Role: "User",
	})
	require.Equal(t, http.StatusConflict, authsdk.StatusCode(err))

	list, err := admin.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	_, err = admin.GetAccount(ctx, "missing")
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))

	require.NoError(t, admin.DeleteAccount(ctx, created.ID))
	_, err = admin.GetAccount(ctx, created.ID)
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))
}

func TestPropertyEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	agent := s.seed("agent", domain.RoleAgent)
	other := s.seed("other", domain.RoleAgent)
	user := s.seed("jane", domain.RoleUser)
	ctx := context.Background()

	_, err := user.CreateProperty(ctx, listing("Beach house"))
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))

	p, err := agent.CreateProperty(ctx, listing("Beach house"))
	require.NoError(t, err)
	require.Equal(t, "agent-id", p.CreatedBy)

	_, err = other.CreateProperty(ctx, listing("Beach house"))
	require.Equal(t, http.StatusConflict, authsdk.StatusCode(err))

	// Reads need no session.
	list, err := s.sdk.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got, err := s.sdk.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Beach house", got.Title)

	_, err = other.UpdateProperty(ctx, p.ID, listing("Taken over"))
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))

	up, err := agent.UpdateProperty(ctx, p.ID, listing("Beach house, renovated"))
	require.NoError(t, err)
	require.Equal(t, "Beach house, renovated", up.Title)

	bad := listing("No images")
	bad.ImageURLs = nil
	_, err = agent.CreateProperty(ctx, bad)
	require.Equal(t, http.StatusBadRequest, authsdk.StatusCode(err))

	resp, _ := s.do(http.MethodPost, "/v1/properties", `{}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.NoError(t, agent.DeleteProperty(ctx, p.ID))
	_, err = s.sdk.GetProperty(ctx, p.ID)
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))
}

func TestPropertySearchAndAgents(t *testing.T) {
	s := newTestServer(t, "")
	agent := s.seed("agent", domain.RoleAgent)
	s.seed("jane", domain.RoleUser)
	ctx := context.Background()

	_, err := agent.CreateProperty(ctx, listing("Beach house"))
	require.NoError(t, err)
	flat := listing("City flat")
	flat.Description = "Walk to the station"
	_, err = agent.CreateProperty(ctx, flat)
	require.NoError(t, err)

	// The literal segment wins over /v1/properties/{id}.
	found, err := s.sdk.SearchProperties(ctx, "BEACH")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Beach house", found[0].Title)

	found, err = s.sdk.SearchProperties(ctx, "station")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "City flat", found[0].Title)

	resp, er := s.do(http.MethodGet, "/v1/properties/search?q=%20", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "q", er.Field)

	agents, err := s.sdk.ListAgents(ctx)
	require.NoError(t, err)
	require.Equal(t, []authsdk.Agent{{Username: "agent", Email: "agent@example.com", Phone: testPhone}}, agents)
}

func TestContactEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.seed("admin", domain.RoleAdmin)
	agent := s.seed("agent", domain.RoleAgent)
	user := s.seed("jane", domain.RoleUser)
	ctx := context.Background()

	c, err := s.sdk.SubmitContact(ctx, authsdk.ContactRequest{
		Name:    "Visitor",
		Email:   "Visitor@Example.com",
		Phone:   "+61412345678",
		Message: "Is the beach house still available?",
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "visitor@example.com", c.Email)

	_, err = s.sdk.SubmitContact(ctx, authsdk.ContactRequest{Name: "Visitor", Email: "nope", Message: "hi"})
	require.Equal(t, http.StatusBadRequest, authsdk.StatusCode(err))

	resp, _ := s.do(http.MethodGet, "/v1/contacts", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, err = user.ListContacts(ctx)
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))

	list, err := agent.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got, err := agent.GetContact(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Message, got.Message)

	err = agent.DeleteContact(ctx, c.ID)
	require.Equal(t, http.StatusForbidden, authsdk.StatusCode(err))

	require.NoError(t, admin.DeleteContact(ctx, c.ID))
	_, err = admin.GetContact(ctx, c.ID)
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))
	err = admin.DeleteContact(ctx, c.ID)
	require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))

	list, err = admin.ListContacts(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestBootstrapEndpoint(t *testing.T) {
	ctx := context.Background()
	req := authsdk.BootstrapRequest{
		Username: "root", Email: "root@example.com", Password: testPassword, Phone: testPhone,
	}

	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(t, "")
		_, err := s.sdk.Bootstrap(ctx, "anything", req)
		require.Equal(t, http.StatusNotFound, authsdk.StatusCode(err))
	})

	t.Run("missing header", func(t *testing.T) {
		s := newTestServer(t, testBootstrap)
		resp, body := s.do(http.MethodPost, "/v1/bootstrap", `{}`)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, authsdk.ErrorCodeUnauthorized, body.Error)
	})

	t.Run("once", func(t *testing.T) {
		s := newTestServer(t, testBootstrap)

		_, err := s.sdk.Bootstrap(ctx, "wrong", req)
		require.Equal(t, http.StatusUnauthorized, authsdk.StatusCode(err))

		admin, err := s.sdk.Bootstrap(ctx, testBootstrap, req)
		require.NoError(t, err)
		require.Equal(t, "Admin", admin.Role)

		_, err = s.sdk.Bootstrap(ctx, testBootstrap, req)
		require.Equal(t, http.StatusConflict, authsdk.StatusCode(err))

		_, err = s.sdk.Login(ctx, "root", testPassword)
		require.NoError(t, err)
	})
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	ctx := context.Background()

	live, err := s.sdk.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.sdk.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Cache)

	s.mr.SetError("LOADING")
	resp, err := http.Get(s.srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var hr authsdk.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hr))
	require.Equal(t, "degraded", hr.Status)
	require.Equal(t, "ok", hr.Checks.Database)
	require.True(t, strings.HasPrefix(hr.Checks.Cache, "error: "))
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t, "")

	resp, _ := s.do(http.MethodPost, "/v1/auth/logout", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, httpx.SessionCookieName, cookies[0].Name)
	require.Less(t, cookies[0].MaxAge, 0)
}
