package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/httpx"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
	"github.com/aussiebroadwan/estate/pkg/slogx"

	_ "github.com/aussiebroadwan/estate/api/estate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store     store.Store
	ephemeral ephemeral.Store

	// CookieSecure marks the session cookie Secure. Off only for local http.
	CookieSecure bool

	SessionService      *service.SessionService
	RegistrationService *service.RegistrationService
	ResetService        *service.PasswordResetService
	AccountService      *service.AccountService
	PropertyService     *service.PropertyService
	ContactService      *service.ContactService
	BootstrapService    *service.BootstrapService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	eph ephemeral.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		ephemeral:    eph,
		logger:       logger,
		CookieSecure: true,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerAccounts()
	r.registerProperties()
	r.registerContacts()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Estate Marketplace API
//	@version		0.1.0
//	@description	Accounts and property listings for the estate marketplace.
//	@description
//	@description				Sessions are signed JWTs, returned in the response body and mirrored into an HttpOnly cookie.
//	@description				Repeated failed sign-ins lock the identifier for three hours.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/estate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps an account-scoped handler.
func (r *Router) secured(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByAccount(httpx.AccountLimit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Sessions:     r.SessionService,
		Registration: r.RegistrationService,
		Reset:        r.ResetService,
		CookieSecure: r.CookieSecure,
	}

	// Credential endpoints share one strict per-IP bucket
	strict := httpx.RateLimitByIP(httpx.AuthLimit)
	r.Mux.Handle("POST /v1/auth/otp", httpx.Chain(http.HandlerFunc(h.HandleOtp), strict))
	r.Mux.Handle("POST /v1/auth/register", httpx.Chain(http.HandlerFunc(h.HandleRegister), strict))
	r.Mux.Handle("POST /v1/auth/login", httpx.Chain(http.HandlerFunc(h.HandleLogin), strict))
	r.Mux.Handle("POST /v1/auth/password/forgot", httpx.Chain(http.HandlerFunc(h.HandleForgot), strict))
	r.Mux.Handle("POST /v1/auth/password/reset", httpx.Chain(http.HandlerFunc(h.HandleReset), strict))
	r.Mux.Handle("PUT /v1/auth/password/reset/{resetToken}", httpx.Chain(http.HandlerFunc(h.HandleReset), strict))

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{
		Accounts:     r.AccountService,
		Sessions:     r.SessionService,
		CookieSecure: r.CookieSecure,
	}

	r.Mux.Handle("GET /v1/me", r.secured(h.HandleGet))
	r.Mux.Handle("PUT /v1/me", r.secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/me", r.secured(h.HandleDelete))
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{Accounts: r.AccountService}

	r.Mux.Handle("GET /v1/agents",
		httpx.Chain(http.HandlerFunc(h.HandleAgents), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
	r.Mux.Handle("GET /v1/accounts", r.secured(h.HandleList))
	r.Mux.Handle("POST /v1/accounts", r.secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/accounts/{id}", r.secured(h.HandleGet))
	r.Mux.Handle("PUT /v1/accounts/{id}", r.secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/accounts/{id}", r.secured(h.HandleDelete))
}

func (r *Router) registerProperties() {
	h := &PropertiesHandler{Properties: r.PropertyService}

	// Reads are public with a high limit
	r.Mux.Handle("GET /v1/properties",
		httpx.Chain(http.HandlerFunc(h.HandleList), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
	r.Mux.Handle("GET /v1/properties/search",
		httpx.Chain(http.HandlerFunc(h.HandleSearch), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
	r.Mux.Handle("GET /v1/properties/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), httpx.RateLimitByIP(httpx.PublicLimit)),
	)

	r.Mux.Handle("POST /v1/properties", r.secured(h.HandleCreate))
	r.Mux.Handle("PUT /v1/properties/{id}", r.secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/properties/{id}", r.secured(h.HandleDelete))
}

func (r *Router) registerContacts() {
	h := &ContactsHandler{Contacts: r.ContactService}

	// The public form gets the strict per-IP profile
	r.Mux.Handle("POST /v1/contacts",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), httpx.RateLimitByIP(httpx.AuthLimit)),
	)
	r.Mux.Handle("GET /v1/contacts", r.secured(h.HandleList))
	r.Mux.Handle("GET /v1/contacts/{id}", r.secured(h.HandleGet))
	r.Mux.Handle("DELETE /v1/contacts/{id}", r.secured(h.HandleDelete))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.AuthLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.ephemeral, r.signer),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
