package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/cache"
	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	httpapi "github.com/aussiebroadwan/estate/internal/estate/http"
	"github.com/aussiebroadwan/estate/internal/estate/service"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/aussiebroadwan/estate/pkg/cryptox"
	"github.com/aussiebroadwan/estate/pkg/httpx"
	"github.com/aussiebroadwan/estate/pkg/jwtx"
	"github.com/aussiebroadwan/estate/pkg/mailx"
	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the estate service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	eph           *ephemeral.Redis
	stopEphemeral func()
	signer        jwtx.Signer
	verifier      jwtx.Verifier
	hasher        cryptox.Hasher
	mailer        mailx.Dispatcher

	// Services
	tokenService        *service.TokenService
	sessionService      *service.SessionService
	registrationService *service.RegistrationService
	resetService        *service.PasswordResetService
	accountService      *service.AccountService
	propertyService     *service.PropertyService
	contactService      *service.ContactService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "estate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()
	if err := app.initInfra(ctx); err != nil {
		_ = app.closeInfra()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// initInfra opens the stores and loads key material.
func (app *Application) initInfra(ctx context.Context) error {
	var err error

	if app.db, err = OpenStore(ctx, app.cfg, app.logger); err != nil {
		return err
	}

	if app.eph, app.stopEphemeral, err = OpenEphemeral(ctx, app.cfg, app.logger); err != nil {
		return err
	}

	if app.signer, app.verifier, err = InitSessionKeys(app.cfg, app.logger); err != nil {
		return fmt.Errorf("failed to initialize session keys: %w", err)
	}

	if app.hasher, err = NewHasher(app.cfg); err != nil {
		return err
	}

	if app.mailer, err = NewMailer(app.cfg, app.logger); err != nil {
		return err
	}

	if err = httpx.SetTrustedProxies(app.cfg.TrustedProxies); err != nil {
		return err
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	reader := cache.NewReader(app.eph, app.cfg.CacheCoalesce)
	accounts := service.NewAccountCache(app.db, reader, app.cfg.CacheItemTTL, app.cfg.CacheListTTL)
	properties := service.NewPropertyCache(app.db, reader, app.cfg.CacheItemTTL, app.cfg.CacheListTTL)
	contacts := service.NewContactCache(app.db, reader, app.cfg.CacheListTTL)

	app.tokenService = &service.TokenService{
		Signer: app.signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}
	app.sessionService = &service.SessionService{
		Store:    app.db,
		Guard:    service.NewAbuseGuard(app.eph, app.cfg.LockoutThreshold, app.cfg.LockoutWindow, nil),
		Hasher:   app.hasher,
		Tokens:   app.tokenService,
		Accounts: accounts,
	}
	app.registrationService = &service.RegistrationService{
		Store:      app.db,
		Hasher:     app.hasher,
		CodeHasher: app.hasher,
		Mailer:     app.mailer,
		Accounts:   accounts,
		OtpTTL:     app.cfg.OtpTTL,
	}
	app.resetService = &service.PasswordResetService{
		Store:    app.db,
		Hasher:   app.hasher,
		Mailer:   app.mailer,
		Accounts: accounts,
		TTL:      app.cfg.ResetTTL,
		ResetURL: app.cfg.ResetURL,
	}
	app.accountService = &service.AccountService{
		Store:    app.db,
		Hasher:   app.hasher,
		Accounts: accounts,
	}
	app.propertyService = &service.PropertyService{
		Store:      app.db,
		Properties: properties,
	}
	app.contactService = &service.ContactService{
		Store:    app.db,
		Contacts: contacts,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:    app.db,
		Hasher:   app.hasher,
		Accounts: accounts,
		Token:    app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.verifier,
		BuildVersion,
		app.db,
		app.eph,
		app.logger,
	)

	// Wire services to router
	router.CookieSecure = app.cfg.CookieSecure
	router.SessionService = app.sessionService
	router.RegistrationService = app.registrationService
	router.ResetService = app.resetService
	router.AccountService = app.accountService
	router.PropertyService = app.propertyService
	router.ContactService = app.contactService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	if app.cfg.BootstrapToken != "" {
		done, err := app.bootstrapService.IsBootstrapped(context.Background())
		switch {
		case err != nil:
			app.logger.Warn("could not check bootstrap state", "error", err)
		case !done:
			app.logger.Info("no accounts yet; POST /v1/bootstrap to create the first administrator")
		}
	}

	app.logger.Info("estate service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.closeInfra()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down estate service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.closeInfra(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("estate service stopped")
	return nil
}

// closeInfra releases whatever initInfra managed to open.
func (app *Application) closeInfra() error {
	if app.stopEphemeral != nil {
		app.stopEphemeral()
		app.stopEphemeral = nil
	}
	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	return err
}
