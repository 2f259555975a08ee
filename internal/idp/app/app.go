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

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	httpapi "github.com/aussiebroadwan/devssoidp/internal/idp/http"
	"github.com/aussiebroadwan/devssoidp/internal/idp/metrics"
	"github.com/aussiebroadwan/devssoidp/internal/idp/service"
	"github.com/aussiebroadwan/devssoidp/pkg/cryptox"
	"github.com/aussiebroadwan/devssoidp/pkg/opaque"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "devssoidp"
)

// Application owns the identity provider and its listeners.
type Application struct {
	cfg    Config
	logger *slog.Logger

	validation   domain.ValidationResult
	metrics      *metrics.Metrics
	tokenService *service.TokenService

	router  *httpapi.Router
	servers []*http.Server
}

// New validates cfg and builds every dependency. Fatal configuration
// problems are returned as errors wrapping ErrInvalidConfig; non-fatal ones
// are logged and served on the env health endpoint.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service:  serviceName,
			Version:  BuildVersion,
			Env:      cfg.Env,
			Level:    cfg.LogLevel,
			Format:   cfg.LogFormat,
			Instance: cryptox.MustGenerateToken(cryptox.PrefixSize),
		}),
	}

	validation, err := Validate(cfg)
	app.validation = validation
	for _, p := range validation.Errors {
		app.logger.Error("invalid environment", "var", p.Var, "message", p.Message)
	}
	for _, p := range validation.Warnings {
		app.logger.Warn("questionable environment", "var", p.Var, "message", p.Message)
	}
	if err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	if err := app.initServers(); err != nil {
		return nil, err
	}

	return app, nil
}

// Handler returns the routed handler shared by every listener.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Validation returns the result of validating the configuration at startup.
func (app *Application) Validation() domain.ValidationResult {
	return app.validation
}

// Run starts the listeners and blocks until a shutdown signal arrives or
// a listener fails.
func (app *Application) Run() error {
	serverErrors := make(chan error, len(app.servers))
	for _, srv := range app.servers {
		go func() {
			if srv.TLSConfig != nil {
				app.logger.Info("https listener starting", "addr", srv.Addr, "version", BuildVersion)
				serverErrors <- srv.ListenAndServeTLS("", "")
				return
			}
			app.logger.Info("http listener starting", "addr", srv.Addr, "version", BuildVersion)
			serverErrors <- srv.ListenAndServe()
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops every listener, giving in-flight requests the configured
// grace period.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity provider...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	var errs []error
	for _, srv := range app.servers {
		if err := srv.Shutdown(ctx); err != nil {
			app.logger.Error("graceful server shutdown failed", "addr", srv.Addr, "error", err)
			if err := srv.Close(); err != nil {
				app.logger.Error("error closing server", "addr", srv.Addr, "error", err)
			}
			errs = append(errs, err)
		}
	}

	app.logger.Info("identity provider stopped")
	return errors.Join(errs...)
}

func (app *Application) initServices() error {
	idTokens, err := service.NewIDTokenSigner()
	if err != nil {
		return fmt.Errorf("failed to initialize ID token signer: %w", err)
	}

	app.tokenService = service.NewTokenService(app.cfg.Route, opaque.NewCodec(), idTokens)
	app.metrics = metrics.New()
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.cfg.Paths, app.logger)
	router.TokenService = app.tokenService
	router.Metrics = app.metrics
	router.EnvValidation = app.validation
	router.TokenRateLimit = app.cfg.TokenRateLimit
	router.ApplyRoutes()

	app.router = router
}

func (app *Application) initServers() error {
	if app.cfg.UseHTTP {
		app.servers = append(app.servers, app.newServer(app.cfg.HTTPPort))
	}

	if app.cfg.UseHTTPS {
		tlsConfig, err := LoadTLSConfig(app.cfg.SSLDir, app.logger)
		if err != nil {
			return fmt.Errorf("failed to load TLS material: %w", err)
		}
		srv := app.newServer(app.cfg.HTTPSPort)
		srv.TLSConfig = tlsConfig
		app.servers = append(app.servers, srv)
	}

	return nil
}

func (app *Application) newServer(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}
}
