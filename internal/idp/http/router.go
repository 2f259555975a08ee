package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/internal/idp/metrics"
	"github.com/aussiebroadwan/devssoidp/internal/idp/service"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

// Paths are the mount points of the endpoints. They are configurable so a
// relying party can point at the same paths its real provider uses.
type Paths struct {
	Code      string
	Token     string
	UserInfo  string
	Health    string
	EnvHealth string
	Metrics   string
}

// DefaultPaths returns the paths used when none are configured.
func DefaultPaths() Paths {
	return Paths{
		Code:      "/api/v1/code",
		Token:     "/api/v1/token",
		UserInfo:  "/api/v1/userInfo",
		Health:    "/api/v1/health",
		EnvHealth: "/api/v1/health/env",
		Metrics:   "/metrics",
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	paths  Paths
	logger *slog.Logger

	TokenService *service.TokenService
	Metrics      *metrics.Metrics

	// EnvValidation is the startup configuration check served by the env
	// health endpoint.
	EnvValidation domain.ValidationResult

	// TokenRateLimit applies to the token endpoint. The zero value disables
	// limiting.
	TokenRateLimit httpx.RateLimitConfig
}

func NewRouter(paths Paths, logger *slog.Logger) *Router {
	r := &Router{
		Mux:    http.NewServeMux(),
		paths:  paths,
		logger: logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOIDC()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Development SSO Identity Provider API
//	@version		0.1.0
//	@description	A stand-in OpenID Connect provider for local development and automated tests.
//	@description
//	@description	Codes, access tokens and refresh tokens are opaque self-verifying strings; ID tokens are HS256 JWTs.
//
//	@host			localhost:3000
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOIDC() {
	codeHandler := &CodeHandler{TokenService: r.TokenService, Metrics: r.Metrics}
	r.Mux.Handle("GET "+r.paths.Code, codeHandler)

	// POST token - the only endpoint that checks client secrets, so it is
	// limited by IP + client_id
	tokenHandler := &TokenHandler{TokenService: r.TokenService, Metrics: r.Metrics}
	r.Mux.Handle("POST "+r.paths.Token,
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(r.TokenRateLimit, "client_id"),
		),
	)

	onDeny := func(_ *http.Request, reason string) {
		r.Metrics.Denied("userinfo", reason)
	}
	r.Mux.Handle("GET "+r.paths.UserInfo,
		httpx.Chain(&UserInfoHandler{},
			httpx.AuthnMiddleware(r.TokenService.Codec, onDeny),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET "+r.paths.Health, HealthHandler())
	r.Mux.Handle("GET "+r.paths.EnvHealth, EnvHealthHandler(r.EnvValidation))

	if r.Metrics != nil && r.paths.Metrics != "" {
		r.Mux.Handle("GET "+r.paths.Metrics, r.Metrics.Handler())
	}
}
