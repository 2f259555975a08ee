package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	httpapi "github.com/aussiebroadwan/devssoidp/internal/idp/http"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DEVSSOIDP_"

// Environment variable names referenced in validation messages.
const (
	VarUseHTTP              = EnvPrefix + "USE_HTTP"
	VarUseHTTPS             = EnvPrefix + "USE_HTTPS"
	VarClientIDs            = EnvPrefix + "CLIENT_IDS"
	VarClientIDsWithSecrets = EnvPrefix + "CLIENT_IDS_WITH_SECRETS"
	VarRedirectURIs         = EnvPrefix + "PERCENT_ENCODED_REDIRECT_URIS"
	VarHashSecret           = EnvPrefix + "HASH_SECRET"
	VarSalts                = EnvPrefix + "SALTS_FOR_HASHING_SECRET"

	VarCodePath      = EnvPrefix + "CODE_ENDPOINT_PATH"
	VarTokenPath     = EnvPrefix + "TOKEN_ENDPOINT_PATH"
	VarUserInfoPath  = EnvPrefix + "USER_INFO_ENDPOINT_PATH"
	VarHealthPath    = EnvPrefix + "HEALTH_CHECK_ENDPOINT_PATH"
	VarEnvHealthPath = EnvPrefix + "HEALTH_CHECK_ENV_ENDPOINT_PATH"
	VarMetricsPath   = EnvPrefix + "METRICS_ENDPOINT_PATH"

	VarNameField       = EnvPrefix + "ID_TOKEN_NAME_FIELD"
	VarUsernameField   = EnvPrefix + "ID_TOKEN_USERNAME_FIELD"
	VarFirstNameField  = EnvPrefix + "ID_TOKEN_FIRST_NAME_FIELD"
	VarMiddleNameField = EnvPrefix + "ID_TOKEN_MIDDLE_NAME_FIELD"
	VarLastNameField   = EnvPrefix + "ID_TOKEN_LAST_NAME_FIELD"
	VarEmailField      = EnvPrefix + "ID_TOKEN_EMAIL_FIELD"
)

// Flag is a boolean variable that is true only for "true" in any case.
// Everything else, "1" and "yes" included, is false.
type Flag bool

func (f *Flag) UnmarshalText(text []byte) error {
	*f = Flag(strings.EqualFold(string(text), "true"))
	return nil
}

// rawEnv holds the variables as read, before normalisation.
type rawEnv struct {
	UseHTTP   Flag `env:"USE_HTTP"`
	HTTPPort  int  `env:"HTTP_PORT"  envDefault:"3000"`
	UseHTTPS  Flag `env:"USE_HTTPS"`
	HTTPSPort int  `env:"HTTPS_PORT" envDefault:"3443"`

	Issuer                     string `env:"ISSUER"`
	PercentEncodedRedirectURIs string `env:"PERCENT_ENCODED_REDIRECT_URIS"`
	ClientIDsWithSecrets       string `env:"CLIENT_IDS_WITH_SECRETS"`
	ClientIDs                  string `env:"CLIENT_IDS"`
	HashSecret                 Flag   `env:"HASH_SECRET"`
	SaltsForHashingSecret      string `env:"SALTS_FOR_HASHING_SECRET"`

	IDTokenExpirationSeconds            int  `env:"ID_TOKEN_EXPIRATION_SECONDS"`
	IncludeExpiresInInTokenResponse     Flag `env:"INCLUDE_EXPIRES_IN_IN_TOKEN_RESPONSE"`
	RedirectURIOptionalForTokenEndpoint Flag `env:"REDIRECT_URI_OPTIONAL_FOR_TOKEN_ENDPOINT"`
	ClientIDOptionalForTokenEndpoint    Flag `env:"CLIENT_ID_OPTIONAL_FOR_TOKEN_ENDPOINT"`
	EnableRefreshTokens                 Flag `env:"ENABLE_REFRESH_TOKENS"`
	ExcludeUserInfoFromIDToken          Flag `env:"EXCLUDE_USER_INFO_FROM_ID_TOKEN"`

	IDTokenNameField       string `env:"ID_TOKEN_NAME_FIELD"`
	IDTokenUsernameField   string `env:"ID_TOKEN_USERNAME_FIELD"`
	IDTokenFirstNameField  string `env:"ID_TOKEN_FIRST_NAME_FIELD"`
	IDTokenMiddleNameField string `env:"ID_TOKEN_MIDDLE_NAME_FIELD"`
	IDTokenLastNameField   string `env:"ID_TOKEN_LAST_NAME_FIELD"`
	IDTokenEmailField      string `env:"ID_TOKEN_EMAIL_FIELD"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Env       string `env:"ENV"        envDefault:"dev"`

	CodeEndpointPath           string `env:"CODE_ENDPOINT_PATH"`
	TokenEndpointPath          string `env:"TOKEN_ENDPOINT_PATH"`
	UserInfoEndpointPath       string `env:"USER_INFO_ENDPOINT_PATH"`
	HealthCheckEndpointPath    string `env:"HEALTH_CHECK_ENDPOINT_PATH"`
	HealthCheckEnvEndpointPath string `env:"HEALTH_CHECK_ENV_ENDPOINT_PATH"`
	MetricsEndpointPath        string `env:"METRICS_ENDPOINT_PATH"`

	SSLDir              string        `env:"SSL_DIR"               envDefault:"ssl"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// Unset limits keep httpx.TokenLimit; see LoadConfigFrom.
	RateLimitTokenRequests int           `env:"RATELIMIT_TOKEN_REQUESTS"`
	RateLimitTokenWindow   time.Duration `env:"RATELIMIT_TOKEN_WINDOW"`
	RateLimitTokenBurst    int           `env:"RATELIMIT_TOKEN_BURST"`
}

// Config is the normalised process configuration. It is built once by
// LoadConfig and never mutated.
type Config struct {
	UseHTTP   bool
	HTTPPort  int
	UseHTTPS  bool
	HTTPSPort int

	// RedirectURIs are the configured percent-encoded redirect URIs. They
	// are only validated; nothing matches against them.
	RedirectURIs []string

	Route domain.RouteParams
	Paths httpapi.Paths

	Env       string
	LogLevel  string
	LogFormat string

	SSLDir              string
	ShutdownGracePeriod time.Duration
	TokenRateLimit      httpx.RateLimitConfig

	raw rawEnv
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(nil)
}

// LoadConfigFrom reads environ instead of the process environment when it
// is non-nil. Keys carry the DEVSSOIDP_ prefix.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	raw := rawEnv{
		RateLimitTokenRequests: httpx.TokenLimit.RequestsPerWindow,
		RateLimitTokenWindow:   httpx.TokenLimit.Window,
		RateLimitTokenBurst:    httpx.TokenLimit.Burst,
	}
	if err := env.ParseWithOptions(&raw, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return newConfig(raw), nil
}

func newConfig(raw rawEnv) Config {
	paths := httpapi.DefaultPaths()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&paths.Code, raw.CodeEndpointPath)
	override(&paths.Token, raw.TokenEndpointPath)
	override(&paths.UserInfo, raw.UserInfoEndpointPath)
	override(&paths.Health, raw.HealthCheckEndpointPath)
	override(&paths.EnvHealth, raw.HealthCheckEnvEndpointPath)
	override(&paths.Metrics, raw.MetricsEndpointPath)

	return Config{
		UseHTTP:      bool(raw.UseHTTP),
		HTTPPort:     raw.HTTPPort,
		UseHTTPS:     bool(raw.UseHTTPS),
		HTTPSPort:    raw.HTTPSPort,
		RedirectURIs: domain.SplitList(raw.PercentEncodedRedirectURIs),
		Route: domain.RouteParams{
			Issuer:                          raw.Issuer,
			IDTokenExpirationSeconds:        raw.IDTokenExpirationSeconds,
			Clients:                         domain.ParseClientCredentials(raw.ClientIDs, raw.ClientIDsWithSecrets),
			Salts:                           domain.SplitList(raw.SaltsForHashingSecret),
			MustUseCredentials:              raw.ClientIDsWithSecrets != "",
			MustHashSecret:                  bool(raw.HashSecret),
			MustCheckRedirectURI:            !bool(raw.RedirectURIOptionalForTokenEndpoint),
			MustCheckClientID:               !bool(raw.ClientIDOptionalForTokenEndpoint),
			IncludeExpiresInInTokenResponse: bool(raw.IncludeExpiresInInTokenResponse),
			EnableRefreshTokens:             bool(raw.EnableRefreshTokens),
			ExcludeUserInfoFromIDToken:      bool(raw.ExcludeUserInfoFromIDToken),
			FieldNames: domain.IDTokenFieldNames{
				Name:       raw.IDTokenNameField,
				Username:   raw.IDTokenUsernameField,
				FirstName:  raw.IDTokenFirstNameField,
				MiddleName: raw.IDTokenMiddleNameField,
				LastName:   raw.IDTokenLastNameField,
				Email:      raw.IDTokenEmailField,
			}.WithDefaults(),
		},
		Paths:               paths,
		Env:                 raw.Env,
		LogLevel:            raw.LogLevel,
		LogFormat:           raw.LogFormat,
		SSLDir:              raw.SSLDir,
		ShutdownGracePeriod: raw.ShutdownGracePeriod,
		TokenRateLimit: httpx.RateLimitConfig{
			RequestsPerWindow: raw.RateLimitTokenRequests,
			Window:            raw.RateLimitTokenWindow,
			Burst:             raw.RateLimitTokenBurst,
		},
		raw: raw,
	}
}
