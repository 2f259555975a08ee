package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// Paths are the endpoint paths of a provider deployment.
type Paths struct {
	Code      string
	Token     string
	UserInfo  string
	Health    string
	EnvHealth string
}

// DefaultPaths match a provider started without path overrides.
var DefaultPaths = Paths{
	Code:      "/api/v1/code",
	Token:     "/api/v1/token",
	UserInfo:  "/api/v1/userInfo",
	Health:    "/api/v1/health",
	EnvHealth: "/api/v1/health/env",
}

// SDKClient talks to one provider.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Paths      Paths

	// Issuer, when set, is required as the "iss" of verified ID tokens.
	Issuer string

	// CorrelationID, when set, is sent in the correlationId header of every
	// request so the provider's logs can be matched to the caller's.
	CorrelationID string
}

// NewSDKClient creates a client for the provider at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Paths: DefaultPaths,
	}
}
