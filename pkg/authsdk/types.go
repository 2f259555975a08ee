package authsdk

// ErrorResponse is the body of a provider error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// CodeResponse is the body of the code endpoint.
type CodeResponse struct {
	Code string `json:"code"`
}

// TokenResponse is the body of the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	// ExpiresIn is only sent when the provider is configured to include it.
	ExpiresIn *int `json:"expires_in,omitempty"`

	// RefreshToken is only sent when refresh tokens are enabled.
	RefreshToken string `json:"refresh_token,omitempty"`

	IDToken string `json:"id_token"`
}

// UserInfo holds the claims released by an access token's scopes. Values
// keep their JSON types (string, bool, float64, nested object).
type UserInfo map[string]any

// StringClaim returns a string claim, or "" when it is absent or not a string.
func (u UserInfo) StringClaim(key string) string {
	s, _ := u[key].(string)
	return s
}

// EnvProblem is one configuration problem reported at startup.
type EnvProblem struct {
	Message string `json:"message"`
	Var     string `json:"var"`
}

// EnvHealthResponse is the failure body of the env health endpoint.
type EnvHealthResponse struct {
	Errors []EnvProblem `json:"errors"`
}
