package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// Authorization schemes understood by the service.
const (
	SchemeBasic  = "Basic"
	SchemeBearer = "Bearer"
)

var (
	ErrNoAuthorization = errors.New("httpx: authorization header missing")
	ErrWrongScheme     = errors.New("httpx: authorization scheme mismatch")
	ErrNoCredentials   = errors.New("httpx: authorization credentials missing")
)

// ParseAuthorization returns the credentials following scheme in an
// Authorization header value. The value is split on single spaces and only
// the first two parts are considered, so "Bearer abc extra" yields "abc".
func ParseAuthorization(value, scheme string) (string, error) {
	if value == "" {
		return "", ErrNoAuthorization
	}

	parts := strings.Split(value, " ")
	if parts[0] != scheme {
		return "", ErrWrongScheme
	}
	if len(parts) < 2 || parts[1] == "" {
		return "", ErrNoCredentials
	}
	return parts[1], nil
}

// AuthorizationFrom is ParseAuthorization applied to r's Authorization header.
func AuthorizationFrom(r *http.Request, scheme string) (string, error) {
	return ParseAuthorization(r.Header.Get("Authorization"), scheme)
}
