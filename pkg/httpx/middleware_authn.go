package httpx

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/devssoidp/pkg/opaque"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

// DenyFunc is told why a request was refused. reason is a short stable
// label suitable for a metric.
type DenyFunc func(r *http.Request, reason string)

// AuthnMiddleware admits requests carrying "Authorization: Bearer <token>"
// where token is an unbound opaque access token. The token's scopes are
// placed in the request context. Every refusal is a 403 with the generic
// access-denied body; the reason is only logged.
func AuthnMiddleware(codec *opaque.Codec, onDeny DenyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			deny := func(reason, msg string) {
				log.Warn(msg, "reason", reason)
				if onDeny != nil {
					onDeny(r, reason)
				}
				WriteAccessDenied(w)
			}

			token, err := AuthorizationFrom(r, SchemeBearer)
			switch {
			case errors.Is(err, ErrNoAuthorization):
				deny("missing_token", "access token not found, expected 'Authorization: Bearer <access-token>'")
				return
			case errors.Is(err, ErrWrongScheme):
				deny("wrong_scheme", "authorization header must start with 'Bearer '")
				return
			case errors.Is(err, ErrNoCredentials):
				deny("missing_token", "authorization header must have 'Bearer ' followed by the access token")
				return
			}

			if !codec.Verify(token, opaque.Unbound) {
				deny("invalid_token", "access token is invalid")
				return
			}

			ctx = contextWithScopes(ctx, opaque.ExtractScopes(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
