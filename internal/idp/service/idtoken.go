package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/pkg/jwtx"
)

// NonceClaim carries the nonce given when the code was issued.
const NonceClaim = "nonce"

// IsReservedClaim reports whether name cannot carry a user claim: the
// registered claims, the nonce and the marker are written by the signer.
func IsReservedClaim(name string) bool {
	return name == NonceClaim || name == jwtx.MarkerClaim || jwtx.IsRegistered(name)
}

// IDTokenRequest is everything that goes into one ID token.
type IDTokenRequest struct {
	Issuer            string
	ClientID          string
	ExpirationSeconds int
	Scopes            []string
	ExcludeUserInfo   bool
	FieldNames        domain.IDTokenFieldNames
	Nonce             string
}

// IDTokenSigner builds ID token claims and hands them to a jwtx.Signer.
type IDTokenSigner struct {
	Signer jwtx.Signer

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewIDTokenSigner signs with the development HMAC key.
func NewIDTokenSigner() (*IDTokenSigner, error) {
	s, err := jwtx.NewSignerHS256([]byte(jwtx.DevSigningKey))
	if err != nil {
		return nil, err
	}
	return &IDTokenSigner{Signer: s, Now: time.Now}, nil
}

// Sign returns a compact JWT. The payload carries, in order: the marker
// claim (when a nonce or user claims follow), the nonce, the user claims
// released by the scopes, then iat, iss, aud, sub and exp.
//
// Failures wrap ErrSigning. There is no retry.
func (s *IDTokenSigner) Sign(ctx context.Context, req IDTokenRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	claims := jwtx.NewIDClaims(
		req.Issuer,
		domain.Subject,
		req.ClientID,
		time.Duration(req.ExpirationSeconds)*time.Second,
		now(),
	)

	var user []domain.Claim
	if !req.ExcludeUserInfo {
		user = domain.IDTokenClaims(req.Scopes, req.FieldNames.WithDefaults())
	}

	if req.Nonce != "" || len(user) > 0 {
		if err := claims.Set(jwtx.MarkerClaim, true); err != nil {
			return "", fmt.Errorf("%w: %w", ErrSigning, err)
		}
	}
	if req.Nonce != "" {
		if err := claims.Set(NonceClaim, req.Nonce); err != nil {
			return "", fmt.Errorf("%w: %w", ErrSigning, err)
		}
	}
	for _, c := range user {
		if err := claims.Set(c.Key, c.Value); err != nil {
			return "", fmt.Errorf("%w: %w", ErrSigning, err)
		}
	}

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}
	return token, nil
}
