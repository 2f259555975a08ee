package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/pkg/opaque"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

// CodeRequest asks for an authorization code.
type CodeRequest struct {
	Scope       string
	RedirectURI string
	ClientID    string
	Nonce       string
}

// IssueCode mints an authorization code bound to the redirect URI and
// client id as the route parameters require. An empty scope string is
// ErrMissingScope.
func (s *TokenService) IssueCode(ctx context.Context, req CodeRequest) (string, error) {
	if req.Scope == "" {
		return "", ErrMissingScope
	}

	code, err := s.Codec.Mint(req.Scope, req.Nonce, opaque.Binding{
		RedirectURI:        req.RedirectURI,
		ClientID:           req.ClientID,
		IncludeRedirectURI: s.Params.MustCheckRedirectURI,
		IncludeClientID:    s.Params.MustCheckClientID,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("minting code failed", slog.Any("err", err))
		return "", err
	}
	return code, nil
}

// UserInfo returns the claims released by the scopes of a verified access
// token.
func UserInfo(ctx context.Context, scopes []string) map[string]any {
	slogx.FromContext(ctx).Debug("user info requested", slog.Any("scopes", scopes))
	return domain.UserInfo(scopes)
}
