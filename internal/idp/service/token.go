package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/pkg/opaque"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

// TokenService runs the token endpoint: request validation, optional client
// authentication, code or refresh token verification, scope negotiation and
// response assembly. It holds no per-request state.
type TokenService struct {
	Params      domain.RouteParams
	Codec       *opaque.Codec
	Credentials *CredentialVerifier
	IDTokens    *IDTokenSigner
}

// NewTokenService wires a TokenService for params.
func NewTokenService(params domain.RouteParams, codec *opaque.Codec, idTokens *IDTokenSigner) *TokenService {
	return &TokenService{
		Params: params,
		Codec:  codec,
		Credentials: &CredentialVerifier{
			Clients:  params.Clients,
			Salts:    params.Salts,
			MustHash: params.MustHashSecret,
		},
		IDTokens: idTokens,
	}
}

// TokenRequest is the form body of a token request plus the raw
// Authorization header.
type TokenRequest struct {
	GrantType     string
	Code          string
	RefreshToken  string
	RedirectURI   string
	Scope         string
	ClientID      string
	Authorization string
}

// TokenResponse is what a successful exchange issued.
type TokenResponse struct {
	AccessToken string
	TokenType   string

	// ExpiresIn is nil unless expires_in is to be reported.
	ExpiresIn    *int
	RefreshToken string
	IDToken      string

	Grant  string
	Scopes []string
}

// usesRefreshToken reports whether req takes the refresh path. This is
// decided by the presence of refresh_token alone, not by grant_type.
func (s *TokenService) usesRefreshToken(req TokenRequest) bool {
	return req.RefreshToken != "" && s.Params.EnableRefreshTokens
}

// Validate collects every structural problem with req. It does not stop at
// the first one.
func (s *TokenService) Validate(req TokenRequest) []string {
	p := s.Params
	var problems []string

	code := domain.GrantTypeAuthorizationCode
	refresh := domain.GrantTypeRefreshToken

	if p.EnableRefreshTokens {
		if req.GrantType == "" {
			problems = append(problems, fmt.Sprintf(
				`Request body must include property "grant_type", and "grant_type" must be "%s" or "%s".`, code, refresh))
		} else if !slices.Contains(p.GrantTypes(), req.GrantType) {
			problems = append(problems, fmt.Sprintf(`"grant_type" must be "%s" or "%s".`, code, refresh))
		}
	} else {
		if req.GrantType == "" {
			problems = append(problems, fmt.Sprintf(
				`Request body must include property "grant_type", and "grant_type" must be "%s".`, code))
		} else if req.GrantType != code {
			problems = append(problems, fmt.Sprintf(`"grant_type" must be "%s".`, code))
		}
	}

	if p.EnableRefreshTokens {
		if req.Code == "" && req.RefreshToken == "" {
			problems = append(problems, `Request body must include property "code" or "refresh_token".`)
		}
	} else if req.Code == "" {
		problems = append(problems, `Request body must include property "code".`)
	}

	if p.MustCheckRedirectURI && req.RedirectURI == "" && !s.usesRefreshToken(req) {
		problems = append(problems,
			`Request body must include property "redirect_uri", and it must exactly match the redirect_uri used when getting the code.`)
	}

	// With client credentials the identity comes from the Authorization
	// header, so client_id may be left out of the body.
	if !p.MustUseCredentials && p.MustCheckClientID && req.ClientID == "" {
		problems = append(problems,
			`Request body must include property "client_id", and it must exactly match the client_id used when getting the code.`)
	}

	return problems
}

// Exchange runs the whole token request. Errors are a *ValidationError
// (ErrInvalidRequest), a *DeniedError (ErrAccessDenied) or wrap ErrSigning.
func (s *TokenService) Exchange(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	l := slogx.FromContext(ctx)
	p := s.Params

	if problems := s.Validate(req); len(problems) > 0 {
		err := &ValidationError{Problems: problems}
		l.Warn(err.Error())
		return nil, err
	}

	clientID := req.ClientID
	if p.MustUseCredentials {
		id, err := s.Credentials.Authenticate(ctx, req.Authorization)
		if err != nil {
			return nil, err
		}
		clientID = id
	}

	useRefresh := s.usesRefreshToken(req)

	if useRefresh {
		b := opaque.Binding{ClientID: clientID, IncludeClientID: p.MustCheckClientID}
		if !s.Codec.Verify(req.RefreshToken, b) {
			l.Warn("refresh token not valid for authentication attempt", slog.String("client_id", clientID))
			return nil, denied("invalid_refresh_token", ErrInvalidRefreshToken)
		}
	} else {
		b := opaque.Binding{
			RedirectURI:        req.RedirectURI,
			ClientID:           clientID,
			IncludeRedirectURI: p.MustCheckRedirectURI,
			IncludeClientID:    p.MustCheckClientID,
		}
		if !s.Codec.Verify(req.Code, b) {
			l.Warn("code not valid for authentication attempt", slog.String("client_id", clientID))
			return nil, denied("invalid_code", ErrInvalidCode)
		}
	}

	var scopes []string
	var nonce string
	grant := domain.GrantTypeAuthorizationCode
	if useRefresh {
		grant = domain.GrantTypeRefreshToken
		scopes = NegotiateScopes(opaque.ExtractScopes(req.RefreshToken), req.Scope)
	} else {
		scopes = opaque.ExtractScopes(req.Code)
		nonce = opaque.ExtractNonce(req.Code)
	}

	access, err := s.Codec.MintScopes(scopes, "", opaque.Unbound)
	if err != nil {
		l.Error("minting access token failed", slog.Any("err", err))
		return nil, err
	}

	resp := &TokenResponse{
		AccessToken: access,
		TokenType:   domain.TokenTypeBearer,
		Grant:       grant,
		Scopes:      scopes,
	}
	if p.IncludeExpiresInInTokenResponse {
		exp := p.IDTokenExpirationSeconds
		resp.ExpiresIn = &exp
	}
	if p.EnableRefreshTokens {
		resp.RefreshToken, err = s.Codec.MintScopes(scopes, "", opaque.Binding{ClientID: clientID, IncludeClientID: true})
		if err != nil {
			l.Error("minting refresh token failed", slog.Any("err", err))
			return nil, err
		}
	}

	resp.IDToken, err = s.IDTokens.Sign(ctx, IDTokenRequest{
		Issuer:            p.Issuer,
		ClientID:          clientID,
		ExpirationSeconds: p.IDTokenExpirationSeconds,
		Scopes:            scopes,
		ExcludeUserInfo:   p.ExcludeUserInfoFromIDToken,
		FieldNames:        p.FieldNames,
		Nonce:             nonce,
	})
	if err != nil {
		l.Error("ID token signing rejected", slog.Any("err", err))
		return nil, err
	}

	return resp, nil
}

// NegotiateScopes narrows granted to the scopes also named in the
// space-delimited requested string. An empty request keeps everything.
// The result keeps granted's order, so a refresh can narrow but never
// widen.
func NegotiateScopes(granted []string, requested string) []string {
	if requested == "" {
		return granted
	}
	want := strings.Split(requested, " ")

	out := make([]string, 0, len(granted))
	for _, s := range granted {
		if slices.Contains(want, s) {
			out = append(out, s)
		}
	}
	return out
}
