package service

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/pkg/opaque"
	"github.com/stretchr/testify/require"
)

const (
	// fixedPrefix re-encodes to itself, which pins every minted prefix.
	fixedPrefix = "abcdefghijkl012345678901"

	testIssuer = "https://example.com"
)

// frozen is the clock behind the known ID tokens.
var frozen = time.UnixMilli(1735579993504)

type repeatReader struct{ b []byte }

func (r *repeatReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		n += copy(p[n:], r.b)
	}
	return n, nil
}

func fixedCodec(t *testing.T) *opaque.Codec {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(fixedPrefix)
	require.NoError(t, err)
	return opaque.NewCodec(opaque.WithRandom(&repeatReader{b: raw}))
}

func frozenSigner(t *testing.T) *IDTokenSigner {
	t.Helper()
	s, err := NewIDTokenSigner()
	require.NoError(t, err)
	s.Now = func() time.Time { return frozen }
	return s
}

func basic(clientID, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+secret))
}

// defaultParams mirrors a stock configuration: redirect and client checks
// on, refresh tokens on, no client credentials.
func defaultParams() domain.RouteParams {
	return domain.RouteParams{
		Issuer:                   testIssuer,
		IDTokenExpirationSeconds: 14400,
		Clients: []domain.ClientCredential{
			{ClientID: "relying_party", Secret: "relying_party_secret"},
			{ClientID: "my_client_id", Secret: "my_secret"},
		},
		MustCheckRedirectURI:            true,
		MustCheckClientID:               true,
		IncludeExpiresInInTokenResponse: true,
		EnableRefreshTokens:             true,
	}
}

func newTestService(t *testing.T, params domain.RouteParams) *TokenService {
	t.Helper()
	return NewTokenService(params, fixedCodec(t), frozenSigner(t))
}
