package opaque

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedPrefix encodes back to itself, which pins the random segment.
const fixedPrefix = "abcdefghijkl012345678901"

func fixedCodec(t *testing.T) *Codec {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(fixedPrefix)
	require.NoError(t, err)
	return NewCodec(WithRandom(&repeatReader{b: raw}))
}

// repeatReader yields the same bytes on every read.
type repeatReader struct{ b []byte }

func (r *repeatReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		n += copy(p[n:], r.b)
	}
	return n, nil
}

func TestMint_KnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		scope   string
		nonce   string
		binding Binding
		want    string
	}{
		{
			name:  "code bound to redirect and client",
			scope: "openid profile",
			binding: Binding{
				RedirectURI: "http://localhost:5173", ClientID: "my_client_id",
				IncludeRedirectURI: true, IncludeClientID: true,
			},
			want: "abcdefghijkl01234567890103yOzi1BCYwX41vMBZ8u2yAD7cChFdoldVIkLW848bLks=",
		},
		{
			name:  "code with nonce",
			scope: "openid profile",
			nonce: "my_nonce",
			binding: Binding{
				RedirectURI: "http://localhost:5173", ClientID: "relying_party",
				IncludeRedirectURI: true, IncludeClientID: true,
			},
			want: "abcdefghijkl01234567890103my_nonceiH31NNyAy5f8IAMkaWrf2OdSVA5deqtqjq6KJ04dl0g=",
		},
		{
			name:    "code with nonce, client only",
			scope:   "openid profile",
			nonce:   "my_nonce",
			binding: Binding{ClientID: "relying_party", IncludeClientID: true},
			want:    "abcdefghijkl01234567890103my_nonce/UWkVTT4nqJm4ozoaVnMZDXDu/ppWCqudNoKPEm8bP0=",
		},
		{
			name:    "code with nonce, unbound",
			scope:   "openid profile",
			nonce:   "my_nonce",
			binding: Unbound,
			want:    "abcdefghijkl01234567890103my_nonceQLPJlLTnOm5cfsuLSSLLlHl2mMFPA3O6jzmL7jNulq0=",
		},
		{
			name:    "access token",
			scope:   "openid profile",
			binding: Unbound,
			want:    "abcdefghijkl01234567890103faLu3bEhtVzVPWL6xd7xfiJZdRmo6A2IazOI4N4wDBE=",
		},
		{
			name:    "refresh token",
			scope:   "openid profile",
			binding: Binding{ClientID: "my_client_id", IncludeClientID: true},
			want:    "abcdefghijkl01234567890103fGTxcDJvSbXl0FYpRIsBdMGdrZdqaHd8HzjAiPwsyfs=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fixedCodec(t)
			got, err := c.Mint(tt.scope, tt.nonce, tt.binding)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, c.Verify(got, tt.binding))
		})
	}
}

func TestMint_FlagIgnoresValue(t *testing.T) {
	c := fixedCodec(t)

	a, err := c.Mint("openid", "", Binding{RedirectURI: "https://a.example", ClientID: "a"})
	require.NoError(t, err)
	b, err := c.Mint("openid", "", Binding{RedirectURI: "https://b.example", ClientID: "b"})
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestMint_Layout(t *testing.T) {
	c := NewCodec()

	tok, err := c.MintScopes([]string{"openid", "email"}, "", Unbound)
	require.NoError(t, err)
	require.Len(t, tok, MinLength)
	require.Equal(t, "05", tok[PrefixLength:PrefixLength+ScopeFieldLength])

	tok2, err := c.MintScopes([]string{"openid", "email"}, "", Unbound)
	require.NoError(t, err)
	require.NotEqual(t, tok[:PrefixLength], tok2[:PrefixLength], "prefixes should be random")
}

func TestMint_EntropyFailure(t *testing.T) {
	c := NewCodec(WithRandom(strings.NewReader("")))
	tok, err := c.Mint("openid", "", Unbound)
	require.Error(t, err)
	require.Empty(t, tok)
}

func TestVerify(t *testing.T) {
	bound := Binding{
		RedirectURI: "http://localhost:5173", ClientID: "relying_party",
		IncludeRedirectURI: true, IncludeClientID: true,
	}
	c := NewCodec()
	tok, err := c.Mint("openid profile email", "n-0S6_WzA2Mj", bound)
	require.NoError(t, err)

	withRedirect := bound
	withRedirect.RedirectURI = "http://localhost:5174"
	withClient := bound
	withClient.ClientID = "someone_else"
	noClientFlag := bound
	noClientFlag.IncludeClientID = false

	tests := []struct {
		name    string
		token   string
		binding Binding
		want    bool
	}{
		{"exact binding", tok, bound, true},
		{"different redirect", tok, withRedirect, false},
		{"different client", tok, withClient, false},
		{"different flags", tok, noClientFlag, false},
		{"other mixin", tok, bound, false},
		{"scope field tampered", tok[:PrefixLength] + "3f" + tok[PrefixLength+ScopeFieldLength:], bound, false},
		{"nonce tampered", strings.Replace(tok, "n-0S6_WzA2Mj", "n-0S6_WzA2Mk", 1), bound, false},
		{"hash tampered", tok[:len(tok)-HashLength] + strings.Repeat("A", HashLength-1) + "=", bound, false},
		{"empty", "", bound, false},
		{"short", "abc", bound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := c
			if tt.name == "other mixin" {
				codec = NewCodec(WithMixin("SomeOtherIdp"))
			}
			require.Equal(t, tt.want, codec.Verify(tt.token, tt.binding))
		})
	}
}

func TestExtractNonce(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"embedded nonce", "7NTrDl32pZtm9gCSv8K3N4yp1bbloop8wtLxeTBj5NSVgJ48jWerqR2x3CXmeVmPuJG15dybxk=", "bloop"},
		{"no nonce", "yogUnE3o9bbk2yzZaQMqzm7n1bKr/2C0lkdQoyb2qIkHp/oQwGw5qxm3LHZIa7dRHaqIo=", ""},
		{"too short", "abc", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractNonce(tt.token))
		})
	}
}

func TestExtractScopes(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{
			"four scopes",
			"7NTrDl32pZtm9gCSv8K3N4yp1bbloop8wtLxeTBj5NSVgJ48jWerqR2x3CXmeVmPuJG15dybxk=",
			[]string{"openid", "profile", "address", "phone"},
		},
		{
			"openid and profile",
			"KQzrgipWGDPX9zI9TWvlfC/I03bloopNEmNSJoxpZhctyWWNXlNB9LlF8G0F2iT5xF5LNzm/SQ=",
			[]string{"openid", "profile"},
		},
		{
			"openid only",
			"FMfSxRHsMw2fewTzVnXzraMx01bloopkjR9lb7Le9SZ145cMxOd9t/QGCi1Dafwcxp9aWxuUJQ=",
			[]string{"openid"},
		},
		{"too short", "abc", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractScopes(tt.token))
		})
	}
}

func TestVerify_KnownCode(t *testing.T) {
	code := "7NTrDl32pZtm9gCSv8K3N4yp1bbloop8wtLxeTBj5NSVgJ48jWerqR2x3CXmeVmPuJG15dybxk="
	b := Binding{
		RedirectURI: "http://localhost:5173", ClientID: "relying_party",
		IncludeRedirectURI: true, IncludeClientID: true,
	}

	c := NewCodec()
	require.True(t, c.Verify(code, b))
	require.False(t, c.Verify(code[:len(code)-2]+"j=", b))
}
