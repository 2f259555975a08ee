package jwtx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/devssoidp/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "https://idp.example",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("https://idp.example"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("https://elsewhere.example")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: []string{"relying_party", "my_client_id"},
		},
	}

	t.Run("contains match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"relying_party"}))
	})

	t.Run("multiple match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"unknown", "my_client_id"}))
	})

	t.Run("no match", func(t *testing.T) {
		err := c.ValidateAudience([]string{"other_client"})
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("empty expected list", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience(nil))
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.NoError(t, claims.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("no exp or nbf", func(t *testing.T) {
		claims := &jwtx.Claims{}
		require.NoError(t, claims.ValidateExpiry())
	})
}

func TestValidateExpiryAt(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid with leeway", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
			},
		}
		require.NoError(t, claims.ValidateExpiryAt(now, 30*time.Second))
	})

	t.Run("expired beyond leeway", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-2 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiryAt(now, 30*time.Second), jwtx.ErrExpired)
	})
}

func TestClaimsSet(t *testing.T) {
	t.Run("plain claim needs a namespaced claim first", func(t *testing.T) {
		var c jwtx.Claims
		require.ErrorIs(t, c.Set("nonce", "abc"), jwtx.ErrNoNamespacedClaim)

		require.NoError(t, c.Set(jwtx.MarkerClaim, true))
		require.NoError(t, c.Set("nonce", "abc"))
		require.Equal(t, "abc", c.StringClaim("nonce"))
	})

	t.Run("registered names are reserved", func(t *testing.T) {
		var c jwtx.Claims
		require.NoError(t, c.Set(jwtx.MarkerClaim, true))
		for _, k := range []string{"iss", "sub", "aud", "exp", "iat", "nbf", "jti", ""} {
			require.ErrorIs(t, c.Set(k, "x"), jwtx.ErrReservedClaim, k)
		}
	})

	t.Run("replacing keeps position", func(t *testing.T) {
		var c jwtx.Claims
		require.NoError(t, c.Set(jwtx.MarkerClaim, true))
		require.NoError(t, c.Set("a", 1))
		require.NoError(t, c.Set("b", 2))
		require.NoError(t, c.Set("a", 3))

		require.Equal(t, []string{jwtx.MarkerClaim, "a", "b"}, c.Private())
		v, ok := c.Get("a")
		require.True(t, ok)
		require.Equal(t, 3, v)
	})
}

func TestClaimsJSON(t *testing.T) {
	now := time.Unix(1735579993, 504_000_000)
	c := jwtx.NewIDClaims("https://example.com", "tuser", "relying_party", 14400*time.Second, now)
	require.NoError(t, c.Set(jwtx.MarkerClaim, true))
	require.NoError(t, c.Set("nonce", "my_nonce"))

	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"urn:dummyssoidp:claim":true,"nonce":"my_nonce","iat":1735579993,"iss":"https://example.com","aud":"relying_party","sub":"tuser","exp":1735594393}`,
		string(b))
	require.Equal(t,
		`{"urn:dummyssoidp:claim":true,"nonce":"my_nonce","iat":1735579993,"iss":"https://example.com","aud":"relying_party","sub":"tuser","exp":1735594393}`,
		string(b), "claim order is part of the encoded payload")

	var back jwtx.Claims
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, []string{jwtx.MarkerClaim, "nonce"}, back.Private())
	require.Equal(t, "my_nonce", back.StringClaim("nonce"))
	require.Equal(t, "tuser", back.Subject)
	require.Equal(t, jwt.ClaimStrings{"relying_party"}, back.Audience)
	require.Equal(t, int64(1735594393), back.ExpiresAt.Unix())
}
