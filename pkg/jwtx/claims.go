package jwtx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MarkerClaim is the namespaced private claim that must be present before any
// other private claim can be attached.
const MarkerClaim = "urn:dummyssoidp:claim"

var (
	ErrReservedClaim     = errors.New("jwtx: claim name is reserved")
	ErrNoNamespacedClaim = errors.New("jwtx: a namespaced claim must be set first")
)

// registered lists the claim names owned by RegisteredClaims.
var registered = []string{"iss", "sub", "aud", "exp", "nbf", "iat", "jti"}

// Claims are ID token claims. Registered claims live in the embedded struct;
// private claims keep their insertion order so that the encoded payload is
// stable for a given sequence of Set calls.
type Claims struct {
	jwt.RegisteredClaims

	private []privateClaim
}

type privateClaim struct {
	key   string
	value any
}

// NewIDClaims builds the registered part of an ID token. Expiry is
// now + ttl, both truncated to whole seconds.
func NewIDClaims(issuer, subject, audience string, ttl time.Duration, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Truncate(time.Second).Add(ttl)),
		},
	}
	if audience != "" {
		c.Audience = jwt.ClaimStrings{audience}
	}
	return c
}

// Set attaches a private claim, replacing an existing value for key.
//
// Plain names such as "nonce" or "email" are only accepted once at least one
// namespaced claim (a name containing ':') exists, so callers add MarkerClaim
// first.
func (c *Claims) Set(key string, value any) error {
	if key == "" || IsRegistered(key) {
		return fmt.Errorf("%w: %q", ErrReservedClaim, key)
	}
	if !isNamespaced(key) && !c.hasNamespaced() {
		return fmt.Errorf("%w: %q", ErrNoNamespacedClaim, key)
	}

	for i := range c.private {
		if c.private[i].key == key {
			c.private[i].value = value
			return nil
		}
	}
	c.private = append(c.private, privateClaim{key: key, value: value})
	return nil
}

// Get returns a private claim.
func (c *Claims) Get(key string) (any, bool) {
	for _, p := range c.private {
		if p.key == key {
			return p.value, true
		}
	}
	return nil, false
}

// StringClaim is Get for string-valued claims.
func (c *Claims) StringClaim(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// Private returns the private claim names in insertion order.
func (c *Claims) Private() []string {
	keys := make([]string, len(c.private))
	for i, p := range c.private {
		keys[i] = p.key
	}
	return keys
}

// IsRegistered reports whether name is a registered claim that Set refuses.
func IsRegistered(name string) bool {
	return slices.Contains(registered, name)
}

func (c *Claims) hasNamespaced() bool {
	for _, p := range c.private {
		if isNamespaced(p.key) {
			return true
		}
	}
	return false
}

func isNamespaced(key string) bool {
	return strings.Contains(key, ":")
}

// MarshalJSON writes private claims first, then iat, iss, aud, sub, exp, nbf
// and jti. A single audience is written as a bare string.
func (c Claims) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	field := func(key string, value any) error {
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("jwtx: marshal claim %q: %w", key, err)
		}
		k, _ := json.Marshal(key)
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, p := range c.private {
		if err := field(p.key, p.value); err != nil {
			return nil, err
		}
	}

	r := c.RegisteredClaims
	type entry struct {
		key   string
		value any
		set   bool
	}
	entries := []entry{
		{"iat", unix(r.IssuedAt), r.IssuedAt != nil},
		{"iss", r.Issuer, r.Issuer != ""},
		{"aud", audience(r.Audience), len(r.Audience) > 0},
		{"sub", r.Subject, r.Subject != ""},
		{"exp", unix(r.ExpiresAt), r.ExpiresAt != nil},
		{"nbf", unix(r.NotBefore), r.NotBefore != nil},
		{"jti", r.ID, r.ID != ""},
	}
	for _, e := range entries {
		if !e.set {
			continue
		}
		if err := field(e.key, e.value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON splits a payload back into registered and private claims,
// keeping the private claims in payload order.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var reg jwt.RegisteredClaims
	if err := json.Unmarshal(data, &reg); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	var private []privateClaim
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if slices.Contains(registered, key) {
			continue
		}
		private = append(private, privateClaim{key: key, value: value})
	}

	c.RegisteredClaims = reg
	c.private = private
	return nil
}

func unix(d *jwt.NumericDate) int64 {
	if d == nil {
		return 0
	}
	return d.Unix()
}

func audience(aud jwt.ClaimStrings) any {
	if len(aud) == 1 {
		return aud[0]
	}
	return []string(aud)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC(), 0)
}

// ValidateExpiryAt checks exp and nbf against now with a grace period for
// clock skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
