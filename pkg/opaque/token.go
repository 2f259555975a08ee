// Package opaque implements the self-verifying token format used for
// authorization codes, access tokens and refresh tokens.
//
// A token is the concatenation of four segments:
//
//	prefix (24) | scope field (2) | nonce (variable, optional) | hash (44)
//
// The prefix is 18 random bytes in standard base64, the scope field is the
// hex bitmask produced by EncodeScopes, and the hash is the standard base64
// SHA-256 of
//
//	prefix + scope field + mixin [+ redirect URI] [+ client ID] [+ nonce]
//
// The redirect URI and client ID only contribute when the matching Binding
// flag is set, which is how a token is tied to them without a separate
// signature. The nonce is not length-delimited; it is recovered as whatever
// sits between the fixed-width header and the fixed-width hash.
//
// The three token roles share this layout and carry no type marker. What
// distinguishes them is the Binding used to mint and verify them.
package opaque

import (
	"crypto/subtle"
	"fmt"
	"io"
	"strings"

	"github.com/aussiebroadwan/devssoidp/pkg/cryptox"
)

const (
	// PrefixLength is the width of the random prefix.
	PrefixLength = 24

	// HashLength is the width of the trailing integrity hash.
	HashLength = cryptox.DigestLength

	headerLength = PrefixLength + ScopeFieldLength

	// MinLength is the length of a token minted without a nonce.
	MinLength = headerLength + HashLength

	// DefaultMixin is folded into every hash.
	DefaultMixin = "BensDummySsoIdp"
)

// Binding controls which caller values contribute to the integrity hash.
// Verification must use the same flags and values as minting.
type Binding struct {
	RedirectURI        string
	ClientID           string
	IncludeRedirectURI bool
	IncludeClientID    bool
}

// Unbound is the binding used for access tokens.
var Unbound = Binding{}

// Codec mints and verifies opaque tokens. It is safe for concurrent use.
type Codec struct {
	mixin string
	rand  io.Reader
}

// Option configures a Codec.
type Option func(*Codec)

// WithMixin overrides the constant folded into every hash.
func WithMixin(mixin string) Option {
	return func(c *Codec) { c.mixin = mixin }
}

// WithRandom overrides the entropy source used for prefixes.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) { c.rand = r }
}

// NewCodec returns a Codec using DefaultMixin and crypto/rand.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{mixin: DefaultMixin}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mint builds a token for the space-delimited scope string. nonce may be
// empty, in which case it is neither embedded nor hashed.
//
// The only failure is the entropy source failing.
func (c *Codec) Mint(scope, nonce string, b Binding) (string, error) {
	prefix, err := cryptox.GenerateTokenFrom(c.rand, cryptox.PrefixSize)
	if err != nil {
		return "", fmt.Errorf("opaque: mint prefix: %w", err)
	}

	field := EncodeScopes(ParseScopeList(scope))
	hash := cryptox.Digest(c.hashInput(prefix, field, nonce, b))

	var sb strings.Builder
	sb.Grow(PrefixLength + ScopeFieldLength + len(nonce) + HashLength)
	sb.WriteString(prefix)
	sb.WriteString(field)
	sb.WriteString(nonce)
	sb.WriteString(hash)
	return sb.String(), nil
}

// MintScopes is Mint for an already split scope list.
func (c *Codec) MintScopes(scopes []string, nonce string, b Binding) (string, error) {
	return c.Mint(strings.Join(scopes, " "), nonce, b)
}

// Verify reports whether token's embedded hash matches one recomputed with
// b. Malformed or short input never panics; it simply fails to match.
func (c *Codec) Verify(token string, b Binding) bool {
	prefix := clampSlice(token, 0, PrefixLength)
	field := clampSlice(token, PrefixLength, headerLength)
	nonce := ExtractNonce(token)
	expected := suffix(token, HashLength)

	actual := cryptox.Digest(c.hashInput(prefix, field, nonce, b))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

func (c *Codec) hashInput(prefix, field, nonce string, b Binding) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(field)
	sb.WriteString(c.mixin)
	if b.IncludeRedirectURI {
		sb.WriteString(b.RedirectURI)
	}
	if b.IncludeClientID {
		sb.WriteString(b.ClientID)
	}
	sb.WriteString(nonce)
	return sb.String()
}

// ExtractScopes decodes the scope field of token. It does not verify the
// token.
func ExtractScopes(token string) []string {
	return DecodeScopes(clampSlice(token, PrefixLength, headerLength))
}

// ExtractNonce returns the nonce embedded in token, or "" when there is
// none or the token is too short to carry one.
func ExtractNonce(token string) string {
	end := len(token) - HashLength
	if end <= headerLength {
		return ""
	}
	return token[headerLength:end]
}

// clampSlice returns s[from:to] with both bounds clamped to len(s).
func clampSlice(s string, from, to int) string {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// suffix returns the last n bytes of s, or all of s when it is shorter.
func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
