package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// DevSigningKey is the fixed HMAC key ID tokens are signed with. It is
// public on purpose: relying parties under test verify with the same key.
const DevSigningKey = "Whoa, this is a really cool piece of text!"

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// NewSignerHS256 creates an HMAC SHA-256 signer for key.
func NewSignerHS256(key []byte) (Signer, error) {
	if len(key) == 0 {
		return nil, errors.New("jwtx: empty HMAC key")
	}
	return &HS256Signer{key: key, alg: jwt.SigningMethodHS256.Alg()}, nil
}

// HS256Signer implements the Signer interface using HMAC SHA-256.
type HS256Signer struct {
	key []byte
	alg string
}

func (s *HS256Signer) Alg() string { return s.alg }

// Sign turns the claims into a compact JWT. The protected header carries
// only "alg".
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	delete(t.Header, "typ")
	return t.SignedString(s.key)
}
