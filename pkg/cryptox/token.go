package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// Token size constants (in bytes before encoding).
const (
	// PrefixSize is the entropy behind every opaque token prefix
	// (144 bits, 24 chars standard base64).
	PrefixSize = 18

	// DigestLength is the encoded length of a SHA-256 digest in standard
	// base64 with padding.
	DigestLength = 44
)

// GenerateToken creates a cryptographically secure random token of the specified byte length.
// The token is returned as standard base64 with padding, which keeps the
// encoded width fixed for a given size (18 bytes always encode to 24 chars).
func GenerateToken(size int) (string, error) {
	return GenerateTokenFrom(rand.Reader, size)
}

// GenerateTokenFrom is GenerateToken with an explicit entropy source. Tests
// use it to pin the random prefix.
func GenerateTokenFrom(r io.Reader, size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}
	if r == nil {
		r = rand.Reader
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error.
// Use this only during initialization or in contexts where failure is unrecoverable.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// Digest returns the SHA-256 of s as standard base64 with padding
// (DigestLength chars).
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}
