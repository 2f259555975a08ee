package cryptox

import (
	"crypto/subtle"
)

// HashSecret returns the salted digest stored in place of a plain client
// secret: base64(SHA-256(secret + salt)).
func HashSecret(secret, salt string) string {
	return Digest(secret + salt)
}

// VerifySecret reports whether provided matches expected. When hashed is
// true, expected is treated as the output of HashSecret and provided is
// salted and hashed before comparing; otherwise the two are compared as-is.
// The plain and hashed paths never cross-validate.
func VerifySecret(provided, expected, salt string, hashed bool) bool {
	candidate := provided
	if hashed {
		candidate = HashSecret(provided, salt)
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(expected)) == 1
}
