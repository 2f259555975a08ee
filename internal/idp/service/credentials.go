package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/pkg/cryptox"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

// ParseBasicCredentials decodes the base64 part of a Basic Authorization
// header and splits it once on the first ':'. An undecodable blob, a
// missing ':' or an empty secret is ErrCredentialFormat.
func ParseBasicCredentials(blob string) (clientID, secret string, err error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to base64 decode credentials", ErrCredentialFormat)
	}

	clientID, secret, _ = strings.Cut(string(raw), ":")
	if secret == "" {
		return "", "", fmt.Errorf(
			"%w: credentials must be base64-encoded, consisting of the client ID and the secret separated by a colon",
			ErrCredentialFormat)
	}
	return clientID, secret, nil
}

// LookupSecret returns the configured secret for clientID.
func LookupSecret(clientID string, clients []domain.ClientCredential) (string, error) {
	if len(clients) == 0 {
		return "", fmt.Errorf("%w: no client IDs paired with secrets", ErrUnknownClient)
	}
	for _, c := range clients {
		if c.ClientID == clientID {
			return c.Secret, nil
		}
	}
	return "", fmt.Errorf("%w: no client ID matching %s", ErrUnknownClient, clientID)
}

// SaltFor returns the salt configured at clientID's position. Only the
// positions present in both lists are considered.
func SaltFor(clientID string, clients []domain.ClientCredential, salts []string) string {
	n := min(len(clients), len(salts))
	for i := range n {
		if clients[i].ClientID == clientID {
			return salts[i]
		}
	}
	return ""
}

// CheckSecret compares a provided secret to the expected one, salting and
// hashing it first when mustHash is set. A mismatch is logged with the
// client id; secrets never are.
func CheckSecret(ctx context.Context, clientID, provided, expected string, mustHash bool, salt string) bool {
	if cryptox.VerifySecret(provided, expected, salt, mustHash) {
		return true
	}

	msg := "secret provided did not match that of client"
	if mustHash {
		msg = "secret provided after salting and hashing did not match that of client"
	}
	slogx.FromContext(ctx).Warn(msg, slog.String("client_id", clientID))
	return false
}

// CredentialVerifier authenticates token requests from the Authorization
// header against the configured clients.
type CredentialVerifier struct {
	Clients  []domain.ClientCredential
	Salts    []string
	MustHash bool
}

// Authenticate checks a raw Authorization header value and returns the
// authenticated client id. Every failure is a *DeniedError; the specific
// reason is logged here and must not be shown to the caller.
func (v *CredentialVerifier) Authenticate(ctx context.Context, authorization string) (string, error) {
	l := slogx.FromContext(ctx)

	blob, err := httpx.ParseAuthorization(authorization, httpx.SchemeBasic)
	switch {
	case errors.Is(err, httpx.ErrNoAuthorization):
		l.Warn("credentials not found, expected 'Authorization: Basic <base64(client_id:secret)>'")
		return "", denied("no_credentials", ErrNoCredentials)
	case errors.Is(err, httpx.ErrWrongScheme):
		l.Warn("value in 'Authorization' header must start with 'Basic '")
		return "", denied("wrong_scheme", ErrCredentialFormat)
	case errors.Is(err, httpx.ErrNoCredentials):
		l.Warn("value in 'Authorization' header must have 'Basic ' followed by credentials")
		return "", denied("no_credentials", ErrNoCredentials)
	}

	clientID, provided, err := ParseBasicCredentials(blob)
	if err != nil {
		l.Warn("could not read credentials", slog.Any("err", err))
		return "", denied("malformed_credentials", err)
	}

	expected, err := LookupSecret(clientID, v.Clients)
	if err != nil {
		l.Error("error on attempting to get secret for client", slog.String("client_id", clientID), slog.Any("err", err))
		return "", denied("unknown_client", err)
	}

	salt := SaltFor(clientID, v.Clients, v.Salts)
	if !CheckSecret(ctx, clientID, provided, expected, v.MustHash, salt) {
		return "", denied("secret_mismatch", ErrSecretMismatch)
	}

	return clientID, nil
}
