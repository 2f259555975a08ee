package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrAccessDenied   = errors.New("access_denied")
	ErrSigning        = errors.New("id_token_signing_failed")
	ErrMissingScope   = errors.New("missing_scope")

	// Reasons for ErrAccessDenied. They never reach the caller.
	ErrNoCredentials       = errors.New("credentials not found")
	ErrCredentialFormat    = errors.New("malformed credentials")
	ErrUnknownClient       = errors.New("unknown client")
	ErrSecretMismatch      = errors.New("secret mismatch")
	ErrInvalidCode         = errors.New("code invalid")
	ErrInvalidRefreshToken = errors.New("refresh token invalid")
)

// ValidationError carries every structural problem found in a token
// request. It matches ErrInvalidRequest.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "Request is invalid: " + strings.Join(e.Problems, ",")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// DeniedError is an authentication failure. It matches both ErrAccessDenied
// and the specific reason.
type DeniedError struct {
	// Reason is a short stable label, used for metrics.
	Reason string
	Err    error
}

func (e *DeniedError) Error() string { return "access denied: " + e.Err.Error() }

func (e *DeniedError) Unwrap() []error { return []error{ErrAccessDenied, e.Err} }

func denied(reason string, err error) error {
	return &DeniedError{Reason: reason, Err: err}
}

// DenialReason returns the label of a DeniedError in err's chain, or "".
func DenialReason(err error) string {
	var d *DeniedError
	if errors.As(err, &d) {
		return d.Reason
	}
	return ""
}
