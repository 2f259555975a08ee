package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AccessDeniedMessage is the body message of every authentication failure.
const AccessDeniedMessage = "Access denied"

// APIError is a non-success response from the provider.
type APIError struct {
	StatusCode int

	// Message is the server's message, or the status text when the body
	// had none.
	Message string

	// Problems is only filled by the env health endpoint.
	Problems []EnvProblem
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsAccessDenied reports whether err is the provider's uniform 403.
func IsAccessDenied(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusForbidden &&
		apiErr.Message == AccessDeniedMessage
}

// parseErrorResponse turns an error body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		apiErr.Message = errResp.Message
	}

	var envResp EnvHealthResponse
	if err := json.Unmarshal(body, &envResp); err == nil && len(envResp.Errors) > 0 {
		apiErr.Problems = envResp.Errors
		if apiErr.Message == "" {
			apiErr.Message = envResp.Errors[0].Message
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
