package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// CodeRequest asks the provider for an authorization code. Scope is a
// space-delimited list and is required.
type CodeRequest struct {
	Scope       string
	RedirectURI string
	ClientID    string
	Nonce       string
}

// GetCode requests an authorization code.
func (c *SDKClient) GetCode(ctx context.Context, req CodeRequest) (string, error) {
	q := url.Values{}
	q.Set("scopeStr", req.Scope)
	if req.RedirectURI != "" {
		q.Set("redirectUri", req.RedirectURI)
	}
	if req.ClientID != "" {
		q.Set("clientId", req.ClientID)
	}
	if req.Nonce != "" {
		q.Set("nonce", req.Nonce)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, c.Paths.Code+"?"+q.Encode(), nil, nil)
	if err != nil {
		return "", err
	}

	var body CodeResponse
	if err := decodeJSON(resp, &body, http.StatusOK); err != nil {
		return "", err
	}
	return body.Code, nil
}
