package authsdk

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
)

// TokenRequest is the input to ExchangeCode and RefreshGrant. Fields that
// do not apply to a grant are ignored.
type TokenRequest struct {
	Code         string
	RefreshToken string
	RedirectURI  string
	ClientID     string

	// ClientSecret, when set, is sent as HTTP Basic credentials together
	// with ClientID.
	ClientSecret string

	// Scope narrows a refresh. Empty keeps every scope of the refresh token.
	Scope string
}

// ExchangeCode redeems an authorization code.
func (c *SDKClient) ExchangeCode(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {req.Code},
	}
	if req.RedirectURI != "" {
		data.Set("redirect_uri", req.RedirectURI)
	}
	if req.ClientID != "" {
		data.Set("client_id", req.ClientID)
	}

	return c.requestToken(ctx, data, req)
}

// RefreshGrant trades a refresh token for a new token set.
func (c *SDKClient) RefreshGrant(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {req.RefreshToken},
	}
	if req.ClientID != "" {
		data.Set("client_id", req.ClientID)
	}
	if req.Scope != "" {
		data.Set("scope", req.Scope)
	}

	return c.requestToken(ctx, data, req)
}

func (c *SDKClient) requestToken(ctx context.Context, data url.Values, req TokenRequest) (*TokenResponse, error) {
	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}
	if req.ClientSecret != "" {
		headers["Authorization"] = BasicAuthorization(req.ClientID, req.ClientSecret)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.Paths.Token, strings.NewReader(data.Encode()), headers)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// BasicAuthorization builds the Authorization header value for client
// credentials.
func BasicAuthorization(clientID, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+secret))
}
