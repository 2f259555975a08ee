/*
Package authsdk is a Go client for the development SSO identity provider.

It plays the relying party: it asks the provider for an authorization code,
exchanges the code for tokens, refreshes them and reads user info with the
resulting access token.

	client := authsdk.NewSDKClient("http://localhost:3000")

	code, err := client.GetCode(ctx, authsdk.CodeRequest{
		Scope:       "openid profile email",
		RedirectURI: "http://localhost:5173",
		ClientID:    "relying_party",
		Nonce:       "n-0S6_WzA2Mj",
	})

	tokens, err := client.ExchangeCode(ctx, authsdk.TokenRequest{
		Code:         code,
		RedirectURI:  "http://localhost:5173",
		ClientID:     "relying_party",
		ClientSecret: "relying_party_secret", // sent as HTTP Basic credentials
	})

	info, err := client.GetUserInfo(ctx, tokens.AccessToken)

# Errors

Every non-success response becomes an *APIError carrying the status code and
the server's message. Authentication failures all look the same from the
outside; use IsAccessDenied to detect them.

# Paths

The provider's endpoint paths are configurable. SDKClient.Paths defaults to
DefaultPaths and can be changed to match a deployment.
*/
package authsdk
