package authsdk

import (
	"github.com/aussiebroadwan/devssoidp/pkg/jwtx"
)

// VerifyIDToken checks an ID token the way a relying party would: HS256
// over jwtx.DevSigningKey, audience clientID, not expired and, when Issuer
// is set on the client, issued by it. An empty clientID skips the audience
// check.
func (c *SDKClient) VerifyIDToken(idToken, clientID string) (jwtx.Claims, error) {
	var aud []string
	if clientID != "" {
		aud = []string{clientID}
	}
	return jwtx.NewVerifierHS256([]byte(jwtx.DevSigningKey), c.Issuer, aud).Verify(idToken)
}
