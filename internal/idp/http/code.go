package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/devssoidp/internal/idp/metrics"
	"github.com/aussiebroadwan/devssoidp/internal/idp/service"
	"github.com/aussiebroadwan/devssoidp/pkg/authsdk"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
)

const (
	msgMissingScope = "The 'scope' query param must be specified, and must contain a space-delimited list of scopes."
	msgCodeFailed   = "Code generation has failed due to an internal error. The logs may contain more info."
)

// CodeHandler serves the code endpoint. It stands in for the login page of
// a real provider: whoever asks gets a code for the fixed test user.
type CodeHandler struct {
	TokenService *service.TokenService
	Metrics      *metrics.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Authorization code
//	@Description	Mints an authorization code for the test user. The code is bound to redirectUri and clientId when the token endpoint is configured to check them.
//	@Tags			OIDC
//	@Produce		json
//	@Param			scopeStr	query		string					true	"Space-delimited scopes"
//	@Param			redirectUri	query		string					false	"Redirect URI the code will be redeemed with"
//	@Param			clientId	query		string					false	"Client the code will be redeemed by"
//	@Param			nonce		query		string					false	"Nonce echoed in the ID token"
//	@Success		200			{object}	authsdk.CodeResponse	"code"
//	@Failure		500			{object}	authsdk.ErrorResponse	"message"
//	@Router			/api/v1/code [get].
func (h *CodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code, err := h.TokenService.IssueCode(r.Context(), service.CodeRequest{
		Scope:       q.Get("scopeStr"),
		RedirectURI: q.Get("redirectUri"),
		ClientID:    q.Get("clientId"),
		Nonce:       q.Get("nonce"),
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingScope) {
			httpx.WriteError(w, http.StatusInternalServerError, msgMissingScope)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, msgCodeFailed)
		return
	}

	h.Metrics.CodeIssued()
	httpx.WriteJSON(w, http.StatusOK, authsdk.CodeResponse{Code: code})
}
