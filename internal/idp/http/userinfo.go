package http

import (
	"net/http"

	"github.com/aussiebroadwan/devssoidp/internal/idp/service"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
)

// UserInfoHandler serves the user-info endpoint. It must sit behind
// httpx.AuthnMiddleware, which puts the access token's scopes in the context.
type UserInfoHandler struct{}

// ServeHTTP godoc
//
//	@Summary		User info
//	@Description	Returns the test user's claims released by the scopes of the bearer access token.
//	@Tags			OIDC
//	@Produce		json
//	@Success		200	{object}	authsdk.UserInfo		"claims"
//	@Failure		403	{object}	authsdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/v1/userInfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	httpx.WriteJSON(w, http.StatusOK, service.UserInfo(ctx, httpx.ScopesFromContext(ctx)))
}
