package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/devssoidp/internal/idp/metrics"
	"github.com/aussiebroadwan/devssoidp/internal/idp/service"
	"github.com/aussiebroadwan/devssoidp/pkg/authsdk"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
)

const (
	msgInvalidFormBody = "Request body could not be parsed."
	msgTokenFailed     = "Token generation has failed due to an internal error. The logs may contain more info."
)

// TokenHandler serves the token endpoint.
// Only application/x-www-form-urlencoded bodies are read; any other body is
// treated as empty.
type TokenHandler struct {
	TokenService *service.TokenService
	Metrics      *metrics.Metrics
}

// ServeHTTP godoc
//
//	@Summary		Token endpoint
//	@Description	Exchanges an authorization code, or a refresh token when enabled, for an access token and an ID token.
//	@Tags			OIDC
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(authorization_code, refresh_token)
//	@Param			code			formData	string					false	"Authorization code"
//	@Param			refresh_token	formData	string					false	"Refresh token"
//	@Param			redirect_uri	formData	string					false	"Redirect URI used when getting the code"
//	@Param			client_id		formData	string					false	"Client ID used when getting the code"
//	@Param			scope			formData	string					false	"Space-delimited scopes to narrow a refresh"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, refresh_token, id_token"
//	@Failure		400				{object}	authsdk.ErrorResponse	"message"
//	@Failure		403				{object}	authsdk.ErrorResponse	"message"
//	@Failure		500				{object}	authsdk.ErrorResponse	"message"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/api/v1/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		slogx.FromContext(ctx).Warn("token request body could not be parsed", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidFormBody)
		return
	}

	form := r.PostForm
	resp, err := h.TokenService.Exchange(ctx, service.TokenRequest{
		GrantType:     form.Get("grant_type"),
		Code:          form.Get("code"),
		RefreshToken:  form.Get("refresh_token"),
		RedirectURI:   form.Get("redirect_uri"),
		Scope:         form.Get("scope"),
		ClientID:      form.Get("client_id"),
		Authorization: r.Header.Get("Authorization"),
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.Metrics.InvalidRequest()
			httpx.WriteError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, service.ErrAccessDenied):
			h.Metrics.Denied("token", service.DenialReason(err))
			httpx.WriteAccessDenied(w)
		default:
			httpx.WriteError(w, http.StatusInternalServerError, msgTokenFailed)
		}
		return
	}

	h.Metrics.TokenIssued(resp.Grant)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		RefreshToken: resp.RefreshToken,
		IDToken:      resp.IDToken,
	})
}
