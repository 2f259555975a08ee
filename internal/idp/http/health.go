package http

import (
	"net/http"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	"github.com/aussiebroadwan/devssoidp/pkg/authsdk"
	"github.com/aussiebroadwan/devssoidp/pkg/httpx"
)

// HealthHandler godoc
//
//	@Summary		Health check
//	@Description	Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Router			/api/v1/health [get].
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOK(w)
	}
}

// EnvHealthHandler godoc
//
//	@Summary		Configuration health check
//	@Description	200 when startup validation of the environment found no errors, otherwise 500 listing them.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{string}	string						"OK"
//	@Failure		500	{object}	authsdk.EnvHealthResponse	"errors"
//	@Router			/api/v1/health/env [get].
func EnvHealthHandler(result domain.ValidationResult) http.HandlerFunc {
	problems := make([]authsdk.EnvProblem, len(result.Errors))
	for i, p := range result.Errors {
		problems[i] = authsdk.EnvProblem{Message: p.Message, Var: p.Var}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if result.OK() {
			writeOK(w)
			return
		}
		httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.EnvHealthResponse{Errors: problems})
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
}
