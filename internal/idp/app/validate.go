package app

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/devssoidp/internal/idp/domain"
	httpapi "github.com/aussiebroadwan/devssoidp/internal/idp/http"
	"github.com/aussiebroadwan/devssoidp/internal/idp/service"
)

// ErrInvalidConfig marks a configuration the process must not start with.
var ErrInvalidConfig = errors.New("invalid configuration")

var msgNoListener = fmt.Sprintf("At least one of %s and %s must be 'true'.", VarUseHTTP, VarUseHTTPS)

// Validate checks cfg the way the env health endpoint reports it. Every
// finding lands in the result; the returned error is non-nil only for the
// findings that stop the process from starting (no listener enabled, no
// client configured, unusable endpoint paths) and wraps ErrInvalidConfig.
func Validate(cfg Config) (domain.ValidationResult, error) {
	var result domain.ValidationResult
	var fatal []error

	addError := func(message, envVar string) {
		result.Errors = append(result.Errors, domain.EnvProblem{Message: message, Var: envVar})
	}

	if !cfg.UseHTTP && !cfg.UseHTTPS {
		addError(msgNoListener, VarUseHTTPS)
		fatal = append(fatal, errors.New(msgNoListener))
	}

	clients := cfg.Route.Clients
	withSecrets := cfg.raw.ClientIDsWithSecrets != ""

	if len(clients) == 0 {
		msg := fmt.Sprintf(
			"No client IDs found. Make sure the %s or %s environment variable is populated.",
			VarClientIDs, VarClientIDsWithSecrets)
		addError(msg, VarClientIDs)
		fatal = append(fatal, errors.New(msg))
	}

	envVarUsed := VarClientIDs
	if withSecrets {
		envVarUsed = VarClientIDsWithSecrets
	}
	seen := make([]string, 0, len(clients))
	for _, c := range clients {
		if slices.Contains(seen, c.ClientID) {
			addError(fmt.Sprintf("Duplicate client ID (%s) in %s.", c.ClientID, envVarUsed), envVarUsed)
		} else {
			seen = append(seen, c.ClientID)
		}

		if withSecrets && c.Secret == "" {
			addError(fmt.Sprintf("No secret for client ID %s in %s.", c.ClientID, VarClientIDsWithSecrets),
				VarClientIDsWithSecrets)
		}
	}

	if len(cfg.RedirectURIs) == 0 {
		addError(fmt.Sprintf(
			"No redirect URLs found. Make sure the %s environment variable is populated with a comma-delimited list of percent (URL) encoded URLs.",
			VarRedirectURIs), VarRedirectURIs)
	} else if invalid := invalidRedirectURIs(cfg.RedirectURIs); len(invalid) > 0 {
		addError(fmt.Sprintf("The %s environment variable contains invalid redirect URIs: %s",
			VarRedirectURIs, strings.Join(invalid, ",")), VarRedirectURIs)
	}

	if cfg.Route.MustHashSecret {
		salts := cfg.raw.SaltsForHashingSecret
		switch {
		case salts == "":
			addError(fmt.Sprintf("%s must have a value when %s is 'true'.", VarSalts, VarHashSecret), VarSalts)
		case len(cfg.Route.Salts) != len(clients):
			addError(fmt.Sprintf(
				"When %s is 'true', each client ID/hash pair in %s must have a corresponding salt in %s. %s has %d, but %s has %d. Ensure both lists are comma-delimited.",
				VarHashSecret, VarClientIDsWithSecrets, VarSalts,
				VarClientIDsWithSecrets, len(clients), VarSalts, len(cfg.Route.Salts)), VarSalts)
		}
	}

	// A bad path would make route registration panic.
	for _, p := range pathProblems(cfg.Paths) {
		addError(p.Message, p.Var)
		fatal = append(fatal, errors.New(p.Message))
	}

	for _, p := range fieldNameProblems(cfg.Route.FieldNames) {
		addError(p.Message, p.Var)
	}

	if len(fatal) > 0 {
		return result, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(fatal...))
	}
	return result, nil
}

type namedValue struct {
	envVar string
	value  string
}

// pathProblems checks that every endpoint path is usable as a ServeMux
// pattern and that no two endpoints share one. An empty metrics path turns
// the endpoint off and is skipped.
func pathProblems(paths httpapi.Paths) []domain.EnvProblem {
	entries := []namedValue{
		{VarCodePath, paths.Code},
		{VarTokenPath, paths.Token},
		{VarUserInfoPath, paths.UserInfo},
		{VarHealthPath, paths.Health},
		{VarEnvHealthPath, paths.EnvHealth},
		{VarMetricsPath, paths.Metrics},
	}

	var problems []domain.EnvProblem
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.envVar == VarMetricsPath && e.value == "" {
			continue
		}
		if !validPath(e.value) {
			problems = append(problems, domain.EnvProblem{
				Message: fmt.Sprintf("The %s environment variable must be a path starting with '/', without spaces or braces: %s",
					e.envVar, e.value),
				Var: e.envVar,
			})
			continue
		}
		if other, ok := seen[e.value]; ok {
			problems = append(problems, domain.EnvProblem{
				Message: fmt.Sprintf("%s and %s must be different paths, but both are %s.", other, e.envVar, e.value),
				Var:     e.envVar,
			})
			continue
		}
		seen[e.value] = e.envVar
	}
	return problems
}

func validPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.ContainsAny(p, "{} \t\r\n") {
		return false
	}
	_, err := url.PathUnescape(p)
	return err == nil
}

// fieldNameProblems rejects ID token claim names that would clash with the
// claims the signer writes itself, or with each other.
func fieldNameProblems(names domain.IDTokenFieldNames) []domain.EnvProblem {
	entries := []namedValue{
		{VarNameField, names.Name},
		{VarUsernameField, names.Username},
		{VarFirstNameField, names.FirstName},
		{VarMiddleNameField, names.MiddleName},
		{VarLastNameField, names.LastName},
		{VarEmailField, names.Email},
	}

	var problems []domain.EnvProblem
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if service.IsReservedClaim(e.value) {
			problems = append(problems, domain.EnvProblem{
				Message: fmt.Sprintf("The %s environment variable names the reserved ID token claim '%s'.", e.envVar, e.value),
				Var:     e.envVar,
			})
			continue
		}
		if other, ok := seen[e.value]; ok {
			problems = append(problems, domain.EnvProblem{
				Message: fmt.Sprintf("%s and %s must name different claims, but both are '%s'.", other, e.envVar, e.value),
				Var:     e.envVar,
			})
			continue
		}
		seen[e.value] = e.envVar
	}
	return problems
}

// invalidRedirectURIs returns the entries that are not absolute URLs once
// percent-decoded.
func invalidRedirectURIs(uris []string) []string {
	var invalid []string
	for _, raw := range uris {
		decoded, err := url.PathUnescape(raw)
		if err != nil || !utf8.ValidString(decoded) {
			invalid = append(invalid, raw)
			continue
		}
		u, err := url.Parse(decoded)
		if err != nil || u.Scheme == "" {
			invalid = append(invalid, raw)
		}
	}
	return invalid
}
