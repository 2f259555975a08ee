package domain

// RouteParams is the token-route behaviour chosen at startup. It is built
// once and passed by value; nothing mutates it afterwards.
type RouteParams struct {
	Issuer                   string
	IDTokenExpirationSeconds int

	// Clients are the configured relying parties in configuration order.
	// Salts line up with Clients by index when secrets are hashed.
	Clients []ClientCredential
	Salts   []string

	MustUseCredentials              bool
	MustHashSecret                  bool
	MustCheckRedirectURI            bool
	MustCheckClientID               bool
	IncludeExpiresInInTokenResponse bool
	EnableRefreshTokens             bool
	ExcludeUserInfoFromIDToken      bool

	FieldNames IDTokenFieldNames
}

// GrantTypes lists the grant types the token route accepts.
func (p RouteParams) GrantTypes() []string {
	if p.EnableRefreshTokens {
		return []string{GrantTypeAuthorizationCode, GrantTypeRefreshToken}
	}
	return []string{GrantTypeAuthorizationCode}
}

// IDTokenFieldNames maps claim roles to the claim keys written into ID
// tokens.
type IDTokenFieldNames struct {
	Name       string
	Username   string
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
}

// DefaultIDTokenFieldNames are the standard OIDC claim names.
func DefaultIDTokenFieldNames() IDTokenFieldNames {
	return IDTokenFieldNames{
		Name:       "name",
		Username:   "preferred_username",
		FirstName:  "given_name",
		MiddleName: "middle_name",
		LastName:   "family_name",
		Email:      "email",
	}
}

// WithDefaults fills empty names from DefaultIDTokenFieldNames.
func (f IDTokenFieldNames) WithDefaults() IDTokenFieldNames {
	d := DefaultIDTokenFieldNames()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return IDTokenFieldNames{
		Name:       pick(f.Name, d.Name),
		Username:   pick(f.Username, d.Username),
		FirstName:  pick(f.FirstName, d.FirstName),
		MiddleName: pick(f.MiddleName, d.MiddleName),
		LastName:   pick(f.LastName, d.LastName),
		Email:      pick(f.Email, d.Email),
	}
}
