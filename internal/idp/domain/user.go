package domain

import (
	"slices"

	"github.com/aussiebroadwan/devssoidp/pkg/opaque"
)

// Subject is the "sub" of every ID token. There is exactly one user.
const Subject = "tuser"

// Claim is a single user-info claim. Records are ordered lists of claims so
// that ID token payloads come out in a fixed order.
type Claim struct {
	Key   string
	Value any
}

// Address is the OIDC structured address claim.
type Address struct {
	Formatted     string `json:"formatted"`
	StreetAddress string `json:"street_address"`
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// Profile holds the fields of the static user that ID tokens can carry.
var Profile = struct {
	Name              string
	FamilyName        string
	GivenName         string
	MiddleName        string
	PreferredUsername string
	Email             string
}{
	Name:              "Test User",
	FamilyName:        "User",
	GivenName:         "Test",
	MiddleName:        "Em",
	PreferredUsername: Subject,
	Email:             "tuser@example.com",
}

var (
	profileInfo = []Claim{
		{"name", Profile.Name},
		{"family_name", Profile.FamilyName},
		{"given_name", Profile.GivenName},
		{"middle_name", Profile.MiddleName},
		{"nickname", "Testy"},
		{"preferred_username", Profile.PreferredUsername},
		{"profile", "https://example.com/user/tuser/profile.html"},
		{"photo", "https://example.com/user/tuser/image.jpg"},
		{"website", "https://example-tuser.com"},
		{"gender", "female"},
		{"birthdate", "1970-01-01"},
		{"zoneinfo", "America/Chicago"},
		{"locale", "en-US"},
		{"updated_at", 1728929831},
	}
	emailInfo = []Claim{
		{"email", Profile.Email},
		{"email_verified", true},
	}
	addressInfo = []Claim{
		{"address", Address{
			Formatted:     "248 Live Oak Lane\nAustin, TX 78787\nUnited States",
			StreetAddress: "248 Live Oak Lane",
			Locality:      "Austin",
			Region:        "TX",
			PostalCode:    "78787",
			Country:       "United States",
		}},
	}
	phoneInfo = []Claim{
		{"phone_number", "+1 (555) 555-5555"},
		{"phone_number_verified", true},
	}
)

// ScopeInfo returns the user-info record released by scope, or nil when the
// scope releases nothing.
func ScopeInfo(scope string) []Claim {
	switch scope {
	case opaque.ScopeProfile:
		return profileInfo
	case opaque.ScopeEmail:
		return emailInfo
	case opaque.ScopeAddress:
		return addressInfo
	case opaque.ScopePhone:
		return phoneInfo
	}
	return nil
}

// UserInfo merges the records released by scopes. Later scopes win on
// key collisions.
func UserInfo(scopes []string) map[string]any {
	out := map[string]any{}
	for _, s := range scopes {
		for _, c := range ScopeInfo(s) {
			out[c.Key] = c.Value
		}
	}
	return out
}

// IDTokenClaims returns the user claims an ID token carries for scopes,
// keyed by names, in the order name, username, first, middle, last, email.
func IDTokenClaims(scopes []string, names IDTokenFieldNames) []Claim {
	var out []Claim
	if slices.Contains(scopes, opaque.ScopeProfile) {
		out = append(out,
			Claim{names.Name, Profile.Name},
			Claim{names.Username, Profile.PreferredUsername},
			Claim{names.FirstName, Profile.GivenName},
			Claim{names.MiddleName, Profile.MiddleName},
			Claim{names.LastName, Profile.FamilyName},
		)
	}
	if slices.Contains(scopes, opaque.ScopeEmail) {
		out = append(out, Claim{names.Email, Profile.Email})
	}
	return out
}
