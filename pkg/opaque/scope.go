package opaque

import (
	"fmt"
	"strings"
)

// Scope ties a scope name to its bit in the encoded scope field.
type Scope struct {
	Name string
	Bit  uint
}

// Standard scope names.
const (
	ScopeOpenID        = "openid"
	ScopeProfile       = "profile"
	ScopeEmail         = "email"
	ScopeAddress       = "address"
	ScopePhone         = "phone"
	ScopeOfflineAccess = "offline_access"
)

// Registry lists every representable scope in decode order.
//
// Bit indices are part of the wire format. Renumbering them silently changes
// the meaning of every token already issued, so only append.
var Registry = []Scope{
	{Name: ScopeOpenID, Bit: 0},
	{Name: ScopeProfile, Bit: 1},
	{Name: ScopeEmail, Bit: 2},
	{Name: ScopeAddress, Bit: 3},
	{Name: ScopePhone, Bit: 4},
	{Name: ScopeOfflineAccess, Bit: 5},
}

// ScopeFieldLength is the width of the hex scope field inside a token.
const ScopeFieldLength = 2

// EncodeScopes packs the registered scopes present in names into a
// zero-padded lowercase hex field. Unknown names are dropped.
func EncodeScopes(names []string) string {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var mask uint
	for _, s := range Registry {
		if _, ok := want[s.Name]; ok {
			mask |= 1 << s.Bit
		}
	}

	return fmt.Sprintf("%0*x", ScopeFieldLength, mask)
}

// DecodeScopes expands a hex scope field into scope names, in registry
// order. Parsing stops at the first non-hex character; a field with no
// leading hex digits decodes to no scopes.
func DecodeScopes(field string) []string {
	mask := parseHexPrefix(field)

	scopes := make([]string, 0, len(Registry))
	for _, s := range Registry {
		if mask&(1<<s.Bit) != 0 {
			scopes = append(scopes, s.Name)
		}
	}
	return scopes
}

// ParseScopeList splits a space-delimited scope string.
func ParseScopeList(s string) []string {
	return strings.Fields(s)
}

func parseHexPrefix(s string) uint {
	var v uint
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint
		switch {
		case c >= '0' && c <= '9':
			d = uint(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint(c-'A') + 10
		default:
			return v
		}
		v = v<<4 | d
	}
	return v
}
