package domain

import "strings"

// ClientCredential is one configured relying party. Secret is empty for
// clients configured without one.
type ClientCredential struct {
	ClientID string
	Secret   string
}

// SplitList splits a comma-delimited configuration value. An empty value
// yields no entries; entries are not trimmed.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ParseClientCredentials reads the configured clients. Pairs
// ("id:secret,...") take precedence over bare ids ("id,..."); each pair is
// split once on the first ':'.
func ParseClientCredentials(clientIDs, clientIDsWithSecrets string) []ClientCredential {
	if clientIDsWithSecrets != "" {
		pairs := SplitList(clientIDsWithSecrets)
		out := make([]ClientCredential, 0, len(pairs))
		for _, pair := range pairs {
			id, secret, _ := strings.Cut(pair, ":")
			out = append(out, ClientCredential{ClientID: id, Secret: secret})
		}
		return out
	}

	ids := SplitList(clientIDs)
	out := make([]ClientCredential, 0, len(ids))
	for _, id := range ids {
		out = append(out, ClientCredential{ClientID: id})
	}
	return out
}

// ClientIDs returns just the ids of creds, in configuration order.
func ClientIDs(creds []ClientCredential) []string {
	ids := make([]string, len(creds))
	for i, c := range creds {
		ids[i] = c.ClientID
	}
	return ids
}
