package httpx

import "context"

type ctxKey string

const CtxKeyScopes ctxKey = "scopes"

// ScopesFromContext returns the scopes granted by the bearer token that
// authenticated the request.
func ScopesFromContext(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}

func contextWithScopes(ctx context.Context, scopes []string) context.Context {
	return context.WithValue(ctx, CtxKeyScopes, scopes)
}
