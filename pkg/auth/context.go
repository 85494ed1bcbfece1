package auth

import (
	"context"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// PrincipalKey is the context key for the resolved caller.
	PrincipalKey contextKey = "principal"
	// ClaimsKey is the context key for validated JWT claims.
	ClaimsKey contextKey = "claims"
	// AuthenticatedKey marks callers who presented a session or token.
	AuthenticatedKey contextKey = "authenticated"
)

// WithPrincipal stores the resolved caller on ctx.
func WithPrincipal(ctx context.Context, p *models.Principal, authenticated bool) context.Context {
	ctx = context.WithValue(ctx, PrincipalKey, p)
	return context.WithValue(ctx, AuthenticatedKey, authenticated)
}

// GetPrincipal returns the caller, falling back to the demo principal when
// the middleware did not run.
func GetPrincipal(ctx context.Context) *models.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*models.Principal); ok && p != nil {
		return p
	}
	return models.DemoPrincipal()
}

// IsAuthenticated reports whether the caller logged in (session or bearer token).
func IsAuthenticated(ctx context.Context) bool {
	ok, _ := ctx.Value(AuthenticatedKey).(bool)
	return ok
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if the caller did not present a bearer token.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok && claims != nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
