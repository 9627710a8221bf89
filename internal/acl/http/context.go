// Package http provides HTTP middleware and handlers for the access-control
// surface: principal authentication, grant management and secret delivery.
package http

import (
	"context"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
)

// principalKey is a context key type for storing authenticated principals.
type principalKey struct{}

// WithPrincipal stores an authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal aclDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) when present, or (nil, false) when no
// authentication middleware has run.
func GetPrincipal(ctx context.Context) (aclDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(aclDomain.Principal)
	return principal, ok
}
