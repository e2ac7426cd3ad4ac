package auth

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("role not permitted")
)

type Role string

const (
	RoleAnalyst Role = "Analyst"
	RoleTester  Role = "Tester"
	RoleViewer  Role = "Viewer"
)

// Roles lists every assignable role.
var Roles = []Role{RoleAnalyst, RoleTester, RoleViewer}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Principal is the request-scoped identity. It replaces ambient session
// state: callers pass it down via context rather than reading globals.
type Principal struct {
	Authenticated bool
	Username      string
	Role          Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the principal, or an unauthenticated zero
// value when none was attached.
func PrincipalFromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Principal{}
	}
	if principal, ok := ctx.Value(principalKey{}).(Principal); ok {
		return principal
	}
	return Principal{}
}

// HasRole reports whether the context principal is authenticated and holds
// one of the given roles.
func HasRole(ctx context.Context, roles ...Role) bool {
	principal := PrincipalFromContext(ctx)
	if !principal.Authenticated {
		return false
	}
	for _, role := range roles {
		if principal.Role == role {
			return true
		}
	}
	return false
}

// RequireRole distinguishes missing authentication from an insufficient
// role so callers can map the two onto different responses.
func RequireRole(ctx context.Context, roles ...Role) error {
	principal := PrincipalFromContext(ctx)
	if !principal.Authenticated {
		return ErrUnauthenticated
	}
	for _, role := range roles {
		if principal.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
